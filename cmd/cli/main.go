// logdelta - Elapsed Time Annotation for JSON Logs
//
// logdelta reads newline-delimited JSON log records and adds the
// milliseconds elapsed since the previous record and since the first one.
package main

import (
	"os"

	"github.com/ccollicutt/logdelta/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
