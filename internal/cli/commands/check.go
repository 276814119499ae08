package commands

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logdelta/pkg/config"
	"github.com/ccollicutt/logdelta/pkg/parser"
)

// printResolvedConfig writes the settings a run would use, as YAML that can
// be saved and passed back with --config.
func printResolvedConfig(w io.Writer, cfg *config.Config, args []string) error {
	input := parser.StdinName
	if len(args) > 0 {
		input = args[0]
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering settings: %w", err)
	}

	if _, err := fmt.Fprintf(w, "# input: %s\n", input); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
