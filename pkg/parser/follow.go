package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// errFileGone signals that the followed file was removed or renamed.
var errFileGone = errors.New("followed file removed")

// FollowSource implements LineSource for a file that keeps growing, in the
// manner of tail -f. At end of file it blocks until the file is written to,
// removed, or the context is cancelled. A partial last line is held back
// until its newline arrives.
type FollowSource struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	watcher *fsnotify.Watcher

	pending []byte
	offset  int64
	lineNum int
	done    bool
}

// Follow opens the file at path and watches it for growth.
func Follow(path string) (*FollowSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		_ = f.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	return &FollowSource{
		path:    path,
		file:    f,
		reader:  bufio.NewReaderSize(f, 64*1024),
		watcher: watcher,
	}, nil
}

// Next returns the next complete line, waiting for more data at end of
// file. Returns io.EOF once the file has been removed and all of its data
// has been returned, and ctx.Err() when the context is cancelled.
func (s *FollowSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.done {
			return nil, io.EOF
		}

		chunk, err := s.reader.ReadBytes('\n')
		s.offset += int64(len(chunk))
		s.pending = append(s.pending, chunk...)

		if err == nil {
			return s.emit(), nil
		}
		if err != io.EOF {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}

		if err := s.wait(ctx); err != nil {
			if !errors.Is(err, errFileGone) {
				return nil, err
			}
			s.done = true
			if len(s.pending) == 0 {
				return nil, io.EOF
			}
			return s.emit(), nil
		}
	}
}

// Close stops watching and closes the file.
func (s *FollowSource) Close() error {
	werr := s.watcher.Close()
	ferr := s.file.Close()
	if werr != nil {
		return werr
	}
	return ferr
}

func (s *FollowSource) emit() *Line {
	s.lineNum++
	line := &Line{
		Raw:    trimEOL(s.pending),
		Source: s.path,
		Num:    s.lineNum,
	}
	s.pending = nil
	return line
}

// wait blocks until the file changes in a way that may make more data
// readable.
func (s *FollowSource) wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-s.watcher.Events:
			if !ok {
				return errFileGone
			}
			slog.Debug("followed file event", "path", event.Name, "op", event.Op.String())

			switch {
			case event.Has(fsnotify.Write):
				return s.checkTruncated()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				return errFileGone
			case event.Has(fsnotify.Chmod):
				// inotify reports unlinking a file we hold open as an attribute change.
				if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
					return errFileGone
				}
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return errFileGone
			}
			return fmt.Errorf("watching %s: %w", s.path, err)
		}
	}
}

// checkTruncated rewinds to the start of the file when it has shrunk below
// the current read offset.
func (s *FollowSource) checkTruncated() error {
	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.Size() >= s.offset {
		return nil
	}

	slog.Debug("followed file truncated, rewinding", "path", s.path, "size", info.Size(), "offset", s.offset)

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding %s: %w", s.path, err)
	}
	s.reader.Reset(s.file)
	s.offset = 0
	s.pending = nil
	return nil
}
