// Package collect expands command-line inputs into the ordered file list that
// fixes the key of every input file.
package collect

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hupe1980/strucdb/internal/fs"
)

type options struct {
	logger *slog.Logger
}

// Option configures Collect.
type Option func(*options)

// WithLogger sets the logger that reports skipped directories.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Collect returns the files to ingest. A single directory argument is walked
// depth-first with an explicit stack and yields its regular files; any other
// input is returned as given, in argument order.
//
// Within a directory, files come before the contents of its subdirectories and
// both are visited in lexical order. Symlinks and other special files are
// skipped. A subdirectory that cannot be read is skipped with a warning; only
// an unreadable top-level directory is an error.
func Collect(fsys fs.FileSystem, paths []string, optFns ...Option) ([]string, error) {
	opts := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		fn(&opts)
	}
	if fsys == nil {
		fsys = fs.Default
	}
	if len(paths) != 1 {
		return append([]string(nil), paths...), nil
	}
	info, err := fsys.Stat(paths[0])
	if err != nil || !info.IsDir() {
		return []string{paths[0]}, nil
	}

	var (
		files []string
		stack = []string{paths[0]}
	)
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if dir == paths[0] {
				return nil, fmt.Errorf("collect %s: %w", dir, err)
			}
			opts.logger.Warn("skipping unreadable directory", "dir", dir, "error", err)
			continue
		}
		var subdirs []string
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				subdirs = append(subdirs, p)
			case e.Type().IsRegular():
				files = append(files, p)
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return files, nil
}
