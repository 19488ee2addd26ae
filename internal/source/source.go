// Package source opens log files as sequential line sources.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/farcloser/primordium/fault"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

var (
	// ErrSourceNotFound means the path does not resolve to a readable file.
	ErrSourceNotFound = errors.New("log file not found")
	// ErrSourceUnopenable means the file exists but could not be opened.
	ErrSourceUnopenable = errors.New("unable to open log file")
)

// File reads one log file line by line. Each line keeps its terminator;
// a final line without one is returned as-is.
type File struct {
	path string
	f    *os.File
	r    *bufio.Reader
}

// Open checks that path names a regular file and opens it for reading.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnopenable, path, err)
	}

	return &File{path: path, f: f, r: bufio.NewReader(f)}, nil
}

// Path returns the path the file was opened with.
func (s *File) Path() string {
	return s.path
}

// Next returns the next line, or io.EOF once the file is exhausted.
func (s *File) Next() (model.RawLine, error) {
	text, err := s.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return model.RawLine{}, fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, s.path, err)
	}
	if text == "" {
		return model.RawLine{}, io.EOF
	}
	return model.RawLine{Text: text, Source: s.path}, nil
}

// Close releases the underlying file handle.
func (s *File) Close() error {
	return s.f.Close()
}

// Expand resolves each pattern to the files it names, in order. Recursive
// patterns like /var/log/**/*.log are supported. A pattern naming an
// existing regular file is taken literally, even if it contains glob
// characters. A pattern that names no file yields ErrSourceNotFound.
func Expand(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.Mode().IsRegular() {
			paths = append(paths, pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, pattern)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
