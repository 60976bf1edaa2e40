package nextgfx

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FramePlaceholder is replaced by the frame number in output paths.
const FramePlaceholder = "{frame}"

// IsTemplate reports whether output contains the frame placeholder.
func IsTemplate(output string) bool {
	return strings.Contains(output, FramePlaceholder)
}

// Template substitutes the frame number into output.
func Template(output string, frame int) string {
	return strings.ReplaceAll(output, FramePlaceholder, strconv.Itoa(frame))
}

// DefaultOutput replaces the extension of input with suffix.
func DefaultOutput(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

type countingWriter struct {
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	cw.n += int64(len(p))
	return len(p), nil
}

// staged is an output written to a temporary file next to its final path.
type staged struct {
	file string
	tmp  string
	size int64
	sum  string
}

// stage writes fn's output to a temporary file in the directory of file.
// The temporary file is removed again if fn or the close fails. It records
// the size and SHA-1 of what was written.
func stage(file string, fn func(io.Writer) error) (s *staged, err error) {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
			s = nil
		}
	}()

	if err = f.Chmod(0o644); err != nil {
		return nil, err
	}

	h := sha1.New()
	cw := new(countingWriter)
	if err = fn(io.MultiWriter(f, h, cw)); err != nil {
		return nil, err
	}

	return &staged{
		file: file,
		tmp:  f.Name(),
		size: cw.n,
		sum:  fmt.Sprintf("%X", h.Sum(nil)),
	}, nil
}

func (s *staged) commit() error {
	return os.Rename(s.tmp, s.file)
}

func (s *staged) discard() {
	os.Remove(s.tmp)
}
