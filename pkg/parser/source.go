package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// MaxLineSize bounds how many bytes are held while waiting for a newline.
// A longer run without a newline is emitted as-is.
const MaxLineSize = 1024 * 1024

// DefaultPollInterval is the pause between empty reads.
const DefaultPollInterval = 10 * time.Millisecond

const readChunkSize = 4096

// StreamSource implements LineSource over a byte stream such as a serial
// port. Reads that return no data are retried after the poll interval,
// which lets timeout-based readers hand control back so cancellation can
// be observed between reads.
type StreamSource struct {
	r      io.Reader
	name   string
	poll   time.Duration
	closer io.Closer

	pending []byte
	chunk   []byte
	lineNum int
	eof     bool
}

// StreamOption configures a StreamSource.
type StreamOption func(*StreamSource)

// WithPollInterval sets the pause between empty reads.
func WithPollInterval(d time.Duration) StreamOption {
	return func(s *StreamSource) {
		if d > 0 {
			s.poll = d
		}
	}
}

// WithCloser makes Close release c (typically the port the reader wraps).
func WithCloser(c io.Closer) StreamOption {
	return func(s *StreamSource) {
		s.closer = c
	}
}

// NewStreamSource creates a LineSource reading newline-delimited text
// from r. name is reported as the Source of every line.
func NewStreamSource(r io.Reader, name string, opts ...StreamOption) *StreamSource {
	s := &StreamSource{
		r:     r,
		name:  name,
		poll:  DefaultPollInterval,
		chunk: make([]byte, readChunkSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next non-empty line. Returns io.EOF once the reader is
// exhausted and any trailing partial line has been returned.
func (s *StreamSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			raw := s.pending[:i]
			s.pending = s.pending[i+1:]
			if line := s.decode(raw); line != nil {
				return line, nil
			}
			continue
		}

		if len(s.pending) >= MaxLineSize || (s.eof && len(s.pending) > 0) {
			raw := s.pending
			s.pending = nil
			if line := s.decode(raw); line != nil {
				return line, nil
			}
			continue
		}

		if s.eof {
			return nil, io.EOF
		}

		n, err := s.r.Read(s.chunk)
		if n > 0 {
			s.pending = append(s.pending, s.chunk[:n]...)
		}
		if err == io.EOF {
			s.eof = true
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		if n == 0 {
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
		}
	}
}

func (s *StreamSource) wait(ctx context.Context) error {
	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// decode converts raw bytes to a Line. Invalid UTF-8 is dropped rather
// than replaced. Returns nil for blank lines.
func (s *StreamSource) decode(raw []byte) *Line {
	s.lineNum++
	text := strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
	if text == "" {
		return nil
	}
	return &Line{
		Content: text,
		Source:  s.name,
		LineNum: s.lineNum,
	}
}

// Close releases the underlying closer, if any.
func (s *StreamSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// FileSource implements LineSource over a sequence of captured device
// output files, read one after another.
type FileSource struct {
	files []string

	current   *StreamSource
	fileIndex int
}

// NewFileSource creates a LineSource that reads the given files in order.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next line across all files.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.current == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		line, err := s.current.Next(ctx)
		if err == nil {
			return line, nil
		}
		if err != io.EOF {
			return nil, err
		}

		if err := s.closeCurrent(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrent()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening capture file %s: %w", path, err)
	}

	s.current = NewStreamSource(f, path, WithCloser(f))
	return nil
}

func (s *FileSource) closeCurrent() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
