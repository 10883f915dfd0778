package internal

import (
	"bufio"
	"io"
	"strings"
)

// streamDataPrefix marks payload lines in the server-sent event stream.
// The six-character prefix is stripped exactly; everything after it is
// yielded verbatim, including an empty remainder.
const streamDataPrefix = "data: "

// Stream is one live streaming chat response. It is pull-driven: the next
// network read happens when the consumer asks for the next fragment. A
// Stream is not restartable; open a new one per request.
type Stream struct {
	body     io.ReadCloser
	scanner  *bufio.Scanner
	classify func(error) error // maps mid-stream read failures onto the error taxonomy
	closed   bool
}

// NewStream wraps a response body in a fragment decoder
func NewStream(body io.ReadCloser) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{body: body, scanner: scanner}
}

// Recv returns the next text fragment. Lines without the data prefix are
// ignored. Returns io.EOF when the stream ends.
func (s *Stream) Recv() (string, error) {
	if s.closed {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}
		return line[len(streamDataPrefix):], nil
	}
	err := s.scanner.Err()
	s.Close()
	if err != nil {
		if s.classify != nil {
			return "", s.classify(err)
		}
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying connection. Safe to call more than once,
// and safe to call before the stream is drained (early termination).
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// Collect drains the stream and returns the concatenated response text.
// The result equals what a buffered chat call would have returned.
func (s *Stream) Collect() (string, error) {
	defer s.Close()
	var b strings.Builder
	for {
		fragment, err := s.Recv()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(fragment)
	}
}
