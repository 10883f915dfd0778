package internal

import (
	"io"
	"strings"
	"testing"
)

type closeTrackingReader struct {
	io.Reader
	closed bool
}

func (r *closeTrackingReader) Close() error {
	r.closed = true
	return nil
}

func TestStreamDecodesDataLines(t *testing.T) {
	body := "data: Hello\ndata: , world\n:ignored\ndata: !\n"
	stream := NewStream(io.NopCloser(strings.NewReader(body)))

	var fragments []string
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		fragments = append(fragments, fragment)
	}

	want := []string{"Hello", ", world", "!"}
	if len(fragments) != len(want) {
		t.Fatalf("got %d fragments, want %d: %v", len(fragments), len(want), fragments)
	}
	for i := range want {
		if fragments[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, fragments[i], want[i])
		}
	}
	if joined := strings.Join(fragments, ""); joined != "Hello, world!" {
		t.Errorf("concatenation = %q, want %q", joined, "Hello, world!")
	}
}

func TestStreamYieldsEmptyPayload(t *testing.T) {
	// "data: " with nothing after the prefix is a legal, empty fragment
	stream := NewStream(io.NopCloser(strings.NewReader("data: \ndata: x\n")))

	fragment, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if fragment != "" {
		t.Errorf("first fragment = %q, want empty string", fragment)
	}

	fragment, err = stream.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if fragment != "x" {
		t.Errorf("second fragment = %q, want %q", fragment, "x")
	}
}

func TestStreamIgnoresNonDataLines(t *testing.T) {
	body := "event: message\nretry: 100\n\ndata: only\n"
	stream := NewStream(io.NopCloser(strings.NewReader(body)))

	text, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if text != "only" {
		t.Errorf("Collect = %q, want %q", text, "only")
	}
}

func TestStreamCloseReleasesBody(t *testing.T) {
	body := &closeTrackingReader{Reader: strings.NewReader("data: a\ndata: b\n")}
	stream := NewStream(body)

	// Early termination: consumer stops after the first fragment
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !body.closed {
		t.Error("underlying body not closed")
	}

	// Recv after Close reports end of stream
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("Recv after Close = %v, want io.EOF", err)
	}

	// Close is idempotent
	if err := stream.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestStreamEOFClosesBody(t *testing.T) {
	body := &closeTrackingReader{Reader: strings.NewReader("data: a\n")}
	stream := NewStream(body)

	for {
		if _, err := stream.Recv(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
	}
	if !body.closed {
		t.Error("body not closed after stream end")
	}
}
