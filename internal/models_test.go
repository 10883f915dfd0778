package internal

import "testing"

func TestChatResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp ChatResponse
		want string
	}{
		{"response field", ChatResponse{Response: "hi"}, "hi"},
		{"message fallback", ChatResponse{Message: "hello"}, "hello"},
		{"response wins over message", ChatResponse{Response: "a", Message: "b"}, "a"},
		{"both empty", ChatResponse{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
