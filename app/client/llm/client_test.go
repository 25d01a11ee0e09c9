package llm

import "testing"

func TestStripFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"intent": "general_chat"}`, `{"intent": "general_chat"}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := StripFence(tt.in); got != tt.want {
			t.Errorf("StripFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
