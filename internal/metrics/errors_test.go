package metrics

import "testing"

func TestFriendlyErrorName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"*url.Error", "Request URL error"},
		{"*net.OpError", "Network error"},
		{"context.deadlineExceededError", "Context deadline exceeded"},
		{"*errors.errorString", "Request error"},
		{"", "Unknown error"},
		{"main.customError", "Custom error"},
		{"*mypkg.WeirdThing", "Weird thing (mypkg)"},
		{"github.com/some/pkg.TimeoutError", "Timeout error (pkg)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FriendlyErrorName(tt.input); got != tt.want {
				t.Errorf("FriendlyErrorName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"deadlineExceededError", "Deadline exceeded error"},
		{"Error", "Error"},
		{"OpError", "Op error"},
	}
	for _, tt := range tests {
		if got := splitCamelCase(tt.input); got != tt.want {
			t.Errorf("splitCamelCase(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
