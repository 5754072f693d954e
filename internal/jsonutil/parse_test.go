package jsonutil

import (
	"errors"
	"testing"

	"github.com/kitbuilder587/ad-critic/internal/domain"
)

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n```json\n{\"a\":1}\n```\nThanks", `{"a":1}`},
		{"single line fence", "```{\"a\":1}```", `{"a":1}`},
		{"unterminated", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("StripMarkdownFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, false},
		{"surrounding text", `Sure! {"a":{"b":2}} hope it helps {}`, `{"a":{"b":2}}`, false},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, false},
		{"escaped quote", `{"a":"say \"}\" loud"}`, `{"a":"say \"}\" loud"}`, false},
		{"no object", `no json here`, "", true},
		{"unbalanced", `{"a":{"b":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrOracleParse) {
					t.Errorf("ExtractObject() error = %v, want ErrOracleParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractObject() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	type payload struct {
		Score float64  `json:"score"`
		Tags  []string `json:"tags"`
	}

	got, err := ParseObject[payload]("```json\n{\"score\": 0.8, \"tags\": [\"x\"]}\n```")
	if err != nil {
		t.Fatalf("ParseObject() error = %v", err)
	}
	if got.Score != 0.8 || len(got.Tags) != 1 {
		t.Errorf("ParseObject() = %+v", got)
	}

	for _, bad := range []string{"", "   ", "not json", `{"score": "high"}`, `{"score": 0.5,}`} {
		if _, err := ParseObject[payload](bad); !errors.Is(err, domain.ErrOracleParse) {
			t.Errorf("ParseObject(%q) error = %v, want ErrOracleParse", bad, err)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("abc", 5); got != "abc" {
		t.Errorf("Preview() = %q", got)
	}
	if got := Preview("abcdef", 3); got != "abc..." {
		t.Errorf("Preview() = %q", got)
	}
}
