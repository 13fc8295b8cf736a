package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestRecoverFilename(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ascii unchanged",
			input: "track01.mp3",
			want:  "track01.mp3",
		},
		{
			name:  "latin1 misread of utf-8",
			input: "naÃ¯ve.mp3",
			want:  "naïve.mp3",
		},
		{
			name:  "cyrillic misread of utf-8",
			input: "Ð\u009fÐµÑ\u0081Ð½Ñ\u008f.mp3",
			want:  "Песня.mp3",
		},
		{
			name:  "already utf-8 outside latin1",
			input: "Песня.mp3",
			want:  "Песня.mp3",
		},
		{
			name:  "genuine latin1 stays",
			input: "café.mp3",
			want:  "café.mp3",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecoverFilename(tt.input); got != tt.want {
				t.Errorf("RecoverFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		SetLogLevel(logger, "WARN")
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		SetLogLevel(logger, "nonsense")
		if logger.GetLevel() != log.InfoLevel {
			t.Errorf("expected fallback to info, got %v", logger.GetLevel())
		}
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected key-value pair in output, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected unique ids")
	}
}
