package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLevelFromEnv(t *testing.T) {
	cases := []struct {
		env  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		t.Setenv("WORKROOM_LOG_LEVEL", tc.env)
		if got := levelFromEnv(); got != tc.want {
			t.Fatalf("level for %q: got %v want %v", tc.env, got, tc.want)
		}
	}
}

func TestNewTagsComponent(t *testing.T) {
	t.Setenv("WORKROOM_LOG_LEVEL", "")
	log := New("workroom")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("default level: got %v", log.GetLevel())
	}
}
