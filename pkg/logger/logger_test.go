package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "debug", Output: &first})
	Init(Options{Level: "error", Output: &second})

	l := Get()
	l.Debug().Msg("hello")
	if !strings.Contains(first.String(), `"message":"hello"`) {
		t.Fatalf("expected debug line in first writer, got %q", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("second Init must be ignored")
	}
}

func TestComponent_TagsLines(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	l := Component(Get(), "backend")
	l.Info().Msg("ready")
	if !strings.Contains(buf.String(), `"component":"backend"`) {
		t.Fatalf("missing component field: %q", buf.String())
	}
}

func TestComponent_KeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	parent := zerolog.New(&buf).With().Str("client_id", "abc").Logger()
	l := Component(parent, "routes")
	l.Info().Msg("matched")
	out := buf.String()
	if !strings.Contains(out, `"client_id":"abc"`) || !strings.Contains(out, `"component":"routes"`) {
		t.Fatalf("expected parent and component fields, got %q", out)
	}
}

func TestComponent_NopParentIsSilent(t *testing.T) {
	l := Component(zerolog.Nop(), "x")
	l.Error().Msg("dropped")
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
