package tempo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// captureLog routes the package logger into a buffer for the test.
func captureLog(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger
	SetLogger(zerolog.New(&buf).Level(level))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func TestDebugLogWritesStats(t *testing.T) {
	buf := captureLog(t, zerolog.DebugLevel)
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	s.Tweens.Start(nil, PropTimer, CurveLinear, 0, 0, 1, nil)
	s.Update(0.1)

	out := buf.String()
	for _, want := range []string{`"message":"update"`, `"steps":3`, `"tweens":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %s", out, want)
		}
	}
}

func TestDebugLogSilentWhenDisabled(t *testing.T) {
	buf := captureLog(t, zerolog.DebugLevel)
	s := NewScene()
	s.Update(0.1)
	if strings.Contains(buf.String(), `"message":"update"`) {
		t.Errorf("stats logged with debug off: %s", buf.String())
	}
}

func TestWarnRateLimited(t *testing.T) {
	buf := captureLog(t, zerolog.WarnLevel)
	prev := warnLimiter
	warnLimiter = rate.NewLimiter(0, 2)
	defer func() { warnLimiter = prev }()

	e := NewTweenEngine(1)
	e.Start(nil, PropTimer, CurveLinear, 0, 0, 0, func() {
		for i := 0; i < 5; i++ {
			e.Advance(0)
		}
	})
	e.Advance(0)

	if got := strings.Count(buf.String(), "reentrant Advance ignored"); got != 2 {
		t.Errorf("warnings = %d, want 2 (rate limited)", got)
	}
}

func TestNewConsoleLogger(t *testing.T) {
	l := NewConsoleLogger(zerolog.WarnLevel)
	if l.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}
