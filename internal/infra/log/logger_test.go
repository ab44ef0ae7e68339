package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Level(t *testing.T) {
	l, err := New("warn", false)
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn must be enabled")
	}
}

func TestNew_BadLevelFallsBack(t *testing.T) {
	l := Must("loud", true)
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("fallback level must be info")
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug must be off after fallback")
	}
}

func TestSubject_IsStableAndOpaque(t *testing.T) {
	a := Subject("admin")
	b := Subject("admin")
	if a.String != b.String {
		t.Fatal("digest must be stable")
	}
	if a.String == "admin" || len(a.String) != 16 {
		t.Fatalf("unexpected digest %q", a.String)
	}
}
