package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug level should be enabled")
	}
	if _, err := New("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}
