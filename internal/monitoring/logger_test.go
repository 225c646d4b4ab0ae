package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// A nil logger becomes a no-op, not a panic.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()
	Logf("test message: %s", "value")
}

func TestDebugf_GatedByEnv(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, format)
	})

	t.Setenv("FIRWATCH_DEBUG", "")
	Debugf("quiet")
	if len(captured) != 0 {
		t.Errorf("Debugf logged with FIRWATCH_DEBUG unset: %v", captured)
	}

	t.Setenv("FIRWATCH_DEBUG", "1")
	Debugf("loud")
	if len(captured) != 1 {
		t.Errorf("Debugf did not log with FIRWATCH_DEBUG set: %v", captured)
	}
}
