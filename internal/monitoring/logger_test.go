package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	orig := Logf
	defer func() { Logf = orig }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("steps=%d", 10)
	if got != "steps=10" {
		t.Errorf("expected captured message, got %q", got)
	}

	SetLogger(nil)
	Logf("dropped %s", "message")
	if got != "steps=10" {
		t.Errorf("no-op logger still forwarded: %q", got)
	}
}
