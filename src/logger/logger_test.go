package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLogger_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("prod", &buf).WithField("tracker_id", "TXN-ABC123")
	l.Errorf("update failed: %s", "boom")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "error" {
		t.Errorf("expected level error, got %v", line["level"])
	}
	if line["message"] != "update failed: boom" {
		t.Errorf("unexpected message %v", line["message"])
	}
	if line["tracker_id"] != "TXN-ABC123" {
		t.Errorf("expected tracker_id field, got %v", line["tracker_id"])
	}
}

func TestLogger_Nop(t *testing.T) {
	// must not panic
	Nop().WithFields(map[string]interface{}{"a": 1}).Infof("ignored %d", 1)
}
