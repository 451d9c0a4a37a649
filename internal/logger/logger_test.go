package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newBufferedLogger(component string, verbose bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := NewWithCallback(component, func() bool { return verbose })
	log.SetWriter(&buf)
	return log, &buf
}

func TestDebugAndInfoAreVerboseGated(t *testing.T) {
	log, buf := newBufferedLogger("test", false)

	log.Debug("hidden debug")
	log.Info("hidden info")
	if buf.Len() != 0 {
		t.Errorf("Expected no output without verbose, got %q", buf.String())
	}

	log, buf = newBufferedLogger("test", true)
	log.Info("fetched %d rows", 3)
	if !strings.Contains(buf.String(), "INFO") || !strings.Contains(buf.String(), "fetched 3 rows") {
		t.Errorf("Expected a formatted info line, got %q", buf.String())
	}
}

func TestNilCallbackMeansNeverVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithCallback("test", nil)
	log.SetWriter(&buf)

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output with a nil callback, got %q", buf.String())
	}
}

func TestWarnAndErrorAlwaysPrint(t *testing.T) {
	log, buf := newBufferedLogger("test", false)

	log.Warn("watch out")
	log.Error("it broke: %v", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "watch out") {
		t.Errorf("Expected the warning regardless of verbosity, got %q", out)
	}
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "it broke: boom") {
		t.Errorf("Expected the error regardless of verbosity, got %q", out)
	}
}

func TestWithComponentRetagsLines(t *testing.T) {
	log, buf := newBufferedLogger("watch", true)

	log.WithComponent("watch.upload").Info("upload complete")
	if !strings.Contains(buf.String(), "[watch.upload]") {
		t.Errorf("Expected the derived component tag, got %q", buf.String())
	}
}

func TestInfoWithFieldsAppendsPairs(t *testing.T) {
	log, buf := newBufferedLogger("watch", true)

	log.InfoWithFields("upload complete", []Field{
		F("file", "laps.csv"),
		F("id", 7),
		Err(errors.New("partial")),
	})

	out := buf.String()
	for _, want := range []string{"file=laps.csv", "id=7", "error=partial"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in the line, got %q", want, out)
		}
	}
}
