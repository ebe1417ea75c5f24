package display

import (
	"bytes"
	"testing"
)

func TestNewProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	pi := NewProgressIndicator(&buf, "Checking", 3)

	if pi.total != 3 {
		t.Errorf("total = %d, want 3", pi.total)
	}
	if pi.current != 0 {
		t.Errorf("current = %d, want 0", pi.current)
	}
}

func TestProgressIndicator_AllPresent(t *testing.T) {
	var buf bytes.Buffer
	pi := NewProgressIndicator(&buf, "Checking input paths", 2)

	pi.Start()
	pi.Step("backend/routes", true)
	pi.Step("frontend/src", true)
	pi.Complete()

	want := "Checking input paths:\n" +
		"  [1/2] backend/routes ok\n" +
		"  [2/2] frontend/src ok\n" +
		"✓ 2 of 2 present\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
	if pi.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0", pi.Failed())
	}
}

func TestProgressIndicator_WithMissing(t *testing.T) {
	var buf bytes.Buffer
	pi := NewProgressIndicator(&buf, "Checking input paths", 3)

	pi.Start()
	pi.Step("backend/routes", true)
	pi.Step("backend/config", false)
	pi.Step("frontend/src", false)
	pi.Complete()

	want := "Checking input paths:\n" +
		"  [1/3] backend/routes ok\n" +
		"  [2/3] backend/config missing\n" +
		"  [3/3] frontend/src missing\n" +
		"! 1 of 3 present, 2 missing\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
	if pi.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", pi.Failed())
	}
}
