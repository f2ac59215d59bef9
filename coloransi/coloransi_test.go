package coloransi

import "testing"

func TestStrip_RemovesEscapes(t *testing.T) {
	s := Color(ColorPurple, ColorOrange, "process-1234")
	if got := Strip(s); got != "process-1234" {
		t.Fatalf("unexpected visible text %q", got)
	}
}

func TestColorFrom_IsStable(t *testing.T) {
	if ColorFrom(42) != ColorFrom(42) {
		t.Fatalf("ColorFrom not deterministic")
	}
	if ColorFrom(0) == Black || ColorFrom(7) == Black {
		t.Fatalf("ColorFrom should never pick black")
	}
}

func TestOneForeground_RGB(t *testing.T) {
	if got := OneForeground(CreateRGB(1, 2, 3)); got != "\033[38;2;1;2;3m" {
		t.Fatalf("unexpected escape %q", got)
	}
	if got := OneForeground(Red); got != "\033[31m" {
		t.Fatalf("unexpected escape %q", got)
	}
}
