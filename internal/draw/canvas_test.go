package draw

import (
	"strings"
	"testing"
)

func lit(c *Canvas) int {
	n := 0
	for _, p := range c.pixels {
		if p != InkNone {
			n++
		}
	}
	return n
}

func TestRenderMixesHalves(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetInk(InkGreen)
	c.SetFloat(0, 0)
	c.SetFloat(1, 0)
	c.SetFloat(1, 1)
	c.SetInk(InkRed)
	c.SetFloat(0, 1)

	var out strings.Builder
	c.Render(&out)
	got := out.String()

	// Green over red shares one cell.
	if !strings.Contains(got, "\033[1;1H\033[92;101m▀") {
		t.Errorf("mixed cell missing in %q", got)
	}
	if !strings.Contains(got, "\033[1;2H\033[92;49m█") {
		t.Errorf("full cell missing in %q", got)
	}
	if !strings.HasSuffix(got, sgrReset) {
		t.Errorf("render does not reset attributes: %q", got)
	}
}

func TestRenderEmitsColourOnChange(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.SetInk(InkGold)
	c.FillRect(0, 0, 3, 2)

	var out strings.Builder
	c.Render(&out)
	if n := strings.Count(out.String(), "\033[93;"); n != 1 {
		t.Errorf("colour emitted %d times, want 1", n)
	}
}

func TestRenderEmptyCanvas(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out strings.Builder
	c.Render(&out)
	if out.Len() != 0 {
		t.Errorf("empty canvas rendered %q", out.String())
	}
}

func TestLowerHalfUsesForeground(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetInk(InkCyan)
	c.SetFloat(0, 1)

	var out strings.Builder
	c.Render(&out)
	if !strings.Contains(out.String(), "\033[96;49m▄") {
		t.Errorf("lower half = %q", out.String())
	}
}

func TestFillRectChecker(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRectChecker(0, 0, 4, 4)
	if n := lit(c); n != 8 {
		t.Fatalf("lit = %d, want 8", n)
	}
	at := func(x, y int) Ink { return c.pixels[y*c.termWidth+x] }
	if at(0, 0) == InkNone || at(1, 0) != InkNone || at(1, 1) == InkNone {
		t.Errorf("pattern is not a checkerboard: %v", c.pixels)
	}

	c.Clear()
	c.FillRectChecker(0, 0, 0, 4)
	if n := lit(c); n != 0 {
		t.Errorf("empty rect lit %d pixels", n)
	}
}

func TestInkNoneErases(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetInk(InkGreen)
	c.FillRect(0, 0, 4, 4)
	c.SetInk(InkNone)
	c.FillRect(0, 0, 2, 4)
	if n := lit(c); n != 8 {
		t.Errorf("lit = %d, want 8", n)
	}
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetOffset(3, 2)
	c.FillRect(0, 0, 1, 2)

	var out strings.Builder
	c.Render(&out)
	if !strings.HasPrefix(out.String(), "\033[3;4H") {
		t.Errorf("render = %q", out.String())
	}

	out.Reset()
	c.RenderBorder(&out)
	if !strings.Contains(out.String(), "┌─┐") {
		t.Errorf("border = %q", out.String())
	}
}
