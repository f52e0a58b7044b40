package geom

import "testing"

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	c := r.Center()
	if c.X != 60 || c.Y != 45 {
		t.Errorf("Center() = %+v, want {60 45}", c)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{9, 9}, true},
		{Point{10, 10}, false},
		{Point{-1, 5}, false},
		{Point{5, 10}, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.p); got != c.want {
			t.Errorf("Contains(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	got := r.Inset(10, 10, 5, 5)
	want := Rect{X: 10, Y: 5, W: 80, H: 90}
	if got != want {
		t.Errorf("Inset() = %+v, want %+v", got, want)
	}
}

func TestRectInsetClampsToZero(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	got := r.Inset(20, 20, 20, 20)
	if got.W != 0 || got.H != 0 {
		t.Errorf("Inset() over-shrink = %+v, want W=0 H=0", got)
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(5, 0, 10); v != 5 {
		t.Errorf("Clamp(5,0,10) = %d, want 5", v)
	}
	if v := Clamp(-5, 0, 10); v != 0 {
		t.Errorf("Clamp(-5,0,10) = %d, want 0", v)
	}
	if v := Clamp(50, 0, 10); v != 10 {
		t.Errorf("Clamp(50,0,10) = %d, want 10", v)
	}
	if v := Clamp(5, 10, 0); v != 10 {
		t.Errorf("Clamp with lo>hi = %d, want lo (10)", v)
	}
}

func TestSplitVertical(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	left, right := Split(r, SplitVertical, 0.5)
	if left != (Rect{X: 0, Y: 0, W: 50, H: 50}) {
		t.Errorf("left = %+v", left)
	}
	if right != (Rect{X: 50, Y: 0, W: 50, H: 50}) {
		t.Errorf("right = %+v", right)
	}
}

func TestSplitHorizontal(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	top, bottom := Split(r, SplitHorizontal, 0.4)
	if top != (Rect{X: 0, Y: 0, W: 100, H: 20}) {
		t.Errorf("top = %+v", top)
	}
	if bottom != (Rect{X: 0, Y: 20, W: 100, H: 30}) {
		t.Errorf("bottom = %+v", bottom)
	}
}

func TestSplitClampsFraction(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	first, second := Split(r, SplitVertical, 1.5)
	if first.W != 100 || second.W != 0 {
		t.Errorf("fraction > 1 not clamped: first=%+v second=%+v", first, second)
	}
	first, second = Split(r, SplitVertical, -0.5)
	if first.W != 0 || second.W != 100 {
		t.Errorf("fraction < 0 not clamped: first=%+v second=%+v", first, second)
	}
}
