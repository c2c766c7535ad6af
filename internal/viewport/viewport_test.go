package viewport

import (
	"math"
	"testing"

	"github.com/example/pixelpane/internal/model"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProjectionMapsCentreAndCorners(t *testing.T) {
	p := NewProjection(200, 100)
	m := p.Matrix()
	cases := []struct{ x, y, wx, wy float64 }{
		{0, 0, 100, 50},
		{-100, 50, 0, 0},
		{100, -50, 200, 100},
	}
	for _, c := range cases {
		wx, wy := Apply(m, c.x, c.y)
		if !near(wx, c.wx) || !near(wy, c.wy) {
			t.Fatalf("(%v,%v) -> (%v,%v), want (%v,%v)", c.x, c.y, wx, wy, c.wx, c.wy)
		}
	}
}

func TestProjectionBumpsOnlyOnChange(t *testing.T) {
	p := NewProjection(10, 10)
	p.SetWidth(10)
	p.SetHeight(10)
	if p.Generation() != 0 {
		t.Fatalf("unchanged size bumped generation")
	}
	p.SetWidth(20)
	p.SetHeight(30)
	if p.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", p.Generation())
	}
	if wx, _ := Apply(p.Matrix(), 0, 0); wx != 10 {
		t.Fatalf("matrix not recomputed: %v", wx)
	}
}

func TestTransformationFollowsTransform(t *testing.T) {
	tr := model.NewTransform()
	m := NewTransformation(tr)
	defer m.Release()

	tr.SetScale(2)
	tr.SetTranslateX(5)
	if m.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", m.Generation())
	}
	x, y := Apply(m.Matrix(), 1, 1)
	wantX, wantY := tr.ToViewport(1, 1)
	if !near(x, wantX) || !near(y, wantY) {
		t.Fatalf("matrix maps to (%v,%v), transform to (%v,%v)", x, y, wantX, wantY)
	}

	m.Release()
	tr.SetScale(3)
	if m.Generation() != 2 {
		t.Fatalf("released transformation still follows")
	}
}

func TestInvertRoundTrip(t *testing.T) {
	a := Mul(NewProjection(300, 200).Matrix(), [6]float64{2, 0, 4, 0, 2, -6})
	inv := Invert(a)
	x, y := Apply(a, 3, 7)
	bx, by := Apply(inv, x, y)
	if !near(bx, 3) || !near(by, 7) {
		t.Fatalf("inverse gave (%v,%v)", bx, by)
	}
	id := Mul(a, inv)
	for i := range id {
		if !near(id[i], Identity[i]) {
			t.Fatalf("a*inv(a) = %v", id)
		}
	}
}

func TestProjectionContains(t *testing.T) {
	p := NewProjection(100, 50)
	if !p.Contains(50, -25) || p.Contains(50.5, 0) || p.Contains(0, -26) {
		t.Fatalf("Contains bounds wrong")
	}
}
