package pinewood

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Rect ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"right edge", 110, 40, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
		{"zero-size at corner", Rect{110, 110, 0, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	assert.Equal(t, Rect{5, 5, 5, 5}, a.Intersect(Rect{5, 5, 10, 10}))
	assert.Equal(t, Rect{X: 20, Y: 10}, a.Intersect(Rect{20, 0, 5, 5}).Intersect(Rect{20, 10, 1, 1}))
	assert.Equal(t, Vec2{5, 5}, a.Center())
	assert.Equal(t, image.Rect(1, 2, 4, 6), Rect{1.5, 2.9, 3, 3.5}.Image())
}

// --- Color ---

func TestColorPremultiplies(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(ColorWhite))
	half := Color{1, 0.5, 0, 0.5}
	assert.Equal(t, color.RGBA{128, 64, 0, 128}, half.toRGBA())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, Color{2, -1, 0, 1}.toRGBA(), "components clamp")
}

func TestColorArithmetic(t *testing.T) {
	c := ColorBlack.Lerp(ColorWhite, 0.25)
	assert.InDelta(t, 0.25, c.R, 1e-12)
	assert.Equal(t, 1.0, c.A)
	assert.Equal(t, Color{0.5, 0, 0, 0.5}, Color{1, 1, 1, 1}.Mul(Color{0.5, 0, 0, 0.5}))
	assert.Equal(t, Color{1, 1, 1, 0.2}, ColorWhite.WithA(0.2))
}

// --- Numeric helpers ---

func TestRepeatAndPingPong(t *testing.T) {
	tests := []struct {
		t, length, repeat, pingPong float64
	}{
		{0, 3, 0, 0},
		{1, 3, 1, 1},
		{4, 3, 1, 2},
		{5, 3, 2, 1},
		{-1, 3, 2, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.repeat, repeat(tt.t, tt.length), 1e-12, "repeat(%v, %v)", tt.t, tt.length)
		assert.InDelta(t, tt.pingPong, pingPong(tt.t, tt.length), 1e-12, "pingPong(%v, %v)", tt.t, tt.length)
	}
	assert.InDelta(t, math.Pi/2, degToRad(90), 1e-12)
	assert.Equal(t, 3, clampInt(9, 0, 3))
}

func BenchmarkRectContains(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Contains(50, 40)
	}
}
