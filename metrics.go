package pinewood

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var metricsBackground = color.RGBA{0, 0, 0, 128}

// metricsText formats the overlay lines.
func metricsText(ctx *Context, fps, tps float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", fps, tps)
	if c := ctx.Clock; c != nil {
		fmt.Fprintf(&b, "Frame: %d  Time: %.2fs  Delta: %.4fs\n", c.Frame(), c.Total(), c.Delta())
	}
	if ctx.Scenes != nil && ctx.Scenes.CurrentName() != "" {
		fmt.Fprintf(&b, "Scene: %s\n", ctx.Scenes.CurrentName())
	}
	if in := ctx.Input; in != nil {
		m := in.Mouse()
		p := m.Position()
		sx, sy := m.Scroll()
		fmt.Fprintf(&b, "Mouse: %.0f,%.0f  Scroll: %d,%d\n", p.X, p.Y, sx, sy)
		if g := in.Gamepad(0); g.IsConnected() {
			l, r := g.LeftStick(), g.RightStick()
			fmt.Fprintf(&b, "Pad 0: L %.2f,%.2f  R %.2f,%.2f  LT %.2f  RT %.2f\n",
				l.X, l.Y, r.X, r.Y, g.LeftTrigger(), g.RightTrigger())
		} else {
			b.WriteString("Pad 0: disconnected\n")
		}
	}
	return b.String()
}

// DrawMetrics prints frame rate, clock, scene and input state in the top-left
// corner of dst.
func DrawMetrics(dst *ebiten.Image, ctx *Context) {
	s := metricsText(ctx, ebiten.ActualFPS(), ebiten.ActualTPS())
	lines := strings.Count(s, "\n")
	width := 0
	for _, line := range strings.Split(s, "\n") {
		width = max(width, len(line))
	}
	// DebugPrint glyphs are 6x16.
	DrawFilledRect(dst, Rect{Width: float64(width*6 + 8), Height: float64(lines*16 + 4)}, metricsBackground)
	ebitenutil.DebugPrintAt(dst, s, 4, 0)
}
