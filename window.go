package pinewood

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// WindowPosition is a desktop position in device-independent pixels.
type WindowPosition struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title        string          `yaml:"title"`
	Width        int             `yaml:"width"`
	Height       int             `yaml:"height"`
	Fullscreen   bool            `yaml:"fullscreen"`
	VSync        bool            `yaml:"vsync"`
	Resizable    bool            `yaml:"resizable"`
	Decorated    bool            `yaml:"decorated"`
	MouseVisible bool            `yaml:"mouse_visible"`
	Position     *WindowPosition `yaml:"position"`
}

// DefaultWindowConfig returns an 800x480 decorated window with vsync and a
// visible cursor.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:        "pinewood",
		Width:        800,
		Height:       480,
		VSync:        true,
		Decorated:    true,
		MouseVisible: true,
	}
}

// Window wraps the Ebitengine window functions and tracks the drawable size
// reported by Layout.
type Window struct {
	config        WindowConfig
	width, height int
	onSizeChanged []func(width, height int)
}

func newWindow(cfg WindowConfig) *Window {
	return &Window{config: cfg, width: cfg.Width, height: cfg.Height}
}

// Apply pushes cfg to Ebitengine. It can be called before or after the game
// starts.
func (w *Window) Apply(cfg WindowConfig) {
	w.config = cfg
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.VSync)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
	ebiten.SetWindowDecorated(cfg.Decorated)
	w.SetMouseVisible(cfg.MouseVisible)
	if cfg.Position != nil {
		ebiten.SetWindowPosition(cfg.Position.X, cfg.Position.Y)
	}
}

// Config returns the last applied configuration.
func (w *Window) Config() WindowConfig { return w.config }

// Size returns the drawable size in pixels.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// Width returns the drawable width in pixels.
func (w *Window) Width() int { return w.width }

// Height returns the drawable height in pixels.
func (w *Window) Height() int { return w.height }

// Bounds returns the drawable area as a Rect at the origin.
func (w *Window) Bounds() Rect {
	return Rect{Width: float64(w.width), Height: float64(w.height)}
}

// SetSize resizes the window.
func (w *Window) SetSize(width, height int) {
	w.config.Width, w.config.Height = width, height
	ebiten.SetWindowSize(width, height)
}

// Title returns the window title.
func (w *Window) Title() string { return w.config.Title }

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) {
	w.config.Title = title
	ebiten.SetWindowTitle(title)
}

// Fullscreen reports whether the window is fullscreen.
func (w *Window) Fullscreen() bool { return ebiten.IsFullscreen() }

// SetFullscreen enters or leaves fullscreen.
func (w *Window) SetFullscreen(on bool) {
	w.config.Fullscreen = on
	ebiten.SetFullscreen(on)
}

// ToggleFullscreen flips fullscreen mode.
func (w *Window) ToggleFullscreen() {
	w.SetFullscreen(!ebiten.IsFullscreen())
}

// VSync reports whether vsync is enabled.
func (w *Window) VSync() bool { return ebiten.IsVsyncEnabled() }

// SetVSync enables or disables vsync.
func (w *Window) SetVSync(on bool) {
	w.config.VSync = on
	ebiten.SetVsyncEnabled(on)
}

// MouseVisible reports whether the cursor is shown over the window.
func (w *Window) MouseVisible() bool {
	return ebiten.CursorMode() == ebiten.CursorModeVisible
}

// SetMouseVisible shows or hides the cursor.
func (w *Window) SetMouseVisible(on bool) {
	w.config.MouseVisible = on
	if on {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

// Position returns the window position on the desktop.
func (w *Window) Position() (x, y int) { return ebiten.WindowPosition() }

// SetPosition moves the window.
func (w *Window) SetPosition(x, y int) {
	w.config.Position = &WindowPosition{X: x, Y: y}
	ebiten.SetWindowPosition(x, y)
}

// OnSizeChanged registers fn to run whenever the drawable size changes.
func (w *Window) OnSizeChanged(fn func(width, height int)) {
	w.onSizeChanged = append(w.onSizeChanged, fn)
}

// layout records the outside size and notifies listeners on change.
func (w *Window) layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		w.width, w.height = outsideWidth, outsideHeight
		debugf("window resized to %dx%d", w.width, w.height)
		for _, fn := range w.onSizeChanged {
			fn(w.width, w.height)
		}
	}
	return w.width, w.height
}
