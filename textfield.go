package pinewood

import (
	"image/color"
	"sync"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

const (
	keyRepeatDelay    = 0.5
	keyRepeatInterval = 1.0 / 30
)

// Clipboard reads and writes system clipboard text.
type Clipboard interface {
	ReadText() string
	WriteText(s string)
}

// SystemClipboard is the OS clipboard. It initializes on first use; when the
// platform has no clipboard it logs a warning once and behaves as empty.
type SystemClipboard struct {
	once sync.Once
	ok   bool
}

func (c *SystemClipboard) init() bool {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			warnf("clipboard unavailable: %v", err)
			return
		}
		c.ok = true
	})
	return c.ok
}

// ReadText returns the clipboard text, or "" when unavailable.
func (c *SystemClipboard) ReadText() string {
	if !c.init() {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

// WriteText replaces the clipboard text.
func (c *SystemClipboard) WriteText(s string) {
	if !c.init() {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
}

var defaultClipboard = &SystemClipboard{}

// TextField is a single-line editable text box driven by Input. Typed
// characters insert at the cursor; arrows move it, Shift+arrows select,
// Backspace and Delete repeat while held, Enter submits.
type TextField struct {
	TextColor   color.Color
	CursorColor color.Color
	SelectColor color.Color
	// CursorBlinkRate is the time in seconds the cursor stays on or off.
	CursorBlinkRate float64
	// Active enables editing. Inactive fields still draw.
	Active bool
	// OnSubmit runs with the current text when Enter is pressed.
	OnSubmit func(text string)
	// Clipboard backs copy and paste. Nil uses the system clipboard.
	Clipboard Clipboard

	font *Font
	text []rune

	cursor int // insertion point
	pin    int // other end of the selection; equal to cursor when none

	repeatKey   ebiten.Key
	repeatDelay float64

	cursorOn bool
	blink    float64
}

// NewTextField creates an active, empty field drawn with font, or the
// default font when nil.
func NewTextField(font *Font) *TextField {
	if font == nil {
		font = DefaultFont()
	}
	return &TextField{
		TextColor:       color.White,
		CursorColor:     color.White,
		SelectColor:     color.RGBA{0x56, 0x6c, 0x73, 0xff},
		CursorBlinkRate: 1,
		Active:          true,
		font:            font,
		repeatKey:       -1,
		cursorOn:        true,
	}
}

// Text returns the current contents.
func (f *TextField) Text() string { return string(f.text) }

// SetText replaces the contents and moves the cursor to the end.
func (f *TextField) SetText(s string) {
	f.text = []rune(s)
	f.cursor = len(f.text)
	f.pin = f.cursor
}

// Cursor returns the cursor position in runes.
func (f *TextField) Cursor() int { return f.cursor }

// Selection returns the selected rune range [start, end).
func (f *TextField) Selection() (start, end int) {
	return min(f.cursor, f.pin), max(f.cursor, f.pin)
}

// SelectedText returns the selected text.
func (f *TextField) SelectedText() string {
	s, e := f.Selection()
	return string(f.text[s:e])
}

// SelectAll selects the whole text.
func (f *TextField) SelectAll() {
	f.pin = 0
	f.cursor = len(f.text)
}

// CursorVisible reports whether the blinking cursor is in its on phase.
func (f *TextField) CursorVisible() bool { return f.cursorOn }

func (f *TextField) clipboard() Clipboard {
	if f.Clipboard != nil {
		return f.Clipboard
	}
	return defaultClipboard
}

// repeating reports a press of key, then repeats while it is held.
func (f *TextField) repeating(kb *Keyboard, key ebiten.Key) bool {
	if kb.IsJustPressed(key) {
		f.repeatDelay = keyRepeatDelay
		f.repeatKey = key
		return true
	}
	if kb.IsPressed(key) && f.repeatKey == key && f.repeatDelay == 0 {
		f.repeatDelay = keyRepeatInterval
		return true
	}
	return false
}

// deleteSelection removes the selection. With nothing selected it first
// extends the selection by offset runes, so -1 is a backspace.
func (f *TextField) deleteSelection(offset int) {
	if f.cursor == f.pin {
		f.pin = clampInt(f.cursor+offset, 0, len(f.text))
	}
	s, e := f.Selection()
	if s == e {
		return
	}
	f.text = append(f.text[:s], f.text[e:]...)
	f.cursor, f.pin = s, s
}

func (f *TextField) insert(s string) {
	f.deleteSelection(0)
	r := []rune(s)
	f.text = append(f.text[:f.cursor], append(r, f.text[f.cursor:]...)...)
	f.cursor += len(r)
	f.pin = f.cursor
}

// moveCursor moves the cursor to pos. With extend the pin stays, growing the
// selection. Otherwise an existing selection collapses to the cursor first,
// unless force is set.
func (f *TextField) moveCursor(pos int, extend, force bool) {
	pos = clampInt(pos, 0, len(f.text))
	switch {
	case extend:
		f.cursor = pos
	case f.cursor != f.pin && !force:
		f.pin = f.cursor
	default:
		f.cursor, f.pin = pos, pos
	}
}

// Update applies one frame of input. dt drives key repeat and blinking.
func (f *TextField) Update(in *Input, dt float64) {
	if !f.Active {
		return
	}
	if f.repeatDelay -= dt; f.repeatDelay < 0 {
		f.repeatDelay = 0
	}
	if f.blink += dt; f.blink > f.CursorBlinkRate {
		f.blink = 0
		f.cursorOn = !f.cursorOn
	}

	kb := in.Keyboard()
	mods := kb.Modifiers()
	shortcut := mods&(ModCtrl|ModMeta) != 0
	shift := mods&ModShift != 0

	if shortcut {
		switch {
		case kb.IsJustPressed(ebiten.KeyA):
			f.SelectAll()
		case kb.IsJustPressed(ebiten.KeyC):
			if sel := f.SelectedText(); sel != "" {
				f.clipboard().WriteText(sel)
			}
		case kb.IsJustPressed(ebiten.KeyX):
			if sel := f.SelectedText(); sel != "" {
				f.clipboard().WriteText(sel)
				f.deleteSelection(0)
			}
		case kb.IsJustPressed(ebiten.KeyV):
			f.insert(singleLine(f.clipboard().ReadText()))
		}
	} else {
		for _, r := range in.Chars() {
			if unicode.IsPrint(r) {
				f.insert(string(r))
			}
		}
	}

	switch {
	case f.repeating(kb, ebiten.KeyBackspace):
		f.deleteSelection(-1)
	case f.repeating(kb, ebiten.KeyDelete):
		f.deleteSelection(1)
	case kb.IsJustPressed(ebiten.KeyHome):
		f.moveCursor(0, shift, true)
	case kb.IsJustPressed(ebiten.KeyEnd):
		f.moveCursor(len(f.text), shift, true)
	case f.repeating(kb, ebiten.KeyArrowLeft):
		f.moveCursor(f.cursor-1, shift, false)
	case f.repeating(kb, ebiten.KeyArrowRight):
		f.moveCursor(f.cursor+1, shift, false)
	case kb.IsJustPressed(ebiten.KeyEnter), kb.IsJustPressed(ebiten.KeyNumpadEnter):
		if f.OnSubmit != nil {
			f.OnSubmit(f.Text())
		}
	}
}

// singleLine drops line breaks and other control characters.
func singleLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// Draw renders the selection, the text and the cursor with the text's top
// left at the corner of r.
func (f *TextField) Draw(dst *ebiten.Image, r Rect) {
	lh := f.font.LineHeight()
	s, e := f.Selection()
	if s != e {
		x0, _ := f.font.MeasureString(string(f.text[:s]))
		w, _ := f.font.MeasureString(string(f.text[s:e]))
		DrawFilledRect(dst, Rect{X: r.X + x0, Y: r.Y, Width: w, Height: lh}, f.SelectColor)
	}
	f.font.Draw(dst, string(f.text), Vec2{r.X, r.Y}, f.TextColor)
	if f.Active && f.cursorOn {
		x, _ := f.font.MeasureString(string(f.text[:f.cursor]))
		DrawLine(dst, Vec2{r.X + x, r.Y}, Vec2{r.X + x, r.Y + lh}, f.CursorColor, 2)
	}
}
