package pinewood

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Device is the raw input source sampled by Input. Implementations return
// the live state at the time of the call.
type Device interface {
	Keyboard() KeyboardSnapshot
	Mouse() MouseSnapshot
	// Gamepad returns the state of a slot in [0, MaxGamepads). An empty slot
	// returns a zero snapshot with Connected false.
	Gamepad(slot int) GamepadSnapshot
	// Vibrate sets the motor strengths of a slot, each in [0, 1].
	Vibrate(slot int, left, right float64)
	// AppendInputChars appends the characters typed since the last frame.
	AppendInputChars(buf []rune) []rune
}

// FrameStepper is implemented by devices that do per-frame bookkeeping.
// Input.Advance calls Step before sampling.
type FrameStepper interface {
	Step()
}

// vibrateHold is the duration requested from the framework for every
// vibration. Input stops the motors itself when its timer runs out.
const vibrateHold = time.Hour

// EbitenDevice reads the live keyboard, mouse and gamepads from Ebitengine.
// Gamepads keep the slot they were first seen in until they disconnect; a
// new gamepad takes the lowest free slot.
type EbitenDevice struct {
	slotUsed [MaxGamepads]bool
	slotID   [MaxGamepads]ebiten.GamepadID

	ids     []ebiten.GamepadID
	keys    []ebiten.Key
	scrollX float64
	scrollY float64
	warned  map[ebiten.GamepadID]bool
}

// NewEbitenDevice creates a device backed by Ebitengine's input functions.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{warned: make(map[ebiten.GamepadID]bool)}
}

// Step refreshes gamepad slot assignments and accumulates wheel movement.
func (d *EbitenDevice) Step() {
	wx, wy := ebiten.Wheel()
	d.scrollX += wx
	d.scrollY += wy

	d.ids = ebiten.AppendGamepadIDs(d.ids[:0])
	var active [MaxGamepads]bool
	for _, id := range d.ids {
		slot := d.gamepadSlot(id)
		if slot < 0 {
			continue
		}
		active[slot] = true
	}
	for i := range d.slotUsed {
		if d.slotUsed[i] && !active[i] {
			debugf("gamepad %d disconnected (slot %d)", d.slotID[i], i)
			d.slotUsed[i] = false
			d.slotID[i] = 0
		}
	}
}

// gamepadSlot maps a gamepad ID to a slot, allocating the lowest free one.
// Returns -1 if every slot is taken.
func (d *EbitenDevice) gamepadSlot(id ebiten.GamepadID) int {
	for i := range d.slotUsed {
		if d.slotUsed[i] && d.slotID[i] == id {
			return i
		}
	}
	for i := range d.slotUsed {
		if !d.slotUsed[i] {
			d.slotUsed[i] = true
			d.slotID[i] = id
			debugf("gamepad %d (%s) connected in slot %d", id, ebiten.GamepadName(id), i)
			return i
		}
	}
	return -1
}

// Keyboard implements Device.
func (d *EbitenDevice) Keyboard() KeyboardSnapshot {
	var s KeyboardSnapshot
	d.keys = inpututil.AppendPressedKeys(d.keys[:0])
	for _, k := range d.keys {
		s.Set(k, true)
	}
	return s
}

// Mouse implements Device.
func (d *EbitenDevice) Mouse() MouseSnapshot {
	x, y := ebiten.CursorPosition()
	s := MouseSnapshot{
		X: float64(x), Y: float64(y),
		ScrollX: d.scrollX, ScrollY: d.scrollY,
	}
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		s.SetButton(b, ebiten.IsMouseButtonPressed(b))
	}
	return s
}

var standardButtons = [...]struct {
	from ebiten.StandardGamepadButton
	to   GamepadButton
}{
	{ebiten.StandardGamepadButtonRightBottom, GamepadA},
	{ebiten.StandardGamepadButtonRightRight, GamepadB},
	{ebiten.StandardGamepadButtonRightLeft, GamepadX},
	{ebiten.StandardGamepadButtonRightTop, GamepadY},
	{ebiten.StandardGamepadButtonFrontTopLeft, GamepadLeftShoulder},
	{ebiten.StandardGamepadButtonFrontTopRight, GamepadRightShoulder},
	{ebiten.StandardGamepadButtonFrontBottomLeft, GamepadLeftTrigger},
	{ebiten.StandardGamepadButtonFrontBottomRight, GamepadRightTrigger},
	{ebiten.StandardGamepadButtonCenterLeft, GamepadBack},
	{ebiten.StandardGamepadButtonCenterRight, GamepadStart},
	{ebiten.StandardGamepadButtonCenterCenter, GamepadBig},
	{ebiten.StandardGamepadButtonLeftStick, GamepadLeftStick},
	{ebiten.StandardGamepadButtonRightStick, GamepadRightStick},
	{ebiten.StandardGamepadButtonLeftTop, GamepadDPadUp},
	{ebiten.StandardGamepadButtonLeftBottom, GamepadDPadDown},
	{ebiten.StandardGamepadButtonLeftLeft, GamepadDPadLeft},
	{ebiten.StandardGamepadButtonLeftRight, GamepadDPadRight},
}

// Gamepad implements Device. Gamepads without a standard layout mapping
// report as connected with nothing pressed.
func (d *EbitenDevice) Gamepad(slot int) GamepadSnapshot {
	if slot < 0 || slot >= MaxGamepads || !d.slotUsed[slot] {
		return GamepadSnapshot{}
	}
	id := d.slotID[slot]
	s := GamepadSnapshot{Connected: true}
	if !ebiten.IsStandardGamepadLayoutAvailable(id) {
		if !d.warned[id] {
			d.warned[id] = true
			warnf("gamepad %d (%s) has no standard layout; its input is ignored", id, ebiten.GamepadName(id))
		}
		return s
	}
	for _, m := range standardButtons {
		s.Buttons = s.Buttons.With(m.to, ebiten.IsStandardGamepadButtonPressed(id, m.from))
	}
	s.LeftStick = Vec2{
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
	}
	s.RightStick = Vec2{
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
	}
	s.LeftTrigger = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomLeft)
	s.RightTrigger = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomRight)
	return s
}

// Vibrate implements Device. Empty slots are ignored.
func (d *EbitenDevice) Vibrate(slot int, left, right float64) {
	if slot < 0 || slot >= MaxGamepads || !d.slotUsed[slot] {
		return
	}
	op := &ebiten.VibrateGamepadOptions{
		StrongMagnitude: left,
		WeakMagnitude:   right,
	}
	if left > 0 || right > 0 {
		op.Duration = vibrateHold
	}
	ebiten.VibrateGamepad(d.slotID[slot], op)
}

// AppendInputChars implements Device.
func (d *EbitenDevice) AppendInputChars(buf []rune) []rune {
	return ebiten.AppendInputChars(buf)
}
