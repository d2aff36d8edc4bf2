package pinewood

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	// MaxGamepads is the number of gamepad slots polled every frame.
	MaxGamepads = 4

	// DefaultStickThreshold is how far a stick must lean before the matching
	// thumbstick-direction button reads as pressed.
	DefaultStickThreshold = 0.5

	// triggerButtonThreshold is the trigger value at which the trigger
	// button reads as pressed.
	triggerButtonThreshold = 0.5
)

// --- Gamepad buttons and axes ---

// GamepadButton is a logical gamepad button. The layout follows the common
// Xbox naming: A is the bottom face button.
type GamepadButton uint8

const (
	GamepadA GamepadButton = iota
	GamepadB
	GamepadX
	GamepadY
	GamepadLeftShoulder
	GamepadRightShoulder
	GamepadLeftTrigger
	GamepadRightTrigger
	GamepadBack
	GamepadStart
	GamepadBig
	GamepadLeftStick
	GamepadRightStick
	GamepadDPadUp
	GamepadDPadDown
	GamepadDPadLeft
	GamepadDPadRight
	GamepadLeftThumbstickUp
	GamepadLeftThumbstickDown
	GamepadLeftThumbstickLeft
	GamepadLeftThumbstickRight
	GamepadRightThumbstickUp
	GamepadRightThumbstickDown
	GamepadRightThumbstickLeft
	GamepadRightThumbstickRight

	gamepadButtonCount
)

var gamepadButtonNames = [gamepadButtonCount]string{
	"A", "B", "X", "Y",
	"LeftShoulder", "RightShoulder", "LeftTrigger", "RightTrigger",
	"Back", "Start", "Big", "LeftStick", "RightStick",
	"DPadUp", "DPadDown", "DPadLeft", "DPadRight",
	"LeftThumbstickUp", "LeftThumbstickDown", "LeftThumbstickLeft", "LeftThumbstickRight",
	"RightThumbstickUp", "RightThumbstickDown", "RightThumbstickLeft", "RightThumbstickRight",
}

func (b GamepadButton) String() string {
	if b < gamepadButtonCount {
		return gamepadButtonNames[b]
	}
	return "Unknown"
}

// GamepadButtonByName resolves a name such as "A" or "DPadUp".
func GamepadButtonByName(name string) (GamepadButton, bool) {
	for i, n := range gamepadButtonNames {
		if n == name {
			return GamepadButton(i), true
		}
	}
	return 0, false
}

// GamepadButtons is a set of pressed gamepad buttons.
type GamepadButtons uint32

// Has reports whether b is in the set.
func (s GamepadButtons) Has(b GamepadButton) bool { return s&(1<<b) != 0 }

// With returns the set with b added or removed.
func (s GamepadButtons) With(b GamepadButton, down bool) GamepadButtons {
	if down {
		return s | 1<<b
	}
	return s &^ (1 << b)
}

// GamepadAxis is an analog gamepad input.
type GamepadAxis uint8

const (
	AxisLeftStickX GamepadAxis = iota
	AxisLeftStickY
	AxisRightStickX
	AxisRightStickY
	AxisLeftTrigger
	AxisRightTrigger

	gamepadAxisCount
)

var gamepadAxisNames = [gamepadAxisCount]string{
	"LeftStickX", "LeftStickY", "RightStickX", "RightStickY", "LeftTrigger", "RightTrigger",
}

func (a GamepadAxis) String() string {
	if a < gamepadAxisCount {
		return gamepadAxisNames[a]
	}
	return "Unknown"
}

// GamepadAxisByName resolves a name such as "LeftTrigger".
func GamepadAxisByName(name string) (GamepadAxis, bool) {
	for i, n := range gamepadAxisNames {
		if n == name {
			return GamepadAxis(i), true
		}
	}
	return 0, false
}

// --- Snapshots ---

const keyWords = int(ebiten.KeyMax)/64 + 1

// KeyboardSnapshot is the set of keys held at one instant.
type KeyboardSnapshot struct {
	keys [keyWords]uint64
}

// Set marks k as held or released.
func (s *KeyboardSnapshot) Set(k ebiten.Key, down bool) {
	if k < 0 || k > ebiten.KeyMax {
		return
	}
	if down {
		s.keys[k/64] |= 1 << (k % 64)
	} else {
		s.keys[k/64] &^= 1 << (k % 64)
	}
}

// Pressed reports whether k is held.
func (s KeyboardSnapshot) Pressed(k ebiten.Key) bool {
	if k < 0 || k > ebiten.KeyMax {
		return false
	}
	return s.keys[k/64]&(1<<(k%64)) != 0
}

// MouseSnapshot is the mouse state at one instant. ScrollX and ScrollY are
// running totals of wheel movement since the device was created.
type MouseSnapshot struct {
	Buttons          uint8
	X, Y             float64
	ScrollX, ScrollY float64
}

// Pressed reports whether b is held.
func (s MouseSnapshot) Pressed(b ebiten.MouseButton) bool {
	if b < 0 || b > ebiten.MouseButtonMax {
		return false
	}
	return s.Buttons&(1<<b) != 0
}

// SetButton marks b as held or released.
func (s *MouseSnapshot) SetButton(b ebiten.MouseButton, down bool) {
	if b < 0 || b > ebiten.MouseButtonMax {
		return
	}
	if down {
		s.Buttons |= 1 << b
	} else {
		s.Buttons &^= 1 << b
	}
}

// GamepadSnapshot is one gamepad's state at one instant. Stick Y grows
// downward, matching the screen.
type GamepadSnapshot struct {
	Connected    bool
	Buttons      GamepadButtons
	LeftStick    Vec2
	RightStick   Vec2
	LeftTrigger  float64
	RightTrigger float64
}

// Axis returns the value of a single axis.
func (s GamepadSnapshot) Axis(a GamepadAxis) float64 {
	switch a {
	case AxisLeftStickX:
		return s.LeftStick.X
	case AxisLeftStickY:
		return s.LeftStick.Y
	case AxisRightStickX:
		return s.RightStick.X
	case AxisRightStickY:
		return s.RightStick.Y
	case AxisLeftTrigger:
		return s.LeftTrigger
	case AxisRightTrigger:
		return s.RightTrigger
	}
	return 0
}

// SetAxis sets the value of a single axis.
func (s *GamepadSnapshot) SetAxis(a GamepadAxis, v float64) {
	switch a {
	case AxisLeftStickX:
		s.LeftStick.X = v
	case AxisLeftStickY:
		s.LeftStick.Y = v
	case AxisRightStickX:
		s.RightStick.X = v
	case AxisRightStickY:
		s.RightStick.Y = v
	case AxisLeftTrigger:
		s.LeftTrigger = v
	case AxisRightTrigger:
		s.RightTrigger = v
	}
}

// withDerivedButtons adds the thumbstick-direction and trigger buttons
// implied by the analog values.
func (s GamepadSnapshot) withDerivedButtons(stick float64) GamepadSnapshot {
	if !s.Connected {
		return GamepadSnapshot{}
	}
	b := s.Buttons
	b = b.With(GamepadLeftThumbstickUp, s.LeftStick.Y < -stick)
	b = b.With(GamepadLeftThumbstickDown, s.LeftStick.Y > stick)
	b = b.With(GamepadLeftThumbstickLeft, s.LeftStick.X < -stick)
	b = b.With(GamepadLeftThumbstickRight, s.LeftStick.X > stick)
	b = b.With(GamepadRightThumbstickUp, s.RightStick.Y < -stick)
	b = b.With(GamepadRightThumbstickDown, s.RightStick.Y > stick)
	b = b.With(GamepadRightThumbstickLeft, s.RightStick.X < -stick)
	b = b.With(GamepadRightThumbstickRight, s.RightStick.X > stick)
	if s.LeftTrigger >= triggerButtonThreshold {
		b = b.With(GamepadLeftTrigger, true)
	}
	if s.RightTrigger >= triggerButtonThreshold {
		b = b.With(GamepadRightTrigger, true)
	}
	s.Buttons = b
	return s
}

// --- Input ---

// Input holds the previous and current snapshot of every device and answers
// edge queries against them. Call Advance exactly once per frame before
// reading anything.
type Input struct {
	device Device

	// StickThreshold is how far a stick must lean for its direction
	// buttons to read as pressed.
	StickThreshold float64

	keyboard Keyboard
	mouse    Mouse
	gamepads [MaxGamepads]Gamepad
	none     Gamepad

	chars []rune
	frame uint64
}

// NewInput creates an input context polling device.
func NewInput(device Device) *Input {
	in := &Input{
		device:         device,
		StickThreshold: DefaultStickThreshold,
		none:           Gamepad{index: -1},
	}
	for i := range in.gamepads {
		in.gamepads[i] = Gamepad{index: i, device: device}
	}
	return in
}

// Device returns the device being polled.
func (in *Input) Device() Device {
	return in.device
}

// Advance rolls every current snapshot into previous and samples the device
// again: mouse, keyboard, gamepads in slot order, then typed characters.
// dt is the elapsed time in seconds and drives vibration timers.
func (in *Input) Advance(dt float64) {
	if s, ok := in.device.(FrameStepper); ok {
		s.Step()
	}
	in.mouse.advance(in.device.Mouse())
	in.keyboard.advance(in.device.Keyboard())
	for i := range in.gamepads {
		in.gamepads[i].advance(dt, in.StickThreshold)
	}
	in.chars = in.device.AppendInputChars(in.chars[:0])
	in.frame++
}

// Frame returns the number of Advance calls so far.
func (in *Input) Frame() uint64 {
	return in.frame
}

// Keyboard returns the keyboard state.
func (in *Input) Keyboard() *Keyboard {
	return &in.keyboard
}

// Mouse returns the mouse state.
func (in *Input) Mouse() *Mouse {
	return &in.mouse
}

// Gamepad returns the gamepad in slot i. Slots outside [0, MaxGamepads)
// return a permanently disconnected gamepad with index -1.
func (in *Input) Gamepad(i int) *Gamepad {
	if i < 0 || i >= MaxGamepads {
		return &in.none
	}
	return &in.gamepads[i]
}

// Chars returns the characters typed during the last frame. The slice is
// reused by the next Advance.
func (in *Input) Chars() []rune {
	return in.chars
}

// --- Keyboard ---

// Keyboard answers key queries for the current frame.
type Keyboard struct {
	prev, cur KeyboardSnapshot
}

func (k *Keyboard) advance(s KeyboardSnapshot) {
	k.prev = k.cur
	k.cur = s
}

// IsPressed reports whether key is held this frame.
func (k *Keyboard) IsPressed(key ebiten.Key) bool {
	return k.cur.Pressed(key)
}

// IsJustPressed reports whether key went down this frame.
func (k *Keyboard) IsJustPressed(key ebiten.Key) bool {
	return k.Edge(key) == EdgePressed
}

// IsJustReleased reports whether key went up this frame.
func (k *Keyboard) IsJustReleased(key ebiten.Key) bool {
	return k.Edge(key) == EdgeReleased
}

// Edge returns the transition of key this frame.
func (k *Keyboard) Edge(key ebiten.Key) Edge {
	return DetectEdge(k.prev.Pressed(key), k.cur.Pressed(key))
}

// IsAnyPressed reports whether any of keys is held.
func (k *Keyboard) IsAnyPressed(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if k.cur.Pressed(key) {
			return true
		}
	}
	return false
}

// Modifiers returns the held modifier keys.
func (k *Keyboard) Modifiers() KeyModifiers {
	var mods KeyModifiers
	if k.IsAnyPressed(ebiten.KeyShift, ebiten.KeyShiftLeft, ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if k.IsAnyPressed(ebiten.KeyControl, ebiten.KeyControlLeft, ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if k.IsAnyPressed(ebiten.KeyAlt, ebiten.KeyAltLeft, ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if k.IsAnyPressed(ebiten.KeyMeta, ebiten.KeyMetaLeft, ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// Snapshot returns the current raw snapshot.
func (k *Keyboard) Snapshot() KeyboardSnapshot {
	return k.cur
}

// --- Mouse ---

// Mouse answers mouse queries for the current frame.
type Mouse struct {
	prev, cur  MouseSnapshot
	scrollDirX int
	scrollDirY int
}

func (m *Mouse) advance(s MouseSnapshot) {
	m.prev = m.cur
	m.cur = s
	m.scrollDirX = Direction(m.prev.ScrollX, m.cur.ScrollX)
	m.scrollDirY = Direction(m.prev.ScrollY, m.cur.ScrollY)
}

// IsPressed reports whether button is held this frame.
func (m *Mouse) IsPressed(button ebiten.MouseButton) bool {
	return m.cur.Pressed(button)
}

// IsJustPressed reports whether button went down this frame.
func (m *Mouse) IsJustPressed(button ebiten.MouseButton) bool {
	return m.Edge(button) == EdgePressed
}

// IsJustReleased reports whether button went up this frame.
func (m *Mouse) IsJustReleased(button ebiten.MouseButton) bool {
	return m.Edge(button) == EdgeReleased
}

// Edge returns the transition of button this frame.
func (m *Mouse) Edge(button ebiten.MouseButton) Edge {
	return DetectEdge(m.prev.Pressed(button), m.cur.Pressed(button))
}

// Position returns the cursor position in screen pixels.
func (m *Mouse) Position() Vec2 {
	return Vec2{m.cur.X, m.cur.Y}
}

// Delta returns how far the cursor moved since the previous frame.
func (m *Mouse) Delta() Vec2 {
	return Vec2{m.cur.X - m.prev.X, m.cur.Y - m.prev.Y}
}

// Scroll returns the direction the wheel moved this frame on each axis:
// -1, 0 or +1. Positive Y is away from the user.
func (m *Mouse) Scroll() (dx, dy int) {
	return m.scrollDirX, m.scrollDirY
}

// ScrollDelta returns the raw wheel movement this frame.
func (m *Mouse) ScrollDelta() Vec2 {
	return Vec2{m.cur.ScrollX - m.prev.ScrollX, m.cur.ScrollY - m.prev.ScrollY}
}

// Snapshot returns the current raw snapshot.
func (m *Mouse) Snapshot() MouseSnapshot {
	return m.cur
}

// --- Gamepad ---

// Gamepad answers queries for one gamepad slot and owns its vibration timer.
type Gamepad struct {
	index  int
	device Device

	prev, cur GamepadSnapshot
	axisDir   [gamepadAxisCount]int

	vibrating     bool
	timerArmed    bool
	vibrationLeft float64 // seconds
}

func (g *Gamepad) advance(dt, stick float64) {
	g.tickVibration(dt)
	g.prev = g.cur
	g.cur = g.device.Gamepad(g.index).withDerivedButtons(stick)
	for a := GamepadAxis(0); a < gamepadAxisCount; a++ {
		g.axisDir[a] = Direction(g.prev.Axis(a), g.cur.Axis(a))
	}
}

// tickVibration counts the timer down and stops the motors once when it
// runs out.
func (g *Gamepad) tickVibration(dt float64) {
	if !g.timerArmed {
		return
	}
	g.vibrationLeft -= dt
	if g.vibrationLeft > 0 {
		return
	}
	g.vibrationLeft = 0
	g.timerArmed = false
	g.vibrating = false
	g.device.Vibrate(g.index, 0, 0)
	debugf("gamepad %d vibration stopped", g.index)
}

// Index returns the slot number, or -1 for the out-of-range gamepad.
func (g *Gamepad) Index() int {
	return g.index
}

// IsConnected reports whether a gamepad occupies the slot this frame.
func (g *Gamepad) IsConnected() bool {
	return g.cur.Connected
}

// IsPressed reports whether button is held this frame.
func (g *Gamepad) IsPressed(button GamepadButton) bool {
	return g.cur.Buttons.Has(button)
}

// IsJustPressed reports whether button went down this frame.
func (g *Gamepad) IsJustPressed(button GamepadButton) bool {
	return g.Edge(button) == EdgePressed
}

// IsJustReleased reports whether button went up this frame.
func (g *Gamepad) IsJustReleased(button GamepadButton) bool {
	return g.Edge(button) == EdgeReleased
}

// Edge returns the transition of button this frame.
func (g *Gamepad) Edge(button GamepadButton) Edge {
	return DetectEdge(g.prev.Buttons.Has(button), g.cur.Buttons.Has(button))
}

// LeftTrigger returns the left trigger in [0, 1].
func (g *Gamepad) LeftTrigger() float64 { return g.cur.LeftTrigger }

// RightTrigger returns the right trigger in [0, 1].
func (g *Gamepad) RightTrigger() float64 { return g.cur.RightTrigger }

// LeftStick returns the left stick in [-1, 1] on each axis.
func (g *Gamepad) LeftStick() Vec2 { return g.cur.LeftStick }

// RightStick returns the right stick in [-1, 1] on each axis.
func (g *Gamepad) RightStick() Vec2 { return g.cur.RightStick }

// Axis returns the current value of a.
func (g *Gamepad) Axis(a GamepadAxis) float64 { return g.cur.Axis(a) }

// AxisDirection returns the direction a moved this frame: -1, 0 or +1.
func (g *Gamepad) AxisDirection(a GamepadAxis) int {
	if a >= gamepadAxisCount {
		return 0
	}
	return g.axisDir[a]
}

// Snapshot returns the current raw snapshot including derived buttons.
func (g *Gamepad) Snapshot() GamepadSnapshot {
	return g.cur
}

// SetVibration drives both motors at amount. See SetVibrationMotors.
func (g *Gamepad) SetVibration(amount, seconds float64) {
	g.SetVibrationMotors(amount, amount, seconds)
}

// SetVibrationMotors forwards the motor strengths to the device right away.
// A non-negative seconds arms a timer that stops the motors once it runs
// out (0 stops on the next Advance). A negative seconds vibrates until
// told otherwise.
func (g *Gamepad) SetVibrationMotors(left, right, seconds float64) {
	if g.index < 0 {
		return
	}
	left, right = clamp01(left), clamp01(right)
	g.device.Vibrate(g.index, left, right)
	g.vibrating = left > 0 || right > 0
	g.timerArmed = g.vibrating && seconds >= 0
	g.vibrationLeft = 0
	if g.timerArmed {
		g.vibrationLeft = seconds
	}
}

// StopVibration stops both motors and disarms the timer.
func (g *Gamepad) StopVibration() {
	if g.index < 0 {
		return
	}
	g.device.Vibrate(g.index, 0, 0)
	g.vibrating = false
	g.timerArmed = false
	g.vibrationLeft = 0
}

// Vibrating reports whether the motors were last told to run.
func (g *Gamepad) Vibrating() bool {
	return g.vibrating
}

// VibrationRemaining returns the seconds left on the timer, or -1 when the
// gamepad vibrates indefinitely.
func (g *Gamepad) VibrationRemaining() float64 {
	if g.vibrating && !g.timerArmed {
		return -1
	}
	return g.vibrationLeft
}
