package pinewood

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInput() (*Input, *ScriptedDevice) {
	d := NewScriptedDevice()
	return NewInput(d), d
}

// --- Before the first Advance ---

func TestQueriesBeforeFirstAdvance(t *testing.T) {
	in, d := newTestInput()
	d.PressKey(ebiten.KeySpace)
	d.PressMouse(ebiten.MouseButtonLeft)
	d.ConnectGamepad(0)
	d.SetGamepadButton(0, GamepadA, true)

	kb := in.Keyboard()
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if kb.IsPressed(k) || kb.IsJustPressed(k) || kb.IsJustReleased(k) {
			t.Fatalf("key %v reported before Advance", k)
		}
	}
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		m := in.Mouse()
		if m.IsPressed(b) || m.IsJustPressed(b) || m.IsJustReleased(b) {
			t.Fatalf("mouse %v reported before Advance", b)
		}
	}
	for i := 0; i < MaxGamepads; i++ {
		g := in.Gamepad(i)
		assert.False(t, g.IsConnected())
		for b := GamepadButton(0); b < gamepadButtonCount; b++ {
			if g.IsPressed(b) || g.IsJustPressed(b) || g.IsJustReleased(b) {
				t.Fatalf("gamepad %d %v reported before Advance", i, b)
			}
		}
	}
	dx, dy := in.Mouse().Scroll()
	assert.Equal(t, 0, dx)
	assert.Equal(t, 0, dy)
	assert.Equal(t, uint64(0), in.Frame())
}

// --- Edge sequence ---

func TestKeyEdgeSequence(t *testing.T) {
	in, d := newTestInput()
	raw := []bool{false, true, true, false, true, false, false, true}

	prev := false
	for frame, down := range raw {
		if down {
			d.PressKey(ebiten.KeyA)
		} else {
			d.ReleaseKey(ebiten.KeyA)
		}
		in.Advance(1.0 / 60)
		kb := in.Keyboard()

		pressed := kb.IsJustPressed(ebiten.KeyA)
		released := kb.IsJustReleased(ebiten.KeyA)
		unchanged := kb.Edge(ebiten.KeyA) == EdgeNone

		count := 0
		for _, b := range []bool{pressed, released, unchanged} {
			if b {
				count++
			}
		}
		require.Equal(t, 1, count, "frame %d: exactly one edge class must hold", frame)
		assert.Equal(t, down, kb.IsPressed(ebiten.KeyA), "frame %d held", frame)
		assert.Equal(t, !prev && down, pressed, "frame %d pressed", frame)
		assert.Equal(t, prev && !down, released, "frame %d released", frame)
		if pressed {
			assert.True(t, kb.IsPressed(ebiten.KeyA))
		}
		if released {
			assert.False(t, kb.IsPressed(ebiten.KeyA))
		}
		prev = down
	}
}

func TestMouseButtonEdges(t *testing.T) {
	in, d := newTestInput()
	d.PressMouse(ebiten.MouseButtonRight)
	in.Advance(0)
	m := in.Mouse()
	assert.True(t, m.IsJustPressed(ebiten.MouseButtonRight))
	assert.False(t, m.IsJustPressed(ebiten.MouseButtonLeft))

	in.Advance(0)
	assert.True(t, m.IsPressed(ebiten.MouseButtonRight))
	assert.Equal(t, EdgeNone, m.Edge(ebiten.MouseButtonRight))

	d.ReleaseMouse(ebiten.MouseButtonRight)
	in.Advance(0)
	assert.True(t, m.IsJustReleased(ebiten.MouseButtonRight))
}

func TestMousePositionAndDelta(t *testing.T) {
	in, d := newTestInput()
	d.MoveMouse(10, 20)
	in.Advance(0)
	d.MoveMouse(15, 12)
	in.Advance(0)

	assert.Equal(t, Vec2{15, 12}, in.Mouse().Position())
	assert.Equal(t, Vec2{5, -8}, in.Mouse().Delta())
}

func TestMouseScrollDirection(t *testing.T) {
	in, d := newTestInput()
	steps := []struct {
		dy   float64
		want int
	}{
		{1, 1},
		{0, 0},
		{-2.5, -1},
		{0.25, 1},
	}
	for i, s := range steps {
		d.ScrollMouse(0, s.dy)
		in.Advance(0)
		_, dy := in.Mouse().Scroll()
		assert.Equal(t, s.want, dy, "step %d", i)
		assert.Equal(t, s.dy, in.Mouse().ScrollDelta().Y, "step %d", i)
	}
}

func TestKeyboardModifiers(t *testing.T) {
	in, d := newTestInput()
	d.PressKey(ebiten.KeyShiftLeft)
	d.PressKey(ebiten.KeyControlRight)
	in.Advance(0)
	assert.Equal(t, ModShift|ModCtrl, in.Keyboard().Modifiers())
}

func TestInputChars(t *testing.T) {
	in, d := newTestInput()
	d.TypeText("héllo")
	in.Advance(0)
	assert.Equal(t, []rune("héllo"), in.Chars())
	in.Advance(0)
	assert.Empty(t, in.Chars())
}

// --- Gamepads ---

func TestGamepadOutOfRange(t *testing.T) {
	in, d := newTestInput()
	for _, i := range []int{-1, MaxGamepads, 99} {
		g := in.Gamepad(i)
		assert.Equal(t, -1, g.Index())
		assert.False(t, g.IsConnected())
		assert.False(t, g.IsPressed(GamepadA))
		g.SetVibration(1, 1)
	}
	assert.Empty(t, d.Vibrations(), "out-of-range gamepad must not vibrate")
}

func TestGamepadConnectAndDisconnect(t *testing.T) {
	in, d := newTestInput()
	d.ConnectGamepad(1)
	d.SetGamepadButton(1, GamepadStart, true)
	in.Advance(0)

	g := in.Gamepad(1)
	assert.True(t, g.IsConnected())
	assert.True(t, g.IsJustPressed(GamepadStart))
	assert.False(t, in.Gamepad(0).IsConnected())

	d.DisconnectGamepad(1)
	in.Advance(0)
	assert.False(t, g.IsConnected())
	assert.True(t, g.IsJustReleased(GamepadStart), "disconnect releases held buttons")
	assert.NotPanics(t, func() { in.Advance(0) })
}

func TestGamepadDerivedButtons(t *testing.T) {
	in, d := newTestInput()
	d.ConnectGamepad(0)
	d.SetGamepadAxis(0, AxisLeftStickX, 0.9)
	d.SetGamepadAxis(0, AxisRightStickY, -0.8)
	d.SetGamepadAxis(0, AxisLeftTrigger, 0.75)
	in.Advance(0)

	g := in.Gamepad(0)
	assert.True(t, g.IsJustPressed(GamepadLeftThumbstickRight))
	assert.True(t, g.IsPressed(GamepadRightThumbstickUp))
	assert.True(t, g.IsPressed(GamepadLeftTrigger))
	assert.False(t, g.IsPressed(GamepadLeftThumbstickLeft))

	want := GamepadSnapshot{
		Connected:   true,
		LeftStick:   Vec2{0.9, 0},
		RightStick:  Vec2{0, -0.8},
		LeftTrigger: 0.75,
		Buttons: GamepadButtons(0).
			With(GamepadLeftThumbstickRight, true).
			With(GamepadRightThumbstickUp, true).
			With(GamepadLeftTrigger, true),
	}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestGamepadStickThreshold(t *testing.T) {
	in, d := newTestInput()
	in.StickThreshold = 0.95
	d.ConnectGamepad(0)
	d.SetGamepadAxis(0, AxisLeftStickX, 0.9)
	in.Advance(0)
	assert.False(t, in.Gamepad(0).IsPressed(GamepadLeftThumbstickRight))
}

func TestGamepadAxisDirectionCached(t *testing.T) {
	in, d := newTestInput()
	d.ConnectGamepad(0)
	d.SetGamepadAxis(0, AxisRightTrigger, 0.5)
	in.Advance(0)

	g := in.Gamepad(0)
	assert.Equal(t, 1, g.AxisDirection(AxisRightTrigger))

	// Changing the device mid-frame does not affect the cached direction.
	d.SetGamepadAxis(0, AxisRightTrigger, 0)
	assert.Equal(t, 1, g.AxisDirection(AxisRightTrigger))

	in.Advance(0)
	assert.Equal(t, -1, g.AxisDirection(AxisRightTrigger))
	in.Advance(0)
	assert.Equal(t, 0, g.AxisDirection(AxisRightTrigger))
	assert.Equal(t, 0, g.AxisDirection(GamepadAxis(200)))
}

// --- Vibration ---

func countStops(events []VibrationEvent, slot int) int {
	n := 0
	for _, e := range events {
		if e.Slot == slot && e.Left == 0 && e.Right == 0 {
			n++
		}
	}
	return n
}

func TestVibrationStopsOnceAfterDuration(t *testing.T) {
	in, d := newTestInput()
	d.ConnectGamepad(0)
	in.Advance(0)

	g := in.Gamepad(0)
	g.SetVibration(0.8, 2.0)
	require.Equal(t, []VibrationEvent{{Slot: 0, Left: 0.8, Right: 0.8}}, d.Vibrations())
	assert.True(t, g.Vibrating())

	for i := 0; i < 7; i++ {
		in.Advance(0.25)
	}
	assert.True(t, g.Vibrating(), "1.75s elapsed, still running")
	assert.Equal(t, 0, countStops(d.Vibrations(), 0))

	in.Advance(0.25)
	assert.False(t, g.Vibrating())
	assert.Equal(t, 1, countStops(d.Vibrations(), 0))

	for i := 0; i < 20; i++ {
		in.Advance(0.5)
	}
	assert.Equal(t, 1, countStops(d.Vibrations(), 0), "stop must be issued exactly once")
	assert.Equal(t, 0.0, g.VibrationRemaining())
}

func TestVibrationNegativeIsIndefinite(t *testing.T) {
	in, d := newTestInput()
	d.ConnectGamepad(2)
	g := in.Gamepad(2)
	g.SetVibrationMotors(1, 0.5, -1)

	for i := 0; i < 100; i++ {
		in.Advance(1)
	}
	assert.True(t, g.Vibrating())
	assert.Equal(t, -1.0, g.VibrationRemaining())
	assert.Equal(t, 0, countStops(d.Vibrations(), 2))

	g.StopVibration()
	assert.False(t, g.Vibrating())
	assert.Equal(t, 1, countStops(d.Vibrations(), 2))
}

func TestVibrationZeroSecondsStopsNextFrame(t *testing.T) {
	in, d := newTestInput()
	g := in.Gamepad(0)
	g.SetVibration(0.5, 0)
	assert.True(t, g.Vibrating())
	in.Advance(1.0 / 60)
	assert.False(t, g.Vibrating())
	assert.Equal(t, 1, countStops(d.Vibrations(), 0))
}

func TestVibrationRearmReplacesTimer(t *testing.T) {
	in, d := newTestInput()
	g := in.Gamepad(0)
	g.SetVibration(1, 1)
	in.Advance(0.5)
	g.SetVibration(0.5, 1)
	in.Advance(0.75)
	assert.True(t, g.Vibrating())
	in.Advance(0.25)
	assert.False(t, g.Vibrating())
	assert.Equal(t, 1, countStops(d.Vibrations(), 0))
}

func TestVibrationClampsMagnitude(t *testing.T) {
	in, d := newTestInput()
	in.Gamepad(3).SetVibrationMotors(2, -1, 1)
	assert.Equal(t, []VibrationEvent{{Slot: 3, Left: 1, Right: 0}}, d.Vibrations())
}

// --- Names ---

func TestGamepadNames(t *testing.T) {
	for b := GamepadButton(0); b < gamepadButtonCount; b++ {
		got, ok := GamepadButtonByName(b.String())
		require.True(t, ok, b.String())
		assert.Equal(t, b, got)
	}
	for a := GamepadAxis(0); a < gamepadAxisCount; a++ {
		got, ok := GamepadAxisByName(a.String())
		require.True(t, ok, a.String())
		assert.Equal(t, a, got)
	}
	_, ok := GamepadButtonByName("Turbo")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", GamepadButton(200).String())
}
