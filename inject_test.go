package pinewood

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInputScriptReplaysFrames(t *testing.T) {
	d, err := LoadInputScript([]byte(`
steps:
  - action: press
    key: Space
  - action: move
    x: 120
    y: 40
  - action: wait
    frames: 3
  - action: release
    key: Space
  - action: scroll
    dy: 1
`))
	require.NoError(t, err)
	in := NewInput(d)

	var held []bool
	for i := 0; i < 5; i++ {
		in.Advance(1.0 / 60)
		held = append(held, in.Keyboard().IsPressed(ebiten.KeySpace))
	}
	assert.Equal(t, []bool{true, true, true, false, false}, held)
	assert.Equal(t, Vec2{120, 40}, in.Mouse().Position())
	assert.True(t, d.Done())
}

func TestLoadInputScriptJustPressedOnce(t *testing.T) {
	d, err := LoadInputScript([]byte(`
steps:
  - action: press
    mouse: left
  - action: wait
    frames: 2
  - action: release
    mouse: left
`))
	require.NoError(t, err)
	in := NewInput(d)

	in.Advance(0)
	assert.True(t, in.Mouse().IsJustPressed(ebiten.MouseButtonLeft))
	in.Advance(0)
	assert.False(t, in.Mouse().IsJustPressed(ebiten.MouseButtonLeft))
	assert.True(t, in.Mouse().IsPressed(ebiten.MouseButtonLeft))
	in.Advance(0)
	assert.True(t, in.Mouse().IsJustReleased(ebiten.MouseButtonLeft))
}

func TestLoadInputScriptGamepad(t *testing.T) {
	d, err := LoadInputScript([]byte(`
steps:
  - action: connect
    gamepad: 1
  - action: button
    gamepad: 1
    button: A
    down: true
  - action: axis
    gamepad: 1
    axis: LeftTrigger
    value: 0.8
  - action: wait
  - action: press
    gamepad: 1
    button: DPadLeft
  - action: release
    gamepad: 1
    button: A
  - action: disconnect
    gamepad: 0
`))
	require.NoError(t, err)
	in := NewInput(d)

	in.Advance(0)
	g := in.Gamepad(1)
	assert.True(t, g.IsConnected())
	assert.True(t, g.IsJustPressed(GamepadA))
	assert.Equal(t, 0.8, g.LeftTrigger())
	assert.Equal(t, 1, g.AxisDirection(AxisLeftTrigger))

	in.Advance(0)
	assert.True(t, g.IsJustPressed(GamepadDPadLeft))
	assert.True(t, g.IsJustReleased(GamepadA))
}

func TestLoadInputScriptTypeText(t *testing.T) {
	d, err := LoadInputScript([]byte(`
steps:
  - action: type
    text: "hi"
`))
	require.NoError(t, err)
	in := NewInput(d)
	in.Advance(0)
	assert.Equal(t, "hi", string(in.Chars()))
}

func TestLoadInputScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"invalid yaml", "steps: [", "parse input script"},
		{"unknown action", "steps:\n  - action: dance\n", `step 1: unknown action "dance"`},
		{"missing action", "steps:\n  - key: A\n", "step 1: missing action"},
		{"unknown key", "steps:\n  - action: press\n    key: Hyper\n", `unknown key "Hyper"`},
		{"unknown mouse", "steps:\n  - action: press\n    mouse: thumb\n", `unknown mouse button "thumb"`},
		{"unknown button", "steps:\n  - action: press\n    button: Turbo\n", `unknown gamepad button "Turbo"`},
		{"unknown axis", "steps:\n  - action: axis\n    axis: Throttle\n", `unknown axis "Throttle"`},
		{"bad slot", "steps:\n  - action: connect\n    gamepad: 9\n", "gamepad 9 out of range"},
		{"press nothing", "steps:\n  - action: wait\n  - action: press\n", "step 2: press needs a key, mouse or button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInputScript([]byte(tt.script))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadInputScriptEmpty(t *testing.T) {
	for _, src := range []string{"", "steps: []\n"} {
		_, err := LoadInputScript([]byte(src))
		assert.True(t, errors.Is(err, ErrEmptyScript), "script %q: %v", src, err)
	}
}

func TestScriptedDeviceWithoutScriptIsDone(t *testing.T) {
	d := NewScriptedDevice()
	assert.True(t, d.Done())
	d.Step()
	assert.True(t, d.Done())
}

func TestScriptedDeviceIgnoresBadSlots(t *testing.T) {
	d := NewScriptedDevice()
	assert.NotPanics(t, func() {
		d.ConnectGamepad(-1)
		d.DisconnectGamepad(MaxGamepads)
		d.SetGamepadButton(7, GamepadA, true)
		d.SetGamepadAxis(-3, AxisLeftStickX, 1)
	})
	assert.Equal(t, GamepadSnapshot{}, d.Gamepad(7))
}

func TestScriptedDeviceButtonNeedsConnection(t *testing.T) {
	d := NewScriptedDevice()
	in := NewInput(d)
	d.SetGamepadButton(0, GamepadB, true)
	in.Advance(0)
	assert.False(t, in.Gamepad(0).IsPressed(GamepadB))

	d.pads[0].Connected = true
	in.Advance(0)
	assert.True(t, in.Gamepad(0).IsJustPressed(GamepadB))
}
