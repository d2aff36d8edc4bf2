package pinewood

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// VibrationEvent records one Vibrate call received by a ScriptedDevice.
type VibrationEvent struct {
	Slot        int
	Left, Right float64
}

// ScriptedDevice is a Device whose state is set by code or by a YAML input
// script instead of real hardware. Changes become visible at the next
// Input.Advance. It lets tests and attract-mode demos drive Input without
// opening a window.
type ScriptedDevice struct {
	keyboard KeyboardSnapshot
	mouse    MouseSnapshot
	pads     [MaxGamepads]GamepadSnapshot
	chars    []rune

	vibrations []VibrationEvent

	ops       []scriptOp
	cursor    int
	waitCount int
}

// NewScriptedDevice returns a device with nothing pressed, the cursor at the
// origin and no gamepads connected.
func NewScriptedDevice() *ScriptedDevice {
	return &ScriptedDevice{}
}

// PressKey holds k down.
func (d *ScriptedDevice) PressKey(k ebiten.Key) { d.keyboard.Set(k, true) }

// ReleaseKey lets k go.
func (d *ScriptedDevice) ReleaseKey(k ebiten.Key) { d.keyboard.Set(k, false) }

// PressMouse holds b down.
func (d *ScriptedDevice) PressMouse(b ebiten.MouseButton) { d.mouse.SetButton(b, true) }

// ReleaseMouse lets b go.
func (d *ScriptedDevice) ReleaseMouse(b ebiten.MouseButton) { d.mouse.SetButton(b, false) }

// MoveMouse puts the cursor at (x, y).
func (d *ScriptedDevice) MoveMouse(x, y float64) {
	d.mouse.X, d.mouse.Y = x, y
}

// ScrollMouse turns the wheel by (dx, dy).
func (d *ScriptedDevice) ScrollMouse(dx, dy float64) {
	d.mouse.ScrollX += dx
	d.mouse.ScrollY += dy
}

// ConnectGamepad plugs a gamepad into slot with nothing pressed.
// Out-of-range slots are ignored.
func (d *ScriptedDevice) ConnectGamepad(slot int) {
	if slot < 0 || slot >= MaxGamepads {
		return
	}
	d.pads[slot] = GamepadSnapshot{Connected: true}
}

// DisconnectGamepad unplugs the gamepad in slot.
func (d *ScriptedDevice) DisconnectGamepad(slot int) {
	if slot < 0 || slot >= MaxGamepads {
		return
	}
	d.pads[slot] = GamepadSnapshot{}
}

// SetGamepadButton holds or releases b on the gamepad in slot. The slot
// must be connected for the change to be reported.
func (d *ScriptedDevice) SetGamepadButton(slot int, b GamepadButton, down bool) {
	if slot < 0 || slot >= MaxGamepads {
		return
	}
	d.pads[slot].Buttons = d.pads[slot].Buttons.With(b, down)
}

// SetGamepadAxis moves axis a on the gamepad in slot to v.
func (d *ScriptedDevice) SetGamepadAxis(slot int, a GamepadAxis, v float64) {
	if slot < 0 || slot >= MaxGamepads {
		return
	}
	d.pads[slot].SetAxis(a, v)
}

// TypeText queues s to be reported as typed characters on the next frame.
func (d *ScriptedDevice) TypeText(s string) {
	d.chars = append(d.chars, []rune(s)...)
}

// Vibrations returns every Vibrate call received so far, oldest first.
func (d *ScriptedDevice) Vibrations() []VibrationEvent {
	return d.vibrations
}

// Keyboard implements Device.
func (d *ScriptedDevice) Keyboard() KeyboardSnapshot { return d.keyboard }

// Mouse implements Device.
func (d *ScriptedDevice) Mouse() MouseSnapshot { return d.mouse }

// Gamepad implements Device.
func (d *ScriptedDevice) Gamepad(slot int) GamepadSnapshot {
	if slot < 0 || slot >= MaxGamepads {
		return GamepadSnapshot{}
	}
	return d.pads[slot]
}

// Vibrate implements Device.
func (d *ScriptedDevice) Vibrate(slot int, left, right float64) {
	d.vibrations = append(d.vibrations, VibrationEvent{Slot: slot, Left: left, Right: right})
}

// AppendInputChars implements Device. Queued characters are handed out once.
func (d *ScriptedDevice) AppendInputChars(buf []rune) []rune {
	buf = append(buf, d.chars...)
	d.chars = d.chars[:0]
	return buf
}
