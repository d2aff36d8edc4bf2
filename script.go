package pinewood

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrEmptyScript is returned by LoadInputScript for a script with no steps.
var ErrEmptyScript = errors.New("pinewood: input script has no steps")

// scriptStep is one entry of a YAML input script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Key     string  `yaml:"key,omitempty"`
	Mouse   string  `yaml:"mouse,omitempty"`
	Button  string  `yaml:"button,omitempty"`
	Gamepad int     `yaml:"gamepad,omitempty"`
	Axis    string  `yaml:"axis,omitempty"`
	Value   float64 `yaml:"value,omitempty"`
	Down    bool    `yaml:"down,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	DX      float64 `yaml:"dx,omitempty"`
	DY      float64 `yaml:"dy,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
	Text    string  `yaml:"text,omitempty"`
}

// inputScript is the top-level YAML structure.
type inputScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// scriptOp is a compiled step: either a wait or a state change.
type scriptOp struct {
	wait  int
	apply func(d *ScriptedDevice)
}

var mouseButtonNames = map[string]ebiten.MouseButton{
	"left":    ebiten.MouseButtonLeft,
	"right":   ebiten.MouseButtonRight,
	"middle":  ebiten.MouseButtonMiddle,
	"back":    ebiten.MouseButton3,
	"forward": ebiten.MouseButton4,
}

// LoadInputScript parses a YAML input script and returns a device that
// replays it one frame per Input.Advance.
//
//	steps:
//	  - action: press
//	    key: Space
//	  - action: wait
//	    frames: 3
//	  - action: release
//	    key: Space
//
// Actions are press, release, wait, move, scroll, connect, disconnect,
// button, axis and type. Steps run in order until a wait; a wait of n
// frames holds the state for n frames including the current one.
func LoadInputScript(data []byte) (*ScriptedDevice, error) {
	var script inputScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "parse input script")
	}
	if len(script.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	ops := make([]scriptOp, 0, len(script.Steps))
	for i, st := range script.Steps {
		op, err := compileStep(st)
		if err != nil {
			return nil, errors.Wrapf(err, "parse input script: step %d", i+1)
		}
		ops = append(ops, op)
	}
	d := NewScriptedDevice()
	d.ops = ops
	return d, nil
}

func compileStep(st scriptStep) (scriptOp, error) {
	switch st.Action {
	case "press", "release":
		down := st.Action == "press"
		return compileButton(st, down)
	case "button":
		return compileButton(st, st.Down)
	case "wait":
		frames := st.Frames
		if frames < 1 {
			frames = 1
		}
		return scriptOp{wait: frames}, nil
	case "move":
		x, y := st.X, st.Y
		return scriptOp{apply: func(d *ScriptedDevice) { d.MoveMouse(x, y) }}, nil
	case "scroll":
		dx, dy := st.DX, st.DY
		return scriptOp{apply: func(d *ScriptedDevice) { d.ScrollMouse(dx, dy) }}, nil
	case "connect", "disconnect":
		slot, err := scriptSlot(st)
		if err != nil {
			return scriptOp{}, err
		}
		if st.Action == "connect" {
			return scriptOp{apply: func(d *ScriptedDevice) { d.ConnectGamepad(slot) }}, nil
		}
		return scriptOp{apply: func(d *ScriptedDevice) { d.DisconnectGamepad(slot) }}, nil
	case "axis":
		slot, err := scriptSlot(st)
		if err != nil {
			return scriptOp{}, err
		}
		a, ok := GamepadAxisByName(st.Axis)
		if !ok {
			return scriptOp{}, errors.Errorf("unknown axis %q", st.Axis)
		}
		v := st.Value
		return scriptOp{apply: func(d *ScriptedDevice) { d.SetGamepadAxis(slot, a, v) }}, nil
	case "type":
		text := st.Text
		return scriptOp{apply: func(d *ScriptedDevice) { d.TypeText(text) }}, nil
	case "":
		return scriptOp{}, errors.New("missing action")
	}
	return scriptOp{}, errors.Errorf("unknown action %q", st.Action)
}

// compileButton resolves exactly one of key, mouse or button.
func compileButton(st scriptStep, down bool) (scriptOp, error) {
	switch {
	case st.Key != "":
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(st.Key)); err != nil {
			return scriptOp{}, errors.Errorf("unknown key %q", st.Key)
		}
		return scriptOp{apply: func(d *ScriptedDevice) { d.keyboard.Set(k, down) }}, nil
	case st.Mouse != "":
		b, ok := mouseButtonNames[strings.ToLower(st.Mouse)]
		if !ok {
			return scriptOp{}, errors.Errorf("unknown mouse button %q", st.Mouse)
		}
		return scriptOp{apply: func(d *ScriptedDevice) { d.mouse.SetButton(b, down) }}, nil
	case st.Button != "":
		slot, err := scriptSlot(st)
		if err != nil {
			return scriptOp{}, err
		}
		b, ok := GamepadButtonByName(st.Button)
		if !ok {
			return scriptOp{}, errors.Errorf("unknown gamepad button %q", st.Button)
		}
		return scriptOp{apply: func(d *ScriptedDevice) { d.SetGamepadButton(slot, b, down) }}, nil
	}
	return scriptOp{}, errors.Errorf("%s needs a key, mouse or button", st.Action)
}

func scriptSlot(st scriptStep) (int, error) {
	if st.Gamepad < 0 || st.Gamepad >= MaxGamepads {
		return 0, errors.Errorf("gamepad %d out of range [0, %d)", st.Gamepad, MaxGamepads)
	}
	return st.Gamepad, nil
}

// Step applies the script's actions for one frame. Input.Advance calls it
// before sampling the device.
func (d *ScriptedDevice) Step() {
	if d.waitCount > 0 {
		d.waitCount--
		return
	}
	for d.cursor < len(d.ops) {
		op := d.ops[d.cursor]
		d.cursor++
		if op.wait > 0 {
			d.waitCount = op.wait - 1 // this frame counts as one
			return
		}
		op.apply(d)
	}
}

// Done reports whether every scripted step has run. A device without a
// script is always done.
func (d *ScriptedDevice) Done() bool {
	return d.cursor >= len(d.ops) && d.waitCount == 0
}
