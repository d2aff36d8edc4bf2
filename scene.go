package pinewood

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

var (
	// ErrSceneNotFound is returned when loading a name that was never registered.
	ErrSceneNotFound = errors.New("pinewood: scene not found")
	// ErrNoScenes is returned by LoadFirst when nothing is registered.
	ErrNoScenes = errors.New("pinewood: no scenes registered")
	// ErrScenesLocked is returned by Register once the app is running.
	ErrScenesLocked = errors.New("pinewood: scenes are locked")
	// ErrDuplicateScene is returned by Register for a name already in use.
	ErrDuplicateScene = errors.New("pinewood: duplicate scene")
)

// Scene is one screen of a game: a title menu, a level, a credits roll.
// A scene receives the app Context in every callback.
type Scene interface {
	// Init loads the scene's content. A returned error aborts the switch.
	Init(ctx *Context) error
	// Update advances the scene by one tick.
	Update(ctx *Context) error
	// Draw renders the scene.
	Draw(ctx *Context, screen *ebiten.Image)
	// Dispose releases what Init acquired.
	Dispose()
}

// BackgroundColorer is implemented by scenes that want the screen cleared to
// something other than black before Draw.
type BackgroundColorer interface {
	BackgroundColor() color.Color
}

// SceneFactory builds a fresh scene each time it is loaded.
type SceneFactory func() Scene

// SceneManager owns the registered scene factories and the active scene.
type SceneManager struct {
	ctx       *Context
	names     []string
	factories map[string]SceneFactory
	locked    bool

	current     Scene
	currentName string
	pending     string
}

// NewSceneManager creates an empty manager whose scenes receive ctx.
func NewSceneManager(ctx *Context) *SceneManager {
	return &SceneManager{
		ctx:       ctx,
		factories: make(map[string]SceneFactory),
	}
}

// Register adds a scene factory under name. The first registered scene is
// the one LoadFirst starts with.
func (m *SceneManager) Register(name string, factory SceneFactory) error {
	if m.locked {
		return errors.Wrapf(ErrScenesLocked, "register %q", name)
	}
	if _, ok := m.factories[name]; ok {
		return errors.Wrapf(ErrDuplicateScene, "register %q", name)
	}
	if factory == nil {
		return errors.Errorf("pinewood: register %q: nil factory", name)
	}
	m.names = append(m.names, name)
	m.factories[name] = factory
	return nil
}

// Names returns the registered scene names in registration order.
func (m *SceneManager) Names() []string {
	return append([]string(nil), m.names...)
}

// Lock forbids further registration. App.Run calls it before the first
// scene loads.
func (m *SceneManager) Lock() {
	m.locked = true
}

// Locked reports whether registration is closed.
func (m *SceneManager) Locked() bool { return m.locked }

// Load builds and initializes the named scene, then disposes the old one
// and makes the new one current. If Init fails the new scene is disposed and
// the old one stays current.
//
// Both scenes are alive while the new one initializes: the old scene is
// still Current during Init. Its Dispose runs afterwards, so it must not
// release shared resources the new scene may have just loaded, for example
// by calling Resources.Unload.
func (m *SceneManager) Load(name string) error {
	factory, ok := m.factories[name]
	if !ok {
		return errors.Wrapf(ErrSceneNotFound, "load %q", name)
	}
	next := factory()
	if next == nil {
		return errors.Errorf("pinewood: load %q: factory returned nil", name)
	}
	if err := next.Init(m.ctx); err != nil {
		next.Dispose()
		return errors.Wrapf(err, "pinewood: init scene %q", name)
	}
	if m.current != nil {
		m.current.Dispose()
		debugf("scene %q disposed", m.currentName)
	}
	m.current = next
	m.currentName = name
	debugf("scene %q loaded", name)
	return nil
}

// LoadFirst loads the first registered scene.
func (m *SceneManager) LoadFirst() error {
	if len(m.names) == 0 {
		return ErrNoScenes
	}
	return m.Load(m.names[0])
}

// Request schedules a switch to name at the start of the next Update, so a
// scene can ask to leave without being disposed mid-callback.
func (m *SceneManager) Request(name string) {
	m.pending = name
}

// Pending returns the requested scene name, or "" when none is queued.
func (m *SceneManager) Pending() string {
	return m.pending
}

// Current returns the active scene, or nil before the first load.
func (m *SceneManager) Current() Scene {
	return m.current
}

// CurrentName returns the active scene's name.
func (m *SceneManager) CurrentName() string {
	return m.currentName
}

// applyPending performs a requested switch.
func (m *SceneManager) applyPending() error {
	if m.pending == "" {
		return nil
	}
	name := m.pending
	m.pending = ""
	return m.Load(name)
}

// Update applies a pending switch, then updates the active scene.
func (m *SceneManager) Update() error {
	if err := m.applyPending(); err != nil {
		return err
	}
	if m.current == nil {
		return nil
	}
	return m.current.Update(m.ctx)
}

// Draw clears screen to the scene's background color and draws the scene.
func (m *SceneManager) Draw(screen *ebiten.Image) {
	if m.current == nil {
		screen.Fill(color.Black)
		return
	}
	var bg color.Color = color.Black
	if b, ok := m.current.(BackgroundColorer); ok {
		bg = b.BackgroundColor()
	}
	screen.Fill(bg)
	m.current.Draw(m.ctx, screen)
}

// Dispose disposes the active scene, leaving none current.
func (m *SceneManager) Dispose() {
	if m.current == nil {
		return
	}
	m.current.Dispose()
	m.current = nil
	m.currentName = ""
}
