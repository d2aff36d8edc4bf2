package pinewood

import (
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// Context is handed to every scene callback. It replaces global state: all
// services a scene needs hang off it.
type Context struct {
	Window    *Window
	Input     *Input
	Resources *Resources
	Scenes    *SceneManager
	Clock     *Clock

	exit        bool
	screenshots []string
}

// Exit ends the game after the current update.
func (c *Context) Exit() { c.exit = true }

// Exiting reports whether Exit was called.
func (c *Context) Exiting() bool { return c.exit }

// App drives a SceneManager from Ebitengine's game loop.
type App struct {
	config Config
	ctx    *Context
	// script is the input script still to be read from the resources.
	script string
}

var _ ebiten.Game = (*App)(nil)

// NewApp builds an app from cfg. A nil device reads real hardware, unless
// cfg.Input.Script names an input script in the resources, which is then
// replayed instead. The script is read when the app starts, so it may come
// from a file system installed with UseFS.
func NewApp(cfg Config, device Device) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	SetDebugMode(cfg.Debug)

	ctx := &Context{
		Window:    newWindow(cfg.Window),
		Resources: NewResources(cfg.Resources.Root),
		Clock:     NewClock(),
	}
	ctx.Clock.TimeScale = cfg.TimeScale
	ctx.Scenes = NewSceneManager(ctx)

	app := &App{config: cfg, ctx: ctx}
	switch {
	case device != nil:
	case cfg.Input.Script != "":
		app.script = cfg.Input.Script
		device = NewScriptedDevice()
	default:
		device = NewEbitenDevice()
	}
	app.setDevice(device)
	return app, nil
}

func (a *App) setDevice(device Device) {
	a.ctx.Input = NewInput(device)
	a.ctx.Input.StickThreshold = a.config.Input.StickThreshold
}

func (a *App) loadScript() error {
	data, err := a.ctx.Resources.Bytes(a.script)
	if err != nil {
		return err
	}
	scripted, err := LoadInputScript(data)
	if err != nil {
		return errors.Wrapf(err, "pinewood: input script %s", a.script)
	}
	a.setDevice(scripted)
	a.script = ""
	return nil
}

// Context returns the app context.
func (a *App) Context() *Context { return a.ctx }

// Config returns the configuration the app was built with.
func (a *App) Config() Config { return a.config }

// Register adds a scene. See SceneManager.Register.
func (a *App) Register(name string, factory SceneFactory) error {
	return a.ctx.Scenes.Register(name, factory)
}

// UseFS serves resources from fsys instead of the configured directory.
// Call it before Run.
func (a *App) UseFS(fsys fs.FS) {
	a.ctx.Resources = NewResourcesFS(fsys)
}

// start locks registration, reads the input script, starts the resource
// watcher and loads the first scene.
func (a *App) start() error {
	a.ctx.Scenes.Lock()
	if a.script != "" {
		if err := a.loadScript(); err != nil {
			return err
		}
	}
	if a.config.Resources.Watch && a.ctx.Resources.RootDirectory != "" {
		if err := a.ctx.Resources.Watch(); err != nil {
			warnf("hot reload disabled: %v", err)
		}
	}
	return a.ctx.Scenes.LoadFirst()
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	ctx := a.ctx
	if ctx.exit {
		return ebiten.Termination
	}
	ctx.Clock.Tick(fixedStep())
	for _, name := range ctx.Resources.PollChanges() {
		debugf("resource %s changed", name)
	}
	ctx.Input.Advance(ctx.Clock.Unscaled())
	if err := ctx.Scenes.Update(); err != nil {
		return err
	}
	if ctx.exit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.ctx.Scenes.Draw(screen)
	if a.config.ShowMetrics {
		DrawMetrics(screen, a.ctx)
	}
	a.ctx.flushScreenshots(screen, a.config.ScreenshotDir)
}

// Layout implements ebiten.Game. The drawable size follows the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.ctx.Window.layout(outsideWidth, outsideHeight)
}

// Close disposes the current scene, releases cached resources and stops the
// watcher. Run calls it on exit.
func (a *App) Close() error {
	a.ctx.Scenes.Dispose()
	a.ctx.Resources.Unload()
	return a.ctx.Resources.Close()
}

// Run applies the window configuration, loads the first registered scene and
// blocks in the game loop until the window closes or a scene calls Exit.
func Run(app *App) error {
	app.ctx.Window.Apply(app.config.Window)
	if app.config.TPS > 0 {
		ebiten.SetTPS(app.config.TPS)
	}
	return app.run(ebiten.RunGame)
}

// run starts the app, hands it to loop and closes it whatever happens. A
// close error is returned when nothing failed before it.
func (a *App) run(loop func(ebiten.Game) error) (err error) {
	defer func() {
		if cerr := a.Close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				warnf("close: %v", cerr)
			}
		}
	}()
	if err := a.start(); err != nil {
		return err
	}
	if err := loop(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
