package pinewood

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T, delays ...int) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.White}
	g := &gif.GIF{}
	for _, d := range delays {
		g.Image = append(g.Image, image.NewPaletted(image.Rect(0, 0, 4, 4), pal))
		g.Delay = append(g.Delay, d)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

type levelData struct {
	Name    string   `yaml:"name"`
	Enemies []string `yaml:"enemies"`
}

func testResources(t *testing.T) *Resources {
	t.Helper()
	return NewResourcesFS(fstest.MapFS{
		"hero.png":           {Data: pngBytes(t, 8, 4)},
		"spin.gif":           {Data: gifBytes(t, 10, 0, 25)},
		"levels/one.yaml":    {Data: []byte("name: One\nenemies: [slime, bat]\n")},
		"text/intro.yaml":    {Data: []byte("name: Hello\n")},
		"text/intro.fr.yaml": {Data: []byte("name: Bonjour\n")},
		"broken.yaml":        {Data: []byte("name: [\n")},
	})
}

func TestResourcesBytesCached(t *testing.T) {
	r := testResources(t)
	a, err := r.Bytes("levels/one.yaml")
	require.NoError(t, err)
	b, err := r.Bytes("levels/../levels/one.yaml")
	require.NoError(t, err)
	assert.Same(t, &a[0], &b[0], "cleaned names share a cache entry")
	assert.True(t, r.Loaded("/levels/one.yaml"))
}

func TestResourcesMissing(t *testing.T) {
	r := testResources(t)
	_, err := r.Bytes("nope.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "resources: load nope.txt")
}

func TestResourcesYAML(t *testing.T) {
	r := testResources(t)
	lvl, err := LoadYAML[levelData](r, "levels/one.yaml")
	require.NoError(t, err)
	assert.Equal(t, levelData{Name: "One", Enemies: []string{"slime", "bat"}}, lvl)

	_, err = LoadYAML[levelData](r, "broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resources: decode broken.yaml")
}

func TestResourcesLocalized(t *testing.T) {
	r := testResources(t)
	assert.Equal(t, "text/intro.fr.yaml", r.Localized("text/intro.yaml", "fr"))
	assert.Equal(t, "text/intro.yaml", r.Localized("text/intro.yaml", "de"))
	assert.Equal(t, "text/intro.yaml", r.Localized("text/intro.yaml", ""))
}

func TestResourcesImage(t *testing.T) {
	r := testResources(t)
	img, err := r.Image("hero.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	again, err := r.Image("hero.png")
	require.NoError(t, err)
	assert.Same(t, img, again)

	_, err = r.Image("levels/one.yaml")
	assert.Error(t, err)
}

func TestResourcesGIF(t *testing.T) {
	r := testResources(t)
	anim, err := r.GIF("spin.gif")
	require.NoError(t, err)
	assert.Equal(t, 3, anim.Frames())
	assert.InDelta(t, 0.1+defaultGIFDelay+0.25, anim.Duration(), 1e-9)
}

func TestResourcesInvalidateAndUnload(t *testing.T) {
	r := testResources(t)
	_, err := r.Bytes("levels/one.yaml")
	require.NoError(t, err)
	_, err = r.Image("hero.png")
	require.NoError(t, err)

	r.Invalidate("levels/one.yaml")
	assert.False(t, r.Loaded("levels/one.yaml"))
	assert.True(t, r.Loaded("hero.png"))

	r.Unload()
	assert.False(t, r.Loaded("hero.png"))
}

func TestResourcesWatchNeedsDisk(t *testing.T) {
	r := testResources(t)
	assert.Error(t, r.Watch())
	assert.Nil(t, r.PollChanges())
	assert.NoError(t, r.Close())
}

func TestResourcesWatchInvalidates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "levels"), 0o755))
	file := filepath.Join(dir, "levels", "one.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: One\n"), 0o644))

	r := NewResources(dir)
	lvl, err := LoadYAML[levelData](r, "levels/one.yaml")
	require.NoError(t, err)
	assert.Equal(t, "One", lvl.Name)

	require.NoError(t, r.Watch())
	defer r.Close()
	require.NoError(t, os.WriteFile(file, []byte("name: Two\n"), 0o644))

	var changed []string
	require.Eventually(t, func() bool {
		changed = append(changed, r.PollChanges()...)
		return len(changed) > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Contains(t, changed, "levels/one.yaml")
	lvl, err = LoadYAML[levelData](r, "levels/one.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Two", lvl.Name)
}

func TestResourcesImageHeldAcrossInvalidate(t *testing.T) {
	r := NewResourcesFS(fstest.MapFS{"hero.png": {Data: pngBytes(t, 8, 4)}})
	held, err := r.Image("hero.png")
	require.NoError(t, err)

	r.Invalidate("hero.png")
	assert.False(t, r.Loaded("hero.png"))
	assert.Equal(t, image.Rect(0, 0, 8, 4), held.Bounds())
	dst := ebiten.NewImage(8, 4)
	defer dst.Deallocate()
	assert.NotPanics(t, func() { dst.DrawImage(held, nil) })

	fresh, err := r.Image("hero.png")
	require.NoError(t, err)
	assert.NotSame(t, held, fresh)
}

func TestResourcesReloadImage(t *testing.T) {
	fsys := fstest.MapFS{
		"sheet.json": {Data: []byte(singlePageAtlas)},
		"sheet.png":  {Data: pngBytes(t, 64, 32)},
	}
	r := NewResourcesFS(fsys)
	page, err := r.Image("sheet.png")
	require.NoError(t, err)
	atlas, err := r.Atlas("sheet.json")
	require.NoError(t, err)

	// Same size: the pixels are rewritten into the image callers already hold.
	fsys["sheet.png"] = &fstest.MapFile{Data: pngBytes(t, 64, 32)}
	r.Reload("sheet.png")
	again, err := r.Image("sheet.png")
	require.NoError(t, err)
	assert.Same(t, page, again)
	cached, err := r.Atlas("sheet.json")
	require.NoError(t, err)
	assert.Same(t, atlas, cached)

	// A new size cannot be written in place, so the entry is replaced.
	fsys["sheet.png"] = &fstest.MapFile{Data: pngBytes(t, 32, 32)}
	r.Reload("sheet.png")
	assert.False(t, r.Loaded("sheet.json"))
	resized, err := r.Image("sheet.png")
	require.NoError(t, err)
	assert.NotSame(t, page, resized)
	assert.Equal(t, image.Rect(0, 0, 32, 32), resized.Bounds())
	assert.Equal(t, image.Rect(0, 0, 64, 32), page.Bounds())

	// Non-images fall back to invalidation.
	_, err = r.Bytes("sheet.json")
	require.NoError(t, err)
	r.Reload("sheet.json")
	assert.False(t, r.Loaded("sheet.json"))
}
