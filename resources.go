package pinewood

import (
	"bytes"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"
)

// DefaultRootDirectory is where content is loaded from when nothing else is
// configured.
const DefaultRootDirectory = "Content"

// Resources loads and caches game content by name. Names are slash separated
// and relative to the root; "sprites/../hero.png" and "hero.png" share one
// cache entry.
type Resources struct {
	// RootDirectory is the disk directory backing the file system, or "" when
	// the resources were built over an arbitrary fs.FS.
	RootDirectory string

	fsys    fs.FS
	cache   map[string]any
	watcher *resourceWatcher
}

// NewResources loads content from the directory root on disk.
func NewResources(root string) *Resources {
	if root == "" {
		root = DefaultRootDirectory
	}
	r := NewResourcesFS(os.DirFS(root))
	r.RootDirectory = root
	return r
}

// NewResourcesFS loads content from fsys, typically an embed.FS.
func NewResourcesFS(fsys fs.FS) *Resources {
	return &Resources{
		fsys:  fsys,
		cache: make(map[string]any),
	}
}

// FS returns the underlying file system.
func (r *Resources) FS() fs.FS {
	return r.fsys
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
}

func (r *Resources) read(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "resources: load %s", name)
	}
	return data, nil
}

// Bytes returns the raw contents of name. The returned slice is shared with
// the cache and must not be modified.
func (r *Resources) Bytes(name string) ([]byte, error) {
	name = cleanName(name)
	if v, ok := r.cache[name]; ok {
		if data, ok := v.([]byte); ok {
			return data, nil
		}
	}
	data, err := r.read(name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = data
	return data, nil
}

// Image decodes name (PNG, JPEG or the first frame of a GIF) into an
// ebiten image.
func (r *Resources) Image(name string) (*ebiten.Image, error) {
	name = cleanName(name)
	if v, ok := r.cache[name]; ok {
		if img, ok := v.(*ebiten.Image); ok {
			return img, nil
		}
	}
	data, err := r.read(name)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "resources: decode %s", name)
	}
	img := ebiten.NewImageFromImage(src)
	r.cache[name] = img
	return img, nil
}

// GIF decodes every frame of name along with its delays.
func (r *Resources) GIF(name string) (*GIFAnimation, error) {
	name = cleanName(name)
	if v, ok := r.cache[name]; ok {
		if anim, ok := v.(*GIFAnimation); ok {
			return anim, nil
		}
	}
	data, err := r.read(name)
	if err != nil {
		return nil, err
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "resources: decode %s", name)
	}
	anim := newGIFAnimation(g)
	r.cache[name] = anim
	return anim, nil
}

// YAML decodes name into out. The decoded value is not cached; the raw bytes
// are.
func (r *Resources) YAML(name string, out any) error {
	data, err := r.Bytes(name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "resources: decode %s", cleanName(name))
	}
	return nil
}

// LoadYAML decodes name into a fresh T.
func LoadYAML[T any](r *Resources, name string) (T, error) {
	var v T
	err := r.YAML(name, &v)
	return v, err
}

// Localized returns the name to load for lang: "text/intro.fr.yaml" when it
// exists for lang "fr", otherwise name itself.
func (r *Resources) Localized(name, lang string) string {
	name = cleanName(name)
	if lang == "" {
		return name
	}
	ext := path.Ext(name)
	candidate := strings.TrimSuffix(name, ext) + "." + lang + ext
	if _, ok := r.cache[candidate]; ok {
		return candidate
	}
	if _, err := fs.Stat(r.fsys, candidate); err == nil {
		return candidate
	}
	return name
}

// Loaded reports whether name is in the cache.
func (r *Resources) Loaded(name string) bool {
	_, ok := r.cache[cleanName(name)]
	return ok
}

// Invalidate drops name from the cache so the next load reads it again.
// Atlases built on an invalidated page image are dropped too. Images already
// handed out stay valid; they are left to the garbage collector.
func (r *Resources) Invalidate(name string) {
	name = cleanName(name)
	v, ok := r.cache[name]
	if !ok {
		return
	}
	if img, ok := v.(*ebiten.Image); ok {
		for other, cached := range r.cache {
			if a, ok := cached.(*Atlas); ok && slices.Contains(a.Pages, img) {
				delete(r.cache, other)
			}
		}
	}
	delete(r.cache, name)
}

// Reload refreshes name after its file changed. A cached image whose size is
// unchanged is rewritten in place, so every holder of it sees the new pixels.
// Anything else is invalidated.
func (r *Resources) Reload(name string) {
	name = cleanName(name)
	if img, ok := r.cache[name].(*ebiten.Image); ok {
		err := r.rewriteImage(name, img)
		if err == nil {
			return
		}
		debugf("reload %s: %v", name, err)
	}
	r.Invalidate(name)
}

func (r *Resources) rewriteImage(name string, img *ebiten.Image) error {
	data, err := r.read(name)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "resources: decode %s", name)
	}
	size := img.Bounds().Size()
	if src.Bounds().Size() != size {
		return errors.Errorf("resources: %s changed size from %v to %v", name, size, src.Bounds().Size())
	}
	rgba := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	img.WritePixels(rgba.Pix)
	return nil
}

// Unload deallocates every cached image and clears the cache. Images
// previously returned by Image, GIF or Atlas must not be drawn afterwards.
func (r *Resources) Unload() {
	for name, v := range r.cache {
		release(v)
		delete(r.cache, name)
	}
}

func release(v any) {
	switch v := v.(type) {
	case *ebiten.Image:
		v.Deallocate()
	case *GIFAnimation:
		v.deallocate()
	}
}
