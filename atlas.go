package pinewood

import (
	"encoding/json"
	"image"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// ErrAtlasFormat is returned for atlas JSON with neither a "frames" nor a
// "textures" key.
var ErrAtlasFormat = errors.New(`atlas has neither "frames" nor "textures"`)

// AtlasRegion locates one sprite within an atlas page.
type AtlasRegion struct {
	Page int
	// Frame is the sprite's rectangle on the page. For rotated regions the
	// page stores it turned 90 degrees clockwise, so Frame's width and
	// height are swapped relative to Size.
	Frame image.Rectangle
	// Size is the untrimmed size as authored.
	Size image.Point
	// Offset is where the trimmed frame sits within Size.
	Offset  image.Point
	Rotated bool
}

// Atlas is a TexturePacker sprite sheet: page images plus named regions.
type Atlas struct {
	Pages   []*ebiten.Image
	regions map[string]AtlasRegion
}

// Region returns the named region.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Names returns every region name with the given prefix, sorted. Frame
// sequences such as "run_00.png", "run_01.png" come back in order.
func (a *Atlas) Names(prefix string) []string {
	var names []string
	for name := range a.regions {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Image returns the named region as a sub-image of its page, as stored.
// Rotated regions come back rotated; use Draw to render them upright.
func (a *Atlas) Image(name string) *ebiten.Image {
	r, ok := a.regions[name]
	if !ok || r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		debugf("atlas region %q not found", name)
		return nil
	}
	return a.Pages[r.Page].SubImage(r.Frame).(*ebiten.Image)
}

// Draw renders the named region upright with its untrimmed top-left corner
// at the origin of op.GeoM. Unknown names draw nothing.
func (a *Atlas) Draw(dst *ebiten.Image, name string, op *ebiten.DrawImageOptions) {
	img := a.Image(name)
	if img == nil {
		return
	}
	r := a.regions[name]
	var o ebiten.DrawImageOptions
	if op != nil {
		o = *op
	}
	o.GeoM = regionGeoM(r)
	if op != nil {
		o.GeoM.Concat(op.GeoM)
	}
	dst.DrawImage(img, &o)
}

// regionGeoM maps page pixels of r to its untrimmed sprite space.
func regionGeoM(r AtlasRegion) ebiten.GeoM {
	var g ebiten.GeoM
	if r.Rotated {
		g.Rotate(-math.Pi / 2)
		g.Translate(0, float64(r.Frame.Dx()))
	}
	g.Translate(float64(r.Offset.X), float64(r.Offset.Y))
	return g
}

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
	SourceSize       atlasSize `json:"sourceSize"`
}

type atlasPage struct {
	Image  string                `json:"image"`
	Frames map[string]atlasFrame `json:"frames"`
}

type atlasFile struct {
	Frames   map[string]atlasFrame `json:"frames"`
	Textures []atlasPage           `json:"textures"`
	Meta     struct {
		Image string `json:"image"`
	} `json:"meta"`
}

// parseAtlas decodes TexturePacker JSON in either the hash format (one
// "frames" object) or the multi-page "textures" array. It returns the
// regions and the page image names in page order.
func parseAtlas(data []byte) (map[string]AtlasRegion, []string, error) {
	var f atlasFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, err
	}
	regions := make(map[string]AtlasRegion)
	switch {
	case f.Textures != nil:
		pages := make([]string, len(f.Textures))
		for i, tex := range f.Textures {
			pages[i] = tex.Image
			for name, fr := range tex.Frames {
				regions[name] = fr.region(i)
			}
		}
		return regions, pages, nil
	case f.Frames != nil:
		for name, fr := range f.Frames {
			regions[name] = fr.region(0)
		}
		return regions, []string{f.Meta.Image}, nil
	default:
		return nil, nil, ErrAtlasFormat
	}
}

func (f atlasFrame) region(page int) AtlasRegion {
	w, h := f.Frame.W, f.Frame.H
	if f.Rotated {
		w, h = h, w
	}
	return AtlasRegion{
		Page:    page,
		Frame:   image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+w, f.Frame.Y+h),
		Size:    image.Pt(f.SourceSize.W, f.SourceSize.H),
		Offset:  image.Pt(f.SpriteSourceSize.X, f.SpriteSourceSize.Y),
		Rotated: f.Rotated,
	}
}

// NewAtlas builds an atlas from TexturePacker JSON and already loaded pages.
func NewAtlas(data []byte, pages []*ebiten.Image) (*Atlas, error) {
	regions, _, err := parseAtlas(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse atlas")
	}
	return &Atlas{Pages: pages, regions: regions}, nil
}

// Atlas loads the TexturePacker JSON name and the page images it refers to,
// which are resolved relative to the JSON file.
func (r *Resources) Atlas(name string) (*Atlas, error) {
	name = cleanName(name)
	if v, ok := r.cache[name]; ok {
		if a, ok := v.(*Atlas); ok {
			return a, nil
		}
	}
	data, err := r.read(name)
	if err != nil {
		return nil, err
	}
	regions, pageNames, err := parseAtlas(data)
	if err != nil {
		return nil, errors.Wrapf(err, "resources: decode %s", name)
	}
	dir := path.Dir(name)
	pages := make([]*ebiten.Image, len(pageNames))
	for i, p := range pageNames {
		if p == "" {
			return nil, errors.Errorf("resources: decode %s: page %d has no image", name, i)
		}
		img, err := r.Image(path.Join(dir, p))
		if err != nil {
			return nil, err
		}
		pages[i] = img
	}
	a := &Atlas{Pages: pages, regions: regions}
	r.cache[name] = a
	return a, nil
}
