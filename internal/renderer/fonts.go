package renderer

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// cjkCandidates are system font files that cover Japanese, tried in order
// when no font is configured.
var cjkCandidates = []string{
	"NotoSansCJK-Regular.ttc",
	"NotoSansCJKjp-Regular.otf",
	"NotoSansJP-Regular.ttf",
	"ipaexg.ttf",
	"ipag.ttf",
	"Hiragino Sans GB.ttc",
	"YuGothR.ttc",
	"msgothic.ttc",
}

var (
	defaultFont     *opentype.Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// loadFont resolves fs to a parsed font. A configured path or name must
// load; otherwise a Japanese-capable system font is preferred and Go
// Regular is the final fallback.
func loadFont(fs FontSpec) (*opentype.Font, error) {
	if fs.Path != "" {
		return parseFontFile(fs.Path)
	}
	if fs.Name != "" {
		path, err := findfont.Find(fs.Name)
		if err != nil {
			return nil, fmt.Errorf("font %q not found: %w", fs.Name, err)
		}
		return parseFontFile(path)
	}

	defaultFontOnce.Do(func() {
		for _, name := range cjkCandidates {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			if f, err := parseFontFile(path); err == nil {
				defaultFont = f
				return
			}
		}
		defaultFont, defaultFontErr = opentype.Parse(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// parseFontFile reads a TTF/OTF file, or the first font of a TTC collection.
func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font collection %s: %w", path, err)
		}
		return coll.Font(0)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return f, nil
}

// faceSet holds one face per text role of a figure.
type faceSet struct {
	title font.Face
	axis  font.Face
	tick  font.Face
	item  font.Face
}

func newFaceSet(f *opentype.Font, m metrics) (*faceSet, error) {
	sizes := []float64{m.titlePt, m.axisPt, m.tickPt, m.itemPt}
	faces := make([]font.Face, len(sizes))
	for i, size := range sizes {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     m.dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			closeFaces(faces[:i])
			return nil, fmt.Errorf("failed to create %.0fpt font face: %w", size, err)
		}
		faces[i] = face
	}
	return &faceSet{title: faces[0], axis: faces[1], tick: faces[2], item: faces[3]}, nil
}

// Close releases the faces.
func (s *faceSet) Close() {
	closeFaces([]font.Face{s.title, s.axis, s.tick, s.item})
}

func closeFaces(faces []font.Face) {
	for _, f := range faces {
		if f != nil {
			f.Close()
		}
	}
}
