package font

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/visionex-project/captioner/pkg/caption"
	"github.com/visionex-project/captioner/pkg/utils"
)

type FontProvider interface {
	// Returns a face for the font spec, falling back to the default family for unknown names.
	Face(spec caption.FontSpec) xfont.Face
	// Names of the registered families.
	Families() []string
}

var _ caption.FontResolver = (FontProvider)(nil)

const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// Generic CSS family names and the registered family they resolve to.
var genericFamilies = map[string]string{
	"sans-serif": FamilyGo,
	"serif":      FamilyGo,
	"system-ui":  FamilyGo,
	"monospace":  FamilyGoMono,
}

type FontsByStyle struct {
	Normal FontsByWeight
	Italic FontsByWeight
}

type FontsByWeight struct {
	Regular  *truetype.Font
	SemiBold *truetype.Font
	Bold     *truetype.Font
}

type namedFamily struct {
	name  string
	fonts FontsByStyle
}

type fontProvider struct {
	basePath string
	families []namedFamily

	mu    sync.Mutex
	faces map[string]xfont.Face
}

// New registers the embedded Go families, then every family directory under basePath.
// An empty basePath registers only the embedded families.
func New(basePath string) (FontProvider, error) {
	fp := &fontProvider{
		basePath: basePath,
		faces:    map[string]xfont.Face{},
	}

	goFamily, err := embeddedFamily(
		[3][]byte{goregular.TTF, gomedium.TTF, gobold.TTF},
		[3][]byte{goitalic.TTF, gomediumitalic.TTF, gobolditalic.TTF},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Go fonts: %w", err)
	}
	monoFamily, err := embeddedFamily(
		[3][]byte{gomono.TTF, gomono.TTF, gomonobold.TTF},
		[3][]byte{gomonoitalic.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Go Mono fonts: %w", err)
	}
	fp.families = append(fp.families,
		namedFamily{name: FamilyGo, fonts: goFamily},
		namedFamily{name: FamilyGoMono, fonts: monoFamily},
	)

	if basePath == "" {
		return fp, nil
	}
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory %s: %w", basePath, err)
	}
	for _, entry := range utils.Filter(entries, func(entry os.DirEntry) bool { return entry.IsDir() }) {
		family, err := fp.loadFontsByStyle(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s fonts: %w", entry.Name(), err)
		}
		fp.families = append(fp.families, namedFamily{name: entry.Name(), fonts: *family})
	}
	return fp, nil
}

func embeddedFamily(normal [3][]byte, italic [3][]byte) (FontsByStyle, error) {
	parse := func(files [3][]byte) (FontsByWeight, error) {
		fonts := [3]*truetype.Font{}
		for i, data := range files {
			f, err := truetype.Parse(data)
			if err != nil {
				return FontsByWeight{}, err
			}
			fonts[i] = f
		}
		return FontsByWeight{Regular: fonts[0], SemiBold: fonts[1], Bold: fonts[2]}, nil
	}
	normalFonts, err := parse(normal)
	if err != nil {
		return FontsByStyle{}, err
	}
	italicFonts, err := parse(italic)
	if err != nil {
		return FontsByStyle{}, err
	}
	return FontsByStyle{Normal: normalFonts, Italic: italicFonts}, nil
}

// A family directory holds "<Family>-Regular.ttf" and optionally the SemiBold, Bold,
// Italic, SemiBoldItalic and BoldItalic variants. Missing variants fall back to the
// nearest one present.
// E.g., fonts/Noto Sans/Noto Sans-Regular.ttf
func (fp *fontProvider) loadFontsByStyle(family string) (*FontsByStyle, error) {
	dir := filepath.Join(fp.basePath, family)
	regular, err := parseFontFile(filepath.Join(dir, family+"-Regular.ttf"))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s regular font: %w", family, err)
	}

	optional := func(variant string, fallback *truetype.Font) (*truetype.Font, error) {
		path := filepath.Join(dir, family+"-"+variant+".ttf")
		if _, err := os.Stat(path); err != nil {
			return fallback, nil
		}
		f, err := parseFontFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s %s font: %w", family, variant, err)
		}
		return f, nil
	}

	bold, err := optional("Bold", regular)
	if err != nil {
		return nil, err
	}
	semiBold, err := optional("SemiBold", bold)
	if err != nil {
		return nil, err
	}
	italic, err := optional("Italic", regular)
	if err != nil {
		return nil, err
	}
	boldItalic, err := optional("BoldItalic", italic)
	if err != nil {
		return nil, err
	}
	semiBoldItalic, err := optional("SemiBoldItalic", boldItalic)
	if err != nil {
		return nil, err
	}

	return &FontsByStyle{
		Normal: FontsByWeight{Regular: regular, SemiBold: semiBold, Bold: bold},
		Italic: FontsByWeight{Regular: italic, SemiBold: semiBoldItalic, Bold: boldItalic},
	}, nil
}

func (fp *fontProvider) Families() []string {
	return utils.Map(fp.families, func(family namedFamily) string {
		return family.name
	})
}

func (fp *fontProvider) Face(spec caption.FontSpec) xfont.Face {
	key := spec.String()

	fp.mu.Lock()
	defer fp.mu.Unlock()
	if face, ok := fp.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(fp.fontFor(spec), &truetype.Options{Size: spec.Px})
	fp.faces[key] = face
	return face
}

func (fp *fontProvider) fontFor(spec caption.FontSpec) *truetype.Font {
	family := fp.lookupFamily(spec.Family)
	byWeight := family.fonts.Normal
	if spec.Italic() {
		byWeight = family.fonts.Italic
	}
	return getFontByWeight(byWeight, spec.Weight)
}

// Defaults to the Go family for unknown names, the way a browser falls back to the
// generic family listed after the requested one.
func (fp *fontProvider) lookupFamily(name string) namedFamily {
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if generic, ok := genericFamilies[strings.ToLower(name)]; ok {
		name = generic
	}
	family, ok := utils.Find(fp.families, func(family namedFamily) bool {
		return strings.EqualFold(family.name, name)
	})
	if !ok {
		return fp.families[0]
	}
	return family
}

func getFontByWeight(fonts FontsByWeight, weight int) *truetype.Font {
	if weight >= caption.BOLD_WEIGHT {
		return fonts.Bold
	} else if weight >= caption.SEMIBOLD_WEIGHT {
		return fonts.SemiBold
	}
	return fonts.Regular
}

func parseFontFile(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(fontBytes)
}
