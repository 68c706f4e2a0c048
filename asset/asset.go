// Package asset resolves the fonts and optional detection models Carnet
// draws with. Nothing is embedded in the binary: the decorative title font
// is discovered among well-known system font files and degrades to the Go
// regular font, and the face detection cascade is read from the settings
// directory when the user has installed one.
package asset

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/carnetphoto/carnet/util/log"
)

// decorativeCandidates lists system fonts tried for titles, best first.
// Arial Rounded matches the output of the tool Carnet replaces.
var decorativeCandidates = []string{
	`C:\Windows\Fonts\ARLRDBD.TTF`,
	`C:\Windows\Fonts\arialbd.ttf`,
	"/System/Library/Fonts/Supplemental/Arial Rounded Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// Manager loads fonts and model files. One instance is shared per process.
type Manager struct {
	modelDir string
	fontDirs []string

	mu         sync.Mutex
	titleFont  *opentype.Font
	titleTried bool
	faceCache  map[float64]font.Face
}

// NewManager creates an asset manager. modelDir is where optional model
// files live, usually the settings directory.
func NewManager(modelDir string) *Manager {
	return &Manager{
		modelDir:  modelDir,
		faceCache: make(map[float64]font.Face),
	}
}

// AddFontPath prepends a font file candidate, ahead of the system ones.
func (am *Manager) AddFontPath(path string) {
	am.fontDirs = append([]string{path}, am.fontDirs...)
}

// TitleFace returns a face for title text at the given point size. The
// decorative system font is preferred; the Go regular font is the silent
// fallback and Face7x13 the last resort. Never returns nil.
func (am *Manager) TitleFace(size float64) font.Face {
	am.mu.Lock()
	defer am.mu.Unlock()

	if face, ok := am.faceCache[size]; ok {
		return face
	}

	fnt := am.loadTitleFontLocked()
	if fnt != nil {
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			am.faceCache[size] = face
			return face
		}
		log.Printf("Failed to build font face at %.0fpt: %v", size, err)
	}
	am.faceCache[size] = basicfont.Face7x13
	return basicfont.Face7x13
}

func (am *Manager) loadTitleFontLocked() *opentype.Font {
	if am.titleTried {
		return am.titleFont
	}
	am.titleTried = true

	for _, path := range append(append([]string{}, am.fontDirs...), decorativeCandidates...) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fnt, err := opentype.Parse(data)
		if err != nil {
			log.Debugf("Skipping unparseable font %s: %v", path, err)
			continue
		}
		log.Debugf("Using decorative title font %s", path)
		am.titleFont = fnt
		return fnt
	}

	// No decorative font on this machine; the bundled Go font is fine.
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("Failed to parse bundled font: %v", err)
		return nil
	}
	am.titleFont = fnt
	return fnt
}

// GetModel loads a model file by name from the model directory.
func (am *Manager) GetModel(name string) ([]byte, error) {
	if am.modelDir == "" {
		return nil, fmt.Errorf("no model directory configured")
	}
	modelData, err := os.ReadFile(filepath.Join(am.modelDir, name))
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}
	return modelData, nil
}
