package overlay

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// The caption font is compiled into the binary and parsed once per process.
var (
	captionFont     *opentype.Font
	captionFontOnce sync.Once
	captionFontErr  error
)

// LoadFont parses the embedded caption font. It is safe to call repeatedly;
// only the first call does any work.
func LoadFont() (*opentype.Font, error) {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = opentype.Parse(goregular.TTF)
		if captionFontErr != nil {
			captionFontErr = fmt.Errorf("%w: %w", ErrFontLoad, captionFontErr)
		}
	})
	return captionFont, captionFontErr
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: face at %.1fpt: %w", ErrFontLoad, size, err)
	}
	return face, nil
}
