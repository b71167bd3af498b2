// Package overlay draws a caption onto a wallpaper image: it darkens a band
// at the bottom of the picture and writes a title and wrapped body text into it.
package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

const (
	BaseFontSize   = 24.0
	ReferenceWidth = 1920.0

	// BandFraction is the share of the image height used for the caption band.
	BandFraction = 0.3
	// DimFactor multiplies every color channel inside the caption band.
	DimFactor = 0.3
	// TextInset is the distance in pixels from the band's top and left edges to the title.
	TextInset = 20

	DefaultJPEGQuality = 90
)

var (
	ErrDecode   = errors.New("decode image")
	ErrEncode   = errors.New("encode image")
	ErrFontLoad = errors.New("load caption font")
)

// Caption is the text drawn onto an image.
type Caption struct {
	Title string
	Body  string
}

// Compositor draws captions onto images.
type Compositor struct {
	font    *opentype.Font
	quality int
}

// New returns a Compositor that encodes JPEG at the given quality (1-100).
// Out of range values use DefaultJPEGQuality.
func New(quality int) (*Compositor, error) {
	f, err := LoadFont()
	if err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Compositor{font: f, quality: quality}, nil
}

// FontScale returns the caption font size for an image width. Images narrower
// than ReferenceWidth keep BaseFontSize.
func FontScale(width int) float64 {
	factor := float64(width) / ReferenceWidth
	if factor < 1 {
		factor = 1
	}
	return BaseFontSize * factor
}

// WrapWidth returns the line budget in characters for an image width and font scale.
func WrapWidth(width int, scale float64) int {
	n := int(float64(width) / (scale * 0.5))
	if n < 1 {
		n = 1
	}
	return n
}

// BandHeight returns the height in pixels of the caption band.
func BandHeight(height int) int {
	return int(float64(height) * BandFraction)
}

// Composite decodes imageData, draws the caption, and returns the result as JPEG.
func (c *Compositor) Composite(imageData []byte, title, body string) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}

	dst := imaging.Clone(src)
	if err := c.draw(dst, Caption{Title: title, Body: body}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) draw(img *image.NRGBA, caption Caption) error {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	scale := FontScale(width)
	bandTop := height - BandHeight(height)

	Darken(img, bandTop)

	face, err := newFace(c.font, scale)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	metrics := face.Metrics()

	// Positions name the top of the text; the drawer wants the baseline.
	titleTop := bandTop + TextInset
	d.Dot = fixed.Point26_6{X: fixed.I(TextInset), Y: fixed.I(titleTop) + metrics.Ascent}
	d.DrawString(strings.Join(strings.Fields(caption.Title), " "))

	bodyTop := titleTop + int(scale*1.5)
	y := fixed.I(bodyTop) + metrics.Ascent
	for _, line := range Wrap(caption.Body, WrapWidth(width, scale)) {
		d.Dot = fixed.Point26_6{X: fixed.I(TextInset), Y: y}
		d.DrawString(line)
		y += metrics.Height
	}
	return nil
}

// Darken multiplies every channel of rows [top, height) by DimFactor and makes them opaque.
func Darken(img *image.NRGBA, top int) {
	b := img.Bounds()
	if top < b.Min.Y {
		top = b.Min.Y
	}
	for y := top; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8(float64(row[i]) * DimFactor)
			row[i+1] = uint8(float64(row[i+1]) * DimFactor)
			row[i+2] = uint8(float64(row[i+2]) * DimFactor)
			row[i+3] = 0xff
		}
	}
}
