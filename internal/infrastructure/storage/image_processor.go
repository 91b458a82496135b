package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// OptimizedImage is the re-encoded result of ImageProcessor.Optimize.
type OptimizedImage struct {
	Data        []byte
	Width       int
	Height      int
	Ext         string
	ContentType string
}

type ImageProcessor struct {
	MaxWidth int
	Quality  int
}

func NewImageProcessor(maxWidth, quality int) *ImageProcessor {
	return &ImageProcessor{MaxWidth: maxWidth, Quality: quality}
}

// Optimize decodes data, shrinks it to MaxWidth (never enlarging) and
// re-encodes it as JPEG. Panics inside the codecs are returned as errors.
func (p *ImageProcessor) Optimize(data []byte) (out *OptimizedImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("image codec panic: %v", r)
		}
	}()

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	if img.Bounds().Dx() > p.MaxWidth {
		img = imaging.Resize(img, p.MaxWidth, 0, imaging.Lanczos)
	}

	// JPEG has no alpha channel; flatten transparent pixels onto white
	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, flat, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}

	return &OptimizedImage{
		Data:        buf.Bytes(),
		Width:       flat.Bounds().Dx(),
		Height:      flat.Bounds().Dy(),
		Ext:         "jpg",
		ContentType: "image/jpeg",
	}, nil
}
