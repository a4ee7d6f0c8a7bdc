package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// CoverOptions controls how an extracted cover image is rewritten.
type CoverOptions struct {
	// MaxSize bounds both width and height. Zero disables resizing.
	MaxSize int

	// ToJPEG re-encodes the image as JPEG regardless of its source format.
	ToJPEG bool
}

// ImageService provides image processing operations for cover art.
//
// Bandcamp archives ship the album cover as cover.jpg or cover.png at
// full resolution (often 3000x3000). ImageService shrinks it for
// folder display and for embedding into ID3 tags.
//
//	svc := NewImageService()
//	small, format, err := svc.ProcessCover(ctx, data, CoverOptions{MaxSize: 1000, ToJPEG: true})
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ProcessCover applies opts to an encoded image.
//
// Returns the new bytes and their format ("jpeg" or "png"). When opts asks
// for nothing the input is returned untouched with its decoded format.
func (s *ImageService) ProcessCover(ctx context.Context, data []byte, opts CoverOptions) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	resized := false
	if opts.MaxSize > 0 {
		img, resized = fit(img, opts.MaxSize, opts.MaxSize)
	}

	if !resized && (!opts.ToJPEG || format == "jpeg") {
		return data, format, nil
	}

	if opts.ToJPEG || format != "png" {
		out, err := encodeJPEG(img)
		return out, "jpeg", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "png", nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be re-encoded as JPEG.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x666
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img, _ = fit(img, maxWidth, maxHeight)
	return encodeJPEG(img)
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
//
// Note: If the input is already JPEG, it will be re-encoded.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// fit scales img down to fit in maxWidth x maxHeight. The second result is
// false when img already fits and was returned as is.
func fit(img image.Image, maxWidth, maxHeight int) (image.Image, bool) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return img, false
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst, true
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
