package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// CompressTrigger is the size at which a photo gets re-encoded.
	// Anything at or below it passes through unchanged.
	CompressTrigger = 3_670_016 // 3.5 MiB

	// HardLimit is the output bound for the first compression pass.
	HardLimit = 4 << 20

	// RetryLimit and RetryDimension are the more aggressive bounds used
	// when the first pass still exceeds HardLimit.
	RetryLimit     = 3 << 20
	RetryDimension = 1600

	// MaxDimension bounds the long edge on the first pass.
	MaxDimension = 1920

	// MaxFileSize is the absolute ceiling. Files above it are rejected
	// before compression is attempted.
	MaxFileSize = 10 << 20
)

// ErrTooLarge reports a file above the absolute size ceiling.
var ErrTooLarge = errors.New("image exceeds the 10 MB limit")

// Result carries the possibly re-encoded image bytes.
type Result struct {
	Data        []byte
	ContentType string
	Compressed  bool
}

// Compress re-encodes an oversized photo down to the upload bounds. Photos
// at or below CompressTrigger are returned unchanged. Any decode or encode
// failure falls back to the original bytes rather than failing the upload.
func Compress(data []byte, contentType string) Result {
	original := Result{Data: data, ContentType: contentType}

	if int64(len(data)) <= CompressTrigger {
		return original
	}

	out, err := reencode(data, MaxDimension, HardLimit)
	if err != nil {
		return original
	}

	if len(out) > HardLimit {
		retry, err := reencode(data, RetryDimension, RetryLimit)
		if err == nil {
			out = retry
		}
	}

	return Result{Data: out, ContentType: "image/jpeg", Compressed: true}
}

// reencode decodes, bounds the long edge to maxDim and walks JPEG quality
// down until the output fits the target size. When even the lowest quality
// misses the target the smallest encoding is returned anyway.
func reencode(data []byte, maxDim, target int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	src = bound(src, maxDim)

	var smallest []byte
	for _, quality := range []int{85, 75, 65, 55, 45} {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		if buf.Len() <= target {
			return buf.Bytes(), nil
		}
		if smallest == nil || buf.Len() < len(smallest) {
			smallest = buf.Bytes()
		}
	}

	return smallest, nil
}

// bound scales the image so its long edge is at most maxDim pixels.
func bound(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
