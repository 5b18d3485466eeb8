package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

// noisyPNG encodes a gradient with noisy low bits. The noise defeats PNG's
// lossless filters, so large sizes comfortably exceed the compression
// trigger, while the JPEG encoder can still discard it.
func noisyPNG(t *testing.T, size int) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			base := uint8((x + y) * 255 / (2 * size))
			img.Set(x, y, color.RGBA{
				R: base + uint8(rng.Intn(16)),
				G: base + uint8(rng.Intn(16)),
				B: base + uint8(rng.Intn(16)),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressSmallFileUnchanged(t *testing.T) {
	data := noisyPNG(t, 64)
	if int64(len(data)) > CompressTrigger {
		t.Fatalf("test image unexpectedly large: %d bytes", len(data))
	}

	result := Compress(data, "image/png")

	if result.Compressed {
		t.Fatal("expected small file to pass through uncompressed")
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("expected identical bytes for small file")
	}
	if result.ContentType != "image/png" {
		t.Fatalf("unexpected content type: %s", result.ContentType)
	}
}

func TestCompressLargeFileBounded(t *testing.T) {
	data := noisyPNG(t, 2200)
	if int64(len(data)) <= CompressTrigger {
		t.Fatalf("test image too small to trigger compression: %d bytes", len(data))
	}

	result := Compress(data, "image/png")

	if !result.Compressed {
		t.Fatal("expected large file to be compressed")
	}
	if result.ContentType != "image/jpeg" {
		t.Fatalf("expected jpeg output, got %s", result.ContentType)
	}
	if len(result.Data) > HardLimit {
		t.Fatalf("output exceeds hard limit: %d bytes", len(result.Data))
	}

	decoded, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode compressed output: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Fatalf("output dimension not bounded: %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestCompressUndecodableFallsBack(t *testing.T) {
	data := make([]byte, CompressTrigger+1024)
	rand.New(rand.NewSource(2)).Read(data)

	result := Compress(data, "application/octet-stream")

	if result.Compressed {
		t.Fatal("expected fallback for undecodable input")
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("expected original bytes back on decode failure")
	}
}
