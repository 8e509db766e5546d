// Package preprocess turns uploaded image bytes into the float tensor the
// classifiers consume. The steps mirror the training pipeline exactly:
// decode, force RGB, Lanczos resize to the target size, 8-bit quantize,
// per-channel normalization, batch dimension. Changing any step shifts pixel
// statistics and silently degrades model accuracy.
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage marks input bytes that cannot be decoded as a raster image.
var ErrInvalidImage = errors.New("invalid image")

// DefaultTargetSize is the spatial size both bundled models were trained on.
const DefaultTargetSize = 160

// Scheme selects the pixel normalization applied after 8-bit conversion.
// It must match the normalization used when the classifier was trained.
type Scheme string

const (
	// SchemeEfficientNet maps [0,255] to [-1,1] (x/127.5 - 1).
	SchemeEfficientNet Scheme = "efficientnet"
	// SchemeScale maps [0,255] to [0,1] (x/255).
	SchemeScale Scheme = "scale"
)

// Options configure preprocessing per classifier.
type Options struct {
	TargetSize int
	Scheme     Scheme
}

// Tensor is a dense float32 array with NHWC shape (1, H, W, 3).
type Tensor struct {
	Data  []float32
	Shape []int64
}

// ShapeString renders the shape as "(1, 160, 160, 3)".
func (t Tensor) ShapeString() string {
	parts := make([]string, len(t.Shape))
	for i, d := range t.Shape {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ToTensor decodes raw upload bytes and produces the model input tensor.
// Pure function of its input: no side effects, safe for concurrent use.
func ToTensor(data []byte, opts Options) (Tensor, error) {
	size := opts.TargetSize
	if size <= 0 {
		size = DefaultTargetSize
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: decode: %v", ErrInvalidImage, err)
	}

	resized := resize.Resize(uint(size), uint(size), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Max.X, bounds.Max.Y

	out := make([]float32, height*width*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA() drops alpha and expands grayscale, which forces the
			// three-channel layout regardless of the source color model.
			r, g, b, _ := resized.At(x, y).RGBA()

			i := (y*width + x) * 3
			out[i] = normalize(uint8(r>>8), opts.Scheme)
			out[i+1] = normalize(uint8(g>>8), opts.Scheme)
			out[i+2] = normalize(uint8(b>>8), opts.Scheme)
		}
	}

	return Tensor{
		Data:  out,
		Shape: []int64{1, int64(height), int64(width), 3},
	}, nil
}

func normalize(v uint8, scheme Scheme) float32 {
	switch scheme {
	case SchemeScale:
		return float32(v) / 255.0
	default:
		return float32(v)/127.5 - 1.0
	}
}
