package location

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const (
	// signatureEpsilon guards similarity against near-zero reference values.
	signatureEpsilon = 1e-6

	// maxSignatureDim caps the working size for signature extraction so
	// full-resolution frames do not dominate processing time.
	maxSignatureDim = 512

	// edgeThreshold is the gradient magnitude above which a pixel counts
	// as an edge in the binary edge map.
	edgeThreshold = 128.0
)

// Signature is the 3-feature visual fingerprint of a camera site:
// sharpness (variance of a Laplacian edge response over grayscale),
// brightness (mean grayscale intensity normalized to [0,1]) and edge
// density (mean of a binary edge map normalized to [0,1]).
type Signature struct {
	Sharpness   float64 `json:"sharpness"`
	Brightness  float64 `json:"brightness"`
	EdgeDensity float64 `json:"edge_density"`
}

// SignatureClassifier matches query frames against reference signatures
// registered per camera site.
type SignatureClassifier struct {
	mu         sync.RWMutex
	references map[string]Signature
}

func NewSignatureClassifier() *SignatureClassifier {
	return &SignatureClassifier{
		references: make(map[string]Signature),
	}
}

// AddReference computes and stores the signature of a reference frame
// for a site, replacing any previous reference.
func (c *SignatureClassifier) AddReference(site string, frameData []byte) error {
	sig, err := ComputeSignature(frameData)
	if err != nil {
		return fmt.Errorf("computing reference signature for %s: %w", site, err)
	}
	c.mu.Lock()
	c.references[site] = sig
	c.mu.Unlock()
	return nil
}

// Classify computes the query frame's signature and returns the site
// whose reference is most similar, with a confidence in [0,1]. With no
// references registered it returns (Unknown, 0); that is a degraded
// result, not an error.
func (c *SignatureClassifier) Classify(frameData []byte) (string, float64, error) {
	sig, err := ComputeSignature(frameData)
	if err != nil {
		return Unknown, 0, fmt.Errorf("computing query signature: %w", err)
	}
	site, confidence := c.Compare(sig)
	return site, confidence, nil
}

// Compare scores the signature against every stored reference. Each of
// the three features contributes 1 - min(|query-ref| / (ref+eps), 1);
// the best total wins and confidence is total/3 clamped to [0,1].
func (c *SignatureClassifier) Compare(sig Signature) (string, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.references) == 0 {
		return Unknown, 0
	}

	bestSite := Unknown
	bestScore := -1.0
	for site, ref := range c.references {
		score := featureSimilarity(sig.Sharpness, ref.Sharpness) +
			featureSimilarity(sig.Brightness, ref.Brightness) +
			featureSimilarity(sig.EdgeDensity, ref.EdgeDensity)
		if score > bestScore {
			bestScore = score
			bestSite = site
		}
	}

	confidence := math.Max(0, math.Min(bestScore/3, 1))
	return bestSite, confidence
}

func featureSimilarity(query, ref float64) float64 {
	return 1 - math.Min(math.Abs(query-ref)/(ref+signatureEpsilon), 1)
}

// ComputeSignature decodes a frame and extracts its visual signature.
// Large frames are downscaled to a bounded working size first.
func ComputeSignature(frameData []byte) (Signature, error) {
	img, _, err := image.Decode(bytes.NewReader(frameData))
	if err != nil {
		return Signature{}, fmt.Errorf("failed to decode frame: %w", err)
	}

	gray := toGrayscale(downscale(img, maxSignatureDim))
	return Signature{
		Sharpness:   laplacianVariance(gray),
		Brightness:  meanIntensity(gray) / 255.0,
		EdgeDensity: edgeDensity(gray),
	}, nil
}

// downscale resizes an image to fit within maxDim while keeping aspect
// ratio. Frames already within bounds pass through untouched.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = int(float64(height) * float64(maxDim) / float64(width))
	} else {
		newHeight = maxDim
		newWidth = int(float64(width) * float64(maxDim) / float64(height))
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// toGrayscale converts an image to a 2D array of grayscale values (0-255).
func toGrayscale(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, width)
	for x := 0; x < width; x++ {
		gray[x] = make([]float64, height)
		for y := 0; y < height; y++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma formula.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			gray[x][y] = luma
		}
	}

	return gray
}

func meanIntensity(gray [][]float64) float64 {
	if len(gray) == 0 || len(gray[0]) == 0 {
		return 0
	}
	var sum float64
	for x := range gray {
		for y := range gray[x] {
			sum += gray[x][y]
		}
	}
	return sum / float64(len(gray)*len(gray[0]))
}

// laplacianVariance applies the 4-neighbor Laplacian kernel and returns
// the variance of the response. High variance means sharp structure.
func laplacianVariance(gray [][]float64) float64 {
	width := len(gray)
	if width < 3 {
		return 0
	}
	height := len(gray[0])
	if height < 3 {
		return 0
	}

	responses := make([]float64, 0, (width-2)*(height-2))
	for x := 1; x < width-1; x++ {
		for y := 1; y < height-1; y++ {
			lap := gray[x-1][y] + gray[x+1][y] + gray[x][y-1] + gray[x][y+1] - 4*gray[x][y]
			responses = append(responses, lap)
		}
	}

	var mean float64
	for _, v := range responses {
		mean += v
	}
	mean /= float64(len(responses))

	var variance float64
	for _, v := range responses {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(responses))
}

// edgeDensity computes the mean of a binary edge map: the fraction of
// pixels whose Sobel gradient magnitude exceeds the edge threshold.
func edgeDensity(gray [][]float64) float64 {
	width := len(gray)
	if width < 3 {
		return 0
	}
	height := len(gray[0])
	if height < 3 {
		return 0
	}

	edges := 0
	total := 0
	for x := 1; x < width-1; x++ {
		for y := 1; y < height-1; y++ {
			gx := gray[x+1][y-1] + 2*gray[x+1][y] + gray[x+1][y+1] -
				gray[x-1][y-1] - 2*gray[x-1][y] - gray[x-1][y+1]
			gy := gray[x-1][y+1] + 2*gray[x][y+1] + gray[x+1][y+1] -
				gray[x-1][y-1] - 2*gray[x][y-1] - gray[x+1][y-1]
			if math.Sqrt(gx*gx+gy*gy) > edgeThreshold {
				edges++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(edges) / float64(total)
}
