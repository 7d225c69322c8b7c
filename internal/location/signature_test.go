package location

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

// flatFrame encodes a uniform gray frame.
func flatFrame(t *testing.T, intensity uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.SetGray(x, y, color.Gray{Y: intensity})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// checkerFrame encodes a high-contrast checkerboard frame.
func checkerFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			if (x/4+y/4)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestComputeSignatureFlatFrame(t *testing.T) {
	sig, err := ComputeSignature(flatFrame(t, 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig.Sharpness != 0 {
		t.Errorf("expected zero sharpness for a flat frame, got %f", sig.Sharpness)
	}
	if math.Abs(sig.Brightness-128.0/255.0) > 0.01 {
		t.Errorf("expected brightness around 0.50, got %f", sig.Brightness)
	}
	if sig.EdgeDensity != 0 {
		t.Errorf("expected zero edge density for a flat frame, got %f", sig.EdgeDensity)
	}
}

func TestComputeSignatureCheckerboard(t *testing.T) {
	sig, err := ComputeSignature(checkerFrame(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig.Sharpness <= 0 {
		t.Errorf("expected positive sharpness for a checkerboard, got %f", sig.Sharpness)
	}
	if sig.EdgeDensity <= 0 {
		t.Errorf("expected positive edge density for a checkerboard, got %f", sig.EdgeDensity)
	}
}

func TestComputeSignatureBadData(t *testing.T) {
	if _, err := ComputeSignature([]byte("not an image")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestClassifyNoReferences(t *testing.T) {
	c := NewSignatureClassifier()

	site, confidence, err := c.Classify(flatFrame(t, 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site != Unknown || confidence != 0 {
		t.Errorf("expected (unknown, 0), got (%s, %f)", site, confidence)
	}
}

func TestClassifyPicksClosestReference(t *testing.T) {
	c := NewSignatureClassifier()
	if err := c.AddReference("dark_corridor", flatFrame(t, 40)); err != nil {
		t.Fatal(err)
	}
	if err := c.AddReference("bright_hall", flatFrame(t, 220)); err != nil {
		t.Fatal(err)
	}

	site, confidence, err := c.Classify(flatFrame(t, 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site != "dark_corridor" {
		t.Errorf("expected dark_corridor, got %s", site)
	}
	if confidence <= 0 || confidence > 1 {
		t.Errorf("expected confidence in (0,1], got %f", confidence)
	}
}

func TestCompareSimilarityMath(t *testing.T) {
	c := NewSignatureClassifier()
	c.references["site"] = Signature{Sharpness: 100, Brightness: 0.5, EdgeDensity: 0.2}

	// Exact match: all three features score 1, confidence 1.
	site, confidence := c.Compare(Signature{Sharpness: 100, Brightness: 0.5, EdgeDensity: 0.2})
	if site != "site" {
		t.Errorf("expected site, got %s", site)
	}
	if math.Abs(confidence-1.0) > 1e-6 {
		t.Errorf("expected confidence ~1.0 for exact match, got %f", confidence)
	}

	// Features off by 100% or more of the reference each clamp to 0.
	_, confidence = c.Compare(Signature{Sharpness: 500, Brightness: 2.0, EdgeDensity: 0.9})
	if confidence > 1e-6 {
		t.Errorf("expected confidence ~0 for a wildly different signature, got %f", confidence)
	}
}
