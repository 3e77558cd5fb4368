package dither

import (
	"bytes"
	"fmt"
	"testing"
)

// --- Helpers ---

func uniformBuffer(width, height int, v uint8) []uint8 {
	buf := make([]uint8, width*height)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func intName(n int) string {
	return fmt.Sprintf("%d", n)
}

func dimName(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

func assertNoPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("%s panicked: %v", name, r)
		}
	}()
	fn()
}

func assertInPalette(t *testing.T, out []uint8, p Palette) {
	t.Helper()
	for i, v := range out {
		if !p.Contains(v) {
			t.Fatalf("out[%d] = %d not in palette %v", i, v, p)
		}
	}
}

// --- S1: Extreme dimensions ---

func TestEdge_1x1_AllLevels(t *testing.T) {
	for _, n := range []int{2, 3, 6, 256} {
		t.Run(intName(n), func(t *testing.T) {
			p := mustLevels(t, n)
			out, err := Diffuse([]uint8{200}, 1, 1, p)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != 1 {
				t.Fatalf("len(out) = %d, want 1", len(out))
			}
			if want := p.Nearest(200); out[0] != want {
				t.Errorf("out[0] = %d, want %d", out[0], want)
			}
		})
	}
}

func TestEdge_Nx1(t *testing.T) {
	// A single row only ever diffuses rightward.
	for _, n := range []int{1, 2, 3, 4, 15, 16, 17, 1000} {
		t.Run(intName(n), func(t *testing.T) {
			p := Palette{0, 255}
			out, err := Diffuse(uniformBuffer(n, 1, 90), n, 1, p)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != n {
				t.Fatalf("len(out) = %d, want %d", len(out), n)
			}
			assertInPalette(t, out, p)
		})
	}
}

func TestEdge_1xN(t *testing.T) {
	// A single column only ever diffuses downward, at 5/16 per step.
	for _, n := range []int{1, 2, 3, 4, 15, 16, 17, 1000} {
		t.Run(intName(n), func(t *testing.T) {
			p := Palette{0, 255}
			out, err := Diffuse(uniformBuffer(1, n, 90), 1, n, p)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != n {
				t.Fatalf("len(out) = %d, want %d", len(out), n)
			}
			assertInPalette(t, out, p)
		})
	}
}

func TestEdge_ZeroArea(t *testing.T) {
	for _, dim := range [][2]int{{0, 0}, {0, 7}, {7, 0}} {
		w, h := dim[0], dim[1]
		t.Run(dimName(w, h), func(t *testing.T) {
			out, err := Diffuse([]uint8{}, w, h, Palette{0, 255})
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != 0 {
				t.Errorf("len(out) = %d, want 0", len(out))
			}
		})
	}
}

func TestEdge_OddDimensions(t *testing.T) {
	for _, dim := range [][2]int{{17, 17}, {15, 15}, {33, 33}, {3, 7}, {1, 2}, {2, 1}} {
		w, h := dim[0], dim[1]
		t.Run(dimName(w, h), func(t *testing.T) {
			p := mustLevels(t, 3)
			out, err := Diffuse(gradientBuffer(w, h), w, h, p)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != w*h {
				t.Fatalf("len(out) = %d, want %d", len(out), w*h)
			}
			assertInPalette(t, out, p)
		})
	}
}

// --- S2: Extreme palettes ---

func TestEdge_FullPaletteIsIdentity(t *testing.T) {
	// With all 256 levels available every pixel is already a palette
	// member, so no error is ever produced and the input passes through.
	input := gradientBuffer(32, 32)
	out, err := Diffuse(input, 32, 32, mustLevels(t, 256))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Error("full palette should reproduce the input exactly")
	}
}

func TestEdge_PaletteValuesAreIdentity(t *testing.T) {
	// Same when the input only uses values that are palette members.
	p := Palette{0, 255}
	input := []uint8{0, 255, 255, 0, 0, 0, 255, 255}
	out, err := Diffuse(input, 4, 2, p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Errorf("out = %v, want input unchanged %v", out, input)
	}
}

func TestEdge_AdjacentLevels(t *testing.T) {
	p := Palette{127, 128}
	out, err := Diffuse(gradientBuffer(16, 16), 16, 16, p)
	if err != nil {
		t.Fatal(err)
	}
	assertInPalette(t, out, p)
}

func TestEdge_SingleLevelLargeGrid(t *testing.T) {
	out, err := Diffuse(gradientBuffer(64, 64), 64, 64, Palette{77})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != 77 {
			t.Fatalf("out[%d] = %d, want 77", i, v)
		}
	}
}

// --- S3: Extreme values ---

func TestEdge_UniformExtremes(t *testing.T) {
	p := Palette{0, 255}
	for _, v := range []uint8{0, 255} {
		t.Run(intName(int(v)), func(t *testing.T) {
			out, err := Diffuse(uniformBuffer(9, 9, v), 9, 9, p)
			if err != nil {
				t.Fatal(err)
			}
			for i, got := range out {
				if got != v {
					t.Fatalf("out[%d] = %d, want %d", i, got, v)
				}
			}
		})
	}
}

func TestEdge_MeanPreserved(t *testing.T) {
	// Diffusion preserves the image's overall brightness up to the error
	// dropped at the right and bottom edges. A plain threshold would turn
	// this uniform 100 field into all-zero; diffusion must keep the mean
	// close to 100.
	const w, h = 64, 64
	out, err := Diffuse(uniformBuffer(w, h, 100), w, h, Palette{0, 255})
	if err != nil {
		t.Fatal(err)
	}
	var sum int64
	for _, v := range out {
		sum += int64(v)
	}
	mean := float64(sum) / (w * h)
	if mean < 97 || mean > 103 {
		t.Errorf("mean = %.2f, want within [97, 103]", mean)
	}
}

// --- S4: No panics on valid input ---

func TestEdge_NoPanic(t *testing.T) {
	assertNoPanic(t, "1000x1", func() {
		Diffuse(uniformBuffer(1000, 1, 13), 1000, 1, Palette{0, 255})
	})
	assertNoPanic(t, "1x1000", func() {
		Diffuse(uniformBuffer(1, 1000, 13), 1, 1000, Palette{0, 255})
	})
	assertNoPanic(t, "single_level", func() {
		Diffuse(gradientBuffer(50, 50), 50, 50, Palette{1})
	})
	assertNoPanic(t, "invalid_dims", func() {
		Diffuse([]uint8{1, 2, 3}, 7, 7, Palette{0, 255})
	})
}
