// Command fsdither reduces images to a few grayscale levels with
// Floyd-Steinberg error diffusion.
//
// Usage:
//
//	fsdither apply [options] <input> <output>    Dither an image (use "-" for stdin/stdout)
//	fsdither compare [options] <input> <output>  Write original and result side by side
//	fsdither info <input>                        Display image properties
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/gif"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	dither "github.com/SlowlyFire/Error-Diffusion"
	"github.com/SlowlyFire/Error-Diffusion/animation"
	"github.com/SlowlyFire/Error-Diffusion/internal/compose"
	"github.com/SlowlyFire/Error-Diffusion/internal/config"
	"github.com/SlowlyFire/Error-Diffusion/internal/imageio"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "apply":
		err = runApply(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "fsdither: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "fsdither: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  fsdither apply [options] <input> <output>    Dither an image to a few gray levels
  fsdither compare [options] <input> <output>  Write original and result side by side
  fsdither info <input>                        Display image properties

Use "-" as input to read from stdin, "-" as output to write to stdout.
When input and output are both .gif, every animation frame is dithered.

Run "fsdither <command> -h" for command-specific options.
`)
}

// initLogging installs the default logger. Quiet by default; -v (or
// FSDITHER_LOG=debug) enables per-stage diagnostics.
func initLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose || strings.EqualFold(config.Get("FSDITHER_LOG", ""), "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// paletteOptions carries the flags shared by apply and compare.
type paletteOptions struct {
	levels  int
	palette string
}

func (o *paletteOptions) register(fs *flag.FlagSet) {
	fs.IntVar(&o.levels, "levels", config.GetInt("FSDITHER_LEVELS", 2),
		"number of evenly spaced output levels")
	fs.StringVar(&o.palette, "palette", "",
		`explicit comma-separated levels, e.g. "0,64,128,255" (overrides -levels)`)
}

// build resolves the flags into a palette.
func (o *paletteOptions) build() (dither.Palette, error) {
	if o.palette != "" {
		return parsePalette(o.palette)
	}
	return dither.Levels(o.levels)
}

// parsePalette parses a comma-separated list of intensity levels.
func parsePalette(s string) (dither.Palette, error) {
	parts := strings.Split(s, ",")
	levels := make([]uint8, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("palette entry %q: must be an integer in 0-255", part)
		}
		levels = append(levels, uint8(v))
	}
	return dither.NewPalette(levels...)
}

// --- apply ---

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	var popts paletteOptions
	popts.register(fs)
	fit := fs.Int("fit", 0, "downscale to this width before dithering (0=off)")
	gamma := fs.Float64("gamma", 1.0, "gamma correction before dithering (1.0=off)")
	verbose := fs.Bool("v", false, "verbose per-stage logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogging(*verbose)
	if fs.NArg() < 2 {
		return fmt.Errorf("apply: missing input/output\nUsage: fsdither apply [options] <input> <output>")
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	p, err := popts.build()
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	if isGIFPair(inputPath, outputPath) {
		if *fit != 0 || *gamma != 1.0 {
			return fmt.Errorf("apply: -fit and -gamma are not supported for animated GIFs")
		}
		return applyGIF(inputPath, outputPath, p)
	}

	img, format, err := imageio.Load(inputPath)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	slog.Debug("decoded input", "format", format, "bounds", img.Bounds())

	result, err := ditherImage(img, *fit, *gamma, p)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}

	if err := imageio.Save(outputPath, result); err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	report("Dithered", inputPath, outputPath, p)
	return nil
}

// ditherImage runs the static-image pipeline: optional downscale and gamma
// correction, then grayscale conversion and the diffusion pass.
func ditherImage(img image.Image, fit int, gamma float64, p dither.Palette) (*image.Gray, error) {
	img = imageio.Fit(img, fit)
	img = imageio.AdjustGamma(img, gamma)

	start := time.Now()
	result, err := dither.Apply(img, p)
	if err != nil {
		return nil, err
	}
	slog.Debug("dithered", "levels", len(p), "took", time.Since(start))
	return result, nil
}

// isGIFPair reports whether input and output are both GIF paths, which
// switches apply to the animation pipeline.
func isGIFPair(input, output string) bool {
	return input != "-" &&
		strings.EqualFold(filepath.Ext(input), ".gif") &&
		strings.EqualFold(filepath.Ext(output), ".gif")
}

func applyGIF(inputPath, outputPath string, p dither.Palette) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	g, err := gif.DecodeAll(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("apply: decoding GIF: %w", err)
	}
	slog.Debug("decoded GIF", "frames", len(g.Image), "loop", g.LoopCount)

	start := time.Now()
	out, err := animation.DitherGIF(g, p)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	slog.Debug("dithered animation", "frames", len(out.Image), "took", time.Since(start))

	if outputPath == "-" {
		return gif.EncodeAll(os.Stdout, out)
	}

	w, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(w, out); err != nil {
		w.Close()
		os.Remove(outputPath)
		return fmt.Errorf("apply: encoding GIF: %w", err)
	}
	if err := w.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Dithered %s → %s (%d frames, %d levels)\n",
		inputPath, outputPath, len(out.Image), len(p))
	return nil
}

// --- compare ---

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	var popts paletteOptions
	popts.register(fs)
	fit := fs.Int("fit", 0, "downscale to this width before dithering (0=off)")
	gamma := fs.Float64("gamma", 1.0, "gamma correction before dithering (1.0=off)")
	gap := fs.Int("gap", config.GetInt("FSDITHER_GAP", 8), "separator width in pixels")
	verbose := fs.Bool("v", false, "verbose per-stage logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogging(*verbose)
	if fs.NArg() < 2 {
		return fmt.Errorf("compare: missing input/output\nUsage: fsdither compare [options] <input> <output>")
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	p, err := popts.build()
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	img, format, err := imageio.Load(inputPath)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	slog.Debug("decoded input", "format", format, "bounds", img.Bounds())

	img = imageio.Fit(img, *fit)
	img = imageio.AdjustGamma(img, *gamma)
	original := imageio.Grayscale(img)

	start := time.Now()
	result, err := dither.Apply(original, p)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	slog.Debug("dithered", "levels", len(p), "took", time.Since(start))

	panel := compose.SideBySide(original, result, *gap)
	if err := imageio.Save(outputPath, panel); err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	report("Composed", inputPath, outputPath, p)
	return nil
}

// report prints the one-line success summary for file outputs.
func report(verb, inputPath, outputPath string, p dither.Palette) {
	if outputPath == "-" {
		return
	}
	if fi, err := os.Stat(outputPath); err == nil {
		fmt.Fprintf(os.Stderr, "%s %s → %s (%d levels, %d bytes)\n",
			verb, inputPath, outputPath, len(p), fi.Size())
	}
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: fsdither info <input>")
	}
	inputPath := args[0]

	var data []byte
	var err error
	if inputPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(inputPath)
	}
	if err != nil {
		return err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("info: decoding input: %w", err)
	}
	b := img.Bounds()

	gray := imageio.Grayscale(img)
	var seen [256]bool
	distinct := 0
	for _, v := range gray.Pix {
		if !seen[v] {
			seen[v] = true
			distinct++
		}
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	fmt.Printf("File:        %s\n", name)
	fmt.Printf("Format:      %s\n", format)
	fmt.Printf("Dimensions:  %d x %d\n", b.Dx(), b.Dy())
	fmt.Printf("Gray levels: %d\n", distinct)

	if format == "gif" {
		if g, err := gif.DecodeAll(bytes.NewReader(data)); err == nil && len(g.Image) > 1 {
			fmt.Printf("Frames:      %d\n", len(g.Image))
			loop := "infinite"
			if g.LoopCount > 0 {
				loop = strconv.Itoa(g.LoopCount)
			}
			fmt.Printf("Loop count:  %s\n", loop)
		}
	}

	fmt.Printf("File size:   %d bytes\n", len(data))
	return nil
}
