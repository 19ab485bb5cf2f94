// rippeg encodes and decodes RIPPEG still images and two-frame motion
// streams.
//
// Usage:
//
//	rippeg [options] <command> <args...>
//
// Commands:
//
//	encode  <image> <out.rippeg>          Encode a still image
//	decode  <in.rippeg> <image>           Decode a still image
//	mencode <ref> <cur> <out.mrippeg>     Encode a reference/current pair
//	mdecode <in.mrippeg> <prefix>         Decode a motion stream into images
//	info    <stream> [<stream> ...]       Print header fields and section sizes
//	planes  <image> <prefix>              Write the Y, Cb and Cr planes as images
//	check   <stream> [<stream> ...]       Fully decode streams to validate them
//
// Options:
//
//	-q <n>      Quality 1..100 (default 50).
//	-r <n>      Motion search radius in samples (default 8).
//	-w <n>      Worker goroutines, 0 for all CPUs (default 0).
//	-s <n>      Bound written images to n x n pixels, 0 for full size.
//	-closed     Predict from the decoded I-frame instead of the source frame.
//	-v          Debug logging.
//	-h, --help  Show this help message.
//	--version   Show version information.
//
// Stream paths may end in .zst or .zz to wrap the stream in zstd or zlib.
//
// Exit codes:
//
//	0: Success
//	1: One or more streams invalid
//	2: Error (usage, file not found, etc.)
package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/mrjoshuak/go-rippeg/motion"
	"github.com/mrjoshuak/go-rippeg/plane"
	"github.com/mrjoshuak/go-rippeg/raster"
	"github.com/mrjoshuak/go-rippeg/rippeg"
	"github.com/mrjoshuak/go-rippeg/transform"
	"github.com/mrjoshuak/go-rippeg/ycc"
)

const version = "1.0.0"

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1
	exitError   = 2
)

// residualContrast stretches difference images so small residuals show.
const residualContrast = 60

var (
	errHelp    = errors.New("help requested")
	errVersion = errors.New("version requested")
)

// config is the parsed command line.
type config struct {
	command string
	args    []string

	quality int
	radius  int
	workers int
	size    uint
	closed  bool
	verbose bool
}

// arity lists the number of positional arguments each command takes. -1
// means one or more.
var arity = map[string]int{
	"encode":  2,
	"decode":  2,
	"mencode": 3,
	"mdecode": 2,
	"info":    -1,
	"planes":  2,
	"check":   -1,
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	switch {
	case errors.Is(err, errHelp):
		printUsage(os.Stdout)
		os.Exit(exitOK)
	case errors.Is(err, errVersion):
		fmt.Printf("rippeg version %s\n", version)
		os.Exit(exitOK)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage(os.Stderr)
		os.Exit(exitError)
	}

	logger := golog.NewLogger("rippeg")
	if cfg.verbose {
		logger = golog.NewDebugLogger("rippeg")
	}
	code := run(cfg, logger, os.Stdout, os.Stderr)
	_ = logger.Sync()
	os.Exit(code)
}

// parseArgs reads options and the command from args, which excludes the
// program name. Options may appear anywhere on the line.
func parseArgs(args []string) (*config, error) {
	cfg := &config{
		quality: transform.DefaultQuality,
		radius:  motion.DefaultConfig().Radius,
	}
	var positional []string

	intArg := func(i *int, name string, min, max int) (int, error) {
		*i++
		if *i >= len(args) {
			return 0, fmt.Errorf("option %s needs a value", name)
		}
		n, err := strconv.Atoi(args[*i])
		if err != nil || n < min || n > max {
			return 0, fmt.Errorf("option %s: invalid value %q (want %d..%d)", name, args[*i], min, max)
		}
		return n, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error
		switch arg {
		case "-q":
			cfg.quality, err = intArg(&i, arg, transform.MinQuality, transform.MaxQuality)
		case "-r":
			cfg.radius, err = intArg(&i, arg, 0, 1<<10)
		case "-w":
			cfg.workers, err = intArg(&i, arg, 0, 1<<10)
		case "-s":
			var n int
			n, err = intArg(&i, arg, 0, 1<<16)
			cfg.size = uint(n)
		case "-closed":
			cfg.closed = true
		case "-v":
			cfg.verbose = true
		case "-h", "--help":
			return nil, errHelp
		case "--version":
			return nil, errVersion
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(positional) == 0 {
		return nil, errors.New("no command specified")
	}
	cfg.command, cfg.args = positional[0], positional[1:]

	want, ok := arity[cfg.command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cfg.command)
	}
	if (want < 0 && len(cfg.args) == 0) || (want >= 0 && len(cfg.args) != want) {
		return nil, fmt.Errorf("%s: wrong number of arguments", cfg.command)
	}
	return cfg, nil
}

func (c *config) options(logger golog.Logger) *rippeg.Options {
	opts := rippeg.DefaultOptions()
	opts.Quality = uint8(c.quality)
	opts.Search.Radius = c.radius
	opts.Search.Workers = c.workers
	opts.Workers = c.workers
	opts.ClosedLoop = c.closed
	opts.Logger = logger
	return opts
}

// run executes the parsed command and returns the exit code.
func run(cfg *config, logger golog.Logger, stdout, stderr io.Writer) int {
	var err error
	switch cfg.command {
	case "encode":
		err = encode(cfg, logger, stdout)
	case "decode":
		err = decode(cfg, logger)
	case "mencode":
		err = mencode(cfg, logger, stdout)
	case "mdecode":
		err = mdecode(cfg, logger, stdout)
	case "planes":
		err = planes(cfg, stdout)
	case "info":
		return eachStream(cfg.args, stdout, stderr, func(path string) error {
			info, err := rippeg.InspectFile(path)
			if err != nil {
				return err
			}
			printInfo(stdout, path, info)
			return nil
		})
	case "check":
		return eachStream(cfg.args, stdout, stderr, func(path string) error {
			if err := check(cfg, logger, path); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s: OK\n", path)
			return nil
		})
	}

	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cfg.command, err)
		return exitCode(err)
	}
	return exitOK
}

// eachStream applies fn to every path and folds the failures into one exit
// code: any I/O error wins over an invalid stream.
func eachStream(paths []string, stdout, stderr io.Writer, fn func(path string) error) int {
	code := exitOK
	valid := 0
	for _, path := range paths {
		err := fn(path)
		if err == nil {
			valid++
			continue
		}
		if errors.Is(err, rippeg.ErrFormat) || errors.Is(err, rippeg.ErrGeometry) {
			fmt.Fprintf(stdout, "%s: INVALID\n  %v\n", path, err)
		} else {
			fmt.Fprintf(stderr, "%s: error: %v\n", path, err)
		}
		if c := exitCode(err); c > code {
			code = c
		}
	}
	if len(paths) > 1 {
		fmt.Fprintf(stdout, "\nSummary: %d of %d streams valid\n", valid, len(paths))
	}
	return code
}

func exitCode(err error) int {
	if errors.Is(err, rippeg.ErrFormat) || errors.Is(err, rippeg.ErrGeometry) {
		return exitInvalid
	}
	return exitError
}

func encode(cfg *config, logger golog.Logger, stdout io.Writer) error {
	img, err := raster.Load(cfg.args[0])
	if err != nil {
		return err
	}
	s, err := rippeg.Encode(img, cfg.options(logger))
	if err != nil {
		return err
	}
	if err := rippeg.WriteFile(cfg.args[1], s); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Fprintf(stdout, "%s: %dx%d q%d, %d bytes (%.1f:1)\n", cfg.args[1],
		b.Dx(), b.Dy(), s.Header.Quality, s.Len(), float64(3*b.Dx()*b.Dy())/float64(s.Len()))
	return nil
}

func decode(cfg *config, logger golog.Logger) error {
	s, err := rippeg.ReadFile(cfg.args[0])
	if err != nil {
		return err
	}
	img, err := rippeg.Decode(s, cfg.options(logger))
	if err != nil {
		return err
	}
	return save(cfg, cfg.args[1], img)
}

func mencode(cfg *config, logger golog.Logger, stdout io.Writer) error {
	ref, err := raster.Load(cfg.args[0])
	if err != nil {
		return err
	}
	cur, err := raster.Load(cfg.args[1])
	if err != nil {
		return err
	}
	s, err := rippeg.EncodeMotion(ref, cur, cfg.options(logger))
	if err != nil {
		return err
	}
	if err := rippeg.WriteMotionFile(cfg.args[2], s); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d bytes, %d luma vectors\n", cfg.args[2], s.Len(), len(s.MVY))
	return nil
}

// mdecode writes <prefix>_ref.png, <prefix>_cur.png, the residual as
// <prefix>_diff.png and the luma motion field as <prefix>_vectors.png.
func mdecode(cfg *config, logger golog.Logger, stdout io.Writer) error {
	s, err := rippeg.ReadMotionFile(cfg.args[0])
	if err != nil {
		return err
	}
	frames, err := rippeg.DecodeMotion(s, cfg.options(logger))
	if err != nil {
		return err
	}
	diff, err := frames.Difference()
	if err != nil {
		return err
	}

	vectors := raster.RGBA(raster.Grayscale(frames.Current))
	motion.Overlay(vectors, frames.MVY, color.RGBA{R: 255, A: 255})

	prefix := cfg.args[1]
	outputs := []struct {
		suffix string
		img    image.Image
	}{
		{"_ref.png", frames.Reference},
		{"_cur.png", frames.Current},
		{"_diff.png", diff},
		{"_diffy.png", raster.ResidualImage(frames.DiffY, residualContrast)},
		{"_vectors.png", vectors},
	}
	for _, out := range outputs {
		if err := save(cfg, prefix+out.suffix, out.img); err != nil {
			return err
		}
		fmt.Fprintln(stdout, prefix+out.suffix)
	}
	return nil
}

// planes writes the luma plane and the subsampled chroma planes of an
// image as grayscale PNGs.
func planes(cfg *config, stdout io.Writer) error {
	img, err := raster.Load(cfg.args[0])
	if err != nil {
		return err
	}
	y, cb, cr := ycc.FromImage(img)
	prefix := cfg.args[1]
	for _, p := range []struct {
		name  string
		plane *plane.Plane
	}{
		{"_y.png", y},
		{"_cb.png", plane.Subsample(cb)},
		{"_cr.png", plane.Subsample(cr)},
	} {
		if err := save(cfg, prefix+p.name, raster.PlaneImage(p.plane)); err != nil {
			return err
		}
		fmt.Fprintln(stdout, prefix+p.name)
	}
	return nil
}

// check decodes the stream at path completely.
func check(cfg *config, logger golog.Logger, path string) error {
	kind, err := rippeg.KindFromPath(path)
	if err != nil {
		return err
	}
	if kind == rippeg.KindMotion {
		s, err := rippeg.ReadMotionFile(path)
		if err != nil {
			return err
		}
		_, err = rippeg.DecodeMotion(s, cfg.options(logger))
		return err
	}
	s, err := rippeg.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = rippeg.Decode(s, cfg.options(logger))
	return err
}

func save(cfg *config, path string, img image.Image) error {
	if cfg.size > 0 {
		img = raster.Preview(img, cfg.size, cfg.size)
	}
	return raster.Save(path, img)
}

func printInfo(w io.Writer, path string, info *rippeg.Info) {
	fmt.Fprintf(w, "%s: %s\n", path, info.Kind)
	fmt.Fprintf(w, "  size:     %dx%d (padded %dx%d)\n",
		info.Geometry.Width, info.Geometry.Height, info.Geometry.PaddedWidth, info.Geometry.PaddedHeight)
	fmt.Fprintf(w, "  quality:  %d\n", info.Quality)
	fmt.Fprintf(w, "  bytes:    %d (%.1f:1)\n", info.Size, info.Ratio())
	printCounts(w, "sections", info.Sections)
	printCounts(w, "vectors", info.Vectors)
}

func printCounts(w io.Writer, label string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, m[name])
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", strings.Join(parts, " "))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: rippeg [options] <command> <args...>

Encode and decode RIPPEG still images and motion streams.

Commands:
  encode  <image> <out.rippeg>         Encode a still image
  decode  <in.rippeg> <image>          Decode to .png, .qoi, .jp2 or .j2k
  mencode <ref> <cur> <out.mrippeg>    Encode a reference/current pair
  mdecode <in.mrippeg> <prefix>        Decode frames, residual and vectors
  info    <stream> [<stream> ...]      Print header fields and section sizes
  planes  <image> <prefix>             Write the Y, Cb and Cr planes
  check   <stream> [<stream> ...]      Fully decode streams to validate them

Options:
  -q <n>       Quality 1..100 (default 50)
  -r <n>       Motion search radius (default 8)
  -w <n>       Worker goroutines, 0 for all CPUs
  -s <n>       Bound written images to n x n pixels
  -closed      Predict from the decoded I-frame
  -v           Debug logging
  -h, --help   Show this help message
  --version    Show version information

Stream paths ending in .zst or .zz are wrapped in zstd or zlib.

Exit codes:
  0: Success
  1: One or more streams invalid
  2: Error (usage, file not found, etc.)`)
}
