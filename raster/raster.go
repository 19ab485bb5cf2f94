// Package raster loads and stores the RGB images the rippeg codec works on,
// and renders diagnostic views of the intermediate planes.
//
// Load understands every format registered with the standard image registry
// (PNG, JPEG, GIF and QOI are linked in here) plus JPEG 2000 codestreams and
// JP2 files. Save writes PNG, QOI, or lossless JPEG 2000 when the path ends in
// .jp2 or .j2k.
package raster

import (
	"bufio"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
)

// ErrUnsupported is returned when a file extension has no encoder.
var ErrUnsupported = errors.New("raster: unsupported output format")

// Format identifies an output encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJP2
	FormatJ2K
	FormatQOI
)

// String returns the conventional extension name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJP2:
		return "jp2"
	case FormatJ2K:
		return "j2k"
	case FormatQOI:
		return "qoi"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jp2":
		return FormatJP2, nil
	case ".j2k", ".j2c":
		return FormatJ2K, nil
	case ".qoi":
		return FormatQOI, nil
	}
	return 0, errors.Wrapf(ErrUnsupported, "%q", filepath.Ext(path))
}

// Load decodes the image stored at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "raster: decode %s", path)
	}
	return img, nil
}

// Save encodes img to path in the format named by its extension.
func Save(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WithStack(cerr)
		}
	}()

	w := bufio.NewWriter(f)
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatQOI:
		err = qoi.Encode(w, img)
	case FormatJP2, FormatJ2K:
		opts := &jpeg2000.Options{
			Format:   jpeg2000.FormatJP2,
			Lossless: true,
		}
		if format == FormatJ2K {
			opts.Format = jpeg2000.FormatJ2K
		}
		err = jpeg2000.Encode(w, img, opts)
	}
	if err != nil {
		return errors.Wrapf(err, "raster: encode %s", path)
	}
	return errors.WithStack(w.Flush())
}
