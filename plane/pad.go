package plane

// Pad extends p to width x height by edge replication: every added column
// repeats the last source column and every added row repeats the last
// source row. Crop(Pad(p, w, h), p.Width, p.Height) equals p.
func Pad(p *Plane, width, height int) (*Plane, error) {
	if err := checkPad("pad", p.Width, p.Height, width, height); err != nil {
		return nil, err
	}
	out := New(width, height)
	for y := 0; y < height; y++ {
		src := p.Pix[min(y, p.Height-1)*p.Width:][:p.Width]
		row := out.Pix[y*width:][:width]
		n := copy(row, src)
		last := src[p.Width-1]
		for x := n; x < width; x++ {
			row[x] = last
		}
	}
	return out, nil
}

// Crop returns the top-left width x height region of p.
func Crop(p *Plane, width, height int) (*Plane, error) {
	if width <= 0 || height <= 0 || width > p.Width || height > p.Height {
		return nil, &GeometryError{Op: "crop", X: width, Y: height, Width: p.Width, Height: p.Height}
	}
	out := New(width, height)
	for y := 0; y < height; y++ {
		copy(out.Pix[y*width:][:width], p.Pix[y*p.Width:])
	}
	return out, nil
}

// PadToGeometry pads p from its original extent to g's padded extent.
func PadToGeometry(p *Plane, g Geometry) (*Plane, error) {
	return Pad(p, g.PaddedWidth, g.PaddedHeight)
}

func checkPad(op string, srcW, srcH, w, h int) error {
	if srcW <= 0 || srcH <= 0 || w < srcW || h < srcH {
		return &GeometryError{Op: op, X: w, Y: h, Width: srcW, Height: srcH}
	}
	return nil
}
