package plane

// Subsample halves both dimensions of p by keeping the top-left sample of
// each 2x2 cell. The output is ceil(W/2) x ceil(H/2); no averaging is done.
func Subsample(p *Plane) *Plane {
	w, h := (p.Width+1)/2, (p.Height+1)/2
	out := New(w, h)
	for y := 0; y < h; y++ {
		src := p.Pix[2*y*p.Width:]
		dst := out.Pix[y*w:][:w]
		for x := range dst {
			dst[x] = src[2*x]
		}
	}
	return out
}

// Upsample expands a subsampled chroma plane to g's padded extent. Output
// sample (x, y) replicates source (x/2, y/2), so each source sample covers
// its originating 2x2 cell.
//
// g must be the padded luma geometry. Source samples beyond the cells that
// map into the padded extent (chroma block padding) are ignored.
func Upsample(p *Plane, g Geometry) (*Plane, error) {
	if err := checkUpsample(p.Width, p.Height, g); err != nil {
		return nil, err
	}
	out := New(g.PaddedWidth, g.PaddedHeight)
	for y := 0; y < g.PaddedHeight; y++ {
		src := p.Pix[(y/2)*p.Width:]
		dst := out.Pix[y*g.PaddedWidth:][:g.PaddedWidth]
		for x := range dst {
			dst[x] = src[x/2]
		}
	}
	return out, nil
}

// UpsampleFloat is Upsample for float planes.
func UpsampleFloat(p *FloatPlane, g Geometry) (*FloatPlane, error) {
	if err := checkUpsample(p.Width, p.Height, g); err != nil {
		return nil, err
	}
	out := NewFloat(g.PaddedWidth, g.PaddedHeight)
	for y := 0; y < g.PaddedHeight; y++ {
		src := p.Pix[(y/2)*p.Width:]
		dst := out.Pix[y*g.PaddedWidth:][:g.PaddedWidth]
		for x := range dst {
			dst[x] = src[x/2]
		}
	}
	return out, nil
}

func checkUpsample(w, h int, g Geometry) error {
	needW, needH := (g.PaddedWidth+1)/2, (g.PaddedHeight+1)/2
	if w < needW || h < needH {
		return &GeometryError{Op: "upsample", X: needW, Y: needH, Width: w, Height: h}
	}
	return nil
}
