package avatar

import "math"

// Size is a width/height pair. Displayed sizes can be fractional, so it is
// float64 throughout.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Unit is the coordinate unit of a CropRegion.
type Unit string

const (
	UnitPixel   Unit = "px"
	UnitPercent Unit = "%"
)

// DefaultCoverage is the share of the shorter displayed edge covered by the
// default crop.
const DefaultCoverage = 0.9

// CropRegion selects the avatar area over the displayed image. An empty Unit
// means pixels.
type CropRegion struct {
	Unit   Unit    `yaml:"unit"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Empty reports a zero-width or zero-height region.
func (r CropRegion) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ToPixels converts the region to displayed-pixel units.
func (r CropRegion) ToPixels(displayed Size) CropRegion {
	if r.Unit != UnitPercent {
		r.Unit = UnitPixel
		return r
	}
	return CropRegion{
		Unit:   UnitPixel,
		X:      r.X * displayed.Width / 100,
		Y:      r.Y * displayed.Height / 100,
		Width:  r.Width * displayed.Width / 100,
		Height: r.Height * displayed.Height / 100,
	}
}

// ToPercent converts the region to percentages of the displayed size.
func (r CropRegion) ToPercent(displayed Size) CropRegion {
	if r.Unit == UnitPercent {
		return r
	}
	if displayed.Empty() {
		return CropRegion{Unit: UnitPercent}
	}
	return CropRegion{
		Unit:   UnitPercent,
		X:      r.X * 100 / displayed.Width,
		Y:      r.Y * 100 / displayed.Height,
		Width:  r.Width * 100 / displayed.Width,
		Height: r.Height * 100 / displayed.Height,
	}
}

// DefaultCropRegion returns a centered square covering DefaultCoverage of
// the shorter displayed edge. For a square image that is 90%x90%.
func DefaultCropRegion(displayed Size) CropRegion {
	if displayed.Empty() {
		return CropRegion{Unit: UnitPixel}
	}
	side := DefaultCoverage * math.Min(displayed.Width, displayed.Height)
	return CropRegion{
		Unit:   UnitPixel,
		X:      (displayed.Width - side) / 2,
		Y:      (displayed.Height - side) / 2,
		Width:  side,
		Height: side,
	}
}

// LockSquare pins the region to a 1:1 aspect and keeps it inside the
// displayed image. The side is the smaller of the requested width and
// height; the origin is clamped so the square stays within bounds.
func LockSquare(r CropRegion, displayed Size) CropRegion {
	px := r.ToPixels(displayed)
	side := math.Min(math.Min(px.Width, px.Height), math.Min(displayed.Width, displayed.Height))
	if side <= 0 || math.IsNaN(side) {
		return CropRegion{Unit: UnitPixel, X: clamp(px.X, 0, displayed.Width), Y: clamp(px.Y, 0, displayed.Height)}
	}
	return CropRegion{
		Unit:   UnitPixel,
		X:      clamp(px.X, 0, displayed.Width-side),
		Y:      clamp(px.Y, 0, displayed.Height-side),
		Width:  side,
		Height: side,
	}
}

// FitDisplay returns the size at which an image of the given natural size is
// shown inside viewport: aspect preserved, never upscaled. A zero viewport
// shows the image at natural size.
func FitDisplay(natural, viewport Size) Size {
	if natural.Empty() {
		return Size{}
	}
	if viewport.Empty() {
		return natural
	}
	scale := math.Min(1, math.Min(viewport.Width/natural.Width, viewport.Height/natural.Height))
	return Size{Width: natural.Width * scale, Height: natural.Height * scale}
}

// clamp bounds v to [lo, hi]. A non-finite v clamps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}
