package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/pkordes/livemap/internal/theme"
)

// pin is the marker outline in a 24x24 box:
// M12 2C8.13 2 5 5.13 5 9c0 5.25 7 13 7 13s7-7.75 7-13c0-3.87-3.13-7-7-7z
// with relative and smooth segments expanded to absolute cubic curves.
var pin = []segment{
	{move: true, pts: [3][2]float32{{12, 2}}},
	{pts: [3][2]float32{{8.13, 2}, {5, 5.13}, {5, 9}}},
	{pts: [3][2]float32{{5, 14.25}, {12, 22}, {12, 22}}},
	{pts: [3][2]float32{{12, 22}, {19, 14.25}, {19, 9}}},
	{pts: [3][2]float32{{19, 5.13}, {15.87, 2}, {12, 2}}},
}

type segment struct {
	move bool
	pts  [3][2]float32
}

const pinBox = 24

// hoverScale enlarges the hovered pin so it stands out while it bounces.
const hoverScale = 1.25

// MarkerIcon draws the theme's marker pin as a PNG. The stroke is drawn as
// the full pin in the stroke colour with the fill inset on top of it.
func MarkerIcon(t theme.Theme, hover bool) ([]byte, error) {
	scale := t.MarkerScale
	if scale <= 0 {
		scale = 1
	}
	if hover {
		scale *= hoverScale
	}
	size := int(math.Ceil(pinBox * scale))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	stroke := t.MarkerStroke
	fill := color.NRGBA{R: t.MarkerFill.R, G: t.MarkerFill.G, B: t.MarkerFill.B, A: uint8(math.Round(255 * opacity(t.MarkerFillOpacity)))}

	drawPin(img, float32(scale), 0, stroke)
	// Shrink the fill about the pin's visual center so the stroke shows evenly.
	inset := float32(t.MarkerStrokeWidth)
	drawPin(img, float32(scale), inset, fill)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render.MarkerIcon: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPin(dst draw.Image, scale, inset float32, c color.Color) {
	const cx, cy = 12, 11
	k := float32(1)
	if inset > 0 {
		k = (10 - inset) / 10
	}
	tx := func(p [2]float32) (float32, float32) {
		return (cx + (p[0]-cx)*k) * scale, (cy + (p[1]-cy)*k) * scale
	}

	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	for _, s := range pin {
		if s.move {
			r.MoveTo(tx(s.pts[0]))
			continue
		}
		x1, y1 := tx(s.pts[0])
		x2, y2 := tx(s.pts[1])
		x3, y3 := tx(s.pts[2])
		r.CubeTo(x1, y1, x2, y2, x3, y3)
	}
	r.ClosePath()
	r.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// opacity treats an unset or out-of-range value as fully opaque.
func opacity(f float64) float64 {
	if f <= 0 || f > 1 {
		return 1
	}
	return f
}
