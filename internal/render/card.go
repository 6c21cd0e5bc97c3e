package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/pkordes/livemap/internal/badge"
	"github.com/pkordes/livemap/internal/mapview"
)

const (
	cardWidth   = 420
	cardPadding = 20
	pillPadX    = 8
	pillPadY    = 4
	pillGap     = 6
)

var (
	cardBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
	cardTitle      = color.RGBA{0x11, 0x18, 0x27, 0xff}
	cardText       = color.RGBA{0x37, 0x41, 0x51, 0xff}
	cardMuted      = color.RGBA{0x4b, 0x55, 0x63, 0xff}
)

var fonts struct {
	once          sync.Once
	regular, bold *truetype.Font
	err           error
}

func loadFonts() (*truetype.Font, *truetype.Font, error) {
	fonts.once.Do(func() {
		if fonts.regular, fonts.err = freetype.ParseFont(goregular.TTF); fonts.err != nil {
			return
		}
		fonts.bold, fonts.err = freetype.ParseFont(gobold.TTF)
	})
	return fonts.regular, fonts.bold, fonts.err
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// line is one row of text on the card.
type line struct {
	text  string
	face  font.Face
	size  int
	color color.RGBA
}

// OverlayCard draws the overlay as a PNG card: the same fields as the HTML
// fragment, with tags drawn as pills in their badge colours.
func OverlayCard(o mapview.Overlay) ([]byte, error) {
	regular, bold, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("render.OverlayCard: fonts: %w", err)
	}
	title := newFace(bold, 22)
	body := newFace(regular, 14)
	pill := newFace(regular, 12)

	maxText := cardWidth - 2*cardPadding
	var lines []line
	add := func(text string, face font.Face, size int, c color.RGBA) {
		for _, l := range wrap(text, face, maxText) {
			lines = append(lines, line{text: l, face: face, size: size, color: c})
		}
	}
	add(o.Name, title, 22, cardTitle)
	add(o.Description, body, 14, cardMuted)
	if o.ContactName != "" {
		add("Contact: "+o.ContactName, body, 14, cardText)
	}
	add("Address: "+o.Address, body, 14, cardText)
	add("Phone: "+o.Phone, body, 14, cardText)
	if o.Email != "" {
		add("Email: "+o.Email, body, 14, cardText)
	}

	height := cardPadding
	for _, l := range lines {
		height += lineHeight(l.size)
	}
	rows := layoutPills(o.Tags, pill, maxText)
	pillHeight := 12 + 2*pillPadY
	if len(rows) > 0 {
		height += pillGap + len(rows)*(pillHeight+pillGap)
	}
	height += cardPadding

	img := image.NewRGBA(image.Rect(0, 0, cardWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	y := cardPadding
	for _, l := range lines {
		d := &font.Drawer{Dst: img, Src: image.NewUniform(l.color), Face: l.face}
		d.Dot = fixed.Point26_6{X: fixed.I(cardPadding), Y: fixed.I(y + l.size)}
		d.DrawString(l.text)
		y += lineHeight(l.size)
	}

	y += pillGap
	for _, row := range rows {
		x := cardPadding
		for _, p := range row {
			s := p.badge.Style()
			r := image.Rect(x, y, x+p.width, y+pillHeight)
			draw.Draw(img, r, image.NewUniform(s.Background), image.Point{}, draw.Src)
			d := &font.Drawer{Dst: img, Src: image.NewUniform(s.Foreground), Face: pill}
			d.Dot = fixed.Point26_6{X: fixed.I(x + pillPadX), Y: fixed.I(y + pillPadY + 11)}
			d.DrawString(p.badge.Label)
			x += p.width + pillGap
		}
		y += pillHeight + pillGap
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render.OverlayCard: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func lineHeight(size int) int {
	return size + size*3/10 + 2
}

// wrap splits text into lines no wider than maxWidth pixels. A single word
// wider than maxWidth gets a line of its own.
func wrap(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var out []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if font.MeasureString(face, next).Ceil() > maxWidth {
			out = append(out, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(out, cur)
}

type placedPill struct {
	badge badge.Badge
	width int
}

// layoutPills flows pills left to right, starting a new row when one would
// overflow maxWidth.
func layoutPills(tags []badge.Badge, face font.Face, maxWidth int) [][]placedPill {
	var rows [][]placedPill
	var row []placedPill
	used := 0
	for _, b := range tags {
		w := font.MeasureString(face, b.Label).Ceil() + 2*pillPadX
		if len(row) > 0 && used+pillGap+w > maxWidth {
			rows = append(rows, row)
			row, used = nil, 0
		}
		if len(row) > 0 {
			used += pillGap
		}
		row = append(row, placedPill{badge: b, width: w})
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
