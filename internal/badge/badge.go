// Package badge renders labeled pills for tag strings. A pill's colour is
// determined solely by its Variant.
package badge

import (
	"bytes"
	"fmt"
	"html/template"
	"image/color"

	"github.com/pkordes/livemap/internal/domain"
)

// Variant selects a pill's colour scheme. The zero value behaves as Primary.
type Variant string

const (
	Primary   Variant = "primary"
	Secondary Variant = "secondary"
	Success   Variant = "success"
	Danger    Variant = "danger"
	Warning   Variant = "warning"
)

// Style is the resolved presentation of a Badge.
type Style struct {
	Variant    Variant
	Class      string
	Background color.RGBA
	Foreground color.RGBA
}

const baseClass = "badge"

var styles = map[Variant]Style{
	Primary:   {Primary, baseClass + " badge-primary", rgb(0xdb, 0xea, 0xfe), rgb(0x1e, 0x40, 0xaf)},
	Secondary: {Secondary, baseClass + " badge-secondary", rgb(0xf3, 0xf4, 0xf6), rgb(0x1f, 0x29, 0x37)},
	Success:   {Success, baseClass + " badge-success", rgb(0xdc, 0xfc, 0xe7), rgb(0x16, 0x65, 0x34)},
	Danger:    {Danger, baseClass + " badge-danger", rgb(0xfe, 0xe2, 0xe2), rgb(0x99, 0x1b, 0x1b)},
	Warning:   {Warning, baseClass + " badge-warning", rgb(0xfe, 0xf9, 0xc3), rgb(0x85, 0x4d, 0x0e)},
}

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{Primary, Secondary, Success, Danger, Warning}
}

// Parse converts a variant name. An empty name yields Primary.
// Unknown names wrap domain.ErrValidation.
func Parse(name string) (Variant, error) {
	if name == "" {
		return Primary, nil
	}
	v := Variant(name)
	if _, ok := styles[v]; !ok {
		return "", fmt.Errorf("%w: unknown badge variant %q", domain.ErrValidation, name)
	}
	return v, nil
}

// Badge is a label rendered as a pill. Any string is a valid label.
type Badge struct {
	Label   string  `json:"label"`
	Variant Variant `json:"variant"`
}

// New returns a Badge with the default variant.
func New(label string) Badge {
	return Badge{Label: label, Variant: Primary}
}

// Style resolves the badge's presentation. An empty or unknown variant
// resolves to Primary.
func (b Badge) Style() Style {
	if s, ok := styles[b.Variant]; ok {
		return s
	}
	return styles[Primary]
}

var pill = template.Must(template.New("badge").Parse(
	`<span class="{{.Class}}" data-variant="{{.Variant}}">{{.Label}}</span>`))

// HTML renders the pill as an escaped <span>.
func (b Badge) HTML() template.HTML {
	s := b.Style()
	var buf bytes.Buffer
	// The template only reads strings from a struct literal; execution cannot fail.
	_ = pill.Execute(&buf, struct {
		Class   string
		Variant Variant
		Label   string
	}{s.Class, s.Variant, b.Label})
	return template.HTML(buf.String())
}

// CSS returns the stylesheet rules for every variant class.
func CSS() template.CSS {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, ".%s{display:inline-flex;align-items:center;padding:0.125rem 0.5rem;border-radius:9999px;font-size:0.875rem;font-weight:500}\n", baseClass)
	for _, v := range Variants() {
		s := styles[v]
		fmt.Fprintf(&buf, ".badge-%s{background:%s;color:%s}\n", v, hex(s.Background), hex(s.Foreground))
	}
	return template.CSS(buf.String())
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
