// Package theme holds the cosmetic presets for the map page. The page is one
// component; a Theme is the only thing that varies between its presentations.
package theme

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/pkordes/livemap/internal/domain"
)

// Default is the theme used when none is configured or requested.
const Default = "indigo"

// MapStyle is one Google Maps styling rule.
type MapStyle struct {
	FeatureType string              `json:"featureType"`
	ElementType string              `json:"elementType"`
	Stylers     []map[string]string `json:"stylers"`
}

// Theme is a named set of presentation values.
type Theme struct {
	Name string

	// Marker pin.
	MarkerFill        color.RGBA
	MarkerFillOpacity float64
	MarkerStroke      color.RGBA
	MarkerStrokeWidth float64
	MarkerScale       float64

	// Page chrome.
	Title      string
	Subtitle   string
	Background string
	MapHeight  string
	MapRadius  string

	MapStyles []MapStyle

	// Widget controls hidden in this theme.
	HideFullscreen bool
	HideStreetView bool
}

var themes = map[string]Theme{
	"classic": {
		Name:              "classic",
		MarkerFill:        rgb(0xff, 0x5a, 0x5f),
		MarkerFillOpacity: 0.9,
		MarkerStroke:      rgb(0xff, 0xff, 0xff),
		MarkerStrokeWidth: 1,
		MarkerScale:       2,
		Title:             "Live Business Map",
		Subtitle:          "Total Businesses Shown: %d",
		Background:        "linear-gradient(to right, #1e3a8a, #581c87)",
		MapHeight:         "90vh",
		MapStyles: []MapStyle{
			geometry("all", "#242f3e"),
			geometry("water", "#17263c"),
		},
	},
	"indigo": {
		Name:              "indigo",
		MarkerFill:        rgb(0x4f, 0x46, 0xe5),
		MarkerFillOpacity: 0.9,
		MarkerStroke:      rgb(0xff, 0xff, 0xff),
		MarkerStrokeWidth: 1.5,
		MarkerScale:       1.8,
		Title:             "Live Business Map",
		Subtitle:          "Exploring %d businesses across India",
		Background:        "linear-gradient(to bottom right, #0f172a, #581c87, #0f172a)",
		MapHeight:         "85vh",
		MapRadius:         "1rem",
		MapStyles: []MapStyle{
			geometry("all", "#1a1b1f"),
			geometry("water", "#2d3748"),
			geometry("road", "#4a5568"),
			{FeatureType: "poi", ElementType: "labels", Stylers: []map[string]string{{"visibility": "off"}}},
		},
		HideFullscreen: true,
		HideStreetView: true,
	},
	"slate": {
		Name:              "slate",
		MarkerFill:        rgb(0x0e, 0xa5, 0xe9),
		MarkerFillOpacity: 0.9,
		MarkerStroke:      rgb(0x0f, 0x17, 0x2a),
		MarkerStrokeWidth: 1,
		MarkerScale:       1.6,
		Title:             "Live Business Map",
		Subtitle:          "%d businesses on the map",
		Background:        "#0f172a",
		MapHeight:         "88vh",
		MapRadius:         "0.5rem",
		MapStyles: []MapStyle{
			geometry("all", "#1e293b"),
			geometry("water", "#0f172a"),
		},
		HideStreetView: true,
	},
}

// Lookup returns the named theme. An empty name yields Default.
// Unknown names wrap domain.ErrValidation.
func Lookup(name string) (Theme, error) {
	if name == "" {
		name = Default
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: unknown theme %q", domain.ErrValidation, name)
	}
	return t, nil
}

// Names lists the available theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Heading formats the subtitle with the number of businesses shown.
func (t Theme) Heading(count int) string {
	return fmt.Sprintf(t.Subtitle, count)
}

// FillHex returns the marker fill as a CSS hex colour.
func (t Theme) FillHex() string { return hex(t.MarkerFill) }

// StrokeHex returns the marker stroke as a CSS hex colour.
func (t Theme) StrokeHex() string { return hex(t.MarkerStroke) }

func geometry(feature, c string) MapStyle {
	return MapStyle{FeatureType: feature, ElementType: "geometry", Stylers: []map[string]string{{"color": c}}}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
