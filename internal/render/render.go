// Package render turns view state into what the browser shows: the map page,
// the overlay card fragment, and PNG images of marker pins and overlay cards.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"time"

	"github.com/pkordes/livemap/internal/badge"
	"github.com/pkordes/livemap/internal/mapview"
	"github.com/pkordes/livemap/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Assets returns the static files served under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return sub
}

// Renderer executes the page and overlay templates.
type Renderer struct {
	page      *template.Template
	overlay   *template.Template
	mapsKey   string
	heartbeat time.Duration
}

// New parses the embedded templates. mapsKey loads the map widget script.
// The page pings its view every heartbeat so an open page is never swept as
// idle; zero disables the ping.
func New(mapsKey string, heartbeat time.Duration) (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("render.New: page: %w", err)
	}
	overlay, err := template.ParseFS(templateFS, "templates/overlay.html")
	if err != nil {
		return nil, fmt.Errorf("render.New: overlay: %w", err)
	}
	return &Renderer{page: page, overlay: overlay, mapsKey: mapsKey, heartbeat: heartbeat}, nil
}

type pageData struct {
	ViewID       string
	State        mapview.Snapshot
	Theme        theme.Theme
	Heading      string
	Background   template.CSS
	MapHeight    template.CSS
	MapRadius    template.CSS
	BadgeCSS     template.CSS
	IconURL      string
	HoverIconURL string
	MapsKey      string
	HeartbeatMS  int64
}

// Page writes the full map page for a view.
func (r *Renderer) Page(w io.Writer, snap mapview.Snapshot, t theme.Theme) error {
	radius := t.MapRadius
	if radius == "" {
		radius = "0"
	}
	data := pageData{
		ViewID:       snap.ID,
		State:        snap,
		Theme:        t,
		Heading:      t.Heading(snap.Total),
		Background:   template.CSS(t.Background),
		MapHeight:    template.CSS(t.MapHeight),
		MapRadius:    template.CSS(radius),
		BadgeCSS:     badge.CSS(),
		IconURL:      IconURL(t.Name, false),
		HoverIconURL: IconURL(t.Name, true),
		MapsKey:      r.mapsKey,
		HeartbeatMS:  r.heartbeat.Milliseconds(),
	}
	if err := r.page.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("render.Renderer.Page: %w", err)
	}
	return nil
}

// Overlay writes the detail card fragment shown inside the map's info window.
func (r *Renderer) Overlay(w io.Writer, o mapview.Overlay) error {
	if err := r.overlay.ExecuteTemplate(w, "overlay.html", o); err != nil {
		return fmt.Errorf("render.Renderer.Overlay: %w", err)
	}
	return nil
}

// IconURL is the path of the marker icon for a theme.
func IconURL(themeName string, hover bool) string {
	q := url.Values{}
	q.Set("theme", themeName)
	if hover {
		q.Set("hover", "true")
	}
	return "/markers/icon.png?" + q.Encode()
}
