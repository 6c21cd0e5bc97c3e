package render_test

import (
	"bytes"
	"image/png"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/livemap/internal/badge"
	"github.com/pkordes/livemap/internal/domain"
	"github.com/pkordes/livemap/internal/mapview"
	"github.com/pkordes/livemap/internal/render"
	"github.com/pkordes/livemap/internal/theme"
)

func acmeOverlay() mapview.Overlay {
	return mapview.Overlay{
		BusinessID:  "1",
		Position:    domain.NewPosition(19.07, 72.87),
		Name:        "Acme",
		Description: "Hardware and tools",
		Address:     "MG Road, Mumbai",
		Phone:       "555-1234",
		Tags: []badge.Badge{
			{Label: "retail", Variant: badge.Secondary},
			{Label: "local", Variant: badge.Secondary},
		},
	}
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New("browser-key", 10*time.Minute)
	require.NoError(t, err)
	return r
}

func mustTheme(t *testing.T, name string) theme.Theme {
	t.Helper()
	th, err := theme.Lookup(name)
	require.NoError(t, err)
	return th
}

func TestOverlay_ShowsDetailsAndOnePillPerTag(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newRenderer(t).Overlay(&buf, acmeOverlay()))

	html := buf.String()
	assert.Contains(t, html, "<h2>Acme</h2>")
	assert.Contains(t, html, "Hardware and tools")
	assert.Contains(t, html, "MG Road, Mumbai")
	assert.Contains(t, html, "555-1234")
	assert.Equal(t, 2, strings.Count(html, `class="badge badge-secondary"`))
	assert.Contains(t, html, ">retail</span>")
	assert.Contains(t, html, ">local</span>")
	assert.NotContains(t, html, "Email:", "email row only when present")
	assert.NotContains(t, html, "Contact:", "contact row only when present")
}

func TestOverlay_OptionalRows(t *testing.T) {
	o := acmeOverlay()
	o.Email = "hello@acme.test"
	o.ContactName = "Wile"
	o.Tags = nil
	var buf bytes.Buffer

	require.NoError(t, newRenderer(t).Overlay(&buf, o))

	html := buf.String()
	assert.Contains(t, html, "hello@acme.test")
	assert.Contains(t, html, "Wile")
	assert.NotContains(t, html, `class="tags"`)
}

func TestOverlay_EscapesFields(t *testing.T) {
	o := acmeOverlay()
	o.Name = `<img src=x onerror=alert(1)>`
	var buf bytes.Buffer

	require.NoError(t, newRenderer(t).Overlay(&buf, o))

	assert.NotContains(t, buf.String(), "<img")
}

func TestPage_EmbedsStateAndTheme(t *testing.T) {
	snap := mapview.Snapshot{
		ID:    "view-1",
		Total: 1,
		Markers: []mapview.Marker{
			{BusinessID: "1", Title: "Acme", Position: domain.NewPosition(19.07, 72.87)},
		},
		Center: mapview.DefaultCenter,
		Zoom:   mapview.DefaultZoom,
	}
	var buf bytes.Buffer

	require.NoError(t, newRenderer(t).Page(&buf, snap, mustTheme(t, "indigo")))

	html := buf.String()
	assert.Contains(t, html, "Exploring 1 businesses across India")
	assert.Contains(t, html, `"businessId":"1"`)
	assert.Contains(t, html, `"lat":19.07`)
	assert.Contains(t, html, "Acme (19.07,72.87)")
	assert.Contains(t, html, "key=browser-key")
	assert.Contains(t, html, "theme=indigo")
	assert.Contains(t, html, ".badge-danger{")
	assert.NotContains(t, html, "ZgotmplZ", "no value was rejected by the template escaper")
	assert.Regexp(t, `heartbeat:\s*600000\b`, html)
}

// The Maps loader calls initLiveMap as soon as it arrives, so the script
// defining it must run first: synchronously, and ahead of the loader.
func TestPage_MapScriptRunsBeforeLoader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).Page(&buf, mapview.Snapshot{ID: "v", Markers: []mapview.Marker{}}, mustTheme(t, "indigo")))

	html := buf.String()
	script := strings.Index(html, `<script src="/assets/map.js"></script>`)
	loader := strings.Index(html, "maps.googleapis.com/maps/api/js")
	require.NotEqual(t, -1, script, "map.js is loaded without async or defer")
	require.NotEqual(t, -1, loader)
	assert.Less(t, script, loader)
}

func TestPage_NoHeartbeat(t *testing.T) {
	r, err := render.New("browser-key", 0)
	require.NoError(t, err)
	var buf bytes.Buffer

	require.NoError(t, r.Page(&buf, mapview.Snapshot{ID: "v", Markers: []mapview.Marker{}}, mustTheme(t, "slate")))

	assert.Regexp(t, `heartbeat:\s*0\b`, buf.String())
}

func TestPage_EveryThemeRenders(t *testing.T) {
	r := newRenderer(t)
	for _, name := range theme.Names() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Page(&buf, mapview.Snapshot{ID: "v", Markers: []mapview.Marker{}}, mustTheme(t, name)))
			assert.NotContains(t, buf.String(), "ZgotmplZ")
		})
	}
}

func TestMarkerIcon_SizedByThemeScale(t *testing.T) {
	classic := mustTheme(t, "classic")

	b, err := render.MarkerIcon(classic, false)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 48, img.Bounds().Dx())

	// The pin's body is filled with the marker colour.
	r, g, bl, a := img.At(24, 18).RGBA()
	assert.NotZero(t, a)
	assert.Greater(t, r, g)
	assert.Greater(t, r, bl)

	// The corner lies outside the pin.
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Zero(t, a)

	hover, err := render.MarkerIcon(classic, true)
	require.NoError(t, err)
	himg, err := png.Decode(bytes.NewReader(hover))
	require.NoError(t, err)
	assert.Greater(t, himg.Bounds().Dx(), img.Bounds().Dx())
}

func TestOverlayCard_IsPNG(t *testing.T) {
	o := acmeOverlay()
	o.Description = strings.Repeat("long description ", 20)

	b, err := render.OverlayCard(o)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 420, img.Bounds().Dx())

	short, err := render.OverlayCard(acmeOverlay())
	require.NoError(t, err)
	simg, err := png.Decode(bytes.NewReader(short))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dy(), simg.Bounds().Dy(), "long text wraps onto more lines")
}

func TestIconURL(t *testing.T) {
	assert.Equal(t, "/markers/icon.png?theme=slate", render.IconURL("slate", false))
	assert.Equal(t, "/markers/icon.png?hover=true&theme=slate", render.IconURL("slate", true))
}

func TestAssets_ServeMapScript(t *testing.T) {
	b, err := fs.ReadFile(render.Assets(), "map.js")
	require.NoError(t, err)
	assert.Contains(t, string(b), "initLiveMap")
	assert.Contains(t, string(b), `fetch("/views?wait=true", {method: "POST"})`, "a dropped view is reopened")
	assert.Contains(t, string(b), "setInterval(", "open pages ping their view")
}
