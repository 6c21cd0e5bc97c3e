package mapview

import (
	"github.com/paulmach/orb"

	"github.com/pkordes/livemap/internal/badge"
	"github.com/pkordes/livemap/internal/domain"
)

// Marker is one point on the map.
type Marker struct {
	BusinessID string          `json:"businessId"`
	Title      string          `json:"title"`
	Position   domain.Position `json:"position"`
	// Bouncing is true while the marker is hovered.
	Bouncing bool `json:"bouncing"`
}

// Overlay is the detail card for the selected business.
type Overlay struct {
	BusinessID  string          `json:"businessId"`
	Position    domain.Position `json:"position"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ContactName string          `json:"contactName,omitempty"`
	Address     string          `json:"address"`
	// Geocoded is true when Address came from reverse geocoding rather than
	// the registered street and city.
	Geocoded bool          `json:"geocoded"`
	Phone    string        `json:"phone"`
	Email    string        `json:"email,omitempty"`
	Tags     []badge.Badge `json:"tags"`
}

// Bounds is the box enclosing every marker.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Snapshot is a consistent copy of a view's visible state.
type Snapshot struct {
	ID       string          `json:"id"`
	Loaded   bool            `json:"loaded"`
	Total    int             `json:"total"`
	Markers  []Marker        `json:"markers"`
	Bounds   *Bounds         `json:"bounds,omitempty"`
	Overlay  *Overlay        `json:"overlay,omitempty"`
	Hovered  string          `json:"hovered,omitempty"`
	MapReady bool            `json:"mapReady"`
	Center   domain.Position `json:"center"`
	Zoom     int             `json:"zoom"`
}

// Markers returns one marker per business whose position parses, in
// directory order.
func (v *View) Markers() []Marker {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.markersLocked()
}

// Overlay returns the detail card, or nil when nothing is selected.
func (v *View) Overlay() *Overlay {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.overlayLocked()
}

// Businesses returns a copy of the loaded business list.
func (v *View) Businesses() []domain.Business {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Business(nil), v.businesses...)
}

// Selected returns a copy of the selected business, or nil.
func (v *View) Selected() *domain.Business {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil
	}
	b := *v.selected
	return &b
}

// Snapshot returns the whole visible state at one instant.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	markers := v.markersLocked()
	return Snapshot{
		ID:       v.id.String(),
		Loaded:   v.loadDone,
		Total:    len(v.businesses),
		Markers:  markers,
		Bounds:   bounds(markers),
		Overlay:  v.overlayLocked(),
		Hovered:  v.hovered,
		MapReady: v.mapReady,
		Center:   v.center,
		Zoom:     v.zoom,
	}
}

func (v *View) markersLocked() []Marker {
	markers := make([]Marker, 0, len(v.businesses))
	for _, b := range v.businesses {
		pos, ok := b.Position()
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			BusinessID: b.ID,
			Title:      b.Details.Name,
			Position:   pos,
			Bouncing:   b.ID == v.hovered,
		})
	}
	return markers
}

func (v *View) overlayLocked() *Overlay {
	if v.selected == nil {
		return nil
	}
	b := v.selected
	// Select only accepts businesses with a usable position.
	pos, _ := b.Position()

	tags := make([]badge.Badge, len(b.Category.Tags))
	for i, t := range b.Category.Tags {
		tags[i] = badge.Badge{Label: t, Variant: badge.Secondary}
	}
	return &Overlay{
		BusinessID:  b.ID,
		Position:    pos,
		Name:        b.Details.Name,
		Description: b.Category.Description,
		ContactName: b.ContactDetails.ContactName,
		Address:     b.DisplayAddress(),
		Geocoded:    b.FormattedAddress != "",
		Phone:       b.ContactDetails.ContactNumber,
		Email:       b.ContactDetails.Email,
		Tags:        tags,
	}
}

func bounds(markers []Marker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	mp := make(orb.MultiPoint, len(markers))
	for i, m := range markers {
		mp[i] = m.Position.Point
	}
	b := mp.Bound()
	return &Bounds{
		South: b.Min.Lat(),
		West:  b.Min.Lon(),
		North: b.Max.Lat(),
		East:  b.Max.Lon(),
	}
}

// Center returns the bound's midpoint, or DefaultCenter without markers.
func (b *Bounds) Center() domain.Position {
	if b == nil {
		return DefaultCenter
	}
	c := orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}.Center()
	return domain.NewPosition(c.Lat(), c.Lon())
}
