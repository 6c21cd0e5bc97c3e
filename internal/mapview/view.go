// Package mapview holds the state of one map page view: the fetched business
// list, the current selection and hover, and the map's center. It issues the
// two outbound calls (directory fetch and reverse geocoding) asynchronously
// and applies their results under a lock.
//
// A selection response is applied only when it answers the most recent
// selection request, and nothing is applied after the view is closed.
package mapview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/livemap/internal/domain"
	"github.com/pkordes/livemap/internal/geocode"
)

// DefaultZoom is the zoom level a new view starts at.
const DefaultZoom = 5

// DefaultCenter is where a new view is centered (India).
var DefaultCenter = domain.NewPosition(20.5937, 78.9629)

// BusinessLister fetches the business list.
// Defining the interface here, in the consumer package, lets tests inject a
// fake without a network.
type BusinessLister interface {
	ListBusinesses(ctx context.Context) ([]domain.Business, error)
}

// ReverseGeocoder resolves a position into candidate addresses.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, pos domain.Position) ([]geocode.Result, error)
}

// View is the server-side state of one page view. All methods are safe for
// concurrent use.
type View struct {
	id       uuid.UUID
	lister   BusinessLister
	geocoder ReverseGeocoder
	log      *slog.Logger

	// ctx lives as long as the view; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	loadOnce sync.Once
	loaded   chan struct{}
	inflight sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	loadDone   bool
	businesses []domain.Business
	index      map[string]int
	selected   *domain.Business
	hovered    string
	seq        uint64 // tag of the latest selection request
	mapReady   bool
	center     domain.Position
	zoom       int
}

// New returns an empty view. Call Load to fetch the business list.
func New(id uuid.UUID, lister BusinessLister, geocoder ReverseGeocoder, log *slog.Logger) *View {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &View{
		id:       id,
		lister:   lister,
		geocoder: geocoder,
		log:      log.With("view_id", id.String()),
		ctx:      ctx,
		cancel:   cancel,
		loaded:   make(chan struct{}),
		index:    map[string]int{},
		center:   DefaultCenter,
		zoom:     DefaultZoom,
	}
}

// ID returns the view's identifier.
func (v *View) ID() uuid.UUID { return v.id }

// Load fetches the business list in the background. Only the first call
// issues a request; every call returns the same channel, closed once the
// fetch has finished (successfully or not) or the view was already closed.
//
// On failure the error is logged and the list keeps its previous value.
func (v *View) Load() <-chan struct{} {
	v.loadOnce.Do(func() {
		v.mu.Lock()
		if v.closed {
			v.mu.Unlock()
			close(v.loaded)
			return
		}
		v.inflight.Add(1)
		v.mu.Unlock()

		go func() {
			defer v.inflight.Done()
			defer close(v.loaded)
			v.load()
		}()
	})
	return v.loaded
}

func (v *View) load() {
	businesses, err := v.lister.ListBusinesses(v.ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.log.Debug("discarding business list for closed view")
		return
	}
	v.loadDone = true
	if err != nil {
		v.log.Error("fetching businesses", "error", err)
		return
	}

	list := make([]domain.Business, 0, len(businesses))
	index := make(map[string]int, len(businesses))
	for _, b := range businesses {
		if _, dup := index[b.ID]; dup {
			v.log.Warn("duplicate business id in directory response", "business_id", b.ID)
			continue
		}
		if _, ok := b.Position(); !ok {
			v.log.Debug("business has no usable position", "business_id", b.ID,
				"latitude", b.BusinessLocation.Location.Latitude,
				"longitude", b.BusinessLocation.Location.Longitude)
		}
		index[b.ID] = len(list)
		list = append(list, b)
	}
	v.businesses = list
	v.index = index
	v.log.Info("businesses loaded", "count", len(list))
}

// Pending tracks one selection request.
type Pending struct {
	// Seq is the request tag. Later requests have larger tags.
	Seq        uint64
	BusinessID string

	done    chan struct{}
	applied bool
}

// Done is closed when the request has resolved.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Applied reports whether the resolved request became the visible selection.
// It is false for stale or discarded responses, and until Done is closed.
func (p *Pending) Applied() bool {
	select {
	case <-p.done:
		return p.applied
	default:
		return false
	}
}

// Wait blocks until the request resolves or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Select starts a reverse-geocoding lookup for the business and, when it
// resolves, makes it the selection. The selection is set even when the
// lookup fails; only the formatted address is missing then. If the map is
// attached, the view recenters on the business.
//
// Every call issues its own lookup. Returns domain.ErrNotFound for an unknown
// id and domain.ErrValidation when the business has no usable position.
func (v *View) Select(businessID string) (*Pending, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, fmt.Errorf("mapview.View.Select: %w", domain.ErrViewClosed)
	}
	i, ok := v.index[businessID]
	if !ok {
		v.mu.Unlock()
		return nil, fmt.Errorf("mapview.View.Select: business %q: %w", businessID, domain.ErrNotFound)
	}
	b := v.businesses[i]
	pos, ok := b.Position()
	if !ok {
		v.mu.Unlock()
		return nil, fmt.Errorf("mapview.View.Select: %w: business %q has no usable position", domain.ErrValidation, businessID)
	}
	v.seq++
	p := &Pending{Seq: v.seq, BusinessID: businessID, done: make(chan struct{})}
	v.inflight.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.inflight.Done()
		defer close(p.done)
		v.resolve(p, b, pos)
	}()
	return p, nil
}

func (v *View) resolve(p *Pending, b domain.Business, pos domain.Position) {
	results, err := v.geocoder.Reverse(v.ctx, pos)

	sel := b
	switch {
	case err != nil && v.ctx.Err() == nil:
		v.log.Error("reverse geocoding", "business_id", b.ID, "latlng", pos.LatLng(), "error", err)
	case err == nil:
		if addr := geocode.FirstAddress(results); addr != "" {
			sel.FormattedAddress = addr
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.log.Debug("discarding selection for closed view", "business_id", b.ID, "seq", p.Seq)
		return
	}
	if p.Seq != v.seq {
		v.log.Debug("discarding stale selection", "business_id", b.ID, "seq", p.Seq, "latest", v.seq)
		return
	}
	v.selected = &sel
	if v.mapReady {
		v.center = pos
	}
	p.applied = true
}

// Deselect clears the selection. It also supersedes any selection request
// still in flight, so a late response cannot reopen the overlay.
func (v *View) Deselect() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("mapview.View.Deselect: %w", domain.ErrViewClosed)
	}
	v.selected = nil
	v.seq++
	return nil
}

// Hover marks a business's marker as hovered, replacing any previous one.
func (v *View) Hover(businessID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("mapview.View.Hover: %w", domain.ErrViewClosed)
	}
	if _, ok := v.index[businessID]; !ok {
		return fmt.Errorf("mapview.View.Hover: business %q: %w", businessID, domain.ErrNotFound)
	}
	v.hovered = businessID
	return nil
}

// Unhover clears the hovered marker.
func (v *View) Unhover() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("mapview.View.Unhover: %w", domain.ErrViewClosed)
	}
	v.hovered = ""
	return nil
}

// AttachMap records that the map widget has loaded, which enables
// recentering on selection.
func (v *View) AttachMap() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return fmt.Errorf("mapview.View.AttachMap: %w", domain.ErrViewClosed)
	}
	v.mapReady = true
	return nil
}

// Close tears the view down: in-flight requests are cancelled and their
// results discarded. Close is idempotent and does not wait; use Wait for that.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
}

// Closed reports whether Close has been called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Wait blocks until every outbound request started by the view has returned.
func (v *View) Wait() {
	v.inflight.Wait()
}
