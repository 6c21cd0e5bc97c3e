package mapview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/livemap/internal/domain"
)

// Registry tracks the open views of all page visitors by ID.
type Registry struct {
	lister   BusinessLister
	geocoder ReverseGeocoder
	log      *slog.Logger
	idleTTL  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	views map[uuid.UUID]*entry
}

type entry struct {
	view     *View
	lastSeen time.Time
}

// NewRegistry returns an empty Registry. Views idle for longer than idleTTL
// are closed by Sweep.
func NewRegistry(lister BusinessLister, geocoder ReverseGeocoder, log *slog.Logger, idleTTL time.Duration) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		lister:   lister,
		geocoder: geocoder,
		log:      log,
		idleTTL:  idleTTL,
		now:      time.Now,
		views:    map[uuid.UUID]*entry{},
	}
}

// SetClock replaces the registry's time source. Tests use it to drive Sweep.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Open creates a view and starts loading its business list.
func (r *Registry) Open() *View {
	v := New(uuid.New(), r.lister, r.geocoder, r.log)

	r.mu.Lock()
	r.views[v.ID()] = &entry{view: v, lastSeen: r.now()}
	n := len(r.views)
	r.mu.Unlock()

	r.log.Debug("view opened", "view_id", v.ID().String(), "open_views", n)
	v.Load()
	return v
}

// Get returns the view and marks it as active.
// Returns domain.ErrNotFound for unknown or already closed views.
func (r *Registry) Get(id uuid.UUID) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("mapview.Registry.Get: view %s: %w", id, domain.ErrNotFound)
	}
	e.lastSeen = r.now()
	return e.view, nil
}

// Close tears the view down and forgets it.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("mapview.Registry.Close: view %s: %w", id, domain.ErrNotFound)
	}
	e.view.Close()
	r.log.Debug("view closed", "view_id", id.String())
	return nil
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes every view not used since now minus the idle TTL and
// returns how many it closed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*View
	for id, e := range r.views {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range idle {
		v.Close()
	}
	if len(idle) > 0 {
		r.log.Info("closed idle views", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps idle views periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.mu.Lock()
			now := r.now()
			r.mu.Unlock()
			r.Sweep(now)
		}
	}
}

// CloseAll closes every view and waits for their outbound requests to return.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := make([]*View, 0, len(r.views))
	for id, e := range r.views {
		views = append(views, e.view)
		delete(r.views, id)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	for _, v := range views {
		v.Wait()
	}
}
