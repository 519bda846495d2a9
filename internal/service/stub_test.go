package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"

	"github.com/google/uuid"
)

// ── In-memory store shared by the trip and pallet stubs ──────────────────────

type memStore struct {
	mu      sync.Mutex
	trips   map[uuid.UUID]*model.Trip
	pallets map[uuid.UUID]*model.Pallet
	seq     int

	// staleOpenReads makes the next N FindOpenByDate calls miss, as if another
	// caller inserted the trip between our read and our write.
	staleOpenReads int
	creates        int

	// afterList runs once the pallet rows are read, outside the lock, so a
	// test can land a write between a board's store read and its cache fill.
	afterList func()
}

func newMemStore() *memStore {
	return &memStore{
		trips:   make(map[uuid.UUID]*model.Trip),
		pallets: make(map[uuid.UUID]*model.Pallet),
	}
}

// tick returns strictly increasing timestamps so created_at ordering is stable.
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func (s *memStore) withTrip(p model.Pallet) model.Pallet {
	p.Trip = nil
	if p.TripID != nil {
		if t, ok := s.trips[*p.TripID]; ok {
			cp := *t
			p.Trip = &cp
		}
	}
	return p
}

type stubTripRepo struct{ s *memStore }

func (r stubTripRepo) FindOpenByDate(_ context.Context, date time.Time) (*model.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.staleOpenReads > 0 {
		r.s.staleOpenReads--
		return nil, repository.ErrNotFound
	}
	var best *model.Trip
	for _, t := range r.s.trips {
		if t.Status == model.TripOpen && t.TripDate.Equal(date) {
			if best == nil || t.CreatedAt.Before(best.CreatedAt) {
				best = t
			}
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (r stubTripRepo) Create(_ context.Context, t *model.Trip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.trips {
		if t.Status == model.TripOpen && other.Status == model.TripOpen && other.TripDate.Equal(t.TripDate) {
			return repository.ErrDuplicate
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = r.s.tick()
	cp := *t
	r.s.trips[t.ID] = &cp
	r.s.creates++
	return nil
}

func (r stubTripRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r stubTripRepo) List(_ context.Context, status model.TripStatus) ([]model.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Trip
	for _, t := range r.s.trips {
		if t.Status == status {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TripDate.Equal(out[j].TripDate) {
			return out[i].TripDate.Before(out[j].TripDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r stubTripRepo) ListRecent(_ context.Context, limit int) ([]model.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Trip
	for _, t := range r.s.trips {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r stubTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.trips, id)
	return nil
}

func (r stubTripRepo) DeleteCascade(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trips[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var n int64
	for pid, p := range r.s.pallets {
		if p.TripID != nil && *p.TripID == id {
			delete(r.s.pallets, pid)
			n++
		}
	}
	delete(r.s.trips, id)
	return n, nil
}

type stubPalletRepo struct{ s *memStore }

func (r stubPalletRepo) Create(_ context.Context, p *model.Pallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.tick()
	cp := *p
	cp.Trip = nil
	r.s.pallets[p.ID] = &cp
	return nil
}

func (r stubPalletRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := r.s.withTrip(*p)
	return &cp, nil
}

func (r stubPalletRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Pallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Pallet
	for _, id := range ids {
		if p, ok := r.s.pallets[id]; ok {
			out = append(out, r.s.withTrip(*p))
		}
	}
	return out, nil
}

func (r stubPalletRepo) List(_ context.Context, f repository.PalletFilter) ([]model.Pallet, error) {
	out, err := r.list(f)
	if hook := r.s.afterList; hook != nil {
		r.s.afterList = nil
		hook()
	}
	return out, err
}

func (r stubPalletRepo) list(f repository.PalletFilter) ([]model.Pallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Pallet
	for _, p := range r.s.pallets {
		if f.ShippingType != nil && p.ShippingType != *f.ShippingType {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Sent != nil && p.IsSent() != *f.Sent {
			continue
		}
		if f.TripID != nil && (p.TripID == nil || *p.TripID != *f.TripID) {
			continue
		}
		out = append(out, r.s.withTrip(*p))
	}
	sort.Slice(out, func(i, j int) bool {
		if f.NewestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if out[i].Client != out[j].Client {
			return out[i].Client < out[j].Client
		}
		return out[i].PalletNo < out[j].PalletNo
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r stubPalletRepo) UpdateFields(_ context.Context, p *model.Pallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pallets[p.ID]
	if !ok || cur.SentAt != nil {
		return repository.ErrNotFound
	}
	cur.BobbinsCount = p.BobbinsCount
	cur.Status = p.Status
	cur.Dimensions = p.Dimensions
	cur.TripID = p.TripID
	return nil
}

func (r stubPalletRepo) SetStatus(_ context.Context, id uuid.UUID, status model.PalletStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pallets[id]
	if !ok || cur.SentAt != nil {
		return repository.ErrNotFound
	}
	cur.Status = status
	return nil
}

func (r stubPalletRepo) AssignTrip(_ context.Context, ids []uuid.UUID, tripID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := r.s.pallets[id]; ok && p.SentAt == nil {
			tid := tripID
			p.TripID = &tid
			n++
		}
	}
	return n, nil
}

func (r stubPalletRepo) MarkSent(_ context.Context, ids []uuid.UUID, at time.Time) (repository.ShipResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out repository.ShipResult
	trips := make(map[uuid.UUID]bool)
	for _, id := range ids {
		p, ok := r.s.pallets[id]
		if !ok || p.SentAt != nil {
			continue
		}
		ts := at
		p.SentAt = &ts
		out.PalletIDs = append(out.PalletIDs, id)
		if p.TripID != nil {
			trips[*p.TripID] = true
		}
	}
	for id := range trips {
		t, ok := r.s.trips[id]
		if !ok || t.Status != model.TripOpen {
			continue
		}
		ts := at
		t.Status = model.TripShipped
		t.ShippedAt = &ts
		out.TripIDs = append(out.TripIDs, id)
	}
	return out, nil
}

func (r stubPalletRepo) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.s.pallets[id]; ok {
			delete(r.s.pallets, id)
			n++
		}
	}
	return n, nil
}

// ── Board cache stub ─────────────────────────────────────────────────────────

type stubCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[string][]byte
	invalidated int
}

func newStubCache() *stubCache { return &stubCache{entries: make(map[string][]byte)} }

func stubKey(kind string, gen int64) string { return fmt.Sprintf("%s:%d", kind, gen) }

func (c *stubCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}

func (c *stubCache) Get(_ context.Context, kind string, gen int64, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[stubKey(kind, gen)]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *stubCache) Set(_ context.Context, kind string, gen int64, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := json.Marshal(v)
	c.entries[stubKey(kind, gen)] = b
}

func (c *stubCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
}
