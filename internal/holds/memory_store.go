package holds

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-process hold map. A single coarse lock is enough:
// holds are advisory and low-stakes, losing a race here only degrades UX.
type MemoryStore struct {
	mu    sync.Mutex
	holds map[uuid.UUID]map[string]Hold

	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		holds: make(map[uuid.UUID]map[string]Hold),
		now:   time.Now,
	}
}

func (m *MemoryStore) Place(_ context.Context, showingID uuid.UUID, seatID, holderID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	seats := m.holds[showingID]
	if seats == nil {
		seats = make(map[string]Hold)
		m.holds[showingID] = seats
	}

	if existing, ok := seats[seatID]; ok && !existing.Expired(now) && existing.HolderID != holderID {
		return ErrAlreadyHeld
	}

	seats[seatID] = Hold{
		SeatID:    seatID,
		HolderID:  holderID,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

func (m *MemoryStore) Release(_ context.Context, showingID uuid.UUID, seatID, holderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seats := m.holds[showingID]
	existing, ok := seats[seatID]
	if !ok || existing.HolderID != holderID {
		return false, nil
	}
	delete(seats, seatID)
	return true, nil
}

func (m *MemoryStore) ReleaseAll(_ context.Context, showingID uuid.UUID, holderID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for seatID, hold := range m.holds[showingID] {
		if hold.HolderID == holderID {
			delete(m.holds[showingID], seatID)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) RemoveSeats(_ context.Context, showingID uuid.UUID, seats []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, seatID := range seats {
		if _, ok := m.holds[showingID][seatID]; ok {
			delete(m.holds[showingID], seatID)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) List(_ context.Context, showingID uuid.UUID) ([]Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	result := make([]Hold, 0, len(m.holds[showingID]))
	for _, hold := range m.holds[showingID] {
		if !hold.Expired(now) {
			result = append(result, hold)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SeatID < result[j].SeatID })
	return result, nil
}

func (m *MemoryStore) Prune(_ context.Context, showingID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	changed := false
	for seatID, hold := range m.holds[showingID] {
		if hold.Expired(now) {
			delete(m.holds[showingID], seatID)
			changed = true
		}
	}
	if len(m.holds[showingID]) == 0 {
		delete(m.holds, showingID)
	}
	return changed, nil
}

func (m *MemoryStore) ActiveShowings(_ context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(m.holds))
	for id, seats := range m.holds {
		if len(seats) > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
