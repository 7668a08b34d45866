package room

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/playable"
)

// maxIDAttempts bounds how many random ids are tried before giving up
const maxIDAttempts = 100

// ErrSessionNotFound is returned when a session id does not resolve
var ErrSessionNotFound = fmt.Errorf("%w: session", playable.ErrNotFound)

// Repository stores the dealer of every session
type Repository interface {
	// Create allocates a new session id and stores the dealer built for it
	Create(newDealer func(id string) (*Dealer, error)) (*Dealer, error)
	Get(id string) (*Dealer, error)
	List() []*Dealer
}

// MemoryRepository keeps the dealers in memory
type MemoryRepository struct {
	lock    sync.RWMutex
	dealers map[string]*Dealer
	rng     rng.Generator
}

// NewMemoryRepository returns an empty repository
// Session ids are six digit numbers drawn from gen
func NewMemoryRepository(gen rng.Generator) *MemoryRepository {
	return &MemoryRepository{
		dealers: make(map[string]*Dealer),
		rng:     gen,
	}
}

// Create stores a new dealer under an unused id
func (m *MemoryRepository) Create(newDealer func(id string) (*Dealer, error)) (*Dealer, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for i := 0; i < maxIDAttempts; i++ {
		id := fmt.Sprintf("%06d", m.rng.Intn(1_000_000))
		if _, found := m.dealers[id]; found {
			continue
		}

		d, err := newDealer(id)
		if err != nil {
			return nil, err
		}

		m.dealers[id] = d
		return d, nil
	}

	return nil, errors.New("could not allocate a session id")
}

// Get returns the dealer of the session
func (m *MemoryRepository) Get(id string) (*Dealer, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	d, found := m.dealers[id]
	if !found {
		return nil, fmt.Errorf("%w %s", ErrSessionNotFound, id)
	}

	return d, nil
}

// List returns every dealer ordered by session id
func (m *MemoryRepository) List() []*Dealer {
	m.lock.RLock()
	dealers := make([]*Dealer, 0, len(m.dealers))
	for _, d := range m.dealers {
		dealers = append(dealers, d)
	}
	m.lock.RUnlock()

	sort.Slice(dealers, func(i, j int) bool {
		return dealers[i].ID() < dealers[j].ID()
	})

	return dealers
}
