package cache

import (
	"sort"
	"sync"

	"github.com/skalibog/lqhunter/pkg/models"
)

// Store хранит последний снимок по каждому символу. История не
// хранится: новый снимок полностью замещает предыдущий. Хранилище
// принадлежит процессу и явно передается потребителям.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*models.Snapshot
}

// New создает пустое хранилище снимков
func New() *Store {
	return &Store{
		snapshots: make(map[string]*models.Snapshot),
	}
}

// Put сохраняет снимок символа
func (s *Store) Put(snapshot *models.Snapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	s.snapshots[snapshot.Symbol] = snapshot
	s.mu.Unlock()
}

// PutAll сохраняет набор снимков
func (s *Store) PutAll(snapshots map[string]*models.Snapshot) {
	s.mu.Lock()
	for symbol, snapshot := range snapshots {
		if snapshot != nil {
			s.snapshots[symbol] = snapshot
		}
	}
	s.mu.Unlock()
}

// Get возвращает последний снимок символа
func (s *Store) Get(symbol string) (*models.Snapshot, bool) {
	s.mu.RLock()
	snapshot, ok := s.snapshots[symbol]
	s.mu.RUnlock()
	return snapshot, ok
}

// All возвращает все снимки, упорядоченные по символу
func (s *Store) All() []*models.Snapshot {
	s.mu.RLock()
	out := make([]*models.Snapshot, 0, len(s.snapshots))
	for _, snapshot := range s.snapshots {
		out = append(out, snapshot)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Len возвращает число символов со снимками
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
