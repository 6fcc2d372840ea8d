package job

import (
	"sync"
)

// Store is the authoritative in-memory mapping of job ID to local job
// record. All mutation funnels through Upsert/Remove so there is a
// single choke-point for the ownership rules around audio resources.
//
// Writer discipline: only the synchronizer's run loop mutates the store.
// The read methods are safe to call from any goroutine, which is what
// the presentation layer does.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*Job),
	}
}

// Upsert inserts or replaces the record for j.ID. New jobs are appended
// to the listing order. When a replacement carries a different audio
// resource than the record it displaces, the displaced resource is
// released so it cannot leak.
func (s *Store) Upsert(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.jobs[j.ID]
	if !ok {
		s.order = append(s.order, j.ID)
	} else if prev.Audio != nil && prev.Audio != j.Audio {
		_ = prev.Audio.Release()
	}

	stored := j
	s.jobs[j.ID] = &stored
}

// Remove deletes the record for id, releasing its audio resource.
// It reports whether a record existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	if j.Audio != nil {
		_ = j.Audio.Release()
	}
	delete(s.jobs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns copies of all records in listing order.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.order))
	for _, id := range s.order {
		if j, ok := s.jobs[id]; ok {
			out = append(out, *j)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Reorder rearranges the listing order to follow ids for the records it
// names. Records absent from ids keep their current relative order and
// trail the named ones; this is how locally inserted jobs stay visible
// between submission and the first snapshot that lists them.
func (s *Store) Reorder(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.order))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.jobs[id]; ok && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range s.order {
		if !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	s.order = next
}

// Dispose releases every audio resource and clears the store. The store
// must not be used afterwards.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.Audio != nil {
			_ = j.Audio.Release()
		}
	}
	s.jobs = make(map[string]*Job)
	s.order = nil
}
