package rmmap

import (
	"context"
	"fmt"
	"sync"
)

// Loader fetches and parses one map in the background. The game loop never
// blocks on it: it calls Poll once per frame until the map is ready or failed.
type Loader struct {
	mapID   int
	fetcher Fetcher

	once sync.Once
	mu   sync.Mutex
	done bool
	m    *Map
	err  error
}

// NewLoader creates a loader for mapID. Nothing is fetched until Start.
func NewLoader(mapID int, fetcher Fetcher) *Loader {
	return &Loader{mapID: mapID, fetcher: fetcher}
}

// MapID returns the map this loader fetches.
func (l *Loader) MapID() int {
	return l.mapID
}

// Start issues the fetch. Calling Start more than once has no effect; a started
// fetch runs to completion or failure.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	var (
		m   *Map
		err error
	)
	data, ferr := l.fetcher.Fetch(ctx, l.mapID)
	if ferr != nil {
		err = fmt.Errorf("load map %d: %w", l.mapID, ferr)
	} else if m, err = Parse(l.mapID, data); err != nil {
		err = fmt.Errorf("load map %d: %w", l.mapID, err)
	}

	l.mu.Lock()
	l.done = true
	l.m = m
	l.err = err
	l.mu.Unlock()
}

// Poll reports whether the map has arrived. A non-nil error means the load
// failed and will never succeed.
func (l *Loader) Poll() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	return l.done, nil
}

// Map returns the parsed map, or nil while loading or after a failure.
func (l *Loader) Map() *Map {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m
}

// LoaderSet polls a group of loaders together.
type LoaderSet struct {
	loaders []*Loader
}

// Add appends a loader to the set.
func (s *LoaderSet) Add(l *Loader) {
	s.loaders = append(s.loaders, l)
}

// Len returns the number of loaders.
func (s *LoaderSet) Len() int {
	return len(s.loaders)
}

// Start starts every loader.
func (s *LoaderSet) Start(ctx context.Context) {
	for _, l := range s.loaders {
		l.Start(ctx)
	}
}

// Poll returns the number of finished loaders and the first failure.
func (s *LoaderSet) Poll() (ready int, err error) {
	for _, l := range s.loaders {
		ok, lerr := l.Poll()
		if lerr != nil {
			return ready, lerr
		}
		if ok {
			ready++
		}
	}
	return ready, nil
}

// Done reports whether every loader finished successfully.
func (s *LoaderSet) Done() (bool, error) {
	ready, err := s.Poll()
	if err != nil {
		return false, err
	}
	return ready == len(s.loaders), nil
}
