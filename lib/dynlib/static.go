package dynlib

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Static serves libraries that are compiled into the host binary. Each Add
// registers a symbol table under a pseudo path; Open hands out a fresh
// Library for it. Static counts opens and closes per path.
type Static struct {
	mu      sync.RWMutex
	symbols map[string]map[string]Symbol
	opens   map[string]int
	closes  map[string]int
}

// NewStatic creates an empty static backend.
func NewStatic() *Static {
	return &Static{
		symbols: make(map[string]map[string]Symbol),
		opens:   make(map[string]int),
		closes:  make(map[string]int),
	}
}

// Add registers the symbols served for path, replacing any previous table.
func (s *Static) Add(path string, symbols map[string]Symbol) {
	table := make(map[string]Symbol, len(symbols))
	for name, sym := range symbols {
		table[name] = sym
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[path] = table
}

// Remove unregisters path. Libraries already opened keep their symbols.
func (s *Static) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.symbols, path)
}

// Paths returns the registered paths in sorted order.
func (s *Static) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.symbols))
	for p := range s.symbols {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Open implements Opener interface
func (s *Static) Open(path string) (Library, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.symbols[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	s.opens[path]++

	return &staticLibrary{owner: s, path: path, symbols: table}, nil
}

// Opens reports how many times path was opened.
func (s *Static) Opens(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opens[path]
}

// Closes reports how many opened libraries for path were closed.
func (s *Static) Closes(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closes[path]
}

type staticLibrary struct {
	owner   *Static
	path    string
	symbols map[string]Symbol
	closed  atomic.Bool
}

func (l *staticLibrary) Path() string {
	return l.path
}

func (l *staticLibrary) Lookup(name string) (Symbol, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	sym, ok := l.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.path)
	}
	return sym, nil
}

func (l *staticLibrary) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	l.owner.mu.Lock()
	defer l.owner.mu.Unlock()
	l.owner.closes[l.path]++
	return nil
}
