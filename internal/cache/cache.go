package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// * Memory is a grow-only blob line-count arena. Content addressing means an
// * entry never needs invalidation.
type Memory struct {
	mu    sync.RWMutex
	lines map[string]int
}

func NewMemory() *Memory {
	return &Memory{lines: make(map[string]int)}
}

func (m *Memory) Get(_ context.Context, sha string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.lines[sha]
	return n, ok
}

func (m *Memory) Add(_ context.Context, sha string, lines int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[sha] = lines
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

// * LRU bounds memory for long-running processes. An evicted blob is simply
// * fetched again; its count cannot differ.
type LRU struct {
	lru *lru.Cache[string, int]
}

func NewLRU(size int) (*LRU, error) {
	l, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &LRU{lru: l}, nil
}

func (c *LRU) Get(_ context.Context, sha string) (int, bool) {
	return c.lru.Get(sha)
}

func (c *LRU) Add(_ context.Context, sha string, lines int) {
	c.lru.Add(sha, lines)
}

func (c *LRU) Len() int {
	return c.lru.Len()
}

// * Store is the blob line-count cache contract shared by every tier
type Store interface {
	Get(ctx context.Context, sha string) (int, bool)
	Add(ctx context.Context, sha string, lines int)
}

// * New picks the in-process tier: unbounded when size <= 0, LRU otherwise
func New(size int) (Store, error) {
	if size <= 0 {
		return NewMemory(), nil
	}
	return NewLRU(size)
}
