package feed

import (
	"context"
	"sync"

	"github.com/gamma-omg/backtester/internal/market"
)

// MemorySource serves a bar sequence held in memory. Readers get a
// copy, so a concurrent Update cannot mutate a sequence already handed
// to an engine.
type MemorySource struct {
	bars []market.Bar
	mu   sync.RWMutex
}

func NewMemorySource(bars ...market.Bar) *MemorySource {
	return &MemorySource{bars: bars}
}

func (s *MemorySource) Update(bars []market.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bars = bars
}

func (s *MemorySource) Bars(_ context.Context) ([]market.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars := make([]market.Bar, len(s.bars))
	copy(bars, s.bars)
	return bars, nil
}
