package engine

import (
	"sync"
	"testing"
)

func TestTTConcurrentProbeStore(t *testing.T) {
	tt := NewTranspositionTable(1<<12, 2)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := splitmix64{state: seed}
			for i := 0; i < 4000; i++ {
				key := rng.next()
				depth := (i % 8) + 1
				move := Move{Row: i % 25, Col: (i / 25) % 25}
				tt.Store(key, depth, i, TTExact, move)
				tt.Probe(key)
				tt.Probe(key ^ 0x9e3779b97f4a7c15)
			}
		}(uint64(g + 1))
	}

	wg.Wait()
	if validEntries(tt) == 0 {
		t.Fatalf("expected TT to contain entries after concurrent traffic")
	}
}

func TestTTGenerationWrapStaysNonZero(t *testing.T) {
	tt := NewTranspositionTable(16, 1)
	tt.gen.Store(^uint32(0))
	tt.NextGeneration()
	if got := tt.Generation(); got == 0 {
		t.Fatalf("generation must never be zero")
	}
}

func TestTTKeepsDeeperEntry(t *testing.T) {
	tt := NewTranspositionTable(4, 1)
	key := uint64(0x1234)
	if !tt.Store(key, 4, 10, TTExact, Move{Row: 1, Col: 1}) {
		t.Fatalf("expected first store to succeed")
	}
	if tt.Store(key, 2, 99, TTExact, Move{Row: 2, Col: 2}) {
		t.Fatalf("shallower entry must not replace a deeper one")
	}
	entry, ok := tt.Probe(key)
	if !ok || entry.Depth != 4 || entry.Score != 10 {
		t.Fatalf("unexpected entry %+v ok=%v", entry, ok)
	}
}

func validEntries(tt *TranspositionTable) int {
	n := 0
	for _, entry := range tt.entries {
		if entry.Valid {
			n++
		}
	}
	return n
}

func TestTTRoundsSizeUpToPowerOfTwo(t *testing.T) {
	tt := NewTranspositionTable(100, 2)
	if tt.mask != 127 || len(tt.entries) != 256 {
		t.Fatalf("expected 128 slots of 2, got mask=%d entries=%d", tt.mask, len(tt.entries))
	}
	if len(tt.stripeLocks) != 64 {
		t.Fatalf("expected 64 stripes, got %d", len(tt.stripeLocks))
	}
}
