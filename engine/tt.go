package engine

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"
)

type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLower
	TTUpper
)

const ttVeryOldGenerations = 8

type TTEntry struct {
	Key         uint64
	Depth       int
	Score       int32
	Flag        TTFlag
	BestMove    Move
	Hits        uint32
	GenWritten  uint32
	GenLastUsed uint32
	Valid       bool
}

// TranspositionTable is a set-associative cache of searched positions keyed
// by Zobrist hash. Buckets are guarded by striped locks so one table can be
// shared by searchers running on different goroutines.
type TranspositionTable struct {
	mask        uint64
	buckets     int
	entries     []TTEntry
	stripeLocks []sync.Mutex
	stripeMask  uint64
	gen         atomic.Uint32
}

// NewTranspositionTable allocates size slots (rounded up to a power of two)
// of buckets entries each.
func NewTranspositionTable(size uint64, buckets int) *TranspositionTable {
	if buckets <= 0 {
		buckets = 2
	}
	if size < 2 {
		size = 1
	} else {
		size = 1 << bits.Len64(size-1)
	}
	stripes := min(size, 64)
	tt := &TranspositionTable{
		mask:        size - 1,
		buckets:     buckets,
		entries:     make([]TTEntry, int(size)*buckets),
		stripeLocks: make([]sync.Mutex, stripes),
		stripeMask:  stripes - 1,
	}
	tt.gen.Store(1)
	return tt
}

// NextGeneration ages every entry by one search. Generation zero is reserved.
func (tt *TranspositionTable) NextGeneration() {
	if tt.gen.Add(1) == 0 {
		tt.gen.CompareAndSwap(0, 1)
	}
}

func (tt *TranspositionTable) Generation() uint32 {
	return max(tt.gen.Load(), 1)
}

func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	mu := tt.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	bucket := tt.bucket(key)
	for i := range bucket {
		if bucket[i].Valid && bucket[i].Key == key {
			bucket[i].Hits++
			bucket[i].GenLastUsed = tt.Generation()
			return bucket[i], true
		}
	}
	return TTEntry{}, false
}

// Store writes an entry, preferring in order: the same key, an empty slot,
// then the weakest replaceable entry of the bucket. It reports whether an
// entry was written.
func (tt *TranspositionTable) Store(key uint64, depth int, score int, flag TTFlag, best Move) bool {
	mu := tt.stripe(key)
	mu.Lock()
	defer mu.Unlock()
	gen := tt.Generation()
	bucket := tt.bucket(key)
	slot := victimSlot(bucket, key, depth, flag, gen)
	if slot < 0 {
		return false
	}
	bucket[slot] = TTEntry{
		Key:         key,
		Depth:       depth,
		Score:       scoreToTT(score),
		Flag:        flag,
		BestMove:    best,
		GenWritten:  gen,
		GenLastUsed: gen,
		Valid:       true,
	}
	return true
}

// victimSlot picks the slot of bucket a new entry for key goes to, or -1
// when every slot holds something more valuable.
func victimSlot(bucket []TTEntry, key uint64, depth int, flag TTFlag, gen uint32) int {
	for i, entry := range bucket {
		if entry.Valid && entry.Key == key {
			if replacementClass(entry, depth, flag, gen) == 0 {
				return -1
			}
			return i
		}
	}
	for i, entry := range bucket {
		if !entry.Valid {
			return i
		}
	}
	victim, victimClass, victimAge := -1, 0, uint32(0)
	for i, entry := range bucket {
		class := replacementClass(entry, depth, flag, gen)
		if class == 0 {
			continue
		}
		if age := entryAge(gen, entry); victim < 0 || class < victimClass || (class == victimClass && age > victimAge) {
			victim, victimClass, victimAge = i, class, age
		}
	}
	return victim
}

func (tt *TranspositionTable) bucket(key uint64) []TTEntry {
	start := int(key&tt.mask) * tt.buckets
	return tt.entries[start : start+tt.buckets]
}

func (tt *TranspositionTable) stripe(key uint64) *sync.Mutex {
	return &tt.stripeLocks[key&tt.mask&tt.stripeMask]
}

func replacementClass(entry TTEntry, depth int, flag TTFlag, gen uint32) int {
	if depth > entry.Depth {
		return 1
	}
	if depth == entry.Depth && flag == TTExact && entry.Flag != TTExact {
		return 2
	}
	if depth == entry.Depth && flag == entry.Flag && entryAge(gen, entry) >= ttVeryOldGenerations {
		return 3
	}
	return 0
}

func entryAge(gen uint32, entry TTEntry) uint32 {
	last := entry.GenLastUsed
	if last == 0 {
		last = entry.GenWritten
	}
	return gen - last
}

func scoreToTT(value int) int32 {
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	if value < math.MinInt32 {
		return math.MinInt32
	}
	return int32(value)
}
