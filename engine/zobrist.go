package engine

import "sync"

// ZobristTable holds one random key per (cell, player) and one for the side
// to move. Tables are generated deterministically per board size.
type ZobristTable struct {
	size  int
	cells []uint64
	side  uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*ZobristTable)}

func GetZobrist(size int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	table := &ZobristTable{size: size, cells: make([]uint64, size*size*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	table.side = rng.next()
	zobristTables.tables[size] = table
	return table
}

func (z *ZobristTable) stone(row, col int, p Player) uint64 {
	idx := (row*z.size + col) * 2
	if p == PlayerO {
		idx++
	}
	return z.cells[idx]
}

// Hash keys a position: every mark plus the side to move.
func (z *ZobristTable) Hash(b Board, toMove Player) uint64 {
	var hash uint64
	size := b.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			cell := b.At(r, c)
			if cell == PlayerNone {
				continue
			}
			hash ^= z.stone(r, c, cell)
		}
	}
	if toMove == PlayerO {
		hash ^= z.side
	}
	return hash
}

// Play returns the hash after p plays m, which also hands the move over.
func (z *ZobristTable) Play(hash uint64, m Move, p Player) uint64 {
	return hash ^ z.stone(m.Row, m.Col, p) ^ z.side
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
