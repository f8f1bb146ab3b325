package engine

import (
	"errors"
	"testing"
)

func newTestBoard(t *testing.T, size int) Board {
	t.Helper()
	b, err := NewBoard(size)
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	return b
}

func setRow(b *Board, row, fromCol, toCol int, p Player) {
	for c := fromCol; c <= toCol; c++ {
		b.Set(row, c, p)
	}
}

func TestNewBoardRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, 4, MaxBoardSize + 1} {
		_, err := NewBoard(size)
		var sizeErr *BoardSizeError
		if !errors.As(err, &sizeErr) {
			t.Fatalf("size %d: expected BoardSizeError, got %v", size, err)
		}
		if sizeErr.Size != size {
			t.Fatalf("size %d: error carries size %d", size, sizeErr.Size)
		}
	}
}

func TestParseBoardRejectsRaggedRows(t *testing.T) {
	_, err := ParseBoard([]string{
		".....",
		".....",
		"....",
		".....",
		".....",
	})
	var shapeErr *BoardShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected BoardShapeError, got %v", err)
	}
	if shapeErr.Row != 2 {
		t.Fatalf("expected row 2 to be reported, got %d", shapeErr.Row)
	}
}

func TestParseBoardRoundTripsRows(t *testing.T) {
	rows := []string{
		"X....",
		".O...",
		"..X..",
		".....",
		"....O",
	}
	b, err := ParseBoard(rows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.At(1, 1) != PlayerO || b.At(2, 2) != PlayerX {
		t.Fatalf("unexpected cells: %s", b)
	}
	got := b.Rows()
	for i := range rows {
		if got[i] != rows[i] {
			t.Fatalf("row %d: got %q want %q", i, got[i], rows[i])
		}
	}
}

func TestPlaceValidatesMoves(t *testing.T) {
	b := newTestBoard(t, 9)
	if err := b.Place(4, 4, PlayerX); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := b.Place(4, 4, PlayerO); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied, got %v", err)
	}
	if err := b.Place(9, 0, PlayerO); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := b.Place(0, 0, PlayerNone); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("expected ErrInvalidPlayer, got %v", err)
	}
	b.Remove(4, 4)
	if !b.IsEmpty(4, 4) {
		t.Fatalf("expected undo to clear the cell")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBoard(t, 7)
	b.Set(3, 3, PlayerX)
	clone := b.Clone()
	clone.Set(0, 0, PlayerO)
	if b.At(0, 0) != PlayerNone {
		t.Fatalf("clone write leaked into original")
	}
	if !clone.Equal(clone.Clone()) || b.Equal(clone) {
		t.Fatalf("unexpected equality results")
	}
}

func TestSwappedExchangesMarks(t *testing.T) {
	b := newTestBoard(t, 5)
	b.Set(0, 0, PlayerX)
	b.Set(1, 1, PlayerO)
	swapped := b.Swapped()
	if swapped.At(0, 0) != PlayerO || swapped.At(1, 1) != PlayerX || swapped.At(2, 2) != PlayerNone {
		t.Fatalf("unexpected swapped board:\n%s", swapped)
	}
	if b.At(0, 0) != PlayerX {
		t.Fatalf("swap modified the original board")
	}
}
