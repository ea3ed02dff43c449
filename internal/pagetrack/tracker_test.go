package pagetrack_test

import (
	"testing"

	"github.com/blackwell-systems/mediadesk/internal/pagetrack"
)

func TestNext_Increasing(t *testing.T) {
	tr := pagetrack.New(10)
	for want := 1; want <= 3; want++ {
		got, ok := tr.Next()
		if !ok || got != want {
			t.Errorf("Next() = %d, %v; want %d, true", got, ok, want)
		}
	}
}

func TestRemove_ReissuesPage(t *testing.T) {
	tr := pagetrack.New(10)
	p1, _ := tr.Next()
	p2, _ := tr.Next()
	tr.Remove(p1)

	got, _ := tr.Next()
	if got != p1 {
		t.Errorf("Next() after Remove(%d) = %d, want %d", p1, got, p1)
	}
	got, _ = tr.Next()
	if got != p2+1 {
		t.Errorf("Next() = %d, want %d", got, p2+1)
	}
}

func TestRemove_LowestFirst(t *testing.T) {
	tr := pagetrack.New(10)
	for i := 0; i < 4; i++ {
		tr.Next()
	}
	tr.Remove(3)
	tr.Remove(2)

	a, _ := tr.Next()
	b, _ := tr.Next()
	if a != 2 || b != 3 {
		t.Errorf("released pages reissued as %d, %d; want 2, 3", a, b)
	}
}

func TestRemove_IgnoresUnissuedAndDuplicates(t *testing.T) {
	tr := pagetrack.New(10)
	tr.Next()
	tr.Remove(5)
	tr.Remove(1)
	tr.Remove(1)

	if got := tr.Issued(); got != 0 {
		t.Errorf("Issued() = %d, want 0", got)
	}
	a, _ := tr.Next()
	b, _ := tr.Next()
	if a != 1 || b != 2 {
		t.Errorf("Next() sequence = %d, %d; want 1, 2", a, b)
	}
}

func TestNext_Exhausted(t *testing.T) {
	tr := pagetrack.New(2)
	tr.Next()
	tr.Next()
	if _, ok := tr.Next(); ok {
		t.Error("Next() ok = true after max pages issued")
	}
	tr.Remove(2)
	if got, ok := tr.Next(); !ok || got != 2 {
		t.Errorf("Next() after release = %d, %v; want 2, true", got, ok)
	}
}

func TestNew_DefaultMax(t *testing.T) {
	tr := pagetrack.New(0)
	n := 0
	for {
		if _, ok := tr.Next(); !ok {
			break
		}
		n++
	}
	if n != pagetrack.DefaultMax {
		t.Errorf("issued %d pages, want %d", n, pagetrack.DefaultMax)
	}
}
