package generator

import (
	"math/rand"
	"testing"
)

func TestCandidatesUniqueIDs(t *testing.T) {
	g := New(Options{Level: 3, Seed: 7})
	seen := make(map[string]bool)
	for round := 0; round < 10; round++ {
		for _, b := range g.Candidates(3) {
			if seen[b.ID] {
				t.Fatalf("duplicate block id %s", b.ID)
			}
			seen[b.ID] = true
		}
	}
	if len(seen) != 30 {
		t.Errorf("got %d ids, want 30", len(seen))
	}
}

func TestCandidatesCount(t *testing.T) {
	g := New(Options{Seed: 1})
	tests := []struct {
		in, want int
	}{
		{3, 3},
		{1, 1},
		{5, 5},
		{0, DefaultCandidates},
	}
	for _, tc := range tests {
		if got := len(g.Candidates(tc.in)); got != tc.want {
			t.Errorf("Candidates(%d) len = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSetLevelCapsRarity(t *testing.T) {
	g := New(Options{Rand: rand.New(rand.NewSource(99))})
	if g.Level() != 1 {
		t.Fatalf("default Level() = %d, want 1", g.Level())
	}

	g.SetLevel(2)
	for i := 0; i < 100; i++ {
		b := g.Generate()
		if b.Shape.Rarity > 2 {
			t.Fatalf("rarity %d exceeds level 2 (%s)", b.Shape.Rarity, b.Shape.ID)
		}
	}
}

func TestSameSeedSameShapes(t *testing.T) {
	a := New(Options{Level: 6, Seed: 1234})
	b := New(Options{Level: 6, Seed: 1234})
	for i := 0; i < 50; i++ {
		if sa, sb := a.Generate().Shape.ID, b.Generate().Shape.ID; sa != sb {
			t.Fatalf("draw %d: %s != %s", i, sa, sb)
		}
	}
}
