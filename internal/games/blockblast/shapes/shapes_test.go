package shapes

import (
	"math/rand"
	"testing"
)

func TestCatalogIntegrity(t *testing.T) {
	if Count() != 34 {
		t.Fatalf("Count() = %d, want 34", Count())
	}
	for _, s := range All() {
		if !s.Pattern.Valid() {
			t.Errorf("shape %q has invalid pattern", s.ID)
		}
		if s.Rarity < 1 || s.Rarity > MaxRarity {
			t.Errorf("shape %q rarity = %d, want 1..%d", s.ID, s.Rarity, MaxRarity)
		}
	}
}

func TestByID(t *testing.T) {
	s, ok := ByID("square3")
	if !ok {
		t.Fatal("ByID(square3) not found")
	}
	if s.Pattern.Count() != 9 || s.Rotatable {
		t.Errorf("square3 = %+v, want 9 cells, not rotatable", s)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID(nope) should not be found")
	}
}

func TestByDifficulty(t *testing.T) {
	tests := []struct {
		level   int
		maxRare int
		count   int
	}{
		{0, 1, 1},
		{1, 1, 3},
		{2, 2, 7},
		{3, 3, 14},
		{4, 4, 27},
		{5, 5, 33},
		{6, 6, 34},
		{12, 6, 34},
	}

	for _, tc := range tests {
		got := ByDifficulty(tc.level)
		if len(got) != tc.count {
			t.Errorf("ByDifficulty(%d) len = %d, want %d", tc.level, len(got), tc.count)
		}
		for _, s := range got {
			if s.Rarity > tc.maxRare {
				t.Errorf("ByDifficulty(%d) contains %q with rarity %d", tc.level, s.ID, s.Rarity)
			}
		}
	}

	if got := ByDifficulty(-3); len(got) != 1 || got[0].ID != "single" {
		t.Errorf("ByDifficulty(-3) = %v, want only single", got)
	}
}

func TestWeight(t *testing.T) {
	single, _ := ByID("single")
	line5, _ := ByID("line5")
	square, _ := ByID("square3")
	mega, _ := ByID("mega_cross")

	tests := []struct {
		name  string
		shape *Shape
		level int
		want  int
	}{
		{"common at tier 1", single, 1, 7},
		{"common at tier 3", single, 3, 8},
		{"rarity 4 at tier 3", line5, 3, 5},
		{"rarity 5 at tier 3 loses weight", square, 3, 3},
		{"rarity 4 at tier 4", line5, 4, 8},
		{"rarity 5 at tier 5", square, 5, 10},
		{"rarity 6 at tier 6", mega, 6, 15},
		{"rarity 5 at tier 6 gets flat bonus", square, 6, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Weight(tc.shape, tc.level); got != tc.want {
				t.Errorf("Weight(%s, %d) = %d, want %d", tc.shape.ID, tc.level, got, tc.want)
			}
		})
	}
}

func TestRandomDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		sa := Random(4, a)
		sb := Random(4, b)
		if sa.ID != sb.ID {
			t.Fatalf("draw %d: %s != %s", i, sa.ID, sb.ID)
		}
		if sa.Rarity > 4 {
			t.Fatalf("draw %d: rarity %d exceeds tier 4", i, sa.Rarity)
		}
	}
}

func TestRandomTierZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		if s := Random(0, rng); s.ID != "single" {
			t.Fatalf("Random(0) = %s, want single", s.ID)
		}
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name string
		in   Pattern
		want Pattern
	}{
		{"single", Pattern{{1}}, Pattern{{1}}},
		{"horizontal line", Pattern{{1, 1, 1}}, Pattern{{1}, {1}, {1}}},
		{"vertical line", Pattern{{1}, {1}}, Pattern{{1, 1}}},
		{"L", Pattern{{1, 0, 0}, {1, 1, 1}}, Pattern{{1, 1}, {1, 0}, {1, 0}}},
		{"T", Pattern{{0, 1, 0}, {1, 1, 1}}, Pattern{{1, 0}, {1, 1}, {1, 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orig := tc.in.Clone()
			got := Rotate(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("Rotate(%v) = %v, want %v", tc.in, got, tc.want)
			}
			if !tc.in.Equal(orig) {
				t.Error("Rotate modified its input")
			}
		})
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, s := range All() {
		p := s.Pattern
		for i := 0; i < 4; i++ {
			p = Rotate(p)
		}
		if !p.Equal(s.Pattern) {
			t.Errorf("%s: four rotations = %v, want %v", s.ID, p, s.Pattern)
		}
	}
}

func TestRotations(t *testing.T) {
	o, _ := ByID("o_piece")
	if got := len(Rotations(o.Pattern)); got != 1 {
		t.Errorf("Rotations(o_piece) = %d, want 1", got)
	}
	l, _ := ByID("l_piece")
	if got := len(Rotations(l.Pattern)); got != 4 {
		t.Errorf("Rotations(l_piece) = %d, want 4", got)
	}
	line, _ := ByID("line3h")
	if got := len(Rotations(line.Pattern)); got != 2 {
		t.Errorf("Rotations(line3h) = %d, want 2", got)
	}
}

func TestBounds(t *testing.T) {
	hook, _ := ByID("hook_5")
	w, h := Bounds(hook.Pattern)
	if w != 4 || h != 3 {
		t.Errorf("Bounds(hook_5) = (%d, %d), want (4, 3)", w, h)
	}
}
