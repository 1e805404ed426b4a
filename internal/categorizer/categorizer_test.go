package categorizer

import (
	"testing"
	"time"

	"finledger/internal/cache"
	"finledger/internal/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        core.Category
	}{
		{"Uber ride downtown", core.Transportation},
		{"bought new shoes", core.Shopping},
		{"xyz unknown item", core.Other},
		{"groceries run", core.Groceries},
		{"", core.Other},
		{"   ", core.Other},
		{"Monthly RENT payment", core.Rent},
		{"electricity bill", core.Utilities},
		{"movies with friends", core.Entertainment},
		{"city buses pass", core.Transportation},
		{"taxi to airport", core.Transportation},
		{"pharmacy: painkillers", core.Health},
		{"weekend getaway", core.Entertainment},
		{"new jacket", core.Shopping},
		{"drugs", core.Health},
		{"lunch, then cinema!", core.Entertainment},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := Classify(tt.description); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestClassify_FirstDirectHitWins(t *testing.T) {
	// direct matches beat synonym matches regardless of token order
	if got := Classify("grocery delivery by car"); got != core.Transportation {
		t.Errorf("got %q, want %q", got, core.Transportation)
	}
	if got := Classify("rent and water"); got != core.Rent {
		t.Errorf("got %q, want %q", got, core.Rent)
	}
}

func TestLemma(t *testing.T) {
	l := defaultLexicon.lemmas
	tests := map[string]string{
		"shoes":     "shoe",
		"buses":     "bus",
		"groceries": "grocery",
		"clothes":   "clothes",
		"renting":   "rent",
		"bought":    "buy",
		"movies":    "movie",
		"bus":       "bus",
		"unknownly": "unknownly",
	}
	for in, want := range tests {
		if got := l.lemma(in); got != want {
			t.Errorf("lemma(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Uber-ride, Downtown!! 2x")
	want := []string{"uber", "ride", "downtown", "2x"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize = %v, want %v", got, want)
		}
	}
}

func TestCategorizer_Memoizes(t *testing.T) {
	c := New(2)
	if got := c.Classify("bus ticket"); got != core.Transportation {
		t.Fatalf("got %q", got)
	}
	c.Classify("bus ticket")
	c.Classify("movie night")
	c.Classify("hospital visit")
	if c.Cached() != 2 {
		t.Errorf("expected 2 cached descriptions, got %d", c.Cached())
	}

	off := New(0)
	if got := off.Classify("rent"); got != core.Rent {
		t.Fatalf("got %q", got)
	}
	if off.Cached() != 0 {
		t.Errorf("disabled cache should stay empty")
	}

	var nilCat *Categorizer
	if got := nilCat.Classify("fuel"); got != core.Transportation {
		t.Errorf("nil categorizer should still classify, got %q", got)
	}
}

func TestCategorizer_SharedCache(t *testing.T) {
	memo := cache.NewLRUCache[core.Category](8, time.Hour)
	memo.Set("mystery", core.Health)

	c := NewWithCache(memo)
	if got := c.Classify("mystery"); got != core.Health {
		t.Errorf("memoized result ignored, got %q", got)
	}
	c.Classify("fuel")
	if memo.Size() != 2 {
		t.Errorf("expected 2 entries in the shared cache, got %d", memo.Size())
	}
}
