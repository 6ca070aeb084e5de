package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDv7_Format(t *testing.T) {
	id := UUIDv7()()
	u, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("UUIDv7: %q does not parse: %v", id, err)
	}
	if u.Version() != 7 {
		t.Fatalf("UUIDv7: version = %d", u.Version())
	}
}

func TestUUIDv7_Uniqueness(t *testing.T) {
	gen := UUIDv7()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id := gen()
		if _, ok := seen[id]; ok {
			t.Fatalf("UUIDv7: duplicate at iteration %d", i)
		}
		seen[id] = struct{}{}
	}
}

func TestPrefixed(t *testing.T) {
	id := Prefixed("imp_", Default)()
	if !strings.HasPrefix(id, "imp_") {
		t.Fatalf("Prefixed: got %q", id)
	}
	if len(id) != len("imp_")+36 {
		t.Fatalf("Prefixed: unexpected length %d", len(id))
	}
}

func TestCounter(t *testing.T) {
	gen := Counter("imp_")
	for _, want := range []string{"imp_1", "imp_2", "imp_3"} {
		if got := gen(); got != want {
			t.Fatalf("Counter: got %q, want %q", got, want)
		}
	}
}
