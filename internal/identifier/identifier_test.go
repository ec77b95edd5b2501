package identifier

import (
	"strings"
	"sync"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := g.NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDSortsByCreationOrder(t *testing.T) {
	g := NewGenerator()

	prev := g.NewID()
	for i := 0; i < 1000; i++ {
		next := g.NewID()
		if next <= prev {
			t.Fatalf("ids not monotonically increasing: %s followed by %s", prev, next)
		}
		prev = next
	}
}

func TestNewIDURLSafe(t *testing.T) {
	g := NewGenerator()

	const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	id := g.NewID()

	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d characters: %s", len(id), id)
	}
	for _, c := range id {
		if !strings.ContainsRune(crockford, c) {
			t.Fatalf("id %s contains unexpected character %q", id, c)
		}
	}
}

func TestNewIDConcurrent(t *testing.T) {
	g := NewGenerator()

	const workers = 8
	const perWorker = 500

	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- g.NewID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id under concurrency: %s", id)
		}
		seen[id] = true
	}
}
