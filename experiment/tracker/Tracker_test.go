package tracker

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/ropeduel/episode"
)

type numbers struct {
	seen  []int
	saved bool
}

func (n *numbers) Track(r episode.Result) error {
	n.seen = append(n.seen, r.Number)
	return nil
}

func (n *numbers) Save() error {
	n.saved = true
	return nil
}

func TestEvery(t *testing.T) {
	inner := &numbers{}
	tr := Every(inner, 3)
	for i := 1; i <= 10; i++ {
		if err := tr.Track(episode.Result{Number: i}); err != nil {
			t.Fatalf("track: %v", err)
		}
	}
	if err := tr.Save(); err != nil || !inner.saved {
		t.Fatalf("save was not forwarded: %v", err)
	}

	want := []int{3, 6, 9}
	if len(inner.seen) != len(want) {
		t.Fatalf("tracked: want(%v) have(%v)", want, inner.seen)
	}
	for i := range want {
		if inner.seen[i] != want[i] {
			t.Fatalf("tracked: want(%v) have(%v)", want, inner.seen)
		}
	}

	if Every(inner, 1) != Tracker(inner) {
		t.Fatalf("an interval of 1 should not wrap the tracker")
	}
}

func TestLoadData(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data.bin")
	file, err := os.Create(filename)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := gob.NewEncoder(file).Encode([]float64{1, 2, 3}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	file.Close()

	data, err := LoadData[[]float64](filename)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if len(data) != 3 || data[2] != 3 {
		t.Fatalf("loaded: have(%v)", data)
	}

	if _, err := LoadData[[]float64](filename + ".missing"); err == nil {
		t.Fatalf("missing file should not load")
	}
}
