package checkpointer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samuelfneumann/ropeduel/evolution"
)

func evolvedTuner(t *testing.T) *evolution.Tuner {
	t.Helper()
	tuner, err := evolution.NewTuner(evolution.DefaultConfig(), nil, 3)
	if err != nil {
		t.Fatalf("newTuner: %v", err)
	}
	tuner.Initialize(10)
	for i := 0; i < 15; i++ {
		tuner.RecordResult(i * 20)
	}
	return tuner
}

func emptyTuner(t *testing.T) *evolution.Tuner {
	t.Helper()
	tuner, err := evolution.NewTuner(evolution.DefaultConfig(), nil, 3)
	if err != nil {
		t.Fatalf("newTuner: %v", err)
	}
	return tuner
}

func TestNEpisode(t *testing.T) {
	dir := t.TempDir()
	tuner := evolvedTuner(t)
	c := NewNEpisode(5, tuner, FileEpisode(filepath.Join(dir, "tuner"), ".bin"))

	for episode := 1; episode <= 10; episode++ {
		if err := c.Checkpoint(episode); err != nil {
			t.Fatalf("checkpoint: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("checkpoint files: want(2) have(%v)", len(entries))
	}

	restored := emptyTuner(t)
	if err := Load(filepath.Join(dir, "tuner-ep10.bin"), restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Generation() != tuner.Generation() ||
		restored.Index() != tuner.Index() {
		t.Fatalf("restored tuner: generation %v index %v",
			restored.Generation(), restored.Index())
	}
}

func TestFilenames(t *testing.T) {
	enum := FilenameEnumerator(0, "q", ".bin")
	if enum(7) != "q1.bin" || enum(8) != "q2.bin" {
		t.Fatalf("enumerated filenames out of order")
	}
	if FileLatest("q", ".bin")(3) != "q.bin" {
		t.Fatalf("latest filename should not depend on the episode")
	}
	if FileEpisode("q", ".bin")(3) != "q-ep3.bin" {
		t.Fatalf("episode filename: have(%v)", FileEpisode("q", ".bin")(3))
	}
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("ROPEDUEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ROPEDUEL_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	key := "ropeduel:test:tuner"
	defer client.Del(context.Background(), key)

	tuner := evolvedTuner(t)
	if err := NewRedis(client, key, 1, tuner, time.Second).Checkpoint(1); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	restored := emptyTuner(t)
	ok, err := NewRedis(client, key, 1, restored, time.Second).Restore(
		context.Background())
	if err != nil || !ok {
		t.Fatalf("restore: %v %v", ok, err)
	}
	if restored.Generation() != tuner.Generation() {
		t.Fatalf("restored generation: want(%v) have(%v)",
			tuner.Generation(), restored.Generation())
	}
}
