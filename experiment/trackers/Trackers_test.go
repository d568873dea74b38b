package trackers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/store"
)

func result(n, q, h int) episode.Result {
	return episode.Result{
		RunID:          "run",
		Number:         n,
		QLearningScore: q,
		HeuristicScore: h,
		Winner:         episode.Decide(q, h),
		Epsilon:        0.5,
		Timestamp:      time.Date(2024, 5, 1, 12, 0, n, 0, time.UTC),
	}
}

func TestCSVAppendsWithSingleHeader(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "results.csv")

	for run := 0; run < 2; run++ {
		c, err := NewCSV(filename)
		if err != nil {
			t.Fatalf("newCSV: %v", err)
		}
		for i := 1; i <= 3; i++ {
			if err := c.Track(result(i, 100, 50)); err != nil {
				t.Fatalf("track: %v", err)
			}
		}
		if err := c.Save(); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("rows: want(7) have(%v)", len(rows))
	}
	if rows[0][0] != Header[0] || rows[1][0] == Header[0] {
		t.Fatalf("header should only be written once")
	}
	if rows[1][4] != "QLearning" || rows[1][2] != "100" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestSummaryStandings(t *testing.T) {
	s := NewSummary(nil, 10, 2)
	for i, scores := range [][2]int{{10, 0}, {0, 10}, {5, 5}, {30, 20}} {
		if err := s.Track(result(i+1, scores[0], scores[1])); err != nil {
			t.Fatalf("track: %v", err)
		}
	}

	st := s.Standings()
	if st.Games != 4 || st.QLearningWins != 2 || st.HeuristicWins != 1 ||
		st.Draws != 1 {
		t.Fatalf("standings: have(%+v)", st)
	}
	if st.Percent(episode.QLearning) != 50 {
		t.Fatalf("win percentage: want(50) have(%v)",
			st.Percent(episode.QLearning))
	}

	q, h := s.Averages()
	if q != 17.5 || h != 12.5 {
		t.Fatalf("averages over last 2: want(17.5, 12.5) have(%v, %v)", q, h)
	}
}

func TestScoresRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "scores.bin")
	s := NewScores(filename)
	for i := 1; i <= 4; i++ {
		_ = s.Track(result(i, i*10, 5))
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := LoadScores(filename)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.QLearning) != 4 || data.QLearning[3] != 40 ||
		data.Heuristic[0] != 5 {
		t.Fatalf("loaded scores: have(%+v)", data)
	}
}

func TestChartSavesPNG(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "scores.png")
	c := NewChart(filename, 3)
	for i := 1; i <= 20; i++ {
		_ = c.Track(result(i, i*7%50, i*3%40))
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil || info.Size() == 0 {
		t.Fatalf("chart not written: %v", err)
	}

	// An empty chart still renders
	if err := NewChart(filepath.Join(t.TempDir(), "empty.png"), 3).Save(); err != nil {
		t.Fatalf("save empty chart: %v", err)
	}
}

func TestStoreForwards(t *testing.T) {
	s := store.NewMemoryStore()
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	tr := NewStore(s, time.Second)
	for i := 1; i <= 3; i++ {
		if err := tr.Track(result(i, 1, 2)); err != nil {
			t.Fatalf("track: %v", err)
		}
	}

	stored, err := s.List(context.Background(), "run", 0)
	if err != nil || len(stored) != 3 {
		t.Fatalf("stored results: have(%v, %v)", len(stored), err)
	}
}

type fakeChannel struct {
	keys []string
	msgs []amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string,
	_, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "episodes", time.Second)

	if err := p.Track(result(7, 300, 150)); err != nil {
		t.Fatalf("track: %v", err)
	}
	if len(ch.msgs) != 1 || ch.keys[0] != "episodes" {
		t.Fatalf("published: have(%v)", ch.keys)
	}

	var decoded episode.Result
	if err := json.Unmarshal(ch.msgs[0].Body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Number != 7 || decoded.Winner != episode.QLearning {
		t.Fatalf("decoded: have(%+v)", decoded)
	}
	if ch.msgs[0].ContentType != "application/json" {
		t.Fatalf("content type: have(%v)", ch.msgs[0].ContentType)
	}
}
