package experiment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samuelfneumann/ropeduel/agent/heuristic"
	"github.com/samuelfneumann/ropeduel/agent/qlearning"
	"github.com/samuelfneumann/ropeduel/environment"
	"github.com/samuelfneumann/ropeduel/environment/goldmine"
	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/evolution"
)

// fakeWorld awards a single collection to the Q-learning side on the
// first step of each episode
type fakeWorld struct {
	resets int
	steps  int
	scores [goldmine.NumOwners]int
}

func (w *fakeWorld) Reset() {
	w.resets++
	w.steps = 0
	w.scores = [goldmine.NumOwners]int{}
}

func (w *fakeWorld) Step(float64) []goldmine.Collection {
	w.steps++
	if w.steps != 1 {
		return nil
	}
	w.scores[goldmine.QLearning] += 150
	w.scores[goldmine.Heuristic] += 50
	return []goldmine.Collection{
		{Owner: goldmine.QLearning, Target: environment.Target{Value: 150}},
		{Owner: goldmine.Heuristic, Target: environment.Target{Value: 50}},
	}
}

func (w *fakeWorld) Score(o goldmine.Owner) int {
	return w.scores[o]
}

// recorder records the calls made to a decision engine
type recorder struct {
	events      []string
	ticks       int
	collections []int
	finals      []int
}

func (r *recorder) OnEpisodeStart() { r.events = append(r.events, "start") }
func (r *recorder) OnTick(float64) { r.ticks++ }
func (r *recorder) OnEpisodeEnd(s int) {
	r.events = append(r.events, "end")
	r.finals = append(r.finals, s)
}
func (r *recorder) OnCollection(value int, costly bool) {
	r.collections = append(r.collections, value)
}

type countingTracker struct {
	results []episode.Result
	saved   bool
	err     error
}

func (c *countingTracker) Track(r episode.Result) error {
	c.results = append(c.results, r)
	return c.err
}

func (c *countingTracker) Save() error {
	c.saved = true
	return nil
}

type countingCheckpointer struct {
	episodes []int
}

func (c *countingCheckpointer) Checkpoint(n int) error {
	c.episodes = append(c.episodes, n)
	return errors.New("disk full")
}

func newFakeDuel(t *testing.T) (*Duel, *fakeWorld, *recorder, *recorder) {
	t.Helper()
	c := Config{RunID: "test", Duration: 1, TimeStep: 0.1}
	w := &fakeWorld{}
	q, h := &recorder{}, &recorder{}

	d, err := NewDuel(c, w, q, h, nil)
	if err != nil {
		t.Fatalf("newDuel: %v", err)
	}
	d.now = func() time.Time { return time.Unix(0, 0) }
	return d, w, q, h
}

func TestRunEpisode(t *testing.T) {
	d, w, q, h := newFakeDuel(t)
	tr := &countingTracker{err: errors.New("sink down")}
	cp := &countingCheckpointer{}
	d.Register(tr)
	d.RegisterCheckpointer(cp)

	if err := d.Run(context.Background(), 3); err != nil {
		t.Fatalf("run: %v", err)
	}

	if w.resets != 3 || d.Episode() != 3 {
		t.Fatalf("episodes: resets %v episode %v", w.resets, d.Episode())
	}
	if q.ticks != h.ticks || q.ticks < 30 {
		t.Fatalf("ticks: qlearning %v heuristic %v", q.ticks, h.ticks)
	}
	if len(q.collections) != 3 || q.collections[0] != 150 {
		t.Fatalf("qlearning collections: have(%v)", q.collections)
	}
	if len(h.collections) != 0 {
		t.Fatalf("heuristic should not be rewarded: have(%v)", h.collections)
	}
	if q.finals[2] != 150 || h.finals[2] != 50 {
		t.Fatalf("final scores: qlearning %v heuristic %v", q.finals, h.finals)
	}

	// Sink errors never stop the episode sequence
	if len(tr.results) != 3 || len(cp.episodes) != 3 {
		t.Fatalf("tracked %v checkpointed %v", len(tr.results),
			len(cp.episodes))
	}
	r := tr.results[2]
	if r.Number != 3 || r.Winner != episode.QLearning || r.RunID != "test" {
		t.Fatalf("result: have(%+v)", r)
	}

	if err := d.Save(); err != nil || !tr.saved {
		t.Fatalf("save: %v", err)
	}
}

func TestCancelledEpisodeIsNotTracked(t *testing.T) {
	d, _, q, h := newFakeDuel(t)
	tr := &countingTracker{}
	d.Register(tr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.RunEpisode(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("runEpisode: want(%v) have(%v)", context.Canceled, err)
	}
	if len(tr.results) != 0 || d.Episode() != 0 {
		t.Fatalf("truncated episode should not be tracked")
	}

	// Both engines are still flushed
	for _, r := range []*recorder{q, h} {
		if len(r.events) != 2 || r.events[1] != "end" {
			t.Fatalf("engine events: have(%v)", r.events)
		}
	}
}

func TestCancelledEpisodeKeepsFitness(t *testing.T) {
	ec := evolution.DefaultConfig()
	ec.PopulationSize = 1
	tuner, err := evolution.NewTuner(ec, nil, 1)
	if err != nil {
		t.Fatalf("tuner: %v", err)
	}
	tuner.Initialize(ec.PopulationSize)
	active, _ := tuner.Active()
	fitness := active.Fitness

	controller, err := heuristic.NewController(heuristic.DefaultConfig(),
		nil, nil, tuner, nil)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}

	q := &recorder{}
	d, err := NewDuel(Config{RunID: "test", Duration: 1, TimeStep: 0.1},
		&fakeWorld{}, q, controller, nil)
	if err != nil {
		t.Fatalf("newDuel: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.RunEpisode(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("runEpisode: want(%v) have(%v)", context.Canceled, err)
	}

	// The Q-learning engine is flushed, but the tuner is not told
	if len(q.finals) != 1 {
		t.Fatalf("qlearning finals: have(%v)", q.finals)
	}
	if tuner.Generation() != 0 || len(tuner.History()) != 0 {
		t.Fatalf("truncated episode evolved the population: generation "+
			"%v history %v", tuner.Generation(), len(tuner.History()))
	}
	if a, _ := tuner.Active(); a != active || a.Fitness != fitness {
		t.Fatalf("active individual changed: have(%+v)", a)
	}
	if _, ok := tuner.BestEver(); ok {
		t.Fatalf("truncated episode set the best chromosome")
	}

	// A completed episode is still evaluated
	if _, err := d.RunEpisode(context.Background()); err != nil {
		t.Fatalf("runEpisode: %v", err)
	}
	if tuner.Generation() != 1 || tuner.BestFitness() != 50 {
		t.Fatalf("completed episode: generation %v best %v",
			tuner.Generation(), tuner.BestFitness())
	}
}

func TestEnder(t *testing.T) {
	d, _, q, _ := newFakeDuel(t)
	d.AddEnder(environment.NewFunctionEnder(func() bool { return true }))

	if _, err := d.RunEpisode(context.Background()); err != nil {
		t.Fatalf("runEpisode: %v", err)
	}
	if q.ticks != 0 {
		t.Fatalf("ended episode should not tick: have(%v)", q.ticks)
	}
}

func TestInvalidDuel(t *testing.T) {
	if _, err := NewDuel(Config{Duration: 0, TimeStep: 0.1}, &fakeWorld{},
		&recorder{}, &recorder{}, nil); err == nil {
		t.Fatalf("zero duration should be invalid")
	}
	if _, err := NewDuel(DefaultConfig(), nil, &recorder{}, &recorder{},
		nil); err == nil {
		t.Fatalf("missing world should be invalid")
	}
}

func TestDuelInGoldmine(t *testing.T) {
	world, err := goldmine.New(goldmine.DefaultConfig(), nil, 1)
	if err != nil {
		t.Fatalf("goldmine: %v", err)
	}

	engine, err := qlearning.New(qlearning.DefaultConfig(),
		world.Rig(goldmine.QLearning), world.Rig(goldmine.QLearning), nil, 1)
	if err != nil {
		t.Fatalf("qlearning: %v", err)
	}

	ec := evolution.DefaultConfig()
	ec.PopulationSize = 4
	tuner, err := evolution.NewTuner(ec, nil, 1)
	if err != nil {
		t.Fatalf("tuner: %v", err)
	}
	tuner.Initialize(ec.PopulationSize)

	controller, err := heuristic.NewController(heuristic.DefaultConfig(),
		world.Rig(goldmine.Heuristic), world.Rig(goldmine.Heuristic), tuner,
		nil)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}

	d, err := NewDuel(Config{RunID: "gm", Duration: 10, TimeStep: 0.02},
		world, engine, controller, nil)
	if err != nil {
		t.Fatalf("newDuel: %v", err)
	}
	d.RegisterReporter(QLearningReporter{engine})
	d.RegisterReporter(TunerReporter{tuner})
	tr := &countingTracker{}
	d.Register(tr)

	if err := d.Run(context.Background(), 5); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(tr.results) != 5 {
		t.Fatalf("results: want(5) have(%v)", len(tr.results))
	}
	last := tr.results[4]
	if last.Generation != 1 {
		t.Fatalf("generation after 5 episodes: want(1) have(%v)",
			last.Generation)
	}
	if last.Epsilon >= qlearning.DefaultConfig().Epsilon {
		t.Fatalf("epsilon should have decayed: have(%v)", last.Epsilon)
	}
	if engine.Stats().GamesPlayed != 5 {
		t.Fatalf("games played: want(5) have(%v)", engine.Stats().GamesPlayed)
	}
	if last.Winner != episode.Decide(last.QLearningScore, last.HeuristicScore) {
		t.Fatalf("inconsistent winner: %+v", last)
	}
}
