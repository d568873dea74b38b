package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/samuelfneumann/ropeduel/agent/heuristic"
	"github.com/samuelfneumann/ropeduel/agent/qlearning"
	"github.com/samuelfneumann/ropeduel/config"
	"github.com/samuelfneumann/ropeduel/environment"
	"github.com/samuelfneumann/ropeduel/environment/goldmine"
	"github.com/samuelfneumann/ropeduel/episode"
	"github.com/samuelfneumann/ropeduel/evolution"
	"github.com/samuelfneumann/ropeduel/experiment"
	"github.com/samuelfneumann/ropeduel/experiment/checkpointer"
	"github.com/samuelfneumann/ropeduel/experiment/tracker"
	"github.com/samuelfneumann/ropeduel/experiment/trackers"
	"github.com/samuelfneumann/ropeduel/server"
	"github.com/samuelfneumann/ropeduel/store"
	"github.com/samuelfneumann/ropeduel/utils/progressbar"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	episodes := flag.Int("episodes", 0, "number of episodes to play "+
		"(overrides the config)")
	seed := flag.Uint64("seed", 0, "random seed (overrides the config)")
	addr := flag.String("addr", "", "address of the inspection API "+
		"(overrides the config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "episodes":
			cfg.Episodes = *episodes
		case "seed":
			cfg.Seed = *seed
		case "addr":
			cfg.Server.Addr = *addr
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// run plays a duel of cfg.Episodes episodes
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Episode.RunID == "" {
		cfg.Episode.RunID = uuid.NewString()
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("run: could not create output directory: %w", err)
	}
	timeout := time.Duration(cfg.Output.Timeout) * time.Second

	// Create the world and both decision engines
	world, err := goldmine.New(cfg.World, logger, cfg.Seed)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	engine, err := qlearning.New(cfg.QLearning, world.Rig(goldmine.QLearning),
		world.Rig(goldmine.QLearning), logger, cfg.Seed)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	tuner, err := evolution.NewTuner(cfg.Evolution, logger, cfg.Seed)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	tuner.Initialize(cfg.Evolution.PopulationSize)

	controller, err := heuristic.NewController(cfg.Heuristic,
		world.Rig(goldmine.Heuristic), world.Rig(goldmine.Heuristic), tuner,
		logger)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	duel, err := experiment.NewDuel(cfg.Episode, world, engine, controller,
		logger)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if cfg.StopWhenCleared {
		duel.AddEnder(environment.NewFunctionEnder(func() bool {
			return !world.GoldRemaining()
		}))
	}
	duel.RegisterReporter(experiment.QLearningReporter{Engine: engine})
	duel.RegisterReporter(experiment.TunerReporter{Tuner: tuner})

	// Checkpoints
	var rdb *redis.Client
	if cfg.Output.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Output.RedisAddr})
		defer rdb.Close()
	}
	if err := setupCheckpoints(ctx, cfg, duel, engine, tuner, rdb, timeout,
		logger); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	// Episode log
	var results store.Store
	if cfg.Output.Store != "" {
		dsn := cfg.Output.StoreDSN
		if cfg.Output.Store == "sqlite" && dsn == "" {
			dsn = filepath.Join(cfg.Output.Dir, "results.db")
		}
		results, err = store.NewStore(cfg.Output.Store, dsn)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		defer results.Close()

		initCtx, cancel := context.WithTimeout(ctx, timeout)
		err = results.Init(initCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		duel.Register(trackers.NewStore(results, timeout))
	}

	if err := setupTrackers(cfg, duel, logger); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if cfg.Output.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.Output.AMQPURL)
		if err != nil {
			return fmt.Errorf("run: could not connect to rabbitmq: %w", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("run: could not open channel: %w", err)
		}
		defer ch.Close()

		if err := trackers.DeclareQueue(ch, cfg.Output.AMQPQueue); err != nil {
			return fmt.Errorf("run: could not declare queue: %w", err)
		}
		duel.Register(tracker.Every(
			trackers.NewPublisher(ch, cfg.Output.AMQPQueue, timeout),
			cfg.Output.PublishEvery,
		))
	}

	// Inspection API
	serverCtx, stopServer := context.WithCancel(ctx)
	serverDone := make(chan struct{})
	if cfg.Server.Addr != "" {
		board := server.NewBoard(cfg.Episode.RunID, engine, tuner,
			cfg.Server.Recent, cfg.Server.Top)
		duel.Register(board)

		srv := server.New(board, results, logger)
		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(serverCtx, cfg.Server.Addr); err != nil {
				logger.Error("inspection api stopped", "error", err)
			}
		}()
	} else {
		close(serverDone)
	}

	remaining := cfg.Episodes - duel.Episode()
	bar := progressbar.NewManualProgressBar(os.Stdout, "episodes", 40,
		max(remaining, 0))
	duel.Register(&progress{bar})

	start := time.Now()
	logger.Info("starting duel", "run_id", cfg.Episode.RunID,
		"episodes", humanize.Comma(int64(remaining)),
		"resumed_from", duel.Episode(), "seed", cfg.Seed)

	runErr := duel.Run(ctx, remaining)
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("duel interrupted", "episode", duel.Episode())
		runErr = nil
	}

	stopServer()
	<-serverDone

	saveErr := duel.Save()
	logger.Info("duel finished", "run_id", cfg.Episode.RunID,
		"episodes", humanize.Comma(int64(duel.Episode())),
		"started", humanize.Time(start),
		"qlearning_epsilon", engine.Epsilon(),
		"generation", tuner.Generation(),
		"best_fitness", tuner.BestFitness())

	return errors.Join(runErr, saveErr)
}

// setupCheckpoints registers the checkpointers of both decision
// engines with the duel, restoring the engines first if a resumed run
// was requested
func setupCheckpoints(ctx context.Context, cfg *config.Config,
	duel *experiment.Duel, engine *qlearning.Engine, tuner *evolution.Tuner,
	rdb *redis.Client, timeout time.Duration, logger *slog.Logger) error {
	objects := map[string]checkpointer.Serializable{
		"qlearning": engine,
		"tuner":     tuner,
	}

	if cfg.Output.Resume {
		for name, object := range objects {
			restored, err := restore(ctx, cfg, name, object, rdb, timeout)
			if err != nil {
				return fmt.Errorf("setupCheckpoints: could not restore %s: %w",
					name, err)
			}
			logger.Info("checkpoint", "object", name, "restored", restored)
		}
		duel.SetEpisode(engine.Stats().GamesPlayed)
	}

	if cfg.Output.CheckpointEvery == 0 {
		return nil
	}
	for name, object := range objects {
		duel.RegisterCheckpointer(checkpointer.NewNEpisode(
			cfg.Output.CheckpointEvery, object,
			checkpointer.FileLatest(filepath.Join(cfg.Output.Dir, name), ".bin"),
		))
		if rdb != nil {
			duel.RegisterCheckpointer(checkpointer.NewRedis(rdb,
				cfg.Output.RedisKey+":"+name, cfg.Output.CheckpointEvery,
				object, timeout))
		}
	}
	return nil
}

// restore restores object from redis if a redis client is given, and
// from its checkpoint file otherwise. No error is returned if no
// checkpoint exists.
func restore(ctx context.Context, cfg *config.Config, name string,
	object checkpointer.Serializable, rdb *redis.Client,
	timeout time.Duration) (bool, error) {
	if rdb != nil {
		return checkpointer.NewRedis(rdb, cfg.Output.RedisKey+":"+name, 1,
			object, timeout).Restore(ctx)
	}

	filename := checkpointer.FileLatest(filepath.Join(cfg.Output.Dir, name),
		".bin")(0)
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := checkpointer.Load(filename, object); err != nil {
		return false, err
	}
	return true, nil
}

// setupTrackers registers the file and log trackers with the duel
func setupTrackers(cfg *config.Config, duel *experiment.Duel,
	logger *slog.Logger) error {
	dir := cfg.Output.Dir

	if cfg.Output.CSV {
		csv, err := trackers.NewCSV(filepath.Join(dir, "results.csv"))
		if err != nil {
			return fmt.Errorf("setupTrackers: %w", err)
		}
		duel.Register(csv)
	}

	duel.Register(trackers.NewScores(filepath.Join(dir, "scores.bin")))

	if cfg.Output.Chart {
		duel.Register(trackers.NewChart(filepath.Join(dir, "scores.png"),
			cfg.Output.ChartWindow))
	}

	duel.Register(trackers.NewSummary(logger, cfg.Output.SummaryInterval,
		cfg.Output.SummaryWindow))
	return nil
}

// progress displays a progress bar which advances with every episode
type progress struct {
	bar *progressbar.ManualProgressBar
}

func (p *progress) Track(episode.Result) error {
	p.bar.Increment()
	p.bar.Display()
	return nil
}

func (p *progress) Save() error {
	fmt.Fprintln(os.Stdout)
	return nil
}

var _ tracker.Tracker = &progress{}
