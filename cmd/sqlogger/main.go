package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Resinat/SQLogger/internal/buildinfo"
	"github.com/Resinat/SQLogger/internal/config"
	"github.com/Resinat/SQLogger/internal/sink"
)

func main() {
	// 1. Load and validate environment config
	cfg, err := config.LoadEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	log.Printf("[sqlogger] version=%s commit=%s built=%s", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)

	// 2. Open the process-wide sink
	s, err := sink.Instance(cfg.DBPath, sinkOptions(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	failed := run(ctx, s, cfg, os.Getenv("USER"))
	stop()

	st := s.Stats()
	log.Printf("[sqlogger] done path=%q table=%q rows=%d failures=%d skipped=%d",
		st.Path, st.Table, st.Inserts, st.Failures, st.Skipped)

	// 3. Teardown
	if err := s.Close(); err != nil {
		log.Printf("[sqlogger] close sink: %v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func sinkOptions(cfg *config.EnvConfig) sink.Options {
	return sink.Options{
		BusyTimeout:        cfg.BusyTimeout,
		CheckpointSchedule: cfg.CheckpointSchedule,
		ShapeCacheSize:     cfg.ShapeCacheSize,
	}
}

// run logs one record from the calling goroutine, then one from each of
// cfg.Workers goroutines, and returns how many calls failed.
func run(ctx context.Context, s *sink.Sink, cfg *config.EnvConfig, user string) int {
	var failed int
	var mu sync.Mutex
	logOne := func(worker, msg string) {
		rec := newLogRec(cfg.Table, user, worker)
		rec.setMessage(msg)
		if _, err := s.Log(ctx, rec); err != nil {
			log.Printf("[sqlogger] worker=%s log failed: %v", worker, err)
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}

	logOne("main", "Hello, World! Logging from main.")

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logOne(fmt.Sprintf("worker-%02d", i), "Hello, World! Logging from a spawned goroutine.")
		}(i)
	}
	wg.Wait()
	return failed
}
