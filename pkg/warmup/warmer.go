package warmup

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var warmupJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "edu_warmup_jobs_total",
	Help: "Total warmup jobs by result (loaded, absent, skipped)",
}, []string{"result"})

// Config holds warmer configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel fetches
	MaxConcurrency int
	// Timeout per job
	Timeout time.Duration
}

// DefaultConfig returns the default warmer configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// Fetcher is implemented by *client.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string, params client.Params) (client.Payload, bool)
}

// Job is a single upstream request to pre-load.
type Job struct {
	URL    string
	Params client.Params
}

// Result summarises a warmup run.
type Result struct {
	Loaded   int
	Absent   int
	Skipped  int
	Duration time.Duration
}

// Total returns the number of jobs accounted for.
func (r Result) Total() int {
	return r.Loaded + r.Absent + r.Skipped
}

// Warmer runs warmup jobs through a worker pool
type Warmer struct {
	fetcher Fetcher
	config  Config
}

// New creates a new warmer
func New(fetcher Fetcher, config Config) *Warmer {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &Warmer{
		fetcher: fetcher,
		config:  config,
	}
}

type outcome int

const (
	outcomeLoaded outcome = iota
	outcomeAbsent
	outcomeSkipped
)

// Run fetches every job once. Jobs not started before ctx is cancelled are
// counted as skipped.
func (w *Warmer) Run(ctx context.Context, jobs []Job) Result {
	start := time.Now()

	log.Info().
		Int("jobs", len(jobs)).
		Int("workers", w.config.MaxConcurrency).
		Msg("Starting cache warmup")

	jobQueue := make(chan Job, len(jobs))
	for _, job := range jobs {
		jobQueue <- job
	}
	close(jobQueue)

	outcomes := make(chan outcome, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < w.config.MaxConcurrency; i++ {
		wg.Add(1)
		go w.worker(ctx, jobQueue, outcomes, &wg, i)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var result Result
	for o := range outcomes {
		switch o {
		case outcomeLoaded:
			result.Loaded++
			warmupJobsTotal.WithLabelValues("loaded").Inc()
		case outcomeAbsent:
			result.Absent++
			warmupJobsTotal.WithLabelValues("absent").Inc()
		case outcomeSkipped:
			result.Skipped++
			warmupJobsTotal.WithLabelValues("skipped").Inc()
		}
	}
	result.Duration = time.Since(start)

	log.Info().
		Int("loaded", result.Loaded).
		Int("absent", result.Absent).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("Cache warmup complete")

	return result
}

// worker processes jobs from the queue
func (w *Warmer) worker(ctx context.Context, jobQueue <-chan Job, outcomes chan<- outcome, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for job := range jobQueue {
		if ctx.Err() != nil {
			outcomes <- outcomeSkipped
			continue
		}

		jobCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
		_, ok := w.fetcher.Fetch(jobCtx, job.URL, job.Params)
		cancel()

		if ok {
			outcomes <- outcomeLoaded
		} else {
			log.Debug().
				Int("worker_id", workerID).
				Str("url", job.URL).
				Interface("params", job.Params).
				Msg("Warmup job produced no data")
			outcomes <- outcomeAbsent
		}
		processed++
	}

	if processed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("jobs_processed", processed).
			Msg("Worker completed")
	}
}
