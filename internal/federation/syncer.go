package federation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/config"
)

// Job is one peer pull handed to a worker.
type Job struct {
	requestID uuid.UUID
	peerName  string
	url       string
	Done      chan struct{}
}

// Syncer runs periodic peer imports through a small worker pool so one slow
// peer does not hold up the rest.
type Syncer struct {
	logger          *slog.Logger
	cfg             *config.Config
	importer        *Importer
	jobs            chan Job
	shutdownChannel chan struct{}
	wg              *sync.WaitGroup
}

func NewSyncer(logger *slog.Logger, cfg *config.Config, importer *Importer) *Syncer {
	op := "federation.Syncer.New()"
	log := logger.With(slog.String("op", op))
	log.Info("creating federation syncer", slog.Int("peers", len(cfg.Federation.Peers)))

	return &Syncer{
		logger:          logger,
		cfg:             cfg,
		importer:        importer,
		jobs:            make(chan Job, cfg.Federation.JobBufferSize),
		shutdownChannel: make(chan struct{}),
		wg:              &sync.WaitGroup{},
	}
}

// Start launches the workers and blocks until shutdown.
func (s *Syncer) Start() {
	op := "federation.Syncer.Start()"
	log := s.logger.With(slog.String("op", op))

	for i := 0; i < s.cfg.Federation.WorkersCount; i++ {
		s.wg.Add(1)
		go s.handleJob(i)
	}
	log.Info("federation syncer started", slog.Int("workers", s.cfg.Federation.WorkersCount))

	s.wg.Wait()
}

// SyncAll queues one job per configured peer. Called by the cron schedule.
func (s *Syncer) SyncAll() {
	op := "federation.Syncer.SyncAll()"
	log := s.logger.With(slog.String("op", op))

	for _, peer := range s.cfg.Federation.Peers {
		if _, err := s.AddJob(uuid.New(), peer.Name, peer.URL); err != nil {
			log.Error("failed to queue peer sync",
				slog.String("peer", peer.Name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// AddJob queues a single peer pull and returns its completion channel.
func (s *Syncer) AddJob(requestID uuid.UUID, peerName string, url string) (chan struct{}, error) {
	newJob := Job{
		requestID: requestID,
		peerName:  peerName,
		url:       url,
		Done:      make(chan struct{}),
	}
	select {
	case <-s.shutdownChannel:
		return nil, fmt.Errorf("service is shutting down")
	default:
		if len(s.jobs) < s.cfg.Federation.JobBufferSize {
			s.jobs <- newJob
			return newJob.Done, nil
		}
		return nil, fmt.Errorf("job buffer is full")
	}
}

func (s *Syncer) handleJob(id int) {
	defer s.wg.Done()
	op := "federation.Syncer.handleJob()"
	log := s.logger.With(
		slog.String("op", op),
		slog.Int("workerId", id),
	)

	log.Info("start federation sync handler")

	for {
		select {
		case <-s.shutdownChannel:
			return
		case job, ok := <-s.jobs:
			if !ok {
				log.Error("jobs channel closed")
				return
			}

			joblog := log.With(
				slog.String("requestID", job.requestID.String()),
				slog.String("peer", job.peerName),
			)

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Federation.Timeout)*time.Second)
			imported, err := s.importer.Import(ctx, job.url)
			cancel()

			if err != nil {
				joblog.Error("peer sync failed", slog.String("error", err.Error()))
				close(job.Done)
				continue
			}

			close(job.Done)
			joblog.Info("peer sync completed", slog.Int("imported", imported))
		}
	}
}

// Shutdown stops the workers. The jobs channel stays open: a concurrent
// AddJob may be between its buffer check and the send, so only the shutdown
// channel is closed and the workers drain on their own.
func (s *Syncer) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit federation syncer: %w", ctx.Err())
	default:
		close(s.shutdownChannel)
		return nil
	}
}
