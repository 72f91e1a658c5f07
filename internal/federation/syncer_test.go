package federation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/config"
)

func syncerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Federation.JobBufferSize = 2
	cfg.Federation.WorkersCount = 2
	cfg.Federation.Timeout = 1
	return cfg
}

func TestShutdownStopsWorkers(t *testing.T) {
	s := NewSyncer(discard(), syncerConfig(), nil)

	stopped := make(chan struct{})
	go func() {
		s.Start()
		close(stopped)
	}()

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}

	// The jobs channel stays open after shutdown, so a late producer gets an
	// error back instead of a send on a closed channel.
	if _, err := s.AddJob(uuid.New(), "peer", "https://peer.example"); err == nil {
		t.Error("expected error queuing a job after shutdown")
	}
}

func TestAddJobBufferFull(t *testing.T) {
	cfg := syncerConfig()
	cfg.Federation.WorkersCount = 0 // nothing drains
	s := NewSyncer(discard(), cfg, nil)

	for i := 0; i < cfg.Federation.JobBufferSize; i++ {
		if _, err := s.AddJob(uuid.New(), "peer", "https://peer.example"); err != nil {
			t.Fatalf("job %d rejected: %v", i, err)
		}
	}
	if _, err := s.AddJob(uuid.New(), "peer", "https://peer.example"); err == nil {
		t.Error("expected buffer-full error")
	}
}
