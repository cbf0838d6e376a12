package jobs

import (
	"context"
	"log"
	"time"

	"github.com/gocool94/innnov-prod/internal/repository"
	"github.com/gocool94/innnov-prod/internal/services"
)

type StatsJob struct {
	service *services.StatsService
}

func NewStatsJob(repo *repository.Repository) *StatsJob {
	return &StatsJob{
		service: services.NewStatsService(repo),
	}
}

// Start begins the periodic platform stats snapshot job
func (j *StatsJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		ctx := context.Background()
		if _, err := j.service.Snapshot(ctx); err != nil {
			log.Printf("Initial stats snapshot error: %v", err)
		}

		// Then run periodically
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if _, err := j.service.Snapshot(ctx); err != nil {
				log.Printf("Stats snapshot error: %v", err)
			}
		}
	}()
}
