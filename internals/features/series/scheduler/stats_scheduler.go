package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"qbank_backend/internals/features/series/repository"
	"qbank_backend/internals/features/series/service"
	taxonomyRepo "qbank_backend/internals/features/taxonomy/repository"
)

// StartStatsRefreshScheduler recomputes series aggregates on a fixed cron
// schedule so listings never serve stats older than the refresh interval.
func StartStatsRefreshScheduler(db *gorm.DB) *cron.Cron {
	svc := service.NewTestSeriesService(
		repository.NewTestSeriesRepository(db),
		repository.NewTestAggregatorRepository(db),
		repository.NewExamSourceRepository(db),
		taxonomyRepo.NewTaxonomyRepository(db),
	)

	c := cron.New()
	_, err := c.AddFunc("@every 15m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		n, err := svc.RefreshAllStats(ctx)
		if err != nil {
			log.Printf("[CRON] series stats refresh failed: %v", err)
			return
		}
		log.Printf("[CRON] series stats refreshed for %d series", n)
	})
	if err != nil {
		log.Printf("[CRON] failed to register series stats job: %v", err)
		return c
	}
	c.Start()
	return c
}
