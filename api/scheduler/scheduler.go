package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/wogarma/missions-api/databases"
)

// Scheduler handles periodic background jobs for the mission catalog
type Scheduler struct {
	cron *cron.Cron
	MDB  databases.MissionDatabase
}

// New creates a new scheduler instance
func New(mdb databases.MissionDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		MDB:  mdb,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Log catalog size per project daily at 4 AM UTC
	_, err := s.cron.AddFunc("0 4 * * *", s.logCatalogStats)
	if err != nil {
		zap.S().Errorw("failed to register catalog stats job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("mission catalog scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("mission catalog scheduler stopped")
}

func (s *Scheduler) logCatalogStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, project := range []string{"wog", "miniwog"} {
		count, err := s.MDB.CountDocuments(ctx, bson.M{"project": project})
		if err != nil {
			zap.S().Errorw("failed to count missions", "project", project, "error", err)
			continue
		}
		zap.S().Infow("catalog stats", "project", project, "missions", count)
	}
}
