package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/jungsi/backend/internal/competition"
	"github.com/wonny/jungsi/backend/internal/external/uway"
	"github.com/wonny/jungsi/backend/internal/realtime"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// CompetitionRefreshJob re-crawls competition rates and broadcasts updates
// ⭐ SSOT: 경쟁률 갱신 스케줄은 이 Job에서만
type CompetitionRefreshJob struct {
	client  *uway.Client
	repo    *competition.Repository
	service *competition.Service
	hub     *realtime.Hub
	logger  *logger.Logger
}

// NewCompetitionRefreshJob creates a new competition refresh job
func NewCompetitionRefreshJob(
	client *uway.Client,
	repo *competition.Repository,
	service *competition.Service,
	hub *realtime.Hub,
	log *logger.Logger,
) *CompetitionRefreshJob {
	return &CompetitionRefreshJob{
		client:  client,
		repo:    repo,
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// Name returns the job name
func (j *CompetitionRefreshJob) Name() string {
	return "competition_refresh"
}

// Schedule returns the cron schedule (every 10 minutes during application season)
func (j *CompetitionRefreshJob) Schedule() string {
	return "0 */10 * * * *" // with seconds
}

// Run executes one full crawl cycle
func (j *CompetitionRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting competition-rate refresh")
	start := time.Now()

	links, err := j.client.FetchUniversities(ctx)
	if err != nil {
		return fmt.Errorf("fetch university links: %w", err)
	}

	var refreshed []string
	failures := 0
	for _, link := range links {
		if link.Type == uway.LinkOther {
			continue
		}

		rates, err := j.client.FetchRates(ctx, link)
		if err != nil {
			// 대학 한 곳 실패로 전체 사이클을 멈추지 않는다
			failures++
			j.logger.WithError(err).WithField("university", link.Name).Warn("Rate crawl failed")
			continue
		}
		if len(rates) == 0 {
			continue
		}

		if err := j.repo.ReplaceRates(ctx, link.Name, rates); err != nil {
			failures++
			j.logger.WithError(err).WithField("university", link.Name).Error("Rate save failed")
			continue
		}

		refreshed = append(refreshed, link.Name)

		if j.hub != nil {
			if err := j.hub.BroadcastJSON(map[string]interface{}{
				"type":       "competition_update",
				"university": link.Name,
				"rates":      rates,
			}); err != nil {
				j.logger.WithError(err).Warn("Rate broadcast failed")
			}
		}
	}

	j.service.Invalidate(ctx, refreshed)

	j.logger.WithFields(map[string]interface{}{
		"universities": len(refreshed),
		"failures":     failures,
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Competition-rate refresh completed")
	return nil
}
