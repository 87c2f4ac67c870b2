package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/jungsi/backend/internal/competition"
	"github.com/wonny/jungsi/backend/internal/external/uway"
	"github.com/wonny/jungsi/backend/internal/scheduler/jobs"
	"github.com/wonny/jungsi/backend/pkg/config"
	"github.com/wonny/jungsi/backend/pkg/database"
	"github.com/wonny/jungsi/backend/pkg/httputil"
	"github.com/wonny/jungsi/backend/pkg/logger"
	"github.com/wonny/jungsi/backend/pkg/redis"
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "경쟁률 1회 크롤링",
	Long: `UWAY/진학어플라이 경쟁률 페이지를 한 번 크롤링해서 저장합니다.

이 명령어는:
- 경쟁률 포털에서 대학 목록 수집
- 대학별 경쟁률 테이블 파싱
- jungsi.competition_rates에 대학 단위로 교체 저장

Example:
  go run ./cmd/jungsi crawl`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Jungsi Competition-Rate Crawl ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	httpClient := httputil.New(cfg, log).
		WithRateLimiter(redis.NewRateLimiter(redisClient, "jungsi"), redis.UwayRateLimit)
	uwayClient := uway.NewClient(httpClient, log)
	repo := competition.NewRepository(db.Pool)
	service := competition.NewService(repo, redis.NewCache(redisClient, "jungsi"), log)

	// 단발 실행이라 허브 없이 돌림
	job := jobs.NewCompetitionRefreshJob(uwayClient, repo, service, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("\n✅ Crawl complete (%.1fs)\n", time.Since(start).Seconds())
	return nil
}
