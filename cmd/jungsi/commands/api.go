package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/jungsi/backend/internal/api"
	"github.com/wonny/jungsi/backend/internal/api/handlers"
	"github.com/wonny/jungsi/backend/internal/competition"
	"github.com/wonny/jungsi/backend/internal/external/uway"
	"github.com/wonny/jungsi/backend/internal/jungsi"
	"github.com/wonny/jungsi/backend/internal/mockapp"
	"github.com/wonny/jungsi/backend/internal/realtime"
	"github.com/wonny/jungsi/backend/internal/refdata"
	"github.com/wonny/jungsi/backend/internal/scheduler"
	"github.com/wonny/jungsi/backend/internal/scheduler/jobs"
	"github.com/wonny/jungsi/backend/pkg/config"
	"github.com/wonny/jungsi/backend/pkg/database"
	"github.com/wonny/jungsi/backend/pkg/httputil"
	"github.com/wonny/jungsi/backend/pkg/logger"
	"github.com/wonny/jungsi/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- 참조 테이블(점수표/학교조건/유불리/누백) 로드
- HTTP API 서버 시작
- 경쟁률 갱신 스케줄러 시작 (UWAY_ENABLED=true일 때)

Endpoints:
  GET  /health                            - Health check
  POST /api/jungsi/scores/calculate       - 전체 모집단위 환산점수 계산
  GET  /api/jungsi/scores/{memberId}      - 저장된 환산점수 조회
  GET  /api/jungsi/percentile             - 표점합 → 누적백분위
  POST /api/mock-application/analysis     - 모의지원 분포 분석
  POST /api/mock-application/aggregate    - 도수분포 재집계
  GET  /api/competition                   - 최신 경쟁률
  GET  /ws/competition                    - 경쟁률 실시간 스트림
  POST /api/admin/refdata/reload          - 참조 테이블 리로드

Example:
  go run ./cmd/jungsi api
  go run ./cmd/jungsi api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Jungsi API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (disabled면 no-op 클라이언트)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "jungsi")

	// 5. Load reference tables (없으면 기동 실패)
	refStore := refdata.NewStore(cfg.RefData.Dir, log)
	if err := refStore.Load(); err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	// 6. Conversion engine + calculator
	engine := jungsi.NewEngine(refStore)
	jungsiRepo := jungsi.NewRepository(db.Pool)
	calculator := jungsi.NewCalculator(engine, jungsiRepo, log)

	// 7. Mock-application service
	mockRepo := mockapp.NewRepository(db.Pool)
	mockService := mockapp.NewService(mockRepo, cache, log)

	// 8. Competition rates + realtime hub
	competitionRepo := competition.NewRepository(db.Pool)
	competitionService := competition.NewService(competitionRepo, cache, log)

	hub := realtime.NewHub(log)
	hub.Run()
	defer hub.Stop()

	// 9. Scheduler (경쟁률 크롤러)
	sched := scheduler.New(log)
	if cfg.Uway.Enabled {
		httpClient := httputil.New(cfg, log).
			WithRateLimiter(redis.NewRateLimiter(redisClient, "jungsi"), redis.UwayRateLimit)
		uwayClient := uway.NewClient(httpClient, log)
		refreshJob := jobs.NewCompetitionRefreshJob(uwayClient, competitionRepo, competitionService, hub, log)
		if err := sched.AddJob(refreshJob); err != nil {
			return fmt.Errorf("register competition job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 10. Create handlers
	jungsiHandler := handlers.NewJungsiHandler(calculator, engine, jungsiRepo, log)
	mockAppHandler := handlers.NewMockAppHandler(mockService, log)
	competitionHandler := handlers.NewCompetitionHandler(competitionService, log)
	adminHandler := handlers.NewAdminHandler(refStore, sched, log)

	// 11. Create router and server
	router := api.NewRouter(jungsiHandler, mockAppHandler, competitionHandler, adminHandler, hub, log)
	server := api.New(cfg, log, router)

	// 12. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
