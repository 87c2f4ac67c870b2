package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/jungsi/backend/internal/jungsi"
	"github.com/wonny/jungsi/backend/internal/refdata"
	"github.com/wonny/jungsi/backend/pkg/config"
	"github.com/wonny/jungsi/backend/pkg/database"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "회원 환산점수 일괄 계산",
	Long: `저장된 입력 성적으로 전체 모집단위 환산점수를 계산하고 저장합니다.

이 명령어는:
- 참조 테이블 로드
- 회원 입력 성적 조회
- 모집단위별 환산점수/누백/유불리/지원위험도 계산
- 결과를 member_calculated_scores / member_recruitment_scores에 저장

Example:
  go run ./cmd/jungsi calc --member 1234
  go run ./cmd/jungsi calc --member 1234 --universities 11,42`,
	RunE: runCalc,
}

var (
	calcMemberID      int64
	calcUniversityIDs []int64
)

func init() {
	rootCmd.AddCommand(calcCmd)

	// Flags
	calcCmd.Flags().Int64Var(&calcMemberID, "member", 0, "회원 ID (필수)")
	calcCmd.Flags().Int64SliceVar(&calcUniversityIDs, "universities", nil, "대학 ID 필터 (생략하면 전체)")
	calcCmd.MarkFlagRequired("member")
}

func runCalc(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Jungsi Batch Calculation ===")

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

	refStore := refdata.NewStore(cfg.RefData.Dir, log)
	if err := refStore.Load(); err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	engine := jungsi.NewEngine(refStore)
	repo := jungsi.NewRepository(db.Pool)
	calculator := jungsi.NewCalculator(engine, repo, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	resp, err := calculator.Calculate(ctx, calcMemberID, nil, calcUniversityIDs)
	if err != nil {
		return fmt.Errorf("calculate member %d: %w", calcMemberID, err)
	}

	fmt.Printf("\n✅ Calculation complete (%.1fs)\n", time.Since(start).Seconds())
	fmt.Printf("   Member:       %d\n", resp.MemberID)
	fmt.Printf("   Recruitments: %d\n", resp.TotalRecruitments)
	fmt.Printf("   Success:      %d\n", resp.SuccessCount)
	fmt.Printf("   Failed:       %d\n", resp.FailedCount)
	return nil
}
