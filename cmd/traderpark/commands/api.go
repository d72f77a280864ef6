package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hidvid/traderpark/backend/internal/api"
	"github.com/hidvid/traderpark/backend/internal/api/handlers"
	"github.com/hidvid/traderpark/backend/internal/scheduler"
	"github.com/hidvid/traderpark/backend/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 키움 잔고/차트 조회 엔드포인트 제공
- KIWOOM_TOKEN_WARMUP_CRON 설정 시 토큰 예열 스케줄러 실행

Endpoints:
  GET  /health                               - Health check
  GET  /api/portfolio/daily-balance?date=    - 일별 잔고수익률
  GET  /api/stocks/{code}/daily-chart?date=  - 일봉 차트

Example:
  go run ./cmd/traderpark api
  go run ./cmd/traderpark api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본값: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== TraderPark API Server ===")

	// 1. Config, logger, broker client
	rt, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}
	log := rt.log

	// 2. Optional token warm-up
	var sched *scheduler.Scheduler
	var jobReporter api.JobReporter
	if cronExpr := rt.cfg.Kiwoom.TokenWarmupCron; cronExpr != "" {
		sched = scheduler.New(rt.loc, log)
		if err := sched.AddJob(jobs.NewTokenWarmupJob(rt.kiwoom.Tokens(), cronExpr, log)); err != nil {
			return fmt.Errorf("register token warm-up: %w", err)
		}
		sched.Start()
		jobReporter = sched
	}

	// 3. Handlers and router (/health reports warm-up stats)
	portfolioHandler := handlers.NewPortfolioHandler(rt.kiwoom, rt.loc, log)
	stockHandler := handlers.NewStockHandler(rt.kiwoom, rt.loc, log)
	router := api.NewRouter(portfolioHandler, stockHandler, jobReporter, rt.cfg, log)

	// 4. Server with graceful shutdown
	server := api.New(rt.cfg, log, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/portfolio/daily-balance")
	fmt.Println("  GET  /api/stocks/{code}/daily-chart")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if sched != nil {
			sched.Stop()
		}
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
