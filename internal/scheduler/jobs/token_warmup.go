package jobs

import (
	"context"
	"fmt"

	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// TokenProvider yields a usable broker token, issuing one only when needed
type TokenProvider interface {
	GetValidToken(ctx context.Context) (string, error)
}

// TokenWarmupJob keeps a usable broker token cached so the first request
// of the trading day does not pay the issuance round-trip.
type TokenWarmupJob struct {
	tokens   TokenProvider
	schedule string
	logger   *logger.Logger
}

// NewTokenWarmupJob creates a token warm-up job running on schedule
func NewTokenWarmupJob(tokens TokenProvider, schedule string, log *logger.Logger) *TokenWarmupJob {
	return &TokenWarmupJob{
		tokens:   tokens,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *TokenWarmupJob) Name() string {
	return "kiwoom_token_warmup"
}

// Schedule returns the configured cron expression
func (j *TokenWarmupJob) Schedule() string {
	return j.schedule
}

// Run makes sure a usable token is cached.
// A still-usable token is left alone.
func (j *TokenWarmupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting token warm-up")

	if _, err := j.tokens.GetValidToken(ctx); err != nil {
		return fmt.Errorf("token warm-up: %w", err)
	}

	j.logger.Debug("Token warm-up completed")
	return nil
}
