package handlers

import (
	"context"
	"time"

	"github.com/hidvid/traderpark/backend/internal/external/kiwoom"
)

// BrokerService is the subset of the Kiwoom client the handlers need
type BrokerService interface {
	FetchDailyBalance(ctx context.Context, date time.Time) (*kiwoom.DailyBalanceResponse, error)
	FetchDailyChart(ctx context.Context, stockCode string, date time.Time) (*kiwoom.DailyChartResponse, error)
}

var _ BrokerService = (*kiwoom.Client)(nil)
