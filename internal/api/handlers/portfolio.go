package handlers

import (
	"net/http"
	"time"

	"github.com/hidvid/traderpark/backend/internal/mapper"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// PortfolioHandler serves account balance endpoints
// ⭐ SSOT: 계좌 잔고 API 핸들러는 이 구조체에서만
type PortfolioHandler struct {
	broker BrokerService
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(broker BrokerService, loc *time.Location, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		broker: broker,
		loc:    loc,
		now:    time.Now,
		logger: log,
	}
}

// GetDailyBalance returns the daily balance and per-stock returns
// GET /api/portfolio/daily-balance?date=20250102
func (h *PortfolioHandler) GetDailyBalance(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, h.loc, h.now)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected yyyyMMdd)")
		return
	}

	resp, err := h.broker.FetchDailyBalance(r.Context(), date)
	if err != nil {
		respondUpstreamError(w, h.logger.WithField("date", date.Format(dateLayout)), err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.DailyBalance(resp))
}
