package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/hidvid/traderpark/backend/internal/mapper"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// StockHandler serves per-stock chart endpoints
// ⭐ SSOT: 종목 차트 API 핸들러는 이 구조체에서만
type StockHandler struct {
	broker BrokerService
	loc    *time.Location
	now    func() time.Time
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(broker BrokerService, loc *time.Location, log *logger.Logger) *StockHandler {
	return &StockHandler{
		broker: broker,
		loc:    loc,
		now:    time.Now,
		logger: log,
	}
}

// GetDailyChart returns daily bars plus high/current price and drop rate
// GET /api/stocks/{code}/daily-chart?date=20250102
func (h *StockHandler) GetDailyChart(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(mux.Vars(r)["code"])
	if code == "" {
		respondError(w, http.StatusBadRequest, "stock code is required")
		return
	}

	date, err := parseDate(r, h.loc, h.now)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected yyyyMMdd)")
		return
	}

	resp, err := h.broker.FetchDailyChart(r.Context(), code, date)
	if err != nil {
		respondUpstreamError(w, h.logger.WithFields(map[string]interface{}{
			"code": code,
			"date": date.Format(dateLayout),
		}), err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.DailyChart(resp))
}
