package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hidvid/traderpark/backend/internal/external/kiwoom"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// Error codes returned alongside upstream failures
const (
	CodeAuthError   = "auth_error"
	CodeBrokerError = "broker_error"
)

// dateLayout is the yyyyMMdd query format shared with the broker
const dateLayout = "20060102"

// ErrorResponse is the JSON body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondUpstreamError maps broker failures to 502 and anything else to 500
func respondUpstreamError(w http.ResponseWriter, log *logger.Logger, err error) {
	var authErr *kiwoom.AuthError
	var brokerErr *kiwoom.BrokerError

	switch {
	case errors.As(err, &authErr):
		log.WithError(err).Warn("Broker authentication failed")
		respondJSON(w, http.StatusBadGateway, ErrorResponse{Error: authErr.Error(), Code: CodeAuthError})
	case errors.As(err, &brokerErr):
		log.WithError(err).WithField("api_id", brokerErr.APIID).Warn("Broker call failed")
		respondJSON(w, http.StatusBadGateway, ErrorResponse{Error: brokerErr.Error(), Code: CodeBrokerError})
	default:
		log.WithError(err).Error("Unexpected error")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseDate reads the optional ?date=yyyyMMdd parameter.
// Missing means today in loc.
func parseDate(r *http.Request, loc *time.Location, now func() time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return now().In(loc), nil
	}
	return time.ParseInLocation(dateLayout, raw, loc)
}
