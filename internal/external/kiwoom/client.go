package kiwoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hidvid/traderpark/backend/pkg/config"
	"github.com/hidvid/traderpark/backend/pkg/httputil"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// API paths and IDs
const (
	pathToken = "/oauth2/token"
	pathAcnt  = "/api/dostk/acnt"
	pathChart = "/api/dostk/chart"

	APIIDDailyBalance = "ka01690" // 일별잔고수익률
	APIIDDailyChart   = "ka10081" // 주식일봉차트조회

	// DateLayout is the broker's yyyyMMdd date format
	DateLayout = "20060102"
)

// Client handles communication with the Kiwoom (키움증권) REST API
// ⭐ SSOT: 키움 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.KiwoomConfig
	loc        *time.Location
	tokens     *TokenCache
}

// NewClient creates a new Kiwoom API client.
// loc is the market time zone used to format request dates.
func NewClient(cfg config.KiwoomConfig, httpClient *httputil.Client, store TokenStore, loc *time.Location, log *logger.Logger) *Client {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		loc:        loc,
	}
	c.tokens = NewTokenCache(c.issueToken, store, log)
	return c
}

// Tokens exposes the token cache (warm-up job, CLI)
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// FormatDate formats t as yyyyMMdd in the market time zone
func (c *Client) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// issueToken performs the client_credentials issuance call
func (c *Client) issueToken(ctx context.Context) (*TokenResponse, error) {
	body := tokenRequest{
		GrantType: "client_credentials",
		AppKey:    c.cfg.AppKey,
		SecretKey: c.cfg.SecretKey,
	}

	resp, err := c.httpClient.PostJSON(ctx, c.cfg.BaseURL+pathToken, nil, body)
	if err != nil {
		return nil, &AuthError{Message: "token request failed", Err: err}
	}

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: "read token response", Err: err}
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(gjson.GetBytes(respBody, "return_msg").String()),
		}
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Message: "decode token response", Err: err}
	}

	return &tokenResp, nil
}

// post performs an authenticated data call and validates the embedded return_code
func (c *Client) post(ctx context.Context, path, apiID string, payload interface{}) ([]byte, error) {
	token, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	headers.Set("api-id", apiID)

	resp, err := c.httpClient.PostJSON(ctx, c.cfg.BaseURL+path, headers, payload)
	if err != nil {
		return nil, &BrokerError{APIID: apiID, Message: "request failed", Err: err}
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, &BrokerError{APIID: apiID, StatusCode: resp.StatusCode, Message: "read response failed", Err: err}
	}

	if err := checkReturnCode(apiID, resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkReturnCode inspects the broker envelope. return_code 0 is success
// whatever the HTTP status; it may arrive as a number or a numeric string.
func checkReturnCode(apiID string, statusCode int, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return &BrokerError{APIID: apiID, StatusCode: statusCode, Message: MsgNoResponse}
	}

	if !gjson.ValidBytes(body) {
		return &BrokerError{APIID: apiID, StatusCode: statusCode, Message: "invalid response body"}
	}

	msg := strings.TrimSpace(gjson.GetBytes(body, "return_msg").String())

	code, ok := parseReturnCode(gjson.GetBytes(body, "return_code"))
	if !ok {
		if msg == "" {
			msg = "missing return_code"
		}
		return &BrokerError{APIID: apiID, StatusCode: statusCode, Message: msg}
	}

	if code != 0 {
		if msg == "" {
			msg = "broker returned an error"
		}
		return &BrokerError{APIID: apiID, ReturnCode: code, StatusCode: statusCode, Message: msg}
	}

	return nil
}

func parseReturnCode(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		return int(r.Int()), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
