package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hidvid/traderpark/backend/pkg/config"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

// Default transport timeouts for outbound broker calls
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 10 * time.Second
)

// Client is an HTTP client wrapper with transport timeouts and request logging.
// Requests are attempted exactly once.
// ⭐ SSOT: 모든 외부 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient     *http.Client
	logger         *logger.Logger
	connectTimeout time.Duration
	readTimeout    time.Duration
}

// New creates a new HTTP client from the Kiwoom timeout settings
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(cfg *config.Config, log *logger.Logger) *Client {
	return NewWithTimeouts(cfg.Kiwoom.ConnectTimeout, cfg.Kiwoom.ReadTimeout, log)
}

// NewWithTimeouts creates a client with explicit connect/read timeouts.
// Zero values fall back to the defaults.
func NewWithTimeouts(connectTimeout, readTimeout time.Duration, log *logger.Logger) *Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			// 전체 상한: 연결 + 응답 대기
			Timeout: connectTimeout + readTimeout,
		},
		logger:         log,
		connectTimeout: connectTimeout,
		readTimeout:    readTimeout,
	}
}

// Timeouts returns the configured connect and read timeouts
func (c *Client) Timeouts() (connect, read time.Duration) {
	return c.connectTimeout, c.readTimeout
}

// PostJSON performs a POST request with a JSON body and extra headers
func (c *Client) PostJSON(ctx context.Context, url string, headers http.Header, data interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return c.Do(req)
}

// Do executes the request once and logs the outcome
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	url := req.URL.String()
	method := req.Method

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// ReadBody reads and closes the response body
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// IsSuccess reports whether the status code is 2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
