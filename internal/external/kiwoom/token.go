package kiwoom

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hidvid/traderpark/backend/pkg/logger"
)

const (
	// TokenSafetyMargin: a token this close to expiry counts as expired
	TokenSafetyMargin = 60 * time.Second

	// DefaultTokenLifetime applies when the broker omits expires_in
	DefaultTokenLifetime = 3600 * time.Second

	tokenFlightKey = "kiwoom-token"
)

// Token is a bearer credential with the broker-declared expiry
type Token struct {
	Value     string    `json:"value"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UsableAt reports whether the token may be handed to a caller at now
func (t Token) UsableAt(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-TokenSafetyMargin))
}

// IssueFunc performs one token issuance round-trip
type IssueFunc func(ctx context.Context) (*TokenResponse, error)

// TokenCache owns the current Kiwoom token and refreshes it on demand.
// Concurrent callers that find the token unusable share a single issuance.
// ⭐ SSOT: 키움 토큰 발급/갱신은 이 캐시에서만
type TokenCache struct {
	issue  IssueFunc
	store  TokenStore
	flight singleflight.Group
	now    func() time.Time
	logger *logger.Logger
}

// NewTokenCache creates a token cache backed by store
func NewTokenCache(issue IssueFunc, store TokenStore, log *logger.Logger) *TokenCache {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TokenCache{
		issue:  issue,
		store:  store,
		now:    time.Now,
		logger: log,
	}
}

// GetValidToken returns a usable token, issuing a new one when needed.
// Failures are *AuthError and leave the stored token untouched.
func (c *TokenCache) GetValidToken(ctx context.Context) (string, error) {
	if tok, ok := c.store.Load(ctx); ok && tok.UsableAt(c.now()) {
		return tok.Value, nil
	}

	v, err, shared := c.flight.Do(tokenFlightKey, func() (interface{}, error) {
		// 대기 중 다른 요청이 이미 갱신했을 수 있음
		flightCtx := context.WithoutCancel(ctx)
		if tok, ok := c.store.Load(flightCtx); ok && tok.UsableAt(c.now()) {
			return tok, nil
		}
		return c.refresh(flightCtx)
	})
	if err != nil {
		return "", err
	}

	if shared {
		c.logger.Debug("Kiwoom token shared from in-flight refresh")
	}

	return v.(Token).Value, nil
}

// Snapshot returns the stored token without validating it
func (c *TokenCache) Snapshot(ctx context.Context) (Token, bool) {
	return c.store.Load(ctx)
}

// refresh issues a new token and replaces the stored one
func (c *TokenCache) refresh(ctx context.Context) (Token, error) {
	c.logger.Info("Kiwoom token issuance requested")

	resp, err := c.issue(ctx)
	if err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			err = &AuthError{Err: err}
		}
		c.logger.WithError(err).Error("Kiwoom token issuance failed")
		return Token{}, err
	}

	if resp == nil || resp.Token == "" {
		authErr := &AuthError{Message: "response has no token"}
		if resp != nil && resp.ReturnMsg != "" {
			authErr.Message = resp.ReturnMsg
		}
		c.logger.WithError(authErr).Error("Kiwoom token issuance failed")
		return Token{}, authErr
	}

	lifetime := DefaultTokenLifetime
	if resp.ExpiresIn.Valid {
		lifetime = time.Duration(resp.ExpiresIn.Value) * time.Second
	}

	tok := Token{
		Value:     resp.Token,
		TokenType: resp.TokenType,
		ExpiresAt: c.now().Add(lifetime),
	}

	if err := c.store.Save(ctx, tok); err != nil {
		// 토큰 자체는 유효하므로 호출자에게는 반환
		c.logger.WithError(err).Warn("Failed to store Kiwoom token")
	}

	c.logger.WithFields(map[string]interface{}{
		"expires_in": int64(lifetime / time.Second),
		"expires_at": tok.ExpiresAt,
	}).Info("Kiwoom token issued")

	return tok, nil
}
