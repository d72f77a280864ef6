package kiwoom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidvid/traderpark/backend/pkg/config"
	"github.com/hidvid/traderpark/backend/pkg/httputil"
	"github.com/hidvid/traderpark/backend/pkg/logger"
)

const balanceFixture = `{
	"return_code": 0,
	"return_msg": "정상적으로 처리되었습니다",
	"dt": "20250102",
	"tot_buy_amt": "1000000",
	"tot_evlt_amt": "1100000",
	"tot_evltv_prft": "100000",
	"tot_prft_rt": "10.00",
	"dbst_bal": "500000",
	"day_stk_asst": "1600000",
	"buy_wght": "31.25",
	"day_bal_rt": [
		{"stk_cd": "005930", "stk_nm": "삼성전자", "cur_prc": "55000", "rmnd_qty": "20", "buy_uv": "50000",
		 "evlt_amt": "1100000", "evltv_prft": "100000", "prft_rt": "10.00", "buy_wght": "100.00", "evlt_wght": "100.00"},
		{"stk_cd": "", "stk_nm": "", "cur_prc": "", "rmnd_qty": "", "buy_uv": "",
		 "evlt_amt": "", "evltv_prft": "", "prft_rt": "", "buy_wght": "", "evlt_wght": ""}
	]
}`

const chartFixture = `{
	"return_code": 0,
	"return_msg": "정상적으로 처리되었습니다",
	"stk_cd": "005930",
	"stk_dt_pole_chart_qry": [
		{"dt": "20250102", "open_pric": "54,000", "high_pric": "55,500", "low_pric": "53,900", "cur_prc": "+55,000",
		 "trde_qty": "12,345,678", "trde_prica": "678,900", "pred_pre": "+1000", "pred_pre_sig": "2"},
		{"dt": "20241231", "open_pric": "53000", "high_pric": "54500", "low_pric": "52800", "cur_prc": "54000",
		 "trde_qty": "9876543", "trde_prica": "530000", "pred_pre": "-500", "pred_pre_sig": "5"}
	]
}`

// fakeBroker is an httptest server speaking the Kiwoom REST contract
type fakeBroker struct {
	tokenCalls int32
	dataCalls  int32

	tokenHandler http.HandlerFunc
	dataHandler  http.HandlerFunc
}

func (f *fakeBroker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case pathToken:
		atomic.AddInt32(&f.tokenCalls, 1)
		if f.tokenHandler != nil {
			f.tokenHandler(w, r)
			return
		}
		w.Write([]byte(`{"token":"tok-1","token_type":"bearer","expires_in":86400,"return_code":0,"return_msg":"ok"}`))
	case pathAcnt, pathChart:
		atomic.AddInt32(&f.dataCalls, 1)
		f.dataHandler(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, broker *fakeBroker) *Client {
	t.Helper()

	server := httptest.NewServer(broker)
	t.Cleanup(server.Close)

	cfg := config.KiwoomConfig{
		AppKey:    "app-key",
		SecretKey: "secret-key",
		BaseURL:   server.URL,
	}
	log := logger.Nop()
	httpClient := httputil.NewWithTimeouts(time.Second, 2*time.Second, log)

	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	return NewClient(cfg, httpClient, NewMemoryTokenStore(), seoul, log)
}

func respond(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestIssueToken_RequestShape(t *testing.T) {
	broker := &fakeBroker{
		tokenHandler: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{
				"grant_type": "client_credentials",
				"appkey":     "app-key",
				"secretkey":  "secret-key",
			}, body)
			w.Write([]byte(`{"token":"tok-1","token_type":"bearer","expires_in":600}`))
		},
	}
	client := newTestClient(t, broker)

	tok, err := client.Tokens().GetValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
}

func TestFetchDailyBalance(t *testing.T) {
	broker := &fakeBroker{
		dataHandler: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, pathAcnt, r.URL.Path)
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			assert.Equal(t, APIIDDailyBalance, r.Header.Get("api-id"))
			assert.Equal(t, "application/json;charset=UTF-8", r.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"qry_dt": "20250102"}, body)

			respond(balanceFixture, http.StatusOK)(w, r)
		},
	}
	client := newTestClient(t, broker)

	// 2025-01-01 20:00 UTC is already 2025-01-02 in Seoul
	date := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	resp, err := client.FetchDailyBalance(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, "20250102", resp.Date)
	assert.Equal(t, "1100000", resp.TotalEvalAmount)
	assert.Equal(t, "31.25", resp.BuyWeight)
	require.Len(t, resp.StockBalances, 2)
	assert.Equal(t, "삼성전자", resp.StockBalances[0].StockName)
	assert.Equal(t, "20", resp.StockBalances[0].RemainQuantity)
}

func TestFetchDailyChart(t *testing.T) {
	broker := &fakeBroker{
		dataHandler: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, pathChart, r.URL.Path)
			assert.Equal(t, APIIDDailyChart, r.Header.Get("api-id"))
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{
				"stk_cd":       "005930",
				"base_dt":      "20250102",
				"upd_stkpc_tp": "1",
			}, body)

			respond(chartFixture, http.StatusOK)(w, r)
		},
	}
	client := newTestClient(t, broker)

	seoul, _ := time.LoadLocation("Asia/Seoul")
	resp, err := client.FetchDailyChart(context.Background(), "005930", time.Date(2025, 1, 2, 15, 30, 0, 0, seoul))
	require.NoError(t, err)

	assert.Equal(t, "005930", resp.StockCode)
	require.Len(t, resp.ChartItems, 2)
	assert.Equal(t, "+55,000", resp.ChartItems[0].ClosePrice)
	assert.Equal(t, "20241231", resp.ChartItems[1].Date)
}

func TestTokenReusedAcrossCalls(t *testing.T) {
	broker := &fakeBroker{dataHandler: respond(chartFixture, http.StatusOK)}
	client := newTestClient(t, broker)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.FetchDailyChart(ctx, "005930", fixedNow)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&broker.tokenCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(&broker.dataCalls))
}

func TestNonZeroReturnCode_NotRetried(t *testing.T) {
	broker := &fakeBroker{dataHandler: respond(`{"return_code":1,"return_msg":"invalid date"}`, http.StatusOK)}
	client := newTestClient(t, broker)

	_, err := client.FetchDailyBalance(context.Background(), fixedNow)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, APIIDDailyBalance, brokerErr.APIID)
	assert.Equal(t, 1, brokerErr.ReturnCode)
	assert.Equal(t, "invalid date", brokerErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&broker.dataCalls))
}

func TestReturnCodeDecidesOverHTTPStatus(t *testing.T) {
	body := `{"return_code":"0","return_msg":"ok","stk_cd":"000660","stk_dt_pole_chart_qry":[]}`
	broker := &fakeBroker{dataHandler: respond(body, http.StatusInternalServerError)}
	client := newTestClient(t, broker)

	resp, err := client.FetchDailyChart(context.Background(), "000660", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "000660", resp.StockCode)
	assert.Empty(t, resp.ChartItems)
}

func TestEmptyBody(t *testing.T) {
	broker := &fakeBroker{dataHandler: respond("", http.StatusOK)}
	client := newTestClient(t, broker)

	_, err := client.FetchDailyBalance(context.Background(), fixedNow)

	var brokerErr *BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, MsgNoResponse, brokerErr.Message)
}

func TestTokenIssuanceFailure(t *testing.T) {
	broker := &fakeBroker{
		tokenHandler: respond(`{"return_code":3,"return_msg":"인증에 실패했습니다"}`, http.StatusUnauthorized),
		dataHandler:  respond(balanceFixture, http.StatusOK),
	}
	client := newTestClient(t, broker)

	_, err := client.FetchDailyBalance(context.Background(), fixedNow)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "인증에 실패했습니다", authErr.Message)
	assert.Equal(t, int32(0), atomic.LoadInt32(&broker.dataCalls))
}

func TestTokenMissingField(t *testing.T) {
	broker := &fakeBroker{
		tokenHandler: respond(`{"token_type":"bearer","expires_in":86400}`, http.StatusOK),
		dataHandler:  respond(balanceFixture, http.StatusOK),
	}
	client := newTestClient(t, broker)

	_, err := client.FetchDailyChart(context.Background(), "005930", fixedNow)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&broker.dataCalls))
}

func TestBrokerUnreachable(t *testing.T) {
	log := logger.Nop()
	client := NewClient(config.KiwoomConfig{BaseURL: "http://127.0.0.1:1"},
		httputil.NewWithTimeouts(200*time.Millisecond, 200*time.Millisecond, log), nil, time.UTC, log)

	_, err := client.FetchDailyBalance(context.Background(), fixedNow)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestCheckReturnCode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantMsg  string
		wantCode int
	}{
		{"numeric zero", `{"return_code":0}`, false, "", 0},
		{"string zero", `{"return_code":"0"}`, false, "", 0},
		{"non-zero", `{"return_code":1,"return_msg":"invalid date"}`, true, "invalid date", 1},
		{"non-zero string", `{"return_code":" 2 ","return_msg":"x"}`, true, "x", 2},
		{"non-zero no msg", `{"return_code":5}`, true, "broker returned an error", 5},
		{"missing code", `{"return_msg":"oops"}`, true, "oops", 0},
		{"missing everything", `{}`, true, "missing return_code", 0},
		{"null code", `{"return_code":null}`, true, "missing return_code", 0},
		{"garbage code", `{"return_code":"abc"}`, true, "missing return_code", 0},
		{"empty", ``, true, MsgNoResponse, 0},
		{"whitespace", " \n", true, MsgNoResponse, 0},
		{"not json", `<html>502</html>`, true, "invalid response body", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkReturnCode("ka10081", http.StatusOK, []byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var brokerErr *BrokerError
			require.ErrorAs(t, err, &brokerErr)
			assert.Equal(t, tt.wantMsg, brokerErr.Message)
			assert.Equal(t, tt.wantCode, brokerErr.ReturnCode)
			assert.Equal(t, "ka10081", brokerErr.APIID)
		})
	}
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "kiwoom ka01690: invalid date (return_code=1)",
		(&BrokerError{APIID: "ka01690", ReturnCode: 1, Message: "invalid date"}).Error())
	assert.Equal(t, "kiwoom token issuance failed: response has no token",
		(&AuthError{Message: "response has no token"}).Error())
	assert.Equal(t, "kiwoom token issuance failed: denied (status 401)",
		(&AuthError{StatusCode: 401, Message: "denied"}).Error())
}

func TestIssueToken_QuotedExpiresIn(t *testing.T) {
	broker := &fakeBroker{
		tokenHandler: respond(`{"token":"tok-1","token_type":"bearer","expires_in":"86400","return_code":0}`, http.StatusOK),
		dataHandler:  respond(balanceFixture, http.StatusOK),
	}
	client := newTestClient(t, broker)

	_, err := client.FetchDailyBalance(context.Background(), fixedNow)
	require.NoError(t, err)

	tok, ok := client.Tokens().Snapshot(context.Background())
	require.True(t, ok)
	assert.InDelta(t, (24 * time.Hour).Seconds(), time.Until(tok.ExpiresAt).Seconds(), 60)
}

func TestNewClient_NilLogger(t *testing.T) {
	broker := &fakeBroker{dataHandler: respond(chartFixture, http.StatusOK)}
	srv := httptest.NewServer(broker)
	defer srv.Close()

	client := NewClient(config.KiwoomConfig{BaseURL: srv.URL, AppKey: "app-key", SecretKey: "secret-key"},
		httputil.NewWithTimeouts(time.Second, time.Second, logger.Nop()), nil, time.UTC, nil)

	_, err := client.FetchDailyChart(context.Background(), "005930", fixedNow)
	require.NoError(t, err)
}

func TestSecondsUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Seconds
		wantErr bool
	}{
		{"number", `{"expires_in":86400}`, Seconds{Value: 86400, Valid: true}, false},
		{"quoted", `{"expires_in":"86400"}`, Seconds{Value: 86400, Valid: true}, false},
		{"quoted with spaces", `{"expires_in":" 600 "}`, Seconds{Value: 600, Valid: true}, false},
		{"null", `{"expires_in":null}`, Seconds{}, false},
		{"empty string", `{"expires_in":""}`, Seconds{}, false},
		{"absent", `{}`, Seconds{}, false},
		{"garbage", `{"expires_in":"soon"}`, Seconds{}, true},
		{"object", `{"expires_in":{}}`, Seconds{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp TokenResponse
			err := json.Unmarshal([]byte(tt.input), &resp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.ExpiresIn)
		})
	}
}
