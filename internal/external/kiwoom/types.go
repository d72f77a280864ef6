package kiwoom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ============================================================
// Request Bodies
// ============================================================

// tokenRequest represents the au10001 token issuance body
type tokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	SecretKey string `json:"secretkey"`
}

// dailyBalanceRequest represents the ka01690 body
type dailyBalanceRequest struct {
	QueryDate string `json:"qry_dt"` // 조회일자 yyyyMMdd
}

// dailyChartRequest represents the ka10081 body
type dailyChartRequest struct {
	StockCode         string `json:"stk_cd"`       // 종목코드
	BaseDate          string `json:"base_dt"`      // 기준일자 yyyyMMdd
	AdjustedPriceType string `json:"upd_stkpc_tp"` // 수정주가구분 (1: 수정주가)
}

// ============================================================
// Responses
// ============================================================

// TokenResponse represents the OAuth-style token issuance response
type TokenResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresIn Seconds `json:"expires_in"` // Valid=false when omitted
	ReturnMsg string  `json:"return_msg"`
}

// Seconds is a duration in seconds that the broker may send either as a
// JSON number or as a numeric string. null, "" and absence leave it unset.
type Seconds struct {
	Value int64
	Valid bool
}

// UnmarshalJSON accepts 86400, "86400", null and ""
func (s *Seconds) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)

	switch r.Type {
	case gjson.Null:
		*s = Seconds{}
	case gjson.Number:
		*s = Seconds{Value: r.Int(), Valid: true}
	case gjson.String:
		raw := strings.TrimSpace(r.Str)
		if raw == "" {
			*s = Seconds{}
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("seconds %q: %w", r.Str, err)
		}
		*s = Seconds{Value: n, Valid: true}
	default:
		return fmt.Errorf("seconds: unexpected JSON %s", string(data))
	}

	return nil
}

// DailyBalanceResponse represents the ka01690 (일별잔고수익률) response.
// Amounts are kept as the broker's decimal strings.
type DailyBalanceResponse struct {
	ReturnMsg       string         `json:"return_msg"`
	Date            string         `json:"dt"`             // 일자
	TotalBuyAmount  string         `json:"tot_buy_amt"`    // 총 매입가
	TotalEvalAmount string         `json:"tot_evlt_amt"`   // 총 평가금액
	TotalEvalProfit string         `json:"tot_evltv_prft"` // 총 평가손익
	TotalProfitRate string         `json:"tot_prft_rt"`    // 수익률
	DepositBalance  string         `json:"dbst_bal"`       // 예수금
	DayStockAsset   string         `json:"day_stk_asst"`   // 추정자산
	BuyWeight       string         `json:"buy_wght"`       // 현금비중 (broker field name says 매입비중)
	StockBalances   []StockBalance `json:"day_bal_rt"`     // 일별잔고수익률 목록
}

// StockBalance represents one held position in a ka01690 response
type StockBalance struct {
	StockCode      string `json:"stk_cd"`     // 종목코드
	StockName      string `json:"stk_nm"`     // 종목명
	CurrentPrice   string `json:"cur_prc"`    // 현재가
	RemainQuantity string `json:"rmnd_qty"`   // 보유수량
	BuyUnitPrice   string `json:"buy_uv"`     // 매입단가
	EvalAmount     string `json:"evlt_amt"`   // 평가금액
	EvalProfit     string `json:"evltv_prft"` // 평가손익
	ProfitRate     string `json:"prft_rt"`    // 수익률
	BuyWeight      string `json:"buy_wght"`   // 매입비중
	EvalWeight     string `json:"evlt_wght"`  // 평가비중
}

// DailyChartResponse represents the ka10081 (주식일봉차트) response.
// Bars arrive most recent first.
type DailyChartResponse struct {
	ReturnMsg  string      `json:"return_msg"`
	StockCode  string      `json:"stk_cd"`
	ChartItems []ChartItem `json:"stk_dt_pole_chart_qry"`
}

// ChartItem represents one daily bar; numeric cells are raw strings
// that may carry thousands separators or a leading sign.
type ChartItem struct {
	Date          string `json:"dt"`           // 일자
	OpenPrice     string `json:"open_pric"`    // 시가
	HighPrice     string `json:"high_pric"`    // 고가
	LowPrice      string `json:"low_pric"`     // 저가
	ClosePrice    string `json:"cur_prc"`      // 현재가(종가)
	TradeQuantity string `json:"trde_qty"`     // 거래량
	TradeAmount   string `json:"trde_prica"`   // 거래대금
	Change        string `json:"pred_pre"`     // 전일대비
	ChangeSign    string `json:"pred_pre_sig"` // 전일대비기호
}
