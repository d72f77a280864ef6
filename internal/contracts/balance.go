package contracts

// DailyBalance is the public daily balance (일별잔고수익률) shape.
// Amounts stay as the broker's decimal strings.
// ⭐ SSOT: 잔고 API 응답 형태는 여기서만 정의
type DailyBalance struct {
	Date            string         `json:"date"`
	TotalBuyAmount  string         `json:"totalBuyAmount"`
	TotalEvalAmount string         `json:"totalEvalAmount"`
	TotalEvalProfit string         `json:"totalEvalProfit"`
	TotalProfitRate string         `json:"totalProfitRate"`
	DepositBalance  string         `json:"depositBalance"`
	DayStockAsset   string         `json:"dayStockAsset"`
	CashWeight      string         `json:"cashWeight"`
	Stocks          []StockBalance `json:"stocks"`
}

// StockBalance is one held position
type StockBalance struct {
	StockCode    string `json:"stockCode"`
	StockName    string `json:"stockName"`
	CurrentPrice string `json:"currentPrice"`
	Quantity     string `json:"quantity"`
	BuyPrice     string `json:"buyPrice"`
	EvalAmount   string `json:"evalAmount"`
	EvalProfit   string `json:"evalProfit"`
	ProfitRate   string `json:"profitRate"`
	BuyWeight    string `json:"buyWeight"`
	EvalWeight   string `json:"evalWeight"`
}
