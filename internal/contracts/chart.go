package contracts

// DailyChart is the public daily chart (일봉) shape with derived metrics.
// Items keep the broker order, most recent first.
// ⭐ SSOT: 차트 API 응답 형태는 여기서만 정의
type DailyChart struct {
	StockCode    string      `json:"stockCode"`
	HighPrice    int64       `json:"highPrice"`    // 조회 구간 최고가
	CurrentPrice int64       `json:"currentPrice"` // 최근 종가
	DropRate     float64     `json:"dropRate"`     // 고점 대비 하락률 (%)
	Items        []ChartItem `json:"items"`
}

// ChartItem is one daily bar
type ChartItem struct {
	Date        string `json:"date"`
	Open        int64  `json:"open"`
	High        int64  `json:"high"`
	Low         int64  `json:"low"`
	Close       int64  `json:"close"`
	Volume      int64  `json:"volume"`
	TradeAmount int64  `json:"tradeAmount"`
	Change      string `json:"change"`
	ChangeSign  string `json:"changeSign"`
}

// Latest returns the most recent bar
func (c *DailyChart) Latest() (ChartItem, bool) {
	if len(c.Items) == 0 {
		return ChartItem{}, false
	}
	return c.Items[0], true
}
