package mapper

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hidvid/traderpark/backend/internal/contracts"
	"github.com/hidvid/traderpark/backend/internal/external/kiwoom"
)

var (
	tenThousand = decimal.NewFromInt(10000)
	hundred     = decimal.NewFromInt(100)
	half        = decimal.New(5, -1)
)

// DailyChart converts a ka10081 response to the public shape and derives
// the high/current prices and the drop rate from the retained bars.
func DailyChart(resp *kiwoom.DailyChartResponse) contracts.DailyChart {
	if resp == nil {
		return contracts.DailyChart{Items: []contracts.ChartItem{}}
	}

	items := make([]contracts.ChartItem, 0, len(resp.ChartItems))
	for _, bar := range resp.ChartItems {
		if strings.TrimSpace(bar.Date) == "" {
			continue
		}
		items = append(items, contracts.ChartItem{
			Date:        bar.Date,
			Open:        ParseAmount(bar.OpenPrice),
			High:        ParseAmount(bar.HighPrice),
			Low:         ParseAmount(bar.LowPrice),
			Close:       ParseAmount(bar.ClosePrice),
			Volume:      ParseAmount(bar.TradeQuantity),
			TradeAmount: ParseAmount(bar.TradeAmount),
			Change:      bar.Change,
			ChangeSign:  bar.ChangeSign,
		})
	}

	var highPrice, currentPrice int64
	for i, item := range items {
		if i == 0 || item.High > highPrice {
			highPrice = item.High
		}
	}
	if len(items) > 0 {
		currentPrice = items[0].Close
	}

	return contracts.DailyChart{
		StockCode:    resp.StockCode,
		HighPrice:    highPrice,
		CurrentPrice: currentPrice,
		DropRate:     DropRate(currentPrice, highPrice),
		Items:        items,
	}
}

// DropRate returns (current-high)/high*100 rounded to 2 places, half-up
// (ties toward positive infinity). A non-positive high yields 0.
func DropRate(current, high int64) float64 {
	if high <= 0 {
		return 0
	}

	// 백분율의 1/100 단위로 계산 후 반올림
	scaled := decimal.NewFromInt(current - high).Mul(tenThousand).Div(decimal.NewFromInt(high))
	rate, _ := scaled.Add(half).Floor().Div(hundred).Float64()
	return rate
}
