package mapper

import (
	"strings"

	"github.com/hidvid/traderpark/backend/internal/contracts"
	"github.com/hidvid/traderpark/backend/internal/external/kiwoom"
)

// DailyBalance converts a ka01690 response to the public shape.
// Lines with a blank stock code are placeholders and are dropped.
func DailyBalance(resp *kiwoom.DailyBalanceResponse) contracts.DailyBalance {
	if resp == nil {
		return contracts.DailyBalance{Stocks: []contracts.StockBalance{}}
	}

	stocks := make([]contracts.StockBalance, 0, len(resp.StockBalances))
	for _, b := range resp.StockBalances {
		if strings.TrimSpace(b.StockCode) == "" {
			continue
		}
		stocks = append(stocks, contracts.StockBalance{
			StockCode:    b.StockCode,
			StockName:    b.StockName,
			CurrentPrice: b.CurrentPrice,
			Quantity:     b.RemainQuantity,
			BuyPrice:     b.BuyUnitPrice,
			EvalAmount:   b.EvalAmount,
			EvalProfit:   b.EvalProfit,
			ProfitRate:   b.ProfitRate,
			BuyWeight:    b.BuyWeight,
			EvalWeight:   b.EvalWeight,
		})
	}

	return contracts.DailyBalance{
		Date:            resp.Date,
		TotalBuyAmount:  resp.TotalBuyAmount,
		TotalEvalAmount: resp.TotalEvalAmount,
		TotalEvalProfit: resp.TotalEvalProfit,
		TotalProfitRate: resp.TotalProfitRate,
		DepositBalance:  resp.DepositBalance,
		DayStockAsset:   resp.DayStockAsset,
		// broker's buy_wght is exposed as the cash weight
		CashWeight: resp.BuyWeight,
		Stocks:     stocks,
	}
}
