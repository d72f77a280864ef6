package kiwoom

import (
	"context"
	"encoding/json"
	"time"
)

// FetchDailyBalance calls ka01690 (일별잔고수익률) for the given date
func (c *Client) FetchDailyBalance(ctx context.Context, date time.Time) (*DailyBalanceResponse, error) {
	queryDate := c.FormatDate(date)
	log := c.logger.WithFields(map[string]interface{}{
		"api_id": APIIDDailyBalance,
		"qry_dt": queryDate,
	})

	log.Info("Daily balance requested")

	body, err := c.post(ctx, pathAcnt, APIIDDailyBalance, dailyBalanceRequest{QueryDate: queryDate})
	if err != nil {
		log.WithError(err).Error("Daily balance request failed")
		return nil, err
	}

	var result DailyBalanceResponse
	if err := json.Unmarshal(body, &result); err != nil {
		bErr := &BrokerError{APIID: APIIDDailyBalance, Message: "decode response", Err: err}
		log.WithError(bErr).Error("Daily balance request failed")
		return nil, bErr
	}

	log.WithFields(map[string]interface{}{
		"total_eval_amount": result.TotalEvalAmount,
		"total_profit_rate": result.TotalProfitRate,
		"positions":         len(result.StockBalances),
	}).Info("Daily balance fetched")

	return &result, nil
}
