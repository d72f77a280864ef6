package kiwoom

import (
	"context"
	"encoding/json"
	"time"
)

// adjustedPrice requests 수정주가 bars
const adjustedPrice = "1"

// FetchDailyChart calls ka10081 (주식일봉차트조회) for stockCode up to date
func (c *Client) FetchDailyChart(ctx context.Context, stockCode string, date time.Time) (*DailyChartResponse, error) {
	baseDate := c.FormatDate(date)
	log := c.logger.WithFields(map[string]interface{}{
		"api_id":     APIIDDailyChart,
		"stock_code": stockCode,
		"base_dt":    baseDate,
	})

	log.Info("Daily chart requested")

	req := dailyChartRequest{
		StockCode:         stockCode,
		BaseDate:          baseDate,
		AdjustedPriceType: adjustedPrice,
	}

	body, err := c.post(ctx, pathChart, APIIDDailyChart, req)
	if err != nil {
		log.WithError(err).Error("Daily chart request failed")
		return nil, err
	}

	var result DailyChartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		bErr := &BrokerError{APIID: APIIDDailyChart, Message: "decode response", Err: err}
		log.WithError(bErr).Error("Daily chart request failed")
		return nil, bErr
	}

	log.WithField("items", len(result.ChartItems)).Info("Daily chart fetched")

	return &result, nil
}
