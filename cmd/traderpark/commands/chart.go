package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hidvid/traderpark/backend/internal/mapper"
)

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart <code>",
	Short: "일봉 차트 조회 (ka10081)",
	Long: `종목 일봉 차트를 조회하여 고점/현재가/고점대비 하락률과 함께 출력합니다.

Example:
  go run ./cmd/traderpark chart 005930
  go run ./cmd/traderpark chart 005930 --date 20250102`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartDate string
)

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVar(&chartDate, "date", "", "기준일 yyyyMMdd (기본값: 오늘)")
}

func runChart(cmd *cobra.Command, args []string) error {
	code := strings.TrimSpace(args[0])
	if code == "" {
		return fmt.Errorf("stock code is required")
	}

	rt, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	date, err := parseDateFlag(chartDate, rt.loc, time.Now())
	if err != nil {
		return err
	}

	resp, err := rt.kiwoom.FetchDailyChart(cmd.Context(), code, date)
	if err != nil {
		return fmt.Errorf("fetch daily chart: %w", err)
	}

	chart := mapper.DailyChart(resp)

	latestDate := "-"
	if latest, ok := chart.Latest(); ok {
		latestDate = latest.Date
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Daily Chart",
		[2]string{"Code", chart.StockCode},
		[2]string{"Date", date.Format(dateLayout)},
		[2]string{"Latest", latestDate},
		[2]string{"High", fmt.Sprintf("%d", chart.HighPrice)},
		[2]string{"Current", fmt.Sprintf("%d", chart.CurrentPrice)},
		[2]string{"Drop", fmt.Sprintf("%.2f%%", chart.DropRate)},
	)
	return printJSON(out, chart)
}
