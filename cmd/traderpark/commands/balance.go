package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hidvid/traderpark/backend/internal/mapper"
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "일별 잔고수익률 조회 (ka01690)",
	Long: `키움 일별잔고수익률을 조회하여 API와 동일한 JSON으로 출력합니다.

Example:
  go run ./cmd/traderpark balance
  go run ./cmd/traderpark balance --date 20250102`,
	Args: cobra.NoArgs,
	RunE: runBalance,
}

var (
	balanceDate string
)

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceDate, "date", "", "조회일 yyyyMMdd (기본값: 오늘)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	date, err := parseDateFlag(balanceDate, rt.loc, time.Now())
	if err != nil {
		return err
	}

	resp, err := rt.kiwoom.FetchDailyBalance(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("fetch daily balance: %w", err)
	}

	out := cmd.OutOrStdout()
	PrintHeader(out, "Daily Balance", [2]string{"Date", date.Format(dateLayout)})
	return printJSON(out, mapper.DailyBalance(resp))
}
