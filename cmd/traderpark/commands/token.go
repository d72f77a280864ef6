package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "키움 접근토큰 발급/확인",
	Long: `캐시된 토큰이 유효하면 재사용하고, 아니면 새로 발급합니다.
토큰 값은 마스킹되어 출력됩니다.

Example:
  go run ./cmd/traderpark token`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	tokens := rt.kiwoom.Tokens()
	value, err := tokens.GetValidToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	tok, _ := tokens.Snapshot(cmd.Context())

	PrintHeader(cmd.OutOrStdout(), "Kiwoom Token",
		[2]string{"Token", maskToken(value)},
		[2]string{"Type", tok.TokenType},
		[2]string{"Expires", tok.ExpiresAt.In(rt.loc).Format(time.RFC3339)},
		[2]string{"Remaining", time.Until(tok.ExpiresAt).Truncate(time.Second).String()},
	)
	return nil
}
