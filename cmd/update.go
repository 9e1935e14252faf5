package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: i18n.T("cmd.update.short"),
	Long:  i18n.T("cmd.update.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.refresh(ctx); err != nil {
			return err
		}

		total, err := app.official.GetTotalItems(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cmd.update.done", map[string]interface{}{
			"items": total,
			"cdn":   app.official.CDN().String(),
		}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
