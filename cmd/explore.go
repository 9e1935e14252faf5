package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: i18n.T("cmd.explore.short"),
	Long:  i18n.T("cmd.explore.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ready(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var feed any
		if err := sonic.Unmarshal(app.official.Explore(), &feed); err != nil {
			return hubErrors.NewParsingError(err, "failed to decode explore feed")
		}
		if feed == nil {
			fmt.Fprintln(out, i18n.T("cmd.explore.empty"))
			return nil
		}
		return printJSON(out, feed)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
