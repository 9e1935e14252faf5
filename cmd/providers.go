package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/cdn"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: i18n.T("cmd.providers.short"),
	Long:  i18n.T("cmd.providers.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := newTable(cmd.OutOrStdout(), "table.provider", "table.state")
		for _, name := range app.registry.Names() {
			p, ok := app.registry.Get(name)
			if !ok {
				continue
			}
			tableRow(tw, name, p.State().String())
		}
		return tw.Flush()
	},
}

var cdnCmd = &cobra.Command{
	Use:   "cdn",
	Short: i18n.T("cmd.cdn.short"),
	Long:  i18n.T("cmd.cdn.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active := cdn.Parse(app.cfg.CDN)
		sample := cdn.RawPrefix + "owner/repo/main/index_v2.csv"

		tw := newTable(cmd.OutOrStdout(), "table.current", "table.mirror", "table.sample")
		for _, c := range cdn.All() {
			mark := ""
			if c == active {
				mark = "*"
			}
			tableRow(tw, mark, c.String(), c.Convert(sample))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(cdnCmd)
}
