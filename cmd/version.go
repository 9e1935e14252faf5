package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       i18n.T("cmd.version.short"),
	Long:        i18n.T("cmd.version.long"),
	Annotations: map[string]string{skipBootstrap: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
