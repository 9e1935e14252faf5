package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: i18n.T("cmd.categories.short"),
	Long:  i18n.T("cmd.categories.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.ready(ctx); err != nil {
			return err
		}
		categories, err := app.official.GetCategories(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if categoriesJSON {
			return printJSON(out, categories)
		}
		for _, c := range categories {
			fmt.Fprintln(out, c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, i18n.T("flags.json"))
}
