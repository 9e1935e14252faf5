package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

// listOptions is shared by list and search
type listOptions struct {
	page     int
	limit    int
	sort     string
	category []string
	json     bool
}

var (
	listOpts   listOptions
	searchOpts listOptions
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: i18n.T("cmd.list.short"),
	Long:  i18n.T("cmd.list.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd, listOpts, nil)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: i18n.T("cmd.search.short"),
	Long:  i18n.T("cmd.search.long"),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := args[0]
		return runListing(cmd, searchOpts, &keyword)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)

	addListFlags(listCmd, &listOpts)
	addListFlags(searchCmd, &searchOpts)
}

func addListFlags(cmd *cobra.Command, opts *listOptions) {
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, i18n.T("flags.page"))
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, i18n.T("flags.limit"))
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", string(models.SortTime), i18n.T("flags.sort"))
	cmd.Flags().StringSliceVarP(&opts.category, "category", "c", nil, i18n.T("flags.category"))
	cmd.Flags().BoolVar(&opts.json, "json", false, i18n.T("flags.json"))
}

func runListing(cmd *cobra.Command, opts listOptions, filter *string) error {
	rule, err := models.ParseSortRule(opts.sort)
	if err != nil {
		return hubErrors.NewValidationError(hubErrors.CodeInvalidArgument, err.Error())
	}
	if opts.page < 1 {
		return hubErrors.NewValidationError(hubErrors.CodeInvalidArgument,
			fmt.Sprintf("page must be 1 or greater, got %d", opts.page))
	}
	limit := opts.limit
	if limit <= 0 {
		limit = app.cfg.PageSize
	}

	ctx := cmd.Context()
	if err := app.ready(ctx); err != nil {
		return err
	}

	search := models.SearchConfig{Filter: filter, Sort: rule, Category: opts.category}
	items, err := app.official.GetPage(ctx, opts.page-1, limit, search)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return printJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, i18n.T("cmd.list.empty"))
		return nil
	}

	tw := newTable(out, "table.ident", "table.name", "table.type", "table.cover")
	for _, m := range items {
		tableRow(tw, m.Item.ID, truncate(m.Item.Name, 40), string(m.Item.ResourceType), m.Item.Cover)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	total, err := app.official.GetTotalItems(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, i18n.T("cmd.list.footer")+"\n", opts.page, len(items), total)
	return nil
}
