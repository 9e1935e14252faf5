package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/utils"
)

var (
	cacheJSON      bool
	cacheYes       bool
	pruneOlderThan time.Duration
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: i18n.T("cmd.cache.short"),
	Long:  i18n.T("cmd.cache.long"),
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: i18n.T("cmd.cache.info.short"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := app.cacheDir()
		items, err := dir.Items()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cacheJSON {
			return printJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, i18n.T("cmd.cache.empty"))
			return nil
		}

		tw := newTable(out, "table.ident", "table.files", "table.size")
		for _, item := range items {
			tableRow(tw, item.ID, strconv.Itoa(len(item.Files)), utils.FormatBytes(item.Size))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		stats, err := dir.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, i18n.T("cmd.cache.summary")+"\n",
			stats.Items, stats.Files, stats.PartialFiles, utils.FormatBytes(stats.TotalSize), stats.Root)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [id]",
	Short: i18n.T("cmd.cache.clear.short"),
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := app.cacheDir()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			if err := dir.ClearItem(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, i18n.T("cmd.cache.itemCleared")+"\n", args[0])
			return nil
		}

		if !cacheYes {
			fmt.Fprint(out, i18n.T("cmd.cache.clear.confirm"))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.TrimSpace(answer)
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(out, i18n.T("cmd.cache.clear.cancel"))
				return nil
			}
		}

		removed, err := dir.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, i18n.T("cmd.cache.cleared")+"\n", removed)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: i18n.T("cmd.cache.prune.short"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := app.cacheDir().Prune(pruneOlderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), i18n.T("cmd.cache.pruned")+"\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	cacheInfoCmd.Flags().BoolVar(&cacheJSON, "json", false, i18n.T("flags.json"))
	cacheClearCmd.Flags().BoolVarP(&cacheYes, "yes", "y", false, i18n.T("flags.yes"))
	cachePruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 24*time.Hour, i18n.T("flags.olderThan"))
}
