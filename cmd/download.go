package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/community"
	"github.com/huanfeng/wearhub-cli/pkg/models"
	"github.com/huanfeng/wearhub-cli/pkg/utils"
)

var (
	downloadDevice     string
	downloadNoProgress bool
	downloadVerify     bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <id|name>",
	Short: i18n.T("cmd.download.short"),
	Long:  i18n.T("cmd.download.long"),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.ready(ctx); err != nil {
			return err
		}

		var onProgress community.ProgressFunc
		if !downloadNoProgress {
			bar := utils.NewProgressBar(cmd.ErrOrStderr(), fmt.Sprintf(i18n.T("cmd.download.progress"), args[0]))
			onProgress = func(p models.Progress) {
				if p.Status == models.StatusFinished {
					bar.Finish()
					return
				}
				bar.Update(p.Progress)
			}
		}

		dest, err := app.official.Download(ctx, args[0], downloadDevice, onProgress)
		if err != nil {
			if !downloadNoProgress {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cmd.download.done", map[string]interface{}{"path": dest}))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadDevice, "device", "d", "", i18n.T("flags.device"))
	downloadCmd.Flags().BoolVar(&downloadNoProgress, "no-progress", false, i18n.T("flags.noProgress"))
	downloadCmd.Flags().BoolVar(&downloadVerify, "verify", false, i18n.T("flags.verify"))
}
