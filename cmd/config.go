package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/config"
	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: i18n.T("cmd.config.short"),
	Long:  i18n.T("cmd.config.long"),
}

var configInitCmd = &cobra.Command{
	Use:         "init [path]",
	Short:       i18n.T("cmd.config.init.short"),
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipBootstrap: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.FileName + ".yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return hubErrors.NewValidationError(hubErrors.CodeInvalidArgument,
				fmt.Sprintf(i18n.T("cmd.config.exists"), path))
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return hubErrors.NewFileSystemError(err, "failed to check config path").WithContext("path", path)
		}

		if err := config.SaveTemplate(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), i18n.T("cmd.config.written")+"\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, i18n.T("flags.force"))
}
