package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huanfeng/wearhub-cli/internal/config"
	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/internal/version"
	"github.com/huanfeng/wearhub-cli/pkg/models"
	"github.com/huanfeng/wearhub-cli/pkg/utils"
)

// commands annotated with skipBootstrap run without loading the config
const skipBootstrap = "wearhub/skip-bootstrap"

var (
	cfgFile   string
	cdnFlag   string
	langFlag  string
	debugMode bool
	logFormat string

	app *appContext
)

var rootCmd = &cobra.Command{
	Use:           "wearhub",
	Short:         i18n.T("cmd.root.short"),
	Long:          i18n.T("cmd.root.long"),
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipBootstrap] != "" {
			return nil
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}
		app = newApp(cfg)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := i18n.Init(preferredLanguage(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "i18n: %v\n", err)
	}
	applyCommandLocalization()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and releases the app even when RunE fails
func execute(ctx context.Context) error {
	defer shutdown()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}

func shutdown() {
	if app != nil {
		app.close()
		app = nil
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", i18n.T("flags.config"))
	flags.StringVar(&cdnFlag, "cdn", "", i18n.T("flags.cdn"))
	flags.StringVar(&langFlag, "lang", "", i18n.T("flags.lang"))
	flags.BoolVar(&debugMode, "debug", false, i18n.T("flags.debug"))
	flags.StringVar(&logFormat, "log-format", "", i18n.T("flags.logFormat"))
}

func applyFlagOverrides(cmd *cobra.Command, cfg *models.Config) {
	if cdnFlag != "" {
		cfg.CDN = cdnFlag
	}
	if langFlag != "" {
		cfg.Lang = langFlag
	}
	if debugMode {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if f := cmd.Flags().Lookup("verify"); f != nil && f.Changed {
		cfg.VerifyChecksum = downloadVerify
	}
}

// preferredLanguage picks --lang from raw arguments, then the lang key of the
// config file. Flags are not parsed yet because help texts depend on it.
func preferredLanguage(args []string) string {
	if lang := scanFlag(args, "lang"); lang != "" {
		return lang
	}
	cfg, err := config.Load(scanFlag(args, "config"))
	if err != nil {
		return ""
	}
	return cfg.Lang
}

func scanFlag(args []string, name string) string {
	long := "--" + name
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == long && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, long+"="); ok {
			return v
		}
	}
	return ""
}

func printError(err error) {
	handler := hubErrors.NewErrorHandler(utils.L())
	if app != nil {
		handler = app.errs
	}
	handler.Handle(err)
	if hubErr, ok := hubErrors.As(err); ok {
		fmt.Fprint(os.Stderr, hubErr.FormatDetailed())
		return
	}
	fmt.Fprintf(os.Stderr, i18n.T("cmd.root.error")+"\n", err)
}
