package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/huanfeng/wearhub-cli/internal/i18n"
)

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
// Command texts live under cmd.<path>.short and cmd.<path>.long, flag texts
// under flags.<camelName>.
func applyCommandLocalization() {
	localizeCommand(rootCmd)
}

func localizeCommand(cmd *cobra.Command) {
	prefix := commandMessagePrefix(cmd)
	if msg, ok := lookup(prefix + ".short"); ok {
		cmd.Short = msg
	}
	if msg, ok := lookup(prefix + ".long"); ok {
		cmd.Long = msg
	}

	localize := func(f *pflag.Flag) {
		if msg, ok := lookup(flagMessageID(f.Name)); ok {
			f.Usage = msg
		}
	}
	cmd.Flags().VisitAll(localize)
	cmd.PersistentFlags().VisitAll(localize)

	for _, sub := range cmd.Commands() {
		localizeCommand(sub)
	}
}

// commandMessagePrefix maps "wearhub cache info" to cmd.cache.info and the
// root command to cmd.root
func commandMessagePrefix(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	if len(parts) <= 1 {
		return "cmd.root"
	}
	return "cmd." + strings.Join(parts[1:], ".")
}

// flagMessageID maps "no-progress" to flags.noProgress
func flagMessageID(name string) string {
	words := strings.Split(name, "-")
	for i := 1; i < len(words); i++ {
		if words[i] != "" {
			words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
		}
	}
	return "flags." + strings.Join(words, "")
}

func lookup(id string) (string, bool) {
	msg := i18n.T(id)
	return msg, msg != id
}
