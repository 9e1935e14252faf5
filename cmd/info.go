package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/imaging"
	"github.com/huanfeng/wearhub-cli/pkg/models"
)

var (
	infoJSON bool
	infoIcon string
)

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: i18n.T("cmd.info.short"),
	Long:  i18n.T("cmd.info.long"),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.ready(ctx); err != nil {
			return err
		}
		m, err := app.official.GetItemManifest(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if infoIcon != "" {
			if err := writeIconThumbnail(ctx, m.Item.Icon, infoIcon); err != nil {
				return err
			}
			defer fmt.Fprintf(out, i18n.T("cmd.info.iconSaved")+"\n", infoIcon)
		}

		if infoJSON {
			return printJSON(out, m)
		}
		return printManifest(out, m)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoJSON, "json", false, i18n.T("flags.json"))
	infoCmd.Flags().StringVar(&infoIcon, "icon", "", i18n.T("flags.icon"))
}

func printManifest(w io.Writer, m *models.Manifest) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	field := func(id, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", i18n.T(id), value)
		}
	}
	field("cmd.info.name", m.Item.Name)
	field("cmd.info.ident", m.Item.ID)
	field("cmd.info.type", string(m.Item.ResourceType))
	field("cmd.info.desc", m.Item.Description)

	authors := make([]string, 0, len(m.Item.Author))
	for _, a := range m.Item.Author {
		authors = append(authors, a.Name)
	}
	field("cmd.info.authors", strings.Join(authors, ", "))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(m.Links) > 0 {
		fmt.Fprintf(w, "\n%s:\n", i18n.T("cmd.info.links"))
		for _, l := range m.Links {
			fmt.Fprintf(w, "  %s  %s\n", l.Title, l.URL)
		}
	}

	if len(m.Downloads) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s:\n", i18n.T("cmd.info.downloads"))
	table := newTable(w, "table.device", "table.name", "table.version", "table.file")
	for _, key := range m.DownloadKeys() {
		dl := m.Downloads[key]
		display := ""
		if dl.DisplayName != nil {
			display = *dl.DisplayName
		}
		tableRow(table, key, display, dl.Version, dl.FileName)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	for _, key := range m.DownloadKeys() {
		logs := m.Downloads[key].SortedUpdateLogs()
		if len(logs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%s):\n", i18n.T("cmd.info.changes"), key)
		for _, l := range logs {
			fmt.Fprintf(w, "  %s  %s\n", l.Version, l.Content)
		}
	}
	return nil
}

func writeIconThumbnail(ctx context.Context, iconURL, dest string) error {
	if iconURL == "" {
		return hubErrors.NewNotFoundError(hubErrors.CodeItemNotFound, "item has no icon")
	}
	data, err := app.official.FetchAsset(ctx, iconURL)
	if err != nil {
		return err
	}

	ext := path.Ext(strings.SplitN(iconURL, "?", 2)[0])
	thumb, err := imaging.NewThumbnailer(0).Thumbnail(data, ext)
	if err != nil {
		return hubErrors.NewParsingError(err, "failed to render icon").WithContext("url", iconURL)
	}
	if err := os.WriteFile(dest, thumb, 0644); err != nil {
		return hubErrors.NewFileSystemError(err, "failed to write thumbnail").WithContext("path", dest)
	}
	app.logger.Debug("icon thumbnail written", zap.String("url", iconURL), zap.String("path", dest))
	return nil
}
