package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	hubErrors "github.com/huanfeng/wearhub-cli/internal/errors"
	"github.com/huanfeng/wearhub-cli/internal/i18n"
	"github.com/huanfeng/wearhub-cli/pkg/community"
)

var doctorJSON bool

type doctorReport struct {
	CacheDir    string                   `json:"cache_dir"`
	CacheError  string                   `json:"cache_error,omitempty"`
	Mirrors     []community.MirrorStatus `json:"mirrors"`
	Recommended string                   `json:"recommended,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: i18n.T("cmd.doctor.short"),
	Long:  i18n.T("cmd.doctor.long"),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := doctorReport{CacheDir: app.official.DownloadRoot()}
		if err := checkWritable(report.CacheDir); err != nil {
			report.CacheError = err.Error()
		}

		report.Mirrors = app.official.ProbeMirrors(cmd.Context())
		if best, ok := community.Fastest(report.Mirrors); ok {
			report.Recommended = best.Name
		}

		out := cmd.OutOrStdout()
		if doctorJSON {
			return printJSON(out, report)
		}
		if err := printDoctorReport(out, report); err != nil {
			return err
		}
		if report.Recommended == "" {
			return hubErrors.NewError(hubErrors.ErrorTypeNetwork, hubErrors.CodeNetwork, i18n.T("cmd.doctor.noMirror")).
				WithSuggestion(i18n.T("cmd.doctor.hint"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, i18n.T("flags.json"))
}

func printDoctorReport(w io.Writer, report doctorReport) error {
	status := i18n.T("cmd.doctor.ok")
	if report.CacheError != "" {
		status = report.CacheError
	}
	fmt.Fprintf(w, "%s: %s (%s)\n\n", i18n.T("cmd.doctor.cacheDir"), report.CacheDir, status)

	tw := newTable(w, "table.mirror", "table.status", "table.latency")
	for _, m := range report.Mirrors {
		code := "-"
		if m.StatusCode != 0 {
			code = strconv.Itoa(m.StatusCode)
		}
		if !m.Reachable && m.StatusCode == 0 {
			code = i18n.T("cmd.doctor.failed")
		}
		tableRow(tw, m.Name, code, m.Latency.Round(time.Millisecond).String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.Recommended != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, i18n.T("cmd.doctor.fastest")+"\n", report.Recommended, report.Recommended)
	}
	return nil
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
