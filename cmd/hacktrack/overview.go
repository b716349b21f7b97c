package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/internal/config"
	"github.com/KOFI-GYIMAH/hacktrack/internal/report"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	track        string
	members      string
	overviewJSON bool
)

var overviewCmd = &cobra.Command{
	Use:   "overview <[team=]repo-url>...",
	Short: "Print a one-page overview row per team repository",
	Long: `Print a one-page overview row per team repository: visibility, default
branch, commits on the first page, last commit, recent messages, README and
top languages. A team name can prefix the url as team=url.

Examples:
  hacktrack overview alpha=https://github.com/acme/widgets beta=acme/gadgets
  hacktrack overview acme/widgets --track AI --members "Ada, Linus" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := config.ParseRepositories(strings.Join(args, ","))
		if err != nil {
			return err
		}

		analyzer, err := newAnalyzer()
		if err != nil {
			return err
		}

		rows := make([]report.OverviewRow, 0, len(targets))
		failed := 0
		for _, target := range targets {
			spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(fmt.Sprintf("Analyzing %s...", target.RepoURL))
			analysis, err := analyzer.Analyze(cmd.Context(), target.TeamKey, target.RepoURL, track, members,
				func(phase string, percent int, message string) {
					spinner.UpdateText(fmt.Sprintf("[%s %3d%%] %s", phase, percent, message))
				})
			_ = spinner.Stop()
			if err != nil {
				pterm.Error.Printf("%s: %v\n", target.RepoURL, err)
				failed++
				continue
			}
			rows = append(rows, report.Overview(analysis))
		}

		if overviewJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rows); err != nil {
				return err
			}
		} else if len(rows) > 0 {
			if err := renderOverview(rows); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d repositories failed", failed, len(targets))
		}
		return nil
	},
}

func init() {
	overviewCmd.Flags().StringVar(&track, "track", "", "Track recorded on every row")
	overviewCmd.Flags().StringVar(&members, "members", "", "Members recorded on every row")
	overviewCmd.Flags().BoolVar(&overviewJSON, "json", false, "Print the rows as JSON")
}

func renderOverview(rows []report.OverviewRow) error {
	data := pterm.TableData{report.OverviewHeaders}
	for _, r := range rows {
		data = append(data, r.Values())
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
