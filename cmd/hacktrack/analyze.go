package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/internal/report"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	teamKey  string
	knownCSV string
	startSno int
	asJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo-url>",
	Short: "Take one snapshot of a repository and print its commit rows",
	Long: `Take one snapshot of a repository and print its commit rows.

Accepts https, ssh, scp-like and bare owner/repo forms. Commits listed in
--known (and everything older) are not fetched again.

Examples:
  hacktrack analyze https://github.com/acme/widgets
  hacktrack analyze git@github.com:acme/widgets.git --start-sno 120
  hacktrack analyze acme/widgets --known 1f3c0e,9ab04d --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer()
		if err != nil {
			return err
		}

		spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Starting snapshot...")
		snap, err := analyzer.AnalyzeCommitHistory(cmd.Context(), teamKey, args[0], parseKnown(knownCSV),
			func(phase string, percent int, message string) {
				spinner.UpdateText(fmt.Sprintf("[%s %3d%%] %s", phase, percent, message))
			})
		_ = spinner.Stop()
		if err != nil {
			pterm.Error.Printf("Snapshot failed: %v\n", err)
			return err
		}

		rows := report.SnapshotRows(snap, startSno)
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Snapshot *models.RepoSnapshot `json:"snapshot"`
				Rows     []report.Row         `json:"rows"`
			}{snap, rows})
		}

		printSummary(snap)
		if len(rows) == 0 {
			pterm.Info.Println("No new commits")
			return nil
		}
		return renderRows(rows)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&teamKey, "team", "", "Team key recorded on the snapshot")
	analyzeCmd.Flags().StringVar(&knownCSV, "known", "", "Comma separated SHAs already collected")
	analyzeCmd.Flags().IntVar(&startSno, "start-sno", 1, "Serial number of the first printed row")
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot and rows as JSON")
}

func parseKnown(csv string) map[string]struct{} {
	known := make(map[string]struct{})
	for _, sha := range strings.Split(csv, ",") {
		if sha = strings.TrimSpace(sha); sha != "" {
			known[sha] = struct{}{}
		}
	}
	return known
}

func printSummary(snap *models.RepoSnapshot) {
	pterm.DefaultSection.Printf("%s/%s@%s", snap.Owner, snap.Repo, snap.Branch)
	pterm.Info.Printf("Total commits: %d | New: %d | README: %t\n", snap.TotalCommitsAtSnapshot, len(snap.Commits), snap.ReadmePresent)
	if snap.Languages != "" {
		pterm.Info.Printf("Languages: %s\n", snap.Languages)
	}
	pterm.Info.Printf("Snapshot at %s UTC\n", snap.SnapshotTimestampUTC)
}

func renderRows(rows []report.Row) error {
	data := pterm.TableData{report.Headers}
	for _, r := range rows {
		data = append(data, r.Values())
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
