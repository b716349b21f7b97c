package report

import (
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
)

const commitTimestampLayout = "2006-01-02T15:04:05Z"

// Headers is the fixed column order of a commit history sheet.
var Headers = []string{
	"Sno",
	"Commit Date",
	"Commit Time",
	"Commit Message",
	"Total Lines",
	"Total Files",
	"Languages",
	"Snapshot Timestamp",
}

// Row is one commit rendered for a sheet.
type Row struct {
	Sno               int    `json:"sno"`
	CommitDate        string `json:"commit_date"`
	CommitTime        string `json:"commit_time"`
	CommitMessage     string `json:"commit_message"`
	TotalLines        int    `json:"total_lines"`
	TotalFiles        int    `json:"total_files"`
	Languages         string `json:"languages"`
	SnapshotTimestamp string `json:"snapshot_timestamp"`
}

// Values returns the row in Headers order.
func (r Row) Values() []string {
	return []string{
		strconv.Itoa(r.Sno),
		r.CommitDate,
		r.CommitTime,
		r.CommitMessage,
		strconv.Itoa(r.TotalLines),
		strconv.Itoa(r.TotalFiles),
		r.Languages,
		r.SnapshotTimestamp,
	}
}

// SplitCommitTimestamp splits a UTC commit timestamp into date and time.
// Unparseable input comes back whole as the date with an empty time.
func SplitCommitTimestamp(s string) (date, clock string) {
	t, err := time.Parse(commitTimestampLayout, s)
	if err != nil {
		return s, ""
	}
	return t.Format("2006-01-02"), t.Format("15:04:05")
}

// SnapshotRows renders a snapshot's commits, oldest first, numbering from startSno.
func SnapshotRows(snap *models.RepoSnapshot, startSno int) []Row {
	if snap == nil {
		return nil
	}

	rows := make([]Row, 0, len(snap.Commits))
	for i, c := range snap.Commits {
		date, clock := SplitCommitTimestamp(c.DateUTC)
		rows = append(rows, Row{
			Sno:               startSno + i,
			CommitDate:        date,
			CommitTime:        clock,
			CommitMessage:     c.Message,
			TotalLines:        c.TotalLines,
			TotalFiles:        c.TotalFiles,
			Languages:         snap.Languages,
			SnapshotTimestamp: snap.SnapshotTimestampUTC,
		})
	}
	return rows
}

// StoredRows renders persisted commits, keeping their stored serial numbers.
func StoredRows(commits []models.Commit) []Row {
	rows := make([]Row, 0, len(commits))
	for _, c := range commits {
		date, clock := SplitCommitTimestamp(c.DateUTC)
		rows = append(rows, Row{
			Sno:               c.Sno,
			CommitDate:        date,
			CommitTime:        clock,
			CommitMessage:     c.Message,
			TotalLines:        c.TotalLines,
			TotalFiles:        c.TotalFiles,
			Languages:         c.Languages,
			SnapshotTimestamp: c.SnapshotAt,
		})
	}
	return rows
}
