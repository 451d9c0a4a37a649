package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkaraca/pitwall/internal/api"
)

// Message types carrying remote call outcomes back into Update. Every
// message holds the raw result and error; the store decides what the
// outcome means.
type seasonFetchedMsg struct {
	snapshot *api.SeasonSnapshot
	err      error
}

type insightsFetchedMsg struct {
	insights []api.Insight
	err      error
}

// historicalFetchedMsg is tagged with the requested year so superseded
// responses can be told apart from the current one.
type historicalFetchedMsg struct {
	year   int
	season *api.HistoricalSeason
	err    error
}

type filesListedMsg struct {
	files []api.FileRecord
	err   error
}

type uploadDoneMsg struct {
	receipt *api.UploadReceipt
	err     error
}

type analyzeDoneMsg struct {
	fileID   int
	analysis *api.FileAnalysis
	err      error
}

type deleteDoneMsg struct {
	fileID int
	err    error
}

// uploadStatusExpiredMsg clears the transient upload indicator after its
// display window.
type uploadStatusExpiredMsg struct{}

func fetchSeasonCmd(client *api.Client, apiKey string) tea.Cmd {
	return func() tea.Msg {
		snap, err := client.FetchSeason(context.Background(), apiKey)
		return seasonFetchedMsg{snapshot: snap, err: err}
	}
}

func fetchInsightsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		insights, err := client.FetchInsights(context.Background())
		return insightsFetchedMsg{insights: insights, err: err}
	}
}

func fetchHistoricalCmd(client *api.Client, year int) tea.Cmd {
	return func() tea.Msg {
		season, err := client.FetchHistorical(context.Background(), year)
		return historicalFetchedMsg{year: year, season: season, err: err}
	}
}

func listFilesCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		files, err := client.ListFiles(context.Background())
		return filesListedMsg{files: files, err: err}
	}
}

func uploadFileCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		defer func() { _ = f.Close() }()

		receipt, err := client.Upload(context.Background(), filepath.Base(path), f)
		return uploadDoneMsg{receipt: receipt, err: err}
	}
}

func analyzeFileCmd(client *api.Client, fileID int) tea.Cmd {
	return func() tea.Msg {
		analysis, err := client.Analyze(context.Background(), fileID)
		return analyzeDoneMsg{fileID: fileID, analysis: analysis, err: err}
	}
}

func deleteFileCmd(client *api.Client, fileID int) tea.Cmd {
	return func() tea.Msg {
		err := client.Delete(context.Background(), fileID)
		return deleteDoneMsg{fileID: fileID, err: err}
	}
}

func expireUploadStatusCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return uploadStatusExpiredMsg{}
	})
}
