package ui

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/dash"
	"github.com/mkaraca/pitwall/internal/logger"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	client, err := api.NewClient("http://127.0.0.1:1", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	log := logger.NewWithCallback("test", nil)
	log.SetWriter(io.Discard)

	m := NewModel(Options{
		Client:          client,
		DefaultYear:     2023,
		UploadStatusTTL: time.Second,
		Logger:          log,
	})
	m.ready = true
	m.width = 120
	m.height = 40
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleSnapshot() *api.SeasonSnapshot {
	return &api.SeasonSnapshot{
		DriverStandings: []api.DriverRow{
			{Position: 1, FullName: "Max Verstappen", TeamName: "Red Bull", Points: 437, Wins: 15},
		},
		ConstructorStandings: []api.ConstructorRow{
			{Position: 1, TeamName: "Red Bull", Points: 741, Wins: 17},
		},
	}
}

func TestSeasonSuccessTriggersInsightsFetch(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(seasonFetchedMsg{snapshot: sampleSnapshot()})
	if cmd == nil {
		t.Error("Expected a follow-up insights command after a successful season fetch")
	}
	if m.Store().InsightsState() != dash.StateLoading {
		t.Errorf("Expected insights to be loading, got %s", m.Store().InsightsState())
	}
}

func TestSeasonFailureSkipsInsightsFetch(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(seasonFetchedMsg{err: errors.New("boom")})
	if cmd != nil {
		t.Error("Expected no follow-up command after a failed season fetch")
	}
	if m.Store().InsightsState() != dash.StateIdle {
		t.Errorf("Expected insights to stay idle, got %s", m.Store().InsightsState())
	}
	if _, ok := m.Store().Notifier().Banner(); !ok {
		t.Error("Expected a banner after a failed season fetch")
	}
}

func TestUploadSuccessRefreshesFileList(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(uploadDoneMsg{receipt: &api.UploadReceipt{FileID: 1}})
	if cmd == nil {
		t.Error("Expected refresh and expiry commands after a successful upload")
	}
	if m.Store().FilesState() != dash.StateLoading {
		t.Errorf("Expected file list refresh to be in flight, got %s", m.Store().FilesState())
	}
	if m.Store().Notifier().Upload().Phase != dash.UploadSucceeded {
		t.Error("Expected upload status to show success")
	}
}

func TestUploadFailureDoesNotRefresh(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(uploadDoneMsg{err: errors.New("disk full")})
	if m.Store().FilesState() != dash.StateIdle {
		t.Errorf("Expected no file list refresh after a failed upload, got %s", m.Store().FilesState())
	}
	if m.Store().Notifier().Upload().Phase != dash.UploadFailed {
		t.Error("Expected upload status to show failure")
	}
}

func TestUploadStatusExpiry(t *testing.T) {
	m := newTestModel(t)

	_, _ = m.Update(uploadDoneMsg{receipt: &api.UploadReceipt{FileID: 1}})
	_, _ = m.Update(uploadStatusExpiredMsg{})

	if m.Store().Notifier().Upload().Phase != dash.UploadIdle {
		t.Error("Expected upload status to clear after the display window")
	}
}

func TestDeleteConfirmationFlow(t *testing.T) {
	m := newTestModel(t)

	m.Store().CompleteFileListFetch([]api.FileRecord{
		{ID: 5, Filename: "laps.csv", FileType: "csv"},
	}, nil)
	m.Store().SelectTab(dash.TabFiles)

	// d opens the confirmation prompt; no delete is in flight yet.
	_, _ = m.Update(keyMsg("d"))
	if _, ok := m.Store().PendingDelete(); !ok {
		t.Fatal("Expected a pending delete after pressing d")
	}
	if _, deleting := m.Store().Tracker().Deleting(); deleting {
		t.Error("Expected no delete in flight before confirmation")
	}

	// n cancels with no side effects.
	_, _ = m.Update(keyMsg("n"))
	if _, ok := m.Store().PendingDelete(); ok {
		t.Error("Expected cancellation to clear the pending delete")
	}

	// y after a fresh request issues the network command.
	_, _ = m.Update(keyMsg("d"))
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Error("Expected a delete command after confirmation")
	}
	if id, deleting := m.Store().Tracker().Deleting(); !deleting || id != 5 {
		t.Errorf("Expected delete of file 5 in flight, got %d (%v)", id, deleting)
	}
}

func TestConfirmKeysIgnoredWhileDeleteInFlight(t *testing.T) {
	m := newTestModel(t)

	m.Store().CompleteFileListFetch([]api.FileRecord{
		{ID: 5, Filename: "laps.csv", FileType: "csv"},
	}, nil)
	m.Store().SelectTab(dash.TabFiles)
	m.Store().BeginAnalyze(5)
	m.Store().CompleteAnalyze(5, &api.FileAnalysis{Filename: "laps.csv"}, nil)
	m.Store().SelectTab(dash.TabFiles)

	_, _ = m.Update(keyMsg("d"))
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("Expected a delete command after confirmation")
	}

	// The prompt closes for the duration of the call, so stray confirm
	// keys must neither cancel the in-flight delete nor re-issue it.
	if _, ok := m.Store().PendingDelete(); ok {
		t.Error("Expected the confirmation prompt to close once the delete is in flight")
	}
	_, _ = m.Update(keyMsg("n"))
	if _, deleting := m.Store().Tracker().Deleting(); !deleting {
		t.Error("A stray n while in flight must not cancel the delete")
	}
	if _, cmd := m.Update(keyMsg("y")); cmd != nil {
		t.Error("A stray y while in flight must not issue a duplicate delete command")
	}
	_, _ = m.Update(keyMsg("d"))
	if _, ok := m.Store().PendingDelete(); ok {
		t.Error("A new delete request must be rejected while one is in flight")
	}

	// The stray keys must not have detached the completion from its
	// filename: the analysis still retracts.
	_, _ = m.Update(deleteDoneMsg{fileID: 5})
	if _, ok := m.Store().Analysis(); ok {
		t.Error("Expected the analysis cache cleared for the deleted file")
	}
	if m.Store().ActiveTab() != dash.TabFiles {
		t.Errorf("Expected retraction to the files tab, got %s", m.Store().ActiveTab())
	}
}

func TestDeleteFailureUnwindsAndNotifies(t *testing.T) {
	m := newTestModel(t)

	m.Store().CompleteFileListFetch([]api.FileRecord{{ID: 5, Filename: "laps.csv"}}, nil)
	m.Store().RequestDelete(5)
	_, _ = m.Store().ConfirmDelete()

	_, _ = m.Update(deleteDoneMsg{fileID: 5, err: errors.New("gone")})

	if _, deleting := m.Store().Tracker().Deleting(); deleting {
		t.Error("Expected the delete marker to clear after a failure")
	}
	if _, ok := m.Store().PendingDelete(); ok {
		t.Error("Expected the pending delete to clear after a failure")
	}
	if len(m.Store().Notifier().Notices()) != 1 {
		t.Errorf("Expected one notice, got %d", len(m.Store().Notifier().Notices()))
	}
}

func TestYearPromptRejectsInvalidInput(t *testing.T) {
	m := newTestModel(t)

	m.Store().SelectTab(dash.TabHistorical)
	_, _ = m.Update(keyMsg("y"))
	if m.prompt != promptYear {
		t.Fatal("Expected the year prompt to open")
	}

	m.input.SetValue("not-a-year")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no fetch command for an invalid year")
	}
	if len(m.Store().Notifier().Notices()) != 1 {
		t.Errorf("Expected a validation notice, got %d", len(m.Store().Notifier().Notices()))
	}
	if m.prompt != promptNone {
		t.Error("Expected the prompt to close after submit")
	}
}

func TestYearPromptStartsHistoricalFetch(t *testing.T) {
	m := newTestModel(t)

	m.Store().SelectTab(dash.TabHistorical)
	_, _ = m.Update(keyMsg("y"))
	m.input.SetValue("1988")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Error("Expected a historical fetch command")
	}
	if m.Store().HistoricalYear() != 1988 {
		t.Errorf("Expected requested year 1988, got %d", m.Store().HistoricalYear())
	}
	if m.Store().HistoricalState() != dash.StateLoading {
		t.Errorf("Expected historical resource loading, got %s", m.Store().HistoricalState())
	}
}

func TestAnalyzeKeyIsIdempotentWhileInFlight(t *testing.T) {
	m := newTestModel(t)

	m.Store().CompleteFileListFetch([]api.FileRecord{{ID: 3, Filename: "laps.csv"}}, nil)
	m.Store().SelectTab(dash.TabFiles)

	_, cmd := m.Update(keyMsg("a"))
	if cmd == nil {
		t.Fatal("Expected an analyze command")
	}
	if !m.Store().Tracker().Analyzing(3) {
		t.Fatal("Expected file 3 to be marked in flight")
	}

	// A second press while in flight must not issue another command.
	_, cmd = m.Update(keyMsg("a"))
	if cmd != nil {
		t.Error("Expected no duplicate analyze command while one is in flight")
	}
}

func TestTabCyclingSkipsUnavailableAnalysisTab(t *testing.T) {
	m := newTestModel(t)

	seen := map[dash.Tab]bool{}
	for range 10 {
		seen[m.Store().ActiveTab()] = true
		m.cycleTab(1)
	}

	if seen[dash.TabFileAnalysis] {
		t.Error("Expected the analysis tab to be unreachable without a cached analysis")
	}
	for _, tab := range []dash.Tab{dash.TabStandings, dash.TabConstructors, dash.TabRace, dash.TabHistorical, dash.TabFiles} {
		if !seen[tab] {
			t.Errorf("Expected cycling to reach the %s tab", tab)
		}
	}
}

func TestViewRendersWithoutData(t *testing.T) {
	m := newTestModel(t)

	// Smoke-render every tab in its empty state.
	for _, tab := range m.Store().AvailableTabs() {
		m.Store().SelectTab(tab)
		if out := m.View(); out == "" {
			t.Errorf("Expected non-empty render for the %s tab", tab)
		}
	}
}

func TestFileCursorClampsAfterRefresh(t *testing.T) {
	m := newTestModel(t)

	m.Store().CompleteFileListFetch([]api.FileRecord{{ID: 1}, {ID: 2}, {ID: 3}}, nil)
	m.fileCursor = 2

	_, _ = m.Update(filesListedMsg{files: []api.FileRecord{{ID: 1}}})
	if m.fileCursor != 0 {
		t.Errorf("Expected cursor clamped to 0, got %d", m.fileCursor)
	}
}
