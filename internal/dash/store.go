// Package dash implements the dashboard's data-orchestration and view-state
// core: per-resource caches with explicit state machines, in-flight
// operation tracking, the file upload/analyze/delete lifecycle, and tab
// selection. It holds no rendering or transport concerns; callers feed it
// Begin/Complete events and read its state back.
//
// Every mutation happens inside one method call invoked from a single event
// loop, so compound updates (such as retracting the analysis panel when its
// file is deleted) are never observable half-applied and no locking is
// needed.
package dash

import (
	"sort"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/logger"
)

// StandingsLimit caps how many rows the standings panels project.
const StandingsLimit = 10

// Default texts shown when a failure carries no usable message.
const (
	fallbackSeasonError     = "Unable to fetch season data"
	fallbackHistoricalError = "Unable to fetch historical season"
	fallbackAnalyzeError    = "Failed to analyze file. Please try again."
	fallbackUploadError     = "Upload failed"
)

// DeleteRequest is a destructive action awaiting explicit confirmation.
// Filename is captured at request time so the retraction rule still applies
// after the file list has been replaced.
type DeleteRequest struct {
	FileID   int
	Filename string
}

// Store is the orchestration core behind the dashboard.
type Store struct {
	season     Resource[*api.SeasonSnapshot]
	insights   Resource[[]api.Insight]
	historical Resource[*api.HistoricalSeason]
	files      Resource[[]api.FileRecord]
	analysis   Resource[*api.FileAnalysis]

	// Year of the most recent historical request. Completions tagged with
	// any other year are superseded and discarded.
	historicalYear int

	tracker  *Tracker
	notifier *Notifier

	activeTab Tab
	pending   *DeleteRequest
	deleting  *DeleteRequest

	log *logger.Logger
}

// NewStore creates a store with empty caches and the standings tab active.
func NewStore(log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewWithCallback("dash", nil)
	}
	return &Store{
		tracker:   NewTracker(),
		notifier:  NewNotifier(),
		activeTab: TabStandings,
		log:       log,
	}
}

// Tracker exposes the in-flight operation markers.
func (s *Store) Tracker() *Tracker {
	return s.tracker
}

// Notifier exposes the error and status surfaces.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Season returns the cached season snapshot, if any.
func (s *Store) Season() (*api.SeasonSnapshot, bool) {
	return s.season.Value()
}

// SeasonState returns the season resource's state tag.
func (s *Store) SeasonState() State {
	return s.season.State()
}

// Insights returns the cached season insights, if any.
func (s *Store) Insights() ([]api.Insight, bool) {
	return s.insights.Value()
}

// InsightsState returns the insights resource's state tag.
func (s *Store) InsightsState() State {
	return s.insights.State()
}

// Historical returns the cached historical season, if any.
func (s *Store) Historical() (*api.HistoricalSeason, bool) {
	return s.historical.Value()
}

// HistoricalState returns the historical resource's state tag.
func (s *Store) HistoricalState() State {
	return s.historical.State()
}

// Files returns the cached file list, if any.
func (s *Store) Files() ([]api.FileRecord, bool) {
	return s.files.Value()
}

// FilesState returns the file list resource's state tag.
func (s *Store) FilesState() State {
	return s.files.State()
}

// Analysis returns the cached file analysis, if any.
func (s *Store) Analysis() (*api.FileAnalysis, bool) {
	return s.analysis.Value()
}

// AnalysisState returns the analysis resource's state tag.
func (s *Store) AnalysisState() State {
	return s.analysis.State()
}

// TopDriverStandings projects the drivers table: at most StandingsLimit
// rows by ascending position.
func (s *Store) TopDriverStandings() []api.DriverRow {
	snap, ok := s.season.Value()
	if !ok || snap == nil {
		return nil
	}
	rows := make([]api.DriverRow, len(snap.DriverStandings))
	copy(rows, snap.DriverStandings)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	if len(rows) > StandingsLimit {
		rows = rows[:StandingsLimit]
	}
	return rows
}

// TopConstructorStandings projects the constructors table the same way.
func (s *Store) TopConstructorStandings() []api.ConstructorRow {
	snap, ok := s.season.Value()
	if !ok || snap == nil {
		return nil
	}
	rows := make([]api.ConstructorRow, len(snap.ConstructorStandings))
	copy(rows, snap.ConstructorStandings)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	if len(rows) > StandingsLimit {
		rows = rows[:StandingsLimit]
	}
	return rows
}

// BeginSeasonFetch marks a season snapshot fetch in flight.
func (s *Store) BeginSeasonFetch() {
	s.tracker.BeginSeasonFetch()
	s.season.Begin()
}

// CompleteSeasonFetch applies a season fetch outcome. It reports whether
// the dependent insights fetch should follow: insights only enrich a
// snapshot, so they are fetched after every successful snapshot and never
// otherwise.
func (s *Store) CompleteSeasonFetch(snap *api.SeasonSnapshot, err error) (fetchInsights bool) {
	s.tracker.EndSeasonFetch()
	if err != nil {
		msg := api.UserMessage(err, fallbackSeasonError)
		s.season.Fail(msg)
		s.notifier.SetBanner(BannerSeason, msg)
		return false
	}
	s.season.Resolve(snap)
	s.notifier.ClearBanner(BannerSeason)
	return true
}

// BeginInsightsFetch marks the season insights fetch in flight.
func (s *Store) BeginInsightsFetch() {
	s.tracker.BeginInsightsFetch()
	s.insights.Begin()
}

// CompleteInsightsFetch applies an insights fetch outcome. Insights are
// best-effort enrichment: a failure is logged and the rest of the dashboard
// keeps working without insight cards.
func (s *Store) CompleteInsightsFetch(insights []api.Insight, err error) {
	s.tracker.EndInsightsFetch()
	if err != nil {
		s.insights.Fail(api.UserMessage(err, ""))
		s.log.Warn("season insights fetch failed: %v", err)
		return
	}
	s.insights.Resolve(insights)
}

// BeginHistoricalFetch marks a historical fetch for year in flight. The
// previously cached season is cleared first so a stale year is never shown
// while the new one loads.
func (s *Store) BeginHistoricalFetch(year int) {
	s.historical.Clear()
	s.historicalYear = year
	s.historical.Begin()
	s.tracker.BeginHistoricalFetch()
}

// HistoricalYear returns the most recently requested year.
func (s *Store) HistoricalYear() int {
	return s.historicalYear
}

// CompleteHistoricalFetch applies a historical fetch outcome. Completions
// for a year other than the currently requested one were superseded by a
// newer request and are discarded without touching the cache.
func (s *Store) CompleteHistoricalFetch(year int, season *api.HistoricalSeason, err error) {
	if year != s.historicalYear {
		s.log.Debug("discarding superseded historical response for %d (current %d)", year, s.historicalYear)
		return
	}
	s.tracker.EndHistoricalFetch()
	if err != nil {
		msg := api.UserMessage(err, fallbackHistoricalError)
		s.historical.Fail(msg)
		s.notifier.SetBanner(BannerHistorical, msg)
		return
	}
	s.historical.Resolve(season)
	s.notifier.ClearBanner(BannerHistorical)
}

// BeginFileListFetch marks a file list refresh in flight.
func (s *Store) BeginFileListFetch() {
	s.files.Begin()
}

// CompleteFileListFetch applies a file list outcome. The list replaces the
// cache wholesale.
func (s *Store) CompleteFileListFetch(files []api.FileRecord, err error) {
	if err != nil {
		s.files.Fail(api.UserMessage(err, ""))
		s.log.Warn("file list fetch failed: %v", err)
		return
	}
	s.files.Resolve(files)
}

// BeginUpload flips the upload indicator to in-progress.
func (s *Store) BeginUpload() {
	s.tracker.BeginUpload()
	s.notifier.UploadStarted()
}

// CompleteUpload applies an upload outcome and reports whether the file
// list should be refreshed: exactly once on success, never on failure.
func (s *Store) CompleteUpload(err error) (refresh bool) {
	s.tracker.EndUpload()
	if err != nil {
		s.notifier.UploadFailed(api.UserMessage(err, fallbackUploadError))
		return false
	}
	s.notifier.UploadSucceeded()
	return true
}

// BeginAnalyze marks an analyze call for fileID in flight.
func (s *Store) BeginAnalyze(fileID int) {
	s.tracker.BeginAnalyze(fileID)
}

// CompleteAnalyze applies an analyze outcome. Success replaces the cached
// analysis and forces the file-analysis tab; failure queues a notice and
// leaves the active tab unchanged. The in-flight marker is cleared on both
// paths.
func (s *Store) CompleteAnalyze(fileID int, analysis *api.FileAnalysis, err error) {
	s.tracker.EndAnalyze(fileID)
	if err != nil {
		s.notifier.PushNotice(api.UserMessage(err, fallbackAnalyzeError))
		return
	}
	s.analysis.Resolve(analysis)
	s.activeTab = TabFileAnalysis
}

// RequestDelete records a pending delete for fileID, capturing its filename
// from the cached list. It has no side effects beyond the recording; the
// destructive call is issued only after ConfirmDelete. It reports false
// when the id is not in the cached list or a delete is already in flight.
func (s *Store) RequestDelete(fileID int) bool {
	if s.deleting != nil {
		return false
	}
	files, ok := s.files.Value()
	if !ok {
		return false
	}
	for _, f := range files {
		if f.ID == fileID {
			s.pending = &DeleteRequest{FileID: fileID, Filename: f.Filename}
			return true
		}
	}
	return false
}

// PendingDelete returns the delete awaiting confirmation, if any.
func (s *Store) PendingDelete() (DeleteRequest, bool) {
	if s.pending == nil {
		return DeleteRequest{}, false
	}
	return *s.pending, true
}

// CancelDelete aborts the pending delete with no side effects.
func (s *Store) CancelDelete() {
	s.pending = nil
}

// ConfirmDelete commits the pending delete, marking it in flight and
// handing the file id back for the network call. The request moves out of
// pending so the confirmation prompt closes for the duration of the call;
// the filename travels with the in-flight record for the retraction check.
func (s *Store) ConfirmDelete() (fileID int, ok bool) {
	if s.pending == nil {
		return 0, false
	}
	s.deleting = s.pending
	s.pending = nil
	s.tracker.BeginDelete(s.deleting.FileID)
	return s.deleting.FileID, true
}

// AbortDelete unwinds an in-flight delete whose network call failed.
func (s *Store) AbortDelete() {
	s.deleting = nil
	s.tracker.EndDelete()
}

// CompleteDelete applies a finished delete. If the deleted file backs the
// cached analysis, the analysis cache is cleared and the file-analysis tab
// retracts to the files tab in the same step. Always reports that the file
// list should refresh; deletes model no error path.
func (s *Store) CompleteDelete(fileID int) (refresh bool) {
	s.tracker.EndDelete()

	var filename string
	if s.deleting != nil && s.deleting.FileID == fileID {
		filename = s.deleting.Filename
	}
	s.deleting = nil

	if analysis, ok := s.analysis.Value(); ok && filename != "" && analysis.Filename == filename {
		s.analysis.Clear()
		if s.activeTab == TabFileAnalysis {
			s.activeTab = TabFiles
		}
	}
	return true
}

// ActiveTab returns the currently visible panel.
func (s *Store) ActiveTab() Tab {
	return s.activeTab
}

// SelectTab switches the visible panel. Selecting the active tab is a
// no-op; the file-analysis tab is selectable only while an analysis is
// cached. It reports whether the tab is now active.
func (s *Store) SelectTab(t Tab) bool {
	if t == s.activeTab {
		return true
	}
	if t == TabFileAnalysis {
		if _, ok := s.analysis.Value(); !ok {
			return false
		}
	}
	s.activeTab = t
	return true
}

// AvailableTabs returns the selectable panels in display order. The
// file-analysis tab appears exactly while an analysis is cached.
func (s *Store) AvailableTabs() []Tab {
	tabs := []Tab{TabStandings, TabConstructors, TabRace, TabHistorical, TabFiles}
	if _, ok := s.analysis.Value(); ok {
		tabs = append(tabs, TabFileAnalysis)
	}
	return tabs
}
