package dash

import "sort"

// Tracker records which asynchronous operations are currently in flight so
// the controls bound to them can be disabled or relabeled while they run.
// Analyze operations are tracked as a set keyed by file id, so concurrent
// analyses of different files each keep their own in-flight marker.
type Tracker struct {
	season     bool
	insights   bool
	historical bool
	uploading  bool
	analyzing  map[int]struct{}
	deletingID int // 0 = no delete in flight
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{analyzing: make(map[int]struct{})}
}

func (t *Tracker) BeginSeasonFetch() { t.season = true }
func (t *Tracker) EndSeasonFetch()   { t.season = false }

// SeasonFetching reports whether a season snapshot fetch is outstanding.
func (t *Tracker) SeasonFetching() bool { return t.season }

func (t *Tracker) BeginInsightsFetch()    { t.insights = true }
func (t *Tracker) EndInsightsFetch()      { t.insights = false }
func (t *Tracker) InsightsFetching() bool { return t.insights }

func (t *Tracker) BeginHistoricalFetch()    { t.historical = true }
func (t *Tracker) EndHistoricalFetch()      { t.historical = false }
func (t *Tracker) HistoricalFetching() bool { return t.historical }

func (t *Tracker) BeginUpload()    { t.uploading = true }
func (t *Tracker) EndUpload()      { t.uploading = false }
func (t *Tracker) Uploading() bool { return t.uploading }

// BeginAnalyze marks the given file id in flight.
func (t *Tracker) BeginAnalyze(fileID int) {
	t.analyzing[fileID] = struct{}{}
}

// EndAnalyze clears the in-flight marker for the given file id.
func (t *Tracker) EndAnalyze(fileID int) {
	delete(t.analyzing, fileID)
}

// Analyzing reports whether an analyze call for the given file id is
// outstanding.
func (t *Tracker) Analyzing(fileID int) bool {
	_, ok := t.analyzing[fileID]
	return ok
}

// AnalyzingIDs returns the in-flight analyze ids in ascending order.
func (t *Tracker) AnalyzingIDs() []int {
	ids := make([]int, 0, len(t.analyzing))
	for id := range t.analyzing {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// BeginDelete marks a delete in flight. Deletes are single-flight.
func (t *Tracker) BeginDelete(fileID int) {
	t.deletingID = fileID
}

// EndDelete clears the delete marker.
func (t *Tracker) EndDelete() {
	t.deletingID = 0
}

// Deleting returns the id of the delete in flight, if any.
func (t *Tracker) Deleting() (int, bool) {
	return t.deletingID, t.deletingID != 0
}
