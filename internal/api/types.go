package api

import (
	"encoding/json"
	"strings"
)

// DriverRow is one entry of the drivers' championship table.
type DriverRow struct {
	Position     int     `json:"position"`
	FullName     string  `json:"full_name"`
	DriverNumber string  `json:"driver_number,omitempty"`
	TeamName     string  `json:"team_name"`
	TeamColour   string  `json:"team_colour,omitempty"`
	Points       float64 `json:"points"`
	Wins         int     `json:"wins"`
}

// ConstructorRow is one entry of the constructors' championship table.
type ConstructorRow struct {
	Position   int     `json:"position"`
	TeamName   string  `json:"team_name"`
	TeamColour string  `json:"team_colour,omitempty"`
	Points     float64 `json:"points"`
	Wins       int     `json:"wins"`
}

// RaceMeta describes the most recently completed race.
type RaceMeta struct {
	MeetingName      string `json:"meeting_name"`
	CircuitShortName string `json:"circuit_short_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
	Round            string `json:"round,omitempty"`
	Season           string `json:"season,omitempty"`
}

// ResultRow is one classified finisher of the latest race.
type ResultRow struct {
	Position     int     `json:"position"`
	DriverName   string  `json:"driver_name"`
	DriverNumber string  `json:"driver_number,omitempty"`
	Team         string  `json:"team"`
	Points       float64 `json:"points"`
	Status       string  `json:"status"`
}

// SeasonSnapshot is the current-year standings/race payload.
// LatestRace is absent until at least one race has run.
type SeasonSnapshot struct {
	DriverStandings      []DriverRow      `json:"driver_standings"`
	ConstructorStandings []ConstructorRow `json:"constructor_standings"`
	LatestRace           *RaceMeta        `json:"latest_race"`
	RaceResults          []ResultRow      `json:"race_results"`
}

// Insight is a single generated observation. Season insights carry
// Explanation; per-file insights carry Details instead.
type Insight struct {
	Type        string `json:"type"`
	Insight     string `json:"insight"`
	Explanation string `json:"explanation,omitempty"`
	Details     string `json:"details,omitempty"`
}

// Champion identifies a season's title winner. Points and Wins pass
// through as strings from the upstream archive.
type Champion struct {
	Name   string `json:"name"`
	Team   string `json:"team"`
	Points string `json:"points"`
	Wins   string `json:"wins"`
}

// SeasonSummary holds the generated text blurbs for a historical season.
type SeasonSummary struct {
	SeasonSummary string `json:"season_summary"`
	ChampionInfo  string `json:"champion_info,omitempty"`
}

// RaceCalendarEntry is one round of a season's calendar.
type RaceCalendarEntry struct {
	Round            string `json:"round"`
	MeetingName      string `json:"meeting_name"`
	CircuitShortName string `json:"circuit_short_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
}

// HistoricalSeason is the archived calendar and champion for a past year.
// Champion and Insights are absent when the archive has no standings.
type HistoricalSeason struct {
	Year      int                 `json:"year"`
	Champion  *Champion           `json:"champion"`
	Insights  *SeasonSummary      `json:"insights"`
	RaceCount int                 `json:"race_count"`
	Races     []RaceCalendarEntry `json:"races"`
}

// InsightList decodes the stored insights of an uploaded file. The backend
// persists them as a serialized JSON string, so they are parsed exactly once
// here rather than on every render. Null, empty, and plain-array forms are
// all accepted.
type InsightList []Insight

func (l *InsightList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*l = nil
		return nil
	}

	// Serialized form: a JSON string containing an array.
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		var insights []Insight
		if err := json.Unmarshal([]byte(raw), &insights); err != nil {
			// Opaque legacy content; absent insights degrade gracefully.
			*l = nil
			return nil
		}
		*l = insights
		return nil
	}

	var insights []Insight
	if err := json.Unmarshal(data, &insights); err != nil {
		return err
	}
	*l = insights
	return nil
}

// FileRecord is one uploaded dataset as listed by the backend.
type FileRecord struct {
	ID         int         `json:"id"`
	Filename   string      `json:"filename"`
	UploadDate string      `json:"upload_date"`
	FileType   string      `json:"file_type"`
	Insights   InsightList `json:"insights"`
}

// AnalysisSummary describes the shape of an analyzed dataset.
type AnalysisSummary struct {
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	Columns      []string `json:"columns"`
}

// ChartPoint is one chart-ready datum; keys vary per chart kind, so the
// values stay opaque to this client.
type ChartPoint map[string]any

// ChartSet groups the chart-ready arrays of a file analysis. Every chart is
// optional; an absent chart omits its panel section.
type ChartSet struct {
	DriverPerformance []ChartPoint `json:"driver_performance,omitempty"`
	TeamPerformance   []ChartPoint `json:"team_performance,omitempty"`
	CircuitComparison []ChartPoint `json:"circuit_comparison,omitempty"`
}

// FileAnalysis is the server-computed summary for one uploaded file. It is
// correlated to its FileRecord by filename and lives only for the current
// view session.
type FileAnalysis struct {
	Filename string          `json:"filename"`
	Summary  AnalysisSummary `json:"summary"`
	Insights []Insight       `json:"insights"`
	Charts   ChartSet        `json:"charts"`
}
