package dash

// Tab identifies one mutually exclusive panel of the dashboard.
type Tab int

const (
	TabStandings Tab = iota
	TabConstructors
	TabRace
	TabHistorical
	TabFiles
	TabFileAnalysis
)

func (t Tab) String() string {
	switch t {
	case TabStandings:
		return "standings"
	case TabConstructors:
		return "constructors"
	case TabRace:
		return "race"
	case TabHistorical:
		return "historical"
	case TabFiles:
		return "files"
	case TabFileAnalysis:
		return "file-analysis"
	default:
		return "unknown"
	}
}

// Title returns the tab's display label.
func (t Tab) Title() string {
	switch t {
	case TabStandings:
		return "Drivers"
	case TabConstructors:
		return "Constructors"
	case TabRace:
		return "Latest Race"
	case TabHistorical:
		return "Historical"
	case TabFiles:
		return "Files"
	case TabFileAnalysis:
		return "File Analysis"
	default:
		return "Unknown"
	}
}
