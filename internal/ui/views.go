package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/dash"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.styles.Muted.Render("Starting pitwall...")
	}

	sections := []string{
		m.renderHeader(),
		m.renderTabBar(),
	}

	if banner, ok := m.store.Notifier().Banner(); ok {
		sections = append(sections, m.styles.Banner.Render("⚠ "+banner))
	}

	sections = append(sections, m.renderContent())

	if status := m.renderUploadStatus(); status != "" {
		sections = append(sections, status)
	}
	for _, notice := range m.store.Notifier().Notices() {
		sections = append(sections, m.styles.Notice.Render("• "+notice.Text+"  (x to dismiss)"))
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render("🏎  pitwall")
	if m.store.Tracker().SeasonFetching() || m.store.Tracker().HistoricalFetching() {
		return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", m.spin.View(), m.styles.Muted.Render("fetching..."))
	}
	return title
}

func (m *Model) renderTabBar() string {
	tabs := m.store.AvailableTabs()
	rendered := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if t == m.store.ActiveTab() {
			rendered = append(rendered, m.styles.TabActive.Render(label))
		} else {
			rendered = append(rendered, m.styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}

func (m *Model) renderContent() string {
	var body string
	switch m.store.ActiveTab() {
	case dash.TabStandings:
		body = m.renderStandings()
	case dash.TabConstructors:
		body = m.renderConstructors()
	case dash.TabRace:
		body = m.renderRace()
	case dash.TabHistorical:
		body = m.renderHistorical()
	case dash.TabFiles:
		body = m.renderFiles()
	case dash.TabFileAnalysis:
		body = m.renderAnalysis()
	}

	width := min(m.width-2, 100)
	return m.styles.Box.Width(width).Render(body)
}

func (m *Model) renderStandings() string {
	switch m.store.SeasonState() {
	case dash.StateIdle:
		return m.styles.Muted.Render("No season data yet. Press r to fetch.")
	case dash.StateLoading:
		if _, ok := m.store.Season(); !ok {
			return m.spin.View() + " Fetching season data..."
		}
	}

	rows := m.store.TopDriverStandings()
	if len(rows) == 0 {
		return m.styles.Muted.Render("No driver standings available.")
	}

	lines := []string{m.styles.Header.Render(fmt.Sprintf("%-4s %-24s %-18s %8s %5s", "Pos", "Driver", "Team", "Points", "Wins"))}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-4d %-24s %-18s %8.1f %5d",
			row.Position, truncate(row.FullName, 24), truncate(row.TeamName, 18), row.Points, row.Wins))
	}

	if insights := m.renderSeasonInsights(); insights != "" {
		lines = append(lines, "", insights)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSeasonInsights() string {
	if m.store.Tracker().InsightsFetching() {
		return m.styles.Muted.Render("Generating insights...")
	}
	insights, ok := m.store.Insights()
	if !ok || len(insights) == 0 {
		return ""
	}

	lines := []string{m.styles.Header.Render("Season Insights")}
	for _, in := range insights {
		lines = append(lines, m.styles.Warning.Render("» "+in.Type)+" "+in.Insight)
		if in.Explanation != "" {
			lines = append(lines, m.styles.Muted.Render("  "+in.Explanation))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConstructors() string {
	switch m.store.SeasonState() {
	case dash.StateIdle:
		return m.styles.Muted.Render("No season data yet. Press r to fetch.")
	case dash.StateLoading:
		if _, ok := m.store.Season(); !ok {
			return m.spin.View() + " Fetching season data..."
		}
	}

	rows := m.store.TopConstructorStandings()
	if len(rows) == 0 {
		return m.styles.Muted.Render("No constructor standings available.")
	}

	lines := []string{m.styles.Header.Render(fmt.Sprintf("%-4s %-24s %8s %5s", "Pos", "Team", "Points", "Wins"))}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%-4d %-24s %8.1f %5d",
			row.Position, truncate(row.TeamName, 24), row.Points, row.Wins))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRace() string {
	snap, ok := m.store.Season()
	if !ok {
		if m.store.Tracker().SeasonFetching() {
			return m.spin.View() + " Fetching season data..."
		}
		return m.styles.Muted.Render("No season data yet. Press r to fetch.")
	}
	if snap.LatestRace == nil {
		return m.styles.Muted.Render("No completed race this season yet.")
	}

	race := snap.LatestRace
	lines := []string{
		m.styles.Header.Render(race.MeetingName),
		m.styles.Body.Render(fmt.Sprintf("%s • %s • %s", race.CircuitShortName, race.Location, race.DateStart)),
		"",
	}

	if len(snap.RaceResults) == 0 {
		lines = append(lines, m.styles.Muted.Render("No classified results."))
	} else {
		lines = append(lines, m.styles.Header.Render(fmt.Sprintf("%-4s %-24s %-18s %7s %-12s", "Pos", "Driver", "Team", "Points", "Status")))
		for _, r := range snap.RaceResults {
			lines = append(lines, fmt.Sprintf("%-4d %-24s %-18s %7.1f %-12s",
				r.Position, truncate(r.DriverName, 24), truncate(r.Team, 18), r.Points, r.Status))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHistorical() string {
	switch m.store.HistoricalState() {
	case dash.StateIdle:
		return m.styles.Muted.Render("Press y to pick a season year.")
	case dash.StateLoading:
		return m.spin.View() + fmt.Sprintf(" Fetching the %d season...", m.store.HistoricalYear())
	case dash.StateError:
		return m.styles.Muted.Render("Press y to try another year.")
	}

	season, ok := m.store.Historical()
	if !ok {
		return m.styles.Muted.Render("Press y to pick a season year.")
	}

	lines := []string{m.styles.Header.Render(fmt.Sprintf("%d Season • %d races", season.Year, season.RaceCount))}

	if season.Champion != nil {
		lines = append(lines, m.styles.Success.Render("🏆 "+season.Champion.Name)+
			m.styles.Body.Render(fmt.Sprintf("  %s • %s pts • %s wins", season.Champion.Team, season.Champion.Points, season.Champion.Wins)))
	}
	if season.Insights != nil && season.Insights.SeasonSummary != "" {
		lines = append(lines, m.styles.Muted.Render(season.Insights.SeasonSummary))
		if season.Insights.ChampionInfo != "" {
			lines = append(lines, m.styles.Muted.Render(season.Insights.ChampionInfo))
		}
	}

	if len(season.Races) > 0 {
		lines = append(lines, "", m.styles.Header.Render(fmt.Sprintf("%-6s %-32s %-20s %-12s", "Round", "Race", "Circuit", "Date")))
		for _, race := range season.Races {
			lines = append(lines, fmt.Sprintf("%-6s %-32s %-20s %-12s",
				race.Round, truncate(race.MeetingName, 32), truncate(race.CircuitShortName, 20), race.DateStart))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFiles() string {
	files, ok := m.store.Files()
	if !ok {
		if m.store.FilesState() == dash.StateLoading {
			return m.spin.View() + " Loading files..."
		}
		return m.styles.Muted.Render("No files loaded. Press r to refresh or u to upload.")
	}
	if len(files) == 0 {
		return m.styles.Muted.Render("No files uploaded yet. Press u to upload a .csv or .json file.")
	}

	lines := make([]string, 0, len(files)+1)
	lines = append(lines, m.styles.Header.Render(fmt.Sprintf("  %-28s %-6s %-20s %s", "Filename", "Type", "Uploaded", "Insights")))
	for i, f := range files {
		marker := "  "
		line := fmt.Sprintf("%-28s %-6s %-20s %d", truncate(f.Filename, 28), f.FileType, f.UploadDate, len(f.Insights))
		if m.store.Tracker().Analyzing(f.ID) {
			line += "  " + m.spin.View() + " analyzing"
		}
		if id, deleting := m.store.Tracker().Deleting(); deleting && id == f.ID {
			line += "  deleting..."
		}

		if i == m.fileCursor {
			lines = append(lines, m.styles.Selected.Render("▶ "+line))
		} else {
			lines = append(lines, marker+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAnalysis() string {
	analysis, ok := m.store.Analysis()
	if !ok {
		return m.styles.Muted.Render("No analysis available.")
	}

	lines := []string{
		m.styles.Header.Render("Analysis: " + analysis.Filename),
		m.styles.Body.Render(fmt.Sprintf("%d rows × %d columns • %s",
			analysis.Summary.TotalRows, analysis.Summary.TotalColumns, strings.Join(analysis.Summary.Columns, ", "))),
	}

	if len(analysis.Insights) > 0 {
		lines = append(lines, "", m.styles.Header.Render("Insights"))
		for _, in := range analysis.Insights {
			lines = append(lines, m.styles.Warning.Render("» "+in.Type)+" "+in.Insight)
			if in.Details != "" {
				lines = append(lines, m.styles.Muted.Render("  "+in.Details))
			}
		}
	}

	if chartLines := renderChartSections(m.styles, analysis.Charts); len(chartLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, chartLines...)
	}
	return strings.Join(lines, "\n")
}

// renderChartSections lists the chart-ready series; absent charts omit
// their section.
func renderChartSections(styles *Styles, charts api.ChartSet) []string {
	var lines []string
	section := func(name string, points []api.ChartPoint) {
		if len(points) == 0 {
			return
		}
		lines = append(lines, styles.Header.Render(name)+styles.Muted.Render(fmt.Sprintf("  %d series points", len(points))))
	}
	section("Driver performance", charts.DriverPerformance)
	section("Team performance", charts.TeamPerformance)
	section("Circuit comparison", charts.CircuitComparison)
	return lines
}

func (m *Model) renderUploadStatus() string {
	switch status := m.store.Notifier().Upload(); status.Phase {
	case dash.UploadInProgress:
		return m.spin.View() + " Uploading..."
	case dash.UploadSucceeded:
		return m.styles.Success.Render("✓ " + status.Message)
	case dash.UploadFailed:
		return m.styles.Error.Render("✗ " + status.Message)
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	if m.prompt != promptNone {
		return m.styles.Prompt.Render(m.promptLabel()) + " " + m.input.View() + m.styles.Muted.Render("  (enter to submit, esc to cancel)")
	}
	if req, ok := m.store.PendingDelete(); ok {
		return m.styles.Error.Render(fmt.Sprintf("Delete %q? This cannot be undone.", req.Filename)) +
			m.styles.Muted.Render("  (y to confirm, n to cancel)")
	}
	return m.styles.Muted.Render(m.keyHints())
}

func (m *Model) promptLabel() string {
	switch m.prompt {
	case promptAPIKey:
		return "API key:"
	case promptYear:
		return "Year:"
	case promptUploadPath:
		return "File path:"
	default:
		return ">"
	}
}

func (m *Model) keyHints() string {
	common := "tab/←→ switch • q quit"
	switch m.store.ActiveTab() {
	case dash.TabStandings, dash.TabConstructors, dash.TabRace:
		return "r refresh • k api key • " + common
	case dash.TabHistorical:
		return "y pick year • r refetch • " + common
	case dash.TabFiles:
		return "↑↓ select • u upload • a analyze • d delete • r refresh • " + common
	default:
		return common
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
