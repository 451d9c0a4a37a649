// Package ui renders the dashboard as a Bubble Tea TUI. All state lives in
// the dash.Store and every mutation happens inside Update, so compound
// changes are applied atomically between renders.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/dash"
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	store  *dash.Store
	client *api.Client

	apiKey      string
	defaultYear int
	uploadTTL   time.Duration

	width    int
	height   int
	ready    bool
	quitting bool

	spin   spinner.Model
	input  textinput.Model
	prompt promptKind

	// Cursor into the files tab list.
	fileCursor int

	styles *Styles
}

// NewModel creates the dashboard model. Nothing is fetched until Init runs.
func NewModel(opts Options) *Model {
	styles := GetStyles()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = styles.Warning

	input := textinput.New()
	input.CharLimit = 256

	return &Model{
		store:       dash.NewStore(opts.Logger),
		client:      opts.Client,
		apiKey:      opts.APIKey,
		defaultYear: opts.DefaultYear,
		uploadTTL:   opts.UploadStatusTTL,
		spin:        spin,
		input:       input,
		styles:      styles,
	}
}

// Store exposes the orchestration core, mainly for tests.
func (m *Model) Store() *dash.Store {
	return m.store
}

// Init kicks off the season and file list fetches.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spin.Tick,
		m.refreshSeason(),
		m.refreshFiles(),
	)
}

// Update handles messages and keyboard input.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case seasonFetchedMsg:
		return m.handleSeasonFetched(msg)
	case insightsFetchedMsg:
		m.store.CompleteInsightsFetch(msg.insights, msg.err)
		return m, nil
	case historicalFetchedMsg:
		m.store.CompleteHistoricalFetch(msg.year, msg.season, msg.err)
		return m, nil
	case filesListedMsg:
		return m.handleFilesListed(msg)
	case uploadDoneMsg:
		return m.handleUploadDone(msg)
	case analyzeDoneMsg:
		m.store.CompleteAnalyze(msg.fileID, msg.analysis, msg.err)
		return m, nil
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case uploadStatusExpiredMsg:
		m.store.Notifier().ClearUploadStatus()
		return m, nil
	}

	return m, nil
}

func (m *Model) refreshSeason() tea.Cmd {
	m.store.BeginSeasonFetch()
	return fetchSeasonCmd(m.client, m.apiKey)
}

func (m *Model) refreshFiles() tea.Cmd {
	m.store.BeginFileListFetch()
	return listFilesCmd(m.client)
}

func (m *Model) handleSeasonFetched(msg seasonFetchedMsg) (tea.Model, tea.Cmd) {
	if m.store.CompleteSeasonFetch(msg.snapshot, msg.err) {
		m.store.BeginInsightsFetch()
		return m, fetchInsightsCmd(m.client)
	}
	return m, nil
}

func (m *Model) handleFilesListed(msg filesListedMsg) (tea.Model, tea.Cmd) {
	m.store.CompleteFileListFetch(msg.files, msg.err)

	if files, ok := m.store.Files(); ok && m.fileCursor >= len(files) {
		m.fileCursor = max(0, len(files)-1)
	}
	return m, nil
}

func (m *Model) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	refresh := m.store.CompleteUpload(msg.err)

	var cmds []tea.Cmd
	if refresh {
		cmds = append(cmds, m.refreshFiles())
	}
	if msg.err == nil {
		cmds = append(cmds, expireUploadStatusCmd(m.uploadTTL))
	}
	return m, tea.Batch(cmds...)
}

// handleDeleteDone applies a finished delete. A network failure has no
// store-side completion, so it unwinds the in-flight delete here and queues
// a notice.
func (m *Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.AbortDelete()
		m.store.Notifier().PushNotice(api.UserMessage(msg.err, "Failed to delete file"))
		return m, nil
	}

	if m.store.CompleteDelete(msg.fileID) {
		return m, m.refreshFiles()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}
	if _, pending := m.store.PendingDelete(); pending {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab", "right", "l":
		m.cycleTab(1)
		return m, nil
	case "shift+tab", "left", "h":
		m.cycleTab(-1)
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		m.selectTabByNumber(msg.String())
		return m, nil
	case "x":
		m.store.Notifier().DismissNotice()
		return m, nil
	case "r":
		return m.handleRefresh()
	}

	return m.handleTabKey(msg)
}

// handleTabKey dispatches keys whose meaning depends on the active tab.
func (m *Model) handleTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.store.ActiveTab() {
	case dash.TabStandings, dash.TabConstructors, dash.TabRace:
		if msg.String() == "k" {
			return m.openPrompt(promptAPIKey, "OpenF1 API key (blank for public data)")
		}
	case dash.TabHistorical:
		if msg.String() == "y" {
			return m.openPrompt(promptYear, fmt.Sprintf("Season year (e.g. %d)", m.defaultYear))
		}
	case dash.TabFiles:
		return m.handleFilesKey(msg)
	}
	return m, nil
}

func (m *Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files, _ := m.store.Files()

	switch msg.String() {
	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case "down", "j":
		if m.fileCursor < len(files)-1 {
			m.fileCursor++
		}
	case "u":
		return m.openPrompt(promptUploadPath, "Path to a .csv or .json file")
	case "a":
		if f, ok := m.selectedFile(); ok && !m.store.Tracker().Analyzing(f.ID) {
			m.store.BeginAnalyze(f.ID)
			return m, analyzeFileCmd(m.client, f.ID)
		}
	case "d":
		if f, ok := m.selectedFile(); ok {
			m.store.RequestDelete(f.ID)
		}
	}
	return m, nil
}

func (m *Model) selectedFile() (api.FileRecord, bool) {
	files, ok := m.store.Files()
	if !ok || len(files) == 0 || m.fileCursor >= len(files) {
		return api.FileRecord{}, false
	}
	return files[m.fileCursor], true
}

// handleRefresh re-fetches whatever the active tab shows.
func (m *Model) handleRefresh() (tea.Model, tea.Cmd) {
	switch m.store.ActiveTab() {
	case dash.TabStandings, dash.TabConstructors, dash.TabRace:
		return m, m.refreshSeason()
	case dash.TabHistorical:
		if year := m.store.HistoricalYear(); year != 0 {
			m.store.BeginHistoricalFetch(year)
			return m, fetchHistoricalCmd(m.client, year)
		}
	case dash.TabFiles:
		return m, m.refreshFiles()
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if fileID, ok := m.store.ConfirmDelete(); ok {
			return m, deleteFileCmd(m.client, fileID)
		}
	case "n", "N", "esc":
		m.store.CancelDelete()
	}
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	kind := m.prompt
	m.closePrompt()

	switch kind {
	case promptAPIKey:
		m.apiKey = value
		return m, m.refreshSeason()
	case promptYear:
		year, err := strconv.Atoi(value)
		if err != nil || year < 1950 {
			m.store.Notifier().PushNotice("Enter a valid season year (1950 or later)")
			return m, nil
		}
		m.store.BeginHistoricalFetch(year)
		return m, fetchHistoricalCmd(m.client, year)
	case promptUploadPath:
		if value == "" {
			return m, nil
		}
		m.store.BeginUpload()
		return m, uploadFileCmd(m.client, value)
	}
	return m, nil
}

func (m *Model) cycleTab(delta int) {
	tabs := m.store.AvailableTabs()
	current := 0
	for i, t := range tabs {
		if t == m.store.ActiveTab() {
			current = i
			break
		}
	}
	next := (current + delta + len(tabs)) % len(tabs)
	m.store.SelectTab(tabs[next])
}

func (m *Model) selectTabByNumber(key string) {
	idx := int(key[0] - '1')
	tabs := m.store.AvailableTabs()
	if idx >= 0 && idx < len(tabs) {
		m.store.SelectTab(tabs[idx])
	}
}

// Run starts the dashboard TUI and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
