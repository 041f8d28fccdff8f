package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/partpick/internal/catalog"
	"github.com/five82/partpick/internal/logging"
	"github.com/five82/partpick/internal/prefs"
	"github.com/five82/partpick/internal/preview"
	"github.com/five82/partpick/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewPicker View = iota
	ViewLogs
)

// Pane is the focused area of the picker view.
type Pane int

const (
	PaneSearch Pane = iota
	PaneResults
	PaneDetail
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Warehouse   catalog.Warehouse
	Credentials catalog.Credentials
	DriverID    int
	Store       *state.Store
	ServerURL   string
	LogFile     string
	Prefs       prefs.Prefs
	PrefsPath   string
	Logger      *zap.Logger
	UITick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	warehouse catalog.Warehouse
	creds     catalog.Credentials
	driverID  int
	store     *state.Store
	serverURL string
	logFile   string
	prefs     prefs.Prefs
	prefsPath string
	log       *zap.Logger
	uiTick    time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	view     View
	focus    Pane
	width    int
	height   int
	ready    bool
	showHelp bool

	// Driver calls run one at a time; busy holds the label of the running one.
	busy    string
	spinner spinner.Model

	// Data state
	snapshot state.Snapshot
	cursor   int
	selected int // position of the part shown in the detail pane, -1 for none

	// Widgets
	searchInput    textinput.Model
	detailViewport viewport.Model
	logViewport    viewport.Model
	logEntries     []logging.Entry
	logErr         error

	// Status dialog for error and info events not yet acknowledged.
	dialog     *state.StatusLine
	statusSeen time.Time

	// Image preview
	imagesSupported   bool
	showImages        bool
	image             *preview.Image
	imagePath         string
	imageLoading      string // path of the preview being decoded
	pendingImageClear bool

	notes *notesCache
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tick := opts.UITick
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "search parts"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.SetValue(opts.Prefs.LastSearch)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	// Init starts the first connect, so the model begins busy.
	busy := ""
	if opts.Warehouse != nil {
		busy = "Connecting"
	}

	return Model{
		ctx:             ctx,
		warehouse:       opts.Warehouse,
		creds:           opts.Credentials,
		driverID:        opts.DriverID,
		store:           opts.Store,
		serverURL:       opts.ServerURL,
		logFile:         opts.LogFile,
		prefs:           opts.Prefs,
		prefsPath:       prefsPath,
		log:             log.With(zap.String("component", "ui")),
		uiTick:          tick,
		theme:           GetTheme(opts.Prefs.Theme),
		keys:            DefaultKeyMap(),
		help:            help.New(),
		view:            ViewPicker,
		focus:           PaneResults,
		busy:            busy,
		spinner:         sp,
		selected:        -1,
		searchInput:     ti,
		imagesSupported: preview.Supported(),
		showImages:      opts.Prefs.ShowImages,
		notes:           &notesCache{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.uiTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.warehouse != nil {
		cmds = append(cmds, connectCmd(m.ctx, m.warehouse, m.creds, m.driverID))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resize()
		m.updateDetailViewport()
		m.updateLogViewport()
		cmd := m.loadImage()
		return m, cmd

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		cmd := m.loadImage()
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectDoneMsg:
		return m.handleConnectDone(msg)

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case selectDoneMsg:
		return m.handleSelectDone(msg)

	case imageMsg:
		return m.handleImage(msg)

	case logsMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var prefix string
	if m.pendingImageClear {
		prefix = preview.ClearAll()
	}

	if m.showHelp {
		return prefix + m.renderHelp()
	}
	if m.dialog != nil {
		return prefix + m.renderDialog()
	}
	return prefix + m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		cmd := m.loadImage()
		return m, cmd
	}

	if m.dialog != nil {
		// Any key acknowledges the dialog.
		m.dialog = nil
		cmd := m.loadImage()
		return m, cmd
	}

	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// Typing into the search box swallows everything but a few control keys.
	if m.view == ViewPicker && m.focus == PaneSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.dropImage()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.notes.reset()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.view == ViewLogs {
			m.view = ViewPicker
			cmd := m.loadImage()
			return m, cmd
		}
		m.view = ViewLogs
		m.dropImage()
		return m, refreshLogsCmd(m.logFile)

	case key.Matches(msg, m.keys.Escape):
		if m.view == ViewLogs {
			m.view = ViewPicker
			cmd := m.loadImage()
			return m, cmd
		}
		m.focus = PaneResults
		return m, nil
	}

	switch m.view {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handlePickerKey(msg)
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchInput.Blur()
		m.focus = PaneResults
		return m.startSearch(m.searchInput.Value())
	case "esc", "tab":
		m.searchInput.Blur()
		m.focus = PaneResults
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.focus = PaneSearch
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Tab):
		m.focus = nextPane(m.focus)
		if m.focus == PaneSearch {
			cmd := m.searchInput.Focus()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.focus = prevPane(m.focus)
		if m.focus == PaneSearch {
			cmd := m.searchInput.Focus()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Reconnect):
		return m.startConnect()

	case key.Matches(msg, m.keys.ToggleImages):
		m.showImages = !m.showImages
		m.prefs.ShowImages = m.showImages
		m.savePrefs()
		if !m.showImages {
			m.dropImage()
			return m, nil
		}
		cmd := m.loadImage()
		return m, cmd

	case key.Matches(msg, m.keys.Confirm):
		if m.focus == PaneResults {
			return m.startSelect(m.cursor)
		}
		return m, nil
	}

	if m.focus == PaneDetail {
		m.scrollViewport(&m.detailViewport, msg)
		return m, nil
	}
	return m.handleResultsKey(msg)
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Results)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.scrollViewport(&m.logViewport, msg)
	return m, nil
}

func (m Model) scrollViewport(vp *viewport.Model, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	}
}

func nextPane(p Pane) Pane {
	return (p + 1) % 3
}

func prevPane(p Pane) Pane {
	return (p + 2) % 3
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

// startConnect runs the connect pipeline unless another call is in flight.
func (m Model) startConnect() (tea.Model, tea.Cmd) {
	if m.busy != "" || m.warehouse == nil {
		return m, nil
	}
	m.busy = "Connecting"
	return m, connectCmd(m.ctx, m.warehouse, m.creds, m.driverID)
}

// startSearch runs a search unless another call is in flight. The term is
// remembered in prefs so the next session opens with it.
func (m Model) startSearch(term string) (tea.Model, tea.Cmd) {
	term = strings.TrimSpace(term)
	if m.busy != "" || m.warehouse == nil || term == "" {
		return m, nil
	}
	m.busy = "Searching"
	if m.prefs.LastSearch != term {
		m.prefs.LastSearch = term
		m.savePrefs()
	}
	return m, searchCmd(m.ctx, m.warehouse, term)
}

func (m Model) startSelect(position int) (tea.Model, tea.Cmd) {
	if m.busy != "" || m.warehouse == nil || position >= len(m.snapshot.Results) {
		return m, nil
	}
	m.busy = "Loading part"
	return m, selectCmd(m.ctx, m.warehouse, position)
}

func (m Model) handleConnectDone(msg connectDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	if m.store != nil {
		m.store.SetConnected(m.driverID, msg.info, msg.err)
	}
	if msg.err != nil {
		m.log.Warn("connect failed", zap.Error(msg.err))
		if errors.Is(msg.err, catalog.ErrMissingCredentials) {
			m.dialog = &state.StatusLine{
				Time:     time.Now(),
				Message:  "No credentials configured. Set username and password in the config file or INVENTREE_USERNAME / INVENTREE_PASSWORD.",
				Context:  "Connect",
				Severity: catalog.SeverityErrorDialog,
			}
		}
		return m, fetchSnapshotCmd(m.store)
	}
	if term := strings.TrimSpace(m.searchInput.Value()); term != "" {
		return m.startSearch(term)
	}
	return m, fetchSnapshotCmd(m.store)
}

func (m Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	if m.store != nil {
		m.store.RecordResult(msg.err)
	}
	if msg.err != nil {
		m.log.Warn("search failed", zap.String("term", msg.term), zap.Error(msg.err))
	}
	m.cursor = 0
	m.selected = -1
	m.dropImage()
	m.imagePath = ""
	m.updateDetailViewport()
	return m, fetchSnapshotCmd(m.store)
}

func (m Model) handleSelectDone(msg selectDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = ""
	if m.store != nil {
		m.store.RecordResult(msg.err)
	}
	if msg.err != nil {
		m.log.Warn("select failed", zap.Int("position", msg.position), zap.Error(msg.err))
		return m, fetchSnapshotCmd(m.store)
	}
	m.selected = msg.position
	m.focus = PaneDetail
	m.detailViewport.GotoTop()
	return m, fetchSnapshotCmd(m.store)
}

func (m Model) handleImage(msg imageMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.imagePath {
		// A newer selection superseded this load.
		return m, nil
	}
	if msg.err != nil {
		m.log.Debug("image preview unavailable", zap.String("path", msg.path), zap.Error(msg.err))
		return m, nil
	}
	m.image = msg.img
	m.pendingImageClear = false
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// The clear escape went out with the last frame.
	m.pendingImageClear = false

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.view == ViewLogs {
		cmds = append(cmds, refreshLogsCmd(m.logFile))
	}
	cmds = append(cmds, tickCmd(m.uiTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot folds a fresh store snapshot into the view.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap

	if n := len(snap.Results); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if !snap.HasDetail {
		m.selected = -1
	}

	// Surface dialog-severity statuses that arrived since the last snapshot.
	for _, line := range snap.Statuses {
		if !line.Time.After(m.statusSeen) {
			continue
		}
		m.statusSeen = line.Time
		if line.Severity == catalog.SeverityErrorDialog || line.Severity == catalog.SeverityInfoDialog {
			l := line
			m.dialog = &l
			m.dropImage()
		}
	}

	if snap.HasDetail && snap.Detail.ImagePath != m.imagePath {
		m.dropImage()
		m.imagePath = snap.Detail.ImagePath
	}
	m.updateDetailViewport()
}

func (m *Model) dropImage() {
	if m.image != nil {
		m.pendingImageClear = true
	}
	m.image = nil
	m.imageLoading = ""
}

// loadImage schedules decoding of the current detail image when previews are on.
func (m *Model) loadImage() tea.Cmd {
	if !m.imagesSupported || !m.showImages || m.imagePath == "" || m.image != nil || !m.ready {
		return nil
	}
	if m.imageLoading == m.imagePath {
		return nil
	}
	w, h := m.imageBox()
	if w <= 0 || h <= 0 {
		return nil
	}
	m.imageLoading = m.imagePath
	return loadImageCmd(m.imagePath, w, h)
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type connectDoneMsg struct {
	info map[string]string
	err  error
}

type searchDoneMsg struct {
	term         string
	descriptions []string
	err          error
}

type selectDoneMsg struct {
	position int
	detail   catalog.PartDetail
	err      error
}

type imageMsg struct {
	path string
	img  *preview.Image
	err  error
}

type logsMsg struct {
	entries []logging.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func connectCmd(ctx context.Context, w catalog.Warehouse, creds catalog.Credentials, driverID int) tea.Cmd {
	return func() tea.Msg {
		err := w.Connect(ctx, creds, driverID)
		var info map[string]string
		if err == nil {
			info = w.ConnectionInfo()
		}
		return connectDoneMsg{info: info, err: err}
	}
}

func searchCmd(ctx context.Context, w catalog.Warehouse, term string) tea.Cmd {
	return func() tea.Msg {
		descriptions, err := w.Search(ctx, term)
		return searchDoneMsg{term: term, descriptions: descriptions, err: err}
	}
}

func selectCmd(ctx context.Context, w catalog.Warehouse, position int) tea.Cmd {
	return func() tea.Msg {
		detail, err := w.SelectPart(ctx, position)
		return selectDoneMsg{position: position, detail: detail, err: err}
	}
}

func loadImageCmd(path string, wCells, hCells int) tea.Cmd {
	return func() tea.Msg {
		img, err := preview.Load(path, wCells, hCells)
		return imageMsg{path: path, img: img, err: err}
	}
}

func refreshLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{err: fmt.Errorf("logging disabled: no log_file configured")}
		}
		entries, err := logging.Tail(path, maxLogLines)
		return logsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if model.imagesSupported {
		// Kitty images outlive the alt screen unless deleted explicitly.
		fmt.Print(preview.ClearAll())
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
