package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/petpal/internal/chat"
	"github.com/muurk/petpal/internal/petpalapi"
	"github.com/muurk/petpal/internal/session"
)

// Focus is the panel that receives key input
type Focus int

const (
	FocusInput Focus = iota // image path or breed search
	FocusPreferences
	FocusChat
)

// appKeyMap defines the global key bindings
type appKeyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	Focus      key.Binding
	FocusBack  key.Binding
	Analyze    key.Binding
	More       key.Binding
	Theme      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.NextTab, k.Analyze, k.More, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Focus, k.FocusBack},
		{k.Analyze, k.More, k.Theme},
		{k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}

func newAppKeyMap() appKeyMap {
	return appKeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev tab"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		FocusBack: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "analyze"),
		),
		More: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "more recipes"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "dark/light"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// AppModel is the top-level model. It renders a session.Controller and
// turns user actions into controller calls; transport calls run as
// commands and come back as messages.
type AppModel struct {
	ctx        context.Context
	Controller *session.Controller
	Asker      chat.Asker

	// State is the snapshot the view renders from
	State session.State

	// Panels
	Picker ImagePickerModel
	Search BreedSearchModel
	Prefs  PreferencesModel
	Chat   ChatPanelModel

	Focus       Focus
	Notice      session.Notice
	ShowingHelp bool

	Spinner  spinner.Model
	Viewport viewport.Model
	Styles   Styles

	// UI state
	Width  int
	Height int

	// Help
	Help help.Model
	Keys appKeyMap
}

// NewAppModel creates the application model for controller. Chat questions
// are sent through asker.
func NewAppModel(ctx context.Context, controller *session.Controller, asker chat.Asker) AppModel {
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := AppModel{
		ctx:        ctx,
		Controller: controller,
		Asker:      asker,
		Picker:     NewImagePicker(),
		Search:     NewBreedSearch(),
		Chat:       NewChatPanel(),
		Focus:      FocusInput,
		Spinner:    s,
		Viewport:   viewport.New(MinTerminalWidth-4, 20),
		Width:      MinTerminalWidth,
		Height:     24,
		Help:       help.New(),
		Keys:       newAppKeyMap(),
	}

	m = m.sync()
	return m.refresh()
}

// Init starts the catalog fetch
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(bootstrapCmd(m.ctx, m.Controller), textinput.Blink)
}

// Update handles all messages and re-renders the scrollable body
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m.refresh(), cmd
}

func (m AppModel) update(msg tea.Msg) (AppModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.Keys.Quit) {
			return m, tea.Quit
		}
		if m.Notice.Blocking() {
			return m.updateNotice(msg)
		}
		if m.ShowingHelp {
			m.ShowingHelp = false
			return m, nil
		}
		return m.handleKey(msg)

	case catalogLoadedMsg:
		m = m.sync()
		m.Search.SetPopular(m.State.Catalog.PopularBreeds)
		return m, nil

	case imageLoadedMsg:
		// Dropped when the mode changed while the file was read
		if msg.generation != m.Controller.Snapshot().Generation {
			return m, nil
		}
		if msg.err != nil {
			m.Notice = session.Notice{Kind: session.NoticePrecondition, Message: msg.err.Error()}
			return m, nil
		}
		if n := m.Controller.SelectFile(msg.file); !n.IsZero() {
			m.Notice = n
		} else {
			m.Picker.Input.Reset()
		}
		return m.sync(), nil

	case outcomeMsg:
		if n := m.Controller.Complete(msg.outcome); !n.IsZero() {
			m.Notice = n
		}
		m = m.sync()
		if msg.outcome.Op != session.OpGenerateMore && m.State.Phase == session.PhaseResultReady {
			m.Viewport.GotoTop()
		}
		return m, nil

	case chatReplyMsg:
		m.Chat.Resolve(msg.reply)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

// handleKey processes global bindings, then routes to the focused panel
func (m AppModel) handleKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.NextTab):
		return m.switchMode(nextMode(m.State.Mode, 1))
	case key.Matches(msg, m.Keys.PrevTab):
		return m.switchMode(nextMode(m.State.Mode, -1))
	case key.Matches(msg, m.Keys.Focus):
		return m.cycleFocus(1)
	case key.Matches(msg, m.Keys.FocusBack):
		return m.cycleFocus(-1)
	case key.Matches(msg, m.Keys.Analyze):
		return m.startAnalyze()
	case key.Matches(msg, m.Keys.More):
		return m.startGenerateMore()
	case key.Matches(msg, m.Keys.Theme):
		m.Controller.ToggleTheme()
		return m.sync(), nil
	case key.Matches(msg, m.Keys.ScrollUp):
		m.Viewport.PageUp()
		return m, nil
	case key.Matches(msg, m.Keys.ScrollDown):
		m.Viewport.PageDown()
		return m, nil
	case key.Matches(msg, m.Keys.Help):
		m.ShowingHelp = true
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused routes a message to the focused panel
func (m AppModel) updateFocused(msg tea.Msg) (AppModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	enter := isKey && keyMsg.Type == tea.KeyEnter

	var cmd tea.Cmd
	switch m.Focus {
	case FocusInput:
		switch m.State.Mode {
		case session.ModeImage:
			if enter {
				if path := m.Picker.Path(); path != "" {
					return m, loadImageCmd(path, m.Controller.Snapshot().Generation)
				}
				return m.startAnalyze()
			}
			m.Picker, cmd = m.Picker.Update(msg)

		case session.ModeTextSearch:
			if enter {
				return m.startAnalyze()
			}
			m.Search, cmd = m.Search.Update(msg)
		}

	case FocusPreferences:
		var item *PrefItem
		m.Prefs, item = m.Prefs.Update(msg)
		if item != nil {
			switch item.Kind {
			case PrefAgeGroup:
				m.Controller.SetAgeGroup(item.Value)
			case PrefDietary:
				m.Controller.ToggleDietary(item.Value)
			}
			m = m.sync()
		}

	case FocusChat:
		var q *chat.Question
		m.Chat, q, cmd = m.Chat.Update(msg)
		if q != nil {
			m.Viewport.GotoBottom()
			return m, tea.Batch(askCmd(m.ctx, q), m.Spinner.Tick)
		}
	}

	return m, cmd
}

// updateNotice handles input while a notice is shown; any dismiss key closes it
func (m AppModel) updateNotice(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ":
		m.Notice = session.Notice{}
	}
	return m, nil
}

// startAnalyze analyzes the selected image or searches the typed breed
func (m AppModel) startAnalyze() (AppModel, tea.Cmd) {
	query := ""
	if m.State.Mode == session.ModeTextSearch {
		query = m.Search.Query()
	}

	p, n := m.Controller.BeginAnalyze(query)
	if p == nil {
		m.Notice = n
		return m.sync(), nil
	}
	if p.Op == session.OpSearchBreed {
		m.Search.Accept(p.Breed())
	}

	m = m.sync()
	return m, tea.Batch(runPendingCmd(m.ctx, p), m.Spinner.Tick)
}

// startGenerateMore requests a fresh recipe batch
func (m AppModel) startGenerateMore() (AppModel, tea.Cmd) {
	p, n := m.Controller.BeginGenerateMore()
	if p == nil {
		m.Notice = n
		return m.sync(), nil
	}

	m = m.sync()
	return m, tea.Batch(runPendingCmd(m.ctx, p), m.Spinner.Tick)
}

// switchMode changes tab. The breed workflow, inputs and chat all reset.
func (m AppModel) switchMode(mode session.Mode) (AppModel, tea.Cmd) {
	m.Controller.SwitchMode(mode)
	m.Chat.Reset()
	m.Picker.Input.Reset()
	m.Search.Accept("")
	m.Focus = FocusInput
	m.Viewport.GotoTop()

	m = m.sync()
	cmd := m.applyFocus()
	return m, cmd
}

// cycleFocus moves to the next available panel
func (m AppModel) cycleFocus(step int) (AppModel, tea.Cmd) {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.Focus {
			idx = i
			break
		}
	}
	m.Focus = order[(idx+step+len(order))%len(order)]
	cmd := m.applyFocus()
	return m, cmd
}

func (m AppModel) focusOrder() []Focus {
	if m.State.Mode == session.ModeGeneralChat {
		return []Focus{FocusChat}
	}
	order := []Focus{FocusInput, FocusPreferences}
	if m.Chat.Active() {
		order = append(order, FocusChat)
	}
	return order
}

// applyFocus focuses the text input belonging to the focused panel
func (m *AppModel) applyFocus() tea.Cmd {
	m.Picker.Input.Blur()
	m.Search.Input.Blur()
	m.Chat.Input.Blur()

	switch m.Focus {
	case FocusInput:
		if m.State.Mode == session.ModeImage {
			return m.Picker.Input.Focus()
		}
		return m.Search.Input.Focus()
	case FocusChat:
		return m.Chat.Input.Focus()
	}
	return nil
}

// sync takes a fresh controller snapshot and brings every panel in line with it
func (m AppModel) sync() AppModel {
	m.State = m.Controller.Snapshot()
	m.Styles = StylesFor(m.State.DarkMode)
	m.Spinner.Style = m.Styles.Spinner
	m.Prefs.Sync(m.State)
	m.Chat.Sync(m.State, m.Asker)

	valid := false
	for _, f := range m.focusOrder() {
		if f == m.Focus {
			valid = true
		}
	}
	if !valid {
		m.Focus = m.focusOrder()[0]
	}
	m.applyFocus()

	return m
}

// refresh re-renders the body into the viewport
func (m AppModel) refresh() AppModel {
	width := m.Width - 4
	if width < MinTerminalWidth-4 {
		width = MinTerminalWidth - 4
	}
	height := m.Height - chromeHeight
	if height < 5 {
		height = 5
	}

	m.Viewport.Width = width
	m.Viewport.Height = height
	m.Viewport.SetContent(m.buildContent())
	return m
}

func (m AppModel) busy() bool {
	return m.State.Loading || m.Chat.Waiting()
}

// View renders the current screen
func (m AppModel) View() string {
	if m.Notice.Blocking() {
		return RenderModal(m.renderNotice(), m.Width, m.Height)
	}
	if m.ShowingHelp {
		return RenderModal(m.renderHelp(), m.Width, m.Height)
	}

	return m.Styles.RenderApplicationContainer(
		m.Viewport.View(),
		m.apiStatus(),
		m.Help.View(m.Keys),
		m.Width,
		m.Height,
	)
}

func (m AppModel) apiStatus() string {
	if m.State.Catalog.APIStatus == "" {
		return session.APIStatusConnecting
	}
	return m.State.Catalog.APIStatus
}

// buildContent builds the scrollable body for the active tab
func (m AppModel) buildContent() string {
	s := m.Styles
	width := ContentWidth(m.Width)

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(Tagline))
	b.WriteString("\n")

	switch m.State.Mode {
	case session.ModeImage:
		b.WriteString(m.focusFrame(FocusInput, m.Picker.View(s, m.State, width)))
	case session.ModeTextSearch:
		b.WriteString(m.focusFrame(FocusInput, m.Search.View(s, m.State, width)))
	case session.ModeGeneralChat:
		b.WriteString(m.Chat.View(s, m.Spinner.View(), m.Focus == FocusChat, width))
		return b.String()
	}
	b.WriteString("\n")

	b.WriteString(m.focusFrame(FocusPreferences, m.Prefs.View(s, m.State, m.Focus == FocusPreferences, width)))
	b.WriteString("\n")

	if m.State.Loading {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View() + " " + s.Status.Render(m.State.StatusLabel))
		b.WriteString("\n")
	}

	if m.State.HasResult() {
		b.WriteString("\n")
		b.WriteString(renderResult(s, m.State, width))
	}

	if m.Chat.Active() {
		b.WriteString("\n")
		b.WriteString(m.focusFrame(FocusChat, m.Chat.View(s, m.Spinner.View(), m.Focus == FocusChat, width)))
	}

	return b.String()
}

// focusFrame marks the focused panel with a left rule
func (m AppModel) focusFrame(f Focus, content string) string {
	color := m.Styles.Palette.Subtle
	if m.Focus == f {
		color = m.Styles.Palette.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.Border{Left: "│"}, false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1).
		Render(strings.TrimRight(content, "\n"))
}

func (m AppModel) renderTabs() string {
	tabs := make([]string, 0, len(session.Modes))
	for _, mode := range session.Modes {
		if mode == m.State.Mode {
			tabs = append(tabs, m.Styles.ActiveTab.Render(mode.Label()))
		} else {
			tabs = append(tabs, m.Styles.Tab.Render(mode.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderNotice renders the blocking message box for the current notice
func (m AppModel) renderNotice() string {
	s := m.Styles
	width := SafeModalWidth(70, m.Width)

	var b strings.Builder
	switch m.Notice.Kind {
	case session.NoticeTransport:
		b.WriteString("✗ " + m.Notice.Message)
		if hints := petpalapi.GetTroubleshootingHint(m.Notice.Err); len(hints) > 0 {
			b.WriteString("\n")
			for _, hint := range hints {
				b.WriteString("\n  • " + hint)
			}
		}
	default:
		b.WriteString("⚠ " + m.Notice.Message)
	}
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render("enter/esc  dismiss"))

	style := s.WarningBox
	if m.Notice.Kind == session.NoticeTransport {
		style = s.ErrorBox
	}
	return style.Width(width).Render(b.String())
}

func (m AppModel) renderHelp() string {
	h := m.Help
	h.ShowAll = true

	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		m.Styles.Title.Render("Keyboard Shortcuts"),
		h.View(m.Keys),
		m.Styles.Help.Render("press any key to close"),
	)
	return m.Styles.InfoBox.Width(SafeModalWidth(80, m.Width)).Render(content)
}

// nextMode returns the tab step positions away from current, wrapping around
func nextMode(current session.Mode, step int) session.Mode {
	n := len(session.Modes)
	for i, mode := range session.Modes {
		if mode == current {
			return session.Modes[(i+step+n)%n]
		}
	}
	return session.Modes[0]
}
