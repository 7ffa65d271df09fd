package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/shoebot/storefront/internal/cart"
	"github.com/shoebot/storefront/internal/catalog"
	"github.com/shoebot/storefront/internal/chat"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
	requestTimeout        = 60 * time.Second
	cartEventBuffer       = 16
)

// Style definitions
var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// replyState represents the state of the pending assistant reply
type replyState int

const (
	replyIdle replyState = iota
	replyWaiting
)

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a new chat program instance
func NewChatProgram(bridge *chat.Bridge, coordinator *cart.Coordinator) *ChatProgram {
	return &ChatProgram{model: initialModel(bridge, coordinator)}
}

// Run starts the chat TUI program. A rejected token ends the session and
// is returned so the command layer can tear it down.
func (p *ChatProgram) Run() error {
	program := tea.NewProgram(p.model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(chatModel); ok && cart.IsUnauthorized(m.err) {
		return m.err
	}
	return nil
}

// cartListener forwards coordinator notifications into the Bubble Tea
// event loop. The channel is buffered so synchronous notification never
// blocks a mutation.
type cartListener struct {
	events chan tea.Msg
}

func newCartListener() *cartListener {
	return &cartListener{events: make(chan tea.Msg, cartEventBuffer)}
}

func (l *cartListener) CartUpdated(snapshot cart.Snapshot) {
	select {
	case l.events <- cartUpdateMsg{snapshot: snapshot}:
	default:
	}
}

func (l *cartListener) CartError(err error) {
	select {
	case l.events <- cartErrMsg{err: err}:
	default:
	}
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	// Dependencies
	bridge      *chat.Bridge
	coordinator *cart.Coordinator
	listener    *cartListener

	// UI components
	input       textinput.Model
	contentView viewport.Model

	// Reply state
	state replyState

	// Cart badge state
	badgeCount int
	badgeTotal float64

	// Last recommended products, indexable via /add
	recommended []catalog.Product

	// Error state
	err error

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(bridge *chat.Bridge, coordinator *cart.Coordinator) chatModel {
	input := textinput.New()
	input.Placeholder = ""
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""
	input.TextStyle = lipgloss.NewStyle()
	input.PromptStyle = lipgloss.NewStyle()

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	listener := newCartListener()
	coordinator.Subscribe(listener)

	return chatModel{
		bridge:      bridge,
		coordinator: coordinator,
		listener:    listener,
		input:       input,
		contentView: contentViewport,
		state:       replyIdle,
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.initialRefresh(),
		waitForCartEvent(m.listener.events),
	)
}

// Message type definitions
type (
	replyMsg struct {
		err error
	}
	cartUpdateMsg struct{ snapshot cart.Snapshot }
	cartErrMsg    struct{ err error }
)

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case replyMsg:
		m.state = replyIdle
		m.err = msg.err
		if cart.IsUnauthorized(msg.err) {
			return m, tea.Quit
		}
		m.rememberRecommendations()
		m.refreshContent()

	case cartUpdateMsg:
		m.badgeCount = msg.snapshot.ItemCount()
		m.badgeTotal = msg.snapshot.Total
		cmds = append(cmds, waitForCartEvent(m.listener.events))

	case cartErrMsg:
		m.err = msg.err
		if cart.IsUnauthorized(msg.err) {
			return m, tea.Quit
		}
		m.refreshContent()
		cmds = append(cmds, waitForCartEvent(m.listener.events))
	}

	// Only accept typing while no reply is pending
	if m.state != replyWaiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyEnter:
		if m.state != replyWaiting {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.input.Reset()
				m.err = nil
				if cmd := m.dispatch(text); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

// dispatch routes input to either the /add command or a chat turn
func (m *chatModel) dispatch(text string) tea.Cmd {
	if strings.HasPrefix(text, "/add") {
		return m.handleAddCommand(text)
	}

	m.state = replyWaiting
	m.refreshContent()
	return m.sendMessage(text)
}

// handleAddCommand parses "/add <n> <size> <color>" against the latest
// recommendations and adds that variant through the coordinator
func (m *chatModel) handleAddCommand(text string) tea.Cmd {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		m.err = fmt.Errorf("usage: /add <n> <size> <color>")
		m.refreshContent()
		return nil
	}

	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 1 || index > len(m.recommended) {
		m.err = fmt.Errorf("no recommended product #%s, ask for suggestions first", fields[1])
		m.refreshContent()
		return nil
	}

	product := m.recommended[index-1]
	size, color := fields[2], fields[3]

	m.state = replyWaiting
	m.refreshContent()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := m.bridge.AddRecommended(ctx, product, size, color)
		return replyMsg{err: err}
	}
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	// Reapply wrapping when window size changes
	m.refreshContent()
}

// initialRefresh primes the cart badge with the server state
func (m chatModel) initialRefresh() tea.Cmd {
	coordinator := m.coordinator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snapshot, err := coordinator.Refresh(ctx)
		if err != nil {
			return cartErrMsg{err: err}
		}
		return cartUpdateMsg{snapshot: snapshot}
	}
}

// sendMessage runs one chat turn against the assistant
func (m chatModel) sendMessage(text string) tea.Cmd {
	bridge := m.bridge
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := bridge.Send(ctx, text)
		return replyMsg{err: err}
	}
}

// waitForCartEvent waits for the next coordinator notification
func waitForCartEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// rememberRecommendations keeps the most recent assistant product list
// so /add can reference it by index
func (m *chatModel) rememberRecommendations() {
	messages := m.bridge.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleAssistant && len(messages[i].Products) > 0 {
			m.recommended = messages[i].Products
			return
		}
	}
}

// refreshContent re-renders the transcript into the viewport
func (m *chatModel) refreshContent() {
	var sb strings.Builder

	for _, message := range m.bridge.Messages() {
		switch message.Role {
		case chat.RoleUser:
			sb.WriteString("\n")
			sb.WriteString(boldStyle.Render("You"))
		case chat.RoleAssistant:
			sb.WriteString("\n")
			sb.WriteString(accentStyle.Render("Assistant"))
		}
		sb.WriteString("\n")
		sb.WriteString(message.Text)
		sb.WriteString("\n")

		for i, product := range message.Products {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d. %s (%s) $%.2f", i+1, product.Name, product.Brand, product.Price)))
			sb.WriteString("\n")
		}
	}

	if m.state == replyWaiting {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("..."))
	}
	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	display := sb.String()
	if m.width > 0 {
		display = m.wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// wrapText applies auto-wrapping to text using display widths
func (m *chatModel) wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result strings.Builder

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		// Keep empty lines as-is
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.WriteString(m.wrapLine(line, maxWidth))
	}

	return result.String()
}

// wrapLine wraps a single line of text at display width
func (m *chatModel) wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	// Top status bar with the live cart badge
	status := badgeStyle.Render(fmt.Sprintf("🛒 %d", m.badgeCount))
	status += dimStyle.Render(fmt.Sprintf(" • $%.2f", m.badgeTotal))
	if m.state == replyWaiting {
		status += dimStyle.Render(" • thinking...")
	}

	// Content area
	content := m.contentView.View()

	// Input area
	var inputView string
	if m.state == replyWaiting {
		inputView = dimStyle.Render("> ") + dimStyle.Render("waiting for reply...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	// Bottom help text
	help := ""
	if m.state != replyWaiting {
		help = dimStyle.Render("Enter send • /add <n> <size> <color> • ↑↓ scroll • Esc quit")
	}

	parts := []string{status, "", content, "", inputView}
	if help != "" {
		parts = append(parts, help)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
