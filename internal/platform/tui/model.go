package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

// Options tune a table screen.
type Options struct {
	// BotDelay is the pause before each automated action.
	BotDelay time.Duration
	// DriveBots makes this screen step automated seats. Exactly one screen
	// per room should drive them.
	DriveBots bool
}

// viewMsg carries a freshly loaded view of the room.
type viewMsg struct {
	view table.View
	err  error
}

// actionMsg reports the outcome of a user action.
type actionMsg struct {
	err error
}

// botStepMsg reports the outcome of one automated action.
type botStepMsg struct {
	err error
}

// TableModel is the Bubble Tea model of one seat at a domino table.
type TableModel struct {
	ctx     context.Context
	svc     *table.Service
	roomID  string
	userID  string
	session *table.ChannelSession
	opts    Options

	keys   KeyMap
	help   help.Model
	scores btable.Model

	view       table.View
	loaded     bool
	cursor     int
	sideIdx    int
	status     string
	err        error
	botPending bool
	width      int
	height     int
	quitting   bool
}

// NewTableModel creates the screen for userID in roomID. If session is nil a
// new one is created; either way it is subscribed to the room's events.
func NewTableModel(ctx context.Context, svc *table.Service, roomID, userID string, session *table.ChannelSession, opts Options) TableModel {
	if session == nil {
		session = table.NewChannelSession(table.SessionID(fmt.Sprintf("%s-%d", userID, time.Now().UnixNano())), 64)
	}
	svc.Watch(roomID, session)

	h := help.New()
	h.ShowAll = false

	return TableModel{
		ctx:     ctx,
		svc:     svc,
		roomID:  roomID,
		userID:  userID,
		session: session,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    h,
		scores:  newScoreTable(),
		width:   80,
		height:  24,
	}
}

func newScoreTable() btable.Model {
	columns := []btable.Column{
		{Title: "Seat", Width: 4},
		{Title: "Player", Width: 16},
		{Title: "Tiles", Width: 5},
		{Title: "Game", Width: 6},
		{Title: "Match", Width: 6},
	}
	t := btable.New(
		btable.WithColumns(columns),
		btable.WithFocused(false),
		btable.WithHeight(domino.MaxPlayers+1),
	)

	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init loads the view and starts listening for table events.
func (m TableModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForEvent())
}

func (m TableModel) refresh() tea.Cmd {
	return func() tea.Msg {
		v, err := m.svc.View(m.ctx, m.roomID, m.userID)
		return viewMsg{view: v, err: err}
	}
}

// waitForEvent returns a command that waits for the next table event.
func (m TableModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-m.session.Events():
			return evt
		case <-m.session.Done():
			return nil
		case <-m.ctx.Done():
			m.session.Close()
			return nil
		}
	}
}

// Update handles messages and updates the model state.
func (m TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		return m.handleView(msg)

	case actionMsg:
		m.err = msg.err
		return m, m.refresh()

	case botStepMsg:
		m.botPending = false
		if msg.err != nil {
			m.err = msg.err
		}
		return m, m.refresh()

	case TickMsg:
		return m, m.stepBot()

	case table.Event:
		m.status = m.describe(msg)
		return m, tea.Batch(m.refresh(), m.waitForEvent())
	}

	return m, nil
}

func (m TableModel) handleView(msg viewMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.view = msg.view
	m.loaded = true
	m.clampCursor()
	m.scores.SetRows(m.scoreRows())

	if m.opts.DriveBots && !m.botPending && m.botToMove() {
		m.botPending = true
		return m, tickCmd(m.opts.BotDelay)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m TableModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	g := m.view.Game
	if g == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		if len(g.Hand) > 0 {
			m.cursor = (m.cursor - 1 + len(g.Hand)) % len(g.Hand)
			m.sideIdx = 0
		}

	case key.Matches(msg, m.keys.Right):
		if len(g.Hand) > 0 {
			m.cursor = (m.cursor + 1) % len(g.Hand)
			m.sideIdx = 0
		}

	case key.Matches(msg, m.keys.Side):
		if sides := m.selectedSides(); len(sides) > 0 {
			m.sideIdx = (m.sideIdx + 1) % len(sides)
		}

	case key.Matches(msg, m.keys.Play):
		tile, ok := m.selectedTile()
		if !ok {
			return m, nil
		}
		side := domino.SideLeft
		if sides := m.selectedSides(); len(sides) > 0 {
			side = sides[m.sideIdx%len(sides)]
		}
		m.err = nil
		return m, m.act(func() error {
			_, err := m.svc.Play(m.ctx, m.roomID, m.userID, tile, side)
			return err
		})

	case key.Matches(msg, m.keys.Draw):
		m.err = nil
		return m, m.act(func() error {
			_, err := m.svc.Draw(m.ctx, m.roomID, m.userID)
			return err
		})

	case key.Matches(msg, m.keys.Pass):
		m.err = nil
		return m, m.act(func() error {
			_, err := m.svc.Pass(m.ctx, m.roomID, m.userID)
			return err
		})

	case key.Matches(msg, m.keys.NextGame):
		if !g.Finished || g.MatchFinished {
			return m, nil
		}
		m.err = nil
		return m, m.act(func() error {
			_, err := m.svc.StartGame(m.ctx, m.roomID)
			// Another seat may have dealt already.
			if errors.Is(err, domino.ErrGameInProgress) {
				return nil
			}
			return err
		})
	}

	return m, nil
}

func (m TableModel) act(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{err: fn()}
	}
}

func (m TableModel) stepBot() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.StepBot(m.ctx, m.roomID)
		return botStepMsg{err: err}
	}
}

// botToMove reports whether the seat to move is automated.
func (m TableModel) botToMove() bool {
	g := m.view.Game
	if g == nil || g.Finished {
		return false
	}
	for _, mem := range m.view.Members {
		if mem.Seat == g.Turn {
			return mem.IsBot
		}
	}
	return false
}

func (m *TableModel) clampCursor() {
	g := m.view.Game
	if g == nil || len(g.Hand) == 0 {
		m.cursor = 0
		m.sideIdx = 0
		return
	}
	if m.cursor >= len(g.Hand) {
		m.cursor = len(g.Hand) - 1
	}
	if sides := m.selectedSides(); m.sideIdx >= len(sides) {
		m.sideIdx = 0
	}
}

func (m TableModel) selectedTile() (domino.Tile, bool) {
	g := m.view.Game
	if g == nil || m.cursor < 0 || m.cursor >= len(g.Hand) {
		return domino.Tile{}, false
	}
	return g.Hand[m.cursor], true
}

func (m TableModel) selectedSides() []domino.Side {
	tile, ok := m.selectedTile()
	if !ok {
		return nil
	}
	return sidesFor(m.view.Game.LegalMoves, tile)
}

func (m TableModel) nickname(seat int) string {
	for _, mem := range m.view.Members {
		if mem.Seat == seat {
			return mem.Nickname
		}
	}
	return fmt.Sprintf("Seat %d", seat+1)
}

func (m TableModel) scoreRows() []btable.Row {
	g := m.view.Game
	if g == nil {
		return nil
	}
	rows := make([]btable.Row, g.PlayerCount)
	for seat := range g.PlayerCount {
		name := m.nickname(seat)
		if seat == m.view.Seat {
			name += " (you)"
		}
		rows[seat] = btable.Row{
			fmt.Sprintf("%d", seat+1),
			name,
			fmt.Sprintf("%d", g.HandCounts[seat]),
			fmt.Sprintf("%d", g.GameScores[seat]),
			fmt.Sprintf("%d", g.MatchScores[seat]),
		}
	}
	return rows
}

// describe turns a table event into a status line.
func (m TableModel) describe(evt table.Event) string {
	switch e := evt.(type) {
	case table.SeatedEvent:
		return fmt.Sprintf("%s sat down at seat %d", e.Member.Nickname, e.Member.Seat+1)
	case table.GameStartedEvent:
		if e.Opening.AutoPlayed {
			return fmt.Sprintf("Game %d dealt, %s opened with %s", e.GameIndex+1, m.nickname(e.Opening.Seat), e.Opening.Tile)
		}
		return fmt.Sprintf("Game %d dealt, %s opens", e.GameIndex+1, m.nickname(e.Opening.Seat))
	case table.MovedEvent:
		return moveText(m.nickname(e.Move.Seat), e.Move)
	case table.GameEndedEvent:
		return fmt.Sprintf("%s won game %d (%s, bonus %d)", m.nickname(e.Result.Winner), e.GameIndex+1, e.Result.Reason, e.Result.Bonus)
	case table.MatchEndedEvent:
		return fmt.Sprintf("%s won the match", e.Winner.Nickname)
	}
	return ""
}

// moveText describes a logged move.
func moveText(who string, mv table.Move) string {
	p := mv.Payload
	switch mv.Kind {
	case table.MoveOpen:
		return fmt.Sprintf("%s opened with %s", who, p.Tile)
	case table.MovePlay:
		s := fmt.Sprintf("%s played %s %s", who, p.Tile, p.Side)
		if p.Score > 0 {
			s += fmt.Sprintf(" for %d", p.Score)
		}
		if p.Transitioned {
			s += ", the table is now a cross"
		}
		return s
	case table.MoveDraw:
		return fmt.Sprintf("%s drew a tile", who)
	case table.MovePass:
		if p.Blocked {
			return fmt.Sprintf("%s passed, the table is blocked", who)
		}
		if p.AutoPass {
			return fmt.Sprintf("%s is stuck and passes", who)
		}
		return fmt.Sprintf("%s passed", who)
	}
	return string(mv.Kind)
}

// View renders the table.
func (m TableModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.loaded {
		if m.err != nil {
			return errorStyle.Render(m.err.Error())
		}
		return "Loading table..."
	}

	var b strings.Builder
	room := m.view.Room
	b.WriteString(titleStyle.Render(centerText(fmt.Sprintf("TELEFON DOMINO  room %s", room.Code), m.width)))
	b.WriteString("\n\n")

	g := m.view.Game
	if g == nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Waiting for players (%d/%d seated)", len(m.view.Members), room.Players)))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("Game %d  target %d  stock %d  %s board", g.GameIndex+1, g.Rules.MatchTarget, g.StockCount, g.Board.Mode())
	b.WriteString(dimStyle.Render(header))
	b.WriteString("\n")

	board := renderBoard(g.Board) + "\n\n" + dimStyle.Render("ends: "+endsText(g.OpenEnds))
	scores := m.scores.View()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(board), "  ", panelStyle.Render(scores)))
	b.WriteString("\n")

	b.WriteString(m.turnLine())
	b.WriteString("\n\n")
	b.WriteString("Your hand: ")
	b.WriteString(renderHand(g.Hand, m.cursor, g.LegalMoves))
	b.WriteString("\n")
	if sides := m.selectedSides(); len(sides) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("play on: %s", sides[m.sideIdx%len(sides)])))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m TableModel) turnLine() string {
	g := m.view.Game
	switch {
	case g.MatchFinished:
		return turnStyle.Render(fmt.Sprintf("Match over, %s wins with %d", m.nickname(g.MatchWinner), g.MatchScores[g.MatchWinner]))
	case g.Finished:
		return turnStyle.Render(fmt.Sprintf("%s won the game, press n to deal the next one", m.nickname(g.Winner)))
	case g.MyTurn() && g.CanDraw():
		return turnStyle.Render("Your turn: no playable tile, press d to draw")
	case g.MyTurn() && g.CanPass():
		return turnStyle.Render("Your turn: no playable tile and no stock, press p to pass")
	case g.MyTurn():
		return turnStyle.Render("Your turn")
	}
	return dimStyle.Render(fmt.Sprintf("Waiting for %s", m.nickname(g.Turn)))
}

// Run starts the Bubble Tea program for userID at roomID.
func Run(ctx context.Context, svc *table.Service, roomID, userID string, opts Options) error {
	model := NewTableModel(ctx, svc, roomID, userID, nil, opts)
	defer model.session.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
