package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

// LobbyState represents the current step of the seating flow.
type LobbyState int

const (
	LobbyStateChoose    LobbyState = iota // Choose bots, host or join
	LobbyStateHosting                     // Hosting, waiting for players
	LobbyStateEnterCode                   // Entering a join code
	LobbyStateWaiting                     // Seated, waiting for the deal
)

var lobbyChoices = []string{
	"Play against bots",
	"Host a table",
	"Join a table",
}

// Seating tells where the lobby seated its user.
type Seating struct {
	RoomID    string
	DriveBots bool
}

type hostedMsg struct {
	room table.Room
	err  error
}

type joinedMsg struct {
	room    table.Room
	started bool
	err     error
}

type seatedMsg struct {
	seating Seating
	err     error
}

// NewBotTable creates a room, seats userID and fills the other seats with
// strategy, then deals the first game.
func NewBotTable(ctx context.Context, svc *table.Service, players int, userID, nickname, strategy string) (table.Room, error) {
	room, err := svc.CreateRoom(ctx, players)
	if err != nil {
		return table.Room{}, err
	}
	if _, err := svc.Join(ctx, room.Code, userID, nickname); err != nil {
		return table.Room{}, err
	}
	if _, err := svc.AddBots(ctx, room.ID, strategy); err != nil {
		return table.Room{}, err
	}
	if _, err := svc.StartGame(ctx, room.ID); err != nil {
		return table.Room{}, err
	}
	return room, nil
}

// LobbyModel lets an SSH user start a table against bots, host a table for
// other users or join one by code.
type LobbyModel struct {
	ctx      context.Context
	svc      *table.Service
	userID   string
	nickname string
	strategy string
	session  *table.ChannelSession

	keys LobbyKeyMap
	help help.Model
	code textinput.Model

	state   LobbyState
	cursor  int
	players int
	room    table.Room
	seating *Seating
	err     error

	width    int
	quitting bool
}

// NewLobbyModel creates a new lobby model.
func NewLobbyModel(ctx context.Context, svc *table.Service, session *table.ChannelSession, userID, nickname, strategy string, players int) LobbyModel {
	ti := textinput.New()
	ti.Placeholder = "JOIN CODE"
	ti.CharLimit = 6
	ti.Width = 10

	if players < domino.MinPlayers || players > domino.MaxPlayers {
		players = domino.MinPlayers
	}

	return LobbyModel{
		ctx:      ctx,
		svc:      svc,
		userID:   userID,
		nickname: nickname,
		strategy: strategy,
		session:  session,
		keys:     DefaultLobbyKeyMap(),
		help:     help.New(),
		code:     ti,
		players:  players,
		width:    80,
	}
}

// Init initializes the lobby model.
func (m LobbyModel) Init() tea.Cmd {
	return nil
}

// waitForEvent returns a command that waits for room events.
func (m LobbyModel) waitForEvent() tea.Cmd {
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

// Update handles messages.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case hostedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = LobbyStateChoose
			return m, nil
		}
		m.room = msg.room
		m.state = LobbyStateHosting
		return m, m.waitForEvent()

	case joinedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = LobbyStateEnterCode
			return m, textinput.Blink
		}
		m.room = msg.room
		if msg.started {
			m.seating = &Seating{RoomID: msg.room.ID}
			return m, nil
		}
		m.state = LobbyStateWaiting
		return m, m.waitForEvent()

	case seatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		s := msg.seating
		m.seating = &s
		return m, nil

	case table.SeatedEvent:
		if m.state == LobbyStateHosting {
			return m, tea.Batch(m.startIfFull(), m.waitForEvent())
		}
		return m, m.waitForEvent()

	case table.GameStartedEvent:
		if m.state == LobbyStateWaiting {
			m.seating = &Seating{RoomID: m.room.ID}
			return m, nil
		}
		return m, m.waitForEvent()

	case table.Event:
		return m, m.waitForEvent()
	}

	if m.state == LobbyStateEnterCode {
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m LobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case LobbyStateChoose:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor - 1 + len(lobbyChoices)) % len(lobbyChoices)
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(lobbyChoices)
		case key.Matches(msg, m.keys.Fewer):
			if m.players > domino.MinPlayers {
				m.players--
			}
		case key.Matches(msg, m.keys.More):
			if m.players < domino.MaxPlayers {
				m.players++
			}
		case key.Matches(msg, m.keys.Select):
			m.err = nil
			switch m.cursor {
			case 0:
				return m, m.playBots()
			case 1:
				return m, m.host()
			default:
				m.state = LobbyStateEnterCode
				m.code.Reset()
				return m, m.code.Focus()
			}
		}
		return m, nil

	case LobbyStateHosting:
		if key.Matches(msg, m.keys.AddBots) {
			return m, m.fillWithBots()
		}
		return m, nil

	case LobbyStateEnterCode:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.state = LobbyStateChoose
			m.code.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Select):
			m.err = nil
			return m, m.join(m.code.Value())
		}
		var cmd tea.Cmd
		m.code, cmd = m.code.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m LobbyModel) playBots() tea.Cmd {
	return func() tea.Msg {
		room, err := NewBotTable(m.ctx, m.svc, m.players, m.userID, m.nickname, m.strategy)
		if err != nil {
			return seatedMsg{err: err}
		}
		return seatedMsg{seating: Seating{RoomID: room.ID, DriveBots: true}}
	}
}

func (m LobbyModel) host() tea.Cmd {
	return func() tea.Msg {
		room, err := m.svc.CreateRoom(m.ctx, m.players)
		if err != nil {
			return hostedMsg{err: err}
		}
		m.svc.Watch(room.ID, m.session)
		if _, err := m.svc.Join(m.ctx, room.Code, m.userID, m.nickname); err != nil {
			return hostedMsg{err: err}
		}
		return hostedMsg{room: room}
	}
}

func (m LobbyModel) fillWithBots() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.AddBots(m.ctx, m.room.ID, m.strategy); err != nil {
			return seatedMsg{err: err}
		}
		return nil
	}
}

// startIfFull deals the first game once every seat is taken.
func (m LobbyModel) startIfFull() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.StartGame(m.ctx, m.room.ID)
		switch {
		case errors.Is(err, table.ErrRoomNotFull):
			return nil
		case err != nil && !errors.Is(err, domino.ErrGameInProgress):
			return seatedMsg{err: err}
		}
		return seatedMsg{seating: Seating{RoomID: m.room.ID, DriveBots: true}}
	}
}

func (m LobbyModel) join(code string) tea.Cmd {
	return func() tea.Msg {
		member, err := m.svc.Join(m.ctx, code, m.userID, m.nickname)
		if err != nil {
			return joinedMsg{err: err}
		}
		m.svc.Watch(member.RoomID, m.session)
		v, err := m.svc.View(m.ctx, member.RoomID, m.userID)
		if err != nil {
			return joinedMsg{err: err}
		}
		return joinedMsg{room: v.Room, started: v.Game != nil}
	}
}

// Seating returns where the user was seated, or nil while still in the lobby.
func (m LobbyModel) Seating() *Seating {
	return m.seating
}

// IsQuitting returns true if the user requested to quit.
func (m LobbyModel) IsQuitting() bool {
	return m.quitting
}

// View renders the lobby.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("TELEFON DOMINO", m.width)))
	b.WriteString("\n\n")

	switch m.state {
	case LobbyStateChoose:
		for i, c := range lobbyChoices {
			cursor := "  "
			style := dimStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedStyle
			}
			b.WriteString(cursor + style.Render(c) + "\n")
		}
		b.WriteString(fmt.Sprintf("\nPlayers: < %d >\n", m.players))

	case LobbyStateHosting:
		b.WriteString(fmt.Sprintf("Hosting room %s for %d players.\n", titleStyle.Render(m.room.Code), m.room.Players))
		b.WriteString("Share the code; the game starts when every seat is taken.\n")
		b.WriteString(dimStyle.Render("Press b to fill the empty seats with bots."))
		b.WriteString("\n")

	case LobbyStateEnterCode:
		b.WriteString("Enter the join code:\n\n")
		b.WriteString(m.code.View())
		b.WriteString("\n")

	case LobbyStateWaiting:
		b.WriteString(fmt.Sprintf("Seated in room %s, waiting for the host to deal...\n", m.room.Code))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}
