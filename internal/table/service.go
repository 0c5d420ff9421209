package table

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/registry"
)

// Config holds configuration for the service.
type Config struct {
	Rules domino.Rules
	// Seed feeds the shuffle. 0 seeds from the clock.
	Seed int64
	// AutoPass passes for a seat that cannot play once the stock is empty.
	AutoPass bool
	Logger   *log.Logger
}

// ActionResult reports what an action persisted.
type ActionResult struct {
	Moves   []Move
	Result  *domino.GameResult
	Version int64
}

// View is one user's picture of a room.
type View struct {
	Room    Room
	Members []Member
	// Seat is the viewer's seat, or domino.NoSeat for spectators.
	Seat    int
	Game    *domino.SeatView
	Version int64
}

// step computes the next state for seat and the move to log.
type step func(state *domino.GameState, seat int) (*domino.GameState, Move, error)

// Service manages rooms and serializes every action per room.
type Service struct {
	repo     Repository
	cfg      Config
	logger   *log.Logger
	sessions *SessionRegistry
	now      func() time.Time

	rngMu sync.Mutex
	rng   *mrand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a new service backed by repo.
func NewService(repo Repository, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
		sessions: NewSessionRegistry(),
		now:      time.Now,
		rng:      mrand.New(mrand.NewSource(seed)),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Sessions returns the registry used to fan out events.
func (s *Service) Sessions() *SessionRegistry {
	return s.sessions
}

// Watch subscribes session to events of roomID until it is closed.
func (s *Service) Watch(roomID string, session SessionHandle) {
	s.sessions.Subscribe(roomID, session)
}

// lock serializes actions on one room.
func (s *Service) lock(roomID string) func() {
	s.locksMu.Lock()
	m, ok := s.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[roomID] = m
	}
	s.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// CreateRoom opens a new room in the lobby state.
func (s *Service) CreateRoom(ctx context.Context, players int) (Room, error) {
	if players < domino.MinPlayers || players > domino.MaxPlayers {
		return Room{}, fmt.Errorf("%w: %d", domino.ErrInvalidPlayerCount, players)
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return Room{}, err
	}

	now := s.now()
	room := Room{
		ID:             uuid.NewString(),
		Code:           code,
		Status:         StatusLobby,
		Players:        players,
		Rules:          s.cfg.Rules,
		LastGameWinner: domino.NoSeat,
		MatchWinner:    domino.NoSeat,
		MatchScores:    make([]int, players),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return Room{}, err
	}

	s.logger.Info("room created", "room", room.ID, "code", room.Code, "players", players)
	return room, nil
}

// Join seats userID in the room with the given join code. Joining twice
// returns the existing seat.
func (s *Service) Join(ctx context.Context, code, userID, nickname string) (Member, error) {
	room, err := s.repo.RoomByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return Member{}, err
	}
	defer s.lock(room.ID)()

	members, err := s.repo.Members(ctx, room.ID)
	if err != nil {
		return Member{}, err
	}
	for _, m := range members {
		if m.UserID == userID {
			return m, nil
		}
	}
	if room.Status != StatusLobby {
		return Member{}, ErrAlreadyStarted
	}
	seat := freeSeat(members, room.Players)
	if seat == domino.NoSeat {
		return Member{}, ErrRoomFull
	}

	m := Member{
		RoomID:   room.ID,
		UserID:   userID,
		Nickname: nickname,
		Seat:     seat,
		JoinedAt: s.now(),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return Member{}, err
	}

	s.logger.Info("player seated", "room", room.ID, "user", userID, "seat", seat)
	s.sessions.Broadcast(room.ID, SeatedEvent{RoomID: room.ID, Member: m})
	return m, nil
}

// AddBots fills every empty seat with an automated player using strategy.
func (s *Service) AddBots(ctx context.Context, roomID, strategy string) ([]Member, error) {
	bot, err := registry.Create(strategy)
	if err != nil {
		return nil, err
	}
	defer s.lock(roomID)()

	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != StatusLobby {
		return nil, ErrAlreadyStarted
	}
	members, err := s.repo.Members(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var added []Member
	for seat := freeSeat(members, room.Players); seat != domino.NoSeat; seat = freeSeat(members, room.Players) {
		m := Member{
			RoomID:   roomID,
			UserID:   fmt.Sprintf("bot-%d", seat),
			Nickname: fmt.Sprintf("%s %d", bot.Title(), seat+1),
			Seat:     seat,
			IsBot:    true,
			Strategy: bot.ID(),
			JoinedAt: s.now(),
		}
		if err := s.repo.AddMember(ctx, m); err != nil {
			return added, err
		}
		members = append(members, m)
		added = append(added, m)
		s.sessions.Broadcast(roomID, SeatedEvent{RoomID: roomID, Member: m})
	}

	s.logger.Debug("bots seated", "room", roomID, "strategy", strategy, "count", len(added))
	return added, nil
}

// StartGame deals the room's next game. The first game auto-plays its
// opening tile; later games are opened by the previous winner.
func (s *Service) StartGame(ctx context.Context, roomID string) (domino.Opening, error) {
	defer s.lock(roomID)()

	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return domino.Opening{}, err
	}
	if room.Status == StatusFinished {
		return domino.Opening{}, domino.ErrMatchFinished
	}
	members, err := s.repo.Members(ctx, roomID)
	if err != nil {
		return domino.Opening{}, err
	}
	if len(members) < room.Players {
		return domino.Opening{}, ErrRoomNotFull
	}

	current, version, err := s.repo.LoadGame(ctx, roomID)
	switch {
	case errors.Is(err, ErrNotFound):
		version = 0
	case err != nil:
		return domino.Opening{}, err
	case !current.Finished:
		return domino.Opening{}, domino.ErrGameInProgress
	}

	starter := room.LastGameWinner
	if starter == domino.NoSeat {
		starter = 0
	}
	s.rngMu.Lock()
	state, opening, err := domino.InitializeGame(s.rng, room.Rules, domino.Setup{
		Players:     room.Players,
		GameIndex:   room.CurrentGameIndex,
		MatchScores: room.MatchScores,
		StarterSeat: starter,
	})
	s.rngMu.Unlock()
	if err != nil {
		return domino.Opening{}, err
	}

	var moves []Move
	if opening.AutoPlayed {
		tile := opening.Tile
		moves = append(moves, Move{
			RoomID:    roomID,
			GameIndex: state.GameIndex,
			Seat:      opening.Seat,
			Kind:      MoveOpen,
			Payload:   MovePayload{Tile: &tile, Side: domino.SideLeft},
			CreatedAt: s.now(),
		})
	}

	newVersion, err := s.repo.Commit(ctx, Commit{
		RoomID:  roomID,
		Version: version,
		State:   state,
		Moves:   moves,
		Room: &RoomUpdate{
			Status:           StatusRunning,
			CurrentGameIndex: room.CurrentGameIndex,
			LastGameWinner:   room.LastGameWinner,
			MatchWinner:      domino.NoSeat,
			MatchScores:      room.MatchScores,
		},
	})
	if err != nil {
		return domino.Opening{}, err
	}

	s.logger.Info("game dealt", "room", roomID, "game", state.GameIndex, "turn", state.Turn, "version", newVersion)
	s.sessions.Broadcast(roomID, GameStartedEvent{RoomID: roomID, GameIndex: state.GameIndex, Opening: opening})
	return opening, nil
}

// Play places a tile for userID.
func (s *Service) Play(ctx context.Context, roomID, userID string, tile domino.Tile, side domino.Side) (ActionResult, error) {
	return s.act(ctx, roomID, userID, playStep(tile, side))
}

// Draw takes a tile from the stock for userID.
func (s *Service) Draw(ctx context.Context, roomID, userID string) (ActionResult, error) {
	return s.act(ctx, roomID, userID, drawStep)
}

// Pass gives up userID's turn.
func (s *Service) Pass(ctx context.Context, roomID, userID string) (ActionResult, error) {
	return s.act(ctx, roomID, userID, passStep)
}

// act resolves userID's seat and applies fn under the room lock.
func (s *Service) act(ctx context.Context, roomID, userID string, fn step) (ActionResult, error) {
	defer s.lock(roomID)()

	members, err := s.repo.Members(ctx, roomID)
	if err != nil {
		return ActionResult{}, err
	}
	m, ok := memberByUser(members, userID)
	if !ok {
		return ActionResult{}, ErrNotMember
	}
	return s.apply(ctx, roomID, members, m.Seat, fn)
}

// apply runs one action against the stored state and commits it together
// with any automatic passes and room updates. The caller holds the room lock.
func (s *Service) apply(ctx context.Context, roomID string, members []Member, seat int, fn step) (ActionResult, error) {
	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return ActionResult{}, err
	}
	state, version, err := s.repo.LoadGame(ctx, roomID)
	if errors.Is(err, ErrNotFound) {
		return ActionResult{}, ErrNotStarted
	}
	if err != nil {
		return ActionResult{}, err
	}

	next, move, err := fn(state, seat)
	if err != nil {
		s.logger.Debug("action rejected", "room", roomID, "seat", seat, "err", err)
		return ActionResult{}, err
	}
	move.RoomID = roomID
	move.CreatedAt = s.now()
	moves := []Move{move}

	if s.cfg.AutoPass {
		next, moves = s.autoPass(next, moves)
	}

	commit := Commit{RoomID: roomID, Version: version, State: next, Moves: moves}
	if next.Finished {
		commit.Room = finishedUpdate(next)
		if next.MatchFinished {
			commit.Result = &MatchResult{
				RoomID:      roomID,
				RoomCode:    room.Code,
				WinnerSeat:  next.MatchWinner,
				WinnerName:  nicknameAt(members, next.MatchWinner),
				Scores:      next.MatchScores,
				GamesPlayed: next.GameIndex + 1,
				CreatedAt:   s.now(),
			}
		}
	}

	newVersion, err := s.repo.Commit(ctx, commit)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("stale state rejected", "room", roomID, "seat", seat, "version", version)
		}
		return ActionResult{}, err
	}

	for _, m := range moves {
		s.logger.Info("move", "room", roomID, "game", m.GameIndex, "seat", m.Seat, "kind", m.Kind, "score", m.Payload.Score)
		s.sessions.Broadcast(roomID, MovedEvent{RoomID: roomID, Move: m, Turn: next.Turn, Version: newVersion})
	}

	res := ActionResult{Moves: moves, Version: newVersion, Result: next.Result}
	if next.Finished {
		s.logger.Info("game sealed", "room", roomID, "game", next.GameIndex, "winner", next.Winner,
			"reason", next.Result.Reason, "bonus", next.Result.Bonus)
		s.sessions.Broadcast(roomID, GameEndedEvent{RoomID: roomID, GameIndex: next.GameIndex, Result: *next.Result})
	}
	if next.MatchFinished {
		winner, _ := memberAt(members, next.MatchWinner)
		s.logger.Info("match won", "room", roomID, "seat", next.MatchWinner, "player", winner.Nickname, "scores", next.MatchScores)
		s.sessions.Broadcast(roomID, MatchEndedEvent{RoomID: roomID, Winner: winner, Scores: next.MatchScores})
	}
	return res, nil
}

// autoPass passes for the seat to move while it is stuck with no stock left.
func (s *Service) autoPass(state *domino.GameState, moves []Move) (*domino.GameState, []Move) {
	for i := 0; i < state.PlayerCount && !state.Finished; i++ {
		seat := state.Turn
		if len(state.Stock) > 0 || state.CanPlay(seat) {
			break
		}
		next, move, err := passStep(state, seat)
		if err != nil {
			s.logger.Error("auto-pass failed", "seat", seat, "err", err)
			break
		}
		move.RoomID = moves[0].RoomID
		move.CreatedAt = s.now()
		move.Payload.AutoPass = true
		state = next
		moves = append(moves, move)
	}
	return state, moves
}

// StepBot lets the automated seat to move take one action. It reports
// false when the game is over or a human is to move.
func (s *Service) StepBot(ctx context.Context, roomID string) (bool, error) {
	defer s.lock(roomID)()

	state, _, err := s.repo.LoadGame(ctx, roomID)
	if errors.Is(err, ErrNotFound) {
		return false, ErrNotStarted
	}
	if err != nil {
		return false, err
	}
	if state.Finished {
		return false, nil
	}

	members, err := s.repo.Members(ctx, roomID)
	if err != nil {
		return false, err
	}
	m, ok := memberAt(members, state.Turn)
	if !ok || !m.IsBot {
		return false, nil
	}
	strategy, err := registry.Create(m.Strategy)
	if err != nil {
		return false, err
	}

	decision := strategy.Choose(state.ViewFor(m.Seat))
	if _, err := s.apply(ctx, roomID, members, m.Seat, decisionStep(decision)); err != nil {
		return false, fmt.Errorf("bot %s (seat %d): %w", m.Strategy, m.Seat, err)
	}
	return true, nil
}

// RunBots steps automated seats until a human is to move or the game ends.
func (s *Service) RunBots(ctx context.Context, roomID string) (int, error) {
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		acted, err := s.StepBot(ctx, roomID)
		if err != nil || !acted {
			return steps, err
		}
		steps++
	}
}

// View returns what userID may see of the room.
func (s *Service) View(ctx context.Context, roomID, userID string) (View, error) {
	room, err := s.repo.RoomByID(ctx, roomID)
	if err != nil {
		return View{}, err
	}
	members, err := s.repo.Members(ctx, roomID)
	if err != nil {
		return View{}, err
	}

	v := View{Room: room, Members: members, Seat: domino.NoSeat}
	if m, ok := memberByUser(members, userID); ok {
		v.Seat = m.Seat
	}

	state, version, err := s.repo.LoadGame(ctx, roomID)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return View{}, err
	}
	sv := state.ViewFor(v.Seat)
	v.Game = &sv
	v.Version = version
	return v, nil
}

func playStep(tile domino.Tile, side domino.Side) step {
	return func(state *domino.GameState, seat int) (*domino.GameState, Move, error) {
		next, out, err := domino.ApplyPlay(state, seat, tile, side)
		if err != nil {
			return nil, Move{}, err
		}
		placed := out.Move.Tile
		p := MovePayload{Tile: &placed, Side: out.Move.Side, Score: out.Score, Transitioned: out.Transitioned}
		if out.Result != nil {
			p.Bonus = out.Result.Bonus
		}
		return next, Move{GameIndex: state.GameIndex, Seat: seat, Kind: MovePlay, Payload: p}, nil
	}
}

func drawStep(state *domino.GameState, seat int) (*domino.GameState, Move, error) {
	next, out, err := domino.ApplyDraw(state, seat)
	if err != nil {
		return nil, Move{}, err
	}
	drawn := out.Tile
	return next, Move{GameIndex: state.GameIndex, Seat: seat, Kind: MoveDraw, Payload: MovePayload{Tile: &drawn}}, nil
}

func passStep(state *domino.GameState, seat int) (*domino.GameState, Move, error) {
	next, out, err := domino.ApplyPass(state, seat)
	if err != nil {
		return nil, Move{}, err
	}
	p := MovePayload{Blocked: out.Blocked, Bonus: out.Bonus}
	return next, Move{GameIndex: state.GameIndex, Seat: seat, Kind: MovePass, Payload: p}, nil
}

func decisionStep(d domino.Decision) step {
	switch d.Action {
	case domino.ActionPlay:
		return playStep(d.Move.Tile, d.Move.Side)
	case domino.ActionDraw:
		return drawStep
	case domino.ActionPass:
		return passStep
	}
	return func(*domino.GameState, int) (*domino.GameState, Move, error) {
		return nil, Move{}, fmt.Errorf("%w: %q", domino.ErrInvalidAction, d.Action)
	}
}

// finishedUpdate is the room metadata written when a game is sealed.
func finishedUpdate(state *domino.GameState) *RoomUpdate {
	u := &RoomUpdate{
		Status:           StatusRunning,
		CurrentGameIndex: state.GameIndex + 1,
		LastGameWinner:   state.Winner,
		MatchWinner:      domino.NoSeat,
		MatchScores:      state.MatchScores,
	}
	if state.MatchFinished {
		u.Status = StatusFinished
		u.CurrentGameIndex = state.GameIndex
		u.MatchWinner = state.MatchWinner
	}
	return u
}

func freeSeat(members []Member, players int) int {
	taken := make(map[int]bool, len(members))
	for _, m := range members {
		taken[m.Seat] = true
	}
	for seat := 0; seat < players; seat++ {
		if !taken[seat] {
			return seat
		}
	}
	return domino.NoSeat
}

func memberByUser(members []Member, userID string) (Member, bool) {
	for _, m := range members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Member{}, false
}

func memberAt(members []Member, seat int) (Member, bool) {
	for _, m := range members {
		if m.Seat == seat {
			return m, true
		}
	}
	return Member{}, false
}

func nicknameAt(members []Member, seat int) string {
	m, _ := memberAt(members, seat)
	return m.Nickname
}

// uniqueCode generates a join code that no stored room uses yet.
func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	for range 10 {
		code := generateJoinCode()
		_, err := s.repo.RoomByCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("table: could not allocate a unique join code")
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// Use base32 encoding (A-Z, 2-7), take first 6 chars
	return strings.ToUpper(base32.StdEncoding.EncodeToString(b)[:6])
}
