package storage

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jh2023at0610/telefondomino/internal/domino"
	"github.com/jh2023at0610/telefondomino/internal/table"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRoom(id, code string) table.Room {
	return table.Room{
		ID:             id,
		Code:           code,
		Status:         table.StatusLobby,
		Players:        2,
		Rules:          domino.DefaultRules(),
		LastGameWinner: domino.NoSeat,
		MatchWinner:    domino.NoSeat,
		MatchScores:    []int{0, 0},
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRoomsAndMembers(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.CreateRoom(ctx, testRoom("room-1", "ABC234")); err != nil {
		t.Fatalf("CreateRoom() failed: %v", err)
	}
	if err := store.CreateRoom(ctx, testRoom("room-2", "ABC234")); err == nil {
		t.Error("Expected duplicate join code to be rejected")
	}

	room, err := store.RoomByCode(ctx, "ABC234")
	if err != nil {
		t.Fatalf("RoomByCode() failed: %v", err)
	}
	if room.ID != "room-1" || room.Rules != domino.DefaultRules() || room.LastGameWinner != domino.NoSeat {
		t.Errorf("Unexpected room: %+v", room)
	}
	if room.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	if _, err := store.RoomByID(ctx, "missing"); !errors.Is(err, table.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	members := []table.Member{
		{RoomID: "room-1", UserID: "bot-1", Nickname: "Greedy 2", Seat: 1, IsBot: true, Strategy: "greedy"},
		{RoomID: "room-1", UserID: "alice", Nickname: "Alice", Seat: 0},
	}
	for _, m := range members {
		if err := store.AddMember(ctx, m); err != nil {
			t.Fatalf("AddMember() failed: %v", err)
		}
	}
	if err := store.AddMember(ctx, table.Member{RoomID: "room-1", UserID: "bob", Nickname: "Bob", Seat: 0}); err == nil {
		t.Error("Expected taken seat to be rejected")
	}

	got, err := store.Members(ctx, "room-1")
	if err != nil {
		t.Fatalf("Members() failed: %v", err)
	}
	if len(got) != 2 || got[0].UserID != "alice" || !got[1].IsBot || got[1].Strategy != "greedy" {
		t.Errorf("Unexpected members: %+v", got)
	}
}

func TestStoreCommitAndConflict(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.CreateRoom(ctx, testRoom("room-1", "XYZ567")); err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.LoadGame(ctx, "room-1"); !errors.Is(err, table.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound before first deal, got %v", err)
	}

	state, opening, err := domino.InitializeGame(rand.New(rand.NewSource(5)), domino.DefaultRules(), domino.Setup{Players: 2})
	if err != nil {
		t.Fatal(err)
	}
	tile := opening.Tile
	v1, err := store.Commit(ctx, table.Commit{
		RoomID:  "room-1",
		Version: 0,
		State:   state,
		Moves: []table.Move{{
			GameIndex: 0,
			Seat:      opening.Seat,
			Kind:      table.MoveOpen,
			Payload:   table.MovePayload{Tile: &tile, Side: domino.SideLeft},
		}},
		Room: &table.RoomUpdate{
			Status:         table.StatusRunning,
			LastGameWinner: domino.NoSeat,
			MatchWinner:    domino.NoSeat,
			MatchScores:    []int{0, 0},
		},
	})
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}
	if v1 != 1 {
		t.Errorf("Expected version 1, got %d", v1)
	}

	loaded, version, err := store.LoadGame(ctx, "room-1")
	if err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if version != 1 || !reflect.DeepEqual(loaded, state) {
		t.Errorf("Loaded state differs from committed state")
	}

	// A second writer computed from version 0 must lose.
	if _, err := store.Commit(ctx, table.Commit{RoomID: "room-1", Version: 0, State: state}); !errors.Is(err, table.ErrConflict) {
		t.Errorf("Expected ErrConflict for stale insert, got %v", err)
	}

	v2, err := store.Commit(ctx, table.Commit{RoomID: "room-1", Version: 1, State: state})
	if err != nil || v2 != 2 {
		t.Fatalf("Commit() at version 1: v=%d err=%v", v2, err)
	}
	if _, err := store.Commit(ctx, table.Commit{RoomID: "room-1", Version: 1, State: state}); !errors.Is(err, table.ErrConflict) {
		t.Errorf("Expected ErrConflict for stale update, got %v", err)
	}

	moves, err := store.Moves(ctx, "room-1", -1)
	if err != nil {
		t.Fatalf("Moves() failed: %v", err)
	}
	if len(moves) != 1 || moves[0].Kind != table.MoveOpen || moves[0].Payload.Tile == nil || !moves[0].Payload.Tile.Equal(tile) {
		t.Errorf("Unexpected move log: %+v", moves)
	}

	room, err := store.RoomByID(ctx, "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != table.StatusRunning {
		t.Errorf("Expected running room, got %s", room.Status)
	}
}

func TestStoreMatchResults(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.CreateRoom(ctx, testRoom("room-1", "QWE234")); err != nil {
		t.Fatal(err)
	}

	state := &domino.GameState{PlayerCount: 2, MatchScores: []int{370, 120}}
	_, err := store.Commit(ctx, table.Commit{
		RoomID: "room-1",
		State:  state,
		Room: &table.RoomUpdate{
			Status:           table.StatusFinished,
			CurrentGameIndex: 4,
			LastGameWinner:   0,
			MatchWinner:      0,
			MatchScores:      []int{370, 120},
		},
		Result: &table.MatchResult{
			RoomID:      "room-1",
			RoomCode:    "QWE234",
			WinnerSeat:  0,
			WinnerName:  "Alice",
			Scores:      []int{370, 120},
			GamesPlayed: 5,
		},
	})
	if err != nil {
		t.Fatalf("Commit() failed: %v", err)
	}

	results, err := store.RecentResults(ctx, 10)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.WinnerName != "Alice" || r.GamesPlayed != 5 || !reflect.DeepEqual(r.Scores, []int{370, 120}) {
		t.Errorf("Unexpected result: %+v", r)
	}

	rooms, err := store.Rooms(ctx, 5)
	if err != nil {
		t.Fatalf("Rooms() failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Status != table.StatusFinished || rooms[0].MatchWinner != 0 {
		t.Errorf("Unexpected rooms: %+v", rooms)
	}
}

func TestStoreBacksTableService(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	svc := table.NewService(store, table.Config{Rules: domino.DefaultRules(), Seed: 9})

	room, err := svc.CreateRoom(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Join(ctx, room.Code, "alice", "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Join(ctx, room.Code, "bob", "Bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.StartGame(ctx, room.ID); err != nil {
		t.Fatal(err)
	}

	view, err := svc.View(ctx, room.ID, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if view.Game == nil || view.Version != 1 || len(view.Members) != 2 {
		t.Fatalf("Unexpected view: %+v", view)
	}
	if view.Game.Board.TileCount() != 1 {
		t.Errorf("Expected the opening tile on the board, got %d tiles", view.Game.Board.TileCount())
	}
}
