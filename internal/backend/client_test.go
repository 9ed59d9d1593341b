package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mafia-mod-be/internal/service/game"
)

// 测试请求体是否带上 action 和载荷字段
func TestClientSendsActionEnvelope(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{"games":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GetPlayerHistory(context.Background(), "Alice"); err != nil {
		t.Fatalf("GetPlayerHistory failed: %v", err)
	}

	if gotBody["action"] != ACTION_GET_PLAYER_HISTORY {
		t.Errorf("expected action %q, got %v", ACTION_GET_PLAYER_HISTORY, gotBody["action"])
	}
	if gotBody["player"] != "Alice" {
		t.Errorf("expected player Alice, got %v", gotBody["player"])
	}
}

func TestGetPlayersParsesRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"players":[{"name":"Alice","rating":1520},{"name":"Bob","rating":1480}]}`))
	}))
	defer srv.Close()

	players, err := NewClient(srv.URL).GetPlayers(context.Background())
	if err != nil {
		t.Fatalf("GetPlayers failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].Name != "Alice" || players[0].Rating != 1520 {
		t.Errorf("unexpected first player: %+v", players[0])
	}
}

// 业务错误通过 error 字段返回，必须转成 Go error
func TestErrorEnvelopeBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"no games to undo"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).UndoLastGame(context.Background())
	if err == nil {
		t.Fatal("expected error from error envelope")
	}
	if err.Error() != "no games to undo" {
		t.Errorf("expected backend error message, got %q", err.Error())
	}
}

func TestRecordGamePayloadShape(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{"game_id":42,"players":[{"name":"Alice","delta":12}]}`))
	}))
	defer srv.Close()

	seats := []game.Seat{
		{Position: 1, Name: "Alice", Role: game.ROLE_MAFIA},
		{Position: 4, Name: "Dave", Role: game.ROLE_TOWN, SpecialRole: game.SPECIAL_COP},
	}
	result, err := NewClient(srv.URL).RecordGame(context.Background(), RecordGameRequest{
		Assignments: seats,
		Winner:      game.ROLE_TOWN,
		Night0Kills: []string{"Alice"},
	})
	if err != nil {
		t.Fatalf("RecordGame failed: %v", err)
	}

	if gotBody["action"] != ACTION_RECORD_GAME {
		t.Errorf("expected action recordGame, got %v", gotBody["action"])
	}
	if gotBody["winner"] != game.ROLE_TOWN {
		t.Errorf("expected winner Town, got %v", gotBody["winner"])
	}
	assignments, ok := gotBody["assignments"].([]any)
	if !ok || len(assignments) != 2 {
		t.Fatalf("expected 2 assignments in payload, got %v", gotBody["assignments"])
	}
	kills, ok := gotBody["night0_kills"].([]any)
	if !ok || len(kills) != 1 || kills[0] != "Alice" {
		t.Errorf("unexpected night0_kills payload: %v", gotBody["night0_kills"])
	}

	if result.GameID != 42 {
		t.Errorf("expected game_id 42, got %d", result.GameID)
	}
	if len(result.Players) == 0 {
		t.Error("expected raw players payload to be kept")
	}
}

func TestNonOKStatusWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetStats(context.Background())
	if err == nil {
		t.Fatal("expected error on 500 status")
	}
}
