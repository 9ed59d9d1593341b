package http

import (
	"fmt"

	"mafia-mod-be/internal/api/http/websocket"
	"mafia-mod-be/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	app.HandleDir(
		"/",
		iris.Dir("./mafia-mod-fe"),
		iris.DirOptions{
			IndexName: "index.html",
			SPA:       true,
			Compress:  true,
		},
	)

	api := app.Party("/api/v1")

	api.Post("/sessions/create", CreateSession(appState))
	api.Get("/sessions", ListSessions(appState))

	api.Get("/ws/join", websocket.JoinSession(appState))

	api.Get("/players", GetPlayers(appState))
	api.Get("/stats", GetStats(appState))
	api.Get("/players/history", GetPlayerHistory(appState))
	api.Get("/games/last", GetLastGame(appState))
	api.Post("/games/undo", UndoLastGame(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
