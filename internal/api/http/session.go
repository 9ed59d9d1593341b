package http

import (
	"mafia-mod-be/internal/service/dto"
	"mafia-mod-be/internal/state"

	"github.com/kataras/iris/v12"
)

func CreateSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.SessionSvc.CreateSession(dto.CreateSessionRequest{})
		if err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(resp)
	}
}

func ListSessions(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.SessionSvc.ListSessions())
	}
}
