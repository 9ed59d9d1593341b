package http

import (
	"context"

	"mafia-mod-be/internal/state"

	"github.com/kataras/iris/v12"
)

// 这几个接口都是评分后端的薄代理，
// 响应原样透传，前端直接消费表格侧的结构

func GetPlayers(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		players, err := appState.Backend.GetPlayers(ctx.Request().Context())
		if err != nil {
			ctx.StatusCode(iris.StatusBadGateway)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(iris.Map{
			"players": players,
		})
	}
}

func GetStats(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		raw, err := appState.Backend.GetStats(ctx.Request().Context())
		if err != nil {
			ctx.StatusCode(iris.StatusBadGateway)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.ContentType("application/json")
		ctx.Write(raw)
	}
}

func GetPlayerHistory(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		player := ctx.URLParam("player")
		if player == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "缺少 player 参数",
			})
			return
		}

		raw, err := appState.Backend.GetPlayerHistory(ctx.Request().Context(), player)
		if err != nil {
			ctx.StatusCode(iris.StatusBadGateway)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.ContentType("application/json")
		ctx.Write(raw)
	}
}

func GetLastGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		raw, err := appState.Backend.GetLastGame(ctx.Request().Context())
		if err != nil {
			ctx.StatusCode(iris.StatusBadGateway)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.ContentType("application/json")
		ctx.Write(raw)
	}
}

func UndoLastGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		result, err := appState.Backend.UndoLastGame(ctx.Request().Context())
		if err != nil {
			ctx.StatusCode(iris.StatusBadGateway)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		// 名册可能因撤销发生变化，顺手刷新一次
		if appState.Roster != nil {
			go appState.Roster.Refresh(context.Background())
		}

		ctx.JSON(result)
	}
}
