package websocket

import (
	"encoding/json"
	"time"

	"mafia-mod-be/internal/service/game"
	"mafia-mod-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// JoinSession 把一个主持端连接升级为 WebSocket 并接入会话。
// 会话 ID 从查询参数里取，接入后第一条下行消息就是全量状态
func JoinSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		sessionID := ctx.URLParam("session_id")
		if sessionID == "" {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "缺少 session_id 参数",
			})
			return
		}

		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		respCh := make(chan game.ResponseWrapper, 64)

		clientID := game.ShortID()

		reqCh, err := appState.SessionSvc.Join(sessionID, clientID, respCh)
		if err != nil {
			zap.L().Error(
				"接入会话失败",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.String("session_id", sessionID),
				zap.Error(err),
			)

			conn.WriteJSON(game.WrapErrResponse(err.Error()))

			return
		}

		clientIP := ctx.RemoteAddr()

		zap.L().Info(
			"主持端成功接入会话",
			zap.String("client_ip", clientIP),
			zap.String("session_id", sessionID),
			zap.String("client_id", clientID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		// 写入协程
		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					zap.L().Info(
						"WebSocket写入协程退出",
						zap.String("client_ip", clientIP),
					)
					return

				case <-ticker.C:
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

					zap.L().Debug(
						"发送心跳",
						zap.String("client_ip", clientIP),
					)

				case resp, ok := <-respCh:
					if !ok {
						zap.L().Info(
							"响应通道已关闭，退出写协程",
							zap.String("client_ip", clientIP),
						)
						return
					}

					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"发送消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					zap.L().Debug(
						"发送消息",
						zap.String("client_ip", clientIP),
						zap.String("response_type", resp.RespType),
					)
				}
			}
		}()

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			// 解析消息
			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Error(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				respCh <- game.WrapErrResponse("无效的请求格式")

				continue
			}

			// 订阅和退订不接受从连接上直接发，避免客户端乱塞通道
			if wrapper.ReqType == game.REQ_SUBSCRIBE || wrapper.ReqType == game.REQ_UNSUBSCRIBE {
				respCh <- game.WrapErrResponse("无效的请求类型")
				continue
			}

			// 将解析后的请求发送到会话状态机
			select {
			case reqCh <- wrapper:
				zap.L().Debug(
					"发送请求到会话状态机",
					zap.String("client_ip", clientIP),
					zap.String("request_type", wrapper.ReqType),
				)
			default:
				zap.L().Error(
					"发送请求到会话状态机失败：请求通道已满",
					zap.String("client_ip", clientIP),
				)

				respCh <- game.WrapErrResponse("会话繁忙，请稍后再试")
			}
		}

		// 读循环退出，表示客户端断开连接，通知状态机清理订阅
		zap.L().Info(
			"客户端连接断开，发送退订请求",
			zap.String("client_ip", clientIP),
			zap.String("client_id", clientID),
		)

		unsubscribe := game.RequestWrapper{
			ReqType: game.REQ_UNSUBSCRIBE,
			NativeData: &game.UnsubscribeRequest{
				ClientID: clientID,
			},
		}

		select {
		case reqCh <- unsubscribe:
			zap.L().Debug(
				"发送退订请求成功",
				zap.String("client_id", clientID),
			)
		case <-time.After(3 * time.Second):
			zap.L().Warn(
				"发送退订请求超时",
				zap.String("client_id", clientID),
			)
		}

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("client_id", clientID),
		)
	}
}
