package service

import (
	"context"
	"time"

	"mafia-mod-be/internal/backend"
	"mafia-mod-be/internal/service/game"
)

// 提交完成且没人连着的会话视为失效；
// 没提交但长时间没人碰的会话同样回收，快照还在盘上
func isSessionStale(gm *game.GameMachine) bool {
	if gm == nil {
		return true
	}

	if gm.ClientCount() > 0 {
		return false
	}

	if gm.IsFinished() {
		return true
	}

	return time.Since(gm.CreatedAt()) > SESSION_IDLE_TTL
}

// backendRecorder 把状态机的提交转成评分后端的调用
type backendRecorder struct {
	client *backend.Client
}

func NewBackendRecorder(client *backend.Client) game.Recorder {
	return &backendRecorder{client: client}
}

func (br *backendRecorder) Record(
	ctx context.Context,
	seats []game.Seat,
	winner string,
	night0Kills []string,
) (any, error) {
	result, err := br.client.RecordGame(ctx, backend.RecordGameRequest{
		Assignments: seats,
		Winner:      winner,
		Night0Kills: night0Kills,
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
