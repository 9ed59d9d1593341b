package service

import (
	"errors"
	"sort"
	"sync"
	"time"

	"mafia-mod-be/internal/service/dto"
	"mafia-mod-be/internal/service/game"

	"go.uber.org/zap"
)

// 没人连着的会话保留这么久之后才清理
const SESSION_IDLE_TTL = 24 * time.Hour

type SessionService struct {
	state *sessionServiceState

	deps game.Deps
}

type sessionServiceState struct {
	mu sync.RWMutex

	// 均为从会话 ID 到实体的映射
	machines map[string]*game.GameMachine
	doneChs  map[string]chan struct{}

	cleanUpDone chan struct{}
}

func NewSessionService(deps game.Deps) *SessionService {
	state := &sessionServiceState{
		machines:    make(map[string]*game.GameMachine),
		doneChs:     make(map[string]chan struct{}),
		cleanUpDone: make(chan struct{}),
	}

	// 启动一个 goroutine 定期清理过期的会话
	go startCleanupLoop(state)

	return &SessionService{
		state: state,
		deps:  deps,
	}
}

func startCleanupLoop(state *sessionServiceState) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-state.cleanUpDone:
			return

		case <-ticker.C:
			state.mu.Lock()

			for sessionID, gm := range state.machines {
				if !isSessionStale(gm) {
					continue
				}

				zap.S().Infof("会话 %s 已失效，开始清理", sessionID)

				close(state.doneChs[sessionID])
				delete(state.doneChs, sessionID)
				delete(state.machines, sessionID)
			}

			state.mu.Unlock()
		}
	}
}

func (ss *SessionService) Close() {
	close(ss.state.cleanUpDone)

	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	for sessionID, doneCh := range ss.state.doneChs {
		close(doneCh)
		delete(ss.state.doneChs, sessionID)
		delete(ss.state.machines, sessionID)
	}
}

func (ss *SessionService) CreateSession(dto.CreateSessionRequest) (dto.CreateSessionResponse, error) {
	// 短会话 ID，方便主持人手动输入
	sessionID := game.ShortID()

	doneCh := make(chan struct{})
	gm := game.NewGameMachine(sessionID, ss.deps, doneCh)

	ss.state.mu.Lock()
	ss.state.machines[sessionID] = gm
	ss.state.doneChs[sessionID] = doneCh
	ss.state.mu.Unlock()

	go gm.Start()

	zap.S().Infof("会话 %s 已创建", sessionID)

	return dto.CreateSessionResponse{
		SessionID: sessionID,
	}, nil
}

// Restore 在启动时从快照恢复未完成的会话
func (ss *SessionService) Restore(snaps []*game.Snapshot) {
	ss.state.mu.Lock()
	defer ss.state.mu.Unlock()

	for _, snap := range snaps {
		if snap.SessionID == "" {
			continue
		}

		doneCh := make(chan struct{})
		gm := game.NewGameMachineFromSnapshot(snap, ss.deps, doneCh)

		ss.state.machines[snap.SessionID] = gm
		ss.state.doneChs[snap.SessionID] = doneCh

		go gm.Start()

		zap.S().Infof("会话 %s 已从快照恢复（阶段 %s）", snap.SessionID, snap.Stage)
	}
}

// Join 把一个主持端连接接入会话，返回状态机的请求通道。
// 订阅请求由这里代发，接入成功后客户端会收到一次全量状态
func (ss *SessionService) Join(
	sessionID string,
	clientID string,
	respCh chan game.ResponseWrapper,
) (chan game.RequestWrapper, error) {
	if sessionID == "" {
		return nil, errors.New("会话 ID 不能为空")
	}

	ss.state.mu.RLock()
	gm, ok := ss.state.machines[sessionID]
	ss.state.mu.RUnlock()

	if !ok {
		return nil, errors.New("会话不存在")
	}

	reqCh := gm.GetReqCh()

	subscribe := game.RequestWrapper{
		ReqType: game.REQ_SUBSCRIBE,
		NativeData: &game.SubscribeRequest{
			ClientID: clientID,
			RespCh:   respCh,
		},
	}

	timer := time.NewTimer(5 * time.Second)
	defer timer.Stop()

	select {
	case reqCh <- subscribe:
	case <-timer.C:
		zap.S().Warnf("会话 %s 无法及时处理接入请求，%s 发送失败", sessionID, clientID)
		return nil, errors.New("接入会话失败")
	}

	zap.S().Infof("会话 %s 接纳客户端 %s", sessionID, clientID)

	return reqCh, nil
}

// ListSessions 返回所有存活会话的概览，按 ID 排序
func (ss *SessionService) ListSessions() dto.ListSessionsResponse {
	ss.state.mu.RLock()
	defer ss.state.mu.RUnlock()

	sessions := make([]dto.SessionSummary, 0, len(ss.state.machines))
	for sessionID, gm := range ss.state.machines {
		sessions = append(sessions, dto.SessionSummary{
			SessionID: sessionID,
			Stage:     gm.Stage(),
			Clients:   gm.ClientCount(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].SessionID < sessions[j].SessionID
	})

	return dto.ListSessionsResponse{Sessions: sessions}
}
