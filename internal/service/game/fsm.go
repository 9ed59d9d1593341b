package game

import (
	"time"

	"go.uber.org/zap"
)

// Deps 是状态机运行需要的外部依赖，由会话服务注入
type Deps struct {
	Rand     RandSource
	Recorder Recorder
	Known    NameSource
	Saver    SnapshotSaver
}

// GameMachine 是主持会话的状态机，负责管理对局状态和事件循环
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler
	// 这是所有主持端的请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，用于通知状态机退出事件循环
	doneCh chan struct{}

	// 从快照恢复的会话不重置上下文
	restored bool

	createdAt time.Time
}

func NewGameMachine(sessionID string, deps Deps, doneCh chan struct{}) *GameMachine {
	ctx := &GameContext{
		SessionID: sessionID,
		GameStage: STAGE_SETUP,
		Clients:   make(map[string]*Client),
		DayVotes:  make(map[int]string),
		Rand:      deps.Rand,
		Recorder:  deps.Recorder,
		Known:     deps.Known,
		Saver:     deps.Saver,
	}

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewSetupStageHandler(),
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	gm.handler.SetOnSwitch(func(nextStage string) {
		gm.ctx.GameStage = nextStage
	})

	return gm
}

// NewGameMachineFromSnapshot 从落盘的快照恢复会话
func NewGameMachineFromSnapshot(snap *Snapshot, deps Deps, doneCh chan struct{}) *GameMachine {
	ctx := &GameContext{
		Clients:  make(map[string]*Client),
		Rand:     deps.Rand,
		Recorder: deps.Recorder,
		Known:    deps.Known,
		Saver:    deps.Saver,
	}
	ctx.RestoreSnapshot(snap)

	handler := handlerForStage(ctx.GameStage)
	if handler == nil {
		// 快照里的阶段不认识，回到设置阶段重新开始
		zap.L().Warn(
			"快照阶段无效，会话回到设置阶段",
			zap.String("session_id", ctx.SessionID),
			zap.String("stage", ctx.GameStage),
		)
		ctx.GameStage = STAGE_SETUP
		handler = NewSetupStageHandler()
	}

	gm := &GameMachine{
		ctx:       ctx,
		handler:   handler,
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		restored:  true,
		createdAt: time.Now(),
	}

	gm.handler.SetOnSwitch(func(nextStage string) {
		gm.ctx.GameStage = nextStage
	})

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) Start() {
	// 执行初始 handler 的 OnEnter（恢复的会话跳过，避免清掉进度）
	if !gm.restored {
		gm.handler.OnEnter(gm.ctx)
	}

	// 进入事件循环
	for {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到客户端请求",
				zap.String("session_id", gm.ctx.SessionID),
				zap.String("request_type", req.ReqType),
			)
		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束会话状态机",
				zap.String("session_id", gm.ctx.SessionID),
			)
			return
		}

		// 处理请求
		err := gm.handler.OnHandle(gm.ctx, req)
		if err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)
			gm.ctx.BroadcastResp(WrapErrResponse(err.Error()))
			continue
		}

		// 检查状态是否发生变化
		if gm.ctx.GameStage != gm.handler.Stage() {
			gm.switchStage()
			gm.handler.OnEnter(gm.ctx)
		}

		gm.afterHandle()
	}
}

// afterHandle 在每个成功处理的请求之后广播全量状态并落快照
func (gm *GameMachine) afterHandle() {
	gm.ctx.BroadcastResp(WrapResponse(RESP_SESSION_STATE, gm.ctx.BuildSessionState()))

	if gm.ctx.Saver == nil {
		return
	}

	// 提交完成后快照已经删除，不再重建
	if gm.ctx.GameStage == STAGE_SUBMITTED {
		return
	}

	if err := gm.ctx.Saver.Save(gm.ctx.SessionID, gm.ctx.ToSnapshot()); err != nil {
		zap.L().Warn(
			"保存会话快照失败",
			zap.String("session_id", gm.ctx.SessionID),
			zap.Error(err),
		)
	}
}

func (gm *GameMachine) switchStage() {
	// 执行当前 handler 的 OnExit
	gm.handler.OnExit(gm.ctx)

	newHandler := handlerForStage(gm.ctx.GameStage)
	if newHandler == nil {
		zap.L().Error(
			"未知的会话阶段",
			zap.String("stage", gm.ctx.GameStage),
		)
		return
	}

	newHandler.SetOnSwitch(func(nextStage string) {
		gm.ctx.GameStage = nextStage
	})

	gm.handler = newHandler
}

func handlerForStage(stage string) StageHandler {
	switch stage {
	case STAGE_SETUP:
		return NewSetupStageHandler()
	case STAGE_ASSIGNMENT:
		return NewAssignmentStageHandler()
	case STAGE_NIGHT_LOOP:
		return NewNightLoopStageHandler()
	case STAGE_RECORD:
		return NewRecordStageHandler()
	case STAGE_SUBMITTED:
		return NewSubmittedStageHandler()
	default:
		return nil
	}
}

func (gm *GameMachine) IsFinished() bool {
	return gm.ctx.GameStage == STAGE_SUBMITTED
}

func (gm *GameMachine) Stage() string {
	return gm.ctx.GameStage
}

func (gm *GameMachine) ClientCount() int {
	return len(gm.ctx.Clients)
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}
