package game

import (
	"context"

	"go.uber.org/zap"
)

// 会话模式
const (
	MODE_RANDOM = "random"
	MODE_MANUAL = "manual"
)

// Client 是一个已接入会话的主持端连接
type Client struct {
	ID     string
	RespCh chan ResponseWrapper
}

// Recorder 把一局完整的结果提交到评分后端
type Recorder interface {
	Record(ctx context.Context, seats []Seat, winner string, night0Kills []string) (any, error)
}

// NameSource 提供已知玩家名册，用于纠错
type NameSource interface {
	Names() []string
}

// CandidateSource 在名册之上再提供模糊补全，
// 实现方可选，没有实现时补全请求返回空列表
type CandidateSource interface {
	Candidates(query string, exclude map[string]struct{}, limit int) []string
}

// SnapshotSaver 负责把会话进度落盘
type SnapshotSaver interface {
	Save(sessionID string, snap *Snapshot) error
	Delete(sessionID string) error
}

type GameContext struct {
	SessionID string
	GameStage string
	Clients   map[string]*Client

	Mode        string
	Names       []string
	Roles       RoleMap
	Seats       []Seat
	Formals     []FormalEntry
	Corrections []string

	Nights      []NightAction
	DayVotes    map[int]string
	Winner      string
	Night0Kills []string

	Rand     RandSource
	Recorder Recorder
	Known    NameSource
	Saver    SnapshotSaver
}

// Snapshot 是 GameContext 中需要持久化的部分
type Snapshot struct {
	SessionID   string         `msgpack:"session_id"`
	Stage       string         `msgpack:"stage"`
	Mode        string         `msgpack:"mode"`
	Names       []string       `msgpack:"names"`
	Roles       RoleMap        `msgpack:"roles"`
	Seats       []Seat         `msgpack:"seats"`
	Formals     []FormalEntry  `msgpack:"formals"`
	Corrections []string       `msgpack:"corrections"`
	Nights      []NightAction  `msgpack:"nights"`
	DayVotes    map[int]string `msgpack:"day_votes"`
	Winner      string         `msgpack:"winner"`
	Night0Kills []string       `msgpack:"night0_kills"`
}

func (gc *GameContext) ToSnapshot() *Snapshot {
	return &Snapshot{
		SessionID:   gc.SessionID,
		Stage:       gc.GameStage,
		Mode:        gc.Mode,
		Names:       gc.Names,
		Roles:       gc.Roles,
		Seats:       gc.Seats,
		Formals:     gc.Formals,
		Corrections: gc.Corrections,
		Nights:      gc.Nights,
		DayVotes:    gc.DayVotes,
		Winner:      gc.Winner,
		Night0Kills: gc.Night0Kills,
	}
}

func (gc *GameContext) RestoreSnapshot(snap *Snapshot) {
	gc.SessionID = snap.SessionID
	gc.GameStage = snap.Stage
	gc.Mode = snap.Mode
	gc.Names = snap.Names
	gc.Roles = snap.Roles
	gc.Seats = snap.Seats
	gc.Formals = snap.Formals
	gc.Corrections = snap.Corrections
	gc.Nights = snap.Nights
	gc.DayVotes = snap.DayVotes
	gc.Winner = snap.Winner
	gc.Night0Kills = snap.Night0Kills

	if gc.DayVotes == nil {
		gc.DayVotes = make(map[int]string)
	}
}

// ResetGame 清空对局数据，保留会话本身和已接入的客户端
func (gc *GameContext) ResetGame() {
	gc.Mode = ""
	gc.Names = nil
	gc.Roles = nil
	gc.Seats = nil
	gc.Formals = nil
	gc.Corrections = nil
	gc.Nights = nil
	gc.DayVotes = make(map[int]string)
	gc.Winner = ""
	gc.Night0Kills = nil
}

func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	for _, c := range gc.Clients {
		select {
		case c.RespCh <- resp:
			zap.L().Debug(
				"成功发送广播响应",
				zap.String("client_id", c.ID),
				zap.String("response_type", resp.RespType),
			)
		default:
			zap.L().Warn(
				"发送广播响应失败：客户端响应通道已满",
				zap.String("client_id", c.ID),
			)
		}
	}
}

func (gc *GameContext) UnicastResp(clientID string, resp ResponseWrapper) {
	client, ok := gc.Clients[clientID]
	if !ok {
		zap.L().Warn(
			"无法找到客户端进行单播响应",
			zap.String("client_id", clientID),
		)
		return
	}

	select {
	case client.RespCh <- resp:
		zap.L().Debug(
			"发送单播响应成功",
			zap.String("client_id", clientID),
			zap.String("response_type", resp.RespType),
		)
	default:
		zap.L().Warn(
			"发送单播响应失败：客户端响应通道已满",
			zap.String("client_id", clientID),
		)
	}
}

// NightView 是某一夜的完整视图：动作、约束和生成的剧透文案
type NightView struct {
	Night       int              `json:"night"`
	Action      NightAction      `json:"action"`
	Constraints NightConstraints `json:"constraints"`
	Output      string           `json:"output"`
}

// SessionState 是广播给所有主持端的会话全量状态
type SessionState struct {
	SessionID   string         `json:"session_id"`
	Stage       string         `json:"stage"`
	Mode        string         `json:"mode"`
	Seats       []Seat         `json:"seats"`
	Formals     []FormalEntry  `json:"formals"`
	Corrections []string       `json:"corrections"`
	RoleReveal  string         `json:"role_reveal"`
	Nights      []NightView    `json:"nights"`
	DayVotes    map[int]string `json:"day_votes"`
	NextNight   int            `json:"next_night"`
	Win         *WinResult     `json:"win"`
	Winner      string         `json:"winner"`
	Night0Kills []string       `json:"night0_kills"`
}

// BuildSessionState 汇总当前对局的所有派生数据
func (gc *GameContext) BuildSessionState() SessionState {
	state := SessionState{
		SessionID:   gc.SessionID,
		Stage:       gc.GameStage,
		Mode:        gc.Mode,
		Seats:       gc.Seats,
		Formals:     gc.Formals,
		Corrections: gc.Corrections,
		DayVotes:    gc.DayVotes,
		NextNight:   -1,
		Winner:      gc.Winner,
		Night0Kills: gc.Night0Kills,
	}

	if len(gc.Seats) == 0 {
		return state
	}

	state.RoleReveal = RoleReveal(gc.Seats)
	state.Win = CheckWinCondition(gc.Seats, gc.Nights, gc.DayVotes)

	for _, night := range gc.Nights {
		state.Nights = append(state.Nights, NightView{
			Night:       night.Night,
			Action:      night,
			Constraints: ConstraintsForNight(gc.Seats, gc.Nights, gc.DayVotes, night.Night),
			Output:      NightOutput(gc.Nights, night.Night),
		})
	}

	// 没有胜负且还没写满 8 夜时，下一夜可以展开
	if state.Win == nil && len(gc.Nights) < MAX_NIGHTS {
		state.NextNight = len(gc.Nights)
	}

	return state
}
