package game

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// 会话总体分为 5 个阶段，分别是：
// 1. 设置阶段（Setup）：主持人粘贴名单，选择随机或手动分配
// 2. 分配阶段（Assignment）：查看座位表，可以重摇、调身份、改名
// 3. 夜晚阶段（NightLoop）：逐夜记录行动和白天投票，直到分出胜负
// 4. 登记阶段（Record）：确认获胜阵营和第 0 夜击杀，准备提交
// 5. 已提交阶段（Submitted）：结果已写入评分后端，可以开新的一局
const (
	STAGE_SETUP      = "Setup"
	STAGE_ASSIGNMENT = "Assignment"
	STAGE_NIGHT_LOOP = "NightLoop"
	STAGE_RECORD     = "Record"
	STAGE_SUBMITTED  = "Submitted"
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 订阅和退订在任何阶段都可以处理
func handleSession(ctx *GameContext, req RequestWrapper) bool {
	if req := TryUnwrapSubscribeRequest(req); req != nil {
		ctx.Clients[req.ClientID] = &Client{
			ID:     req.ClientID,
			RespCh: req.RespCh,
		}

		zap.L().Info(
			"客户端已接入会话",
			zap.String("session_id", ctx.SessionID),
			zap.String("client_id", req.ClientID),
		)

		return true
	}

	if req := TryUnwrapUnsubscribeRequest(req); req != nil {
		delete(ctx.Clients, req.ClientID)

		zap.L().Info(
			"客户端已离开会话",
			zap.String("session_id", ctx.SessionID),
			zap.String("client_id", req.ClientID),
		)

		return true
	}

	if req := TryUnwrapSuggestRequest(req); req != nil {
		// 已经坐下的名字不再出现在候选里
		var candidates []string
		if src, ok := ctx.Known.(CandidateSource); ok {
			candidates = src.Candidates(req.Query, UsedNames(ctx.Seats), req.Limit)
		}

		ctx.BroadcastResp(WrapResponse(
			RESP_CANDIDATES,
			CandidatesResponse{
				Query:      req.Query,
				Candidates: candidates,
			},
		))

		return true
	}

	return false
}

func knownNames(ctx *GameContext) []string {
	if ctx.Known == nil {
		return nil
	}
	return ctx.Known.Names()
}

// renameSeat 修改某个座位上的玩家名。座位的位置、阵营、
// 幽灵标记都不会变，已记录的行动和投票里的旧名字同步替换
func renameSeat(ctx *GameContext, position int, newName string) error {
	seat := SeatByPosition(ctx.Seats, position)
	if seat == nil || seat.IsGhost {
		return errors.New("无法改名：该座位不存在或是幽灵位")
	}

	typed := strings.TrimSpace(newName)
	if typed == "" {
		return errors.New("无法改名：名字不能为空")
	}

	// 不能和其它座位重名
	for _, s := range ctx.Seats {
		if s.Position == position || s.IsGhost {
			continue
		}
		if strings.EqualFold(s.Name, typed) {
			return errors.New("无法改名：该名字已被其它座位占用")
		}
	}

	// 先按已占用名单排除，再走纠错，纠不出来就保留原输入
	excluded := UsedNames(ctx.Seats)
	delete(excluded, strings.ToLower(seat.Name))

	final := typed
	known := knownNames(ctx)
	if corrected := FindClosestPlayer(typed, known, excluded); corrected != "" {
		final = corrected
	} else {
		final = CorrectCase(typed, known)
	}

	old := seat.Name
	seat.Name = final

	if final != typed {
		ctx.Corrections = append(ctx.Corrections, fmt.Sprintf("%s → %s", typed, final))
	}

	// 行动记录里的旧名字跟着换
	for i := range ctx.Nights {
		nd := &ctx.Nights[i]
		for k := range nd.MafKills {
			if nd.MafKills[k] == old {
				nd.MafKills[k] = final
			}
		}
		if nd.CopCheck == old {
			nd.CopCheck = final
		}
		if nd.MedicSave == old {
			nd.MedicSave = final
		}
		if nd.VigiTarget == old {
			nd.VigiTarget = final
		}
	}
	for day, name := range ctx.DayVotes {
		if name == old {
			ctx.DayVotes[day] = final
		}
	}

	return nil
}

// 设置阶段是整个会话最初始的阶段
type setupStageHandler struct {
	onSwitch func(string)
}

func NewSetupStageHandler() *setupStageHandler {
	return &setupStageHandler{}
}

func (ssh *setupStageHandler) Stage() string {
	return STAGE_SETUP
}

func (ssh *setupStageHandler) OnEnter(ctx *GameContext) {
	ctx.ResetGame()
}

func (ssh *setupStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handleSession(ctx, req) {
		return nil
	}

	if req := TryUnwrapSetNamesRequest(req); req != nil {
		names, err := ValidateNames(req.RawNames)
		if err != nil {
			return err
		}

		var seats []Seat

		switch req.Mode {
		case MODE_RANDOM:
			seats = Randomize(names, ctx.Rand)
		case MODE_MANUAL:
			seats, err = BuildAssignments(names, req.Roles)
			if err != nil {
				return err
			}
			ctx.Roles = req.Roles
		default:
			return errors.New("无法分配座位：未知的分配模式")
		}

		ctx.Mode = req.Mode
		ctx.Names = names
		ctx.Seats = seats
		ctx.Formals = RandomizeFormals(ctx.Rand)
		ctx.Corrections = AutoMatchNames(ctx.Seats, knownNames(ctx))

		ssh.onSwitch(STAGE_ASSIGNMENT)

		return nil
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (ssh *setupStageHandler) OnExit(ctx *GameContext) {}

func (ssh *setupStageHandler) SetOnSwitch(onSwitch func(string)) {
	ssh.onSwitch = onSwitch
}

// 分配阶段展示座位表，等待主持人确认
type assignmentStageHandler struct {
	onSwitch func(string)
}

func NewAssignmentStageHandler() *assignmentStageHandler {
	return &assignmentStageHandler{}
}

func (ash *assignmentStageHandler) Stage() string {
	return STAGE_ASSIGNMENT
}

func (ash *assignmentStageHandler) OnEnter(ctx *GameContext) {}

func (ash *assignmentStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handleSession(ctx, req) {
		return nil
	}

	if req := TryUnwrapRerollRequest(req); req != nil {
		if ctx.Mode != MODE_RANDOM {
			return errors.New("无法重摇：只有随机分配可以重摇")
		}

		ctx.Seats = Randomize(ctx.Names, ctx.Rand)
		ctx.Formals = RandomizeFormals(ctx.Rand)
		ctx.Corrections = AutoMatchNames(ctx.Seats, knownNames(ctx))

		return nil
	}

	if req := TryUnwrapCycleRoleRequest(req); req != nil {
		if ctx.Mode != MODE_MANUAL {
			return errors.New("无法调整身份：只有手动分配可以调整")
		}

		inNames := false
		for _, n := range ctx.Names {
			if n == req.Name {
				inNames = true
				break
			}
		}
		if !inNames {
			return errors.New("无法调整身份：该玩家不在名单里")
		}

		// 先在副本上轮转，重建失败时不动原有分配
		roles := maps.Clone(ctx.Roles)
		if roles == nil {
			roles = make(RoleMap)
		}
		roles.Cycle(req.Name)

		seats, err := BuildAssignments(ctx.Names, roles)
		if err != nil {
			return err
		}

		ctx.Roles = roles
		ctx.Seats = seats

		return nil
	}

	if req := TryUnwrapRenameSeatRequest(req); req != nil {
		return renameSeat(ctx, req.Position, req.NewName)
	}

	if req := TryUnwrapAcceptRequest(req); req != nil {
		ash.onSwitch(STAGE_NIGHT_LOOP)
		return nil
	}

	if req := TryUnwrapBackToGameRequest(req); req != nil {
		// 回到设置阶段重新粘贴名单
		ash.onSwitch(STAGE_SETUP)
		return nil
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (ash *assignmentStageHandler) OnExit(ctx *GameContext) {}

func (ash *assignmentStageHandler) SetOnSwitch(onSwitch func(string)) {
	ash.onSwitch = onSwitch
}

// 夜晚阶段逐夜记录行动，同时接受白天投票
type nightLoopStageHandler struct {
	onSwitch func(string)
}

func NewNightLoopStageHandler() *nightLoopStageHandler {
	return &nightLoopStageHandler{}
}

func (nsh *nightLoopStageHandler) Stage() string {
	return STAGE_NIGHT_LOOP
}

func (nsh *nightLoopStageHandler) OnEnter(ctx *GameContext) {}

func (nsh *nightLoopStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handleSession(ctx, req) {
		return nil
	}

	if req := TryUnwrapOpenNightRequest(req); req != nil {
		return nsh.openNight(ctx, req.Night)
	}

	if req := TryUnwrapSetNightActionRequest(req); req != nil {
		return nsh.setNightAction(ctx, req)
	}

	if req := TryUnwrapSetDayVoteRequest(req); req != nil {
		return nsh.setDayVote(ctx, req.Day, req.Name)
	}

	if req := TryUnwrapRenameSeatRequest(req); req != nil {
		err := renameSeat(ctx, req.Position, req.NewName)
		if err != nil {
			return err
		}

		NormalizeActions(ctx.Seats, ctx.Nights, ctx.DayVotes)
		return nil
	}

	if req := TryUnwrapContinueRecordRequest(req); req != nil {
		nsh.onSwitch(STAGE_RECORD)
		return nil
	}

	if req := TryUnwrapBackToGameRequest(req); req != nil {
		nsh.onSwitch(STAGE_ASSIGNMENT)
		return nil
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (nsh *nightLoopStageHandler) openNight(ctx *GameContext, night int) error {
	if night != len(ctx.Nights) {
		return errors.New("无法展开夜晚：必须按顺序展开下一夜")
	}
	if night >= MAX_NIGHTS {
		return errors.New("无法展开夜晚：已到最后一夜")
	}
	if CheckWinCondition(ctx.Seats, ctx.Nights, ctx.DayVotes) != nil {
		return errors.New("无法展开夜晚：胜负已分")
	}

	ctx.Nights = append(ctx.Nights, NightAction{Night: night})

	return nil
}

func (nsh *nightLoopStageHandler) setNightAction(ctx *GameContext, req *SetNightActionRequest) error {
	var nd *NightAction
	for i := range ctx.Nights {
		if ctx.Nights[i].Night == req.Night {
			nd = &ctx.Nights[i]
			break
		}
	}
	if nd == nil {
		return errors.New("无法记录行动：该夜晚还未展开")
	}

	// 随机事件计数单独处理，目标是个数字
	if req.Field == FIELD_RNGS {
		count, err := strconv.Atoi(req.Target)
		if err != nil || count < 0 {
			return errors.New("无法记录行动：随机事件数量必须是非负整数")
		}
		nd.RNGs = count
		return nil
	}

	cons := ConstraintsForNight(ctx.Seats, ctx.Nights, ctx.DayVotes, req.Night)

	if req.Target != "" {
		if err := nsh.checkTarget(ctx, cons, req.Field, req.Target); err != nil {
			return err
		}
	}

	switch req.Field {
	case FIELD_MAF_KILL_1:
		if !cons.MafKill1 {
			return errors.New("无法记录行动：这一夜黑手党不能开第一刀")
		}
		nd.MafKills[0] = req.Target
	case FIELD_MAF_KILL_2:
		if !cons.MafKill2 {
			return errors.New("无法记录行动：这一夜黑手党不能开第二刀")
		}
		nd.MafKills[1] = req.Target
	case FIELD_COP_CHECK:
		if !cons.Cop {
			return errors.New("无法记录行动：这一夜警察不能查验")
		}
		nd.CopCheck = req.Target
	case FIELD_MEDIC_SAVE:
		if !cons.Medic {
			return errors.New("无法记录行动：这一夜医生不能救人")
		}
		nd.MedicSave = req.Target
	case FIELD_VIGI_TARGET:
		if !cons.Vigi {
			return errors.New("无法记录行动：这一夜义警不能开枪")
		}
		nd.VigiTarget = req.Target
	default:
		return errors.New("无法记录行动：未知的行动字段")
	}

	// 重新推导一遍，清掉因此失效的后续行动
	NormalizeActions(ctx.Seats, ctx.Nights, ctx.DayVotes)

	return nil
}

// checkTarget 校验行动目标是不是一个还活着的真实玩家，
// 以及特殊身份各自的目标限制
func (nsh *nightLoopStageHandler) checkTarget(ctx *GameContext, cons NightConstraints, field, target string) error {
	var targetSeat *Seat
	for i := range ctx.Seats {
		if !ctx.Seats[i].IsGhost && ctx.Seats[i].Name == target {
			targetSeat = &ctx.Seats[i]
			break
		}
	}
	if targetSeat == nil {
		return errors.New("无法记录行动：目标不是在座的真实玩家")
	}

	for _, dead := range cons.Dead {
		if dead == target {
			return errors.New("无法记录行动：目标在这一夜之前已经死亡")
		}
	}

	switch field {
	case FIELD_MAF_KILL_1, FIELD_MAF_KILL_2:
		if targetSeat.Role == ROLE_MAFIA {
			return errors.New("无法记录行动：黑手党不能刀自己人")
		}
	case FIELD_COP_CHECK:
		if targetSeat.SpecialRole == SPECIAL_COP {
			return errors.New("无法记录行动：警察不能查验自己")
		}
		for _, blocked := range cons.CopBlocked {
			if blocked == target {
				return errors.New("无法记录行动：警察已经查验过该玩家")
			}
		}
	case FIELD_MEDIC_SAVE:
		if cons.MedicBlocked == target {
			return errors.New("无法记录行动：医生不能连续两夜救同一个人")
		}
	}

	return nil
}

func (nsh *nightLoopStageHandler) setDayVote(ctx *GameContext, day int, name string) error {
	if day < 1 || day > len(ctx.Nights) {
		return errors.New("无法记录投票：该白天还没到")
	}

	if name == "" {
		delete(ctx.DayVotes, day)
		NormalizeActions(ctx.Seats, ctx.Nights, ctx.DayVotes)
		return nil
	}

	found := false
	for _, s := range ctx.Seats {
		if !s.IsGhost && s.Name == name {
			found = true
			break
		}
	}
	if !found {
		return errors.New("无法记录投票：目标不是在座的真实玩家")
	}

	dead := DeadBeforeDay(ctx.Nights, ctx.DayVotes, day)
	if _, isDead := dead[name]; isDead {
		return errors.New("无法记录投票：目标在这个白天之前已经死亡")
	}

	ctx.DayVotes[day] = name
	NormalizeActions(ctx.Seats, ctx.Nights, ctx.DayVotes)

	return nil
}

func (nsh *nightLoopStageHandler) OnExit(ctx *GameContext) {}

func (nsh *nightLoopStageHandler) SetOnSwitch(onSwitch func(string)) {
	nsh.onSwitch = onSwitch
}

// 登记阶段确认最终结果，提交给评分后端
type recordStageHandler struct {
	onSwitch func(string)
}

func NewRecordStageHandler() *recordStageHandler {
	return &recordStageHandler{}
}

func (rsh *recordStageHandler) Stage() string {
	return STAGE_RECORD
}

func (rsh *recordStageHandler) OnEnter(ctx *GameContext) {
	// 胜负已分时预填获胜阵营，主持人可以改
	if ctx.Winner == "" {
		if win := CheckWinCondition(ctx.Seats, ctx.Nights, ctx.DayVotes); win != nil {
			ctx.Winner = win.Winner
		}
	}

	// 第 0 夜的刀预填进提交名单，主持人可以用登记请求覆盖。
	// 只在从未登记过时预填，回到夜晚阶段再进来不会冲掉手动修改
	if ctx.Night0Kills == nil && len(ctx.Nights) > 0 && ctx.Nights[0].Night == 0 {
		seen := make(map[string]struct{}, 2)
		kills := make([]string, 0, 2)

		for _, kill := range ctx.Nights[0].MafKills {
			if kill == "" {
				continue
			}
			if _, dup := seen[kill]; dup {
				continue
			}
			seen[kill] = struct{}{}
			kills = append(kills, kill)
		}

		if len(kills) > 0 {
			ctx.Night0Kills = kills
		}
	}
}

func (rsh *recordStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handleSession(ctx, req) {
		return nil
	}

	if req := TryUnwrapSetWinnerRequest(req); req != nil {
		if req.Winner != ROLE_MAFIA && req.Winner != ROLE_TOWN {
			return errors.New("无法登记：获胜阵营必须是黑手党或平民")
		}
		ctx.Winner = req.Winner
		return nil
	}

	if req := TryUnwrapSetNightZeroRequest(req); req != nil {
		seen := make(map[string]struct{}, len(req.Names))
		kills := make([]string, 0, len(req.Names))

		for _, name := range req.Names {
			found := false
			for _, s := range ctx.Seats {
				if !s.IsGhost && s.Name == name {
					found = true
					break
				}
			}
			if !found {
				return errors.New("无法登记：第 0 夜死亡名单里有不在座的名字")
			}

			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			kills = append(kills, name)
		}

		ctx.Night0Kills = kills
		return nil
	}

	if req := TryUnwrapBackToGameRequest(req); req != nil {
		rsh.onSwitch(STAGE_NIGHT_LOOP)
		return nil
	}

	if req := TryUnwrapSubmitRequest(req); req != nil {
		if ctx.Winner == "" {
			return errors.New("无法提交：请先选择获胜阵营")
		}
		if ctx.Recorder == nil {
			return errors.New("无法提交：评分后端未配置")
		}

		result, err := ctx.Recorder.Record(context.Background(), ctx.Seats, ctx.Winner, ctx.Night0Kills)
		if err != nil {
			// 提交失败停留在登记阶段，主持人可以重试
			return fmt.Errorf("提交失败: %w", err)
		}

		zap.L().Info(
			"对局已提交到评分后端",
			zap.String("session_id", ctx.SessionID),
			zap.String("winner", ctx.Winner),
		)

		ctx.BroadcastResp(WrapResponse(RESP_SUBMITTED, SubmittedResponse{Result: result}))

		rsh.onSwitch(STAGE_SUBMITTED)

		return nil
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (rsh *recordStageHandler) OnExit(ctx *GameContext) {}

func (rsh *recordStageHandler) SetOnSwitch(onSwitch func(string)) {
	rsh.onSwitch = onSwitch
}

// 已提交阶段只等着开新的一局
type submittedStageHandler struct {
	onSwitch func(string)
}

func NewSubmittedStageHandler() *submittedStageHandler {
	return &submittedStageHandler{}
}

func (sub *submittedStageHandler) Stage() string {
	return STAGE_SUBMITTED
}

func (sub *submittedStageHandler) OnEnter(ctx *GameContext) {
	// 结果已经进了后端，本地快照没用了
	if ctx.Saver != nil {
		if err := ctx.Saver.Delete(ctx.SessionID); err != nil {
			zap.L().Warn(
				"删除会话快照失败",
				zap.String("session_id", ctx.SessionID),
				zap.Error(err),
			)
		}
	}
}

func (sub *submittedStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handleSession(ctx, req) {
		return nil
	}

	if req := TryUnwrapNewGameRequest(req); req != nil {
		sub.onSwitch(STAGE_SETUP)
		return nil
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (sub *submittedStageHandler) OnExit(ctx *GameContext) {}

func (sub *submittedStageHandler) SetOnSwitch(onSwitch func(string)) {
	sub.onSwitch = onSwitch
}
