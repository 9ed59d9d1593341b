package game

// 夜晚行动的字段名
const (
	FIELD_MAF_KILL_1  = "maf_kill_1"
	FIELD_MAF_KILL_2  = "maf_kill_2"
	FIELD_COP_CHECK   = "cop_check"
	FIELD_MEDIC_SAVE  = "medic_save"
	FIELD_VIGI_TARGET = "vigi_target"
	FIELD_RNGS        = "rngs"
)

type SubscribeRequest struct {
	ClientID string               `json:"-"`
	RespCh   chan ResponseWrapper `json:"-"`
}

type UnsubscribeRequest struct {
	ClientID string `json:"-"`
}

// SetNames 提交原始名单并选择分配方式。
// 手动模式下 Roles 给出 1-3 号位和特殊身份的归属
type SetNamesRequest struct {
	RawNames string  `json:"raw_names"`
	Mode     string  `json:"mode"`
	Roles    RoleMap `json:"roles,omitempty"`
}

type RerollRequest struct{}

type CycleRoleRequest struct {
	Name string `json:"name"`
}

type RenameSeatRequest struct {
	Position int    `json:"position"`
	NewName  string `json:"new_name"`
}

type AcceptRequest struct{}

type OpenNightRequest struct {
	Night int `json:"night"`
}

type SetNightActionRequest struct {
	Night  int    `json:"night"`
	Field  string `json:"field"`
	Target string `json:"target"`
}

type SetDayVoteRequest struct {
	Day  int    `json:"day"`
	Name string `json:"name"`
}

type ContinueRecordRequest struct{}

type BackToGameRequest struct{}

type SetWinnerRequest struct {
	Winner string `json:"winner"`
}

type SetNightZeroRequest struct {
	Names []string `json:"names"`
}

type SubmitRequest struct{}

type NewGameRequest struct{}

// SuggestCandidates 给正在输入的片段要一批名册补全候选
type SuggestRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type CandidatesResponse struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
}

// SubmittedResponse 带上后端结算的原始结果
type SubmittedResponse struct {
	Result any `json:"result"`
}
