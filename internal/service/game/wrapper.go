package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_SUBSCRIBE   = "Subscribe"
	REQ_UNSUBSCRIBE = "Unsubscribe"

	REQ_SET_NAMES        = "SetNames"
	REQ_REROLL           = "Reroll"
	REQ_CYCLE_ROLE       = "CycleRole"
	REQ_RENAME_SEAT      = "RenameSeat"
	REQ_ACCEPT           = "AcceptAssignments"
	REQ_OPEN_NIGHT       = "OpenNight"
	REQ_SET_NIGHT_ACTION = "SetNightAction"
	REQ_SET_DAY_VOTE     = "SetDayVote"
	REQ_CONTINUE_RECORD  = "ContinueToRecord"
	REQ_BACK_TO_GAME     = "BackToGame"
	REQ_SET_WINNER       = "SetWinner"
	REQ_SET_NIGHT0       = "SetNightZeroKills"
	REQ_SUBMIT           = "SubmitGame"
	REQ_NEW_GAME         = "NewGame"

	REQ_SUGGEST = "SuggestCandidates"
)

// NativeData 承载无法走 JSON 的请求负载（带通道的订阅请求），
// 由进程内的调用方直接填充
type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`

	NativeData any `json:"-"`
}

func TryUnwrapSubscribeRequest(wrapper RequestWrapper) *SubscribeRequest {
	if wrapper.ReqType != REQ_SUBSCRIBE {
		return nil
	}

	req, ok := wrapper.NativeData.(*SubscribeRequest)
	if !ok {
		zap.L().Error(
			"Failed to unwrap SubscribeRequest",
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return req
}

func TryUnwrapUnsubscribeRequest(wrapper RequestWrapper) *UnsubscribeRequest {
	if wrapper.ReqType != REQ_UNSUBSCRIBE {
		return nil
	}

	req, ok := wrapper.NativeData.(*UnsubscribeRequest)
	if !ok {
		zap.L().Error(
			"Failed to unwrap UnsubscribeRequest",
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return req
}

func TryUnwrapSetNamesRequest(wrapper RequestWrapper) *SetNamesRequest {
	if wrapper.ReqType != REQ_SET_NAMES {
		return nil
	}

	var setNamesRequest SetNamesRequest

	err := json.Unmarshal(wrapper.Data, &setNamesRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SetNamesRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &setNamesRequest
}

func TryUnwrapRerollRequest(wrapper RequestWrapper) *RerollRequest {
	if wrapper.ReqType != REQ_REROLL {
		return nil
	}

	return &RerollRequest{}
}

func TryUnwrapCycleRoleRequest(wrapper RequestWrapper) *CycleRoleRequest {
	if wrapper.ReqType != REQ_CYCLE_ROLE {
		return nil
	}

	var cycleRoleRequest CycleRoleRequest

	err := json.Unmarshal(wrapper.Data, &cycleRoleRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap CycleRoleRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &cycleRoleRequest
}

func TryUnwrapRenameSeatRequest(wrapper RequestWrapper) *RenameSeatRequest {
	if wrapper.ReqType != REQ_RENAME_SEAT {
		return nil
	}

	var renameSeatRequest RenameSeatRequest

	err := json.Unmarshal(wrapper.Data, &renameSeatRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap RenameSeatRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &renameSeatRequest
}

func TryUnwrapAcceptRequest(wrapper RequestWrapper) *AcceptRequest {
	if wrapper.ReqType != REQ_ACCEPT {
		return nil
	}

	return &AcceptRequest{}
}

func TryUnwrapOpenNightRequest(wrapper RequestWrapper) *OpenNightRequest {
	if wrapper.ReqType != REQ_OPEN_NIGHT {
		return nil
	}

	var openNightRequest OpenNightRequest

	err := json.Unmarshal(wrapper.Data, &openNightRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap OpenNightRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &openNightRequest
}

func TryUnwrapSetNightActionRequest(wrapper RequestWrapper) *SetNightActionRequest {
	if wrapper.ReqType != REQ_SET_NIGHT_ACTION {
		return nil
	}

	var setNightActionRequest SetNightActionRequest

	err := json.Unmarshal(wrapper.Data, &setNightActionRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SetNightActionRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &setNightActionRequest
}

func TryUnwrapSetDayVoteRequest(wrapper RequestWrapper) *SetDayVoteRequest {
	if wrapper.ReqType != REQ_SET_DAY_VOTE {
		return nil
	}

	var setDayVoteRequest SetDayVoteRequest

	err := json.Unmarshal(wrapper.Data, &setDayVoteRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SetDayVoteRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &setDayVoteRequest
}

func TryUnwrapContinueRecordRequest(wrapper RequestWrapper) *ContinueRecordRequest {
	if wrapper.ReqType != REQ_CONTINUE_RECORD {
		return nil
	}

	return &ContinueRecordRequest{}
}

func TryUnwrapBackToGameRequest(wrapper RequestWrapper) *BackToGameRequest {
	if wrapper.ReqType != REQ_BACK_TO_GAME {
		return nil
	}

	return &BackToGameRequest{}
}

func TryUnwrapSetWinnerRequest(wrapper RequestWrapper) *SetWinnerRequest {
	if wrapper.ReqType != REQ_SET_WINNER {
		return nil
	}

	var setWinnerRequest SetWinnerRequest

	err := json.Unmarshal(wrapper.Data, &setWinnerRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SetWinnerRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &setWinnerRequest
}

func TryUnwrapSetNightZeroRequest(wrapper RequestWrapper) *SetNightZeroRequest {
	if wrapper.ReqType != REQ_SET_NIGHT0 {
		return nil
	}

	var setNightZeroRequest SetNightZeroRequest

	err := json.Unmarshal(wrapper.Data, &setNightZeroRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SetNightZeroRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &setNightZeroRequest
}

func TryUnwrapSubmitRequest(wrapper RequestWrapper) *SubmitRequest {
	if wrapper.ReqType != REQ_SUBMIT {
		return nil
	}

	return &SubmitRequest{}
}

func TryUnwrapNewGameRequest(wrapper RequestWrapper) *NewGameRequest {
	if wrapper.ReqType != REQ_NEW_GAME {
		return nil
	}

	return &NewGameRequest{}
}

func TryUnwrapSuggestRequest(wrapper RequestWrapper) *SuggestRequest {
	if wrapper.ReqType != REQ_SUGGEST {
		return nil
	}

	var suggestRequest SuggestRequest

	err := json.Unmarshal(wrapper.Data, &suggestRequest)
	if err != nil {
		zap.L().Error(
			"Failed to unwrap SuggestRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &suggestRequest
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_SESSION_STATE = "SessionState"
	RESP_SUBMITTED     = "Submitted"
	RESP_CANDIDATES    = "Candidates"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
