package dto

// 创建会话不需要任何参数，一个会话就是一局待主持的游戏
type CreateSessionRequest struct{}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// 已有会话的概览，用于首页列出可以续接的局
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`
	Clients   int    `json:"clients"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}
