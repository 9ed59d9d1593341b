package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mafia-mod-be/internal/service/game"

	"go.uber.org/zap"
)

// 后端支持的动作名
const (
	ACTION_GET_PLAYERS        = "getPlayers"
	ACTION_GET_STATS          = "getStats"
	ACTION_GET_PLAYER_HISTORY = "getPlayerHistory"
	ACTION_GET_LAST_GAME      = "getLastGame"
	ACTION_RECORD_GAME        = "recordGame"
	ACTION_UNDO_LAST_GAME     = "undoLastGame"
)

// Client 封装对评分后端（表格云函数）的调用。
// 协议很简单：POST 一个 {action, ...payload} 的 JSON，
// 响应要么是结果对象，要么是 {error: "..."}。
// 单发单收，没有重试，失败直接上抛给调用方
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// 名册里的玩家条目
type PlayerRating struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

type getPlayersResponse struct {
	Players []PlayerRating `json:"players"`
}

// 提交一局游戏的请求体
type RecordGameRequest struct {
	Assignments []game.Seat `json:"assignments"`
	Winner      string      `json:"winner"`
	Night0Kills []string    `json:"night0_kills"`
}

// RecordGameResult 只解析提交后需要展示的字段，
// 玩家明细原样透传给前端
type RecordGameResult struct {
	GameID  int64           `json:"game_id"`
	Players json.RawMessage `json:"players"`
	Raw     json.RawMessage `json:"-"`
}

type UndoResult struct {
	UndoneGameID    int64    `json:"undone_game_id"`
	PlayersRestored []string `json:"players_restored"`
}

func (c *Client) call(ctx context.Context, action string, payload map[string]any) (json.RawMessage, error) {
	body := map[string]any{"action": action}
	for k, v := range payload {
		body[k] = v
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求评分后端失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取后端响应失败: %w", err)
	}

	// 后端用响应体里的 error 字段报告业务错误
	var errEnvelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errEnvelope); err != nil {
		return nil, fmt.Errorf("解析后端响应失败: %w", err)
	}
	if errEnvelope.Error != "" {
		return nil, errors.New(errEnvelope.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("后端返回状态 %d", resp.StatusCode)
	}

	zap.L().Debug(
		"后端调用成功",
		zap.String("action", action),
	)

	return raw, nil
}

// GetPlayers 拉取已知玩家名册
func (c *Client) GetPlayers(ctx context.Context) ([]PlayerRating, error) {
	raw, err := c.call(ctx, ACTION_GET_PLAYERS, nil)
	if err != nil {
		return nil, err
	}

	var resp getPlayersResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("解析玩家名册失败: %w", err)
	}

	return resp.Players, nil
}

// GetStats 拉取统计汇总，内容原样透传
func (c *Client) GetStats(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, ACTION_GET_STATS, nil)
}

// GetPlayerHistory 拉取单个玩家的历史战绩，内容原样透传
func (c *Client) GetPlayerHistory(ctx context.Context, player string) (json.RawMessage, error) {
	return c.call(ctx, ACTION_GET_PLAYER_HISTORY, map[string]any{
		"player": player,
	})
}

// GetLastGame 拉取最近一局的记录，内容原样透传
func (c *Client) GetLastGame(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, ACTION_GET_LAST_GAME, nil)
}

// RecordGame 提交一局游戏的结果
func (c *Client) RecordGame(ctx context.Context, req RecordGameRequest) (*RecordGameResult, error) {
	raw, err := c.call(ctx, ACTION_RECORD_GAME, map[string]any{
		"assignments":  req.Assignments,
		"winner":       req.Winner,
		"night0_kills": req.Night0Kills,
	})
	if err != nil {
		return nil, err
	}

	var result RecordGameResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("解析提交结果失败: %w", err)
	}
	result.Raw = raw

	return &result, nil
}

// UndoLastGame 撤销最近一局
func (c *Client) UndoLastGame(ctx context.Context) (*UndoResult, error) {
	raw, err := c.call(ctx, ACTION_UNDO_LAST_GAME, nil)
	if err != nil {
		return nil, err
	}

	var result UndoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("解析撤销结果失败: %w", err)
	}

	return &result, nil
}
