package roster

import (
	"context"
	"strings"
	"sync"

	"mafia-mod-be/internal/backend"

	"github.com/schollz/closestmatch"
	"go.uber.org/zap"
)

// 补全候选默认给这么多条
const DEFAULT_CANDIDATE_LIMIT = 8

// Roster 缓存一份已知玩家名册，供纠错和补全使用。
// 刷新失败时保留旧名册，让会话在后端抖动时照常进行
type Roster struct {
	mu      sync.RWMutex
	names   []string
	ratings map[string]int
	matcher *closestmatch.ClosestMatch

	client *backend.Client
}

func New(client *backend.Client) *Roster {
	return &Roster{
		ratings: make(map[string]int),
		client:  client,
	}
}

// Refresh 从评分后端重新拉取名册并重建模糊索引
func (r *Roster) Refresh(ctx context.Context) error {
	players, err := r.client.GetPlayers(ctx)
	if err != nil {
		zap.L().Warn(
			"刷新玩家名册失败，沿用旧名册",
			zap.Error(err),
		)
		return err
	}

	names := make([]string, 0, len(players))
	ratings := make(map[string]int, len(players))
	for _, p := range players {
		names = append(names, p.Name)
		ratings[p.Name] = p.Rating
	}

	matcher := closestmatch.New(names, []int{2, 3})

	r.mu.Lock()
	r.names = names
	r.ratings = ratings
	r.matcher = matcher
	r.mu.Unlock()

	zap.L().Info(
		"玩家名册已刷新",
		zap.Int("count", len(names)),
	)

	return nil
}

// Names 返回名册的一份拷贝
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Roster) Rating(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[name]
	return rating, ok
}

// Candidates 给一段输入返回补全候选。
// 先收子串命中（不含与输入完全相同的名字，排除已占用的），
// 不够再用 closestmatch 的模糊近邻补齐
func (r *Roster) Candidates(query string, exclude map[string]struct{}, limit int) []string {
	if limit <= 0 {
		limit = DEFAULT_CANDIDATE_LIMIT
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	if lowerQuery == "" {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, limit)

	usable := func(name string) bool {
		if _, ok := seen[name]; ok {
			return false
		}
		if _, ok := exclude[strings.ToLower(name)]; ok {
			return false
		}
		return !strings.EqualFold(name, query)
	}

	for _, name := range r.names {
		if len(out) >= limit {
			return out
		}
		if strings.Contains(strings.ToLower(name), lowerQuery) && usable(name) {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}

	if r.matcher == nil {
		return out
	}
	for _, name := range r.matcher.ClosestN(lowerQuery, limit) {
		if len(out) >= limit {
			break
		}
		if usable(name) {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}

	return out
}
