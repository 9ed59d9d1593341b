package random

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source 提供 [0,1) 上的独立均匀随机数。
// 游戏逻辑只依赖这个接口，不关心随机数的来源
type Source interface {
	Float64() float64
}

// LocalSource 用系统的加密随机数生成器产生均匀随机数，
// 永远可用，作为远程池的兜底
type LocalSource struct{}

func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

func (*LocalSource) Float64() float64 {
	var buf [8]byte

	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand 读取失败意味着系统随机源不可用，无法继续
		panic(fmt.Errorf("读取系统随机源失败: %w", err))
	}

	// 取 53 位，对应 float64 的尾数精度
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// PoolSource 从远程真随机数服务批量预取小数，逐个弹出使用。
// 池子耗尽或预取失败时透明地切换到本地随机源，
// 抽取序列不会中断也不会重新开始
type PoolSource struct {
	mu   sync.Mutex
	pool []float64

	url       string
	batchSize int
	client    *http.Client
	fallback  Source

	refilling bool
}

func NewPoolSource(url string, batchSize int, fallback Source) *PoolSource {
	if batchSize <= 0 {
		batchSize = 256
	}

	return &PoolSource{
		pool:      make([]float64, 0, batchSize),
		url:       url,
		batchSize: batchSize,
		client:    &http.Client{Timeout: 10 * time.Second},
		fallback:  fallback,
	}
}

// Prefetch 同步拉取一批随机数填入池子，启动时调用一次。
// 失败不致命，后续抽取会落到本地随机源上
func (p *PoolSource) Prefetch(ctx context.Context) error {
	values, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.pool = append(p.pool, values...)
	p.mu.Unlock()

	return nil
}

func (p *PoolSource) Float64() float64 {
	p.mu.Lock()

	if len(p.pool) > 0 {
		v := p.pool[0]
		p.pool = p.pool[1:]

		// 池子快见底时在后台补货，不阻塞当前抽取
		if len(p.pool) < p.batchSize/4 && !p.refilling {
			p.refilling = true
			go p.refill()
		}

		p.mu.Unlock()
		return v
	}

	if !p.refilling {
		p.refilling = true
		go p.refill()
	}

	p.mu.Unlock()

	// 池子已空，退回本地随机源继续当前序列
	return p.fallback.Float64()
}

// Remaining 返回池中剩余的随机数数量
func (p *PoolSource) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.pool)
}

func (p *PoolSource) refill() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	values, err := p.fetch(ctx)

	p.mu.Lock()
	p.refilling = false
	if err == nil {
		p.pool = append(p.pool, values...)
	}
	p.mu.Unlock()

	if err != nil {
		zap.L().Warn(
			"随机数池补货失败，继续使用本地随机源",
			zap.Error(err),
		)
	}
}

// fetch 请求远程服务，响应是每行一个十进制小数的纯文本
func (p *PoolSource) fetch(ctx context.Context) ([]float64, error) {
	url := fmt.Sprintf("%s?num=%d", p.url, p.batchSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造随机数请求失败: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求随机数服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("随机数服务返回状态 %d", resp.StatusCode)
	}

	values := make([]float64, 0, p.batchSize)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("解析随机数失败: %w", err)
		}

		if v < 0 || v >= 1 {
			return nil, fmt.Errorf("随机数 %v 超出 [0,1) 范围", v)
		}

		values = append(values, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取随机数响应失败: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("随机数服务返回了空响应")
	}

	return values, nil
}
