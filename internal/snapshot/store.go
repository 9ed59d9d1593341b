package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mafia-mod-be/internal/service/game"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Store 把会话快照落盘，一个会话一个 msgpack 文件。
// 进程重启后可以从快照恢复还没打完的局
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建快照目录失败: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(sessionID string) string {
	// 会话 ID 来自 uuid，这里再保险过滤一次路径分隔符
	safe := strings.ReplaceAll(sessionID, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".msgpack")
}

func (s *Store) Save(sessionID string, snap *game.Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	// 先写临时文件再改名，避免半截快照
	tmp := s.path(sessionID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("写快照失败: %w", err)
	}
	if err := os.Rename(tmp, s.path(sessionID)); err != nil {
		return fmt.Errorf("替换快照失败: %w", err)
	}

	return nil
}

func (s *Store) Load(sessionID string) (*game.Snapshot, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		return nil, err
	}

	var snap game.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}

	return &snap, nil
}

func (s *Store) Delete(sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadAll 扫描目录下所有快照，用于启动时恢复会话。
// 坏掉的文件跳过并告警，不拦着其它会话恢复
func (s *Store) LoadAll() ([]*game.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("读取快照目录失败: %w", err)
	}

	var snaps []*game.Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".msgpack") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			zap.L().Warn(
				"读取快照文件失败",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		var snap game.Snapshot
		if err := msgpack.Unmarshal(data, &snap); err != nil {
			zap.L().Warn(
				"快照文件损坏，已跳过",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}
		snaps = append(snaps, &snap)
	}

	return snaps, nil
}
