package game

import "strings"

// ValidateNames 解析主持人输入的原始名单。
// 输入用逗号或换行分隔，两者都有时以逗号为准（和前端的计数逻辑一致）。
// 空白项会被丢弃，名字保留原始大小写，但查重时忽略大小写。
// 成功时返回保持输入顺序的名单
func ValidateNames(rawInput string) ([]string, error) {
	var parts []string

	if strings.Contains(rawInput, ",") {
		parts = strings.Split(rawInput, ",")
	} else {
		parts = strings.Split(rawInput, "\n")
	}

	names := make([]string, 0, len(parts))

	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}

		names = append(names, trimmed)
	}

	seen := make(map[string]struct{}, len(names))
	dupes := make([]string, 0)

	for _, n := range names {
		lower := strings.ToLower(n)

		if _, ok := seen[lower]; ok {
			dupes = append(dupes, n)
		}

		seen[lower] = struct{}{}
	}

	if len(dupes) > 0 {
		return nil, &DuplicateNameError{Names: dupes}
	}

	if len(names) < MIN_PLAYERS || len(names) > MAX_PLAYERS {
		return nil, &PlayerCountError{Count: len(names)}
	}

	return names, nil
}
