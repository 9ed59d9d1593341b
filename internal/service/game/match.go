package game

import (
	"fmt"
	"strings"
	"unicode"
)

// 自动改名的接受门槛：缩写得分至少要达到输入长度的 8 倍。
// 这个系数是经验值，只有非常确定的缩写匹配才会被自动应用，
// 模棱两可的留给主持人手动确认
const AUTO_APPLY_SCORE_FACTOR = 8

// Levenshtein 计算两个字符串之间的编辑距离，按 Unicode 字符计
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	m, n := len(ra), len(rb)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i

		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
			}
		}

		prev, curr = curr, prev
	}

	return prev[n]
}

// AbbreviationScore 衡量 query 作为 name 的缩写有多合理。
// 从左到右贪心扫描：每个 query 字符在 name 中找到下一个匹配位置，
// 途中跳过的字符每个扣 1 分；匹配在 name 开头记 10 分，
// 匹配在单词边界（前一个字符不是字母，或小写后跟大写）也记 10 分，
// 其余位置记 1 分。找不到匹配则整体失败，返回 -1
func AbbreviationScore(query, name string) int {
	q := []rune(strings.ToLower(query))
	nOrig := []rune(name)
	nLower := []rune(strings.ToLower(name))

	ni := 0
	score := 0

	for _, qc := range q {
		found := false

		for ni < len(nOrig) {
			if nLower[ni] == qc {
				if ni == 0 {
					score += 10
				} else {
					prev := nOrig[ni-1]
					curr := nOrig[ni]

					boundary := !unicode.IsLetter(prev) ||
						(unicode.IsLower(prev) && unicode.IsUpper(curr))

					if boundary {
						score += 10
					} else {
						score += 1
					}
				}

				ni++
				found = true
				break
			}

			score -= 1
			ni++
		}

		if !found {
			return -1
		}
	}

	return score
}

// suggestionMargin 返回缩写得分第一名需要领先第二名多少才能胜出。
// 输入越短信号越弱，反而只需要很小的领先就值得建议；
// 长输入则要求明显的分差
func suggestionMargin(typedLen int) int {
	switch {
	case typedLen <= 2:
		return 1
	case typedLen <= 4:
		return 3
	default:
		return 5
	}
}

// FindClosestPlayer 在已知玩家名册中为输入的名字找一个建议。
// excluded 是本局已经占用的名字（小写），这些名字永远不会被建议。
// 规则按顺序应用，第一条命中即返回；没有合适的建议时返回空串，
// 这是正常结果而不是错误
func FindClosestPlayer(typed string, known []string, excluded map[string]struct{}) string {
	if len(known) == 0 {
		return ""
	}

	lower := strings.ToLower(typed)
	typedLen := len([]rune(typed))

	// 较长的名字如果和名册完全一致就不需要建议；
	// 短名字（5 个字符以内）跳过这条检查，它们可能是更长
	// 正式名字的缩写
	if typedLen > 5 {
		for _, p := range known {
			if strings.ToLower(p) == lower {
				return ""
			}
		}
	}

	candidates := make([]string, 0, len(known))
	for _, p := range known {
		if _, used := excluded[strings.ToLower(p)]; used {
			continue
		}
		candidates = append(candidates, p)
	}

	if len(candidates) == 0 {
		return ""
	}

	// 唯一的前缀匹配
	prefixMatches := make([]string, 0, 2)
	for _, p := range candidates {
		if strings.HasPrefix(strings.ToLower(p), lower) {
			prefixMatches = append(prefixMatches, p)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0]
	}

	// 唯一的子串匹配
	substringMatches := make([]string, 0, 2)
	for _, p := range candidates {
		if strings.Contains(strings.ToLower(p), lower) {
			substringMatches = append(substringMatches, p)
		}
	}
	if len(substringMatches) == 1 {
		return substringMatches[0]
	}

	// 缩写得分，只保留正分，按得分降序
	type scoredName struct {
		name  string
		score int
	}

	scored := make([]scoredName, 0, len(candidates))
	for _, p := range candidates {
		s := AbbreviationScore(lower, p)
		if s > 0 {
			scored = append(scored, scoredName{name: p, score: s})
		}
	}

	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].score > scored[j-1].score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}

	if len(scored) == 1 {
		return scored[0].name
	}
	if len(scored) >= 2 {
		if scored[0].score >= scored[1].score+suggestionMargin(typedLen) {
			return scored[0].name
		}
	}

	// 反向前缀：输入比正式名字更长（比如带了外号后缀）
	reversePrefix := make([]string, 0, 2)
	for _, p := range candidates {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			reversePrefix = append(reversePrefix, p)
		}
	}
	if len(reversePrefix) == 1 {
		return reversePrefix[0]
	}

	// 最后一道：编辑距离足够近才建议
	best := ""
	bestDist := -1

	for _, p := range candidates {
		dist := Levenshtein(lower, strings.ToLower(p))
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = p
		}
	}

	maxLen := typedLen
	if bl := len([]rune(best)); bl > maxLen {
		maxLen = bl
	}

	// ceil(maxLen / 3)
	if bestDist <= (maxLen+2)/3 {
		return best
	}

	return ""
}

// CorrectCase 把名字修正为名册里的标准大小写，没有匹配则原样返回
func CorrectCase(name string, known []string) string {
	lower := strings.ToLower(name)

	for _, p := range known {
		if strings.ToLower(p) == lower {
			return p
		}
	}

	return name
}

// UsedNames 收集当前分配中所有真实玩家名（小写），作为匹配的排除集
func UsedNames(seats []Seat) map[string]struct{} {
	used := make(map[string]struct{}, len(seats))

	for _, s := range seats {
		if !s.IsGhost {
			used[strings.ToLower(s.Name)] = struct{}{}
		}
	}

	return used
}

// AutoMatchNames 在分配创建后跑一次自动改名。
// 两个独立的子阶段，不逐座位交错：
//  1. 大小写修正：名字和名册只差大小写的直接替换
//  2. 建议修正：只有缩写得分达到 8 倍长度门槛的建议才自动应用
//
// 返回 "旧名 → 新名" 形式的修正列表用于展示，没有修正时为空
func AutoMatchNames(seats []Seat, known []string) []string {
	corrections := make([]string, 0)

	for i := range seats {
		if seats[i].IsGhost {
			continue
		}

		corrected := CorrectCase(seats[i].Name, known)
		if corrected != seats[i].Name {
			corrections = append(corrections, fmt.Sprintf("%s → %s", seats[i].Name, corrected))
			seats[i].Name = corrected
		}
	}

	for i := range seats {
		if seats[i].IsGhost {
			continue
		}

		name := seats[i].Name
		suggestion := FindClosestPlayer(name, known, UsedNames(seats))
		if suggestion == "" {
			continue
		}

		score := AbbreviationScore(strings.ToLower(name), suggestion)
		if score >= len([]rune(name))*AUTO_APPLY_SCORE_FACTOR {
			corrections = append(corrections, fmt.Sprintf("%s → %s", name, suggestion))
			seats[i].Name = suggestion
		}
	}

	return corrections
}
