package game

import (
	"fmt"
	"strings"
)

const (
	COP_RESULT_SAME      = "SAME"
	COP_RESULT_DIFFERENT = "DIFFERENT"
)

func alignmentOf(seats []Seat, name string) string {
	for _, s := range seats {
		if s.Name == name && !s.IsGhost {
			return s.Role
		}
	}

	return ""
}

// prevCopCheck 找到第 n 夜之前最近一次查验的目标
func prevCopCheck(nights []NightAction, n int) string {
	for i := n - 1; i >= 0; i-- {
		if i < len(nights) && nights[i].CopCheck != "" {
			return nights[i].CopCheck
		}
	}

	return ""
}

// CopResultForNight 计算第 n 夜查验的结论：本次目标和上一次
// 查验目标阵营相同还是不同。第 0 夜没有可比较的对象，返回空
func CopResultForNight(seats []Seat, nights []NightAction, n int) string {
	if n == 0 || n >= len(nights) || nights[n].CopCheck == "" {
		return ""
	}

	prev := prevCopCheck(nights, n)
	if prev == "" {
		return ""
	}

	targetAlign := alignmentOf(seats, nights[n].CopCheck)
	prevAlign := alignmentOf(seats, prev)
	if targetAlign == "" || prevAlign == "" {
		return ""
	}

	if targetAlign == prevAlign {
		return COP_RESULT_SAME
	}

	return COP_RESULT_DIFFERENT
}

// RecalculateCopResults 重算所有夜晚的查验结果。
// 改名或清掉某次查验都会影响后续夜晚的结论
func RecalculateCopResults(seats []Seat, nights []NightAction) {
	for n := range nights {
		nights[n].CopResult = CopResultForNight(seats, nights, n)
	}
}

// RoleReveal 生成对局开始时发在频道里的身份揭示文本，
// ||...|| 是聊天软件的剧透折叠语法
func RoleReveal(seats []Seat) string {
	mafia := make([]string, 0, 3)
	for _, s := range seats {
		if s.Position <= 3 {
			mafia = append(mafia, s.Name)
		}
	}

	cop := SeatByPosition(seats, 4)
	medic := SeatByPosition(seats, 5)
	vigi := SeatByPosition(seats, 6)

	lines := []string{
		fmt.Sprintf("Mafia: ||%s||", strings.Join(mafia, ", ")),
		fmt.Sprintf("Cop: ||%s||", cop.Name),
		fmt.Sprintf("Medic: ||%s||", medic.Name),
		fmt.Sprintf("Vigi: ||%s||", vigi.Name),
	}

	return strings.Join(lines, "\n")
}

// NightOutput 生成第 n 夜的行动汇报文本，主持人直接复制发出。
// 击杀目标去重但保持顺序；义警没开枪也要汇报收枪；
// 例行事件数为 0 时整行省略
func NightOutput(nights []NightAction, n int) string {
	if n < 0 || n >= len(nights) {
		return ""
	}

	nd := nights[n]

	var b strings.Builder

	kills := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)
	for _, kill := range nd.MafKills {
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
		fmt.Fprintf(&b, "mafia: ||killed %s||\n", strings.Join(kills, ", "))
	}

	if nd.CopCheck != "" {
		prev := prevCopCheck(nights, n)
		if nd.Night > 0 && nd.CopResult != "" && prev != "" {
			fmt.Fprintf(&b, "cop: ||check %s - %s to %s||\n", nd.CopCheck, nd.CopResult, prev)
		} else {
			fmt.Fprintf(&b, "cop: ||check %s||\n", nd.CopCheck)
		}
	}

	if nd.MedicSave != "" {
		fmt.Fprintf(&b, "medic: ||saved %s||\n", nd.MedicSave)
	}

	if nd.VigiTarget != "" {
		fmt.Fprintf(&b, "vigi: ||shot %s||\n", nd.VigiTarget)
	} else {
		b.WriteString("vigi: ||holstered||\n")
	}

	if nd.RNGs > 0 {
		fmt.Fprintf(&b, "rngs: %d", nd.RNGs)
	}

	return strings.TrimRight(b.String(), "\n")
}
