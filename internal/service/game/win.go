package game

// 胜负判定结果
type WinResult struct {
	Winner     string `json:"winner"`
	AliveMafia int    `json:"alive_mafia"`
	AliveTown  int    `json:"alive_town"`
}

// addNightKills 把第 index 个夜晚的击杀并入死亡集合。
// 医生的救只抵消当晚黑手党对同一目标的击杀，对义警的枪无效
func addNightKills(dead map[string]struct{}, nights []NightAction, index int) {
	if index < 0 || index >= len(nights) {
		return
	}

	nd := nights[index]

	for _, kill := range nd.MafKills {
		if kill == "" {
			continue
		}
		if kill == nd.MedicSave {
			continue
		}
		dead[kill] = struct{}{}
	}

	if nd.VigiTarget != "" {
		dead[nd.VigiTarget] = struct{}{}
	}
}

// DeadSet 汇总所有夜晚击杀和白天投票放逐的死亡玩家
func DeadSet(nights []NightAction, dayVotes map[int]string) map[string]struct{} {
	dead := make(map[string]struct{})

	for i := range nights {
		addNightKills(dead, nights, i)
	}

	for _, name := range dayVotes {
		if name != "" {
			dead[name] = struct{}{}
		}
	}

	return dead
}

// DeadBeforeNight 返回第 n 夜开始前已经死亡的玩家
// （前 n 个夜晚的击杀，加上第 1..n 天的放逐）
func DeadBeforeNight(nights []NightAction, dayVotes map[int]string, n int) map[string]struct{} {
	dead := make(map[string]struct{})

	for i := 0; i < n && i < len(nights); i++ {
		addNightKills(dead, nights, i)
	}

	for d := 1; d <= n; d++ {
		if name := dayVotes[d]; name != "" {
			dead[name] = struct{}{}
		}
	}

	return dead
}

// DeadBeforeDay 返回第 d 天投票开始前已经死亡的玩家
// （前 d 个夜晚的击杀，加上第 1..d-1 天的放逐）
func DeadBeforeDay(nights []NightAction, dayVotes map[int]string, d int) map[string]struct{} {
	dead := make(map[string]struct{})

	for i := 0; i < d && i < len(nights); i++ {
		addNightKills(dead, nights, i)
	}

	for dd := 1; dd < d; dd++ {
		if name := dayVotes[dd]; name != "" {
			dead[name] = struct{}{}
		}
	}

	return dead
}

// CheckWinCondition 判定当前局面的胜负。
// 纯函数，只依赖分配和行动记录，每次编辑后都会被调用。
// 幽灵不参与双方的计数。
//   - 黑手党全灭 → 平民获胜
//   - 存活黑手党 >= 存活平民 → 黑手党获胜（平票算黑手党赢）
//   - 否则返回 nil，游戏继续
func CheckWinCondition(seats []Seat, nights []NightAction, dayVotes map[int]string) *WinResult {
	if len(seats) == 0 {
		return nil
	}

	dead := DeadSet(nights, dayVotes)

	aliveMafia := 0
	aliveTown := 0

	for _, s := range seats {
		if s.IsGhost {
			continue
		}

		if _, isDead := dead[s.Name]; isDead {
			continue
		}

		if s.Role == ROLE_MAFIA {
			aliveMafia++
		} else {
			aliveTown++
		}
	}

	if aliveMafia == 0 {
		return &WinResult{Winner: ROLE_TOWN, AliveMafia: aliveMafia, AliveTown: aliveTown}
	}

	if aliveMafia >= aliveTown {
		return &WinResult{Winner: ROLE_MAFIA, AliveMafia: aliveMafia, AliveTown: aliveTown}
	}

	return nil
}
