package game

// 某个夜晚当前可用的行动范围，驱动 UI 的禁用逻辑。
// 全部由分配和行动记录推导出来，不单独存储
type NightConstraints struct {
	Night int `json:"night"`

	MafKill1 bool `json:"maf_kill_1"`
	MafKill2 bool `json:"maf_kill_2"`
	Cop      bool `json:"cop"`
	Medic    bool `json:"medic"`
	Vigi     bool `json:"vigi"`

	// 义警的唯一一枪已经在别的夜晚打出
	VigiSpent bool `json:"vigi_spent"`

	// 这一夜开始前已经死亡的玩家，任何行动都不能指向他们
	Dead []string `json:"dead"`
	// 警察之前已经查验过、不能重复查验的目标
	CopBlocked []string `json:"cop_blocked"`
	// 医生上一夜救过、不能连续救的目标
	MedicBlocked string `json:"medic_blocked,omitempty"`
}

func aliveMafiaCount(seats []Seat, dead map[string]struct{}) int {
	count := 0

	for _, s := range seats {
		if s.Role != ROLE_MAFIA || s.IsGhost {
			continue
		}
		if _, isDead := dead[s.Name]; !isDead {
			count++
		}
	}

	return count
}

func holderDead(holder *Seat, dead map[string]struct{}) bool {
	if holder == nil || holder.IsGhost {
		// 该身份本来就没有真人，视同不可用
		return true
	}

	_, isDead := dead[holder.Name]
	return isDead
}

func vigiShotBefore(nights []NightAction, exceptNight int) bool {
	for _, nd := range nights {
		if nd.Night == exceptNight {
			continue
		}
		if nd.VigiTarget != "" {
			return true
		}
	}

	return false
}

// ConstraintsForNight 推导第 n 夜的可用行动。
// 规则来自线下局的主持惯例：
//   - 第 0 夜：13 人局没有刀，15 人局才开双刀；没有义警枪；
//     13 人局医生也不出动
//   - 双刀只在三名黑手党都存活时可用
//   - 警察不重复查验，医生不连续救同一人，义警全场一枪
//   - 身份持有者死亡后对应行动消失
func ConstraintsForNight(seats []Seat, nights []NightAction, dayVotes map[int]string, n int) NightConstraints {
	dead := DeadBeforeNight(nights, dayVotes, n)
	realCount := len(RealNames(seats))
	aliveMafia := aliveMafiaCount(seats, dead)

	cop := SeatByPosition(seats, 4)
	medic := SeatByPosition(seats, 5)
	vigi := SeatByPosition(seats, 6)

	nc := NightConstraints{Night: n}

	nc.MafKill1 = !(n == 0 && realCount <= 13)
	nc.MafKill2 = aliveMafia >= 3 && !(n == 0 && realCount < 15)

	nc.Cop = !holderDead(cop, dead)
	nc.Medic = !(n == 0 && realCount <= 13) && !holderDead(medic, dead)

	nc.VigiSpent = vigiShotBefore(nights, n)
	nc.Vigi = n > 0 && !holderDead(vigi, dead) && !nc.VigiSpent

	nc.Dead = make([]string, 0, len(dead))
	for _, s := range seats {
		if s.IsGhost {
			continue
		}
		if _, isDead := dead[s.Name]; isDead {
			nc.Dead = append(nc.Dead, s.Name)
		}
	}

	nc.CopBlocked = make([]string, 0)
	for i := 0; i < n && i < len(nights); i++ {
		if nights[i].CopCheck != "" {
			nc.CopBlocked = append(nc.CopBlocked, nights[i].CopCheck)
		}
	}

	if n > 0 && n-1 < len(nights) {
		nc.MedicBlocked = nights[n-1].MedicSave
	}

	return nc
}

// NormalizeActions 在每次编辑后重新核对所有夜晚的行动，
// 清掉已经非法的选择（目标死亡、行动不再可用、约束被打破），
// 再重算警察的查验结果。改名、改投票都可能让后续夜晚失效，
// 所以从头到尾整体过一遍
func NormalizeActions(seats []Seat, nights []NightAction, dayVotes map[int]string) {
	for n := range nights {
		nd := &nights[n]

		nc := ConstraintsForNight(seats, nights, dayVotes, n)
		dead := DeadBeforeNight(nights, dayVotes, n)

		if !nc.MafKill1 {
			nd.MafKills[0] = ""
		}
		if !nc.MafKill2 {
			nd.MafKills[1] = ""
		}
		if !nc.Cop {
			nd.CopCheck = ""
		}
		if !nc.Medic {
			nd.MedicSave = ""
		}
		if n == 0 {
			nd.VigiTarget = ""
		}

		// 死人不能再成为目标
		for i, kill := range nd.MafKills {
			if kill != "" {
				if _, isDead := dead[kill]; isDead {
					nd.MafKills[i] = ""
				}
			}
		}
		if nd.CopCheck != "" {
			if _, isDead := dead[nd.CopCheck]; isDead {
				nd.CopCheck = ""
			}
		}
		if nd.MedicSave != "" {
			if _, isDead := dead[nd.MedicSave]; isDead {
				nd.MedicSave = ""
			}
		}
		if nd.VigiTarget != "" {
			if _, isDead := dead[nd.VigiTarget]; isDead {
				nd.VigiTarget = ""
			}
		}

		// 警察不重复查验
		for _, blocked := range nc.CopBlocked {
			if nd.CopCheck == blocked {
				nd.CopCheck = ""
			}
		}

		// 医生不连续救同一人
		if nc.MedicBlocked != "" && nd.MedicSave == nc.MedicBlocked {
			nd.MedicSave = ""
		}

		// 白天的放逐目标如果在投票前已死，清掉这一票
		if n > 0 {
			if v := dayVotes[n]; v != "" {
				dayDead := DeadBeforeDay(nights, dayVotes, n)
				if _, isDead := dayDead[v]; isDead {
					delete(dayVotes, n)
				}
			}
		}
	}

	// 义警全场一枪：保留最早的那一枪，后面的清掉
	shot := false
	for n := range nights {
		if nights[n].VigiTarget == "" {
			continue
		}
		if shot {
			nights[n].VigiTarget = ""
		} else {
			shot = true
		}
	}

	RecalculateCopResults(seats, nights)
}
