package game

// BuildAssignments 按身份映射构造确定性的座位分配（手动/补录模式）。
// 主持人在录入一局已经打完或排好的游戏，所以这里没有任何随机：
// 黑手党按名单顺序占 1..k 号位，警察/医生/义警固定在 4/5/6 号位
// （没有指派则该位置放幽灵），其余玩家按顺序从 7 号位排起，
// 不够 15 个的座位用幽灵补齐
func BuildAssignments(names []string, roles RoleMap) ([]Seat, error) {
	if roles == nil {
		roles = RoleMap{}
	}

	if err := roles.Validate(names); err != nil {
		return nil, err
	}

	mafia := make([]string, 0, 3)
	town := make([]string, 0, len(names))
	specials := map[string]string{}

	for _, n := range names {
		switch roles[n] {
		case ROLE_MAFIA:
			mafia = append(mafia, n)
		case SPECIAL_COP, SPECIAL_MEDIC, SPECIAL_VIGILANTE:
			specials[roles[n]] = n
		default:
			town = append(town, n)
		}
	}

	// 7-15 号位一共 9 个座位
	if len(town) > 9 {
		return nil, &ConstraintViolationError{
			Reason: "平民玩家数量超过后排座位数，请先指派完整的身份",
		}
	}

	seats := make([]Seat, 0, TOTAL_SEATS)

	for pos := 1; pos <= 3; pos++ {
		if pos <= len(mafia) {
			seats = append(seats, Seat{
				Position: pos,
				Name:     mafia[pos-1],
				Role:     ROLE_MAFIA,
			})
		} else {
			seats = append(seats, Seat{
				Position: pos,
				Name:     GHOST_NAME,
				Role:     ROLE_MAFIA,
				IsGhost:  true,
			})
		}
	}

	specialOrder := []string{SPECIAL_COP, SPECIAL_MEDIC, SPECIAL_VIGILANTE}

	for i, role := range specialOrder {
		pos := i + 4

		if name, ok := specials[role]; ok {
			seats = append(seats, Seat{
				Position:    pos,
				Name:        name,
				Role:        ROLE_TOWN,
				SpecialRole: role,
			})
		} else {
			// 该身份没有指派给任何人，位置由幽灵占据
			seats = append(seats, Seat{
				Position: pos,
				Name:     GHOST_NAME,
				Role:     ROLE_TOWN,
				IsGhost:  true,
			})
		}
	}

	for i := 0; i < 9; i++ {
		pos := i + 7

		if i < len(town) {
			seats = append(seats, Seat{
				Position: pos,
				Name:     town[i],
				Role:     ROLE_TOWN,
			})
		} else {
			seats = append(seats, Seat{
				Position: pos,
				Name:     GHOST_NAME,
				Role:     ROLE_TOWN,
				IsGhost:  true,
			})
		}
	}

	return seats, nil
}
