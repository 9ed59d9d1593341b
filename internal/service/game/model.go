package game

// 阵营
const (
	ROLE_MAFIA = "Mafia"
	ROLE_TOWN  = "Town"
)

// 特殊身份，分别固定占据 4、5、6 号位
const (
	SPECIAL_COP       = "Cop"
	SPECIAL_MEDIC     = "Medic"
	SPECIAL_VIGILANTE = "Vigilante"
)

// 幽灵占位名，凑不满 15 人时填充空位
const GHOST_NAME = "Ghost"

// 一局游戏固定 15 个座位
const TOTAL_SEATS = 15

// 真实玩家数量的上下限
const (
	MIN_PLAYERS = 13
	MAX_PLAYERS = 15
)

// 一局最多记录到第 7 夜（从第 0 夜起共 8 夜）
const MAX_NIGHTS = 8

// 座位分配结果。创建之后只允许改名，
// 位置、阵营和幽灵标记都不会再变化
type Seat struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	IsGhost     bool   `json:"is_ghost"`
	SpecialRole string `json:"special_role,omitempty"`
}

// 每天的例行事件数量，和座位分配无关，开局生成一次
type FormalEntry struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// 一个夜晚的行动记录
type NightAction struct {
	Night      int       `json:"night"`
	MafKills   [2]string `json:"maf_kills"`
	CopCheck   string    `json:"cop_check"`
	CopResult  string    `json:"cop_result,omitempty"`
	MedicSave  string    `json:"medic_save"`
	VigiTarget string    `json:"vigi_target"`
	RNGs       int       `json:"rngs"`
}

// 手动模式下从玩家名到身份的映射，没有出现的玩家视为平民
type RoleMap map[string]string

// 每种身份允许的最大人数
var roleLimits = map[string]int{
	ROLE_MAFIA:        3,
	SPECIAL_COP:       1,
	SPECIAL_MEDIC:     1,
	SPECIAL_VIGILANTE: 1,
}

// 身份轮换顺序，Cycle 按这个顺序推进
var roleCycleOrder = []string{
	ROLE_MAFIA,
	SPECIAL_COP,
	SPECIAL_MEDIC,
	SPECIAL_VIGILANTE,
}

func (rm RoleMap) Count(role string) int {
	count := 0

	for _, r := range rm {
		if r == role {
			count++
		}
	}

	return count
}

// Cycle 把玩家切换到下一个可用的身份，满员的身份会被跳过。
// 非法状态（第 4 个黑手党之类）在这里就无法产生，
// 调用方不需要事后校验
func (rm RoleMap) Cycle(name string) string {
	current := rm[name]

	// 找到当前身份在顺序中的位置，-1 表示平民
	idx := -1
	for i, r := range roleCycleOrder {
		if r == current {
			idx = i
			break
		}
	}

	for step := idx + 1; step < len(roleCycleOrder); step++ {
		next := roleCycleOrder[step]

		occupied := rm.Count(next)
		if current == next {
			occupied--
		}

		if occupied < roleLimits[next] {
			rm[name] = next
			return next
		}
	}

	// 轮换回平民
	delete(rm, name)

	return ROLE_TOWN
}

// Validate 检查身份映射是否超出配额、是否指向名单之外的玩家
func (rm RoleMap) Validate(names []string) error {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	for name, role := range rm {
		if _, ok := known[name]; !ok {
			return &ConstraintViolationError{
				Reason: "身份映射指向了名单之外的玩家: " + name,
			}
		}

		limit, ok := roleLimits[role]
		if !ok {
			return &ConstraintViolationError{
				Reason: "未知的身份: " + role,
			}
		}

		if rm.Count(role) > limit {
			return &ConstraintViolationError{
				Reason: "身份 " + role + " 的人数超出配额",
			}
		}
	}

	return nil
}

// RealNames 返回所有非幽灵座位上的玩家名，保持座位顺序
func RealNames(seats []Seat) []string {
	names := make([]string, 0, len(seats))

	for _, s := range seats {
		if !s.IsGhost {
			names = append(names, s.Name)
		}
	}

	return names
}

// SeatByPosition 按位置查找座位，位置从 1 开始
func SeatByPosition(seats []Seat, position int) *Seat {
	for i := range seats {
		if seats[i].Position == position {
			return &seats[i]
		}
	}

	return nil
}
