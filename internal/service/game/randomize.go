package game

import "math"

// 随机源，返回 [0,1) 上的独立均匀随机数。
// 具体实现由调用方注入（远程预取池或本地生成器），
// 这里不关心随机数从哪来
type RandSource interface {
	Float64() float64
}

// Fisher–Yates 洗牌，随机数全部来自注入的随机源
func shuffleNames(names []string, src RandSource) {
	for i := len(names) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		names[i], names[j] = names[j], names[i]
	}
}

// Randomize 对校验过的名单（13-15 人）做纯随机分配。
// 布局固定为三个区域：
//   - 1-3 号位：黑手党，只能是真实玩家
//   - 4-6 号位：平民（特殊身份区），最多落入一个幽灵
//   - 7-15 号位：平民，剩余玩家和幽灵
//
// 相同的随机数序列产生相同的结果
func Randomize(names []string, src RandSource) []Seat {
	numGhosts := TOTAL_SEATS - len(names)

	real := make([]string, len(names))
	copy(real, names)
	shuffleNames(real, src)

	mafia := make([]string, 3)
	copy(mafia, real[:3])
	remaining := real[3:]

	// 4-6 号位落入的幽灵数量：一次抽取取整到 0 或 1，再被总数钳制。
	// 幽灵在特殊身份区是小概率事件，但并不被完全禁止
	ghostsInZone2 := int(math.Round(src.Float64()))
	if ghostsInZone2 > numGhosts {
		ghostsInZone2 = numGhosts
	}
	ghostsInZone3 := numGhosts - ghostsInZone2

	zone2RealCount := 3 - ghostsInZone2
	zone2 := make([]string, 0, 3)
	zone2 = append(zone2, remaining[:zone2RealCount]...)
	for i := 0; i < ghostsInZone2; i++ {
		zone2 = append(zone2, GHOST_NAME)
	}
	shuffleNames(zone2, src)

	zone3 := make([]string, 0, 9)
	zone3 = append(zone3, remaining[zone2RealCount:]...)
	for i := 0; i < ghostsInZone3; i++ {
		zone3 = append(zone3, GHOST_NAME)
	}
	shuffleNames(zone3, src)

	// 黑手党内部再洗一次位置顺序，避免初始洗牌的切片顺序带来位置偏差
	shuffleNames(mafia, src)

	seats := make([]Seat, 0, TOTAL_SEATS)

	for i, name := range mafia {
		seats = append(seats, Seat{
			Position: i + 1,
			Name:     name,
			Role:     ROLE_MAFIA,
		})
	}

	// 特殊身份绑定位置：4 号警察、5 号医生、6 号义警
	zone2Specials := []string{SPECIAL_COP, SPECIAL_MEDIC, SPECIAL_VIGILANTE}

	for i, name := range zone2 {
		seats = append(seats, Seat{
			Position:    i + 4,
			Name:        name,
			Role:        ROLE_TOWN,
			IsGhost:     name == GHOST_NAME,
			SpecialRole: zone2Specials[i],
		})
	}

	for i, name := range zone3 {
		seats = append(seats, Seat{
			Position: i + 7,
			Name:     name,
			Role:     ROLE_TOWN,
			IsGhost:  name == GHOST_NAME,
		})
	}

	return seats
}

// RandomizeFormals 生成 8 天的例行事件表，
// 每天独立抽取 {0,1,2} 中的一个数
func RandomizeFormals(src RandSource) []FormalEntry {
	formals := make([]FormalEntry, 0, 8)

	for day := 1; day <= 8; day++ {
		formals = append(formals, FormalEntry{
			Day:   day,
			Count: int(src.Float64() * 3),
		})
	}

	return formals
}
