package game

import "testing"

// 3 黑手党 + 12 平民的标准开局
func standardSeats() []Seat {
	seats := Randomize(append(thirteenNames(), "Peggy", "Quentin"), &lcgSource{state: 11})
	return seats
}

func TestCheckWinCondition_NoWinnerAtStart(t *testing.T) {
	seats := standardSeats()

	if got := CheckWinCondition(seats, nil, nil); got != nil {
		t.Fatalf("3 mafia vs 12 town should have no winner, got %+v", got)
	}
}

func TestCheckWinCondition_TownWinsWhenMafiaDead(t *testing.T) {
	seats := standardSeats()

	votes := map[int]string{
		1: seats[0].Name,
		2: seats[1].Name,
		3: seats[2].Name,
	}

	got := CheckWinCondition(seats, nil, votes)
	if got == nil || got.Winner != ROLE_TOWN {
		t.Fatalf("all mafia dead should be a town win, got %+v", got)
	}
	if got.AliveMafia != 0 {
		t.Fatalf("want 0 alive mafia, got %d", got.AliveMafia)
	}
}

func TestCheckWinCondition_MafiaWinsTies(t *testing.T) {
	seats := standardSeats()

	// 杀掉 1 个黑手党和 10 个平民，剩 2v2
	votes := map[int]string{1: seats[0].Name}

	town := make([]string, 0)
	for _, s := range seats {
		if s.Role == ROLE_TOWN && !s.IsGhost {
			town = append(town, s.Name)
		}
	}

	nights := make([]NightAction, 0)
	for i := 0; i < 5; i++ {
		nights = append(nights, NightAction{
			Night:    i,
			MafKills: [2]string{town[2*i], town[2*i+1]},
		})
	}

	got := CheckWinCondition(seats, nights, votes)
	if got == nil || got.Winner != ROLE_MAFIA {
		t.Fatalf("2v2 should be a mafia win (ties go to mafia), got %+v", got)
	}
	if got.AliveMafia != 2 || got.AliveTown != 2 {
		t.Fatalf("want 2v2, got %dv%d", got.AliveMafia, got.AliveTown)
	}
}

func TestCheckWinCondition_MedicSaveCancelsMafiaKill(t *testing.T) {
	seats := standardSeats()
	target := ""
	for _, s := range seats {
		if s.Role == ROLE_TOWN && !s.IsGhost {
			target = s.Name
			break
		}
	}

	nights := []NightAction{
		{Night: 0},
		{
			Night:     1,
			MafKills:  [2]string{target, ""},
			MedicSave: target,
		},
	}

	dead := DeadSet(nights, nil)
	if _, isDead := dead[target]; isDead {
		t.Fatalf("medic save on the kill target should cancel the kill")
	}
}

func TestCheckWinCondition_MedicSaveNeverCancelsVigiKill(t *testing.T) {
	seats := standardSeats()
	target := ""
	for _, s := range seats {
		if s.Role == ROLE_TOWN && !s.IsGhost {
			target = s.Name
			break
		}
	}

	nights := []NightAction{
		{Night: 0},
		{
			Night:      1,
			VigiTarget: target,
			MedicSave:  target,
		},
	}

	dead := DeadSet(nights, nil)
	if _, isDead := dead[target]; !isDead {
		t.Fatalf("a save must not cancel a vigilante kill")
	}
}

func TestCheckWinCondition_GhostsExcluded(t *testing.T) {
	// 13 人局：2 个幽灵不参与任何一方的计数
	seats := Randomize(thirteenNames(), &lcgSource{state: 3})

	got := CheckWinCondition(seats, nil, nil)
	if got != nil {
		t.Fatalf("fresh 13-player game should have no winner, got %+v", got)
	}

	// 杀到 3v3：黑手党立即获胜，幽灵不算在平民里
	town := make([]string, 0)
	for _, s := range seats {
		if s.Role == ROLE_TOWN && !s.IsGhost {
			town = append(town, s.Name)
		}
	}

	nights := make([]NightAction, 0)
	for i := 0; i < 3; i++ {
		nights = append(nights, NightAction{
			Night:    i,
			MafKills: [2]string{town[2*i], town[2*i+1]},
		})
	}
	votes := map[int]string{1: town[6]}

	result := CheckWinCondition(seats, nights, votes)
	if result == nil || result.Winner != ROLE_MAFIA {
		t.Fatalf("3v3 should be a mafia win, got %+v", result)
	}
}

func TestDeadBeforeNightAndDay(t *testing.T) {
	nights := []NightAction{
		{Night: 0, MafKills: [2]string{"Alice", ""}},
		{Night: 1, MafKills: [2]string{"Bob", ""}},
	}
	votes := map[int]string{1: "Carol"}

	before1 := DeadBeforeNight(nights, votes, 1)
	if _, ok := before1["Alice"]; !ok {
		t.Fatalf("Alice died on night 0, must be dead before night 1")
	}
	if _, ok := before1["Carol"]; !ok {
		t.Fatalf("Carol was voted out on day 1, must be dead before night 1")
	}
	if _, ok := before1["Bob"]; ok {
		t.Fatalf("Bob dies on night 1, not before it")
	}

	beforeDay1 := DeadBeforeDay(nights, votes, 1)
	if _, ok := beforeDay1["Alice"]; !ok {
		t.Fatalf("Alice must be dead before day 1")
	}
	if _, ok := beforeDay1["Carol"]; ok {
		t.Fatalf("Carol is voted out on day 1 itself, not before it")
	}
}
