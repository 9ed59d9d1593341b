package game

import (
	"errors"
	"testing"
)

func fullRoleMap() RoleMap {
	return RoleMap{
		"Alice": ROLE_MAFIA,
		"Bob":   ROLE_MAFIA,
		"Carol": ROLE_MAFIA,
		"Dave":  SPECIAL_COP,
		"Erin":  SPECIAL_MEDIC,
		"Frank": SPECIAL_VIGILANTE,
	}
}

func TestBuildAssignments_FullRoleMap(t *testing.T) {
	seats, err := BuildAssignments(thirteenNames(), fullRoleMap())
	if err != nil {
		t.Fatalf("build should succeed, got: %v", err)
	}

	if len(seats) != TOTAL_SEATS {
		t.Fatalf("want %d seats, got %d", TOTAL_SEATS, len(seats))
	}

	// 黑手党按名单顺序占 1-3 号位
	wantMafia := []string{"Alice", "Bob", "Carol"}
	for i, want := range wantMafia {
		if seats[i].Name != want || seats[i].Role != ROLE_MAFIA {
			t.Fatalf("position %d want mafia %q, got %+v", i+1, want, seats[i])
		}
	}

	if s := SeatByPosition(seats, 4); s.Name != "Dave" || s.SpecialRole != SPECIAL_COP {
		t.Fatalf("position 4 should be the cop Dave, got %+v", s)
	}
	if s := SeatByPosition(seats, 5); s.Name != "Erin" || s.SpecialRole != SPECIAL_MEDIC {
		t.Fatalf("position 5 should be the medic Erin, got %+v", s)
	}
	if s := SeatByPosition(seats, 6); s.Name != "Frank" || s.SpecialRole != SPECIAL_VIGILANTE {
		t.Fatalf("position 6 should be the vigilante Frank, got %+v", s)
	}

	// 平民按输入顺序从 7 号位排起
	if s := SeatByPosition(seats, 7); s.Name != "Grace" {
		t.Fatalf("position 7 want Grace, got %q", s.Name)
	}

	// 13 人局最后两个座位是幽灵
	ghosts := 0
	for _, s := range seats {
		if s.IsGhost {
			ghosts++
		}
	}
	if ghosts != 2 {
		t.Fatalf("want 2 ghosts, got %d", ghosts)
	}
}

func TestBuildAssignments_UnassignedSpecialBecomesGhost(t *testing.T) {
	roles := fullRoleMap()
	delete(roles, "Erin") // 没有医生

	// Erin 变成平民后后排正好放得下
	seats, err := BuildAssignments(thirteenNames(), roles)
	if err != nil {
		t.Fatalf("build should succeed, got: %v", err)
	}

	medicSeat := SeatByPosition(seats, 5)
	if !medicSeat.IsGhost || medicSeat.Name != GHOST_NAME {
		t.Fatalf("unassigned medic position should hold a ghost, got %+v", medicSeat)
	}

	// Erin 现在是普通平民，仍然要有座位
	found := false
	for _, s := range seats {
		if s.Name == "Erin" {
			found = true
			if s.Position < 7 {
				t.Fatalf("Erin should sit in the town zone, got position %d", s.Position)
			}
		}
	}
	if !found {
		t.Fatalf("Erin lost her seat")
	}
}

func TestBuildAssignments_Deterministic(t *testing.T) {
	first, err := BuildAssignments(thirteenNames(), fullRoleMap())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	second, _ := BuildAssignments(thirteenNames(), fullRoleMap())

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("manual build must be deterministic, diverged at position %d", i+1)
		}
	}
}

func TestBuildAssignments_TownOverflow(t *testing.T) {
	// 13 人只指派一个黑手党，后排放不下 12 个平民
	_, err := BuildAssignments(thirteenNames(), RoleMap{"Alice": ROLE_MAFIA})

	var cvErr *ConstraintViolationError
	if !errors.As(err, &cvErr) {
		t.Fatalf("want ConstraintViolationError, got: %v", err)
	}
}

func TestRoleMap_CycleSkipsFullRoles(t *testing.T) {
	rm := RoleMap{
		"Alice": ROLE_MAFIA,
		"Bob":   ROLE_MAFIA,
		"Carol": ROLE_MAFIA,
	}

	// 黑手党已满，Dave 直接轮到警察
	if got := rm.Cycle("Dave"); got != SPECIAL_COP {
		t.Fatalf("cycle should skip the full mafia slot, got %s", got)
	}

	// 再轮：医生、义警，最后回到平民
	if got := rm.Cycle("Dave"); got != SPECIAL_MEDIC {
		t.Fatalf("want Medic, got %s", got)
	}
	if got := rm.Cycle("Dave"); got != SPECIAL_VIGILANTE {
		t.Fatalf("want Vigilante, got %s", got)
	}
	if got := rm.Cycle("Dave"); got != ROLE_TOWN {
		t.Fatalf("want Town, got %s", got)
	}

	if _, ok := rm["Dave"]; ok {
		t.Fatalf("town players should not appear in the role map")
	}
}

func TestRoleMap_ValidateQuota(t *testing.T) {
	rm := RoleMap{
		"Alice": ROLE_MAFIA,
		"Bob":   ROLE_MAFIA,
		"Carol": ROLE_MAFIA,
		"Dave":  ROLE_MAFIA,
	}

	if err := rm.Validate(thirteenNames()); err == nil {
		t.Fatalf("4 mafia should be rejected")
	}

	rm = RoleMap{"Zed": SPECIAL_COP}
	if err := rm.Validate(thirteenNames()); err == nil {
		t.Fatalf("unknown player in role map should be rejected")
	}
}
