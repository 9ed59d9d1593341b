package game

import "testing"

func TestCopResultForNight(t *testing.T) {
	seats := builtSeats(t)

	nights := []NightAction{
		{Night: 0, CopCheck: "Alice"}, // 黑手党
		{Night: 1, CopCheck: "Grace"}, // 平民
		{Night: 2, CopCheck: "Bob"},   // 黑手党
	}

	if got := CopResultForNight(seats, nights, 0); got != "" {
		t.Fatalf("night 0 has nothing to compare against, got %q", got)
	}
	if got := CopResultForNight(seats, nights, 1); got != COP_RESULT_DIFFERENT {
		t.Fatalf("town after mafia should be DIFFERENT, got %q", got)
	}
	if got := CopResultForNight(seats, nights, 2); got != COP_RESULT_DIFFERENT {
		t.Fatalf("mafia after town should be DIFFERENT, got %q", got)
	}

	nights[2].CopCheck = "Heidi"
	if got := CopResultForNight(seats, nights, 2); got != COP_RESULT_SAME {
		t.Fatalf("town after town should be SAME, got %q", got)
	}
}

func TestCopResultForNight_SkipsEmptyNights(t *testing.T) {
	seats := builtSeats(t)

	nights := []NightAction{
		{Night: 0, CopCheck: "Alice"},
		{Night: 1}, // 警察这一夜没有查验
		{Night: 2, CopCheck: "Bob"},
	}

	// 第 2 夜和最近一次（第 0 夜）比较
	if got := CopResultForNight(seats, nights, 2); got != COP_RESULT_SAME {
		t.Fatalf("mafia after mafia should be SAME, got %q", got)
	}
}

func TestRoleReveal(t *testing.T) {
	seats := builtSeats(t)

	want := "Mafia: ||Alice, Bob, Carol||\n" +
		"Cop: ||Dave||\n" +
		"Medic: ||Erin||\n" +
		"Vigi: ||Frank||"

	if got := RoleReveal(seats); got != want {
		t.Fatalf("role reveal mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestNightOutput_FullNight(t *testing.T) {
	seats := builtSeats(t)

	nights := []NightAction{
		{Night: 0, CopCheck: "Alice"},
		{
			Night:      1,
			MafKills:   [2]string{"Grace", "Grace"}, // 重复目标去重
			CopCheck:   "Heidi",
			MedicSave:  "Ivan",
			VigiTarget: "Judy",
			RNGs:       2,
		},
	}
	RecalculateCopResults(seats, nights)

	want := "mafia: ||killed Grace||\n" +
		"cop: ||check Heidi - DIFFERENT to Alice||\n" +
		"medic: ||saved Ivan||\n" +
		"vigi: ||shot Judy||\n" +
		"rngs: 2"

	if got := NightOutput(nights, 1); got != want {
		t.Fatalf("night output mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestNightOutput_QuietNight(t *testing.T) {
	nights := []NightAction{{Night: 0}}

	// 什么都没发生也要汇报义警收枪；rngs 为 0 整行省略
	if got := NightOutput(nights, 0); got != "vigi: ||holstered||" {
		t.Fatalf("quiet night output mismatch, got %q", got)
	}
}
