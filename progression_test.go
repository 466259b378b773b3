package main

import "testing"

func TestXPCurve(t *testing.T) {
	if XPForLevel(1) != 0 {
		t.Errorf("level 1 requires 0 xp, got %d", XPForLevel(1))
	}
	if XPForLevel(2) != 100 {
		t.Errorf("level 2 requires 100 xp, got %d", XPForLevel(2))
	}
	prev := 0
	for lvl := 2; lvl <= 20; lvl++ {
		cur := XPForLevel(lvl)
		if cur <= prev {
			t.Fatalf("curve must be strictly increasing, level %d: %d <= %d", lvl, cur, prev)
		}
		prev = cur
	}
	if XPToNextLevel(1) != 100 {
		t.Errorf("level 1 -> 2 should cost 100, got %d", XPToNextLevel(1))
	}
}

func TestCalculateLevelRoundtrip(t *testing.T) {
	for lvl := 1; lvl <= 30; lvl++ {
		need := XPForLevel(lvl)
		if got := CalculateLevel(need); got != lvl {
			t.Errorf("exactly %d xp should be level %d, got %d", need, lvl, got)
		}
		if lvl > 1 {
			if got := CalculateLevel(need - 1); got != lvl-1 {
				t.Errorf("one xp short of level %d should be %d, got %d", lvl, lvl-1, got)
			}
		}
	}
	if CalculateLevel(1 << 40) != 100 {
		t.Error("level must cap at 100")
	}
}

func TestGrantXPLevelsUp(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")

	r.grantXP(p, 50, 5)
	if p.Level != 1 {
		t.Errorf("50 xp should stay level 1, got %d", p.Level)
	}
	r.grantXP(p, 60, 5)
	if p.Level != 2 {
		t.Errorf("110 xp should reach level 2, got %d", p.Level)
	}
	if p.Money != 10 {
		t.Errorf("money should accumulate, got %d", p.Money)
	}
}

func TestEnemyKillAwardsScaleWithWave(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")
	r.WaveNum = 3

	e := NewEnemy(EnemyStandard, 3, 300, 300)
	e.HP = 0
	e.killerID = "p1"
	r.onEnemyKilled(e)

	want := KillXPBase + KillXPPerWave*3
	if p.XP != want {
		t.Errorf("expected %d xp for a wave 3 kill, got %d", want, p.XP)
	}
	if p.Kills != 1 || p.Streak != 1 {
		t.Errorf("kill bookkeeping off: kills=%d streak=%d", p.Kills, p.Streak)
	}

	// Second kill in the streak adds the streak bonus
	e2 := NewEnemy(EnemyStandard, 3, 300, 300)
	e2.HP = 0
	e2.killerID = "p1"
	r.onEnemyKilled(e2)
	want += KillXPBase + KillXPPerWave*3 + StreakXPBonus
	if p.XP != want {
		t.Errorf("expected %d xp after the streak kill, got %d", want, p.XP)
	}
}

func TestBossKillBonus(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")
	r.WaveNum = 5

	b := NewBoss(5, 300, 300)
	b.HP = 0
	b.killerID = "p1"
	r.onEnemyKilled(b)

	want := KillXPBase + KillXPPerWave*5 + BossXPBonus
	if p.XP != want {
		t.Errorf("boss kill should pay %d xp, got %d", want, p.XP)
	}
	if p.Money != KillMoneyBase+BossMoneyBonus {
		t.Errorf("boss kill money off, got %d", p.Money)
	}
}

func TestUnattributedKillPaysNothing(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")

	e := NewEnemy(EnemyStandard, 1, 300, 300)
	e.HP = 0
	r.onEnemyKilled(e) // no killerID: environmental death
	if p.XP != 0 || p.Kills != 0 {
		t.Error("kill without attribution must not credit anyone")
	}
}

func TestDeadKillerGetsNoCredit(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")
	p.MarkDead()

	e := NewEnemy(EnemyStandard, 1, 300, 300)
	e.HP = 0
	e.killerID = "p1"
	r.onEnemyKilled(e)
	if p.XP != 0 {
		t.Error("a dead killer must not collect the reward")
	}
}
