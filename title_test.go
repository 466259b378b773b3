package main

import "testing"

func TestFirstBloodUnlocksOnce(t *testing.T) {
	reg := NewRegistry(nil, nil)
	fc := &fakeClient{}
	r, p, err := reg.Join("r1", ModeCoop, "", "Alice", false, 0, "", fc)
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	p.Kills = 1
	r.checkTitles(p, 0, false)
	if !p.Unlocks["first_blood"] {
		t.Fatal("first kill should unlock first_blood")
	}

	count := 0
	for _, env := range fc.msgs {
		if env.T == MsgTitle {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one title notification, got %d", count)
	}

	// Re-checking must not re-announce
	r.checkTitles(p, 0, false)
	count = 0
	for _, env := range fc.msgs {
		if env.T == MsgTitle {
			count++
		}
	}
	if count != 1 {
		t.Errorf("title must unlock at most once, got %d notifications", count)
	}
}

func TestWaveTitles(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")

	r.checkTitles(p, 4, false)
	if p.Unlocks["survivor"] {
		t.Error("survivor requires wave 5")
	}
	r.checkTitles(p, 10, false)
	if !p.Unlocks["survivor"] || !p.Unlocks["veteran"] {
		t.Error("wave 10 should unlock survivor and veteran")
	}
	if p.Unlocks["warlord"] {
		t.Error("warlord requires wave 20")
	}
}

func TestStreakAndLevelTitles(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")

	p.Streak = 10
	p.Level = 25
	r.checkTitles(p, 0, false)
	for _, id := range []string{"rampage", "bossbane", "elite"} {
		if !p.Unlocks[id] {
			t.Errorf("expected %s to unlock", id)
		}
	}
	if p.Unlocks["unstoppable"] || p.Unlocks["legend"] {
		t.Error("higher tiers must stay locked")
	}
}

func TestUntouchableRequiresCleanWave(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")

	r.checkTitles(p, 3, false)
	if p.Unlocks["untouchable"] {
		t.Error("untouchable needs a death-free wave")
	}
	r.checkTitles(p, 3, true)
	if !p.Unlocks["untouchable"] {
		t.Error("death-free wave clear should unlock untouchable")
	}
}
