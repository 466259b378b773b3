package main

import "testing"

func TestPlayerSpawnsAtMapSpawn(t *testing.T) {
	m := GetMap("arena")
	p := NewPlayer("p1", "Tester", m)
	if p.X != m.SpawnX || p.Y != m.SpawnY {
		t.Errorf("player should spawn at (%v,%v), got (%v,%v)", m.SpawnX, m.SpawnY, p.X, p.Y)
	}
	if p.HP != PlayerMaxHP {
		t.Errorf("player should spawn at full hp, got %v", p.HP)
	}
}

func TestPlayerBoundsClamp(t *testing.T) {
	m := GetMap("arena")
	p := NewPlayer("p1", "Tester", m)
	p.X = m.Width - 1
	p.VX = 1000

	p.Update(0.1, m)
	if p.X > m.Width-p.Radius {
		t.Errorf("player must stay inside the right edge, X=%v", p.X)
	}

	p.X = 1
	p.VX = -1000
	p.Update(0.1, m)
	if p.X < p.Radius {
		t.Errorf("player must stay inside the left edge, X=%v", p.X)
	}
}

func TestPlayerWallSnap(t *testing.T) {
	m := GetMap("pillars")
	p := NewPlayer("p1", "Tester", m)
	w := m.Walls[0]

	// Approach the wall from the left; the snap should land the player
	// on the wall's left expanded edge
	p.X = w.X - p.Radius - 1
	p.Y = w.Y + w.H/2
	p.VX = 300
	p.VY = 0
	p.Update(1.0/TickRate, m)

	if p.X != w.X-p.Radius {
		t.Errorf("expected snap to left edge %v, got %v", w.X-p.Radius, p.X)
	}
	if p.Y != w.Y+w.H/2 {
		t.Errorf("Y should be untouched by a left-edge snap, got %v", p.Y)
	}
}

func TestPlayerDeadDoesNotMove(t *testing.T) {
	m := GetMap("arena")
	p := NewPlayer("p1", "Tester", m)
	p.MarkDead()
	x, y := p.X, p.Y

	p.VX = 100
	p.Update(1.0, m)
	if p.X != x || p.Y != y {
		t.Error("dead player must not integrate movement")
	}
}

func TestPlayerTakeDamageAndHeal(t *testing.T) {
	m := GetMap("arena")
	p := NewPlayer("p1", "Tester", m)

	if p.TakeDamage(30) {
		t.Error("30 damage should not kill")
	}
	if p.HP != 70 {
		t.Errorf("expected hp 70, got %v", p.HP)
	}

	p.Heal(100)
	if p.HP != p.MaxHP {
		t.Errorf("heal should cap at max hp, got %v", p.HP)
	}

	if !p.TakeDamage(200) {
		t.Error("lethal damage should report the death")
	}
	if p.TakeDamage(10) {
		t.Error("a downed player should not die twice")
	}
}

func TestPlayerRespawn(t *testing.T) {
	m := GetMap("arena")
	p := NewPlayer("p1", "Tester", m)
	p.TakeDamage(200)
	p.MarkDead()
	p.Streak = 7

	p.RespawnAt(100, 200)
	if p.Dead {
		t.Error("respawn should clear the dead flag")
	}
	if p.HP != p.MaxHP {
		t.Errorf("respawn should restore hp, got %v", p.HP)
	}
	if p.X != 100 || p.Y != 200 {
		t.Error("respawn position mismatch")
	}
	if p.Streak != 0 {
		t.Error("respawn should reset the kill streak")
	}
}
