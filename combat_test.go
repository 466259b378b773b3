package main

import (
	"math"
	"testing"
)

func TestDamageChainPowerAura(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")
	shooter.Aura = AuraPower

	pr := NewProjectile("p1", FireMsg{Damage: 10})
	var track hitTracker
	dmg := r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-12.5) > 1e-9 {
		t.Errorf("power aura should multiply 10 to 12.5, got %v", dmg)
	}
}

func TestDamageChainExecuteScalesWithMissingHealth(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")

	pr := NewProjectile("p1", FireMsg{Damage: 10, Execute: 1})
	var track hitTracker
	// Full health target: no bonus
	dmg := r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-10) > 1e-9 {
		t.Errorf("execute at full health should be 10, got %v", dmg)
	}
	// Half health: 10 * (1 + 1*0.5) = 15
	var track2 hitTracker
	dmg = r.rollDamage(shooter, pr, 50, 100, 0, &track2)
	if math.Abs(dmg-15) > 1e-9 {
		t.Errorf("execute at half health should be 15, got %v", dmg)
	}
}

func TestDamageChainShredMultiplier(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")

	pr := NewProjectile("p1", FireMsg{Damage: 10})
	var track hitTracker
	dmg := r.rollDamage(shooter, pr, 100, 100, 0.5, &track)
	if math.Abs(dmg-15) > 1e-9 {
		t.Errorf("0.5 shred should multiply 10 to 15, got %v", dmg)
	}
}

func TestFocusStreakBuildsAndResets(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{Damage: 10, Focus: 0.5})

	var track hitTracker
	r.now = 1.0
	dmg := r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-10) > 1e-9 {
		t.Errorf("first hit streak 0: expected 10, got %v", dmg)
	}

	// Second hit inside the focus window: streak 1 -> x1.5
	r.now = 1.5
	dmg = r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-15) > 1e-9 {
		t.Errorf("second hit in window: expected 15, got %v", dmg)
	}

	// Gap beyond the focus window resets the streak
	r.now = 4.0
	dmg = r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-10) > 1e-9 {
		t.Errorf("streak should reset after idle gap, got %v", dmg)
	}
}

func TestBurstAddendOnlyWhenCold(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{Damage: 10, Burst: 5})

	var track hitTracker
	r.now = 1.0
	dmg := r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-15) > 1e-9 {
		t.Errorf("cold pair should get the burst addend: expected 15, got %v", dmg)
	}

	// Pair is warm now, no addend
	r.now = 2.0
	dmg = r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-10) > 1e-9 {
		t.Errorf("warm pair should not get the addend: expected 10, got %v", dmg)
	}

	// Re-arms after the burst window passes
	r.now = 6.0
	dmg = r.rollDamage(shooter, pr, 100, 100, 0, &track)
	if math.Abs(dmg-15) > 1e-9 {
		t.Errorf("burst should re-arm after the window: expected 15, got %v", dmg)
	}
}

func TestProjectileHitReducesEnemyHP(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	e := NewEnemy(EnemyStandard, 1, 300, 300)
	e.HP = 20
	e.MaxHP = 20
	r.Enemies = append(r.Enemies, e)

	pr := NewProjectile("p1", FireMsg{X: 255, Y: 300, VX: 100, VY: 0, Lifetime: 2})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if math.Abs(e.HP-10) > 1e-9 {
		t.Errorf("enemy hp should drop from 20 to 10, got %v", e.HP)
	}
	if len(r.Projectiles) != 0 {
		t.Error("projectile without pierce should be consumed by the hit")
	}
}

func TestPierceHitsMultipleEnemies(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	for i := 0; i < 3; i++ {
		e := NewEnemy(EnemyStandard, 1, 300+float64(i)*60, 300)
		e.HP = 5
		e.MaxHP = 5
		r.Enemies = append(r.Enemies, e)
	}

	// Pierce 2: first hit free, two more targets allowed
	pr := NewProjectile("p1", FireMsg{X: 250, Y: 300, VX: 300, VY: 0, Lifetime: 3, Pierce: 2})
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	dead := 0
	for _, e := range r.Enemies {
		if e.HP <= 0 {
			dead++
		}
	}
	// Dead enemies are compacted by the enemy pass, which this sim skips
	if dead != 3 {
		t.Errorf("pierce 2 should let the shot kill 3 enemies, got %d", dead)
	}
}

func TestExplosionKillsGroupSameTick(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	target := NewEnemy(EnemyStandard, 1, 300, 300)
	target.HP = 5
	near1 := NewEnemy(EnemyStandard, 1, 330, 300)
	near1.HP = 5
	near2 := NewEnemy(EnemyStandard, 1, 300, 330)
	near2.HP = 5
	r.Enemies = append(r.Enemies, target, near1, near2)

	pr := NewProjectile("p1", FireMsg{
		X: 260, Y: 300, VX: 200, VY: 0, Lifetime: 2,
		ExplodeRadius: 80, ExplodeDamage: 10,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	for i, e := range []*Enemy{target, near1, near2} {
		if e.HP > 0 {
			t.Errorf("enemy %d should be dead after the blast, hp=%v", i, e.HP)
		}
	}
	if len(r.Projectiles) != 0 {
		t.Error("exploding projectile must not survive the hit")
	}
}

func TestChainRedirectsSameInstance(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	first := NewEnemy(EnemyStandard, 1, 300, 300)
	first.HP = 5
	second := NewEnemy(EnemyStandard, 1, 300, 380)
	second.HP = 5
	r.Enemies = append(r.Enemies, first, second)

	pr := NewProjectile("p1", FireMsg{
		X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 3,
		ChainRange: 150, ChainCount: 1, Damage: 10,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 1.5)
	if first.HP > 0 {
		t.Error("first enemy should be dead")
	}
	if second.HP > 0 {
		t.Error("chain should redirect into the second enemy")
	}
}

func TestChainRetargetsPlayersInPvP(t *testing.T) {
	r := testRoom(ModePvP)
	r.Enemies = nil // isolate the shot from seeded hazards
	addTestPlayer(r, "p1")
	a := addTestPlayer(r, "p2")
	a.X = 300
	a.Y = 300
	b := addTestPlayer(r, "p3")
	b.X = 300
	b.Y = 360

	pr := NewProjectile("p1", FireMsg{
		X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 3,
		ChainRange: 200, ChainCount: 2, Damage: 30,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	if a.HP != PlayerMaxHP-30 {
		t.Errorf("first player should take the hit, hp=%v", a.HP)
	}
	if b.HP != PlayerMaxHP-30 {
		t.Errorf("chain should redirect into the second player, hp=%v", b.HP)
	}
	if len(r.Projectiles) != 0 {
		t.Error("shot should be consumed once no chain target remains")
	}
}

func TestChainIgnoresPlayersInCoop(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	e := NewEnemy(EnemyStandard, 1, 300, 300)
	e.HP = 5
	r.Enemies = append(r.Enemies, e)
	bystander := addTestPlayer(r, "p2")
	bystander.X = 300
	bystander.Y = 360

	pr := NewProjectile("p1", FireMsg{
		X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 3,
		ChainRange: 200, ChainCount: 2, Damage: 30,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	if bystander.HP != PlayerMaxHP {
		t.Errorf("coop chain must never turn on a player, hp=%v", bystander.HP)
	}
}

func TestVampireHealsShooter(t *testing.T) {
	r := testRoom(ModeCoop)
	shooter := addTestPlayer(r, "p1")
	shooter.HP = 50
	e := NewEnemy(EnemyTank, 1, 300, 300)
	r.Enemies = append(r.Enemies, e)

	pr := NewProjectile("p1", FireMsg{
		X: 270, Y: 300, VX: 150, VY: 0, Lifetime: 2, Damage: 20, Vampire: 0.5,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if math.Abs(shooter.HP-60) > 1e-9 {
		t.Errorf("shooter should heal 10 from the vampire hit, hp=%v", shooter.HP)
	}
}

func TestPlayerShotsIgnorePlayersInCoop(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	other := addTestPlayer(r, "p2")
	other.X = 300
	other.Y = 300

	pr := NewProjectile("p1", FireMsg{X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 2})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if other.HP != PlayerMaxHP {
		t.Errorf("coop friendly fire must be off, hp=%v", other.HP)
	}
}

func TestPlayerShotsHitPlayersInPvP(t *testing.T) {
	r := testRoom(ModePvP)
	r.Enemies = nil // isolate the shot from seeded hazards
	addTestPlayer(r, "p1")
	other := addTestPlayer(r, "p2")
	other.X = 300
	other.Y = 300

	pr := NewProjectile("p1", FireMsg{X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 2, Damage: 30})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if other.HP != PlayerMaxHP-30 {
		t.Errorf("pvp shot should deal 30, hp=%v", other.HP)
	}
}

func TestEnemyShotsNeverHitEnemies(t *testing.T) {
	r := testRoom(ModeCoop)
	victim := addTestPlayer(r, "p1")
	victim.X = 400
	victim.Y = 300
	e := NewEnemy(EnemySniper, 4, 300, 300)
	r.Enemies = append(r.Enemies, e)
	bystander := NewEnemy(EnemyTank, 3, 350, 300)
	startHP := bystander.HP
	r.Enemies = append(r.Enemies, bystander)

	pr := newEnemyProjectile(OwnerEnemy, 310, 300, 150, 0, SniperShotRadius, 2, SniperShotDamage)
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	if bystander.HP != startHP {
		t.Errorf("enemy shots must pass through enemies, hp=%v", bystander.HP)
	}
	if victim.HP >= PlayerMaxHP {
		t.Error("enemy shot should damage the player in coop")
	}
}

func TestPhasedGhostUntouchable(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	g := NewEnemy(EnemyGhost, 7, 300, 300)
	g.Phased = true
	g.CycleT = 100 // hold the phase
	r.Enemies = append(r.Enemies, g)

	pr := NewProjectile("p1", FireMsg{X: 250, Y: 300, VX: 200, VY: 0, Lifetime: 1})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if g.HP != g.MaxHP {
		t.Errorf("phased ghost must be untouchable, hp=%v", g.HP)
	}
}
