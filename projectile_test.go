package main

import (
	"math"
	"testing"
)

func testRoom(mode string) *Room {
	return newRoom("test", mode, "", nil)
}

func addTestPlayer(r *Room, id string) *Player {
	p := NewPlayer(id, id, r.Map)
	r.Players[p.ID] = p
	return p
}

func stepRoomSim(r *Room, seconds float64) {
	dt := 1.0 / float64(TickRate)
	steps := int(math.Round(seconds / dt))
	for i := 0; i < steps; i++ {
		r.wiped = false
		r.now += dt
		r.rebuildGrid()
		r.stepProjectiles(dt)
	}
}

func TestProjectileDefaults(t *testing.T) {
	pr := NewProjectile("p1", FireMsg{X: 10, Y: 20, VX: 100, VY: 0})
	if pr.Radius != DefaultProjRadius {
		t.Errorf("expected default radius %v, got %v", DefaultProjRadius, pr.Radius)
	}
	if pr.Life != DefaultProjLifetime {
		t.Errorf("expected default lifetime %v, got %v", DefaultProjLifetime, pr.Life)
	}
	if pr.Damage != DefaultProjDamage {
		t.Errorf("expected default damage %v, got %v", DefaultProjDamage, pr.Damage)
	}
	if !pr.Alive {
		t.Error("new projectile should be alive")
	}
}

func TestProjectileLifetimeExpiry(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	r.addProjectile(NewProjectile("p1", FireMsg{X: 400, Y: 300, VX: 0, VY: 0, Lifetime: 0.3}))

	stepRoomSim(r, 0.5)
	if len(r.Projectiles) != 0 {
		t.Errorf("expected projectile removed after lifetime, %d remain", len(r.Projectiles))
	}
}

func TestProjectileSplitOnExpiry(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	r.addProjectile(NewProjectile("p1", FireMsg{
		X: 400, Y: 300, VX: 100, VY: 0, Lifetime: 0.1, Split: 3,
	}))

	stepRoomSim(r, 0.2)
	if len(r.Projectiles) != 3 {
		t.Fatalf("expected 3 split children, got %d", len(r.Projectiles))
	}
	for _, c := range r.Projectiles {
		if c.MaxLife != SplitChildLife {
			t.Errorf("child lifetime should be %v, got %v", SplitChildLife, c.MaxLife)
		}
		if c.Damage != DefaultProjDamage/2 {
			t.Errorf("child damage should be halved, got %v", c.Damage)
		}
	}

	// Children expire without splitting again
	stepRoomSim(r, SplitChildLife+0.1)
	if len(r.Projectiles) != 0 {
		t.Errorf("split children must not split again, %d remain", len(r.Projectiles))
	}
}

func TestProjectileStraightMovement(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{X: 100, Y: 300, VX: 90, VY: 0, Lifetime: 5})
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	if math.Abs(pr.X-190) > 3 {
		t.Errorf("expected X near 190 after 1s at 90/s, got %v", pr.X)
	}
	if pr.Y != 300 {
		t.Errorf("Y should be unchanged, got %v", pr.Y)
	}
}

func TestProjectileBounce(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{X: 20, Y: 300, VX: -200, VY: 0, Lifetime: 5, Bounce: 1})
	r.addProjectile(pr)

	stepRoomSim(r, 0.3)
	if len(r.Projectiles) != 1 {
		t.Fatal("bouncy projectile should survive wall contact")
	}
	if pr.VX <= 0 {
		t.Errorf("expected VX reflected positive, got %v", pr.VX)
	}
	if pr.X < pr.Radius {
		t.Errorf("projectile should be repositioned inside bounds, X=%v", pr.X)
	}
}

func TestProjectileDestroyedOnWall(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{X: 20, Y: 300, VX: -200, VY: 0, Lifetime: 5})
	r.addProjectile(pr)

	stepRoomSim(r, 0.3)
	if len(r.Projectiles) != 0 {
		t.Errorf("non-bouncy projectile should be destroyed at the wall, %d remain", len(r.Projectiles))
	}
}

func TestProjectileOrbitKeepsDistance(t *testing.T) {
	r := testRoom(ModeCoop)
	p := addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{
		X: p.X + 50, Y: p.Y, VX: 0, VY: 0, Lifetime: 5, Orbit: true, OrbitSpeed: 3,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 1.0)
	d := Distance(p.X, p.Y, pr.X, pr.Y)
	if math.Abs(d-50) > 1 {
		t.Errorf("orbit distance should stay near 50, got %v", d)
	}
}

func TestProjectileWaveOffsetRenderOnly(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	pr := NewProjectile("p1", FireMsg{
		X: 100, Y: 300, VX: 100, VY: 0, Lifetime: 5, WaveAmp: 20, WaveFreq: 10,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 0.25)
	if pr.Y != 300 {
		t.Errorf("wave offset must not feed back into physics Y, got %v", pr.Y)
	}
	if pr.RY == pr.Y {
		t.Error("render Y should carry the wave offset")
	}
}

func TestHomingSteersTowardEnemy(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	e := NewEnemy(EnemyStandard, 1, 300, 400)
	r.Enemies = append(r.Enemies, e)

	// Fired rightward; enemy is below and to the right
	pr := NewProjectile("p1", FireMsg{
		X: 250, Y: 300, VX: 120, VY: 0, Lifetime: 5, Homing: 1,
	})
	r.addProjectile(pr)

	stepRoomSim(r, 0.5)
	if pr.VY <= 0 {
		t.Errorf("homing should bend velocity downward toward the enemy, VY=%v", pr.VY)
	}
}

func TestRoomProjectileCap(t *testing.T) {
	r := testRoom(ModeCoop)
	addTestPlayer(r, "p1")
	for i := 0; i < maxRoomProjCount+10; i++ {
		r.addProjectile(NewProjectile("p1", FireMsg{X: 400, Y: 300, Lifetime: 10}))
	}
	if len(r.Projectiles) != maxRoomProjCount {
		t.Errorf("projectile count should cap at %d, got %d", maxRoomProjCount, len(r.Projectiles))
	}
}
