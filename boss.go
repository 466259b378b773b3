package main

import "math"

// Boss sub-states
const (
	BossChase     = "chase"
	BossRapidFire = "rapid_fire"
	BossCharge    = "charge"
)

const (
	BossRadius     = 40.0
	BossBaseHP     = 400.0
	BossHPPerWave  = 80.0
	BossSpeed      = 60.0
	BossCycleMin   = 2.0
	BossCycleMax   = 4.0
	BossFireLength = 2.0
	BossFireEvery  = 0.2
	BossShotSpeed  = 260.0
	BossShotDamage = 8.0
	BossShotRadius = 7.0
	BossShotLife   = 3.0
	BossShotJitter = 0.35 // radians of random aim spread
	BossTelegraph  = 0.5
	BossDashTime   = 1.5
	BossDashSpeed  = 420.0
	BossBrake      = 0.8 // velocity damping per tick while telegraphing
)

// BossState carries the boss three-state machine. All periodic behavior
// runs on explicit countdown fields reset on trigger; no timer-modulo.
type BossState struct {
	Phase        string
	PhaseT       float64 // countdown in the current phase
	ShotCD       float64 // rapid_fire: countdown to next shot
	Telegraph    float64 // charge: windup countdown before the dash
	DashX, DashY float64 // locked dash direction (unit vector)
}

// NewBoss spawns the boss with hp scaling linearly with wave number
func NewBoss(wave int, x, y float64) *Enemy {
	hp := BossBaseHP + BossHPPerWave*float64(wave)
	return &Enemy{
		ID:     GenerateID(4),
		Kind:   EnemyBossKind,
		X:      x,
		Y:      y,
		Radius: BossRadius,
		HP:     hp,
		MaxHP:  hp,
		Speed:  BossSpeed,
		Boss: &BossState{
			Phase:  BossChase,
			PhaseT: randRange(BossCycleMin, BossCycleMax),
		},
	}
}

// stepBoss advances the boss state machine one tick
func (r *Room) stepBoss(e *Enemy, dt float64) {
	b := e.Boss
	if b == nil {
		return
	}
	target := r.nearestLivingPlayer(e.X, e.Y)

	switch b.Phase {
	case BossChase:
		if target != nil {
			e.accelToward(target.X, target.Y, dt)
		}
		b.PhaseT -= dt
		if b.PhaseT <= 0 {
			if randFloat() < 0.5 {
				b.Phase = BossRapidFire
				b.PhaseT = BossFireLength
				b.ShotCD = 0
			} else {
				b.Phase = BossCharge
				b.Telegraph = BossTelegraph
				b.PhaseT = BossDashTime
			}
		}

	case BossRapidFire:
		if target != nil {
			b.ShotCD -= dt
			if b.ShotCD <= 0 {
				b.ShotCD = BossFireEvery
				angle := math.Atan2(target.Y-e.Y, target.X-e.X)
				angle += randRange(-BossShotJitter, BossShotJitter)
				r.addProjectile(newEnemyProjectile(OwnerBoss, e.X, e.Y,
					math.Cos(angle)*BossShotSpeed, math.Sin(angle)*BossShotSpeed,
					BossShotRadius, BossShotLife, BossShotDamage))
			}
		}
		b.PhaseT -= dt
		if b.PhaseT <= 0 {
			b.Phase = BossChase
			b.PhaseT = randRange(BossCycleMin, BossCycleMax)
		}

	case BossCharge:
		if b.Telegraph > 0 {
			// Windup: damp velocity, track the last-known player direction
			e.VX *= BossBrake
			e.VY *= BossBrake
			if target != nil {
				d := Distance(e.X, e.Y, target.X, target.Y)
				if d > 1 {
					b.DashX = (target.X - e.X) / d
					b.DashY = (target.Y - e.Y) / d
				}
			}
			b.Telegraph -= dt
			if b.Telegraph <= 0 {
				e.VX = b.DashX * BossDashSpeed
				e.VY = b.DashY * BossDashSpeed
			}
			return
		}
		b.PhaseT -= dt
		if b.PhaseT <= 0 {
			b.Phase = BossChase
			b.PhaseT = randRange(BossCycleMin, BossCycleMax)
		}
	}
}
