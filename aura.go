package main

import "math"

// Aura selections. Power and precision act in the damage chain; the rest
// act on nearby enemies each tick. Auras never affect allied players.
const (
	AuraNone       = ""
	AuraPower      = "power"
	AuraPrecision  = "precision"
	AuraCorruption = "corruption"
	AuraExecution  = "execution"
	AuraControl    = "control"
	AuraVampire    = "vampirism"
	AuraGravity    = "gravity"
)

const (
	AuraRadius          = 150.0
	PowerAuraMult       = 1.25
	PrecisionCritBonus  = 0.10
	PrecisionMultBonus  = 0.5
	CorruptionDPS       = 4.0
	CorruptionDuration  = 2.0
	ExecutionThreshold  = 0.3 // missing-health gate, fraction of max hp
	ExecutionDPS        = 12.0
	ControlDamping      = 0.9 // extra velocity multiplier per tick
	VampireAuraDPS      = 3.0
	GravityAccel        = 60.0
)

var validAuras = map[string]bool{
	AuraNone:       true,
	AuraPower:      true,
	AuraPrecision:  true,
	AuraCorruption: true,
	AuraExecution:  true,
	AuraControl:    true,
	AuraVampire:    true,
	AuraGravity:    true,
}

// applyAuras applies every nearby player's active aura to one enemy
func (r *Room) applyAuras(e *Enemy, dt float64) {
	for _, p := range r.Players {
		if p.Dead || p.Aura == AuraNone {
			continue
		}
		if DistanceSq(p.X, p.Y, e.X, e.Y) > AuraRadius*AuraRadius {
			continue
		}
		switch p.Aura {
		case AuraCorruption:
			e.addDot(CorruptionDPS, CorruptionDuration, p.ID)
		case AuraExecution:
			if e.HP < e.MaxHP*ExecutionThreshold {
				if e.TakeDamage(ExecutionDPS*dt, p.ID) {
					r.onEnemyKilled(e)
				}
			}
		case AuraControl:
			e.VX *= ControlDamping
			e.VY *= ControlDamping
		case AuraVampire:
			drain := VampireAuraDPS * dt
			if e.TakeDamage(drain, p.ID) {
				r.onEnemyKilled(e)
			}
			p.Heal(drain)
		case AuraGravity:
			angle := math.Atan2(p.Y-e.Y, p.X-e.X)
			e.VX += math.Cos(angle) * GravityAccel * dt
			e.VY += math.Sin(angle) * GravityAccel * dt
		}
		if e.HP <= 0 {
			return
		}
	}
}
