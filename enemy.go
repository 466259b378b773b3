package main

import "math"

// EnemyKind is the archetype tag. The AI step is a single exhaustive
// switch over this set; archetype transient fields are exclusive to the
// archetype that names them and stay zero everywhere else.
type EnemyKind string

const (
	EnemyStandard  EnemyKind = "standard"
	EnemyTank      EnemyKind = "tank"
	EnemySpeedster EnemyKind = "speedster"
	EnemySniper    EnemyKind = "sniper"
	EnemyHealer    EnemyKind = "healer"
	EnemyGhost     EnemyKind = "ghost"
	EnemyBerserker EnemyKind = "berserker"
	EnemySplitter  EnemyKind = "splitter"
	EnemyBossKind  EnemyKind = "boss"
)

const (
	EnemyDamping      = 0.95 // velocity multiplier per tick
	EnemyAccelFactor  = 3.0  // accel = speed * factor
	ContactDamage     = 0.6  // per tick while touching a player
	BossContactDamage = 2.0

	SniperApproachDist = 400.0
	SniperRetreatDist  = 250.0
	SniperFireInterval = 3.0
	SniperShotSpeed    = 140.0
	SniperShotDamage   = 15.0
	SniperShotRadius   = 6.0
	SniperShotLife     = 6.0

	HealerStandoff   = 300.0
	HealerInterval   = 2.0
	HealerRadius     = 120.0
	HealerAmount     = 10.0

	GhostCyclePeriod = 2.0
	GhostPhasedMul   = 1.5
	GhostSolidMul    = 0.8

	BerserkThreshold = 0.4
	BerserkSpeedMul  = 1.8

	SplitterChildren = 3
	SplitterChildMul = 0.4 // child hp/radius scale
)

// Dot is one active damage-over-time entry on an enemy
type Dot struct {
	DPS       float64
	Remaining float64
	SourceID  string
}

// Enemy is one AI-controlled entity in a room
type Enemy struct {
	ID     string
	Kind   EnemyKind
	X, Y   float64
	VX, VY float64
	Radius float64
	HP     float64
	MaxHP  float64
	Speed  float64

	// Archetype-exclusive transient state
	FireCD  float64    // sniper: countdown to next shot
	HealCD  float64    // healer: countdown to next pulse
	CycleT  float64    // ghost: countdown to phase flip
	Phased  bool       // ghost: currently invulnerable
	Enraged bool       // berserker: one-time speed boost applied
	Splits  int        // splitter: offspring spawned on death
	Boss    *BossState // boss only

	Dots  []Dot
	Shred float64 // armor reduction accumulator from shred hits

	hits     hitTracker
	killerID string // attribution for the killing blow
}

// archetypeDef is the per-archetype stat row, wave-gated for the
// director's weighted roll
type archetypeDef struct {
	Kind      EnemyKind
	MinWave   int
	Weight    float64
	Radius    float64
	Speed     float64
	BaseHP    float64
	HPPerWave float64
}

var archetypes = []archetypeDef{
	{EnemyStandard, 1, 10, 14, 90, 30, 6},
	{EnemySpeedster, 2, 5, 10, 180, 18, 4},
	{EnemyTank, 3, 4, 22, 55, 90, 14},
	{EnemySniper, 4, 3, 12, 70, 24, 5},
	{EnemyHealer, 5, 2, 13, 75, 28, 5},
	{EnemyBerserker, 6, 3, 15, 85, 40, 7},
	{EnemyGhost, 7, 3, 12, 100, 26, 5},
	{EnemySplitter, 8, 2, 18, 80, 45, 8},
}

// NewEnemy spawns an enemy of the given archetype at (x, y) with
// hp scaled by wave number
func NewEnemy(kind EnemyKind, wave int, x, y float64) *Enemy {
	var def archetypeDef
	for _, d := range archetypes {
		if d.Kind == kind {
			def = d
			break
		}
	}
	if def.Kind == "" {
		def = archetypes[0]
	}
	hp := def.BaseHP + def.HPPerWave*float64(wave)
	e := &Enemy{
		ID:     GenerateID(4),
		Kind:   def.Kind,
		X:      x,
		Y:      y,
		Radius: def.Radius,
		HP:     hp,
		MaxHP:  hp,
		Speed:  def.Speed,
	}
	switch kind {
	case EnemySniper:
		e.FireCD = SniperFireInterval
	case EnemyHealer:
		e.HealCD = HealerInterval
	case EnemyGhost:
		e.CycleT = GhostCyclePeriod
	case EnemySplitter:
		e.Splits = SplitterChildren
	}
	return e
}

// TakeDamage reduces HP and returns true if the enemy died this call.
// killerID records attribution for the killing blow.
func (e *Enemy) TakeDamage(dmg float64, killerID string) bool {
	if e.HP <= 0 {
		return false
	}
	e.HP -= dmg
	if e.HP <= 0 {
		e.HP = 0
		e.killerID = killerID
		return true
	}
	return false
}

// effSpeed is the current max speed including phase/enrage/dash modifiers
func (e *Enemy) effSpeed() float64 {
	s := e.Speed
	if e.Kind == EnemyGhost {
		if e.Phased {
			s *= GhostPhasedMul
		} else {
			s *= GhostSolidMul
		}
	}
	if e.Kind == EnemyBossKind && e.Boss != nil && e.Boss.Phase == BossCharge {
		s = BossDashSpeed
	}
	return s
}

// stepEnemies runs one AI tick for every enemy, then compacts the dead
func (r *Room) stepEnemies(dt float64) {
	for _, e := range r.Enemies {
		if e.HP <= 0 {
			continue
		}
		r.tickEnemyTimers(e, dt)
		r.applyDots(e, dt)
		r.applyAuras(e, dt)
		if e.HP <= 0 {
			continue
		}

		target := r.nearestLivingPlayer(e.X, e.Y)

		switch e.Kind {
		case EnemyStandard, EnemyTank, EnemySpeedster, EnemyBerserker, EnemySplitter:
			if e.Kind == EnemyBerserker && !e.Enraged && e.HP < e.MaxHP*BerserkThreshold {
				e.Enraged = true
				e.Speed *= BerserkSpeedMul
			}
			if target != nil {
				e.accelToward(target.X, target.Y, dt)
			}
		case EnemySniper:
			if target != nil {
				dist := Distance(e.X, e.Y, target.X, target.Y)
				if dist > SniperApproachDist {
					e.accelToward(target.X, target.Y, dt)
				} else if dist < SniperRetreatDist {
					e.accelAway(target.X, target.Y, dt)
				}
				if e.FireCD <= 0 {
					e.FireCD = SniperFireInterval
					angle := math.Atan2(target.Y-e.Y, target.X-e.X)
					// Owner key is per sniper so focus/burst state on a
					// target never conflates two shooters
					r.addProjectile(newEnemyProjectile(OwnerEnemy+":"+e.ID, e.X, e.Y,
						math.Cos(angle)*SniperShotSpeed, math.Sin(angle)*SniperShotSpeed,
						SniperShotRadius, SniperShotLife, SniperShotDamage))
				}
			}
		case EnemyHealer:
			if target != nil {
				dist := Distance(e.X, e.Y, target.X, target.Y)
				if dist > HealerStandoff {
					e.accelToward(target.X, target.Y, dt)
				}
			}
			if e.HealCD <= 0 {
				e.HealCD = HealerInterval
				r.healerPulse(e)
			}
		case EnemyGhost:
			if e.CycleT <= 0 {
				e.CycleT = GhostCyclePeriod
				e.Phased = !e.Phased
			}
			if target != nil {
				e.accelToward(target.X, target.Y, dt)
			}
		case EnemyBossKind:
			r.stepBoss(e, dt)
		}

		// Damping, integration, clamp to arena
		e.VX *= EnemyDamping
		e.VY *= EnemyDamping
		speed := math.Hypot(e.VX, e.VY)
		if max := e.effSpeed() * 2; speed > max { // dash and knockback headroom
			scale := max / speed
			e.VX *= scale
			e.VY *= scale
		}
		e.X += e.VX * dt
		e.Y += e.VY * dt
		e.X = Clamp(e.X, e.Radius, r.Map.Width-e.Radius)
		e.Y = Clamp(e.Y, e.Radius, r.Map.Height-e.Radius)

		r.enemyTouch(e)
		if r.wiped {
			return
		}
	}

	r.compactEnemies()
}

// tickEnemyTimers decays the archetype countdowns
func (r *Room) tickEnemyTimers(e *Enemy, dt float64) {
	if e.FireCD > 0 {
		e.FireCD -= dt
	}
	if e.HealCD > 0 {
		e.HealCD -= dt
	}
	if e.CycleT > 0 {
		e.CycleT -= dt
	}
}

// applyDots ticks active damage-over-time entries and drops expired ones
func (r *Room) applyDots(e *Enemy, dt float64) {
	for i := len(e.Dots) - 1; i >= 0; i-- {
		d := &e.Dots[i]
		if e.TakeDamage(d.DPS*dt, d.SourceID) {
			r.onEnemyKilled(e)
		}
		d.Remaining -= dt
		if d.Remaining <= 0 {
			e.Dots = append(e.Dots[:i], e.Dots[i+1:]...)
		}
	}
}

// addDot registers or refreshes a damage-over-time entry from one source
func (e *Enemy) addDot(dps, duration float64, sourceID string) {
	for i := range e.Dots {
		if e.Dots[i].SourceID == sourceID {
			e.Dots[i].DPS = dps
			e.Dots[i].Remaining = duration
			return
		}
	}
	e.Dots = append(e.Dots, Dot{DPS: dps, Remaining: duration, SourceID: sourceID})
}

func (e *Enemy) accelToward(tx, ty, dt float64) {
	angle := math.Atan2(ty-e.Y, tx-e.X)
	accel := e.Speed * EnemyAccelFactor * dt
	e.VX += math.Cos(angle) * accel
	e.VY += math.Sin(angle) * accel
}

func (e *Enemy) accelAway(tx, ty, dt float64) {
	angle := math.Atan2(e.Y-ty, e.X-tx)
	accel := e.Speed * EnemyAccelFactor * dt
	e.VX += math.Cos(angle) * accel
	e.VY += math.Sin(angle) * accel
}

// healerPulse heals nearby enemies and emits a heal effect
func (r *Room) healerPulse(h *Enemy) {
	healed := false
	for _, e := range r.Enemies {
		if e == h || e.HP <= 0 || e.HP >= e.MaxHP {
			continue
		}
		if DistanceSq(h.X, h.Y, e.X, e.Y) > HealerRadius*HealerRadius {
			continue
		}
		e.HP += HealerAmount
		if e.HP > e.MaxHP {
			e.HP = e.MaxHP
		}
		healed = true
	}
	if healed {
		r.pushEffect(EffectMsg{Type: "heal", X: h.X, Y: h.Y, Color: "#44ff88", Radius: HealerRadius})
	}
}

// enemyTouch inflicts constant per-tick contact damage on touching players
func (r *Room) enemyTouch(e *Enemy) {
	dmg := ContactDamage
	if e.Kind == EnemyBossKind {
		dmg = BossContactDamage
	}
	for _, p := range r.Players {
		if p.Dead {
			continue
		}
		if !CheckCollision(e.X, e.Y, e.Radius, p.X, p.Y, p.Radius) {
			continue
		}
		if p.TakeDamage(dmg) {
			r.onPlayerDeath(p, string(e.Kind))
		}
	}
}

// compactEnemies removes dead enemies in reverse index order. PvP resets
// the instance in place instead of removing it; coop splitters spawn
// offspring exactly once before removal.
func (r *Room) compactEnemies() {
	for i := len(r.Enemies) - 1; i >= 0; i-- {
		e := r.Enemies[i]
		if e.HP > 0 {
			continue
		}
		if r.Mode == ModePvP {
			r.resetPvPEnemy(e)
			continue
		}
		if e.Kind == EnemySplitter && e.Splits > 0 {
			n := e.Splits
			e.Splits = 0
			for j := 0; j < n; j++ {
				angle := float64(j) * 2 * math.Pi / float64(n)
				child := NewEnemy(EnemyStandard, r.WaveNum, e.X+math.Cos(angle)*e.Radius, e.Y+math.Sin(angle)*e.Radius)
				child.Radius = e.Radius * SplitterChildMul
				child.MaxHP = e.MaxHP * SplitterChildMul
				child.HP = child.MaxHP
				child.Speed = e.Speed * 1.3
				r.Enemies = append(r.Enemies, child)
			}
		}
		r.Enemies = append(r.Enemies[:i], r.Enemies[i+1:]...)
	}
}

// resetPvPEnemy respawns the same instance at a random position with
// full hp; pvp hazards never leave the arena
func (r *Room) resetPvPEnemy(e *Enemy) {
	e.HP = e.MaxHP
	e.X = randRange(e.Radius, r.Map.Width-e.Radius)
	e.Y = randRange(e.Radius, r.Map.Height-e.Radius)
	e.VX = 0
	e.VY = 0
	e.Dots = nil
	e.Shred = 0
	e.killerID = ""
}

// ToState converts to protocol state
func (e *Enemy) ToState() EnemyState {
	s := EnemyState{
		ID:    e.ID,
		Type:  string(e.Kind),
		X:     round1(e.X),
		Y:     round1(e.Y),
		HP:    round1(e.HP),
		MaxHP: e.MaxHP,
	}
	if e.Kind == EnemyGhost {
		s.Phased = e.Phased
	}
	if e.Boss != nil {
		s.Boss = e.Boss.Phase
	}
	return s
}
