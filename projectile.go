package main

import "math"

const (
	DefaultProjRadius   = 5.0
	DefaultProjLifetime = 2.0
	DefaultProjDamage   = 10.0

	HomingTurnRate   = 4.0   // rad/s at homing strength 1.0
	HomingSearch     = 200.0 // grid query radius for homing targets
	AttractRange     = 60.0
	AttractForce     = 40.0
	SplitChildLife   = 0.5
	ShredCap         = 1.0
	FocusWindow      = 1.0 // seconds: streak resets beyond this gap
	BurstWindow      = 3.0 // seconds: burst addend re-arms beyond this gap
	DefaultCritMult  = 2.0
	DefaultDotLife   = 2.0
	ExplodeImpulse   = 200.0
	KnockbackScale   = 1.0
	maxRoomProjCount = 500

	// Synthetic owner ids for enemy-fired shots. Sniper shots append the
	// firing enemy's id; the boss keeps the bare key since at most one
	// boss is alive per wave.
	OwnerEnemy = "enemy"
	OwnerBoss  = "boss"
)

// ProjMods is the open set of optional projectile modifiers. The zero
// value of every field means "disabled"; there is no field-absence check.
type ProjMods struct {
	Homing        float64 // turn-rate scalar
	Orbit         bool
	OrbitRadius   float64
	OrbitSpeed    float64 // rad/s
	Accel         float64 // multiplicative velocity growth per second
	Spin          float64 // rad/s rotation of the velocity vector
	WaveAmp       float64
	WaveFreq      float64
	Bounce        float64 // restitution; 0 = destroyed on impact
	Pierce        int     // extra targets after the first
	ChainRange    float64
	ChainCount    int
	ExplodeRadius float64
	ExplodeDamage float64
	Vampire       float64 // fraction of damage healed to the shooter
	Knockback     float64
	CritChance    float64
	CritMult      float64
	Focus         float64 // streak multiplier coefficient
	Burst         float64 // one-time addend on a cold pair
	Execute       float64 // missing-health scaling coefficient
	Shred         float64 // armor reduction accumulated on the target
	Dot           float64 // damage per second
	Split         int     // children spawned on lifetime expiry
	FromEnemy     bool
}

// Projectile is one live shot in a room
type Projectile struct {
	ID      string
	OwnerID string
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Life    float64
	MaxLife float64
	Damage  float64
	Mods    ProjMods
	Alive   bool

	// Render position: physics position plus the perpendicular wave
	// offset. Never feeds back into physics.
	RX, RY float64

	age        float64
	orbitOK    bool // orbit angle/radius initialized
	orbitAngle float64
	orbitDist  float64
	hitIDs     map[string]bool
}

// NewProjectile builds a projectile from a fire command. Zero-valued
// radius/lifetime/damage fall back to defaults.
func NewProjectile(ownerID string, msg FireMsg) *Projectile {
	radius := msg.Radius
	if radius <= 0 {
		radius = DefaultProjRadius
	}
	life := msg.Lifetime
	if life <= 0 {
		life = DefaultProjLifetime
	}
	dmg := msg.Damage
	if dmg <= 0 {
		dmg = DefaultProjDamage
	}
	return &Projectile{
		ID:      GenerateID(3),
		OwnerID: ownerID,
		X:       msg.X,
		Y:       msg.Y,
		VX:      msg.VX,
		VY:      msg.VY,
		RX:      msg.X,
		RY:      msg.Y,
		Radius:  radius,
		Life:    life,
		MaxLife: life,
		Damage:  dmg,
		Alive:   true,
		Mods: ProjMods{
			Homing:        msg.Homing,
			Orbit:         msg.Orbit,
			OrbitRadius:   msg.OrbitRadius,
			OrbitSpeed:    msg.OrbitSpeed,
			Accel:         msg.Accel,
			Spin:          msg.Spin,
			WaveAmp:       msg.WaveAmp,
			WaveFreq:      msg.WaveFreq,
			Bounce:        msg.Bounce,
			Pierce:        msg.Pierce,
			ChainRange:    msg.ChainRange,
			ChainCount:    msg.ChainCount,
			ExplodeRadius: msg.ExplodeRadius,
			ExplodeDamage: msg.ExplodeDamage,
			Vampire:       msg.Vampire,
			Knockback:     msg.Knockback,
			CritChance:    msg.CritChance,
			CritMult:      msg.CritMult,
			Focus:         msg.Focus,
			Burst:         msg.Burst,
			Execute:       msg.Execute,
			Shred:         msg.Shred,
			Dot:           msg.Dot,
			Split:         msg.Split,
		},
		hitIDs: make(map[string]bool),
	}
}

// newEnemyProjectile builds an enemy-owned shot aimed along (vx, vy)
func newEnemyProjectile(ownerID string, x, y, vx, vy, radius, life, dmg float64) *Projectile {
	return &Projectile{
		ID:      GenerateID(3),
		OwnerID: ownerID,
		X:       x,
		Y:       y,
		RX:      x,
		RY:      y,
		VX:      vx,
		VY:      vy,
		Radius:  radius,
		Life:    life,
		MaxLife: life,
		Damage:  dmg,
		Alive:   true,
		Mods:    ProjMods{FromEnemy: true},
		hitIDs:  make(map[string]bool),
	}
}

// splitChildren spawns evenly-spaced offspring on lifetime expiry:
// half radius, half damage, short fixed lifetime
func (pr *Projectile) splitChildren() []*Projectile {
	n := pr.Mods.Split
	if n <= 0 {
		return nil
	}
	speed := math.Hypot(pr.VX, pr.VY)
	if speed < 1 {
		speed = 100
	}
	children := make([]*Projectile, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		children = append(children, &Projectile{
			ID:      GenerateID(3),
			OwnerID: pr.OwnerID,
			X:       pr.X,
			Y:       pr.Y,
			RX:      pr.X,
			RY:      pr.Y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Radius:  pr.Radius / 2,
			Life:    SplitChildLife,
			MaxLife: SplitChildLife,
			Damage:  pr.Damage / 2,
			Alive:   true,
			Mods:    ProjMods{FromEnemy: pr.Mods.FromEnemy},
			hitIDs:  make(map[string]bool),
		})
	}
	return children
}

// orbitStep recomputes position on a circle around the owner and sets
// velocity to the tangential derivative, keeping the orbit radius stable
// even while the owner moves
func (pr *Projectile) orbitStep(dt, ox, oy float64) {
	if !pr.orbitOK {
		dx := pr.X - ox
		dy := pr.Y - oy
		pr.orbitDist = math.Hypot(dx, dy)
		if pr.Mods.OrbitRadius > 0 {
			pr.orbitDist = pr.Mods.OrbitRadius
		}
		if pr.orbitDist < 1 {
			pr.orbitDist = 1
		}
		pr.orbitAngle = math.Atan2(dy, dx)
		pr.orbitOK = true
	}
	w := pr.Mods.OrbitSpeed
	if w == 0 {
		w = 3.0
	}
	pr.orbitAngle += w * dt
	pr.X = ox + math.Cos(pr.orbitAngle)*pr.orbitDist
	pr.Y = oy + math.Sin(pr.orbitAngle)*pr.orbitDist
	pr.VX = -math.Sin(pr.orbitAngle) * pr.orbitDist * w
	pr.VY = math.Cos(pr.orbitAngle) * pr.orbitDist * w
}

// steerToward clamps a turn of the velocity direction toward (tx, ty),
// preserving speed magnitude
func (pr *Projectile) steerToward(tx, ty, maxTurn float64) {
	speed := math.Hypot(pr.VX, pr.VY)
	if speed < 1 {
		return
	}
	current := math.Atan2(pr.VY, pr.VX)
	desired := math.Atan2(ty-pr.Y, tx-pr.X)
	diff := NormalizeAngle(desired - current)
	if diff > maxTurn {
		diff = maxTurn
	} else if diff < -maxTurn {
		diff = -maxTurn
	}
	current += diff
	pr.VX = math.Cos(current) * speed
	pr.VY = math.Sin(current) * speed
}

// redirect points the velocity straight at (tx, ty), preserving speed
func (pr *Projectile) redirect(tx, ty float64) {
	speed := math.Hypot(pr.VX, pr.VY)
	if speed < 1 {
		speed = 100
	}
	angle := math.Atan2(ty-pr.Y, tx-pr.X)
	pr.VX = math.Cos(angle) * speed
	pr.VY = math.Sin(angle) * speed
}

// applyWaveOffset computes the render position from elapsed lifetime:
// a perpendicular sinusoid over the velocity direction
func (pr *Projectile) applyWaveOffset() {
	pr.RX = pr.X
	pr.RY = pr.Y
	if pr.Mods.WaveAmp == 0 {
		return
	}
	speed := math.Hypot(pr.VX, pr.VY)
	if speed < 1 {
		return
	}
	freq := pr.Mods.WaveFreq
	if freq == 0 {
		freq = 6.0
	}
	offset := pr.Mods.WaveAmp * math.Sin(pr.age*freq)
	pr.RX += -pr.VY / speed * offset
	pr.RY += pr.VX / speed * offset
}

// ToState converts to protocol state
func (pr *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:     pr.ID,
		Owner:  pr.OwnerID,
		X:      round1(pr.RX),
		Y:      round1(pr.RY),
		Radius: pr.Radius,
	}
}
