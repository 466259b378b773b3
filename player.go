package main

const (
	PlayerRadius = 15.0
	PlayerMaxHP  = 100.0
)

// Player represents a connected player inside one room
type Player struct {
	ID     string
	Name   string
	AuthID int64 // 0 = guest

	X, Y   float64
	VX, VY float64
	Radius float64

	HP    float64
	MaxHP float64

	Kills  int
	Deaths int
	Streak int

	// Progression snapshot; persisted through the profile side-channel
	Level   int
	XP      int
	Money   int
	Unlocks map[string]bool
	Limits  map[string]float64

	Aura string // active aura, "" = none
	Dead bool   // coop only: out until wave wipe/reset

	hits hitTracker
}

// NewPlayer creates a player at the map spawn point
func NewPlayer(id, name string, m *MapDef) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		X:       m.SpawnX,
		Y:       m.SpawnY,
		Radius:  PlayerRadius,
		HP:      PlayerMaxHP,
		MaxHP:   PlayerMaxHP,
		Level:   1,
		Unlocks: make(map[string]bool),
		Limits:  make(map[string]float64),
	}
}

// Update integrates position from the externally-set velocity, resolves
// static wall collisions, then clamps to the arena bounds.
func (p *Player) Update(dt float64, m *MapDef) {
	if p.Dead {
		return
	}

	p.X += p.VX * dt
	p.Y += p.VY * dt

	for i := range m.Walls {
		p.resolveWall(&m.Walls[i])
	}

	p.X = Clamp(p.X, p.Radius, m.Width-p.Radius)
	p.Y = Clamp(p.Y, p.Radius, m.Height-p.Radius)
}

// resolveWall snaps the player to the nearest edge of a wall rectangle
// expanded by the player radius, if the position falls inside it
func (p *Player) resolveWall(w *Wall) {
	left := w.X - p.Radius
	right := w.X + w.W + p.Radius
	top := w.Y - p.Radius
	bottom := w.Y + w.H + p.Radius

	if p.X <= left || p.X >= right || p.Y <= top || p.Y >= bottom {
		return
	}

	dLeft := p.X - left
	dRight := right - p.X
	dTop := p.Y - top
	dBottom := bottom - p.Y

	min := dLeft
	if dRight < min {
		min = dRight
	}
	if dTop < min {
		min = dTop
	}
	if dBottom < min {
		min = dBottom
	}

	switch min {
	case dLeft:
		p.X = left
	case dRight:
		p.X = right
	case dTop:
		p.Y = top
	default:
		p.Y = bottom
	}
}

// TakeDamage reduces HP and returns true if the player died this call
func (p *Player) TakeDamage(dmg float64) bool {
	if p.Dead || p.HP <= 0 {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		return true
	}
	return false
}

// Heal restores HP up to the maximum
func (p *Player) Heal(amount float64) {
	if p.Dead {
		return
	}
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// RespawnAt restores the player to full health at the given position
func (p *Player) RespawnAt(x, y float64) {
	p.X = x
	p.Y = y
	p.VX = 0
	p.VY = 0
	p.HP = p.MaxHP
	p.Dead = false
	p.Streak = 0
}

// MarkDead flags a coop player out of the fight and moves them off-arena
// so they stop participating in grid queries and contact checks
func (p *Player) MarkDead() {
	p.Dead = true
	p.VX = 0
	p.VY = 0
	p.X = -1000
	p.Y = -1000
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:     p.ID,
		Name:   p.Name,
		X:      round1(p.X),
		Y:      round1(p.Y),
		VX:     round1(p.VX),
		VY:     round1(p.VY),
		HP:     round1(p.HP),
		MaxHP:  p.MaxHP,
		Kills:  p.Kills,
		Deaths: p.Deaths,
		Streak: p.Streak,
		Level:  p.Level,
		Aura:   p.Aura,
		Dead:   p.Dead,
	}
}
