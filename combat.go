package main

import "math"

// hitTracker remembers per-attacker interaction times and focus streaks
// on a target. Keys are shooter ids (players or the synthetic enemy ids).
type hitTracker struct {
	last   map[string]float64
	streak map[string]int
}

// touch records a hit at sim time now. Returns the current focus streak
// (0 when the pair went cold for more than FocusWindow) and whether the
// pair had not interacted within BurstWindow.
func (t *hitTracker) touch(attacker string, now float64) (int, bool) {
	if t.last == nil {
		t.last = make(map[string]float64)
		t.streak = make(map[string]int)
	}
	last, seen := t.last[attacker]
	cold := !seen || now-last > BurstWindow
	if seen && now-last <= FocusWindow {
		t.streak[attacker]++
	} else {
		t.streak[attacker] = 0
	}
	t.last[attacker] = now
	return t.streak[attacker], cold
}

// stepProjectiles advances every projectile one tick. Reverse index
// iteration: a single pass can remove several projectiles while
// splits, chains and boss fire append new ones.
func (r *Room) stepProjectiles(dt float64) {
	for i := len(r.Projectiles) - 1; i >= 0; i-- {
		pr := r.Projectiles[i]
		pr.age += dt
		pr.Life -= dt
		if pr.Life <= 0 {
			for _, c := range pr.splitChildren() {
				r.addProjectile(c)
			}
			r.removeProjectileAt(i)
			continue
		}

		owner := r.Players[pr.OwnerID]
		if pr.Mods.Orbit && owner != nil && !owner.Dead {
			pr.orbitStep(dt, owner.X, owner.Y)
		} else {
			if pr.Mods.Accel != 0 {
				m := 1 + pr.Mods.Accel*dt
				pr.VX *= m
				pr.VY *= m
			}
			if pr.Mods.Spin != 0 {
				a := pr.Mods.Spin * dt
				cos, sin := math.Cos(a), math.Sin(a)
				vx := pr.VX*cos - pr.VY*sin
				vy := pr.VX*sin + pr.VY*cos
				pr.VX, pr.VY = vx, vy
			}
			if pr.Mods.Homing > 0 {
				r.homingSteer(pr, dt)
			}
			pr.X += pr.VX * dt
			pr.Y += pr.VY * dt
		}
		pr.applyWaveOffset()

		if r.projectileWalls(pr) {
			r.removeProjectileAt(i)
			continue
		}

		r.attract(pr, dt)
		r.resolveHits(pr)
		if r.wiped {
			// A hit ended the run; the projectile list is already gone
			return
		}
		if !pr.Alive {
			r.removeProjectileAt(i)
		}
	}
}

func (r *Room) removeProjectileAt(i int) {
	r.Projectiles = append(r.Projectiles[:i], r.Projectiles[i+1:]...)
}

// homingSteer turns the velocity toward the nearest non-owner,
// non-projectile neighbor, clamped by the homing strength scalar
func (r *Room) homingSteer(pr *Projectile, dt float64) {
	r.queryBuf = r.Grid.QueryBuf(pr.X, pr.Y, HomingSearch, r.queryBuf[:0])
	var tx, ty float64
	best := math.MaxFloat64
	found := false
	for _, ref := range r.queryBuf {
		var x, y float64
		switch ref.Kind {
		case KindEnemy:
			e := r.Enemies[ref.Idx]
			if e.HP <= 0 {
				continue
			}
			x, y = e.X, e.Y
		case KindPlayer:
			p := r.playerList[ref.Idx]
			if p.ID == pr.OwnerID || p.Dead {
				continue
			}
			x, y = p.X, p.Y
		default:
			continue
		}
		d2 := DistanceSq(pr.X, pr.Y, x, y)
		if d2 < best {
			best = d2
			tx, ty = x, y
			found = true
		}
	}
	if found {
		pr.steerToward(tx, ty, pr.Mods.Homing*HomingTurnRate*dt)
	}
}

// projectileWalls resolves arena-bound and wall impacts. Bouncy shots
// reflect on whichever boundary was penetrated and reposition just
// outside it; everything else is destroyed with an impact effect.
// Returns true if the projectile was destroyed.
func (r *Room) projectileWalls(pr *Projectile) bool {
	bouncy := pr.Mods.Bounce > 0
	hit := false

	if pr.X-pr.Radius < 0 {
		hit = true
		if bouncy {
			pr.X = pr.Radius
			pr.VX = -pr.VX * pr.Mods.Bounce
		}
	} else if pr.X+pr.Radius > r.Map.Width {
		hit = true
		if bouncy {
			pr.X = r.Map.Width - pr.Radius
			pr.VX = -pr.VX * pr.Mods.Bounce
		}
	}
	if pr.Y-pr.Radius < 0 {
		hit = true
		if bouncy {
			pr.Y = pr.Radius
			pr.VY = -pr.VY * pr.Mods.Bounce
		}
	} else if pr.Y+pr.Radius > r.Map.Height {
		hit = true
		if bouncy {
			pr.Y = r.Map.Height - pr.Radius
			pr.VY = -pr.VY * pr.Mods.Bounce
		}
	}

	for wi := range r.Map.Walls {
		w := &r.Map.Walls[wi]
		left := w.X - pr.Radius
		right := w.X + w.W + pr.Radius
		top := w.Y - pr.Radius
		bottom := w.Y + w.H + pr.Radius
		if pr.X <= left || pr.X >= right || pr.Y <= top || pr.Y >= bottom {
			continue
		}
		hit = true
		if !bouncy {
			break
		}
		// Reflect on the nearest edge
		dLeft := pr.X - left
		dRight := right - pr.X
		dTop := pr.Y - top
		dBottom := bottom - pr.Y
		min := math.Min(math.Min(dLeft, dRight), math.Min(dTop, dBottom))
		switch min {
		case dLeft:
			pr.X = left
			pr.VX = -math.Abs(pr.VX) * pr.Mods.Bounce
		case dRight:
			pr.X = right
			pr.VX = math.Abs(pr.VX) * pr.Mods.Bounce
		case dTop:
			pr.Y = top
			pr.VY = -math.Abs(pr.VY) * pr.Mods.Bounce
		default:
			pr.Y = bottom
			pr.VY = math.Abs(pr.VY) * pr.Mods.Bounce
		}
	}

	if hit && !bouncy {
		pr.Alive = false
		r.pushEffect(EffectMsg{Type: "impact", X: pr.X, Y: pr.Y, Color: "#ffcc44"})
		return true
	}
	return false
}

// attract pulls nearby non-owner entities toward the projectile,
// inversely proportional to distance
func (r *Room) attract(pr *Projectile, dt float64) {
	r.queryBuf = r.Grid.QueryBuf(pr.X, pr.Y, AttractRange, r.queryBuf[:0])
	for _, ref := range r.queryBuf {
		switch ref.Kind {
		case KindEnemy:
			e := r.Enemies[ref.Idx]
			if e.HP <= 0 {
				continue
			}
			d := Distance(pr.X, pr.Y, e.X, e.Y)
			if d > AttractRange || d < 1 {
				continue
			}
			a := AttractForce / d * dt
			e.VX += (pr.X - e.X) / d * a
			e.VY += (pr.Y - e.Y) / d * a
		case KindPlayer:
			p := r.playerList[ref.Idx]
			if p.ID == pr.OwnerID || p.Dead {
				continue
			}
			d := Distance(pr.X, pr.Y, p.X, p.Y)
			if d > AttractRange || d < 1 {
				continue
			}
			a := AttractForce / d * dt
			p.VX += (pr.X - p.X) / d * a
			p.VY += (pr.Y - p.Y) / d * a
		}
	}
}

// resolveHits tests the projectile against every non-owner,
// non-projectile grid neighbor
func (r *Room) resolveHits(pr *Projectile) {
	reach := pr.Radius + BossRadius + 5
	r.queryBuf = r.Grid.QueryBuf(pr.X, pr.Y, reach, r.queryBuf[:0])
	for _, ref := range r.queryBuf {
		switch ref.Kind {
		case KindEnemy:
			if pr.Mods.FromEnemy {
				continue
			}
			e := r.Enemies[ref.Idx]
			if e.HP <= 0 || pr.hitIDs[e.ID] {
				continue
			}
			if e.Kind == EnemyGhost && e.Phased {
				continue
			}
			if !CheckCollision(pr.X, pr.Y, pr.Radius, e.X, e.Y, e.Radius) {
				continue
			}
			r.hitEnemy(pr, e)
		case KindPlayer:
			p := r.playerList[ref.Idx]
			if p.ID == pr.OwnerID || p.Dead || pr.hitIDs[p.ID] {
				continue
			}
			// Player shots only hurt players in pvp rooms
			if !pr.Mods.FromEnemy && r.Mode != ModePvP {
				continue
			}
			if !CheckCollision(pr.X, pr.Y, pr.Radius, p.X, p.Y, p.Radius) {
				continue
			}
			r.hitPlayer(pr, p)
		}
		if !pr.Alive {
			return
		}
	}
}

// rollDamage applies the full modifier chain, in fixed order: shooter
// aura multiplier, crit roll, focus streak, burst addend, execution
// scaling, then the target's accumulated armor-reduction factor.
func (r *Room) rollDamage(shooter *Player, pr *Projectile, hp, maxHP, shred float64, track *hitTracker) float64 {
	dmg := pr.Damage
	if shooter != nil {
		if shooter.Aura == AuraPower {
			dmg *= PowerAuraMult
		}
		cc := pr.Mods.CritChance
		cm := pr.Mods.CritMult
		if shooter.Aura == AuraPrecision {
			cc += PrecisionCritBonus
			cm += PrecisionMultBonus
		}
		if cc > 0 && randFloat() < cc {
			if cm <= 0 {
				cm = DefaultCritMult
			}
			dmg *= cm
		}
	}
	streak, cold := track.touch(pr.OwnerID, r.now)
	if pr.Mods.Focus > 0 {
		dmg *= 1 + pr.Mods.Focus*float64(streak)
	}
	if cold && pr.Mods.Burst > 0 {
		dmg += pr.Mods.Burst
	}
	if pr.Mods.Execute > 0 && maxHP > 0 {
		dmg *= 1 + pr.Mods.Execute*(1-hp/maxHP)
	}
	dmg *= 1 + shred
	return dmg
}

func (r *Room) hitEnemy(pr *Projectile, e *Enemy) {
	shooter := r.Players[pr.OwnerID]
	dmg := r.rollDamage(shooter, pr, e.HP, e.MaxHP, e.Shred, &e.hits)
	pr.hitIDs[e.ID] = true

	if e.TakeDamage(dmg, pr.OwnerID) {
		r.onEnemyKilled(e)
	}
	if shooter != nil && pr.Mods.Vampire > 0 {
		shooter.Heal(dmg * pr.Mods.Vampire)
	}
	if pr.Mods.Knockback > 0 {
		r.knockback(pr, &e.VX, &e.VY)
	}
	if pr.Mods.Dot > 0 {
		e.addDot(pr.Mods.Dot, DefaultDotLife, pr.OwnerID)
	}
	if pr.Mods.Shred > 0 {
		e.Shred = math.Min(e.Shred+pr.Mods.Shred, ShredCap)
	}
	r.afterHit(pr)
}

func (r *Room) hitPlayer(pr *Projectile, p *Player) {
	shooter := r.Players[pr.OwnerID]
	dmg := r.rollDamage(shooter, pr, p.HP, p.MaxHP, 0, &p.hits)
	pr.hitIDs[p.ID] = true

	if p.TakeDamage(dmg) {
		r.onPlayerDeath(p, pr.OwnerID)
	}
	if shooter != nil && pr.Mods.Vampire > 0 {
		shooter.Heal(dmg * pr.Mods.Vampire)
	}
	if pr.Mods.Knockback > 0 {
		r.knockback(pr, &p.VX, &p.VY)
	}
	r.afterHit(pr)
}

// knockback applies an impulse along the projectile travel direction
func (r *Room) knockback(pr *Projectile, vx, vy *float64) {
	speed := math.Hypot(pr.VX, pr.VY)
	if speed < 1 {
		return
	}
	*vx += pr.VX / speed * pr.Mods.Knockback * KnockbackScale
	*vy += pr.VY / speed * pr.Mods.Knockback * KnockbackScale
}

// afterHit decides what a confirmed hit does to the projectile itself:
// explosion replaces the hit effect entirely; chain redirects the same
// instance while charges remain; otherwise pierce or terminal removal.
func (r *Room) afterHit(pr *Projectile) {
	if pr.Mods.ExplodeRadius > 0 {
		r.explode(pr)
		pr.Alive = false
		return
	}
	if pr.Mods.ChainCount > 0 {
		if tx, ty, ok := r.nearestChainTarget(pr); ok {
			pr.Mods.ChainCount--
			pr.redirect(tx, ty)
			return
		}
	}
	if pr.Mods.Pierce > 0 {
		pr.Mods.Pierce--
		return
	}
	pr.Alive = false
	r.pushEffect(EffectMsg{Type: "impact", X: pr.X, Y: pr.Y, Color: "#ffffff"})
}

// nearestChainTarget finds the closest untouched target within chain
// range. Candidates mirror the hit rules: enemies for player shots, and
// players whenever the shot could hit them (enemy fire, or pvp rooms).
func (r *Room) nearestChainTarget(pr *Projectile) (float64, float64, bool) {
	var tx, ty float64
	best := pr.Mods.ChainRange * pr.Mods.ChainRange
	found := false
	if !pr.Mods.FromEnemy {
		for _, e := range r.Enemies {
			if e.HP <= 0 || pr.hitIDs[e.ID] {
				continue
			}
			if e.Kind == EnemyGhost && e.Phased {
				continue
			}
			d2 := DistanceSq(pr.X, pr.Y, e.X, e.Y)
			if d2 < best {
				best = d2
				tx, ty = e.X, e.Y
				found = true
			}
		}
	}
	if pr.Mods.FromEnemy || r.Mode == ModePvP {
		for _, p := range r.Players {
			if p.Dead || p.ID == pr.OwnerID || pr.hitIDs[p.ID] {
				continue
			}
			d2 := DistanceSq(pr.X, pr.Y, p.X, p.Y)
			if d2 < best {
				best = d2
				tx, ty = p.X, p.Y
				found = true
			}
		}
	}
	return tx, ty, found
}

// explode deals area damage and an outward impulse to everyone within
// the blast radius, and emits the explosion effect
func (r *Room) explode(pr *Projectile) {
	rad := pr.Mods.ExplodeRadius
	dmg := pr.Mods.ExplodeDamage

	for _, e := range r.Enemies {
		if e.HP <= 0 || pr.Mods.FromEnemy {
			continue
		}
		if e.Kind == EnemyGhost && e.Phased {
			continue
		}
		d := Distance(pr.X, pr.Y, e.X, e.Y)
		if d > rad {
			continue
		}
		if e.TakeDamage(dmg, pr.OwnerID) {
			r.onEnemyKilled(e)
		}
		if d > 1 {
			e.VX += (e.X - pr.X) / d * ExplodeImpulse
			e.VY += (e.Y - pr.Y) / d * ExplodeImpulse
		}
	}
	for _, p := range r.Players {
		if p.Dead || p.ID == pr.OwnerID {
			continue
		}
		if !pr.Mods.FromEnemy && r.Mode != ModePvP {
			continue
		}
		d := Distance(pr.X, pr.Y, p.X, p.Y)
		if d > rad {
			continue
		}
		if p.TakeDamage(dmg) {
			r.onPlayerDeath(p, pr.OwnerID)
			if r.wiped {
				break
			}
		}
		if d > 1 {
			p.VX += (p.X - pr.X) / d * ExplodeImpulse
			p.VY += (p.Y - pr.Y) / d * ExplodeImpulse
		}
	}
	r.pushEffect(EffectMsg{Type: "explosion", X: pr.X, Y: pr.Y, Color: "#ff6622", Radius: rad, Strength: dmg})
}
