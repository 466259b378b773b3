package main

import "math"

// Kill rewards. Enemy rewards scale with the wave the room has reached,
// boss and pvp kills pay a flat premium.
const (
	KillXPBase     = 10
	KillXPPerWave  = 2
	KillMoneyBase  = 5
	BossXPBonus    = 150
	BossMoneyBonus = 75
	PvPKillXP      = 25
	PvPKillMoney   = 10
	StreakXPBonus  = 5 // per kill already in the streak
)

// XPForLevel returns the total XP required to reach a given level.
// Level 1 requires 0 XP, level 2 requires 100, etc.
// Formula: sum of 100 * i^1.5 for i in 1..level-1
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0.0
	for i := 1; i < level; i++ {
		total += 100.0 * math.Pow(float64(i), 1.5)
	}
	return int(total)
}

// XPToNextLevel returns XP needed from current level to reach the next level
func XPToNextLevel(level int) int {
	return XPForLevel(level+1) - XPForLevel(level)
}

// CalculateLevel returns the level for a given total XP amount
func CalculateLevel(totalXP int) int {
	level := 1
	for {
		needed := XPForLevel(level + 1)
		if totalXP < needed {
			return level
		}
		level++
		if level > 100 { // cap at 100
			return 100
		}
	}
}

// onEnemyKilled credits the killer and announces the kill. Removal of
// the corpse (or its pvp respawn) is the enemy pass's job, not ours.
func (r *Room) onEnemyKilled(e *Enemy) {
	killer := r.Players[e.killerID]
	killerName := ""
	if killer != nil {
		killerName = killer.Name
	}

	r.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
		KillerID: e.killerID, KillerName: killerName,
		VictimID: e.ID, VictimType: string(e.Kind),
	}})
	r.pushEffect(EffectMsg{Type: "explosion", X: e.X, Y: e.Y, Color: "#ffaa00", Radius: e.Radius * 2})
	r.track(EvtEnemyKill)

	if killer == nil || killer.Dead {
		return
	}
	killer.Kills++
	killer.Streak++

	xp := KillXPBase + KillXPPerWave*r.WaveNum + StreakXPBonus*(killer.Streak-1)
	money := KillMoneyBase
	if e.Kind == EnemyBossKind {
		xp += BossXPBonus
		money += BossMoneyBonus
		if killer.AuthID != 0 && r.reg != nil && r.reg.db != nil {
			authID := killer.AuthID
			go r.reg.db.AddBossKill(authID)
		}
	}
	r.grantXP(killer, xp, money)
	r.checkTitles(killer, r.WaveNum, false)

	if killer.AuthID != 0 && r.reg != nil && r.reg.db != nil {
		authID := killer.AuthID
		go r.reg.db.AddKill(authID)
	}
}

// awardPlayerKill credits a pvp player kill
func (r *Room) awardPlayerKill(killer *Player) {
	killer.Kills++
	killer.Streak++
	r.grantXP(killer, PvPKillXP, PvPKillMoney)
	r.checkTitles(killer, r.WaveNum, false)
	if killer.AuthID != 0 && r.reg != nil && r.reg.db != nil {
		authID := killer.AuthID
		go r.reg.db.AddKill(authID)
	}
}

// grantXP applies an xp and money award and handles level-ups. Database
// writes happen off the tick goroutine.
func (r *Room) grantXP(p *Player, xp, money int) {
	p.XP += xp
	p.Money += money

	newLevel := CalculateLevel(p.XP)
	if newLevel > p.Level {
		p.Level = newLevel
		if c, ok := r.clients[p.ID]; ok {
			c.SendJSON(Envelope{T: MsgLevelUp, Data: LevelUpMsg{
				Level: newLevel, XP: p.XP, Next: XPForLevel(newLevel + 1),
			}})
		}
		r.pushEffect(EffectMsg{Type: "levelup", X: p.X, Y: p.Y, Color: "#44aaff", Radius: 40})
		r.track(EvtLevelUp)
	}

	if p.AuthID != 0 && r.reg != nil && r.reg.db != nil {
		authID := p.AuthID
		go r.reg.db.AddXP(authID, xp, money)
	}
}
