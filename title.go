package main

// Title definitions
type TitleDef struct {
	ID          string
	Name        string
	Description string
}

var Titles = []TitleDef{
	{"first_blood", "First Blood", "Get your first kill"},
	{"rampage", "Rampage", "Reach a 10 kill streak"},
	{"unstoppable", "Unstoppable", "Reach a 25 kill streak"},
	{"survivor", "Survivor", "Clear wave 5"},
	{"veteran", "Veteran", "Clear wave 10"},
	{"warlord", "Warlord", "Clear wave 20"},
	{"untouchable", "Untouchable", "Clear a wave without any player dying"},
	{"bossbane", "Bossbane", "Reach level 10"},
	{"elite", "Elite", "Reach level 25"},
	{"legend", "Legend", "Reach level 50"},
}

// checkTitles unlocks any titles the player now qualifies for and
// announces them. Persisted for authenticated players only; guests keep
// unlocks for the lifetime of the session.
func (r *Room) checkTitles(p *Player, wave int, deathFreeWave bool) {
	check := func(id string) bool {
		switch id {
		case "first_blood":
			return p.Kills >= 1
		case "rampage":
			return p.Streak >= 10
		case "unstoppable":
			return p.Streak >= 25
		case "survivor":
			return wave >= 5
		case "veteran":
			return wave >= 10
		case "warlord":
			return wave >= 20
		case "untouchable":
			return deathFreeWave && wave >= 1
		case "bossbane":
			return p.Level >= 10
		case "elite":
			return p.Level >= 25
		case "legend":
			return p.Level >= 50
		}
		return false
	}

	for _, def := range Titles {
		if p.Unlocks[def.ID] || !check(def.ID) {
			continue
		}
		p.Unlocks[def.ID] = true
		if c, ok := r.clients[p.ID]; ok {
			c.SendJSON(Envelope{T: MsgTitle, Data: TitleMsg{ID: def.ID, Name: def.Name}})
		}
		if p.AuthID != 0 && r.reg != nil && r.reg.db != nil {
			authID, titleID := p.AuthID, def.ID
			go r.reg.db.UnlockTitle(authID, titleID)
		}
	}
}
