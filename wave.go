package main

// Wave director states (coop rooms only)
const (
	WaveIdle     = "idle"
	WaveSpawning = "spawning"
	WaveFight    = "fight"
)

const (
	WaveSpawnWindow = 5.0  // seconds the spawning state lasts
	WaveSpawnChance = 0.08 // per-tick spawn roll during the window
	BossWaveEvery   = 5
	WaveCapBase     = 4
	WaveCapPerWave  = 2
	WaveCapMax      = 40
	SpawnEdgeJitter = 120.0
)

func waveSpawnCap(wave int) int {
	cap := WaveCapBase + WaveCapPerWave*wave
	if cap > WaveCapMax {
		cap = WaveCapMax
	}
	return cap
}

// stepWave advances the room's wave state machine one tick
func (r *Room) stepWave(dt float64) {
	switch r.WaveState {
	case WaveIdle:
		if r.presentPlayerCount() == 0 {
			return
		}
		r.WaveNum++
		r.BossSpawned = false
		r.WaveTimer = WaveSpawnWindow
		r.spawnedThisWave = 0
		r.deathsThisWave = 0
		r.WaveState = WaveSpawning
		r.broadcastMsg(Envelope{T: MsgWaveStart, Data: WaveStartMsg{Wave: r.WaveNum}})
		r.track(EvtWaveStart)

	case WaveSpawning:
		r.WaveTimer -= dt
		if r.spawnedThisWave < waveSpawnCap(r.WaveNum) && randFloat() < WaveSpawnChance {
			r.spawnWaveEnemy()
		}
		if r.WaveTimer <= 0 {
			r.WaveState = WaveFight
		}

	case WaveFight:
		if r.WaveNum%BossWaveEvery == 0 && !r.BossSpawned && !r.hasBoss() {
			r.spawnBoss()
		}
		if len(r.Enemies) == 0 {
			r.reportWaveCleared()
			r.WaveState = WaveIdle
		}
	}
}

// spawnWaveEnemy rolls an archetype gated by the wave number and places
// it at one of the four arena-edge spawn zones
func (r *Room) spawnWaveEnemy() {
	var total float64
	for _, d := range archetypes {
		if r.WaveNum >= d.MinWave {
			total += d.Weight
		}
	}
	roll := randFloat() * total
	kind := EnemyStandard
	for _, d := range archetypes {
		if r.WaveNum < d.MinWave {
			continue
		}
		roll -= d.Weight
		if roll <= 0 {
			kind = d.Kind
			break
		}
	}
	x, y := r.edgeSpawnPoint()
	r.Enemies = append(r.Enemies, NewEnemy(kind, r.WaveNum, x, y))
	r.spawnedThisWave++
}

// edgeSpawnPoint picks one of the four edge spawn zones with jitter
func (r *Room) edgeSpawnPoint() (float64, float64) {
	w, h := r.Map.Width, r.Map.Height
	jx := randRange(-SpawnEdgeJitter, SpawnEdgeJitter)
	switch int(randFloat() * 4) {
	case 0: // left
		return 10, Clamp(h/2+jx, 10, h-10)
	case 1: // right
		return w - 10, Clamp(h/2+jx, 10, h-10)
	case 2: // top
		return Clamp(w/2+jx, 10, w-10), 10
	default: // bottom
		return Clamp(w/2+jx, 10, w-10), h - 10
	}
}

func (r *Room) hasBoss() bool {
	for _, e := range r.Enemies {
		if e.Kind == EnemyBossKind {
			return true
		}
	}
	return false
}

// spawnBoss spawns the wave boss once, guarded by the boss-spawned flag
func (r *Room) spawnBoss() {
	x, y := r.edgeSpawnPoint()
	boss := NewBoss(r.WaveNum, x, y)
	r.Enemies = append(r.Enemies, boss)
	r.BossSpawned = true
	r.broadcastMsg(Envelope{T: MsgBossSpawn, Data: BossSpawnMsg{Wave: r.WaveNum, HP: boss.MaxHP}})
	r.track(EvtBossSpawn)
}

// reportWaveCleared reports death-free and wave-count milestones to the
// title system and persists wave progress for authenticated players
func (r *Room) reportWaveCleared() {
	for _, p := range r.Players {
		r.checkTitles(p, r.WaveNum, r.deathsThisWave == 0)
		if p.AuthID != 0 && r.reg != nil && r.reg.db != nil {
			authID := p.AuthID
			go r.reg.db.AddWaveCleared(authID)
		}
	}
}

// wipeReset performs the coop full-wipe: wave counter, enemies and
// projectiles cleared, everyone restored at the default spawn point
func (r *Room) wipeReset() {
	r.WaveNum = 0
	r.WaveState = WaveIdle
	r.BossSpawned = false
	r.Enemies = r.Enemies[:0]
	r.Projectiles = r.Projectiles[:0]
	for _, p := range r.Players {
		p.RespawnAt(r.Map.SpawnX, r.Map.SpawnY)
	}
	r.pushEffect(EffectMsg{Type: "wipe", X: r.Map.SpawnX, Y: r.Map.SpawnY, Color: "#ff0000"})
	r.track(EvtWipe)
}
