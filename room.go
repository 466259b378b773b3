package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Room modes
const (
	ModePvP  = "pvp"
	ModeCoop = "coop"
)

const (
	maxRooms          = 200
	maxPlayersPerRoom = 20
	pvpSeedEnemies    = 3
)

// Broadcaster is the outbound side of a connected client as the
// simulation sees it
type Broadcaster interface {
	SendJSON(msg interface{})
}

// Room is one isolated simulation instance. All mutation happens inside
// the tick loop or in direct response to an inbound command under the
// room mutex, never concurrently.
type Room struct {
	ID   string
	Mode string
	Map  *MapDef

	mu          sync.Mutex
	Players     map[string]*Player
	Enemies     []*Enemy
	Projectiles []*Projectile
	Grid        *SpatialGrid

	WaveState   string
	WaveNum     int
	WaveTimer   float64
	BossSpawned bool

	spectators      map[string]Broadcaster
	clients         map[string]Broadcaster // playerID/spectatorID -> client
	spawnedThisWave int
	deathsThisWave  int
	now             float64 // accumulated sim time, seconds
	wiped           bool    // set by wipeReset to abort in-flight passes
	playerList      []*Player
	queryBuf        []EntityRef
	effects         []Envelope

	reg *Registry
}

func newRoom(id, mode, mapName string, reg *Registry) *Room {
	r := &Room{
		ID:         id,
		Mode:       mode,
		Map:        GetMap(mapName),
		Players:    make(map[string]*Player),
		Grid:       NewSpatialGrid(),
		WaveState:  WaveIdle,
		spectators: make(map[string]Broadcaster),
		clients:    make(map[string]Broadcaster),
		reg:        reg,
	}
	if mode == ModePvP {
		// PvP arenas carry permanent hazard enemies that respawn in
		// place instead of despawning
		for i := 0; i < pvpSeedEnemies; i++ {
			e := NewEnemy(EnemyStandard, 1, randRange(50, r.Map.Width-50), randRange(50, r.Map.Height-50))
			r.Enemies = append(r.Enemies, e)
		}
	}
	return r
}

// Step advances the room one tick. A fault in one room is caught here
// and must not reach the scheduler loop or other rooms.
func (r *Room) Step(dt float64, broadcast bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if err := recover(); err != nil {
			log.Printf("room %s: tick fault: %v", r.ID, err)
		}
	}()

	r.now += dt
	r.wiped = false

	if r.Mode == ModeCoop {
		r.stepWave(dt)
	}
	r.rebuildGrid()
	r.stepProjectiles(dt)
	if !r.wiped {
		r.stepEnemies(dt)
	}
	for _, p := range r.Players {
		p.Update(dt, r.Map)
	}
	r.flushEffects()
	if broadcast {
		r.broadcastState()
	}
}

// rebuildGrid clears and refills the grid from every live entity.
// Always runs before any query in the same tick.
func (r *Room) rebuildGrid() {
	r.Grid.Clear()
	r.playerList = r.playerList[:0]
	for _, p := range r.Players {
		idx := len(r.playerList)
		r.playerList = append(r.playerList, p)
		r.Grid.Insert(p.X, p.Y, EntityRef{KindPlayer, idx})
	}
	for i, e := range r.Enemies {
		r.Grid.Insert(e.X, e.Y, EntityRef{KindEnemy, i})
	}
	for i, pr := range r.Projectiles {
		r.Grid.Insert(pr.X, pr.Y, EntityRef{KindProjectile, i})
	}
}

func (r *Room) addProjectile(pr *Projectile) {
	if len(r.Projectiles) >= maxRoomProjCount {
		return
	}
	r.Projectiles = append(r.Projectiles, pr)
}

func (r *Room) nearestLivingPlayer(x, y float64) *Player {
	var best *Player
	bestD := math.MaxFloat64
	for _, p := range r.Players {
		if p.Dead {
			continue
		}
		d := DistanceSq(x, y, p.X, p.Y)
		if d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

func (r *Room) presentPlayerCount() int {
	return len(r.Players)
}

// onPlayerDeath handles a player reaching 0 hp: pvp respawns in place,
// coop marks the player dead and may trigger the full wipe reset
func (r *Room) onPlayerDeath(p *Player, killerID string) {
	p.Deaths++
	p.Streak = 0
	r.deathsThisWave++

	killerName := killerID
	if k, ok := r.Players[killerID]; ok {
		killerName = k.Name
	}
	r.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
		KillerID: killerID, KillerName: killerName,
		VictimID: p.ID, VictimType: "player",
	}})
	if c, ok := r.clients[p.ID]; ok {
		c.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{KillerID: killerID}})
	}
	r.pushEffect(EffectMsg{Type: "explosion", X: p.X, Y: p.Y, Color: "#ff4444", Radius: 30})

	if killer, ok := r.Players[killerID]; ok && killer != p {
		r.awardPlayerKill(killer)
	}
	if p.AuthID != 0 && r.reg != nil && r.reg.db != nil {
		authID := p.AuthID
		go r.reg.db.AddDeath(authID)
	}
	r.track(EvtPlayerDeath)

	if r.Mode == ModeCoop {
		p.MarkDead()
		for _, other := range r.Players {
			if !other.Dead {
				return
			}
		}
		r.wipeReset()
		r.wiped = true
		return
	}
	p.RespawnAt(p.X, p.Y)
}

// pushEffect queues a cosmetic notification for the end of the tick
func (r *Room) pushEffect(fx EffectMsg) {
	r.effects = append(r.effects, Envelope{T: MsgEffect, Data: fx})
}

func (r *Room) flushEffects() {
	for _, env := range r.effects {
		r.broadcastMsg(env)
	}
	r.effects = r.effects[:0]
}

// broadcastMsg sends one message to every client in the room
func (r *Room) broadcastMsg(env Envelope) {
	for _, c := range r.clients {
		c.SendJSON(env)
	}
}

// buildState snapshots the room for broadcast
func (r *Room) buildState() RoomState {
	state := RoomState{
		Players:     make([]PlayerState, 0, len(r.Players)),
		Enemies:     make([]EnemyState, 0, len(r.Enemies)),
		Projectiles: make([]ProjectileState, 0, len(r.Projectiles)),
		Wave:        r.WaveNum,
		WaveState:   r.WaveState,
		Walls:       r.Map.Walls,
		Map:         r.Map.Name,
	}
	for _, p := range r.Players {
		state.Players = append(state.Players, p.ToState())
		state.Score += p.Kills
	}
	for _, e := range r.Enemies {
		state.Enemies = append(state.Enemies, e.ToState())
	}
	for _, pr := range r.Projectiles {
		state.Projectiles = append(state.Projectiles, pr.ToState())
	}
	return state
}

// broadcastState emits the snapshot; each payload is marshaled once.
// Clients that opted in receive a msgpack binary frame instead of JSON.
func (r *Room) broadcastState() {
	env := Envelope{T: MsgState, Data: r.buildState()}
	jsonData, err := json.Marshal(env)
	if err != nil {
		return
	}
	var packed []byte
	for _, client := range r.clients {
		c, ok := client.(*Client)
		if !ok {
			client.SendJSON(env)
			continue
		}
		if c.wantBinary {
			if packed == nil {
				packed, err = msgpack.Marshal(env)
				if err != nil {
					continue
				}
			}
			c.SendBinary(packed)
		} else {
			c.SendRaw(jsonData)
		}
	}
}

func (r *Room) track(evtType string) {
	if r.reg != nil && r.reg.analytics != nil {
		r.reg.analytics.Track(evtType, 0, r.ID, "")
	}
}

// ---- Inbound commands; all take the room mutex and therefore never
// run concurrently with the tick body for this room ----

// HandleMove sets a player's velocity. Inputs are trusted.
func (r *Room) HandleMove(playerID string, msg MoveMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.Players[playerID]
	if p == nil || p.Dead {
		return
	}
	p.VX = msg.VX
	p.VY = msg.VY
}

// HandleFire enqueues a projectile owned by the sending player
func (r *Room) HandleFire(playerID string, msg FireMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.Players[playerID]
	if p == nil || p.Dead {
		return
	}
	r.addProjectile(NewProjectile(playerID, msg))
}

// HandleAura sets the player's active aura
func (r *Room) HandleAura(playerID string, aura string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.Players[playerID]
	if p == nil || !validAuras[aura] {
		return
	}
	p.Aura = aura
}

// Registry owns the roomID -> Room table. Rooms are created on first
// join and destroyed when their combined player+spectator count hits 0.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]*Room
	db        *DB
	analytics *Analytics
}

// NewRegistry creates an empty room registry
func NewRegistry(db *DB, analytics *Analytics) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		db:        db,
		analytics: analytics,
	}
}

// Rooms returns a snapshot of all live rooms for the scheduler
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// GetRoom returns a room by id, or nil
func (reg *Registry) GetRoom(id string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[id]
}

// RoomCount returns the number of live rooms
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Join attaches a client to a room as a player or spectator, creating
// the room on first join to an unknown id
func (reg *Registry) Join(roomID, mode, mapName, name string, spectator bool, authID int64, clientID string, client Broadcaster) (*Room, *Player, error) {
	if mode != ModePvP && mode != ModeCoop {
		mode = ModeCoop
	}

	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	if !ok {
		if len(reg.rooms) >= maxRooms {
			reg.mu.Unlock()
			return nil, nil, fmt.Errorf("too many active rooms")
		}
		room = newRoom(roomID, mode, mapName, reg)
		reg.rooms[roomID] = room
	}
	reg.mu.Unlock()

	// Profile read happens before taking the room mutex so the tick
	// loop never waits on the database
	var profile *ProfileRow
	if !spectator && authID != 0 && reg.db != nil {
		profile, _ = reg.db.LoadProfile(authID)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if spectator {
		room.spectators[clientID] = client
		room.clients[clientID] = client
		client.SendJSON(Envelope{T: MsgInit, Data: InitMsg{
			PlayerID:  clientID,
			Spectator: true,
			State:     room.buildState(),
		}})
		return room, nil, nil
	}

	if len(room.Players) >= maxPlayersPerRoom {
		return nil, nil, fmt.Errorf("room full")
	}

	p := NewPlayer(GenerateID(4), name, room.Map)
	p.AuthID = authID
	if profile != nil {
		p.Level = profile.Level
		p.XP = profile.XP
		p.Money = profile.Money
		for _, u := range profile.Unlocks {
			p.Unlocks[u] = true
		}
		for k, v := range profile.Limits {
			p.Limits[k] = v
		}
	}
	room.Players[p.ID] = p
	room.clients[p.ID] = client

	unlocks := make([]string, 0, len(p.Unlocks))
	for u := range p.Unlocks {
		unlocks = append(unlocks, u)
	}
	client.SendJSON(Envelope{T: MsgInit, Data: InitMsg{
		PlayerID: p.ID,
		State:    room.buildState(),
		Level:    p.Level,
		XP:       p.XP,
		Money:    p.Money,
		Unlocks:  unlocks,
		Limits:   p.Limits,
	}})
	return room, p, nil
}

// Leave removes a player or spectator from a room and destroys the
// room once it is empty. Unknown rooms and ids are no-ops.
func (reg *Registry) Leave(roomID, id string) {
	reg.mu.RLock()
	room := reg.rooms[roomID]
	reg.mu.RUnlock()
	if room == nil {
		return
	}

	room.mu.Lock()
	delete(room.Players, id)
	delete(room.spectators, id)
	delete(room.clients, id)
	empty := len(room.Players)+len(room.spectators) == 0
	room.mu.Unlock()

	if empty {
		reg.mu.Lock()
		if r, ok := reg.rooms[roomID]; ok && r == room {
			delete(reg.rooms, roomID)
		}
		reg.mu.Unlock()
	}
}
