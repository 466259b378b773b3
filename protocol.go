package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoinRoom = "join_room"
	MsgMove     = "move"
	MsgFire     = "fire"
	MsgAura     = "aura"
	MsgLeave    = "leave"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth"
	MsgProfile  = "profile"
	MsgBoard    = "leaderboard"
	MsgBinary   = "binary" // opt in to msgpack state frames
)

// Server -> Client message types
const (
	MsgInit        = "init"
	MsgState       = "state"
	MsgWaveStart   = "wave_start"
	MsgBossSpawn   = "boss_spawn"
	MsgEffect      = "visual_effect"
	MsgKill        = "kill"
	MsgDeath       = "death"
	MsgTitle       = "title"
	MsgLevelUp     = "level_up"
	MsgError       = "error"
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgBoardData   = "leaderboard_data"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t" msgpack:"t"`
	Data interface{} `json:"d,omitempty" msgpack:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinRoomMsg attaches the client to a room, creating it on first join
type JoinRoomMsg struct {
	Room      string `json:"room"`
	Mode      string `json:"mode"` // "pvp" | "coop"
	Map       string `json:"map,omitempty"`
	Spectator bool   `json:"spec,omitempty"`
	Name      string `json:"name"`
}

// MoveMsg sets the player's velocity; inputs are trusted
type MoveMsg struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// FireMsg enqueues a projectile owned by the sending player.
// Absent modifiers stay at their zero value, which means disabled.
type FireMsg struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Radius   float64 `json:"radius,omitempty"`
	Lifetime float64 `json:"lifetime,omitempty"`
	Damage   float64 `json:"damage,omitempty"`

	Homing        float64 `json:"homing,omitempty"`
	Orbit         bool    `json:"orbit,omitempty"`
	OrbitRadius   float64 `json:"orbitRadius,omitempty"`
	OrbitSpeed    float64 `json:"orbitSpeed,omitempty"`
	Accel         float64 `json:"accel,omitempty"`
	Spin          float64 `json:"spin,omitempty"`
	WaveAmp       float64 `json:"waveAmp,omitempty"`
	WaveFreq      float64 `json:"waveFreq,omitempty"`
	Bounce        float64 `json:"bounce,omitempty"`
	Pierce        int     `json:"pierce,omitempty"`
	ChainRange    float64 `json:"chainRange,omitempty"`
	ChainCount    int     `json:"chainCount,omitempty"`
	ExplodeRadius float64 `json:"explodeRadius,omitempty"`
	ExplodeDamage float64 `json:"explodeDamage,omitempty"`
	Vampire       float64 `json:"vampire,omitempty"`
	Knockback     float64 `json:"knockback,omitempty"`
	CritChance    float64 `json:"critChance,omitempty"`
	CritMult      float64 `json:"critMult,omitempty"`
	Focus         float64 `json:"focus,omitempty"`
	Burst         float64 `json:"burst,omitempty"`
	Execute       float64 `json:"execute,omitempty"`
	Shred         float64 `json:"shred,omitempty"`
	Dot           float64 `json:"dot,omitempty"`
	Split         int     `json:"split,omitempty"`
}

// AuraMsg selects the player's active aura
type AuraMsg struct {
	Aura string `json:"aura"`
}

// PlayerState is broadcast per player
type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"n" msgpack:"n"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	HP     float64 `json:"hp" msgpack:"hp"`
	MaxHP  float64 `json:"mhp" msgpack:"mhp"`
	Kills  int     `json:"k" msgpack:"k"`
	Deaths int     `json:"d" msgpack:"d"`
	Streak int     `json:"ks" msgpack:"ks"`
	Level  int     `json:"lv" msgpack:"lv"`
	Aura   string  `json:"au,omitempty" msgpack:"au,omitempty"`
	Dead   bool    `json:"dead,omitempty" msgpack:"dead,omitempty"`
}

// EnemyState is broadcast per enemy
type EnemyState struct {
	ID     string  `json:"id" msgpack:"id"`
	Type   string  `json:"t" msgpack:"t"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	HP     float64 `json:"hp" msgpack:"hp"`
	MaxHP  float64 `json:"mhp" msgpack:"mhp"`
	Phased bool    `json:"ph,omitempty" msgpack:"ph,omitempty"`
	Boss   string  `json:"bs,omitempty" msgpack:"bs,omitempty"` // boss sub-state
}

// ProjectileState is broadcast per projectile; X/Y carry the render
// position (wave offset applied), not the physics position
type ProjectileState struct {
	ID     string  `json:"id" msgpack:"id"`
	Owner  string  `json:"o" msgpack:"o"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"r" msgpack:"r"`
}

// RoomState is the full state broadcast at the snapshot cadence
type RoomState struct {
	Players     []PlayerState     `json:"p" msgpack:"p"`
	Enemies     []EnemyState      `json:"e" msgpack:"e"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	Score       int               `json:"sc" msgpack:"sc"`
	Wave        int               `json:"w" msgpack:"w"`
	WaveState   string            `json:"ws" msgpack:"ws"`
	Walls       []Wall            `json:"walls" msgpack:"walls"`
	Map         string            `json:"map" msgpack:"map"`
}

// InitMsg is sent once on join
type InitMsg struct {
	PlayerID  string            `json:"id"`
	Spectator bool              `json:"spec"`
	State     RoomState         `json:"state"`
	Level     int               `json:"lv"`
	XP        int               `json:"xp"`
	Money     int               `json:"money"`
	Unlocks   []string          `json:"unlocks"`
	Limits    map[string]float64 `json:"limits"`
}

// WaveStartMsg announces a wave transition
type WaveStartMsg struct {
	Wave int `json:"wave"`
}

// BossSpawnMsg announces a boss entering the arena
type BossSpawnMsg struct {
	Wave int     `json:"wave"`
	HP   float64 `json:"hp"`
}

// EffectMsg is a cosmetic notification, not authoritative state
type EffectMsg struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color,omitempty"`
	Strength float64 `json:"strength,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
}

// KillMsg is broadcast to all clients in a room
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	VictimID   string `json:"vid"`
	VictimType string `json:"vt"` // "player" or enemy archetype
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID string `json:"kid"`
}

// TitleMsg notifies a newly unlocked title
type TitleMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LevelUpMsg notifies a level-up
type LevelUpMsg struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
	Next  int `json:"next"` // total xp needed for the next level
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg returns the persisted profile
type ProfileDataMsg struct {
	Username string   `json:"username"`
	Level    int      `json:"level"`
	XP       int      `json:"xp"`
	Money    int      `json:"money"`
	Kills    int      `json:"kills"`
	Deaths   int      `json:"deaths"`
	Waves    int      `json:"waves"`
	Bosses   int      `json:"bosses"`
	Titles   []string `json:"titles"`
}

// BoardMsg requests the leaderboard
type BoardMsg struct {
	OrderBy string `json:"by"`
}
