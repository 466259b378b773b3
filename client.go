package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 60
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string
	roomID     string
	remoteAddr string
	spectator  bool
	wantBinary bool // client asked for msgpack state frames
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Binary move messages: 5 bytes [0x01, vx_hi, vx_lo, vy_hi, vy_lo]
		if msgType == websocket.BinaryMessage && len(message) == 5 && message[0] == 0x01 {
			c.handleBinaryMove(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgJoinRoom:
		c.handleJoinRoom(env.D)
	case MsgMove:
		c.handleMove(env.D)
	case MsgFire:
		c.handleFire(env.D)
	case MsgAura:
		c.handleAura(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgBinary:
		c.wantBinary = true
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgBoard:
		c.handleLeaderboard(env.D)
	}
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.roomID != "" {
		c.handleLeave()
	}

	name := msg.Name
	if name == "" {
		if c.authUsername != "" {
			name = c.authUsername
		} else {
			name = GenerateGuestName()
		}
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	roomID := msg.Room
	if roomID == "" {
		roomID = "lobby"
	}
	if len(roomID) > 30 {
		roomID = roomID[:30]
	}

	if msg.Spectator {
		specID := "spec_" + GenerateID(4)
		_, _, err := c.hub.registry.Join(roomID, msg.Mode, msg.Map, name, true, 0, specID, c)
		if err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
			return
		}
		c.roomID = roomID
		c.playerID = specID
		c.spectator = true
		return
	}

	_, p, err := c.hub.registry.Join(roomID, msg.Mode, msg.Map, name, false, c.authPlayerID, "", c)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.roomID = roomID
	c.playerID = p.ID
	c.spectator = false
	c.hub.analytics.Track(EvtSessionStart, c.authPlayerID, roomID, "")
}

// handleBinaryMove decodes a compact 5-byte binary move message
func (c *Client) handleBinaryMove(msg []byte) {
	if c.roomID == "" || c.playerID == "" || c.spectator {
		return
	}
	// Decode: [0x01, vx_hi, vx_lo, vy_hi, vy_lo], velocity as int16
	vx := float64(int16(uint16(msg[1])<<8 | uint16(msg[2])))
	vy := float64(int16(uint16(msg[3])<<8 | uint16(msg[4])))

	room := c.hub.registry.GetRoom(c.roomID)
	if room == nil {
		return
	}
	room.HandleMove(c.playerID, MoveMsg{VX: vx, VY: vy})
}

func (c *Client) handleMove(data json.RawMessage) {
	if c.roomID == "" || c.playerID == "" || c.spectator {
		return
	}
	var msg MoveMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room := c.hub.registry.GetRoom(c.roomID)
	if room == nil {
		return
	}
	room.HandleMove(c.playerID, msg)
}

func (c *Client) handleFire(data json.RawMessage) {
	if c.roomID == "" || c.playerID == "" || c.spectator {
		return
	}
	var msg FireMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room := c.hub.registry.GetRoom(c.roomID)
	if room == nil {
		return
	}
	room.HandleFire(c.playerID, msg)
}

func (c *Client) handleAura(data json.RawMessage) {
	if c.roomID == "" || c.playerID == "" || c.spectator {
		return
	}
	var msg AuraMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	room := c.hub.registry.GetRoom(c.roomID)
	if room == nil {
		return
	}
	room.HandleAura(c.playerID, msg.Aura)
}

func (c *Client) handleLeave() {
	if c.roomID == "" {
		return
	}
	c.hub.registry.Leave(c.roomID, c.playerID)
	if !c.spectator {
		c.hub.analytics.Track(EvtSessionEnd, c.authPlayerID, c.roomID, "")
	}
	c.roomID = ""
	c.playerID = ""
	c.spectator = false
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	profile, err := c.hub.db.LoadProfile(c.authPlayerID)
	if err != nil || profile == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username: profile.Username,
		Level:    profile.Level,
		XP:       profile.XP,
		Money:    profile.Money,
		Kills:    profile.Kills,
		Deaths:   profile.Deaths,
		Waves:    profile.Waves,
		Bosses:   profile.Bosses,
		Titles:   profile.Unlocks,
	}})
}

func (c *Client) handleLeaderboard(data json.RawMessage) {
	if c.hub.db == nil {
		return
	}
	var msg BoardMsg
	if len(data) > 0 {
		json.Unmarshal(data, &msg)
	}
	entries, err := c.hub.db.GetLeaderboard(msg.OrderBy, 20)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "leaderboard unavailable"}})
		return
	}
	c.SendJSON(Envelope{T: MsgBoardData, Data: entries})
}
