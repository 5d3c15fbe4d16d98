/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"

	"github.com/Seednode/letterclash/game"
	"github.com/Seednode/letterclash/scoring"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 32
)

const (
	msgRoomCreate   = "room:create"
	msgRoomJoin     = "room:join"
	msgSetRounds    = "lobby:setRounds"
	msgGameStart    = "game:start"
	msgTurnStart    = "turn:start"
	msgTurnSubmit   = "turn:submit"
	msgTurnContinue = "turn:continue"
	msgGameRestart  = "game:restart"

	msgAck        = "ack"
	msgRoomUpdate = "room:update"
)

const (
	errMalformed   = "Malformed message."
	errUnknown     = "Unknown command."
	errRateLimited = "Too many requests."
)

// Messages coming from clients
type ClientMessage struct {
	Type    string          `json:"type"`
	ID      *int64          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AckMessage struct {
	Type     string `json:"type"`
	ID       *int64 `json:"id,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	RoomID   string `json:"roomId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

type RoomUpdateMessage struct {
	Type string        `json:"type"`
	Room game.Snapshot `json:"room"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type createPayload struct {
	Name string `json:"name"`
}

type joinPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type roundsPayload struct {
	RoomID          string   `json:"roomId"`
	RoundsPerPlayer *float64 `json:"roundsPerPlayer"`
}

// rounds floors and clamps the requested count. A missing value yields nil.
func (p roundsPayload) rounds() *int {
	if p.RoundsPerPlayer == nil {
		return nil
	}
	n := int(min(max(math.Floor(*p.RoundsPerPlayer), game.MinRounds), game.MaxRounds))
	return &n
}

type turnStartPayload struct {
	RoomID     string `json:"roomId"`
	Letter     string `json:"letter"`
	OpponentID string `json:"opponentId"`
}

type submitPayload struct {
	RoomID  string          `json:"roomId"`
	Answers scoring.Answers `json:"answers"`
}

// Client is one websocket connection. roomID and playerID are only touched by
// the connection's own read loop.
type Client struct {
	id       string
	conn     *websocket.Conn
	send     chan any
	limiter  *rate.Limiter
	roomID   string
	playerID string
}

// Gateway routes websocket commands into the registry and fans room
// snapshots back out to every connection that belongs to the room.
type Gateway struct {
	cfg      *Config
	registry *game.Registry

	mu      sync.RWMutex
	members map[string]map[*Client]struct{}
}

func newGateway(cfg *Config) *Gateway {
	return &Gateway{
		cfg:     cfg,
		members: make(map[string]map[*Client]struct{}),
	}
}

// Broadcast is called with the room locked, so it never blocks: a client
// whose buffer is full is disconnected instead.
func (gw *Gateway) Broadcast(s game.Snapshot) {
	msg := RoomUpdateMessage{Type: msgRoomUpdate, Room: s}

	gw.mu.RLock()
	defer gw.mu.RUnlock()

	for c := range gw.members[s.ID] {
		c.deliver(msg)
	}
}

func (gw *Gateway) attach(code string, c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	set, ok := gw.members[code]
	if !ok {
		set = make(map[*Client]struct{})
		gw.members[code] = set
	}
	set[c] = struct{}{}
}

func (gw *Gateway) detach(code string, c *Client) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	set := gw.members[code]
	delete(set, c)
	if len(set) == 0 {
		delete(gw.members, code)
	}
}

func (gw *Gateway) connections() int {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	n := 0
	for _, set := range gw.members {
		n += len(set)
	}
	return n
}

// leave drops c from its current room, if any, and runs disconnect recovery.
// Creating or joining another room calls it only once the new seat exists.
func (gw *Gateway) leave(c *Client) {
	if c.roomID == "" {
		return
	}

	code, playerID := c.roomID, c.playerID
	c.roomID, c.playerID = "", ""

	gw.detach(code, c)
	gw.registry.Leave(code, playerID)

	logf(gw.cfg, "ROOMS: Connection %s left room %s", c.id, code)
}

func (gw *Gateway) enter(c *Client, room *game.Room, playerID string) {
	c.roomID, c.playerID = room.Code(), playerID

	gw.attach(c.roomID, c)

	// The snapshot emitted by create/join went out before this connection
	// was attached.
	c.deliver(RoomUpdateMessage{Type: msgRoomUpdate, Room: room.Snapshot()})
}

// actor returns the caller's player id within room, or "" when the
// connection belongs to a different room.
func (c *Client) actor(room *game.Room) string {
	if c.roomID != room.Code() {
		return ""
	}
	return c.playerID
}

func (c *Client) deliver(msg any) {
	select {
	case c.send <- msg:
	default:
		_ = c.conn.Close()
	}
}

func fail(err error) AckMessage {
	var gerr *game.Error
	if errors.As(err, &gerr) {
		return AckMessage{Error: gerr.Msg}
	}
	return AckMessage{Error: errMalformed}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}

// withRoom decodes a room-scoped payload and runs fn against the named room.
func withRoom[T any](gw *Gateway, raw json.RawMessage, roomID func(T) string, fn func(T, *game.Room) error) AckMessage {
	p, err := decode[T](raw)
	if err != nil {
		return AckMessage{Error: errMalformed}
	}

	room, err := gw.registry.Get(roomID(p))
	if err != nil {
		return fail(err)
	}

	if err := fn(p, room); err != nil {
		return fail(err)
	}

	return AckMessage{OK: true}
}

func (gw *Gateway) dispatch(c *Client, msg ClientMessage) AckMessage {
	switch msg.Type {
	case msgRoomCreate:
		p, err := decode[createPayload](msg.Payload)
		if err != nil {
			return AckMessage{Error: errMalformed}
		}

		room, playerID := gw.registry.Create(p.Name)
		gw.leave(c)
		gw.enter(c, room, playerID)

		return AckMessage{OK: true, RoomID: room.Code(), PlayerID: playerID}
	case msgRoomJoin:
		p, err := decode[joinPayload](msg.Payload)
		if err != nil {
			return AckMessage{Error: errMalformed}
		}

		if c.roomID != "" && c.roomID == game.NormalizeCode(p.RoomID) {
			return AckMessage{OK: true, RoomID: c.roomID, PlayerID: c.playerID}
		}

		room, playerID, err := gw.registry.Join(p.RoomID, p.Name)
		if err != nil {
			return fail(err)
		}
		gw.leave(c)
		gw.enter(c, room, playerID)

		return AckMessage{OK: true, RoomID: room.Code(), PlayerID: playerID}
	case msgSetRounds:
		return withRoom(gw, msg.Payload, func(p roundsPayload) string { return p.RoomID },
			func(p roundsPayload, room *game.Room) error {
				n := game.DefaultRounds
				if r := p.rounds(); r != nil {
					n = *r
				}
				return room.SetRounds(c.actor(room), n)
			})
	case msgGameStart:
		return withRoom(gw, msg.Payload, func(p roundsPayload) string { return p.RoomID },
			func(p roundsPayload, room *game.Room) error {
				return room.Start(c.actor(room), p.rounds())
			})
	case msgTurnStart:
		return withRoom(gw, msg.Payload, func(p turnStartPayload) string { return p.RoomID },
			func(p turnStartPayload, room *game.Room) error {
				return room.StartTurn(c.actor(room), p.Letter, p.OpponentID)
			})
	case msgTurnSubmit:
		return withRoom(gw, msg.Payload, func(p submitPayload) string { return p.RoomID },
			func(p submitPayload, room *game.Room) error {
				return room.Submit(c.actor(room), p.Answers)
			})
	case msgTurnContinue:
		return withRoom(gw, msg.Payload, func(p roomPayload) string { return p.RoomID },
			func(_ roomPayload, room *game.Room) error {
				return room.Continue(c.actor(room))
			})
	case msgGameRestart:
		return withRoom(gw, msg.Payload, func(p roomPayload) string { return p.RoomID },
			func(_ roomPayload, room *game.Room) error {
				return room.Restart(c.actor(room))
			})
	default:
		return AckMessage{Error: errUnknown}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(gw *Gateway) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			gw.cfg.log.Warn().Err(err).Str("remote", realIP(r)).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan any, sendBuffer),
			limiter: rate.NewLimiter(rate.Limit(gw.cfg.rateLimit), gw.cfg.rateBurst),
		}

		logf(gw.cfg, "SERVE: Websocket %s opened by %s", client.id, realIP(r))

		go client.writePump()
		client.readPump(gw)

		logf(gw.cfg, "SERVE: Websocket %s closed", client.id)
	}
}

func (c *Client) readPump(gw *Gateway) {
	defer func() {
		gw.leave(c)
		close(c.send)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.deliver(AckMessage{Type: msgAck, Error: errMalformed})
			continue
		}

		var ack AckMessage
		if c.limiter.Allow() {
			ack = gw.dispatch(c, msg)
		} else {
			ack = AckMessage{Error: errRateLimited}
		}

		if msg.Type == msgSetRounds && msg.ID == nil {
			continue
		}

		ack.Type, ack.ID = msgAck, msg.ID
		c.deliver(ack)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
