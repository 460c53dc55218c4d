// Package transport is the realtime event bus: a room-per-game model where
// one websocket connection is associated with a user id and every game
// that user is part of pushes a new-events stream to it. The gateway never
// touches truco semantics directly; every game action from a client becomes
// a match.Event sent to the relevant Table.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"truco-lite/card"
	"truco-lite/match"
	"truco-lite/truco"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to known origins once a client domain exists.
	},
}

// Gateway manages websocket connections and routes their messages to the
// Lobby's game actors.
type Gateway struct {
	mu        sync.RWMutex
	byUser    map[truco.PlayerId]*Connection
	nextConnId uint64

	lobby *match.Lobby
}

func New(lobby *match.Lobby) *Gateway {
	return &Gateway{
		byUser: make(map[truco.PlayerId]*Connection),
		lobby:  lobby,
	}
}

// Connection is a single websocket client, registered to a user id once it
// sends register-connection.
type Connection struct {
	id      uint64
	userId  truco.PlayerId
	conn    *websocket.Conn
	send    chan []byte
	gateway *Gateway

	registered bool
}

func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnId++
	c := &Connection{
		id:      g.nextConnId,
		conn:    conn,
		send:    make(chan []byte, 256),
		gateway: g,
	}
	g.mu.Unlock()

	log.Printf("[gateway] connection %d opened", c.id)

	go c.writePump()
	go c.readPump()
}

func (c *Connection) readPump() {
	defer func() {
		c.gateway.removeConnection(c)
		c.conn.Close()
		close(c.send)
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[gateway] conn %d read error: %v", c.id, err)
			}
			return
		}
		c.handleMessage(data)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// clientMessage is the envelope shape for every client-to-server message.
// Fields not relevant to Type are simply left zero.
type clientMessage struct {
	Type       string         `json:"type"`
	UserId     truco.PlayerId `json:"userId"`
	GameId     uint64         `json:"gameId"`
	Name       string         `json:"name"`
	Card       card.Card      `json:"card"`
	Call       string         `json:"call"`
	Accepted   bool           `json:"accepted"`
}

func (c *Connection) handleMessage(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid message format")
		return
	}

	if msg.Type != "register-connection" && !c.registered {
		c.sendError(msg.Type, "connection not registered, send register-connection first")
		return
	}

	switch msg.Type {
	case "register-connection":
		c.handleRegister(msg)
	case "games-list":
		c.handleGamesList()
	case "create-game":
		c.handleCreateGame(msg)
	case "join-game":
		c.handleJoinGame(msg)
	case "throw-card":
		c.submit(msg.GameId, match.Event{Type: match.EventThrowCard, UserId: msg.UserId, Card: msg.Card})
	case "envido":
		call, err := parseEnvidoCall(msg.Call)
		if err != nil {
			c.sendError(msg.Type, err.Error())
			return
		}
		c.submit(msg.GameId, match.Event{Type: match.EventCallEnvido, UserId: msg.UserId, EnvidoCall: call})
	case "answer-envido":
		c.submit(msg.GameId, match.Event{Type: match.EventAnswerEnvido, UserId: msg.UserId, Accepted: msg.Accepted})
	case "truco":
		call, err := parseTrucoCall(msg.Call)
		if err != nil {
			c.sendError(msg.Type, err.Error())
			return
		}
		c.submit(msg.GameId, match.Event{Type: match.EventCallTruco, UserId: msg.UserId, TrucoCall: call})
	case "answer-truco":
		c.submit(msg.GameId, match.Event{Type: match.EventAnswerTruco, UserId: msg.UserId, Accepted: msg.Accepted})
	case "to-deck":
		c.submit(msg.GameId, match.Event{Type: match.EventGoToDeck, UserId: msg.UserId})
	case "play-again":
		c.submit(msg.GameId, match.Event{Type: match.EventPlayAgain, UserId: msg.UserId})
	case "no-play-again":
		c.submit(msg.GameId, match.Event{Type: match.EventNoPlayAgain, UserId: msg.UserId})
	default:
		log.Printf("[gateway] conn %d unknown message type %q", c.id, msg.Type)
	}
}

func parseEnvidoCall(s string) (truco.EnvidoCall, error) {
	var c truco.EnvidoCall
	if err := c.UnmarshalJSON([]byte(fmt.Sprintf("%q", s))); err != nil {
		return 0, err
	}
	return c, nil
}

func parseTrucoCall(s string) (truco.TrucoCall, error) {
	var c truco.TrucoCall
	if err := c.UnmarshalJSON([]byte(fmt.Sprintf("%q", s))); err != nil {
		return 0, err
	}
	return c, nil
}

// handleRegister associates this connection with a user id and tail-replays
// the full event log of every running game that user is seated at, so a
// reconnecting client catches up without any state reconciliation beyond
// replaying what it missed.
func (c *Connection) handleRegister(msg clientMessage) {
	c.gateway.mu.Lock()
	c.userId = msg.UserId
	c.registered = true
	c.gateway.byUser[msg.UserId] = c
	c.gateway.mu.Unlock()

	log.Printf("[gateway] conn %d registered as user %d", c.id, msg.UserId)

	for _, r := range c.gateway.lobby.ReplaysForPlayer(msg.UserId) {
		c.sendGameEvents(r.Table.Id(), msg.UserId, r.Events)
	}
}

func (c *Connection) handleGamesList() {
	ids, err := c.gateway.lobby.ListJoinable(context.Background())
	if err != nil {
		c.sendError("games-list", err.Error())
		return
	}
	c.sendJSON(map[string]interface{}{
		"type":  "games-list",
		"games": ids,
	})
}

func (c *Connection) handleCreateGame(msg clientMessage) {
	table, err := c.gateway.lobby.Create(context.Background(), msg.Name, msg.UserId, truco.Config{})
	if err != nil {
		c.sendError("create-game", err.Error())
		return
	}
	c.sendJSON(map[string]interface{}{
		"type":   "game-joined",
		"userId": msg.UserId,
		"gameId": table.Id(),
	})
}

func (c *Connection) handleJoinGame(msg clientMessage) {
	table, err := c.gateway.lobby.Join(context.Background(), msg.GameId, msg.UserId)
	if err != nil {
		c.sendError("join-game", err.Error())
		return
	}
	start := table.Send(match.Event{Type: match.EventStart, UserId: msg.UserId})
	if start.Err != nil {
		c.sendError("join-game", start.Err.Error())
		return
	}
	c.sendJSON(map[string]interface{}{
		"type":   "game-joined",
		"userId": msg.UserId,
		"gameId": msg.GameId,
	})
}

func (c *Connection) submit(gameId uint64, e match.Event) {
	table, err := c.gateway.lobby.Table(context.Background(), gameId)
	if err != nil {
		c.sendError("", err.Error())
		return
	}
	table.Touch(e.UserId)
	if res := table.Send(e); res.Err != nil {
		c.sendError("", res.Err.Error())
	}
}

func (c *Connection) sendError(inReplyTo, message string) {
	c.sendJSON(map[string]interface{}{
		"type":      "error",
		"inReplyTo": inReplyTo,
		"message":   message,
	})
}

func (c *Connection) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[gateway] marshal error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[gateway] conn %d send buffer full, dropping message", c.id)
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.byUser[c.userId] == c {
		delete(g.byUser, c.userId)
	}
	log.Printf("[gateway] connection %d closed", c.id)
}

// Broadcast delivers events for gameId, addressed to userId, filtering
// NEXT_ROUND's per-player card map down to the addressee's own hand; a
// player's connection should never receive the other side's cards.
func (g *Gateway) Broadcast(gameId uint64, userId truco.PlayerId, events []truco.GameEvent) {
	g.mu.RLock()
	c := g.byUser[userId]
	g.mu.RUnlock()
	if c == nil {
		return
	}
	c.sendGameEvents(gameId, userId, events)
}

// sendGameEvents filters events to what userId is allowed to see and pushes
// them as a single new-events message. gameId is informational only and is
// echoed in the message when non-zero.
func (c *Connection) sendGameEvents(gameId uint64, userId truco.PlayerId, events []truco.GameEvent) {
	filtered := make([]json.RawMessage, 0, len(events))
	for _, e := range events {
		raw, err := marshalFiltered(e, userId)
		if err != nil {
			log.Printf("[gateway] marshal event for user %d: %v", userId, err)
			continue
		}
		filtered = append(filtered, raw)
	}
	if len(filtered) == 0 {
		return
	}

	msg := map[string]interface{}{
		"type":   "new-events",
		"events": filtered,
	}
	if gameId != 0 {
		msg["gameId"] = gameId
	}
	c.sendJSON(msg)
}

func marshalFiltered(e truco.GameEvent, addressee truco.PlayerId) (json.RawMessage, error) {
	if nr, ok := e.(truco.NextRoundEvent); ok {
		nr.Cards = map[truco.PlayerId][]card.Card{addressee: nr.Cards[addressee]}
		return json.Marshal(nr)
	}
	return json.Marshal(e)
}
