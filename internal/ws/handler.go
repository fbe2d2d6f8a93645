package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/nwalden/zonebreach-backend/internal/game"
	"github.com/nwalden/zonebreach-backend/internal/hub"
	"github.com/nwalden/zonebreach-backend/internal/session"
	"github.com/nwalden/zonebreach-backend/pkg/wire"
)

const writeTimeout = 3 * time.Second

// binding ties a live connection to its session and participant slot. One
// connection holds at most one binding at a time.
type binding struct {
	sess *session.Session
	id   string
	code string
}

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		log.Info("new connection")

		c := &client{
			conn: conn,
			hub:  h,
			log:  log,
			out:  make(chan wire.GameState, 8),
		}

		// Writer goroutine: drains snapshots for the connection's lifetime.
		// The outbox outlives any single session binding, so it is never
		// closed; the context ends it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap := <-c.out:
					payload, _ := json.Marshal(snap)
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Info("connection closed", zap.Error(err))
				}
				break
			}

			var cm wire.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				// Malformed intents fail closed; the connection stays open.
				log.Warn("bad json", zap.Error(err))
				continue
			}

			c.dispatch(r.Context(), cm)
		}

		// Abrupt close: keep the slot, blank the connection so the opponent
		// sees the drop. An explicit leaveGame already cleared the binding.
		if c.bound != nil {
			c.bound.sess.Inbox() <- session.Disconnect{ID: c.bound.id, Outbox: c.out}
			log.Info("participant marked disconnected", zap.String("game", c.bound.code))
		}
	}
}

type client struct {
	conn  *websocket.Conn
	hub   *hub.Hub
	log   *zap.Logger
	out   chan wire.GameState
	bound *binding
}

func (c *client) dispatch(ctx context.Context, cm wire.ClientMessage) {
	c.log.Debug("message received", zap.String("type", cm.Type))

	switch cm.Type {
	case wire.TypeCreateGame:
		role := game.Role(cm.Role)
		if !role.Valid() {
			return
		}
		reply := make(chan hub.CreateReply, 1)
		c.hub.Inbox() <- hub.CreateGame{HostRole: role, Outbox: c.out, Reply: reply}
		res := <-reply
		if res.Err != nil {
			c.log.Error("create game", zap.Error(res.Err))
			return
		}
		c.bound = &binding{sess: res.Session, id: res.HostID, code: res.Code}
		c.reply(ctx, wire.ServerMessage{Type: wire.TypeGameCreated, GameCode: res.Code, Role: string(role)})
		res.Session.Inbox() <- session.Broadcast{}

	case wire.TypeJoinGame:
		sess := c.findGame(cm.GameCode)
		if sess == nil {
			c.reply(ctx, wire.ServerMessage{Type: wire.TypeError, Message: "Game not found"})
			return
		}
		reply := make(chan session.JoinResult, 1)
		sess.Inbox() <- session.Join{Outbox: c.out, Reply: reply}
		res := <-reply
		if res.Err != nil {
			c.reply(ctx, wire.ServerMessage{Type: wire.TypeError, Message: res.Err.Error()})
			return
		}
		c.bound = &binding{sess: sess, id: res.ID, code: hub.Normalize(cm.GameCode)}
		c.reply(ctx, wire.ServerMessage{Type: wire.TypeGameJoined, GameCode: c.bound.code, Role: string(res.Role)})
		// first broadcast follows after the session's join delay

	case wire.TypeReconnect:
		role := game.Role(cm.Role)
		if !role.Valid() {
			return
		}
		sess := c.findGame(cm.GameCode)
		if sess == nil {
			c.reply(ctx, wire.ServerMessage{Type: wire.TypeError, Message: "Game not found"})
			return
		}
		reply := make(chan session.ReconnectResult, 1)
		sess.Inbox() <- session.Reconnect{Role: role, Outbox: c.out, Reply: reply}
		res := <-reply
		c.bound = &binding{sess: sess, id: res.ID, code: hub.Normalize(cm.GameCode)}
		isHost := res.IsHost
		c.reply(ctx, wire.ServerMessage{Type: wire.TypeReconnected, GameCode: c.bound.code, Role: string(role), IsHost: &isHost})
		sess.Inbox() <- session.Broadcast{}

	case wire.TypeEndTurn:
		if c.bound == nil {
			return
		}
		c.bound.sess.Inbox() <- session.EndTurn{ID: c.bound.id}

	case wire.TypeUpdateEnergy:
		if c.bound == nil || cm.Energy == nil {
			return
		}
		c.bound.sess.Inbox() <- session.UpdateEnergy{ID: c.bound.id, Energy: *cm.Energy}

	case wire.TypeUpdateZone:
		if c.bound == nil || cm.ZoneIndex == nil {
			return
		}
		c.bound.sess.Inbox() <- session.UpdateZone{ID: c.bound.id, Update: game.ZoneUpdate{
			Index:        *cm.ZoneIndex,
			AttackPower:  cm.AttackPower,
			HasDefense:   cm.HasDefense,
			DefenseValue: cm.DefenseValue,
		}}

	case wire.TypeResetGame:
		if c.bound == nil {
			return
		}
		hostRole := game.Role(cm.HostRole)
		if cm.HostRole != "" && !hostRole.Valid() {
			return
		}
		c.bound.sess.Inbox() <- session.ResetGame{ID: c.bound.id, HostRole: hostRole}

	case wire.TypeLeaveGame:
		if c.bound == nil {
			return
		}
		reply := make(chan bool, 1)
		c.bound.sess.Inbox() <- session.Leave{ID: c.bound.id, Reply: reply}
		<-reply
		c.log.Info("participant left", zap.String("game", c.bound.code))
		c.bound = nil
		c.reply(ctx, wire.ServerMessage{Type: wire.TypeLeftGame})

	default:
		c.log.Warn("unknown message type", zap.String("type", cm.Type))
	}
}

func (c *client) findGame(code string) *session.Session {
	reply := make(chan *session.Session, 1)
	c.hub.Inbox() <- hub.GetGame{Code: code, Reply: reply}
	return <-reply
}

// reply writes a confirmation or error directly from the reader loop so it
// lands before any snapshot the writer goroutine sends afterwards.
func (c *client) reply(ctx context.Context, msg wire.ServerMessage) {
	payload, _ := json.Marshal(msg)
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = c.conn.Write(wctx, websocket.MessageText, payload)
}
