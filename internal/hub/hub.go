package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/nwalden/zonebreach-backend/internal/game"
	"github.com/nwalden/zonebreach-backend/internal/session"
	"github.com/nwalden/zonebreach-backend/pkg/wire"
)

type HubMsg interface{ isHubMsg() }

// CreateGame mints a collision-checked code and starts a session with the
// creator already seated as host.
type CreateGame struct {
	HostRole game.Role
	Outbox   chan wire.GameState
	Reply    chan CreateReply
}

type CreateReply struct {
	Code    string
	Session *session.Session
	HostID  string
	Err     error
}

type GetGame struct {
	Code  string
	Reply chan *session.Session
}

type RemoveGame struct {
	Code string
}

type ShutdownHub struct{}

func (CreateGame) isHubMsg()  {}
func (GetGame) isHubMsg()     {}
func (RemoveGame) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the process-wide registry mapping join codes to live sessions.
type Hub struct {
	inbox  chan HubMsg
	games  map[string]*session.Session
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		games:  make(map[string]*session.Session),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateGame:
				code, err := h.newCode()
				if err != nil {
					msg.Reply <- CreateReply{Err: err}
					break
				}
				sess, hostID := session.New(h.ctx, code, msg.HostRole, msg.Outbox, func() {
					h.deliver(RemoveGame{Code: code})
				}, h.log)
				h.games[code] = sess
				h.log.Info("game created", zap.String("game", code), zap.String("hostRole", string(msg.HostRole)))
				msg.Reply <- CreateReply{Code: code, Session: sess, HostID: hostID}

			case GetGame:
				msg.Reply <- h.games[Normalize(msg.Code)] // may be nil

			case RemoveGame:
				delete(h.games, msg.Code)
				h.log.Info("game removed", zap.String("game", msg.Code))

			case ShutdownHub:
				for _, sess := range h.games {
					sess.Inbox() <- session.Shutdown{}
				}
				clear(h.games)
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) deliver(m HubMsg) {
	select {
	case h.inbox <- m:
	case <-h.ctx.Done():
	}
}

// Normalize folds a client-supplied join code to its canonical form. Codes
// are case-insensitive, compared uppercase.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}

// newCode regenerates on the (rare) collision so no two live games share one.
func (h *Hub) newCode() (string, error) {
	for {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		if _, taken := h.games[code]; !taken {
			return code, nil
		}
		h.log.Warn("collision on code, regenerating")
	}
}
