package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nwalden/zonebreach-backend/internal/game"
	"github.com/nwalden/zonebreach-backend/pkg/wire"
)

// ErrGameFull is returned on a join when both seats hold a live connection.
var ErrGameFull = errors.New("Game is full")

// joinBroadcastDelay keeps the join confirmation ahead of the first shared
// snapshot the joining client depends on.
const joinBroadcastDelay = 50 * time.Millisecond

type Msg interface{ isSessionMsg() }

// Join seats a new participant into the first open role, attacker first. A
// role is open when no participant of that role holds a live connection.
type Join struct {
	Outbox chan wire.GameState
	Reply  chan JoinResult
}

type JoinResult struct {
	ID   string
	Role game.Role
	Err  error
}

// Reconnect rebinds the participant already holding Role, whether its
// previous connection was live or not; if the role is vacant it seats a
// fresh participant into exactly that role.
type Reconnect struct {
	Role   game.Role
	Outbox chan wire.GameState
	Reply  chan ReconnectResult
}

type ReconnectResult struct {
	ID     string
	IsHost bool
}

type EndTurn struct{ ID string }

type UpdateEnergy struct {
	ID     string
	Energy int
}

type UpdateZone struct {
	ID     string
	Update game.ZoneUpdate
}

type ResetGame struct {
	ID       string
	HostRole game.Role // "" keeps the current role split
}

// Leave removes the participant entirely; the slot is not retained. Reply
// reports whether the session emptied (and therefore shut down).
type Leave struct {
	ID    string
	Reply chan bool
}

// Disconnect marks the participant's connection dead but keeps the slot for
// reconnection. Outbox identifies the closing connection so a stale close
// arriving after a reconnect rebind is ignored.
type Disconnect struct {
	ID     string
	Outbox chan wire.GameState
}

// Broadcast pushes the current snapshot to every live participant. Sent by
// the transport layer after a confirmation write so the snapshot never
// overtakes the confirmation.
type Broadcast struct{}

type GetState struct{ Reply chan View }

// View reflects internal state without data races, for tests.
type View struct {
	Code      string
	Connected int
	State     game.State
}

type Shutdown struct{}

func (Join) isSessionMsg()         {}
func (Reconnect) isSessionMsg()    {}
func (EndTurn) isSessionMsg()      {}
func (UpdateEnergy) isSessionMsg() {}
func (UpdateZone) isSessionMsg()   {}
func (ResetGame) isSessionMsg()    {}
func (Leave) isSessionMsg()        {}
func (Disconnect) isSessionMsg()   {}
func (Broadcast) isSessionMsg()    {}
func (GetState) isSessionMsg()     {}
func (Shutdown) isSessionMsg()     {}

// Session owns one game's state. All access serializes through the inbox;
// nothing outside the loop goroutine touches state or outboxes.
type Session struct {
	inbox    chan Msg
	code     string
	state    *game.State
	outboxes map[string]chan wire.GameState // nil value = seated but disconnected
	onEmpty  func()
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// New starts a session with the creator already seated as host. onEmpty fires
// once when the last participant leaves, just before the loop exits.
func New(parent context.Context, code string, hostRole game.Role, hostOutbox chan wire.GameState, onEmpty func(), log *zap.Logger) (*Session, string) {
	ctx, cancel := context.WithCancel(parent)

	hostID := string(hostRole) + "-host"
	state := game.NewState(hostRole)
	state.AddParticipant(hostID, hostRole, true)

	s := &Session{
		inbox:    make(chan Msg, 64),
		code:     code,
		state:    state,
		outboxes: map[string]chan wire.GameState{hostID: hostOutbox},
		onEmpty:  onEmpty,
		log:      log.With(zap.String("game", code)),
		ctx:      ctx,
		cancel:   cancel,
	}

	go s.loop()
	return s, hostID
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				role, ok := s.openRole()
				if !ok {
					msg.Reply <- JoinResult{Err: ErrGameFull}
					break
				}
				// One occupying participant per role: a disconnected record
				// holding the seat is superseded, not kept alongside.
				for pid, p := range s.state.Participants {
					if p.Role == role {
						delete(s.state.Participants, pid)
						delete(s.outboxes, pid)
					}
				}
				id := string(role) + "-guest"
				s.state.AddParticipant(id, role, false)
				s.outboxes[id] = msg.Outbox
				s.state.GameStarted = true
				msg.Reply <- JoinResult{ID: id, Role: role}
				s.log.Info("participant joined", zap.String("role", string(role)))
				time.AfterFunc(joinBroadcastDelay, func() { s.deliver(Broadcast{}) })

			case Reconnect:
				// Broadcast follows via the transport layer once the
				// confirmation has been written.
				msg.Reply <- s.reconnect(msg)

			case EndTurn:
				if s.state.EndTurn(msg.ID) {
					s.log.Info("turn ended",
						zap.String("nowActive", string(s.state.CurrentTurn)),
						zap.Int("round", s.state.RoundNumber),
						zap.String("winner", string(s.state.Winner)))
					s.broadcast()
				}

			case UpdateEnergy:
				if s.state.SetEnergy(msg.ID, msg.Energy) {
					s.broadcast()
				}

			case UpdateZone:
				if s.state.UpdateZone(msg.ID, msg.Update) {
					s.broadcast()
				}

			case ResetGame:
				if s.state.Reset(msg.ID, msg.HostRole) {
					s.log.Info("game reset", zap.String("hostRole", string(s.state.HostRole)))
					s.broadcast()
				}

			case Leave:
				delete(s.state.Participants, msg.ID)
				delete(s.outboxes, msg.ID)
				if len(s.state.Participants) == 0 {
					s.log.Info("session emptied")
					if s.onEmpty != nil {
						s.onEmpty()
					}
					msg.Reply <- true
					s.cancel()
					return
				}
				s.broadcast()
				msg.Reply <- false

			case Disconnect:
				// A close from a connection that was already replaced by a
				// reconnect must not blank the new binding.
				if s.outboxes[msg.ID] == msg.Outbox {
					s.outboxes[msg.ID] = nil
					s.log.Info("participant disconnected", zap.String("role", string(s.roleOf(msg.ID))))
					s.broadcast()
				}

			case Broadcast:
				s.broadcast()

			case GetState:
				msg.Reply <- View{
					Code:      s.code,
					Connected: s.liveCount(),
					State:     s.state.Clone(),
				}

			case Shutdown:
				s.cancel()
				return
			}
		}
	}
}

func (s *Session) reconnect(msg Reconnect) ReconnectResult {
	for id, p := range s.state.Participants {
		if p.Role == msg.Role {
			s.outboxes[id] = msg.Outbox
			s.log.Info("participant reconnected", zap.String("role", string(msg.Role)))
			return ReconnectResult{ID: id, IsHost: p.IsHost}
		}
	}

	id := string(msg.Role) + "-" + uuid.NewString()
	s.state.AddParticipant(id, msg.Role, false)
	s.outboxes[id] = msg.Outbox
	if len(s.state.Participants) >= 2 {
		s.state.GameStarted = true
	}
	s.log.Info("reconnect seated new participant", zap.String("role", string(msg.Role)))
	return ReconnectResult{ID: id, IsHost: false}
}

func (s *Session) openRole() (game.Role, bool) {
	if !s.roleLive(game.RoleAttacker) {
		return game.RoleAttacker, true
	}
	if !s.roleLive(game.RoleDefender) {
		return game.RoleDefender, true
	}
	return "", false
}

// roleLive reports whether some participant of that role holds a live
// connection. A seated-but-disconnected participant does not block a join.
func (s *Session) roleLive(r game.Role) bool {
	for id, p := range s.state.Participants {
		if p.Role == r && s.outboxes[id] != nil {
			return true
		}
	}
	return false
}

func (s *Session) roleOf(id string) game.Role {
	if p := s.state.Participants[id]; p != nil {
		return p.Role
	}
	return ""
}

func (s *Session) liveCount() int {
	n := 0
	for _, ch := range s.outboxes {
		if ch != nil {
			n++
		}
	}
	return n
}

// deliver feeds the loop from outside it without blocking past shutdown.
func (s *Session) deliver(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) broadcast() {
	for id, ch := range s.outboxes {
		if ch == nil {
			continue
		}
		view := s.view(id)
		select {
		case ch <- view:
		default:
			// Stalled client: supersede its oldest pending snapshot rather
			// than dropping the seat, which must survive for reconnection.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}
