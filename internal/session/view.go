package session

import (
	"github.com/nwalden/zonebreach-backend/internal/game"
	"github.com/nwalden/zonebreach-backend/pkg/wire"
)

// view projects the session state into the snapshot for one recipient.
func (s *Session) view(recipient string) wire.GameState {
	st := s.state

	out := wire.GameState{
		Type:        wire.TypeGameState,
		CurrentTurn: string(st.CurrentTurn),
		GameStarted: st.GameStarted,
		RoundNumber: st.RoundNumber,
		Players: wire.Players{
			Attacker: s.summary(game.RoleAttacker),
			Defender: s.summary(game.RoleDefender),
		},
	}

	if st.Winner != "" {
		w := string(st.Winner)
		out.Winner = &w
	}

	out.Zones = make([]wire.Zone, len(st.Zones))
	for i, z := range st.Zones {
		out.Zones[i] = wire.Zone{
			Name:            z.Name,
			CompromiseLevel: z.CompromiseLevel,
			MaxCompromise:   z.MaxCompromise,
			HasDefense:      z.HasDefense,
			DefenseValue:    z.DefenseValue,
			AttackPower:     z.AttackPower,
		}
	}

	out.History = make([]wire.TurnRecord, len(st.History))
	for i, rec := range st.History {
		out.History[i] = wire.TurnRecord{
			Round:  rec.Round,
			Turn:   string(rec.Turn),
			Events: append([]string(nil), rec.Events...),
		}
	}

	if p := st.Participants[recipient]; p != nil {
		out.YourRole = string(p.Role)
		out.IsHost = p.IsHost
	}

	return out
}

func (s *Session) summary(r game.Role) wire.PlayerSummary {
	var out wire.PlayerSummary
	for id, p := range s.state.Participants {
		if p.Role != r {
			continue
		}
		out.Energy = p.Energy
		if s.outboxes[id] != nil {
			out.Connected = true
		}
	}
	return out
}
