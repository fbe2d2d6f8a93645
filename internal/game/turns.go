package game

import "fmt"

// EndTurn ends the current turn on behalf of participant id. Returns false
// when the intent is ignored: unknown participant, acting out of turn, or a
// winner already decided.
func (s *State) EndTurn(id string) bool {
	p := s.Participants[id]
	if p == nil || p.Role != s.CurrentTurn || s.Winner != "" {
		return false
	}

	prev := s.CurrentTurn
	var events []string
	if prev == RoleAttacker {
		events = ResolveAttacks(s.Zones)
		s.RoundNumber++
	} else {
		for _, z := range s.Zones {
			if z.HasDefense {
				events = append(events, fmt.Sprintf("%s: Defense set to %d", z.Name, z.DefenseValue))
			}
		}
		if len(events) == 0 {
			events = []string{"No defenses placed"}
		}
	}

	if len(events) > 0 {
		round := s.RoundNumber
		if prev == RoleAttacker {
			// tag the record to the round the attacks happened in
			round--
		}
		s.History = append(s.History, TurnRecord{Round: round, Turn: prev, Events: events})
	}

	s.CurrentTurn = prev.Opponent()
	for _, q := range s.Participants {
		if q.Role == s.CurrentTurn {
			q.Energy = clamp(q.Energy+2, 0, MaxEnergy)
		}
	}
	s.Winner = EvaluateWinner(s, prev)
	return true
}

// SetEnergy sets the caller's own energy, clamped to [0,10]. Deliberately not
// turn-gated: clients spend energy continuously while planning.
func (s *State) SetEnergy(id string, v int) bool {
	p := s.Participants[id]
	if p == nil {
		return false
	}
	p.Energy = clamp(v, 0, MaxEnergy)
	return true
}

type ZoneUpdate struct {
	Index        int
	AttackPower  *int
	HasDefense   *bool
	DefenseValue *int
}

// UpdateZone applies a zone edit. The caller's role gates which fields are
// honored: attackers write attack power only, defenders write defense fields
// only. Out-of-range indexes are ignored.
func (s *State) UpdateZone(id string, u ZoneUpdate) bool {
	p := s.Participants[id]
	if p == nil || u.Index < 0 || u.Index >= len(s.Zones) {
		return false
	}
	z := &s.Zones[u.Index]

	switch p.Role {
	case RoleAttacker:
		if u.AttackPower != nil {
			z.AttackPower = clamp(*u.AttackPower, 0, MaxPower)
		}
	case RoleDefender:
		if u.HasDefense != nil {
			z.HasDefense = *u.HasDefense
			if z.HasDefense && z.DefenseValue < 1 {
				z.DefenseValue = 1
			}
			if !z.HasDefense {
				z.DefenseValue = 0
			}
		}
		if u.DefenseValue != nil {
			if z.HasDefense {
				z.DefenseValue = clamp(*u.DefenseValue, 1, MaxPower)
			} else {
				z.DefenseValue = 0
			}
		}
	}
	return true
}

// Reset restores the initial board. Host only. A differing hostRole swaps the
// two seats and both energies reset to the new roles' baselines; otherwise
// energies reset to the existing roles' baselines.
func (s *State) Reset(id string, hostRole Role) bool {
	p := s.Participants[id]
	if p == nil || !p.IsHost {
		return false
	}

	s.Zones = NewZones()
	s.CurrentTurn = RoleDefender
	s.Winner = ""
	s.History = nil
	s.RoundNumber = 1

	if hostRole.Valid() && hostRole != p.Role {
		for _, q := range s.Participants {
			if q.IsHost {
				q.Role = hostRole
			} else {
				q.Role = hostRole.Opponent()
			}
			q.Energy = BaselineEnergy(q.Role)
		}
		s.HostRole = hostRole
	} else {
		for _, q := range s.Participants {
			q.Energy = BaselineEnergy(q.Role)
		}
	}
	return true
}
