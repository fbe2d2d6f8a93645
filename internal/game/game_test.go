package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTwoPlayerState() *State {
	s := NewState(RoleDefender)
	s.AddParticipant("defender-host", RoleDefender, true)
	s.AddParticipant("attacker-guest", RoleAttacker, false)
	s.GameStarted = true
	return s
}

func TestBaselineEnergy(t *testing.T) {
	require.Equal(t, 1, BaselineEnergy(RoleDefender))
	require.Equal(t, 2, BaselineEnergy(RoleAttacker))
}

func TestEndTurn_OffTurnIgnored(t *testing.T) {
	s := newTwoPlayerState()

	require.False(t, s.EndTurn("attacker-guest")) // defender's turn
	require.Equal(t, RoleDefender, s.CurrentTurn)
	require.Empty(t, s.History)
}

func TestEndTurn_DefenderRecordsDefenses(t *testing.T) {
	s := newTwoPlayerState()
	s.Zones[2].HasDefense = true
	s.Zones[2].DefenseValue = 4

	require.True(t, s.EndTurn("defender-host"))

	require.Equal(t, RoleAttacker, s.CurrentTurn)
	require.Equal(t, 1, s.RoundNumber)
	require.Len(t, s.History, 1)
	require.Equal(t, TurnRecord{Round: 1, Turn: RoleDefender, Events: []string{"System: Defense set to 4"}}, s.History[0])
	// now-active attacker regenerates
	require.Equal(t, 4, s.Participants["attacker-guest"].Energy)
	require.Equal(t, 1, s.Participants["defender-host"].Energy)
}

func TestEndTurn_DefenderPlaceholderWhenUndefended(t *testing.T) {
	s := newTwoPlayerState()

	require.True(t, s.EndTurn("defender-host"))

	require.Len(t, s.History, 1)
	require.Equal(t, []string{"No defenses placed"}, s.History[0].Events)
}

func TestEndTurn_AttackerResolvesAndAdvancesRound(t *testing.T) {
	s := newTwoPlayerState()
	s.CurrentTurn = RoleAttacker
	s.Zones[1].AttackPower = 5 // Network, undefended

	require.True(t, s.EndTurn("attacker-guest"))

	require.Equal(t, 5, s.Zones[1].CompromiseLevel)
	require.Equal(t, 0, s.Zones[1].AttackPower)
	require.Equal(t, RoleDefender, s.CurrentTurn)
	require.Equal(t, 2, s.RoundNumber)
	require.Len(t, s.History, 1)
	require.Equal(t, 1, s.History[0].Round) // tagged to the ending round
	require.Equal(t, RoleAttacker, s.History[0].Turn)
	require.Equal(t, []string{"Network: Attack (5) dealt 5 damage (undefended)"}, s.History[0].Events)
}

func TestEndTurn_AttackerWithNoAttacksAppendsNoRecord(t *testing.T) {
	s := newTwoPlayerState()
	s.CurrentTurn = RoleAttacker

	require.True(t, s.EndTurn("attacker-guest"))

	require.Empty(t, s.History)
	require.Equal(t, 2, s.RoundNumber)
}

func TestEndTurn_EnergyGrantClampsAtMax(t *testing.T) {
	s := newTwoPlayerState()
	s.Participants["attacker-guest"].Energy = 9

	require.True(t, s.EndTurn("defender-host"))
	require.Equal(t, MaxEnergy, s.Participants["attacker-guest"].Energy)
}

func TestEndTurn_BlockedOnceWinnerSet(t *testing.T) {
	s := newTwoPlayerState()
	for i := range s.Zones {
		s.Zones[i].CompromiseLevel = MaxCompromise
	}

	require.True(t, s.EndTurn("defender-host"))
	require.Equal(t, RoleAttacker, s.Winner)

	// winner is authoritative until a reset
	require.False(t, s.EndTurn("attacker-guest"))
	require.Equal(t, RoleAttacker, s.Winner)
}

func TestSetEnergy_Clamps(t *testing.T) {
	s := newTwoPlayerState()

	require.True(t, s.SetEnergy("attacker-guest", 42))
	require.Equal(t, MaxEnergy, s.Participants["attacker-guest"].Energy)

	require.True(t, s.SetEnergy("attacker-guest", -3))
	require.Equal(t, 0, s.Participants["attacker-guest"].Energy)

	require.False(t, s.SetEnergy("nobody", 5))
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestUpdateZone(t *testing.T) {
	cases := []struct {
		name   string
		caller string
		update ZoneUpdate
		check  func(t *testing.T, s *State, applied bool)
	}{
		{
			name:   "attacker sets attack power clamped",
			caller: "attacker-guest",
			update: ZoneUpdate{Index: 0, AttackPower: intPtr(15)},
			check: func(t *testing.T, s *State, applied bool) {
				require.True(t, applied)
				require.Equal(t, MaxPower, s.Zones[0].AttackPower)
			},
		},
		{
			name:   "attacker cannot write defense fields",
			caller: "attacker-guest",
			update: ZoneUpdate{Index: 0, HasDefense: boolPtr(true), DefenseValue: intPtr(5)},
			check: func(t *testing.T, s *State, applied bool) {
				require.True(t, applied)
				require.False(t, s.Zones[0].HasDefense)
				require.Equal(t, 0, s.Zones[0].DefenseValue)
			},
		},
		{
			name:   "enabling defense floors value to 1",
			caller: "defender-host",
			update: ZoneUpdate{Index: 1, HasDefense: boolPtr(true)},
			check: func(t *testing.T, s *State, applied bool) {
				require.True(t, applied)
				require.True(t, s.Zones[1].HasDefense)
				require.Equal(t, 1, s.Zones[1].DefenseValue)
			},
		},
		{
			name:   "disabling defense zeroes value",
			caller: "defender-host",
			update: ZoneUpdate{Index: 1, HasDefense: boolPtr(false), DefenseValue: intPtr(7)},
			check: func(t *testing.T, s *State, applied bool) {
				require.True(t, applied)
				require.False(t, s.Zones[1].HasDefense)
				require.Equal(t, 0, s.Zones[1].DefenseValue)
			},
		},
		{
			name:   "defense value clamped while defended",
			caller: "defender-host",
			update: ZoneUpdate{Index: 2, HasDefense: boolPtr(true), DefenseValue: intPtr(99)},
			check: func(t *testing.T, s *State, applied bool) {
				require.True(t, applied)
				require.Equal(t, MaxPower, s.Zones[2].DefenseValue)
			},
		},
		{
			name:   "zone index out of range ignored",
			caller: "defender-host",
			update: ZoneUpdate{Index: 4, HasDefense: boolPtr(true)},
			check: func(t *testing.T, s *State, applied bool) {
				require.False(t, applied)
			},
		},
		{
			name:   "negative zone index ignored",
			caller: "attacker-guest",
			update: ZoneUpdate{Index: -1, AttackPower: intPtr(3)},
			check: func(t *testing.T, s *State, applied bool) {
				require.False(t, applied)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTwoPlayerState()
			applied := s.UpdateZone(tc.caller, tc.update)
			tc.check(t, s, applied)

			// defense invariant holds after every update
			for _, z := range s.Zones {
				if z.HasDefense {
					require.GreaterOrEqual(t, z.DefenseValue, 1)
					require.LessOrEqual(t, z.DefenseValue, MaxPower)
				} else {
					require.Equal(t, 0, z.DefenseValue)
				}
			}
		})
	}
}

func TestReset_NonHostIgnored(t *testing.T) {
	s := newTwoPlayerState()
	s.Zones[0].CompromiseLevel = 3

	require.False(t, s.Reset("attacker-guest", ""))
	require.Equal(t, 3, s.Zones[0].CompromiseLevel)
}

func TestReset_KeepsRoles(t *testing.T) {
	s := newTwoPlayerState()
	s.Zones[0].CompromiseLevel = 3
	s.Winner = RoleAttacker
	s.RoundNumber = 4
	s.History = []TurnRecord{{Round: 1, Turn: RoleDefender, Events: []string{"No defenses placed"}}}
	s.Participants["attacker-guest"].Energy = 9

	require.True(t, s.Reset("defender-host", ""))

	require.Equal(t, NewZones(), s.Zones)
	require.Equal(t, RoleDefender, s.CurrentTurn)
	require.Equal(t, Role(""), s.Winner)
	require.Empty(t, s.History)
	require.Equal(t, 1, s.RoundNumber)
	require.Equal(t, RoleDefender, s.Participants["defender-host"].Role)
	require.Equal(t, 1, s.Participants["defender-host"].Energy)
	require.Equal(t, 2, s.Participants["attacker-guest"].Energy)
}

func TestReset_SwapsRoles(t *testing.T) {
	s := newTwoPlayerState()

	require.True(t, s.Reset("defender-host", RoleAttacker))

	require.Equal(t, RoleAttacker, s.HostRole)
	require.Equal(t, RoleAttacker, s.Participants["defender-host"].Role)
	require.Equal(t, 2, s.Participants["defender-host"].Energy)
	require.Equal(t, RoleDefender, s.Participants["attacker-guest"].Role)
	require.Equal(t, 1, s.Participants["attacker-guest"].Energy)
}

func TestReset_SameRoleDoesNotSwap(t *testing.T) {
	s := newTwoPlayerState()

	require.True(t, s.Reset("defender-host", RoleDefender))

	require.Equal(t, RoleDefender, s.HostRole)
	require.Equal(t, RoleDefender, s.Participants["defender-host"].Role)
	require.Equal(t, RoleAttacker, s.Participants["attacker-guest"].Role)
}

func TestClone_Isolated(t *testing.T) {
	s := newTwoPlayerState()
	s.History = []TurnRecord{{Round: 1, Turn: RoleDefender, Events: []string{"No defenses placed"}}}

	c := s.Clone()
	c.Zones[0].CompromiseLevel = 6
	c.Participants["defender-host"].Energy = 0
	c.History[0].Events[0] = "changed"

	require.Equal(t, 0, s.Zones[0].CompromiseLevel)
	require.Equal(t, 1, s.Participants["defender-host"].Energy)
	require.Equal(t, "No defenses placed", s.History[0].Events[0])
}
