package game

type Role string

const (
	RoleAttacker Role = "attacker"
	RoleDefender Role = "defender"
)

func (r Role) Valid() bool {
	return r == RoleAttacker || r == RoleDefender
}

func (r Role) Opponent() Role {
	if r == RoleAttacker {
		return RoleDefender
	}
	return RoleAttacker
}

const (
	MaxCompromise = 6
	MaxEnergy     = 10
	MaxPower      = 10
)

type Zone struct {
	Name            string
	CompromiseLevel int
	MaxCompromise   int
	HasDefense      bool
	DefenseValue    int
	AttackPower     int
}

var zoneNames = [...]string{"Passwords", "Network", "System", "Data"}

func NewZones() []Zone {
	zones := make([]Zone, len(zoneNames))
	for i, name := range zoneNames {
		zones[i] = Zone{Name: name, MaxCompromise: MaxCompromise}
	}
	return zones
}

type Participant struct {
	Role   Role
	Energy int
	IsHost bool
}

type TurnRecord struct {
	Round  int
	Turn   Role
	Events []string
}

// State is the authoritative per-game state. It is not safe for concurrent
// use; the session actor owning it serializes all access.
type State struct {
	Zones        []Zone
	CurrentTurn  Role
	GameStarted  bool
	Winner       Role // "" until somebody wins
	HostRole     Role
	RoundNumber  int
	History      []TurnRecord
	Participants map[string]*Participant
}

func NewState(hostRole Role) *State {
	return &State{
		Zones:        NewZones(),
		CurrentTurn:  RoleDefender,
		HostRole:     hostRole,
		RoundNumber:  1,
		Participants: map[string]*Participant{},
	}
}

// BaselineEnergy is the starting energy for a role, also used after resets.
func BaselineEnergy(role Role) int {
	if role == RoleDefender {
		return 1
	}
	return 2
}

func (s *State) AddParticipant(id string, role Role, isHost bool) *Participant {
	p := &Participant{Role: role, Energy: BaselineEnergy(role), IsHost: isHost}
	s.Participants[id] = p
	return p
}

// Clone returns a deep copy, used to hand state out of the session actor
// without sharing the backing maps and slices.
func (s *State) Clone() State {
	out := *s
	out.Zones = append([]Zone(nil), s.Zones...)
	out.History = make([]TurnRecord, len(s.History))
	for i, rec := range s.History {
		rec.Events = append([]string(nil), rec.Events...)
		out.History[i] = rec
	}
	out.Participants = make(map[string]*Participant, len(s.Participants))
	for id, p := range s.Participants {
		q := *p
		out.Participants[id] = &q
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
