package wire

type Zone struct {
	Name            string `json:"name"`
	CompromiseLevel int    `json:"compromiseLevel"`
	MaxCompromise   int    `json:"maxCompromise"`
	HasDefense      bool   `json:"hasDefense"`
	DefenseValue    int    `json:"defenseValue"`
	AttackPower     int    `json:"attackPower"`
}

type TurnRecord struct {
	Round  int      `json:"round"`
	Turn   string   `json:"turn"`
	Events []string `json:"events"`
}

type PlayerSummary struct {
	Energy    int  `json:"energy"`
	Connected bool `json:"connected"`
}

type Players struct {
	Attacker PlayerSummary `json:"attacker"`
	Defender PlayerSummary `json:"defender"`
}

// GameState is the per-recipient snapshot pushed after every mutating
// intent. YourRole and IsHost differ per recipient; everything else is
// shared. Connection handles and participant ids never go on the wire.
type GameState struct {
	Type        string       `json:"type"` // always "gameState"
	Zones       []Zone       `json:"zones"`
	CurrentTurn string       `json:"currentTurn"`
	GameStarted bool         `json:"gameStarted"`
	Winner      *string      `json:"winner"`
	History     []TurnRecord `json:"history"`
	RoundNumber int          `json:"roundNumber"`
	Players     Players      `json:"players"`
	YourRole    string       `json:"yourRole"`
	IsHost      bool         `json:"isHost"`
}
