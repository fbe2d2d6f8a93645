package wire

// Client -> Server
// createGame:   role: "attacker" | "defender"
// joinGame:     gameCode: string
// reconnect:    gameCode: string, role: "attacker" | "defender"
// endTurn:      {}
// updateEnergy: energy: number
// updateZone:   zoneIndex: number, attackPower?, hasDefense?, defenseValue?
// resetGame:    hostRole?: "attacker" | "defender"
// leaveGame:    {}
//
// Server -> Client
// gameCreated:  gameCode, role
// gameJoined:   gameCode, role
// reconnected:  gameCode, role, isHost
// error:        message
// leftGame:     {}
// gameState:    full per-recipient snapshot, see GameState

const (
	TypeCreateGame   = "createGame"
	TypeJoinGame     = "joinGame"
	TypeReconnect    = "reconnect"
	TypeEndTurn      = "endTurn"
	TypeUpdateEnergy = "updateEnergy"
	TypeUpdateZone   = "updateZone"
	TypeResetGame    = "resetGame"
	TypeLeaveGame    = "leaveGame"

	TypeGameCreated = "gameCreated"
	TypeGameJoined  = "gameJoined"
	TypeReconnected = "reconnected"
	TypeError       = "error"
	TypeLeftGame    = "leftGame"
	TypeGameState   = "gameState"
)

type ClientMessage struct {
	Type         string `json:"type"`
	Role         string `json:"role,omitempty"`
	GameCode     string `json:"gameCode,omitempty"`
	Energy       *int   `json:"energy,omitempty"`
	ZoneIndex    *int   `json:"zoneIndex,omitempty"`
	AttackPower  *int   `json:"attackPower,omitempty"`
	HasDefense   *bool  `json:"hasDefense,omitempty"`
	DefenseValue *int   `json:"defenseValue,omitempty"`
	HostRole     string `json:"hostRole,omitempty"`
}

// ServerMessage carries every server reply except gameState.
type ServerMessage struct {
	Type     string `json:"type"`
	GameCode string `json:"gameCode,omitempty"`
	Role     string `json:"role,omitempty"`
	IsHost   *bool  `json:"isHost,omitempty"`
	Message  string `json:"message,omitempty"`
}
