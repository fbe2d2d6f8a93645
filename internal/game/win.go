package game

// EvaluateWinner decides terminal conditions after a turn transition. The
// attacker wins once every zone is fully compromised, checked after every
// turn. The defender wins only at the end of an attacker turn, when every
// zone holds an active defense. Returns "" while the game is still live.
func EvaluateWinner(s *State, justEnded Role) Role {
	allCompromised := true
	for _, z := range s.Zones {
		if z.CompromiseLevel < z.MaxCompromise {
			allCompromised = false
			break
		}
	}
	if allCompromised {
		return RoleAttacker
	}

	if justEnded == RoleAttacker {
		allDefended := true
		for _, z := range s.Zones {
			if !z.HasDefense {
				allDefended = false
				break
			}
		}
		if allDefended {
			return RoleDefender
		}
	}

	return ""
}
