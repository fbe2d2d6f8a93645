package game

import "fmt"

// ResolveAttacks settles every pending attack at the end of an attacker turn,
// mutating zones in place. Undefended zones take the full attack power. A
// defense that is met or exceeded breaks: damage is attack-defense+1 (the +1
// rewards overmatching) and the defense is cleared. A stronger defense blocks
// the attack outright and survives. Attack power always resets to 0, so a
// second call with no new input is a no-op. Returns one event string per zone
// that had a pending attack.
func ResolveAttacks(zones []Zone) []string {
	var events []string

	for i := range zones {
		z := &zones[i]
		if z.AttackPower <= 0 {
			continue
		}

		switch {
		case z.HasDefense && z.AttackPower >= z.DefenseValue:
			damage := z.AttackPower - z.DefenseValue + 1
			z.CompromiseLevel = min(z.MaxCompromise, z.CompromiseLevel+damage)
			events = append(events, fmt.Sprintf("%s: Attack (%d) broke defense (%d), dealt %d damage",
				z.Name, z.AttackPower, z.DefenseValue, damage))
			z.HasDefense = false
			z.DefenseValue = 0
		case z.HasDefense:
			events = append(events, fmt.Sprintf("%s: Attack (%d) blocked by defense (%d)",
				z.Name, z.AttackPower, z.DefenseValue))
		default:
			z.CompromiseLevel = min(z.MaxCompromise, z.CompromiseLevel+z.AttackPower)
			events = append(events, fmt.Sprintf("%s: Attack (%d) dealt %d damage (undefended)",
				z.Name, z.AttackPower, z.AttackPower))
		}
		z.AttackPower = 0
	}

	return events
}
