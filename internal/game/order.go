// internal/game/order.go
package game

// PlayOrder builds the fixed seating order for a match.
type PlayOrder func() []*Player

// SoloOrder plays seats in registration order.
func SoloOrder(players []*Player) PlayOrder {
	return func() []*Player {
		out := make([]*Player, len(players))
		copy(out, players)
		return out
	}
}

// TeamOrder interleaves teams slot by slot: for teams A, B, C the order is
// A0, B0, C0, A1, B1, C1.
func TeamOrder(teams []*Team) PlayOrder {
	return func() []*Player {
		var out []*Player
		for slot := 0; slot < TeamSize; slot++ {
			for _, t := range teams {
				if slot < len(t.Players) {
					out = append(out, t.Players[slot])
				}
			}
		}
		return out
	}
}
