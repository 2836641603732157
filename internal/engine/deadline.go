package engine

import "time"

// ShouldResolve is the turn deadline policy: a turn is resolved by the timer
// once now reaches deadline + skew. The skew allowance covers clock drift
// between the scanner and the node that opened the turn.
func ShouldResolve(now, deadline time.Time, skew time.Duration) bool {
	return !now.Before(deadline.Add(skew))
}
