package elo

import "math"

type Points float64

const (
	Win  Points = 1
	Draw Points = 0.5
	Lose Points = 0
)

// ExpectedScore of player A against player B.
// Ra - player A rating.
// Rb - player B rating.
func ExpectedScore(Ra float64, Rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (Rb-Ra)/400.0))
}

// Delta is the rating change for a player expected to score E who actually scored Sa.
func Delta(E float64, Sa Points, K float64) float64 {
	return K * (float64(Sa) - E)
}

// KFactor decays from initialK by one per match played and never drops below standardK.
// matchCount must be the count before the match being scored.
func KFactor(initialK float64, standardK float64, matchCount int) float64 {
	return math.Max(initialK-float64(matchCount), standardK)
}

// Calculate new rating.
// Ra - player A rating.
// Rb - player B rating.
// K - coefficient, see KFactor.
// Sa - points: 1 for win; 0.5 for draw; 0 for lose.
func Calculate(Ra float64, Rb float64, K float64, Sa Points) float64 {
	return Ra + Delta(ExpectedScore(Ra, Rb), Sa, K)
}
