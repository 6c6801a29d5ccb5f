package lesson

// ReplayBatch is what a failed initial session hands to its replay session.
type ReplayBatch struct {
	RoundsToReplay []Round `json:"roundsToReplay"`
	OriginalScores []int   `json:"originalScores"`
}

// EligibleFailures returns, in round order, the rounds that scored below
// ScoreThreshold and whose kind is replayable. Rounds without a score are
// ignored.
func EligibleFailures(registry *Registry, rounds []Round, scores []int) []Round {
	failed := make([]Round, 0)
	for i, r := range rounds {
		if i >= len(scores) {
			break
		}
		if scores[i] >= ScoreThreshold {
			continue
		}
		if !registry.Policy(r.Kind).Replayable {
			continue
		}
		failed = append(failed, r)
	}
	return failed
}
