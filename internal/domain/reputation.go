package domain

const (
	LevelNewcomer       = "Newcomer"
	LevelTraveler       = "Traveler"
	LevelActiveTraveler = "Active Traveler"
	LevelExpert         = "Expert"
	LevelExpertGuide    = "Expert Guide"
)

// ReputationScore is the weighted contribution score shown in user stats.
// It is computed on demand and is unrelated to User.ReputationScore.
func ReputationScore(a UserActivity) int64 {
	return a.Reviews*5 + a.Favorites*2 + a.HelpfulAnswers*10 + a.Discussions*5 + a.Answers*2
}

func ReputationLevel(score int64) string {
	switch {
	case score < 20:
		return LevelNewcomer
	case score < 50:
		return LevelTraveler
	case score < 100:
		return LevelActiveTraveler
	case score < 200:
		return LevelExpert
	default:
		return LevelExpertGuide
	}
}

// HelpfulThreshold is the vote count at which an answer is marked helpful.
const HelpfulThreshold = 3

// ApplyHelpfulVote updates an answer's vote counter. Upvotes mark the answer
// helpful once the threshold is reached; downvotes never go below zero and
// never clear the flag.
func ApplyHelpfulVote(a *Answer, isHelpful bool) {
	if isHelpful {
		a.HelpfulVotes++
		if a.HelpfulVotes >= HelpfulThreshold {
			a.IsHelpful = true
		}
		return
	}
	a.HelpfulVotes = max(a.HelpfulVotes-1, 0)
}
