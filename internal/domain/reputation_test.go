package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReputationLevel(t *testing.T) {
	cases := []struct {
		score int64
		want  string
	}{
		{0, LevelNewcomer},
		{19, LevelNewcomer},
		{20, LevelTraveler},
		{49, LevelTraveler},
		{50, LevelActiveTraveler},
		{75, LevelActiveTraveler},
		{99, LevelActiveTraveler},
		{100, LevelExpert},
		{199, LevelExpert},
		{200, LevelExpertGuide},
		{250, LevelExpertGuide},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReputationLevel(tc.score), "score %d", tc.score)
	}
}

func TestReputationScoreWeights(t *testing.T) {
	score := ReputationScore(UserActivity{Reviews: 1, Favorites: 1, Discussions: 1, Answers: 1, HelpfulAnswers: 1})
	assert.Equal(t, int64(5+2+5+2+10), score)
	assert.Equal(t, int64(0), ReputationScore(UserActivity{}))
}

func TestApplyHelpfulVote(t *testing.T) {
	a := Answer{}

	ApplyHelpfulVote(&a, false)
	assert.Equal(t, 0, a.HelpfulVotes, "votes never go below zero")

	ApplyHelpfulVote(&a, true)
	ApplyHelpfulVote(&a, true)
	assert.False(t, a.IsHelpful)

	ApplyHelpfulVote(&a, true)
	assert.Equal(t, 3, a.HelpfulVotes)
	assert.True(t, a.IsHelpful)

	ApplyHelpfulVote(&a, false)
	ApplyHelpfulVote(&a, false)
	assert.Equal(t, 1, a.HelpfulVotes)
	assert.True(t, a.IsHelpful, "downvotes do not clear the flag")
}
