package dto

import "github.com/quizly-app/quizly-api/internal/models"

// LeaderboardEntry is one row on the streak leaderboard.
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	UserID uint    `json:"user_id"`
	Name   string  `json:"name"`
	Streak float64 `json:"streak"`
}

// LeaderboardResponse is the ordered leaderboard.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// NewLeaderboardResponse ranks the given users, which must already be sorted
// by streak descending.
func NewLeaderboardResponse(users []models.User) LeaderboardResponse {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.ID,
			Name:   user.Name,
			Streak: user.Streak,
		})
	}

	return LeaderboardResponse{Entries: entries}
}
