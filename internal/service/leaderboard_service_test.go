package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
)

func TestLeaderboardOrderingAndCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	require.NoError(t, db.Create(&models.User{Name: "Low", Email: "low@example.com", Streak: 1}).Error)
	require.NoError(t, db.Create(&models.User{Name: "High", Email: "high@example.com", Streak: 9.5}).Error)

	users := repository.NewUserRepository(db)
	svc := NewLeaderboardService(users, redisClient, time.Minute, testLogger())

	board, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	require.Equal(t, "High", board.Entries[0].Name)
	require.Equal(t, 1, board.Entries[0].Rank)
	require.Equal(t, 9.5, board.Entries[0].Streak)

	// A later write is invisible until the cache expires.
	require.NoError(t, db.Create(&models.User{Name: "Newcomer", Email: "new@example.com", Streak: 50}).Error)

	board, err = svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "High", board.Entries[0].Name, "expected cached leaderboard")

	mini.FastForward(2 * time.Minute)

	board, err = svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "Newcomer", board.Entries[0].Name)
}

func TestLeaderboardWorksWithoutCache(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	require.NoError(t, db.Create(&models.User{Name: "Solo", Email: "solo@example.com", Streak: 3}).Error)

	svc := NewLeaderboardService(repository.NewUserRepository(db), nil, time.Minute, testLogger())

	board, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
}
