package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
)

func newActivityService(t *testing.T) ActivityService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityLog{}))
	return NewActivityService(repository.NewActivityLogRepository(db), testLogger())
}

func TestActivityRecordNormalizes(t *testing.T) {
	svc := newActivityService(t)

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    42,
		ActorRole:  " Professor ",
		Action:     "Streak.Updated",
		EntityType: "Appeal",
		Metadata:   map[string]interface{}{"new_streak": 14.0, "student_email": "ada@example.com"},
	})
	require.NoError(t, err)
	require.Equal(t, "professor", entry.ActorRole)
	require.Equal(t, "streak.updated", entry.Action)
	require.Equal(t, "appeal", entry.EntityType)
	require.Equal(t, "***", entry.Metadata["student_email"], "email-like metadata is masked")
}

func TestActivityRecordRequiresAction(t *testing.T) {
	svc := newActivityService(t)

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "answer"})
	require.Error(t, err)
}

func TestActivityListPaginates(t *testing.T) {
	svc := newActivityService(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Record(context.Background(), ActivityEntry{
			ActorID:    1,
			ActorRole:  "student",
			Action:     "streak.updated",
			EntityType: "answer",
		})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	require.Equal(t, int64(5), list.Meta.TotalItems)
	require.Equal(t, 3, list.Meta.TotalPages)
}
