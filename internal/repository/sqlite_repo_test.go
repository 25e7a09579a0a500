package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"burnout-assess/internal/db"
	"burnout-assess/internal/domain"
	"burnout-assess/internal/repository"
)

// newTestDB crea una base sqlite en memoria con el esquema aplicado.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, conn.Close())
	})
	return conn
}

func intPtr(i int) *int { return &i }

func TestSqliteSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	sessions := repository.NewSqliteSessionRepository(conn)

	started := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Session{ID: "s1", UserID: "u1", StartedAt: started}
	require.NoError(t, sessions.Create(ctx, s))

	active, err := sessions.GetActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "s1", active.ID)
	require.False(t, active.Complete)
	require.Nil(t, active.Score)
	require.True(t, active.StartedAt.Equal(started))

	_, err = sessions.GetByID(ctx, "someone-else", "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	score := 0.7
	completedAt := started.Add(time.Minute)
	s.Score = &score
	s.Level = domain.LevelHigh
	s.CompletedAt = &completedAt
	s.RecommendationText = "**1. Rest**"
	s.AnalysisText = "analysis"
	s.Complete = true
	require.NoError(t, sessions.Complete(ctx, s))

	got, err := sessions.GetByID(ctx, "u1", "s1")
	require.NoError(t, err)
	require.True(t, got.Complete)
	require.NotNil(t, got.Score)
	require.InDelta(t, 0.7, *got.Score, 1e-9)
	require.Equal(t, domain.LevelHigh, got.Level)
	require.Equal(t, "**1. Rest**", got.RecommendationText)
	require.NotNil(t, got.CompletedAt)

	require.ErrorIs(t, sessions.Complete(ctx, s), repository.ErrConflict)

	_, err = sessions.GetActiveByUser(ctx, "u1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSqliteSessionRepository_OneActivePerOwner(t *testing.T) {
	ctx := context.Background()
	sessions := repository.NewSqliteSessionRepository(newTestDB(t))

	require.NoError(t, sessions.Create(ctx, domain.Session{ID: "s1", UserID: "u1", StartedAt: time.Now()}))
	err := sessions.Create(ctx, domain.Session{ID: "s2", UserID: "u1", StartedAt: time.Now()})
	require.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, sessions.Create(ctx, domain.Session{ID: "s3", UserID: "u2", StartedAt: time.Now()}))
}

func TestSqliteSessionRepository_DeleteRemovesMessages(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	sessions := repository.NewSqliteSessionRepository(conn)
	messages := repository.NewSqliteMessageRepository(conn)

	require.NoError(t, sessions.Create(ctx, domain.Session{ID: "s1", UserID: "u1", StartedAt: time.Now()}))
	require.NoError(t, messages.Create(ctx, domain.Message{
		ID: "m1", SessionID: "s1", Kind: domain.MessageKindQuestion, Content: "q1", QuestionID: intPtr(1), CreatedAt: time.Now(),
	}))

	require.ErrorIs(t, sessions.Delete(ctx, "u2", "s1"), repository.ErrNotFound)
	require.NoError(t, sessions.Delete(ctx, "u1", "s1"))

	_, err := sessions.GetByID(ctx, "u1", "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	left, err := messages.ListBySessionID(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, left)

	require.ErrorIs(t, sessions.Delete(ctx, "u1", "s1"), repository.ErrNotFound)
}

func TestSqliteMessageRepository_OrderAndQuestionID(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	sessions := repository.NewSqliteSessionRepository(conn)
	messages := repository.NewSqliteMessageRepository(conn)
	require.NoError(t, sessions.Create(ctx, domain.Session{ID: "s1", UserID: "u1", StartedAt: time.Now()}))

	now := time.Now().UTC()
	tests := []domain.Message{
		{ID: "m1", SessionID: "s1", Kind: domain.MessageKindQuestion, Content: "q1", QuestionID: intPtr(1), CreatedAt: now},
		{ID: "m2", SessionID: "s1", Kind: domain.MessageKindAnswer, Content: "a1", QuestionID: intPtr(1), CreatedAt: now},
		{ID: "m3", SessionID: "s1", Kind: domain.MessageKindSystem, Content: "done", CreatedAt: now.Add(time.Second)},
	}
	for _, m := range tests {
		require.NoError(t, messages.Create(ctx, m))
	}

	got, err := messages.ListBySessionID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	require.Equal(t, domain.MessageKindAnswer, got[1].Kind)
	require.NotNil(t, got[1].QuestionID)
	require.Equal(t, 1, *got[1].QuestionID)
	require.Nil(t, got[2].QuestionID)
}

func TestSqliteSessionRepository_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	sessions := repository.NewSqliteSessionRepository(conn)

	base := time.Now().UTC()
	score := 0.2
	for i, id := range []string{"old", "new"} {
		s := domain.Session{ID: id, UserID: "u1", StartedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, sessions.Create(ctx, s))
		completed := s.StartedAt.Add(time.Minute)
		s.Score, s.Level, s.CompletedAt, s.Complete = &score, domain.LevelLow, &completed, true
		s.RecommendationText, s.AnalysisText = "r", "a"
		require.NoError(t, sessions.Complete(ctx, s))
	}

	list, err := sessions.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)

	empty, err := sessions.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSqliteUserRepository(t *testing.T) {
	ctx := context.Background()
	users := repository.NewSqliteUserRepository(newTestDB(t))

	u := domain.User{ID: "u1", Email: "user@example.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(ctx, u))
	require.ErrorIs(t, users.Create(ctx, domain.User{ID: "u2", Email: "user@example.com", CreatedAt: time.Now()}), repository.ErrConflict)

	byEmail, err := users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)
	require.Equal(t, "hash", byEmail.PasswordHash)

	_, err = users.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
