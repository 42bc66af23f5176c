package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weekly-meal-planner/internal/planner"
	sessiondb "weekly-meal-planner/internal/telegram/session_db"
)

// Session is the plan a chat is currently looking at.
type Session struct {
	ChatID    int64
	Plan      *planner.WeeklyPlan
	PlanID    int64 // 0 until the plan has been saved
	UpdatedAt time.Time
}

// Saved reports whether the session plan is backed by a saved plan.
func (s *Session) Saved() bool {
	return s.PlanID != 0
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	queries *sessiondb.Queries
	now     func() time.Time
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		queries: sessiondb.New(db),
		now:     time.Now,
	}
}

// Put stores plan as the chat's current plan. planID is 0 for unsaved plans.
func (sr *SessionRepository) Put(ctx context.Context, chatID int64, plan *planner.WeeklyPlan, planID int64) error {
	data, err := planner.MarshalPlan(plan)
	if err != nil {
		return fmt.Errorf("failed to encode session plan: %w", err)
	}
	return sr.queries.UpsertSession(ctx, sessiondb.UpsertSessionParams{
		ChatID:    chatID,
		PlanJson:  string(data),
		PlanID:    sql.NullInt64{Int64: planID, Valid: planID != 0},
		UpdatedAt: sr.now().UTC(),
	})
}

// Get returns the chat's session, or nil when it has none.
func (sr *SessionRepository) Get(ctx context.Context, chatID int64) (*Session, error) {
	row, err := sr.queries.GetSession(ctx, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	plan, err := planner.UnmarshalPlan([]byte(row.PlanJson))
	if err != nil {
		return nil, err
	}
	return &Session{
		ChatID:    row.ChatID,
		Plan:      plan,
		PlanID:    row.PlanID.Int64,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Delete removes a session
func (sr *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	return sr.queries.DeleteSession(ctx, chatID)
}

// CleanupExpired removes sessions untouched for longer than ttl.
func (sr *SessionRepository) CleanupExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	return sr.queries.CleanupSessions(ctx, sr.now().UTC().Add(-ttl))
}
