package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codeprep/internal/domain/model"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	ListByUser(ctx context.Context, userID string, problemID string, limit, offset int) ([]model.Attempt, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

func (r *pgAttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	query := `INSERT INTO attempts (id, user_id, problem_id, language, status, kind, case_index, message)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	var kind *string
	if a.Kind != "" {
		k := string(a.Kind)
		kind = &k
	}
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.ProblemID, a.Language, a.Status, kind, a.CaseIndex, a.Message)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) ListByUser(ctx context.Context, userID, problemID string, limit, offset int) ([]model.Attempt, error) {
	query := `SELECT id, user_id, problem_id, language, status, COALESCE(kind, ''), case_index, message, submitted_at
	          FROM attempts WHERE user_id = $1`
	args := []interface{}{userID}
	if problemID != "" {
		query += ` AND problem_id = $2`
		args = append(args, problemID)
	}
	query += fmt.Sprintf(` ORDER BY submitted_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProblemID, &a.Language, &a.Status, &a.Kind, &a.CaseIndex, &a.Message, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListByUser scan: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
