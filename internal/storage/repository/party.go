package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// GetMember возвращает данные клиента по его идентификатору.
func (s *Storage) GetMember(ctx context.Context, uid string) (*models.Member, error) {
	const op = "repository.GetMember"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, profile_image_url, plan_expiry
			  FROM members WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.Member
	if err := row.Scan(&result.UID, &result.Name, &result.ProfileImageURL, &result.PlanExpiry); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// GetTrainer возвращает данные тренера по его идентификатору.
func (s *Storage) GetTrainer(ctx context.Context, uid string) (*models.Trainer, error) {
	const op = "repository.GetTrainer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, profile_image_url
			  FROM trainers WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.Trainer
	if err := row.Scan(&result.UID, &result.Name, &result.ProfileImageURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
