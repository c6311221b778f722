package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// GetAssignment возвращает текущее закрепление клиента за тренером.
func (s *Storage) GetAssignment(ctx context.Context, memberUID string) (*models.Assignment, error) {
	const op = "repository.GetAssignment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT member_uid, trainer_uid, eligibility_end, updated_at
			  FROM assignments WHERE member_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, memberUID)

	var result models.Assignment
	if err := row.Scan(&result.MemberUID, &result.TrainerUID,
		&result.EligibilityEnd, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpsertAssignment записывает закрепление клиента. У клиента не больше одной
// записи: member_uid — первичный ключ, повторная запись перезаписывает
// тренера и срок окна допуска.
func (s *Storage) UpsertAssignment(ctx context.Context, a models.Assignment) error {
	const op = "repository.UpsertAssignment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO assignments (member_uid, trainer_uid, eligibility_end, updated_at)
			  VALUES ($1, $2, $3, now())
			  ON CONFLICT (member_uid)
			  DO UPDATE SET trainer_uid = $2, eligibility_end = $3, updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, a.MemberUID, a.TrainerUID, a.EligibilityEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveAssignment удаляет закрепление клиента, возвращает количество удалённых строк.
// Используется только административным путём, обычный жизненный цикл
// закрепления запись не удаляет.
func (s *Storage) RemoveAssignment(ctx context.Context, memberUID string) (int, error) {
	const op = "repository.RemoveAssignment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM assignments WHERE member_uid = $1`, memberUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
