package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// Зеркальные таблицы заполняются только событиями встречного сервиса.
// Запись идемпотентна: повторная доставка события приводит к тому же
// состоянию, идентификаторы тренировок детерминированные.

// UpsertMirrorSession записывает тренировку в зеркало расписания.
func (s *Storage) UpsertMirrorSession(ctx context.Context, session models.Session) error {
	const op = "repository.UpsertMirrorSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO mirror_sessions (uid, name, member_uid, trainer_uid, start_time, end_time, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (uid)
			  DO UPDATE SET name = $2, start_time = $5, end_time = $6, status = $7`
	if _, err := s.DB.ExecContext(ctx, query, session.UID, session.Name, session.MemberUID,
		session.TrainerUID, session.StartTime, session.EndTime, session.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveMirrorSession удаляет тренировку из зеркала. Отсутствие строки не
// ошибка: событие удаления могло прийти раньше события создания.
func (s *Storage) RemoveMirrorSession(ctx context.Context, uid string) error {
	const op = "repository.RemoveMirrorSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM mirror_sessions WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertMirrorAssignment записывает проекцию «текущий тренер клиента».
func (s *Storage) UpsertMirrorAssignment(ctx context.Context, a models.Assignment) error {
	const op = "repository.UpsertMirrorAssignment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO mirror_assignments (member_uid, trainer_uid, eligibility_end, updated_at)
			  VALUES ($1, $2, $3, now())
			  ON CONFLICT (member_uid)
			  DO UPDATE SET trainer_uid = $2, eligibility_end = $3, updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query, a.MemberUID, a.TrainerUID, a.EligibilityEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveMirrorAssignment удаляет проекцию текущего тренера клиента.
// Отсутствие строки не ошибка: удаление идемпотентно.
func (s *Storage) RemoveMirrorAssignment(ctx context.Context, memberUID string) error {
	const op = "repository.RemoveMirrorAssignment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM mirror_assignments WHERE member_uid = $1`, memberUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMirrorAssignment возвращает проекцию текущего тренера клиента.
func (s *Storage) GetMirrorAssignment(ctx context.Context, memberUID string) (*models.Assignment, error) {
	const op = "repository.GetMirrorAssignment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT member_uid, trainer_uid, eligibility_end, updated_at
			  FROM mirror_assignments WHERE member_uid = $1`
	row := s.DB.QueryRowContext(ctx, query, memberUID)

	var result models.Assignment
	if err := row.Scan(&result.MemberUID, &result.TrainerUID,
		&result.EligibilityEnd, &result.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListMirrorUpcomingSessions возвращает предстоящие тренировки клиента из зеркала.
func (s *Storage) ListMirrorUpcomingSessions(ctx context.Context, memberUID string) ([]*models.Session, error) {
	const op = "repository.ListMirrorUpcomingSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, member_uid, trainer_uid, start_time, end_time, status
			  FROM mirror_sessions
			  WHERE member_uid = $1 AND start_time >= now()
			  ORDER BY start_time ASC`
	rows, err := s.DB.QueryContext(ctx, query, memberUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(op, rows)
}

// ListMirrorPastSessions возвращает страницу истории тренировок клиента из зеркала.
func (s *Storage) ListMirrorPastSessions(ctx context.Context, memberUID string, limit, offset int) ([]*models.Session, error) {
	const op = "repository.ListMirrorPastSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, member_uid, trainer_uid, start_time, end_time, status
			  FROM mirror_sessions
			  WHERE member_uid = $1 AND start_time < now()
			  ORDER BY start_time DESC, uid
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, memberUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(op, rows)
}

// CountMirrorPastSessions подсчитывает прошедшие тренировки клиента в зеркале.
func (s *Storage) CountMirrorPastSessions(ctx context.Context, memberUID string) (int, error) {
	const op = "repository.CountMirrorPastSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM mirror_sessions WHERE member_uid = $1 AND start_time < now()`,
		memberUID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
