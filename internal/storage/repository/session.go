package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-scheduler/internal/errs"
	"github.com/magabrotheeeer/gym-scheduler/internal/models"
)

// conflictQuery ищет тренировку тренера, пересекающуюся с интервалом [$2, $3).
// Проверка именно на пересечение, а не на вхождение: start < newEnd AND end > newStart.
const conflictQuery = `SELECT uid FROM sessions
	  WHERE trainer_uid = $1
	    AND start_time < $3
	    AND end_time > $2
	  LIMIT 1`

const conflictExcludingQuery = `SELECT uid FROM sessions
	  WHERE trainer_uid = $1
	    AND uid <> $4
	    AND start_time < $3
	    AND end_time > $2
	  LIMIT 1`

// lockTrainer сериализует конкурентные записи расписания одного тренера
// внутри транзакции. Без этого между проверкой конфликта и вставкой есть
// окно, в котором две одновременные записи могут пройти проверку и пересечься.
func lockTrainer(ctx context.Context, tx *sql.Tx, trainerUID string) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, trainerUID)
	return err
}

// CreateSessionGuarded вставляет тренировку, предварительно проверив
// пересечения в той же транзакции под advisory-блокировкой тренера.
// При пересечении возвращает errs.ErrSlotConflict и идентификатор
// конфликтующей тренировки.
func (s *Storage) CreateSessionGuarded(ctx context.Context, session models.Session) (string, error) {
	const op = "repository.CreateSessionGuarded"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockTrainer(ctx, tx, session.TrainerUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var conflictUID string
	err = tx.QueryRowContext(ctx, conflictQuery,
		session.TrainerUID, session.StartTime, session.EndTime).Scan(&conflictUID)
	switch {
	case err == nil:
		return conflictUID, fmt.Errorf("%s: %w", op, errs.ErrSlotConflict)
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO sessions (uid, name, member_uid, trainer_uid, start_time, end_time, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, query, session.UID, session.Name, session.MemberUID,
		session.TrainerUID, session.StartTime, session.EndTime, session.Status); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return "", nil
}

// UpdateSessionGuarded переносит тренировку на новый интервал под той же
// advisory-блокировкой. Сама переносимая тренировка из проверки исключается,
// иначе она всегда конфликтовала бы со своим прежним интервалом.
func (s *Storage) UpdateSessionGuarded(ctx context.Context, session models.Session) (string, error) {
	const op = "repository.UpdateSessionGuarded"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockTrainer(ctx, tx, session.TrainerUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var conflictUID string
	err = tx.QueryRowContext(ctx, conflictExcludingQuery,
		session.TrainerUID, session.StartTime, session.EndTime, session.UID).Scan(&conflictUID)
	switch {
	case err == nil:
		return conflictUID, fmt.Errorf("%s: %w", op, errs.ErrSlotConflict)
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE sessions
			  SET name = $2, start_time = $3, end_time = $4
			  WHERE uid = $1`
	result, err := tx.ExecContext(ctx, query, session.UID, session.Name,
		session.StartTime, session.EndTime)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return "", fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return "", nil
}

// GetSession возвращает тренировку по идентификатору.
func (s *Storage) GetSession(ctx context.Context, uid string) (*models.Session, error) {
	const op = "repository.GetSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, member_uid, trainer_uid, start_time, end_time, status
			  FROM sessions WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.Session
	if err := row.Scan(&result.UID, &result.Name, &result.MemberUID, &result.TrainerUID,
		&result.StartTime, &result.EndTime, &result.Status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RemoveSession удаляет тренировку по идентификатору и возвращает количество удалённых строк.
func (s *Storage) RemoveSession(ctx context.Context, uid string) (int, error) {
	const op = "repository.RemoveSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListUpcomingSessions возвращает предстоящие тренировки участника по
// возрастанию времени начала. Список не пагинируется: тренировки существуют
// только внутри окна допуска, рабочее множество мало по построению.
func (s *Storage) ListUpcomingSessions(ctx context.Context, scope models.PartyScope, partyUID string) ([]*models.Session, error) {
	const op = "repository.ListUpcomingSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT uid, name, member_uid, trainer_uid, start_time, end_time, status
			  FROM sessions
			  WHERE %s = $1 AND start_time >= now()
			  ORDER BY start_time ASC`, scope.Column())
	rows, err := s.DB.QueryContext(ctx, query, partyUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(op, rows)
}

// ListPastSessions возвращает страницу истории тренировок участника по
// убыванию времени начала. Вторичная сортировка по uid даёт стабильную пагинацию.
func (s *Storage) ListPastSessions(ctx context.Context, scope models.PartyScope, partyUID string, limit, offset int) ([]*models.Session, error) {
	const op = "repository.ListPastSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT uid, name, member_uid, trainer_uid, start_time, end_time, status
			  FROM sessions
			  WHERE %s = $1 AND start_time < now()
			  ORDER BY start_time DESC, uid
			  LIMIT $2 OFFSET $3`, scope.Column())
	rows, err := s.DB.QueryContext(ctx, query, partyUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(op, rows)
}

// CountPastSessions подсчитывает общее количество прошедших тренировок участника.
func (s *Storage) CountPastSessions(ctx context.Context, scope models.PartyScope, partyUID string) (int, error) {
	const op = "repository.CountPastSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM sessions
			  WHERE %s = $1 AND start_time < now()`, scope.Column())
	var total int
	if err := s.DB.QueryRowContext(ctx, query, partyUID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func scanSessions(op string, rows *sql.Rows) ([]*models.Session, error) {
	var result []*models.Session
	for rows.Next() {
		var item models.Session
		if err := rows.Scan(&item.UID, &item.Name, &item.MemberUID, &item.TrainerUID,
			&item.StartTime, &item.EndTime, &item.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
