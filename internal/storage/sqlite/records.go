package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

const blockColumns = `id, time,
	plan_content, plan_start_time, plan_end_time, plan_is_primary, plan_is_bio_locked, plan_span,
	do_status, do_actual_content, do_start_time, do_end_time, do_span,
	check_efficiency, check_tags, check_comment`

func (s *Store) GetRecord(date string) (models.DailyRecord, error) {
	record := models.DailyRecord{Date: date}
	var bio sql.NullString
	err := s.db.QueryRow(`
		SELECT primary_task_a, primary_task_b, day_summary, bio_config, revision, updated_at
		FROM daily_records WHERE date = ?`, date,
	).Scan(&record.PrimaryTasks[0], &record.PrimaryTasks[1], &record.DaySummary, &bio, &record.Revision, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyRecord{}, fmt.Errorf("%w: no record for %s", storage.ErrNotFound, date)
	}
	if err != nil {
		return models.DailyRecord{}, fmt.Errorf("failed to read record %s: %w", date, err)
	}

	if record.BioConfig, err = storage.DecodeBioConfig(bio); err != nil {
		return models.DailyRecord{}, fmt.Errorf("record %s: %w", date, err)
	}
	if record.TimeBlocks, err = s.getBlocks(date); err != nil {
		return models.DailyRecord{}, fmt.Errorf("failed to read blocks for %s: %w", date, err)
	}
	return record, nil
}

func (s *Store) getBlocks(date string) ([]models.TimeBlock, error) {
	rows, err := s.db.Query(`SELECT `+blockColumns+` FROM time_blocks WHERE record_date = ? ORDER BY position`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := []models.TimeBlock{}
	for rows.Next() {
		var b models.TimeBlock
		var tags string
		if err := rows.Scan(
			&b.ID, &b.Time,
			&b.Plan.Content, &b.Plan.StartTime, &b.Plan.EndTime, &b.Plan.IsPrimary, &b.Plan.IsBioLocked, &b.Plan.Span,
			&b.Do.Status, &b.Do.ActualContent, &b.Do.StartTime, &b.Do.EndTime, &b.Do.Span,
			&b.Check.Efficiency, &tags, &b.Check.Comment,
		); err != nil {
			return nil, err
		}
		if b.Check.Tags, err = storage.DecodeTags(tags); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// SaveRecord replaces the stored record for record.Date, blocks included, and
// increments its revision.
func (s *Store) SaveRecord(record models.DailyRecord) error {
	bio, err := storage.EncodeBioConfig(record.BioConfig)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var revision int
	err = tx.QueryRow("SELECT revision FROM daily_records WHERE date = ?", record.Date).Scan(&revision)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing record: %w", err)
	}
	revision++

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO daily_records (date, primary_task_a, primary_task_b, day_summary, bio_config, revision, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Date, record.PrimaryTasks[0], record.PrimaryTasks[1], record.DaySummary, bio, revision,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", record.Date, err)
	}

	if _, err := tx.Exec("DELETE FROM time_blocks WHERE record_date = ?", record.Date); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO time_blocks (record_date, position, ` + blockColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range record.TimeBlocks {
		tags, err := storage.EncodeTags(b.Check.Tags)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(
			record.Date, i, b.ID, b.Time,
			b.Plan.Content, b.Plan.StartTime, b.Plan.EndTime, b.Plan.IsPrimary, b.Plan.IsBioLocked, b.Plan.Span,
			string(b.Do.Status), b.Do.ActualContent, b.Do.StartTime, b.Do.EndTime, b.Do.Span,
			string(b.Check.Efficiency), tags, b.Check.Comment,
		); err != nil {
			return fmt.Errorf("failed to save block %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.Debug("saved record", "date", record.Date, "revision", revision, "blocks", len(record.TimeBlocks))
	return nil
}

func (s *Store) DeleteRecord(date string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM time_blocks WHERE record_date = ?", date); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM daily_records WHERE date = ?", date)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: no record for %s", storage.ErrNotFound, date)
	}
	return tx.Commit()
}

func (s *Store) GetRecordsFrom(date string) ([]models.DailyRecord, error) {
	return s.getRecords("SELECT date FROM daily_records WHERE date >= ? ORDER BY date", date)
}

func (s *Store) GetAllRecords() ([]models.DailyRecord, error) {
	return s.getRecords("SELECT date FROM daily_records ORDER BY date")
}

func (s *Store) getRecords(query string, args ...any) ([]models.DailyRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return nil, err
		}
		dates = append(dates, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]models.DailyRecord, 0, len(dates))
	for _, d := range dates {
		r, err := s.GetRecord(d)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
