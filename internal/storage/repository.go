package storage

import (
	"database/sql"
	"errors"

	pq "github.com/lib/pq"
	"github.com/quantlog/quantlog/internal/domain/models"
)

// ErrNotFound is returned when a delete or update targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// JournalRepository defines the contract for all journal DB operations.
type JournalRepository interface {
	InsertTrade(trade models.Trade) error
	InsertTradesBatch(trades []models.Trade, importChecksum string) error
	GetTradeByID(id string) (*models.Trade, error)
	ListTradesByUser(userID string) ([]models.Trade, error)
	DeleteTrade(id string) error

	CreateSession(session models.Session) error
	ListSessionsByUser(userID string) ([]models.Session, error)
	CloseSession(id string) error
	ActiveCapital(userID string) (float64, error)

	HasImportForChecksum(checksum string) (bool, error)
	RecordImport(checksum, filename string, rowCount int) error
	DeleteTradesByImport(checksum string) error
}

type journalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) JournalRepository {
	return &journalRepository{db: db}
}

const tradeColumns = `id, user_id, symbol, side, entry_price, exit_price, quantity, profit_loss, roi, notes, created_at`

// InsertTrade persists a single manually journaled trade.
func (r *journalRepository) InsertTrade(t models.Trade) error {
	_, err := r.db.Exec(`
		INSERT INTO trades (`+tradeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.ID, t.UserID, t.Symbol, string(t.Side), t.EntryPrice, t.ExitPrice,
		t.Quantity, t.ProfitLoss, t.ROI, t.Notes, t.CreatedAt)
	return err
}

// InsertTradesBatch bulk-loads imported trades in a single transaction via
// COPY. importChecksum tags the rows so a forced reimport can remove them.
func (r *journalRepository) InsertTradesBatch(trades []models.Trade, importChecksum string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"trades",
		"id",
		"user_id",
		"symbol",
		"side",
		"entry_price",
		"exit_price",
		"quantity",
		"profit_loss",
		"roi",
		"notes",
		"created_at",
		"import_checksum",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, t := range trades {
		if _, err := stmt.Exec(
			t.ID,
			t.UserID,
			t.Symbol,
			string(t.Side),
			t.EntryPrice,
			t.ExitPrice,
			t.Quantity,
			t.ProfitLoss,
			t.ROI,
			t.Notes,
			t.CreatedAt,
			importChecksum,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetTradeByID returns (nil, nil) when the trade does not exist.
func (r *journalRepository) GetTradeByID(id string) (*models.Trade, error) {
	var t models.Trade
	var side string
	err := r.db.QueryRow(`
		SELECT `+tradeColumns+` FROM trades WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.Symbol, &side, &t.EntryPrice, &t.ExitPrice,
		&t.Quantity, &t.ProfitLoss, &t.ROI, &t.Notes, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Side = models.Side(side)
	return &t, nil
}

// ListTradesByUser returns the user's trades in journal order.
//
// The ordering (created_at, then id as tiebreaker) is load-bearing: the
// analytics pass treats the returned sequence as chronological.
func (r *journalRepository) ListTradesByUser(userID string) ([]models.Trade, error) {
	rows, err := r.db.Query(`
		SELECT `+tradeColumns+` FROM trades
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Trade
	for rows.Next() {
		var t models.Trade
		var side string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &side, &t.EntryPrice,
			&t.ExitPrice, &t.Quantity, &t.ProfitLoss, &t.ROI, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Side = models.Side(side)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *journalRepository) DeleteTrade(id string) error {
	res, err := r.db.Exec(`DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *journalRepository) CreateSession(s models.Session) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (id, user_id, name, starting_capital, current_capital, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.UserID, s.Name, s.StartingCapital, s.CurrentCapital, string(s.Status), s.CreatedAt)
	return err
}

func (r *journalRepository) ListSessionsByUser(userID string) ([]models.Session, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, starting_capital, current_capital, status, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Session
	for rows.Next() {
		var s models.Session
		var status string
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.StartingCapital,
			&s.CurrentCapital, &status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = models.SessionStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *journalRepository) CloseSession(id string) error {
	res, err := r.db.Exec(`
		UPDATE sessions SET status = 'closed' WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveCapital sums current capital across the user's active sessions.
// A user with no active sessions gets 0, not an error.
func (r *journalRepository) ActiveCapital(userID string) (float64, error) {
	var capital float64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(current_capital), 0) FROM sessions
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&capital)
	if err != nil {
		return 0, err
	}
	return capital, nil
}

// HasImportForChecksum checks whether a broker export file was already imported.
func (r *journalRepository) HasImportForChecksum(checksum string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM import_log WHERE checksum = $1)`, checksum).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// RecordImport records (or refreshes) an import entry for a file checksum.
func (r *journalRepository) RecordImport(checksum, filename string, rowCount int) error {
	_, err := r.db.Exec(`
		INSERT INTO import_log (checksum, filename, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (checksum)
		DO UPDATE SET filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  imported_at = NOW()
	`, checksum, filename, rowCount)
	return err
}

// DeleteTradesByImport removes all trades loaded from a given export file.
func (r *journalRepository) DeleteTradesByImport(checksum string) error {
	_, err := r.db.Exec(`DELETE FROM trades WHERE import_checksum = $1`, checksum)
	return err
}
