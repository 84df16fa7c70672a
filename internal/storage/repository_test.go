package storage

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/quantlog/quantlog/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*journalRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &journalRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

var tradeCols = []string{"id", "user_id", "symbol", "side", "entry_price", "exit_price", "quantity", "profit_loss", "roi", "notes", "created_at"}

func sampleTrade(id string, pnl float64) models.Trade {
	return models.Trade{
		ID:         id,
		UserID:     "u1",
		Symbol:     "EURUSD",
		Side:       models.SideLong,
		EntryPrice: 1.08,
		ExitPrice:  1.09,
		Quantity:   2,
		ProfitLoss: pnl,
		ROI:        pnl / 100,
		Notes:      "n",
		CreatedAt:  time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestListTradesByUser_OrderedQuery(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	tr := sampleTrade("t1", 50)
	rows := sqlmock.NewRows(tradeCols).
		AddRow(tr.ID, tr.UserID, tr.Symbol, string(tr.Side), tr.EntryPrice, tr.ExitPrice,
			tr.Quantity, tr.ProfitLoss, tr.ROI, tr.Notes, tr.CreatedAt).
		AddRow("t2", "u1", "BTCUSDT", "short", 64000.0, 63000.0, 0.5, -500.0, -0.78, "", tr.CreatedAt.Add(time.Hour))

	// Ordering is part of the contract: analytics consumes the sequence as chronological.
	mock.ExpectQuery(`SELECT .* FROM trades\s+WHERE user_id = \$1\s+ORDER BY created_at, id`).
		WithArgs("u1").WillReturnRows(rows)

	out, err := repo.ListTradesByUser("u1")
	if err != nil {
		t.Fatalf("ListTradesByUser: %v", err)
	}
	if len(out) != 2 || out[0].ID != "t1" || out[1].Side != models.SideShort {
		t.Fatalf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetTradeByID(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	tr := sampleTrade("t1", 50)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(tradeCols).
			AddRow(tr.ID, tr.UserID, tr.Symbol, string(tr.Side), tr.EntryPrice, tr.ExitPrice,
				tr.Quantity, tr.ProfitLoss, tr.ROI, tr.Notes, tr.CreatedAt)
		mock.ExpectQuery(`SELECT .* FROM trades WHERE id = \$1`).WithArgs("t1").WillReturnRows(rows)

		out, err := repo.GetTradeByID("t1")
		if err != nil || out == nil || out.ID != "t1" {
			t.Fatalf("unexpected out=%+v err=%v", out, err)
		}
	})

	t.Run("missing returns nil, nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM trades WHERE id = \$1`).WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(tradeCols))

		out, err := repo.GetTradeByID("nope")
		if err != nil || out != nil {
			t.Fatalf("want nil,nil got out=%+v err=%v", out, err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTrade(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trades WHERE id = $1")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.DeleteTrade("t1"); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trades WHERE id = $1")).
		WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.DeleteTrade("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertTrade(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	tr := sampleTrade("t1", 50)
	mock.ExpectExec(`INSERT INTO trades`).
		WithArgs(tr.ID, tr.UserID, tr.Symbol, string(tr.Side), tr.EntryPrice, tr.ExitPrice,
			tr.Quantity, tr.ProfitLoss, tr.ROI, tr.Notes, tr.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.InsertTrade(tr); err != nil {
		t.Fatalf("InsertTrade: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessions(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	s := models.Session{
		ID: "s1", UserID: "u1", Name: "swing", StartingCapital: 10000,
		CurrentCapital: 10500, Status: models.SessionActive,
		CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(s.ID, s.UserID, s.Name, s.StartingCapital, s.CurrentCapital, string(s.Status), s.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.CreateSession(s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "starting_capital", "current_capital", "status", "created_at"}).
		AddRow(s.ID, s.UserID, s.Name, s.StartingCapital, s.CurrentCapital, string(s.Status), s.CreatedAt)
	mock.ExpectQuery(`SELECT .* FROM sessions\s+WHERE user_id = \$1`).
		WithArgs("u1").WillReturnRows(rows)
	sessions, err := repo.ListSessionsByUser("u1")
	if err != nil || len(sessions) != 1 || sessions[0].Status != models.SessionActive {
		t.Fatalf("ListSessionsByUser: sessions=%+v err=%v", sessions, err)
	}

	mock.ExpectExec(`UPDATE sessions SET status = 'closed'`).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.CloseSession("s1"); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	mock.ExpectExec(`UPDATE sessions SET status = 'closed'`).
		WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.CloseSession("s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound on already-closed session, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActiveCapital(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(current_capital\), 0\) FROM sessions`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(12500.0))

	capital, err := repo.ActiveCapital("u1")
	if err != nil || capital != 12500 {
		t.Fatalf("ActiveCapital: capital=%v err=%v", capital, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestImportLog(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM import_log WHERE checksum = $1)")).
		WithArgs("abc").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.HasImportForChecksum("abc")
	if err != nil || !ok {
		t.Fatalf("HasImportForChecksum: ok=%v err=%v", ok, err)
	}

	mock.ExpectExec(`INSERT INTO import_log`).
		WithArgs("abc", "trades.csv", 10).WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.RecordImport("abc", "trades.csv", 10); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM trades WHERE import_checksum = $1")).
		WithArgs("abc").WillReturnResult(sqlmock.NewResult(0, 3))
	if err := repo.DeleteTradesByImport("abc"); err != nil {
		t.Fatalf("DeleteTradesByImport: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewJournalRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	r := NewJournalRepository(db)
	if r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func TestInsertTradesBatch_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn cannot be intercepted precisely; allow any prepared statement,
	// one row exec plus the terminating Exec(). Close/Commit happen normally.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.InsertTradesBatch([]models.Trade{sampleTrade("t1", 50)}, "abc"); err != nil {
		t.Fatalf("InsertTradesBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertTradesBatch_ErrorOnBegin(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin().WillReturnError(dummyErr{})
	if err := repo.InsertTradesBatch([]models.Trade{{}}, "abc"); err == nil {
		t.Fatalf("expected error on begin")
	}
}

func TestInsertTradesBatch_ErrorOnRowExec(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL synchronous_commit = OFF")).WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnError(dummyErr{})
	mock.ExpectRollback()

	if err := repo.InsertTradesBatch([]models.Trade{{ID: "x"}}, "abc"); err == nil {
		t.Fatalf("expected error on row exec")
	}
}
