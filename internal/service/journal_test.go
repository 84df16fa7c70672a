package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quantlog/quantlog/internal/domain/dto"
	"github.com/quantlog/quantlog/internal/domain/models"
)

type stubRepo struct {
	trades   []models.Trade
	sessions []models.Session
	capital  float64
	err      error

	inserted  []models.Trade
	deletedID string
}

func (s *stubRepo) InsertTrade(t models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, t)
	return nil
}
func (s *stubRepo) InsertTradesBatch(_ []models.Trade, _ string) error { return s.err }
func (s *stubRepo) GetTradeByID(_ string) (*models.Trade, error)       { return nil, s.err }
func (s *stubRepo) ListTradesByUser(_ string) ([]models.Trade, error)  { return s.trades, s.err }
func (s *stubRepo) DeleteTrade(id string) error {
	s.deletedID = id
	return s.err
}
func (s *stubRepo) CreateSession(_ models.Session) error { return s.err }
func (s *stubRepo) ListSessionsByUser(_ string) ([]models.Session, error) {
	return s.sessions, s.err
}
func (s *stubRepo) CloseSession(_ string) error               { return s.err }
func (s *stubRepo) ActiveCapital(_ string) (float64, error)   { return s.capital, s.err }
func (s *stubRepo) HasImportForChecksum(_ string) (bool, error) { return false, nil }
func (s *stubRepo) RecordImport(_, _ string, _ int) error       { return nil }
func (s *stubRepo) DeleteTradesByImport(_ string) error         { return nil }

func TestCreateTrade_AssignsIdentity(t *testing.T) {
	repo := &stubRepo{}
	svc := NewJournalService(repo)

	out, err := svc.CreateTrade(context.Background(), dto.CreateTradeRequest{
		UserID: "u1", Symbol: "EURUSD", Side: "long", ProfitLoss: 42, ROI: 0.4,
	})
	if err != nil {
		t.Fatalf("CreateTrade: %v", err)
	}
	if out.ID == "" || out.CreatedAt.IsZero() {
		t.Fatalf("identity not assigned: %+v", out)
	}
	if out.Side != models.SideLong {
		t.Fatalf("side not mapped: %+v", out)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].ID != out.ID {
		t.Fatalf("trade not persisted: %+v", repo.inserted)
	}
}

func TestCreateTrade_RepoError(t *testing.T) {
	svc := NewJournalService(&stubRepo{err: errors.New("boom")})
	if _, err := svc.CreateTrade(context.Background(), dto.CreateTradeRequest{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetStatistics_TableDriven(t *testing.T) {
	winning := []models.Trade{
		{ProfitLoss: 10, ROI: 1, Side: models.SideLong},
		{ProfitLoss: 20, ROI: 2, Side: models.SideShort},
	}

	cases := []struct {
		name    string
		repo    *stubRepo
		wantErr bool
		check   func(t *testing.T, stats *models.Statistics)
	}{
		{
			name: "computes over repo trades and capital",
			repo: &stubRepo{trades: winning, capital: 9000},
			check: func(t *testing.T, stats *models.Statistics) {
				if stats.TotalTrades != 2 || stats.TotalPnL != 30 {
					t.Fatalf("unexpected stats: %+v", stats)
				}
				if stats.ActiveCapital != 9000 {
					t.Fatalf("capital not threaded through: %+v", stats)
				}
				if stats.LongTrades != 1 || stats.ShortTrades != 1 {
					t.Fatalf("side counts wrong: %+v", stats)
				}
			},
		},
		{
			name: "empty journal still reports capital",
			repo: &stubRepo{capital: 500},
			check: func(t *testing.T, stats *models.Statistics) {
				if stats.TotalTrades != 0 || stats.ActiveCapital != 500 {
					t.Fatalf("unexpected stats: %+v", stats)
				}
				if stats.RiskLevel != models.RiskLow {
					t.Fatalf("expected low risk: %+v", stats)
				}
			},
		},
		{
			name:    "repo error propagates",
			repo:    &stubRepo{err: errors.New("db down")},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewJournalService(tc.repo)
			stats, err := svc.GetStatistics(context.Background(), "u1")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got stats=%+v", stats)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetStatistics: %v", err)
			}
			tc.check(t, stats)
		})
	}
}

func TestCreateSession_StartsActiveWithFullCapital(t *testing.T) {
	svc := NewJournalService(&stubRepo{})

	out, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		UserID: "u1", Name: "swing", StartingCapital: 10000,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if out.Status != models.SessionActive || out.CurrentCapital != 10000 {
		t.Fatalf("unexpected session: %+v", out)
	}
}

func TestDeleteTrade_Passthrough(t *testing.T) {
	repo := &stubRepo{}
	svc := NewJournalService(repo)
	if err := svc.DeleteTrade(context.Background(), "t9"); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}
	if repo.deletedID != "t9" {
		t.Fatalf("wrong id: %q", repo.deletedID)
	}
}
