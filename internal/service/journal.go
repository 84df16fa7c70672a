package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantlog/quantlog/internal/analytics"
	"github.com/quantlog/quantlog/internal/domain/dto"
	"github.com/quantlog/quantlog/internal/domain/models"
	"github.com/quantlog/quantlog/internal/storage"
)

// JournalService defines business logic over the trade journal.
// This decouples HTTP handlers from data access.
type JournalService interface {
	CreateTrade(ctx context.Context, req dto.CreateTradeRequest) (*models.Trade, error)
	ListTrades(ctx context.Context, userID string) ([]models.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
	GetStatistics(ctx context.Context, userID string) (*models.Statistics, error)

	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*models.Session, error)
	ListSessions(ctx context.Context, userID string) ([]models.Session, error)
	CloseSession(ctx context.Context, id string) error
}

type journalService struct {
	repo storage.JournalRepository
}

func NewJournalService(repo storage.JournalRepository) JournalService {
	return &journalService{repo: repo}
}

// CreateTrade assigns identity and timestamp to a validated request and
// persists it. Request validation belongs to the HTTP layer.
func (s *journalService) CreateTrade(_ context.Context, req dto.CreateTradeRequest) (*models.Trade, error) {
	trade := models.Trade{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Symbol:     req.Symbol,
		Side:       models.Side(req.Side),
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Quantity:   req.Quantity,
		ProfitLoss: req.ProfitLoss,
		ROI:        req.ROI,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.InsertTrade(trade); err != nil {
		return nil, fmt.Errorf("insert trade: %w", err)
	}
	return &trade, nil
}

func (s *journalService) ListTrades(_ context.Context, userID string) ([]models.Trade, error) {
	return s.repo.ListTradesByUser(userID)
}

func (s *journalService) DeleteTrade(_ context.Context, id string) error {
	return s.repo.DeleteTrade(id)
}

// GetStatistics loads the user's trades in journal order plus the active
// capital figure and runs the analytics pass over them. The aggregation
// itself is pure; everything fallible happens here.
func (s *journalService) GetStatistics(_ context.Context, userID string) (*models.Statistics, error) {
	trades, err := s.repo.ListTradesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	capital, err := s.repo.ActiveCapital(userID)
	if err != nil {
		return nil, fmt.Errorf("active capital: %w", err)
	}
	stats := analytics.Compute(trades, capital)
	return &stats, nil
}

func (s *journalService) CreateSession(_ context.Context, req dto.CreateSessionRequest) (*models.Session, error) {
	session := models.Session{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Name:            req.Name,
		StartingCapital: req.StartingCapital,
		CurrentCapital:  req.StartingCapital,
		Status:          models.SessionActive,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.CreateSession(session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *journalService) ListSessions(_ context.Context, userID string) ([]models.Session, error) {
	return s.repo.ListSessionsByUser(userID)
}

func (s *journalService) CloseSession(_ context.Context, id string) error {
	return s.repo.CloseSession(id)
}
