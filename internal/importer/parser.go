package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantlog/quantlog/internal/domain/models"
	"github.com/quantlog/quantlog/internal/storage"
)

// expectedHeaders enforces strict column ordering for broker CSV exports.
// If the header doesn't match EXACTLY (order + count), the import must fail.
var expectedHeaders = []string{
	"symbol",
	"side",
	"entry_price",
	"exit_price",
	"quantity",
	"profit_loss",
	"roi",
	"executed_at",
}

// parseAndPersistFile opens, validates, parses, and persists one file in batches.
// It fails on:
//   - header not matching expected order/length
//   - malformed numeric or timestamp values
//   - unrecoverable I/O errors
//
// It tolerates:
//   - empty optional cells (exit_price, profit_loss, roi become zero values)
func parseAndPersistFile(ctx context.Context, path string, repo storage.JournalRepository, userID, checksum string, batch int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // allow variable but we’ll check explicitly

	// Validate headers strictly.
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(expectedHeaders) {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != expectedHeaders[i] {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, expectedHeaders[i], h)
		}
	}

	// Parse rows streaming; flush batches to DB.
	buf := make([]models.Trade, 0, batch)
	lineNumber := 1 // header already read

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertTradesBatch(buf, checksum); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	total := 0

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		// Enforce structure: exactly 8 columns. If not, fail the entire import.
		if len(rec) != len(expectedHeaders) {
			return 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, len(expectedHeaders), len(rec))
		}

		tr, err := recordToTrade(rec, userID)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		buf = append(buf, tr)
		total++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, fmt.Errorf("flush batch ending line %d: %w", lineNumber, err)
			}
		}
	}

	// Final flush
	if err := flush(); err != nil {
		return 0, fmt.Errorf("final flush: %w", err)
	}

	return total, nil
}

// recordToTrade converts a single CSV record (already validated length==8)
// into a models.Trade owned by userID. It is STRICT about types/format but
// TOLERATES empty optional cells, mapping them to zero-values.
//
// Column order:
//
//	0 symbol       → Symbol (string, uppercased, required)
//	1 side         → Side ("long"/"short", case-insensitive, required)
//	2 entry_price  → EntryPrice (float, required)
//	3 exit_price   → ExitPrice (float, empty→0)
//	4 quantity     → Quantity (float, required, must be >= 0)
//	5 profit_loss  → ProfitLoss (float, empty→0)
//	6 roi          → ROI (float, empty→0)
//	7 executed_at  → CreatedAt (RFC 3339 or "2006-01-02", required)
func recordToTrade(rec []string, userID string) (models.Trade, error) {
	t := models.Trade{
		ID:     uuid.NewString(),
		UserID: userID,
	}

	// symbol (0)
	t.Symbol = strings.ToUpper(strings.TrimSpace(rec[0]))
	if t.Symbol == "" {
		return t, fmt.Errorf("empty symbol")
	}

	// side (1)
	t.Side = models.Side(strings.ToLower(strings.TrimSpace(rec[1])))
	if !t.Side.Valid() {
		return t, fmt.Errorf("invalid side: %q", rec[1])
	}

	// entry_price (2)
	v, err := parseFloatCell(rec[2], true)
	if err != nil {
		return t, fmt.Errorf("invalid entry_price: %v", err)
	}
	t.EntryPrice = v

	// exit_price (3) — may be empty for open positions
	if v, err = parseFloatCell(rec[3], false); err != nil {
		return t, fmt.Errorf("invalid exit_price: %v", err)
	}
	t.ExitPrice = v

	// quantity (4)
	if v, err = parseFloatCell(rec[4], true); err != nil {
		return t, fmt.Errorf("invalid quantity: %v", err)
	}
	if v < 0 {
		return t, fmt.Errorf("negative quantity: %v", v)
	}
	t.Quantity = v

	// profit_loss (5) — may be empty
	if v, err = parseFloatCell(rec[5], false); err != nil {
		return t, fmt.Errorf("invalid profit_loss: %v", err)
	}
	t.ProfitLoss = v

	// roi (6) — may be empty
	if v, err = parseFloatCell(rec[6], false); err != nil {
		return t, fmt.Errorf("invalid roi: %v", err)
	}
	t.ROI = v

	// executed_at (7)
	s := strings.TrimSpace(rec[7])
	if s == "" {
		return t, fmt.Errorf("empty executed_at")
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		ts, err = time.Parse("2006-01-02", s)
		if err != nil {
			return t, fmt.Errorf("invalid executed_at: %q", s)
		}
	}
	t.CreatedAt = ts.UTC()

	return t, nil
}

// parseFloatCell parses a numeric cell. Empty cells are an error only when
// required; otherwise they become 0.
func parseFloatCell(s string, required bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			return 0, fmt.Errorf("empty required value")
		}
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
