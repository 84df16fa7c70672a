package importer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantlog/quantlog/internal/logger"
	"github.com/quantlog/quantlog/internal/storage"
)

const (
	fileSuffix       = ".csv"
	defaultBatchSize = 1000
	maxParallelCap   = 8
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.JournalRepository {
	return storage.NewJournalRepository(db)
}

// ProcessDirectory imports every .csv export found in dir for the given user.
//
// Behavior:
//   - Each file is fingerprinted with SHA-256; a file whose checksum already
//     appears in import_log is skipped unless force is set.
//   - With force, previously imported rows for that checksum are deleted and
//     the file is reprocessed.
//   - Files are processed concurrently (clamped to 1..8, defaulting to
//     min(8, NumCPU)); the first failure cancels the rest.
//
// Returns:
//   - error: first error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, userID string, parallel int, force bool) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required for import")
	}

	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found in %s", fileSuffix, dir)
	}
	sort.Strings(files)

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Str("user_id", userID).Msg("import start")

	// Concurrency: default to min(8, NumCPU), or use provided clamp(1..8)
	maxParallel := maxParallelCap
	if parallel > 0 {
		if parallel > maxParallelCap {
			parallel = maxParallelCap
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("max_parallel", maxParallel).Msg("import configured")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxParallel)

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()
			base := filepath.Base(f)
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			checksum, err := fileChecksum(f)
			if err != nil {
				logger.L().Error().Str("file", base).Err(err).Msg("checksum failed")
				return fmt.Errorf("file %s: checksum: %w", f, err)
			}

			// Idempotency: skip if this exact file was already imported, unless force
			exists, err := repo.HasImportForChecksum(checksum)
			if err != nil {
				logger.L().Error().Str("file", base).Err(err).Msg("check import log failed")
				return fmt.Errorf("file %s: check import log: %w", f, err)
			}
			if exists && !force {
				logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Bool("skipped", true).Msg("already imported")
				return nil
			}
			if exists && force {
				// Delete rows from the previous run of this file and reprocess
				if err := repo.DeleteTradesByImport(checksum); err != nil {
					logger.L().Error().Str("file", base).Err(err).Msg("delete existing failed")
					return fmt.Errorf("file %s: delete existing: %w", f, err)
				}
			}

			total, err := parseAndPersistFile(gctx, f, repo, userID, checksum, defaultBatchSize)
			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if err := repo.RecordImport(checksum, base, total); err != nil {
				logger.L().Error().Str("file", base).Err(err).Msg("update import log failed")
				return fmt.Errorf("file %s: record import: %w", f, err)
			}
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Int("rows", total).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// fileChecksum returns the hex SHA-256 of the file contents.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
