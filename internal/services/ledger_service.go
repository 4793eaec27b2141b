// Package services orchestrates imports and categorization on top of
// the storage layer.
package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/importer"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/storage"
)

// parseConcurrency bounds the import parse fan-out. Persistence stays
// sequential; only the pure parsing step runs in parallel.
const parseConcurrency = 4

// Observer is notified after committed ledger changes (imports,
// category edits), replacing ad-hoc refresh callbacks with an explicit
// registration.
type Observer interface {
	LedgerChanged(ctx context.Context)
}

// ImportResult reports one imported file.
type ImportResult struct {
	Path     string
	Format   importer.Format
	Imported int
}

// pendingEdit is a staged categorization command for one transaction.
// clear means "remove the assignment"; otherwise categoryID replaces
// whatever assignment exists.
type pendingEdit struct {
	categoryID int64
	clear      bool
}

// LedgerService owns the write-side operations: batch import and the
// staged category edits flushed by a single explicit Commit.
type LedgerService struct {
	store     *storage.SQLiteRepository
	importer  *importer.Importer
	logger    *log.Logger
	pending   map[int64]pendingEdit
	observers []Observer
}

func NewLedgerService(store *storage.SQLiteRepository, imp *importer.Importer, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		importer: imp,
		logger:   logger.WithComponent(log.ComponentLedger),
		pending:  make(map[int64]pendingEdit),
	}
}

// Register adds an observer for post-commit notifications.
func (s *LedgerService) Register(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *LedgerService) notify(ctx context.Context) {
	for _, o := range s.observers {
		o.LedgerChanged(ctx)
	}
}

// ImportFiles parses every file concurrently, then persists each
// file's batch sequentially in path order. A file whose format cannot
// be detected fails the whole command before anything is written; row
// level problems inside a file degrade per the lenient-parsing policy.
func (s *LedgerService) ImportFiles(ctx context.Context, paths []string, opts importer.Options) ([]ImportResult, error) {
	type parsed struct {
		path   string
		format importer.Format
		txns   []core.Transaction
	}

	results := make([]parsed, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for n, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			txns, format, err := s.importer.ParseFile(path, opts)
			if err != nil {
				return err
			}
			results[n] = parsed{path: path, format: format, txns: txns}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	imported := make([]ImportResult, 0, len(results))
	for _, p := range results {
		count, err := s.store.InsertBatch(ctx, p.txns)
		if err != nil {
			return imported, fmt.Errorf("persist %s: %w", p.path, err)
		}
		s.logger.InfoContext(ctx, "file imported",
			log.FieldFile, p.path,
			log.FieldFormat, p.format,
			log.FieldCount, count)
		imported = append(imported, ImportResult{Path: p.path, Format: p.format, Imported: count})
	}

	s.notify(ctx)
	return imported, nil
}

// StageCategory stages a replace-assignment for one transaction.
// Staging the same transaction again overwrites the earlier edit;
// nothing touches the store until Commit.
func (s *LedgerService) StageCategory(txnID, categoryID int64) {
	s.pending[txnID] = pendingEdit{categoryID: categoryID}
}

// StageClear stages removal of a transaction's assignment.
func (s *LedgerService) StageClear(txnID int64) {
	s.pending[txnID] = pendingEdit{clear: true}
}

// PendingCount reports how many edits are staged.
func (s *LedgerService) PendingCount() int {
	return len(s.pending)
}

// Commit flushes every staged edit in transaction-id order, clears
// the staging table, and notifies observers. A failed edit stops the
// flush and leaves the remaining edits staged.
func (s *LedgerService) Commit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	for _, id := range ids {
		edit := s.pending[id]
		var err error
		if edit.clear {
			err = s.store.ClearCategory(ctx, id)
		} else {
			err = s.store.AssignCategory(ctx, id, edit.categoryID)
		}
		if err != nil {
			return fmt.Errorf("commit edit for transaction %d: %w", id, err)
		}
		delete(s.pending, id)
	}

	s.logger.InfoContext(ctx, "category edits committed")
	s.notify(ctx)
	return nil
}

// CategoryByName resolves a category name for staging.
func (s *LedgerService) CategoryByName(ctx context.Context, name string) (core.Category, error) {
	return s.store.CategoryByName(ctx, name)
}
