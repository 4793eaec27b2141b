// Package storage persists transactions, category assignments and the
// seeded category reference data in a local SQLite database, and
// serves the read-side aggregation queries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"

	_ "modernc.org/sqlite"
)

// ErrCategoryNotFound is returned when a category name does not match
// the seeded reference data.
var ErrCategoryNotFound = errors.New("category not found")

// TransactionRecord is a persisted transaction with its (possibly
// empty) assigned category name, as shown in listings.
type TransactionRecord struct {
	core.Transaction
	Category string
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertTransaction persists one transaction and returns its id.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(account_id, transaction_date, payee_description, reference_number, address_info, amount_cents, note, tax_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.AccountID, t.Date, t.Payee, nullable(t.Reference), nullable(t.Address), t.Amount.Cents, nullable(t.Note), t.TaxYear)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

// InsertBatch persists a whole import batch in one database
// transaction, so a write failure rolls back the partial batch.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, txns []core.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(account_id, transaction_date, payee_description, reference_number, address_info, amount_cents, note, tax_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("validate transaction: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			t.AccountID, t.Date, t.Payee, nullable(t.Reference), nullable(t.Address), t.Amount.Cents, nullable(t.Note), t.TaxYear); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}

	slog.InfoContext(ctx, "Import batch persisted", "count", inserted)
	return inserted, nil
}

// ListTransactions returns transactions with their assigned category
// names; year 0 means all years.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year int) ([]TransactionRecord, error) {
	query := `
		SELECT t.id, t.account_id, t.transaction_date, t.payee_description,
		       t.reference_number, t.address_info, t.amount_cents, t.note, t.tax_year,
		       c.name
		FROM transactions t
		LEFT JOIN transaction_categories tc ON t.id = tc.transaction_id
		LEFT JOIN categories c ON tc.category_id = c.id`
	var args []any
	if year != 0 {
		query += " WHERE t.tax_year = ?"
		args = append(args, year)
	}
	query += " ORDER BY t.transaction_date, t.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var records []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		var payee, reference, address, note, category sql.NullString
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Date, &payee,
			&reference, &address, &rec.Amount.Cents, &note, &rec.TaxYear, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		rec.Payee = payee.String
		rec.Reference = reference.String
		rec.Address = address.String
		rec.Note = note.String
		rec.Category = category.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListCategories returns the seeded reference data in name order.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryByName resolves a category by its (lowercase) name.
func (r *SQLiteRepository) CategoryByName(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE name = ?", name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("%q: %w", name, ErrCategoryNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("category by name: %w", err)
	}
	return c, nil
}

// AssignCategory gives a transaction its (at most one) category.
// Replace semantics: any prior assignment is removed first, both
// statements inside one database transaction.
func (r *SQLiteRepository) AssignCategory(ctx context.Context, txnID, categoryID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM transaction_categories WHERE transaction_id = ?", txnID); err != nil {
		return fmt.Errorf("delete prior assignment: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO transaction_categories (transaction_id, category_id) VALUES (?, ?)",
		txnID, categoryID); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment: %w", err)
	}
	return nil
}

// ClearCategory removes a transaction's assignment, leaving it
// unassigned. Clearing an unassigned transaction is a no-op.
func (r *SQLiteRepository) ClearCategory(ctx context.Context, txnID int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM transaction_categories WHERE transaction_id = ?", txnID); err != nil {
		return fmt.Errorf("clear assignment: %w", err)
	}
	return nil
}

// AssignedCategory returns a transaction's category, if any.
func (r *SQLiteRepository) AssignedCategory(ctx context.Context, txnID int64) (core.Category, bool, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.name
		FROM transaction_categories tc
		INNER JOIN categories c ON tc.category_id = c.id
		WHERE tc.transaction_id = ?`, txnID).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, false, nil
	}
	if err != nil {
		return core.Category{}, false, fmt.Errorf("assigned category: %w", err)
	}
	return c, true, nil
}

// TotalRevenue sums transactions assigned to the reserved "income"
// category. Year 0 means all years; an empty set sums to zero.
func (r *SQLiteRepository) TotalRevenue(ctx context.Context, year int) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		INNER JOIN transaction_categories tc ON t.id = tc.transaction_id
		INNER JOIN categories c ON tc.category_id = c.id
		WHERE c.name = ?`
	args := []any{core.CategoryIncome}
	if year != 0 {
		query += " AND t.tax_year = ?"
		args = append(args, year)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("total revenue: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// TotalExpenses sums every categorized transaction with a negative
// amount. The split is sign-based, not category-based: an assigned
// transaction with a positive amount counts toward neither total
// unless its category is literally "income".
func (r *SQLiteRepository) TotalExpenses(ctx context.Context, year int) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		INNER JOIN transaction_categories tc ON t.id = tc.transaction_id
		WHERE t.amount_cents < 0`
	var args []any
	if year != 0 {
		query += " AND t.tax_year = ?"
		args = append(args, year)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("total expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// ExpensesByCategory groups categorized negative amounts by category,
// excluding "income", in the fixed Schedule C display order followed
// by name order. The ordering is a display convenience only.
func (r *SQLiteRepository) ExpensesByCategory(ctx context.Context, year int) ([]core.CategoryTotal, error) {
	query := `
		SELECT c.name, SUM(t.amount_cents) AS total
		FROM transactions t
		INNER JOIN transaction_categories tc ON t.id = tc.transaction_id
		INNER JOIN categories c ON tc.category_id = c.id
		WHERE t.amount_cents < 0 AND c.name != ?`
	args := []any{core.CategoryIncome}
	if year != 0 {
		query += " AND t.tax_year = ?"
		args = append(args, year)
	}
	query += `
		GROUP BY c.id, c.name
		ORDER BY
			CASE c.name
				WHEN 'contract labor' THEN 1
				WHEN 'rent' THEN 2
				WHEN 'advertising' THEN 3
				WHEN 'supplies' THEN 4
				WHEN 'office expense' THEN 5
				WHEN 'no category' THEN 6
				ELSE 7
			END,
			c.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// Summary bundles the three aggregate queries for one tax year.
func (r *SQLiteRepository) Summary(ctx context.Context, year int) (core.YearSummary, error) {
	revenue, err := r.TotalRevenue(ctx, year)
	if err != nil {
		return core.YearSummary{}, err
	}
	expenses, err := r.TotalExpenses(ctx, year)
	if err != nil {
		return core.YearSummary{}, err
	}
	byCategory, err := r.ExpensesByCategory(ctx, year)
	if err != nil {
		return core.YearSummary{}, err
	}
	return core.YearSummary{
		TaxYear:    year,
		Revenue:    revenue,
		Expenses:   expenses,
		ByCategory: byCategory,
	}, nil
}

// nullable maps "" to NULL for the optional text columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
