/*
Package sqlite provides a SQLite-backed implementation of planner.Store.

PURPOSE:
  Persists planners and their records using SQLite. In production, the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  planners:             Planner settings (threshold, currency)
  incomes:              Income records with recurrence rules
  expenses:             One-off and installment expenses
  credit_cards:         Cards grouping invoices
  credit_card_invoices: Per-month invoice totals
  savings_adjustments:  Manual balance contributions/expenses

AMOUNTS:
  Monetary amounts are stored as TEXT in decimal string form and parsed
  with shopspring/decimal on read. Storing floats would reintroduce the
  rounding drift the decimal type exists to avoid.

DATES:
  Dates are stored as "YYYY-MM-DD" strings and invoice months as
  "YYYY-MM" keys, exactly as the engine consumes them. Rows with
  malformed dates load fine; the engine skips them at computation time.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - planner/store.go: Interface definition
  - planner/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/plannerhq/finance-planner/engine"
	"github.com/plannerhq/finance-planner/planner"
)

// Store implements planner.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ planner.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS planners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		alert_threshold REAL NOT NULL,
		currency TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		planner_id TEXT NOT NULL REFERENCES planners(id),
		description TEXT NOT NULL,
		income_type TEXT,
		amount TEXT NOT NULL,
		start_date TEXT NOT NULL,
		recurrence_kind TEXT NOT NULL,
		recurrence_months INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_incomes_planner ON incomes(planner_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		planner_id TEXT NOT NULL REFERENCES planners(id),
		description TEXT NOT NULL,
		category TEXT,
		amount TEXT NOT NULL,
		due_date TEXT NOT NULL,
		paid INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_planner ON expenses(planner_id);

	CREATE TABLE IF NOT EXISTS credit_cards (
		id TEXT PRIMARY KEY,
		planner_id TEXT NOT NULL REFERENCES planners(id),
		bank_name TEXT NOT NULL,
		card_name TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_cards_planner ON credit_cards(planner_id);

	CREATE TABLE IF NOT EXISTS credit_card_invoices (
		id TEXT PRIMARY KEY,
		card_id TEXT NOT NULL REFERENCES credit_cards(id),
		planner_id TEXT NOT NULL REFERENCES planners(id),
		card_label TEXT NOT NULL,
		month TEXT NOT NULL,
		amount_due TEXT NOT NULL,
		due_date TEXT NOT NULL,
		paid INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_invoices_planner ON credit_card_invoices(planner_id);
	CREATE INDEX IF NOT EXISTS idx_invoices_card_month ON credit_card_invoices(card_id, month);

	CREATE TABLE IF NOT EXISTS savings_adjustments (
		id TEXT PRIMARY KEY,
		planner_id TEXT NOT NULL REFERENCES planners(id),
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		adjustment_date TEXT NOT NULL,
		kind TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_adjustments_planner ON savings_adjustments(planner_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// parseAmount tolerates malformed stored amounts by treating them as
// zero; a bad row should not take down every read of the planner.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// PLANNERS
// =============================================================================

func (s *Store) CreatePlanner(ctx context.Context, p planner.Planner) (planner.Planner, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO planners (id, name, type, alert_threshold, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.Type), p.AlertThreshold, p.Currency, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return planner.Planner{}, fmt.Errorf("insert planner: %w", err)
	}
	return p, nil
}

func (s *Store) GetPlanner(ctx context.Context, id string) (planner.Planner, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, alert_threshold, currency, created_at
		FROM planners WHERE id = ?`, id)
	return scanPlanner(row)
}

func (s *Store) ListPlanners(ctx context.Context) ([]planner.Planner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, alert_threshold, currency, created_at
		FROM planners ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query planners: %w", err)
	}
	defer rows.Close()

	var out []planner.Planner
	for rows.Next() {
		p, err := scanPlanner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanner(row rowScanner) (planner.Planner, error) {
	var p planner.Planner
	var typ, createdAt string
	err := row.Scan(&p.ID, &p.Name, &typ, &p.AlertThreshold, &p.Currency, &createdAt)
	if err == sql.ErrNoRows {
		return planner.Planner{}, planner.ErrPlannerNotFound
	}
	if err != nil {
		return planner.Planner{}, fmt.Errorf("scan planner: %w", err)
	}
	p.Type = planner.PlannerType(typ)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

func (s *Store) plannerExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM planners WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return planner.ErrPlannerNotFound
	}
	return err
}

// =============================================================================
// INCOMES
// =============================================================================

func (s *Store) AddIncome(ctx context.Context, plannerID string, inc engine.Income) (engine.Income, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return engine.Income{}, err
	}
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incomes (id, planner_id, description, income_type, amount, start_date, recurrence_kind, recurrence_months, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inc.ID, plannerID, inc.Description, inc.Type, inc.Amount.String(),
		inc.StartDate, string(inc.Recurrence.Kind), inc.Recurrence.Months, inc.Active)
	if err != nil {
		return engine.Income{}, fmt.Errorf("insert income: %w", err)
	}
	return inc, nil
}

func (s *Store) ListIncomes(ctx context.Context, plannerID string) ([]engine.Income, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, income_type, amount, start_date, recurrence_kind, recurrence_months
		FROM incomes WHERE planner_id = ? AND active = 1`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []engine.Income
	for rows.Next() {
		var inc engine.Income
		var amount, kind string
		if err := rows.Scan(&inc.ID, &inc.Description, &inc.Type, &amount, &inc.StartDate, &kind, &inc.Recurrence.Months); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		inc.Amount = parseAmount(amount)
		inc.Recurrence.Kind = engine.RecurrenceKind(kind)
		inc.Active = true
		out = append(out, inc)
	}
	return out, rows.Err()
}

// DeleteIncome deactivates rather than removes, so past months keep
// their history.
func (s *Store) DeleteIncome(ctx context.Context, plannerID, incomeID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE incomes SET active = 0 WHERE planner_id = ? AND id = ?`, plannerID, incomeID)
	if err != nil {
		return fmt.Errorf("deactivate income: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) AddExpense(ctx context.Context, plannerID string, exp engine.Expense) (engine.Expense, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return engine.Expense{}, err
	}
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, planner_id, description, category, amount, due_date, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, plannerID, exp.Description, exp.Category, exp.Amount.String(), exp.DueDate, exp.Paid)
	if err != nil {
		return engine.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return exp, nil
}

func (s *Store) ListExpenses(ctx context.Context, plannerID string) ([]engine.Expense, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, category, amount, due_date, paid
		FROM expenses WHERE planner_id = ? ORDER BY due_date`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []engine.Expense
	for rows.Next() {
		var exp engine.Expense
		var amount string
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Category, &amount, &exp.DueDate, &exp.Paid); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		exp.Amount = parseAmount(amount)
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (s *Store) DeleteExpense(ctx context.Context, plannerID, expenseID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM expenses WHERE planner_id = ? AND id = ?`, plannerID, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) SetExpensePaid(ctx context.Context, plannerID, expenseID string, paid bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET paid = ? WHERE planner_id = ? AND id = ?`, paid, plannerID, expenseID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// CARDS AND INVOICES
// =============================================================================

func (s *Store) AddCard(ctx context.Context, card planner.CreditCard) (planner.CreditCard, error) {
	if err := s.plannerExists(ctx, card.PlannerID); err != nil {
		return planner.CreditCard{}, err
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_cards (id, planner_id, bank_name, card_name)
		VALUES (?, ?, ?, ?)`,
		card.ID, card.PlannerID, card.BankName, card.CardName)
	if err != nil {
		return planner.CreditCard{}, fmt.Errorf("insert card: %w", err)
	}
	return card, nil
}

func (s *Store) ListCards(ctx context.Context, plannerID string) ([]planner.CreditCard, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, planner_id, bank_name, card_name
		FROM credit_cards WHERE planner_id = ? ORDER BY bank_name, card_name`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []planner.CreditCard
	for rows.Next() {
		var card planner.CreditCard
		if err := rows.Scan(&card.ID, &card.PlannerID, &card.BankName, &card.CardName); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

func (s *Store) AddInvoice(ctx context.Context, cardID string, inv engine.Invoice) (engine.Invoice, error) {
	var card planner.CreditCard
	err := s.db.QueryRowContext(ctx, `
		SELECT id, planner_id, bank_name, card_name
		FROM credit_cards WHERE id = ?`, cardID).
		Scan(&card.ID, &card.PlannerID, &card.BankName, &card.CardName)
	if err == sql.ErrNoRows {
		return engine.Invoice{}, planner.ErrCardNotFound
	}
	if err != nil {
		return engine.Invoice{}, fmt.Errorf("lookup card: %w", err)
	}

	inv.CardID = cardID
	inv.CardLabel = card.Label()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credit_card_invoices (id, card_id, planner_id, card_label, month, amount_due, due_date, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, cardID, card.PlannerID, inv.CardLabel, inv.Month, inv.AmountDue.String(), inv.DueDate, inv.Paid)
	if err != nil {
		return engine.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, plannerID string) ([]engine.Invoice, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return nil, err
	}
	return s.queryInvoices(ctx, plannerID)
}

func (s *Store) queryInvoices(ctx context.Context, plannerID string) ([]engine.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_id, card_label, month, amount_due, due_date, paid
		FROM credit_card_invoices WHERE planner_id = ? ORDER BY month, card_label`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var out []engine.Invoice
	for rows.Next() {
		var inv engine.Invoice
		var amount string
		if err := rows.Scan(&inv.ID, &inv.CardID, &inv.CardLabel, &inv.Month, &amount, &inv.DueDate, &inv.Paid); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.AmountDue = parseAmount(amount)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) DeleteInvoice(ctx context.Context, plannerID, invoiceID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM credit_card_invoices WHERE planner_id = ? AND id = ?`, plannerID, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) SetInvoicePaid(ctx context.Context, plannerID, invoiceID string, paid bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE credit_card_invoices SET paid = ? WHERE planner_id = ? AND id = ?`, paid, plannerID, invoiceID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (s *Store) AddAdjustment(ctx context.Context, plannerID string, adj engine.Adjustment) (engine.Adjustment, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return engine.Adjustment{}, err
	}
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_adjustments (id, planner_id, description, amount, adjustment_date, kind)
		VALUES (?, ?, ?, ?, ?, ?)`,
		adj.ID, plannerID, adj.Description, adj.Amount.String(), adj.Date, string(adj.Kind))
	if err != nil {
		return engine.Adjustment{}, fmt.Errorf("insert adjustment: %w", err)
	}
	return adj, nil
}

func (s *Store) ListAdjustments(ctx context.Context, plannerID string) ([]engine.Adjustment, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return nil, err
	}
	return s.queryAdjustments(ctx, plannerID)
}

func (s *Store) queryAdjustments(ctx context.Context, plannerID string) ([]engine.Adjustment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, adjustment_date, kind
		FROM savings_adjustments WHERE planner_id = ? ORDER BY adjustment_date`, plannerID)
	if err != nil {
		return nil, fmt.Errorf("query adjustments: %w", err)
	}
	defer rows.Close()

	var out []engine.Adjustment
	for rows.Next() {
		var adj engine.Adjustment
		var amount, kind string
		if err := rows.Scan(&adj.ID, &adj.Description, &amount, &adj.Date, &kind); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		adj.Amount = parseAmount(amount)
		adj.Kind = engine.AdjustmentKind(kind)
		out = append(out, adj)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAdjustment(ctx context.Context, plannerID, adjustmentID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM savings_adjustments WHERE planner_id = ? AND id = ?`, plannerID, adjustmentID)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot loads the planner's full record set.
func (s *Store) Snapshot(ctx context.Context, plannerID string) (engine.Snapshot, error) {
	if err := s.plannerExists(ctx, plannerID); err != nil {
		return engine.Snapshot{}, err
	}

	incomes, err := s.ListIncomes(ctx, plannerID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	expenses, err := s.ListExpenses(ctx, plannerID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	invoices, err := s.queryInvoices(ctx, plannerID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	adjustments, err := s.queryAdjustments(ctx, plannerID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		Incomes:     incomes,
		Expenses:    expenses,
		Invoices:    invoices,
		Adjustments: adjustments,
	}, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return planner.ErrRecordNotFound
	}
	return nil
}
