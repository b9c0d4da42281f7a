/*
Package finance implements the financial bookkeeping domain on top of the
generic recurrence and ledger engine.

PURPOSE:
  The same engine that expands weekly routines expands recurring
  transactions here; the finance-specific pieces are the sidecar
  collections (categories, financial goals, monthly expense templates)
  and the reporting surface (balance, rolling totals, cash flow, budget
  status).

KEY DIFFERENCES FROM ACTIVITIES:
  1. Amounts: every transaction carries a positive decimal amount
  2. Status vocabulary: unpaid/paid instead of pending/completed
  3. No lateness: an overdue bill stays unpaid, it is never "late"
  4. Recurrence: fixed-interval frequency stepping, not weekday sets;
     future occurrences materialize unpaid

MONEY:
  Amounts are decimal.Decimal end to end. Floating point never touches a
  balance.

SEE ALSO:
  - service.go: Transaction operations
  - monthly.go: Monthly expense templates coupled 1:1 to transactions
  - reports.go: Aggregation surface
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// TRANSACTION KINDS
// =============================================================================

// Kind is the concrete record kind for the finance domain.
// Implements generic.Kind.
type Kind string

func (k Kind) KindID() string     { return string(k) }
func (k Kind) KindDomain() string { return "finance" }

func (k Kind) LateEligible() bool   { return false }
func (k Kind) RequiresTime() bool   { return false }
func (k Kind) RequiresAmount() bool { return true }

func (k Kind) OpenStatus() generic.Status { return generic.StatusUnpaid }
func (k Kind) DoneStatus() generic.Status { return generic.StatusPaid }

// Compile-time check that Kind implements generic.Kind
var _ generic.Kind = Kind("")

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func init() {
	generic.RegisterKind(KindIncome)
	generic.RegisterKind(KindExpense)
}

// =============================================================================
// SIDECAR COLLECTIONS
// =============================================================================

// Category classifies transactions and optionally carries a monthly budget.
type Category struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Icon     string           `json:"icon"`
	Color    string           `json:"color"`
	Budget   *decimal.Decimal `json:"budget,omitempty"`
	Type     Kind             `json:"type"`
	IsCustom bool             `json:"is_custom,omitempty"`
}

// Goal is a savings target funded by linked income transactions.
type Goal struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Target      decimal.Decimal `json:"target"`
	Current     decimal.Decimal `json:"current"`
	Deadline    generic.Date    `json:"deadline"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MonthlyExpense is a per-month bill template. Marking it paid creates the
// 1:1 linked transaction; unmarking removes it.
type MonthlyExpense struct {
	ID            string           `json:"id"`
	CategoryID    string           `json:"category_id"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	DueDate       generic.Date     `json:"due_date"`
	IsPaid        bool             `json:"is_paid"`
	Notes         string           `json:"notes,omitempty"`
	Month         string           `json:"month"` // YYYY-MM
	TransactionID generic.RecordID `json:"transaction_id,omitempty"`
	IsRecurring   bool             `json:"is_recurring,omitempty"`
}

// defaultCategories is the seeded set a fresh install starts with.
func defaultCategories() []Category {
	cats := []struct {
		name, icon, color string
		kind              Kind
	}{
		{"Salário", "💼", "green", KindIncome},
		{"Freelance", "💻", "blue", KindIncome},
		{"Investimentos", "📈", "purple", KindIncome},
		{"Outros", "💰", "gray", KindIncome},

		{"Moradia", "🏠", "blue", KindExpense},
		{"Transporte", "🚗", "green", KindExpense},
		{"Alimentação", "🍽️", "orange", KindExpense},
		{"Assinaturas e Serviços", "📱", "purple", KindExpense},
		{"Compras Pessoais", "🛍️", "pink", KindExpense},
		{"Cuidado Pessoal", "💆", "teal", KindExpense},
		{"Educação e Desenvolvimento", "📚", "indigo", KindExpense},
		{"Doações e Ajuda", "🤝", "yellow", KindExpense},
		{"Saúde e Bem-estar", "⚕️", "red", KindExpense},
		{"Lazer e Viagens", "✈️", "cyan", KindExpense},
		{"Investimentos", "📈", "emerald", KindExpense},
		{"Gastos Imprevistos", "⚡", "amber", KindExpense},
		{"Impostos e Burocracias", "📄", "gray", KindExpense},
		{"Cartão de Crédito", "💳", "rose", KindExpense},
	}

	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, Category{
			ID:    newID(),
			Name:  c.name,
			Icon:  c.icon,
			Color: c.color,
			Type:  c.kind,
		})
	}
	return out
}
