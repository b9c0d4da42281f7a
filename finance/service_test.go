package finance_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/life-ledger/finance"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func d(s string) generic.Date { return generic.MustParseDate(s) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestService pins the clock to noon UTC on the given date.
func newTestService(t *testing.T, today string) (*finance.Service, *store.Memory) {
	t.Helper()
	clock := generic.NewFixedClock(d(today).At(generic.TimeOfDay{Hour: 12, Minute: 0}))
	mem := store.NewMemory()
	return finance.NewService(context.Background(), mem, clock), mem
}

func expense(desc, date, amount string) finance.TransactionInput {
	return finance.TransactionInput{
		Kind:        finance.KindExpense,
		Description: desc,
		Amount:      dec(amount),
		Category:    "Moradia",
		Date:        d(date),
	}
}

func income(desc, date, amount string) finance.TransactionInput {
	in := expense(desc, date, amount)
	in.Kind = finance.KindIncome
	in.Category = "Salário"
	return in
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestAddTransaction_PastOrTodayDefaultsPaid(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	records, err := svc.AddTransaction(context.Background(), expense("groceries", "2025-03-10", "80"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, generic.StatusPaid, records[0].Status)
	assert.NotNil(t, records[0].CompletedAt)
}

func TestAddTransaction_FutureDefaultsUnpaid(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	records, err := svc.AddTransaction(context.Background(), expense("rent", "2025-03-20", "1200"))
	require.NoError(t, err)

	assert.Equal(t, generic.StatusUnpaid, records[0].Status)
	assert.Nil(t, records[0].CompletedAt)
}

func TestAddTransaction_PaidFlagOverridesDefault(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	unpaid := false
	in := expense("groceries", "2025-03-10", "80")
	in.Paid = &unpaid
	records, err := svc.AddTransaction(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, generic.StatusUnpaid, records[0].Status)
}

func TestAddTransaction_RejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	_, err := svc.AddTransaction(context.Background(), expense("free lunch", "2025-03-10", "0"))
	assert.ErrorIs(t, err, generic.ErrValidation)
}

func TestAddTransaction_RecurringSeedPaidFuturesUnpaid(t *testing.T) {
	// GIVEN: A monthly recurring expense starting today
	// WHEN: Adding it
	// THEN: The seed is paid, every later occurrence starts unpaid

	svc, _ := newTestService(t, "2025-03-10")

	end := d("2025-05-10")
	in := expense("rent", "2025-03-10", "1200")
	in.Recurring = true
	in.Frequency = generic.FreqMonthly
	in.EndDate = &end

	records, err := svc.AddTransaction(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, generic.StatusPaid, records[0].Status)
	assert.Equal(t, generic.StatusUnpaid, records[1].Status)
	assert.Equal(t, generic.StatusUnpaid, records[2].Status)
	assert.Equal(t, d("2025-04-10"), records[1].ScheduledDate)
	assert.Equal(t, d("2025-05-10"), records[2].ScheduledDate)
	assert.Equal(t, records[0].TemplateKey, records[2].TemplateKey)
}

func TestTogglePaid_SwitchesVocabulary(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	records, err := svc.AddTransaction(ctx, expense("rent", "2025-03-20", "1200"))
	require.NoError(t, err)

	paid, err := svc.TogglePaid(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, generic.StatusPaid, paid.Status)

	unpaid, err := svc.TogglePaid(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, generic.StatusUnpaid, unpaid.Status)
	assert.Nil(t, unpaid.CompletedAt)
}

// =============================================================================
// GOAL FUNDING
// =============================================================================

func TestAddTransaction_PaidIncomeFundsLinkedGoal(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	goal, err := svc.AddGoal(ctx, finance.GoalInput{Name: "vacation", Target: dec("1000")})
	require.NoError(t, err)

	in := income("bonus", "2025-03-10", "300")
	in.GoalID = goal.ID
	_, err = svc.AddTransaction(ctx, in)
	require.NoError(t, err)

	funded, ok := svc.GoalByID(goal.ID)
	require.True(t, ok)
	assert.True(t, funded.Current.Equal(dec("300")), "got %s", funded.Current)
}

func TestAddTransaction_UnpaidIncomeDoesNotFundGoal(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	goal, err := svc.AddGoal(ctx, finance.GoalInput{Name: "vacation", Target: dec("1000")})
	require.NoError(t, err)

	in := income("future bonus", "2025-04-01", "300")
	in.GoalID = goal.ID
	_, err = svc.AddTransaction(ctx, in)
	require.NoError(t, err)

	funded, _ := svc.GoalByID(goal.ID)
	assert.True(t, funded.Current.IsZero())
}

func TestAddGoalProgress_CapsAtTarget(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	goal, err := svc.AddGoal(ctx, finance.GoalInput{Name: "vacation", Target: dec("1000")})
	require.NoError(t, err)

	require.NoError(t, svc.AddGoalProgress(ctx, goal.ID, dec("900")))
	require.NoError(t, svc.AddGoalProgress(ctx, goal.ID, dec("900")))

	funded, _ := svc.GoalByID(goal.ID)
	assert.True(t, funded.Current.Equal(dec("1000")), "got %s", funded.Current)
	assert.True(t, svc.GoalProgress(goal.ID).Equal(dec("100")))
}

// =============================================================================
// CATEGORIES
// =============================================================================

func TestNewService_SeedsDefaultCategories(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	categories := svc.Categories()
	require.NotEmpty(t, categories)

	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
		assert.False(t, c.IsCustom, "seeded categories are not custom")
	}
	assert.Contains(t, names, "Salário")
	assert.Contains(t, names, "Moradia")
}

func TestCategories_CustomLifecycle(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	cat, err := svc.AddCategory(ctx, finance.CategoryInput{Name: "Pets", Type: finance.KindExpense})
	require.NoError(t, err)
	assert.True(t, cat.IsCustom)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	_, ok := svc.CategoryByID(cat.ID)
	assert.False(t, ok)
}

func TestDeleteCategory_DefaultsAreProtected(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	var defaultID string
	for _, c := range svc.Categories() {
		if !c.IsCustom {
			defaultID = c.ID
			break
		}
	}
	require.NotEmpty(t, defaultID)

	err := svc.DeleteCategory(context.Background(), defaultID)
	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// REPORTS
// =============================================================================

func TestBalance_SignedOverPaidOnly(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, income("salary", "2025-03-05", "3000"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("groceries", "2025-03-08", "450.50"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("future rent", "2025-03-20", "1200"))
	require.NoError(t, err)

	assert.True(t, svc.Balance().Equal(dec("2549.50")), "got %s", svc.Balance())
}

func TestTotalsByCategory_PaidInWindow(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, expense("market A", "2025-03-08", "100"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("market B", "2025-03-09", "50"))
	require.NoError(t, err)
	old := expense("old", "2025-01-01", "999")
	_, err = svc.AddTransaction(ctx, old)
	require.NoError(t, err)

	totals := svc.TotalsByCategory(generic.PeriodWeek)
	require.Len(t, totals, 1)
	assert.Equal(t, "Moradia", totals[0].Category)
	assert.True(t, totals[0].Total.Equal(dec("150")))
	assert.Equal(t, 2, totals[0].Count)
}

func TestUpcomingPayments_UnpaidWithinHorizon(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, expense("due soon", "2025-03-12", "100"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("due later", "2025-03-25", "200"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("already paid", "2025-03-09", "50"))
	require.NoError(t, err)

	upcoming := svc.UpcomingPayments(7)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "due soon", upcoming[0].Title)
}

func TestBudgets_RollingMonthUsage(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	budget := dec("1000")
	cat, err := svc.AddCategory(ctx, finance.CategoryInput{
		Name: "Lazer", Type: finance.KindExpense, Budget: &budget,
	})
	require.NoError(t, err)

	in := expense("cinema", "2025-03-08", "250")
	in.Category = cat.Name
	_, err = svc.AddTransaction(ctx, in)
	require.NoError(t, err)

	budgets := svc.Budgets()
	require.Len(t, budgets, 1)
	assert.Equal(t, "Lazer", budgets[0].Category)
	assert.True(t, budgets[0].Spent.Equal(dec("250")))
	assert.True(t, budgets[0].Percentage.Equal(dec("25")), "got %s", budgets[0].Percentage)
}

// =============================================================================
// MONTHLY EXPENSE COUPLING
// =============================================================================

func monthlyInput(svc *finance.Service, desc string) finance.MonthlyExpenseInput {
	var categoryID string
	for _, c := range svc.Categories() {
		if c.Type == finance.KindExpense {
			categoryID = c.ID
			break
		}
	}
	return finance.MonthlyExpenseInput{
		CategoryID:  categoryID,
		Description: desc,
		Amount:      dec("500"),
		DueDate:     d("2025-03-05"),
		Month:       "2025-03",
	}
}

func TestMonthlyExpense_ToggleCreatesAndRemovesTransaction(t *testing.T) {
	// GIVEN: An unpaid monthly expense template
	// WHEN: Toggling it paid, then unpaid
	// THEN: Exactly one linked transaction appears and disappears

	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	exp, err := svc.AddMonthlyExpense(ctx, monthlyInput(svc, "internet"))
	require.NoError(t, err)
	assert.Empty(t, svc.Transactions())

	paidExp, err := svc.ToggleMonthlyExpensePaid(ctx, exp.ID)
	require.NoError(t, err)
	assert.True(t, paidExp.IsPaid)
	require.NotEmpty(t, paidExp.TransactionID)

	txs := svc.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, paidExp.TransactionID, txs[0].ID)
	assert.Equal(t, generic.StatusPaid, txs[0].Status)
	assert.Equal(t, "internet", txs[0].Title)

	unpaidExp, err := svc.ToggleMonthlyExpensePaid(ctx, exp.ID)
	require.NoError(t, err)
	assert.False(t, unpaidExp.IsPaid)
	assert.Empty(t, unpaidExp.TransactionID)
	assert.Empty(t, svc.Transactions())
}

func TestMonthlyExpense_CreatedPaidLinksImmediately(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	in := monthlyInput(svc, "rent")
	in.IsPaid = true
	exp, err := svc.AddMonthlyExpense(context.Background(), in)
	require.NoError(t, err)

	require.NotEmpty(t, exp.TransactionID)
	require.Len(t, svc.Transactions(), 1)
}

func TestMonthlyExpense_DeleteRemovesLinkedTransaction(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	in := monthlyInput(svc, "rent")
	in.IsPaid = true
	exp, err := svc.AddMonthlyExpense(ctx, in)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMonthlyExpense(ctx, exp.ID))
	assert.Empty(t, svc.MonthlyExpenses())
	assert.Empty(t, svc.Transactions())
}

func TestMonthlyExpense_UnknownCategoryRejected(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	in := monthlyInput(svc, "mystery")
	in.CategoryID = "no-such-category"
	_, err := svc.AddMonthlyExpense(context.Background(), in)
	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// PERSISTENCE / CLEAR
// =============================================================================

func TestService_PersistenceAcrossRestart(t *testing.T) {
	clock := generic.NewFixedClock(d("2025-03-10").At(generic.TimeOfDay{Hour: 12, Minute: 0}))
	mem := store.NewMemory()
	ctx := context.Background()

	svc := finance.NewService(ctx, mem, clock)
	_, err := svc.AddTransaction(ctx, expense("groceries", "2025-03-10", "80"))
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, finance.GoalInput{Name: "vacation", Target: dec("1000")})
	require.NoError(t, err)

	reopened := finance.NewService(ctx, mem, clock)
	assert.Len(t, reopened.Transactions(), 1)
	assert.Len(t, reopened.Goals(), 1)
	assert.Equal(t, len(svc.Categories()), len(reopened.Categories()),
		"reopening must not reseed defaults on top of persisted categories")
}

func TestService_Clear_ReseedsDefaults(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, expense("groceries", "2025-03-10", "80"))
	require.NoError(t, err)
	_, err = svc.AddCategory(ctx, finance.CategoryInput{Name: "Pets", Type: finance.KindExpense})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.Empty(t, svc.Transactions())

	for _, c := range svc.Categories() {
		assert.False(t, c.IsCustom, "clear resets to the default set")
	}
}

// =============================================================================
// REPORT HELPERS
// =============================================================================

func TestService_DailySpending_CountsOnlyTodaysPaidExpenses(t *testing.T) {
	// GIVEN: A paid expense today, one yesterday and income today
	// WHEN: Asking for daily spending
	// THEN: Only today's paid expense counts

	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, expense("almoço", "2025-03-10", "45"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, expense("mercado", "2025-03-09", "120"))
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, income("freela", "2025-03-10", "800"))
	require.NoError(t, err)

	assert.True(t, svc.DailySpending().Equal(dec("45")))
}

func TestService_MonthlyExpensesByCategory_GroupsByCategoryName(t *testing.T) {
	// GIVEN: Two templates in one category and one in an unknown category
	// WHEN: Breaking the month down
	// THEN: Totals group under the category name, unknowns under "Outros"

	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	in := monthlyInput(svc, "internet")
	_, err := svc.AddMonthlyExpense(ctx, in)
	require.NoError(t, err)
	in.Description = "luz"
	in.Amount = dec("200")
	_, err = svc.AddMonthlyExpense(ctx, in)
	require.NoError(t, err)

	// A template whose category is deleted afterwards falls back to "Outros".
	lazer, err := svc.AddCategory(ctx, finance.CategoryInput{Name: "Lazer", Type: finance.KindExpense})
	require.NoError(t, err)
	orphan := monthlyInput(svc, "taxa")
	orphan.CategoryID = lazer.ID
	orphan.Amount = dec("50")
	_, err = svc.AddMonthlyExpense(ctx, orphan)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, lazer.ID))

	totals := svc.MonthlyExpensesByCategory("2025-03")
	require.Len(t, totals, 2)

	byName := map[string]finance.CategoryTotal{}
	for _, ct := range totals {
		byName[ct.Category] = ct
	}

	var outros finance.CategoryTotal
	for name, ct := range byName {
		if name == "Outros" {
			outros = ct
		} else {
			assert.Equal(t, 2, ct.Count)
			assert.True(t, ct.Total.Equal(dec("700")))
		}
	}
	assert.Equal(t, 1, outros.Count)
	assert.True(t, outros.Total.Equal(dec("50")))

	assert.Empty(t, svc.MonthlyExpensesByCategory("2025-04"))
}

// =============================================================================
// MONTHLY EXPENSE CONCURRENCY
// =============================================================================

// gatedStore blocks the first Save on one key until released, holding a
// toggle inside its ledger write while another mutation runs.
type gatedStore struct {
	*store.Memory
	key     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) Save(ctx context.Context, key string, blob []byte) error {
	if key == g.key {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return g.Memory.Save(ctx, key, blob)
}

func TestMonthlyExpense_ToggleSurvivesConcurrentDelete(t *testing.T) {
	// GIVEN: Two templates, a toggle of the second held in its ledger write
	// WHEN: The first template is deleted while the toggle is in flight
	// THEN: The toggle still lands on the second template

	clock := generic.NewFixedClock(d("2025-03-10").At(generic.TimeOfDay{Hour: 12, Minute: 0}))
	gs := &gatedStore{
		Memory:  store.NewMemory(),
		key:     finance.BlobKeyTransactions,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctx := context.Background()
	svc := finance.NewService(ctx, gs, clock)

	first, err := svc.AddMonthlyExpense(ctx, monthlyInput(svc, "internet"))
	require.NoError(t, err)
	second, err := svc.AddMonthlyExpense(ctx, monthlyInput(svc, "luz"))
	require.NoError(t, err)

	done := make(chan struct{})
	var toggled finance.MonthlyExpense
	var toggleErr error
	go func() {
		defer close(done)
		toggled, toggleErr = svc.ToggleMonthlyExpensePaid(ctx, second.ID)
	}()

	<-gs.entered
	require.NoError(t, svc.DeleteMonthlyExpense(ctx, first.ID))
	close(gs.release)
	<-done

	require.NoError(t, toggleErr)
	assert.True(t, toggled.IsPaid)
	require.Len(t, svc.Transactions(), 1)

	remaining := svc.MonthlyExpenses()
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
	assert.True(t, remaining[0].IsPaid)
	assert.Equal(t, toggled.TransactionID, remaining[0].TransactionID)
}

func TestMonthlyExpense_ToggleOfConcurrentlyDeletedTemplate(t *testing.T) {
	// GIVEN: A toggle held in its ledger write
	// WHEN: The same template is deleted while the toggle is in flight
	// THEN: The toggle reports not-found and leaves no orphan transaction

	clock := generic.NewFixedClock(d("2025-03-10").At(generic.TimeOfDay{Hour: 12, Minute: 0}))
	gs := &gatedStore{
		Memory:  store.NewMemory(),
		key:     finance.BlobKeyTransactions,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctx := context.Background()
	svc := finance.NewService(ctx, gs, clock)

	exp, err := svc.AddMonthlyExpense(ctx, monthlyInput(svc, "internet"))
	require.NoError(t, err)

	done := make(chan struct{})
	var toggleErr error
	go func() {
		defer close(done)
		_, toggleErr = svc.ToggleMonthlyExpensePaid(ctx, exp.ID)
	}()

	<-gs.entered
	require.NoError(t, svc.DeleteMonthlyExpense(ctx, exp.ID))
	close(gs.release)
	<-done

	assert.ErrorIs(t, toggleErr, generic.ErrNotFound)
	assert.Empty(t, svc.Transactions())
	assert.Empty(t, svc.MonthlyExpenses())
}
