package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.TransactionRuleModel{}, &model.TransactionModel{}))
	return db
}

func seedTransactions(t *testing.T, repo adapter.TransactionRepository, n int) []*entity.Transaction {
	t.Helper()

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	items := make([]*entity.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx := entity.NewTransaction(base.AddDate(0, 0, i), decimal.NewFromInt(int64(10*(i+1))),
			fmt.Sprintf("MERCHANT %d", i), "", "", "DEBIT", "HDFC Bank", "UPI")
		tx.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), tx))
		items = append(items, tx)
	}
	return items
}

func TestTransactionRuleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRuleRepository(newTestDB(t))

	conditions := []entity.RuleCondition{{Field: entity.FieldMerchant, Operator: entity.OperatorContains, Value: "swiggy"}}
	actions := []entity.RuleAction{
		{Field: entity.FieldCategory, ActionType: entity.ActionSet, Value: "Food"},
		{ActionType: entity.ActionAddTag, Value: "delivery"},
	}

	low := entity.NewTransactionRule("Low", nil, 50, conditions, actions)
	high := entity.NewTransactionRule("High", nil, 10, conditions, actions)
	inactive := entity.NewTransactionRule("Inactive", nil, 1, conditions, actions)
	inactive.IsActive = false

	for _, rule := range []*entity.TransactionRule{low, high, inactive} {
		require.NoError(t, repo.Create(ctx, rule))
	}

	t.Run("round trips conditions and actions", func(t *testing.T) {
		found, err := repo.FindByID(ctx, high.ID)
		require.NoError(t, err)
		assert.Equal(t, conditions, found.Conditions)
		assert.Equal(t, actions, found.Actions)
	})

	t.Run("active rules in evaluation order", func(t *testing.T) {
		rules, err := repo.FindActive(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, high.ID, rules[0].ID)
		assert.Equal(t, low.ID, rules[1].ID)
	})

	t.Run("all rules include inactive", func(t *testing.T) {
		rules, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 3)
		assert.Equal(t, inactive.ID, rules[0].ID)
	})

	t.Run("update priorities", func(t *testing.T) {
		require.NoError(t, repo.UpdatePriorities(ctx, []entity.RulePriorityUpdate{{ID: low.ID, Priority: 5}}))

		rules, err := repo.FindActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, low.ID, rules[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, inactive.ID))

		_, err := repo.FindByID(ctx, inactive.ID)
		assert.ErrorIs(t, err, domainerror.ErrTransactionRuleNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, inactive.ID), domainerror.ErrTransactionRuleNotFound)
	})
}

func TestTransactionRepository_FindByFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))
	items := seedTransactions(t, repo, 5)

	history := NewTransactionHistoryRepository(repo.(*transactionRepository).db)
	blocked := items[0].Clone()
	blocked.IsBlocked = true
	require.NoError(t, history.SaveRuleOutcome(ctx, blocked))
	categorized := items[1].Clone()
	categorized.Category = "Food"
	categorized.Tags = []string{"swiggy"}
	require.NoError(t, history.SaveRuleOutcome(ctx, categorized))

	page := adapter.TransactionPagination{Page: 1, Limit: 10}

	t.Run("blocked hidden by default", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{}, page)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Total)
	})

	t.Run("blocked included on request", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{IncludeBlocked: true}, page)
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
	})

	t.Run("uncategorized only", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{UncategorizedOnly: true}, page)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("search merchant", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, adapter.TransactionFilter{Search: "merchant 3"}, page)
		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, items[3].ID, result.Transactions[0].ID)
	})

	t.Run("stored outcome", func(t *testing.T) {
		found, err := repo.FindByID(ctx, items[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "Food", found.Category)
		assert.Equal(t, []string{"swiggy"}, found.Tags)
		assert.True(t, found.Amount.Equal(items[1].Amount))
	})
}

func TestTransactionHistoryRepository_KeysetPaging(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	items := seedTransactions(t, NewTransactionRepository(db), 7)
	history := NewTransactionHistoryRepository(db)

	// Two rows sharing a timestamp are ordered by id.
	same := entity.NewTransaction(items[0].Date, decimal.NewFromInt(1), "SAME", "", "", "DEBIT", "", "")
	same.CreatedAt = items[3].CreatedAt
	require.NoError(t, NewTransactionRepository(db).Create(ctx, same))

	count, err := history.CountEligible(ctx, entity.BatchScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 8, count)

	var seen []uuid.UUID
	cursor := adapter.HistoryCursor{}
	for {
		page, err := history.NextPage(ctx, entity.BatchScopeUncategorizedOnly, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, tx := range page {
			seen = append(seen, tx.ID)
			// Categorizing each row removes it from the scope while paging continues.
			tx.Category = "Done"
			require.NoError(t, history.SaveRuleOutcome(ctx, tx))
			cursor = adapter.CursorAfter(tx)
		}
	}

	assert.Len(t, seen, 8)
	assert.ElementsMatch(t, append(idsOf(items), same.ID), seen)

	remaining, err := history.CountEligible(ctx, entity.BatchScopeUncategorizedOnly)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestTransactionHistoryRepository_SaveUnknown(t *testing.T) {
	history := NewTransactionHistoryRepository(newTestDB(t))

	tx := entity.NewTransaction(time.Now(), decimal.NewFromInt(1), "X", "", "", "", "", "")
	err := history.SaveRuleOutcome(context.Background(), tx)

	assert.ErrorIs(t, err, domainerror.ErrTransactionNotFound)
}

func idsOf(items []*entity.Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, tx := range items {
		ids[i] = tx.ID
	}
	return ids
}
