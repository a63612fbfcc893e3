package transaction_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestCategory_Order(t *testing.T) {
	cats := transaction.Categories()
	require.Len(t, cats, 12)

	for i, c := range cats {
		assert.Equal(t, i, c.Order())
		assert.True(t, c.Valid())
	}

	assert.Equal(t, len(cats), transaction.Category("crypto").Order())
	assert.False(t, transaction.Category("crypto").Valid())
}

func TestDefaultCategory(t *testing.T) {
	assert.Equal(t, transaction.CategoryIncome, transaction.DefaultCategory(100))
	assert.Equal(t, transaction.CategoryOther, transaction.DefaultCategory(-100))
	assert.Equal(t, transaction.CategoryOther, transaction.DefaultCategory(0))
}

func TestSplitDuplicates(t *testing.T) {
	accountID := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	existing := []transaction.Transaction{
		{
			ID:          uuid.New(),
			AccountID:   accountID,
			Date:        date,
			Amount:      -1000,
			Description: "COFFEE SHOP",
		},
	}

	params := []transaction.CreateParams{
		{AccountID: accountID, Date: date, Amount: -1000, Description: "COFFEE SHOP"},
		{AccountID: accountID, Date: date, Amount: -2000, Description: "LUNCH PLACE"},
		{AccountID: uuid.New(), Date: date, Amount: -1000, Description: "COFFEE SHOP"},
	}

	newParams, conflicts := transaction.SplitDuplicates(existing, params)

	require.Len(t, conflicts, 1)
	assert.Equal(t, params[0], conflicts[0].Incoming)
	assert.Equal(t, existing[0], conflicts[0].Existing)
	assert.Equal(t, []transaction.CreateParams{params[1], params[2]}, newParams)
}

func TestSplitDuplicates_Empty(t *testing.T) {
	newParams, conflicts := transaction.SplitDuplicates(nil, nil)
	assert.Empty(t, newParams)
	assert.Empty(t, conflicts)
}
