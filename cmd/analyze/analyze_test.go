package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madebytinystudio/bank-analyzer/internal/common"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"
)

func amountPtr(v int64) *int64 {
	return &v
}

func TestMergeCSVTransactions(t *testing.T) {
	dir := t.TempDir()

	first := []models.Transaction{
		{Date: "2024-01-15", Description: "MAGNUM", Amount: amountPtr(4500), Category: "Groceries"},
		{Date: "2024-01-16", Description: "YANDEX TAXI", Amount: amountPtr(1200), Category: "Transport"},
	}
	second := []models.Transaction{
		{Date: "2024-02-01", Description: "KCELL", Amount: amountPtr(3000), Category: "Utilities"},
	}
	require.NoError(t, common.WriteTransactionsToCSV(first, filepath.Join(dir, "january.csv")))
	require.NoError(t, common.WriteTransactionsToCSV(second, filepath.Join(dir, "february.csv")))

	merged, err := mergeCSVTransactions(dir, &logging.MockLogger{})
	require.NoError(t, err)
	assert.Len(t, merged, 3)

	descriptions := make([]string, 0, len(merged))
	for _, tx := range merged {
		descriptions = append(descriptions, tx.Description)
	}
	assert.Contains(t, descriptions, "MAGNUM")
	assert.Contains(t, descriptions, "KCELL")
}

func TestMergeCSVTransactionsSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()

	good := []models.Transaction{
		{Date: "2024-03-05", Description: "GLOVO", Amount: amountPtr(2700), Category: "Dining"},
	}
	require.NoError(t, common.WriteTransactionsToCSV(good, filepath.Join(dir, "good.csv")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("not,a\nvalid"), 0600))

	mock := &logging.MockLogger{}
	merged, err := mergeCSVTransactions(dir, mock)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "GLOVO", merged[0].Description)
}

func TestMergeCSVTransactionsEmptyDir(t *testing.T) {
	merged, err := mergeCSVTransactions(t.TempDir(), &logging.MockLogger{})
	require.NoError(t, err)
	assert.Empty(t, merged)
}
