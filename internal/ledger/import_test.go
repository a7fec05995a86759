package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportKeepsUnreadableDatesOutOfActiveCosts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	recorded := time.Date(2023, 11, 2, 14, 30, 0, 0, time.UTC)
	rows := []ImportRow{
		{Line: 2, Input: PurchaseInput{PurchaseDate: "01/11/2023", IngredientShortName: "Salmão", Group: "Peixe", PurchaseUnit: "KG", PurchasedQuantity: dec("4"), TotalPurchaseValue: dec("360"), WastePercent: dec("25"), Kind: "Comprado", RecordedAt: recorded}},
		{Line: 3, Input: PurchaseInput{PurchaseDate: "novembro", IngredientShortName: "Salmão", Group: "Peixe", PurchaseUnit: "KG", PurchasedQuantity: dec("4"), TotalPurchaseValue: dec("400")}},
		{Line: 4, Input: PurchaseInput{PurchaseDate: "02/11/2023", IngredientShortName: "Molho shoyu", PurchaseUnit: "L", PurchasedQuantity: dec("0"), TotalPurchaseValue: dec("30")}},
		{Line: 5, Input: PurchaseInput{PurchaseDate: "03/11/2023", IngredientShortName: "Ovos", PurchaseUnit: "CT", PurchasedQuantity: dec("1"), TotalPurchaseValue: dec("50"), Kind: "Produzido no restaurante"}},
	}

	result, err := svc.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 4, result.Rejected[0].Line)
	require.Len(t, result.Consolidation.Skipped, 1)
	assert.Equal(t, "novembro", result.Consolidation.Skipped[0].PurchaseDate)

	costs, err := svc.ActiveCosts(ctx)
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "Ovos", costs[0].IngredientShortName)
	assert.Equal(t, "0.500000", costs[0].ActiveUnitCost.StringFixed(6))
	assert.Equal(t, "Salmão", costs[1].IngredientShortName)
	assert.Equal(t, "120.000000", costs[1].ActiveUnitCost.StringFixed(6))

	skipped, err := svc.Skipped(ctx)
	require.NoError(t, err)
	assert.Len(t, skipped, 1)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Purchases)
	assert.Equal(t, int64(2), summary.Ingredients)
	assert.Len(t, summary.Skipped, 1)
	require.NotNil(t, summary.LastRecord)

	ledgerRows, err := svc.AllPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, ledgerRows, 3)
	assert.True(t, recorded.Equal(ledgerRows[0].RecordedAt))
	assert.Equal(t, "self_produced", ledgerRows[2].Kind)
}
