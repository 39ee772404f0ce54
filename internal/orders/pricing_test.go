package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func TestPriceComputesSubtotalAndTotal(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	catalog := map[uuid.UUID]models.Item{
		a: {ID: a, Name: "Burger", Price: dec("10")},
		b: {ID: b, Name: "Fries", Price: dec("5")},
	}
	lines, totals, err := Price(
		[]LineInput{{ItemID: a, Quantity: 2}, {ItemID: b, Quantity: 1}},
		catalog,
		Charges{Tax: dec("2"), ShippingFee: dec("3"), Discount: dec("1")},
	)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("25")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Total.Equal(dec("29")), "total %s", totals.Total)
	require.Len(t, lines, 2)
	assert.Equal(t, "Burger", lines[0].Name)
	assert.True(t, lines[0].LineTotal.Equal(dec("20")))
}

func TestPriceFailsWholeOrderOnMissingItem(t *testing.T) {
	t.Parallel()

	a := uuid.New()
	catalog := map[uuid.UUID]models.Item{a: {ID: a, Name: "Burger", Price: dec("10")}}
	_, _, err := Price([]LineInput{{ItemID: a, Quantity: 1}, {ItemID: uuid.New(), Quantity: 1}}, catalog, Charges{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPriceRejectsNegativeTotal(t *testing.T) {
	t.Parallel()

	a := uuid.New()
	catalog := map[uuid.UUID]models.Item{a: {ID: a, Name: "Tea", Price: dec("2")}}
	_, _, err := Price([]LineInput{{ItemID: a, Quantity: 1}}, catalog, Charges{Discount: dec("5")})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestChargesFrom(t *testing.T) {
	t.Parallel()

	charges, err := ChargesFrom(nil, decPtr("3"), nil)
	require.NoError(t, err)
	assert.True(t, charges.Tax.IsZero())
	assert.True(t, charges.ShippingFee.Equal(dec("3")))

	_, err = ChargesFrom(decPtr("-1"), nil, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestMergeLines(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	merged, err := MergeLines([]LineInput{{ItemID: a, Quantity: 1}, {ItemID: b, Quantity: 2}, {ItemID: a, Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, a, merged[0].ItemID)
	assert.Equal(t, 4, merged[0].Quantity)

	_, err = MergeLines(nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	_, err = MergeLines([]LineInput{{ItemID: a, Quantity: 0}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	_, err = MergeLines([]LineInput{{Quantity: 1}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestChargesFromRejectsSubCentAndOversizedAmounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                string
		tax, ship, discount *decimal.Decimal
		field               string
	}{
		{"fractional cent tax", decPtr("0.005"), nil, nil, "tax"},
		{"fractional cent shipping", nil, decPtr("1.999"), nil, "shipping_fee"},
		{"oversized discount", nil, nil, decPtr("10000000000"), "discount"},
	}
	for _, tt := range tests {
		_, err := ChargesFrom(tt.tax, tt.ship, tt.discount)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), tt.name)
		details, ok := pkgerrors.As(err).Details().(map[string]any)
		require.True(t, ok, tt.name)
		assert.Contains(t, details, tt.field, tt.name)
	}

	charges, err := ChargesFrom(decPtr("0.50"), decPtr("1.250"), nil)
	require.NoError(t, err, "trailing zeros are still two decimal places")
	assert.True(t, charges.ShippingFee.Equal(dec("1.25")))
}

func TestPriceTotalMatchesStoredColumns(t *testing.T) {
	t.Parallel()

	a := uuid.New()
	catalog := map[uuid.UUID]models.Item{a: {ID: a, Name: "Burger", Price: dec("10")}}
	charges, err := ChargesFrom(decPtr("0.01"), decPtr("0.01"), nil)
	require.NoError(t, err)
	_, totals, err := Price([]LineInput{{ItemID: a, Quantity: 1}}, catalog, charges)
	require.NoError(t, err)

	sum := totals.Subtotal.Round(2).Add(totals.Tax.Round(2)).Add(totals.ShippingFee.Round(2)).Sub(totals.Discount.Round(2))
	assert.True(t, totals.Total.Round(2).Equal(sum), "total %s vs columns %s", totals.Total, sum)
	assert.True(t, totals.Total.Equal(dec("10.02")))
}

func TestPriceRejectsOrderAboveColumnRange(t *testing.T) {
	t.Parallel()

	a := uuid.New()
	catalog := map[uuid.UUID]models.Item{a: {ID: a, Name: "Yacht", Price: dec("9999999999.99")}}
	_, _, err := Price([]LineInput{{ItemID: a, Quantity: 2}}, catalog, Charges{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
