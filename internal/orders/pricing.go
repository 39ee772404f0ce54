package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
	pkgerrors "github.com/rowdysden/rowdysden-backend/pkg/errors"
)

// Charges are the caller-supplied adjustments applied on top of the subtotal.
type Charges struct {
	Tax         decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
}

// Totals is the frozen price breakdown of an order.
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// maxAmount is the largest value a numeric(12,2) money column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// ChargesFrom reads optional charge fields; a missing value is zero. Each
// charge must be a non-negative amount with at most two decimal places that
// fits the money columns.
func ChargesFrom(tax, shipping, discount *decimal.Decimal) (Charges, error) {
	charges := Charges{
		Tax:         valueOrZero(tax),
		ShippingFee: valueOrZero(shipping),
		Discount:    valueOrZero(discount),
	}
	invalid := map[string]any{}
	for field, v := range map[string]decimal.Decimal{
		"tax":          charges.Tax,
		"shipping_fee": charges.ShippingFee,
		"discount":     charges.Discount,
	} {
		if msg := amountProblem(v); msg != "" {
			invalid[field] = msg
		}
	}
	if len(invalid) > 0 {
		return Charges{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid charges").WithDetails(invalid)
	}
	return charges, nil
}

func amountProblem(v decimal.Decimal) string {
	switch {
	case v.IsNegative():
		return "must be zero or greater"
	case !v.Equal(v.Round(2)):
		return "must have at most 2 decimal places"
	case v.GreaterThan(maxAmount):
		return "must be at most " + maxAmount.String()
	}
	return ""
}

// MergeLines folds repeated item ids into one line, keeping first-seen order.
func MergeLines(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	merged := make([]LineInput, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_id is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"item_id": line.ItemID.String(), "quantity": line.Quantity})
		}
		if i, ok := index[line.ItemID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

// Price snapshots each requested line against catalog and computes
// total = subtotal + tax + shipping - discount. Any missing item fails the
// whole order.
func Price(lines []LineInput, catalog map[uuid.UUID]models.Item, charges Charges) ([]models.OrderLineItem, Totals, error) {
	snapshot := make([]models.OrderLineItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		item, ok := catalog[line.ItemID]
		if !ok {
			return nil, Totals{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").
				WithDetails(map[string]any{"item_id": line.ItemID.String()})
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		snapshot = append(snapshot, models.OrderLineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
	}

	totals := Totals{
		Subtotal:    subtotal,
		Tax:         charges.Tax,
		ShippingFee: charges.ShippingFee,
		Discount:    charges.Discount,
	}
	totals.Total = subtotal.Add(charges.Tax).Add(charges.ShippingFee).Sub(charges.Discount)
	if totals.Total.IsNegative() {
		return nil, Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds order value").
			WithDetails(map[string]any{"subtotal": subtotal.String(), "discount": charges.Discount.String()})
	}
	if subtotal.GreaterThan(maxAmount) || totals.Total.GreaterThan(maxAmount) {
		return nil, Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "order value too large").
			WithDetails(map[string]any{"max": maxAmount.String()})
	}
	return snapshot, totals, nil
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
