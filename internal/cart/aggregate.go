package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rowdysden/rowdysden-backend/pkg/db/models"
)

// Aggregate prices cart lines with the live catalog. Lines whose item is no
// longer in the catalog are dropped from the view.
func Aggregate(cart *models.Cart, catalog map[uuid.UUID]models.Item) View {
	view := View{OwnerID: cart.OwnerID, Items: make([]LineView, 0, len(cart.Items)), Total: decimal.Zero}
	for _, line := range cart.Items {
		item, ok := catalog[line.ItemID]
		if !ok {
			continue
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, LineView{
			ItemID:    line.ItemID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: item.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			AddedAt:   line.AddedAt,
		})
		view.ItemCount += line.Quantity
		view.Total = view.Total.Add(lineTotal)
	}
	if !cart.UpdatedAt.IsZero() {
		updated := cart.UpdatedAt.UTC().Truncate(time.Millisecond)
		view.UpdatedAt = &updated
	}
	return view
}
