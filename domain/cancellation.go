package domain

import "github.com/google/uuid"

// CancellationRequest carries the cancellation flags a caller set on an update.
type CancellationRequest struct {
	Sale  bool
	Items map[uuid.UUID]bool
}

// CancellationOutcome lists the transitions that actually happened, in
// collection order. Entities that were already cancelled never appear.
type CancellationOutcome struct {
	CancelledItems []*SaleItem
	SaleCancelled  bool
}

// ApplyCancellation runs the cancellation cascade between a sale and its items.
//
// A sale-level request (or a sale that is already cancelled) cancels every
// item. Otherwise only the flagged items are cancelled, and the sale follows
// once every item is cancelled.
func ApplyCancellation(sale *Sale, items []*SaleItem, req CancellationRequest) CancellationOutcome {
	var out CancellationOutcome

	cascadeDown := req.Sale || sale.IsCancelled()
	for _, item := range items {
		if !cascadeDown && !req.Items[item.ID] {
			continue
		}
		if item.Cancel() {
			out.CancelledItems = append(out.CancelledItems, item)
		}
	}

	if cascadeDown || allCancelled(items) {
		out.SaleCancelled = sale.Cancel()
	}

	return out
}

func allCancelled(items []*SaleItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsCancelled() {
			return false
		}
	}
	return true
}
