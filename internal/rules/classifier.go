// Package rules derives the open/closed flags of PRs and POs from the configured
// status rules. The rules are data, not code: the status lists and the linked-PO
// clause come from settings and can be edited at runtime.
package rules

import (
	"strings"

	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// Derived column names added to mapped tables by the classifier.
const (
	ColIsOpenPR         = "Is_Open_PR"
	ColIsOpenDeliveryPO = "Is_Open_Delivery_PO"
)

// Classifier evaluates the configured open-record predicates.
type Classifier struct {
	// PROpenStatuses marks a PR open regardless of the other clauses.
	PROpenStatuses []string
	// POOpenDeliveryStatuses marks a PO delivery open regardless of quantities.
	POOpenDeliveryStatuses []string
	// RequireLinkedPO keeps a PR open until some PO references its PR number.
	RequireLinkedPO bool
}

// FlagOpenPRs writes Is_Open_PR ("true"/"false") for every PR row. linkedPRs is
// the set of PR numbers referenced by the PO table; when the PR status column is
// unmapped the status clauses degrade to unknown and only the linked-PO clause
// applies.
func (c Classifier) FlagOpenPRs(prs *table.Table, linkedPRs map[string]struct{}) int {
	if prs == nil {
		return 0
	}
	prs.EnsureColumn(ColIsOpenPR)
	hasStatus := prs.HasColumn(schema.FieldPRStatus)

	open := 0
	for i := 0; i < prs.Len(); i++ {
		isOpen := false
		if hasStatus {
			// blank cells count as open; only an unmapped column degrades
			status := strings.ToLower(prs.Cell(i, schema.FieldPRStatus))
			isOpen = status != "closed"
			if containsFold(c.PROpenStatuses, status) {
				isOpen = true
			}
		}
		// linkedPRs == nil means the PO table has no PR_Number column; the
		// clause degrades to a no-op instead of marking everything open
		if c.RequireLinkedPO && linkedPRs != nil {
			prNo := prs.Cell(i, schema.FieldPRNumber)
			if prNo != "" {
				if _, linked := linkedPRs[prNo]; !linked {
					isOpen = true
				}
			}
		}
		prs.SetCell(i, ColIsOpenPR, formatBool(isOpen))
		if isOpen {
			open++
		}
	}
	return open
}

// FlagOpenDeliveries writes Is_Open_Delivery_PO for every PO row. A delivery is
// open when the ordered quantity exceeds the received quantity (both cells must
// parse), or the delivery status is "Open" or in the configured open list.
// Unparseable quantities degrade to false rather than failing the row.
func (c Classifier) FlagOpenDeliveries(pos *table.Table) int {
	if pos == nil {
		return 0
	}
	pos.EnsureColumn(ColIsOpenDeliveryPO)

	open := 0
	for i := 0; i < pos.Len(); i++ {
		outstanding := false
		qty, qtyOK := table.ParseNumber(pos.Cell(i, schema.FieldPOQuantity))
		grn, grnOK := table.ParseNumber(pos.Cell(i, schema.FieldGRNQuantity))
		if qtyOK && grnOK {
			outstanding = qty-grn > 0
		}

		status := strings.ToLower(pos.Cell(i, schema.FieldDeliveryStatus))
		isOpen := outstanding || status == "open" || containsFold(c.POOpenDeliveryStatuses, status)
		pos.SetCell(i, ColIsOpenDeliveryPO, formatBool(isOpen))
		if isOpen {
			open++
		}
	}
	return open
}

// LinkedPRNumbers collects the PR numbers referenced by the PO table. A nil map
// is returned when the PR_Number column is unmapped, which disables the
// linked-PO clause gracefully.
func LinkedPRNumbers(pos *table.Table) map[string]struct{} {
	if pos == nil || !pos.HasColumn(schema.FieldPRNumber) {
		return nil
	}
	linked := map[string]struct{}{}
	for _, v := range pos.Column(schema.FieldPRNumber) {
		if v != "" {
			linked[v] = struct{}{}
		}
	}
	return linked
}

// IsOpen reads a previously written flag column.
func IsOpen(t *table.Table, row int, col string) bool {
	return t.Cell(row, col) == "true"
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(strings.TrimSpace(s), needle) {
			return true
		}
	}
	return false
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
