package invoice

import (
	"fmt"
	"strings"
	"time"
)

// Invoice numbers are issued per Indian fiscal year (April through March).
const numberPrefix = "IND"

// FiscalYear returns the FY key for a timestamp, e.g. 2025-04-01 → "2025-26"
// and 2025-03-31 → "2024-25".
func FiscalYear(t time.Time) string {
	year := t.Year()
	start := year
	if t.Month() < time.April {
		start = year - 1
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FormatNumber renders a sequence value as a full invoice number,
// e.g. ("2025-26", 3) → "IND/2025-26/000003".
func FormatNumber(fy string, seq int) string {
	return fmt.Sprintf("%s/%s/%06d", numberPrefix, fy, seq)
}

// ArtifactFileName derives the PDF file name from an invoice number, with
// path separators flattened to underscores.
func ArtifactFileName(invoiceNo string) string {
	return "invoice_" + strings.ReplaceAll(invoiceNo, "/", "_") + ".pdf"
}

// WebPath is the path stored on the row and served to clients.
func WebPath(invoiceNo string) string {
	return "/invoices/" + ArtifactFileName(invoiceNo)
}
