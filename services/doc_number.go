package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// DocKind is a numbered sales document.
type DocKind string

const (
	DocProposal DocKind = "proposal"
	DocProforma DocKind = "proforma"
)

var docPrefixes = map[DocKind]string{
	DocProposal: "PROP",
	DocProforma: "PI",
}

var docCollections = map[DocKind]string{
	DocProposal: "proposals",
	DocProforma: "proforma_invoices",
}

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}

// formatDocNumber constructs the document number from its components.
func formatDocNumber(kind DocKind, fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", docPrefixes[kind], fiscalYear, sequence)
}

// GenerateDocNumber creates the next number for a proposal or proforma.
// Format: {PROP|PI}-{fiscal_year}-{sequence}, sequence 3-digit zero-padded
// per kind per fiscal year.
func GenerateDocNumber(app core.App, kind DocKind, now time.Time) (string, error) {
	collection, ok := docCollections[kind]
	if !ok {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}

	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("%s-%s-", docPrefixes[kind], fiscalYear)

	count, err := app.CountRecords(collection,
		dbx.NewExp("doc_number LIKE {:prefix}", dbx.Params{"prefix": prefix + "%"}),
	)
	if err != nil {
		// Missing collection or empty table: start at 1.
		count = 0
	}

	return formatDocNumber(kind, fiscalYear, int(count)+1), nil
}
