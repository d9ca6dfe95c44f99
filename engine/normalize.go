package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/gael-paolo/st-parts-track/model"
)

// Canonical column keys shared by the spreadsheet and flat-CSV source
// formats. Decoders map raw headers onto these before rows reach the
// normalizer.
const (
	ColReference = "referencia"
	ColClient    = "cliente"
	ColStatus    = "status"
	ColInvoice   = "invoice"
	ColArrival   = "fecha_llegada"
	ColShipDate  = "ship_date"
	ColETA       = "eta_la_paz"
)

// RawRow is one undecoded source row keyed by canonical column name.
type RawRow map[string]string

// seaTransitDays is the lead time added to the ship date to derive the
// sea-freight ETA.
const seaTransitDays = 60

// invoiceSentinels are the historical "no invoice" cell markers, compared
// after trimming and lowercasing.
var invoiceSentinels = map[string]bool{
	"":            true,
	"(en blanco)": true,
	"no invoice":  true,
}

// dateSentinels are epoch placeholders that mean "no date".
var dateSentinels = map[string]bool{
	"1900-01-01": true,
	"1900-03-02": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"1/2/06 15:04",
	"01-02-06",
	time.RFC3339,
}

// Normalize converts a raw source row into a canonical OrderLine. All
// sentinel knowledge lives here: blank-invoice markers collapse to absent,
// placeholder dates collapse to nil, and malformed date text never aborts a
// row. For sea-freight rows the ETA is derived from the ship date rather
// than read from the sheet. Normalizing an already-normalized row is a
// no-op.
func Normalize(row RawRow, via model.ImportVia) model.OrderLine {
	line := model.OrderLine{
		Reference:  strings.TrimSpace(row[ColReference]),
		Client:     strings.TrimSpace(row[ColClient]),
		StatusCode: strings.TrimSpace(row[ColStatus]),
	}

	if inv := strings.TrimSpace(row[ColInvoice]); !invoiceSentinels[strings.ToLower(inv)] {
		line.InvoiceID = &inv
	}

	line.ArrivalDate = parseDate(row[ColArrival])
	line.ShipDate = parseDate(row[ColShipDate])

	if via == model.ViaSea {
		if line.ShipDate != nil {
			eta := line.ShipDate.AddDate(0, 0, seaTransitDays)
			line.ETADate = &eta
		}
	} else {
		line.ETADate = parseDate(row[ColETA])
	}

	return line
}

// parseDate parses tolerant: trims, rejects sentinel placeholders, tries the
// known layouts and excel serial numbers, and returns nil on anything it
// cannot make sense of.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return rejectSentinel(t)
	}

	// Spreadsheet cells without a date format surface as serial numbers
	// (days since 1899-12-30).
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		t := base.AddDate(0, 0, int(serial))
		return rejectSentinel(t)
	}

	return nil
}

func rejectSentinel(t time.Time) *time.Time {
	if dateSentinels[t.Format("2006-01-02")] {
		return nil
	}
	return &t
}

// FormatDate renders a date the way re-ingestion expects it; nil renders as
// the empty cell.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
