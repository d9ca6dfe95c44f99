package model

import (
	"time"
)

// ImportVia identifies which import route a row came from. The sea route
// derives its ETA from the ship date; the air route reads it directly.
type ImportVia string

const (
	ViaAir ImportVia = "air"
	ViaSea ImportVia = "sea"
)

// Valid reports whether v is a known import route.
func (v ImportVia) Valid() bool {
	return v == ViaAir || v == ViaSea
}

// OrderLine is one normalized row of a purchase order. Optional fields use
// nil for "absent"; all sentinel handling happens in engine.Normalize, so
// consumers never see raw placeholder values.
type OrderLine struct {
	Reference   string     `json:"reference"`
	Client      string     `json:"client"`
	StatusCode  string     `json:"status_code"`
	InvoiceID   *string    `json:"invoice_id,omitempty"`
	ArrivalDate *time.Time `json:"arrival_date,omitempty"`
	ShipDate    *time.Time `json:"ship_date,omitempty"`
	ETADate     *time.Time `json:"eta_date,omitempty"`
}

// HasInvoice reports whether the line carries a real invoice id.
func (l OrderLine) HasInvoice() bool {
	return l.InvoiceID != nil && *l.InvoiceID != ""
}

// HasArrived reports whether a physical arrival date is recorded.
func (l OrderLine) HasArrived() bool {
	return l.ArrivalDate != nil
}

// AnalysisResult is an OrderLine plus its assigned status label. The label
// and reference are the only fields ever forwarded to the summarizer.
type AnalysisResult struct {
	OrderLine
	StatusLabel string `json:"status_label"`
}

// Status labels assigned by the classifier, in business-priority order.
const (
	LabelCancelled    = "Cancelled, will not be processed."
	LabelUnattended   = "Order unattended and delayed."
	LabelDelayed      = "Order delayed in transit."
	LabelBackOrder    = "Back-ordered, possible delay."
	LabelArrived      = "Piece has arrived at warehouse."
	LabelInTransit    = "Piece is in transit."
	LabelInsufficient = "Insufficient information."
)

// TransitItem is one row of the in-transit-material table, looked up by
// exact part number. These rows are never classified or summarized.
type TransitItem struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Status      string `json:"status"`
}
