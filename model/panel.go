package model

// PanelState is the explicit input-panel state machine owned by the
// presentation shell. It replaces ad hoc visibility flags; the engine
// never inspects it.
type PanelState string

const (
	PanelIdle             PanelState = "idle"
	PanelReferenceLookup  PanelState = "reference_lookup"
	PanelSimilaritySearch PanelState = "similarity_search"
	PanelTransitLookup    PanelState = "transit_lookup"
)

// Valid reports whether s is a known panel state.
func (s PanelState) Valid() bool {
	switch s {
	case PanelIdle, PanelReferenceLookup, PanelSimilaritySearch, PanelTransitLookup:
		return true
	}
	return false
}
