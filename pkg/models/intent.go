package models

// Intent is the closed set of conversation intents the classifier may produce.
// Anything outside this set is coerced to IntentFallback.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentGoodbye    Intent = "goodbye"
	IntentProfile    Intent = "profile"
	IntentTaxInfo    Intent = "tax_info"
	IntentParcels    Intent = "parcels"
	IntentProcedures Intent = "procedures"
	IntentLinking    Intent = "linking"
	IntentETaxStatus Intent = "etax_status"
	IntentFallback   Intent = "fallback"
)

// AllIntents lists every valid intent, in the order presented to the LLM
// classification prompt.
var AllIntents = []Intent{
	IntentGreeting,
	IntentGoodbye,
	IntentProfile,
	IntentTaxInfo,
	IntentParcels,
	IntentProcedures,
	IntentLinking,
	IntentETaxStatus,
	IntentFallback,
}

// ParseIntent maps a raw label to an Intent. Unknown labels coerce to
// IntentFallback and return false.
func ParseIntent(label string) (Intent, bool) {
	for _, it := range AllIntents {
		if string(it) == label {
			return it, true
		}
	}
	return IntentFallback, false
}

// IsDataDomain reports whether the intent requires a citizen-data lookup
// before generation.
func (i Intent) IsDataDomain() bool {
	switch i {
	case IntentProfile, IntentTaxInfo, IntentParcels, IntentProcedures, IntentETaxStatus:
		return true
	}
	return false
}

// Slot names extracted from free text.
const (
	SlotCitizenID     = "citizen_id"
	SlotParcelID      = "parcel_id"
	SlotProcedureName = "procedure_name"
)

// ClassificationResult is the transient output of one classification run.
// It is produced fresh per inbound message and fully consumed within one
// pipeline run; it is never persisted as its own entity.
type ClassificationResult struct {
	Intent     Intent            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Slots      map[string]string `json:"slots"`
}
