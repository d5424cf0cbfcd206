package notification

// Tier is the chosen notification category for one run. Label and Color
// feed rendering only; selection logic never reads them.
type Tier int

const (
	TierAllClear Tier = iota
	TierDueToday
	TierDueTomorrow
	TierDueIn2Days
	TierFinalWarning
)

func (t Tier) String() string {
	switch t {
	case TierAllClear:
		return "all_clear"
	case TierDueToday:
		return "due_today"
	case TierDueTomorrow:
		return "due_tomorrow"
	case TierDueIn2Days:
		return "due_in_2_days"
	case TierFinalWarning:
		return "final_warning"
	default:
		return "unknown"
	}
}

// Color is the accent color associated with the tier when rendering.
func (t Tier) Color() string {
	switch t {
	case TierAllClear:
		return "#2e7d32"
	case TierDueToday:
		return "#e65100"
	case TierDueTomorrow:
		return "#f9a825"
	case TierDueIn2Days:
		return "#1565c0"
	case TierFinalWarning:
		return "#b71c1c"
	default:
		return "#616161"
	}
}
