package types

import "strings"

// PriorityLevel is the qualitative urgency derived from a priority score
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "baixo"
	PriorityMedium PriorityLevel = "medio"
	PriorityHigh   PriorityLevel = "alto"
)

// Score thresholds for priority levels
const (
	PriorityHighThreshold   = 5
	PriorityMediumThreshold = 2
)

// PriorityLevelFromScore maps a numeric score to its level
func PriorityLevelFromScore(score int) PriorityLevel {
	switch {
	case score >= PriorityHighThreshold:
		return PriorityHigh
	case score >= PriorityMediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// IsValid checks if the priority level is valid
func (l PriorityLevel) IsValid() bool {
	switch l {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// NormalizePriorityLevel maps external spellings (English names, accents,
// any case) onto the canonical levels. ok is false for unrecognised values.
func NormalizePriorityLevel(s string) (PriorityLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baixo", "baixa", "low":
		return PriorityLow, true
	case "medio", "médio", "media", "média", "medium":
		return PriorityMedium, true
	case "alto", "alta", "high":
		return PriorityHigh, true
	default:
		return "", false
	}
}
