// Package priority scores tickets for attention. Scoring is a pure function
// of ticket attributes and the evaluation instant; callers never store a
// score except through recomputation.
package priority

import (
	"math"
	"time"

	"github.com/spec-kit/maintenance-core/internal/domain"
)

const (
	urgencyHighPoints   = 50
	urgencyMediumPoints = 30
	urgencyLowPoints    = 10

	impactBlockingPoints = 40
	impactAnnoyingPoints = 20

	occupiedPoints = 30

	agePointsPerDay = 5.0
	agePointsCap    = 30.0
)

// Score computes the ranking value for a ticket at the given instant.
// Resolved and verified tickets always score zero.
func Score(t *domain.Ticket, now time.Time) int {
	if t.Status == domain.TicketStatusResolved || t.Status == domain.TicketStatusVerified {
		return 0
	}

	score := 0.0
	switch t.Urgency {
	case domain.UrgencyHigh:
		score += urgencyHighPoints
	case domain.UrgencyMedium:
		score += urgencyMediumPoints
	default:
		score += urgencyLowPoints
	}
	switch t.Impact {
	case domain.ImpactBlocking:
		score += impactBlockingPoints
	case domain.ImpactAnnoying:
		score += impactAnnoyingPoints
	}
	if t.IsOccupied {
		score += occupiedPoints
	}

	// Age accrues fractionally, capped.
	daysOpen := now.Sub(t.CreatedAt).Hours() / 24
	if daysOpen > 0 {
		age := daysOpen * agePointsPerDay
		if age > agePointsCap {
			age = agePointsCap
		}
		score += age
	}

	return int(math.Round(score))
}
