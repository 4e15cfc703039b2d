// Package seed provides the built-in dataset used at first boot, as the
// fallback when a snapshot fails to load, and by the reset command.
package seed

import (
	"time"

	"github.com/spec-kit/maintenance-core/internal/domain"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// Parts returns the seed inventory catalog.
func Parts(now time.Time) []domain.InventoryPart {
	return []domain.InventoryPart{
		{ID: "P-001", Name: "AC run capacitor 35uF", Category: "HVAC", Unit: "pc", StockOnHand: 6, StockReserved: 0, MinStock: 2, Vendor: strPtr("ClimaSupply"), LeadTimeDays: intPtr(4)},
		{ID: "P-002", Name: "Shower cartridge", Category: "Plumbing", Unit: "pc", StockOnHand: 4, StockReserved: 0, MinStock: 2, Vendor: strPtr("AquaParts"), LeadTimeDays: intPtr(3)},
		{ID: "P-003", Name: "LED bulb E27 warm", Category: "Electrical", Unit: "pc", StockOnHand: 24, StockReserved: 0, MinStock: 10},
		{ID: "P-004", Name: "Door lock battery pack", Category: "Locks", Unit: "pack", StockOnHand: 8, StockReserved: 0, MinStock: 4, Vendor: strPtr("SecureHost")},
		{ID: "P-005", Name: "TV remote control", Category: "Electronics", Unit: "pc", StockOnHand: 3, StockReserved: 0, MinStock: 2, Vendor: strPtr("RoomTech"), LeadTimeDays: intPtr(7)},
		{ID: "P-006", Name: "Minibar thermostat", Category: "Appliances", Unit: "pc", StockOnHand: 1, StockReserved: 0, MinStock: 1, Vendor: strPtr("RoomTech"), LeadTimeDays: intPtr(10)},
		{ID: "P-007", Name: "Curtain glider set", Category: "Furniture", Unit: "set", StockOnHand: 12, StockReserved: 0, MinStock: 3},
		{ID: "P-008", Name: "Toilet flush valve", Category: "Plumbing", Unit: "pc", StockOnHand: 5, StockReserved: 0, MinStock: 2, Vendor: strPtr("AquaParts"), LeadTimeDays: intPtr(3)},
	}
}

// Tickets returns the seed ticket backlog. Creation times are offsets from
// now so age-based priority behaves sensibly on a fresh dataset.
func Tickets(now time.Time) []domain.Ticket {
	return []domain.Ticket{
		{
			ID: "T-1001", RoomNumber: "204", IsOccupied: true,
			Asset: "Air conditioning", IssueType: "Not cooling",
			Description: "Guest reports the AC blows warm air only.",
			Urgency:     domain.UrgencyHigh, Impact: domain.ImpactBlocking,
			Status: domain.TicketStatusOpen, CreatedAt: now.Add(-26 * time.Hour),
			CreatedBy: domain.RoleFrontDesk,
			History: []domain.AuditEvent{{
				Date: now.Add(-26 * time.Hour), Actor: "front desk", Action: "Ticket created",
			}},
		},
		{
			ID: "T-1002", RoomNumber: "117", IsOccupied: false,
			Asset: "Shower", IssueType: "Dripping",
			Description: "Constant drip from the shower head.",
			Urgency:     domain.UrgencyMedium, Impact: domain.ImpactAnnoying,
			Status: domain.TicketStatusOpen, CreatedAt: now.Add(-3 * 24 * time.Hour),
			CreatedBy: domain.RoleGuest,
			History: []domain.AuditEvent{{
				Date: now.Add(-3 * 24 * time.Hour), Actor: "guest", Action: "Ticket created",
			}},
		},
		{
			ID: "T-1003", RoomNumber: "310", IsOccupied: true,
			Asset: "TV", IssueType: "No signal",
			Description: "TV shows no signal on any channel.",
			Urgency:     domain.UrgencyLow, Impact: domain.ImpactAnnoying,
			Status: domain.TicketStatusInProgress, CreatedAt: now.Add(-8 * time.Hour),
			CreatedBy: domain.RoleFrontDesk, AssignedTo: strPtr("Luis"),
			History: []domain.AuditEvent{
				{Date: now.Add(-8 * time.Hour), Actor: "front desk", Action: "Ticket created"},
				{Date: now.Add(-6 * time.Hour), Actor: "Luis", Action: "Work started"},
			},
		},
	}
}
