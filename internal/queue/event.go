// Package queue defines the booking events exchanged over the message
// broker and the background consumer that records them.
package queue

// Booking event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// BookingEvent is published whenever a reservation is committed or
// cancelled.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.  SeatLabel and
// GuestFullName are empty for kinds that do not use them.
type BookingEvent struct {
	Action        string `json:"action"`
	BookingID     uint64 `json:"booking_id"`
	EmployeeID    uint64 `json:"employee_id"`
	BookingDate   string `json:"booking_date"`
	SeatLabel     string `json:"seat_label,omitempty"`
	Kind          string `json:"kind"`
	GuestFullName string `json:"guest_full_name,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
