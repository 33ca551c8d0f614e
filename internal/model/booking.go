package model

import "time"

// Kind enumerates the booking kinds.  "Candidate" kinds describe an
// office visit without an assigned desk, so they never carry a seat
// label and never count against the seat inventory.
type Kind string

const (
	KindPersonal          Kind = "personal"           // own desk booking
	KindGuest             Kind = "guest"              // desk booked for a named guest
	KindPersonalCandidate Kind = "personal_candidate" // own visit without a desk
	KindGuestCandidate    Kind = "guest_candidate"    // guest visit without a desk
)

// Valid reports whether k is one of the four enumerated kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPersonal, KindGuest, KindPersonalCandidate, KindGuestCandidate:
		return true
	}
	return false
}

// ForGuest reports whether k requires a guest full name.
func (k Kind) ForGuest() bool { return k == KindGuest || k == KindGuestCandidate }

// Candidate reports whether k is a seatless kind.
func (k Kind) Candidate() bool {
	return k == KindPersonalCandidate || k == KindGuestCandidate
}

// Booking records one office visit: a date, an optional desk and an
// optional guest name, owned by an employee.  The storage layer keeps a
// unique index over (booking_date, seat_label) so that a desk can be
// given out at most once per day; rows without a seat label never
// collide on that index.
type Booking struct {
	ID            uint64    // bookings.id
	EmployeeID    uint64    // bookings.employee_id
	BookingDate   time.Time // bookings.booking_date (date only)
	SeatLabel     *string   // bookings.seat_label (nullable)
	Kind          Kind      // bookings.kind
	GuestFullName *string   // bookings.guest_full_name (nullable)
	CreatedAt     time.Time // bookings.created_at
}

// DisplayName returns the name shown for the visit: the guest's name
// when present, otherwise the owner's name supplied by the caller.
func (b *Booking) DisplayName(ownerName string) string {
	if b.GuestFullName != nil && *b.GuestFullName != "" {
		return *b.GuestFullName
	}
	return ownerName
}
