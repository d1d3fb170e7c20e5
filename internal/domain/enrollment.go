package domain

import "time"

type Enrollment struct {
	ID        int64
	UserID    int64
	Name      string
	CPF       string
	Birthday  time.Time
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

type TicketType struct {
	ID            int64
	Name          string
	Price         int
	IsRemote      bool
	IncludesHotel bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Ticket struct {
	ID           int64
	TicketTypeID int64
	EnrollmentID int64
	Status       TicketStatus
	TicketType   TicketType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GrantsHotel reports whether the ticket lets its holder see hotel data:
// paid, in person, and with hotel included.
func (t Ticket) GrantsHotel() bool {
	return t.Status == TicketPaid && !t.TicketType.IsRemote && t.TicketType.IncludesHotel
}

type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
}
