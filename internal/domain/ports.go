package domain

import "context"

// Read paths only; enrollments, tickets and hotels are written elsewhere.
type HotelRepository interface {
	FindAllHotels(ctx context.Context) ([]Hotel, error)
	FindHotelWithRooms(ctx context.Context, hotelID int64) (HotelWithRooms, error)
}

type EnrollmentRepository interface {
	FindEnrollmentByUserID(ctx context.Context, userID int64) (Enrollment, error)
}

type TicketRepository interface {
	FindTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (Ticket, error)
}

type SessionRepository interface {
	FindSessionByToken(ctx context.Context, token string) (Session, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}
