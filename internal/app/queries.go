package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_access/internal/domain"
)

type HotelService struct {
	enrollments domain.EnrollmentRepository
	tickets     domain.TicketRepository
	hotels      domain.HotelRepository
}

func NewHotelService(e domain.EnrollmentRepository, t domain.TicketRepository, h domain.HotelRepository) *HotelService {
	return &HotelService{enrollments: e, tickets: t, hotels: h}
}

// access is threaded through the gate steps; each step reads what the
// previous one loaded.
type access struct {
	userID     int64
	enrollment domain.Enrollment
	ticket     domain.Ticket
}

type step func(ctx context.Context, a *access) error

func (s *HotelService) ListHotels(ctx context.Context, userID int64) ([]domain.Hotel, error) {
	if err := s.gate(ctx, userID); err != nil {
		return nil, err
	}
	hs, err := s.hotels.FindAllHotels(ctx)
	if err != nil {
		return nil, err
	}
	if len(hs) == 0 {
		return nil, domain.NotFoundError("no hotels available")
	}
	return hs, nil
}

func (s *HotelService) ListRooms(ctx context.Context, hotelID, userID int64) (domain.HotelWithRooms, error) {
	if err := s.gate(ctx, userID); err != nil {
		return domain.HotelWithRooms{}, err
	}
	h, err := s.hotels.FindHotelWithRooms(ctx, hotelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.HotelWithRooms{}, domain.NotFoundError("hotel not found")
		}
		return domain.HotelWithRooms{}, err
	}
	if h.Rooms == nil {
		h.Rooms = []domain.Room{}
	}
	return h, nil
}

// gate runs enrollment -> ticket -> eligibility in order and stops at the
// first failure.
func (s *HotelService) gate(ctx context.Context, userID int64) error {
	a := &access{userID: userID}
	for _, fn := range []step{s.loadEnrollment, s.loadTicket, checkTicket} {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *HotelService) loadEnrollment(ctx context.Context, a *access) error {
	e, err := s.enrollments.FindEnrollmentByUserID(ctx, a.userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Int64("user_id", a.userID).Msg("hotel access denied: no enrollment")
			return domain.NotFoundError("enrollment not found")
		}
		return err
	}
	a.enrollment = e
	return nil
}

func (s *HotelService) loadTicket(ctx context.Context, a *access) error {
	t, err := s.tickets.FindTicketByEnrollmentID(ctx, a.enrollment.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug().Int64("user_id", a.userID).Int64("enrollment_id", a.enrollment.ID).Msg("hotel access denied: no ticket")
			return domain.NotFoundError("ticket not found")
		}
		return err
	}
	a.ticket = t
	return nil
}

// Unpaid, remote and no-hotel tickets all collapse into one outcome.
func checkTicket(_ context.Context, a *access) error {
	if !a.ticket.GrantsHotel() {
		log.Debug().
			Int64("user_id", a.userID).
			Int64("ticket_id", a.ticket.ID).
			Str("status", string(a.ticket.Status)).
			Bool("remote", a.ticket.TicketType.IsRemote).
			Bool("includes_hotel", a.ticket.TicketType.IncludesHotel).
			Msg("hotel access denied: ticket")
		return domain.PaymentRequiredError("")
	}
	return nil
}
