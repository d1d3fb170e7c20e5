package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_access/internal/app"
	"hotel_access/internal/domain"
)

// ---- fakes ----

type fakeEnrollments struct {
	byUser map[int64]domain.Enrollment
	err    error
}

func (f *fakeEnrollments) FindEnrollmentByUserID(ctx context.Context, userID int64) (domain.Enrollment, error) {
	if f.err != nil {
		return domain.Enrollment{}, f.err
	}
	e, ok := f.byUser[userID]
	if !ok {
		return domain.Enrollment{}, domain.ErrNotFound
	}
	return e, nil
}

type fakeTickets struct {
	byEnrollment map[int64]domain.Ticket
}

func (f *fakeTickets) FindTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (domain.Ticket, error) {
	t, ok := f.byEnrollment[enrollmentID]
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return t, nil
}

type fakeHotels struct {
	hotels []domain.Hotel
	rooms  map[int64][]domain.Room
	err    error
	calls  int
}

func (f *fakeHotels) FindAllHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.calls++
	return f.hotels, f.err
}

func (f *fakeHotels) FindHotelWithRooms(ctx context.Context, hotelID int64) (domain.HotelWithRooms, error) {
	f.calls++
	if f.err != nil {
		return domain.HotelWithRooms{}, f.err
	}
	for _, h := range f.hotels {
		if h.ID == hotelID {
			return domain.HotelWithRooms{Hotel: h, Rooms: f.rooms[hotelID]}, nil
		}
	}
	return domain.HotelWithRooms{}, domain.ErrNotFound
}

// ---- fixtures ----

const userID = int64(7)

func enrolled() *fakeEnrollments {
	return &fakeEnrollments{byUser: map[int64]domain.Enrollment{userID: {ID: 70, UserID: userID}}}
}

func ticketed(status domain.TicketStatus, remote, hotel bool) *fakeTickets {
	return &fakeTickets{byEnrollment: map[int64]domain.Ticket{
		70: {ID: 700, EnrollmentID: 70, Status: status, TicketType: domain.TicketType{IsRemote: remote, IncludesHotel: hotel}},
	}}
}

func someHotels() *fakeHotels {
	now := time.Now().UTC()
	return &fakeHotels{
		hotels: []domain.Hotel{
			{ID: 1, Name: "Copacabana Palace", Image: "http://img/1", CreatedAt: now, UpdatedAt: now},
			{ID: 2, Name: "Hotel Ipanema", Image: "http://img/2", CreatedAt: now, UpdatedAt: now},
		},
		rooms: map[int64][]domain.Room{
			1: {{ID: 10, Name: "101", Capacity: 2, HotelID: 1}, {ID: 11, Name: "102", Capacity: 3, HotelID: 1}},
		},
	}
}

// ---- tests ----

func TestListHotels_Gate(t *testing.T) {
	cases := []struct {
		name    string
		enr     *fakeEnrollments
		tix     *fakeTickets
		hotels  *fakeHotels
		wantErr error
		wantN   int
	}{
		{"no enrollment", &fakeEnrollments{}, ticketed(domain.TicketPaid, false, true), someHotels(), domain.ErrNotFound, 0},
		{"no ticket", enrolled(), &fakeTickets{}, someHotels(), domain.ErrNotFound, 0},
		{"reserved ticket", enrolled(), ticketed(domain.TicketReserved, false, true), someHotels(), domain.ErrPaymentRequired, 0},
		{"remote ticket", enrolled(), ticketed(domain.TicketPaid, true, true), someHotels(), domain.ErrPaymentRequired, 0},
		{"remote without hotel", enrolled(), ticketed(domain.TicketPaid, true, false), someHotels(), domain.ErrPaymentRequired, 0},
		{"hotel not included", enrolled(), ticketed(domain.TicketPaid, false, false), someHotels(), domain.ErrPaymentRequired, 0},
		{"no hotels", enrolled(), ticketed(domain.TicketPaid, false, true), &fakeHotels{}, domain.ErrNotFound, 0},
		{"eligible", enrolled(), ticketed(domain.TicketPaid, false, true), someHotels(), nil, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := app.NewHotelService(tc.enr, tc.tix, tc.hotels)
			hs, err := s.ListHotels(context.Background(), userID)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if len(hs) != tc.wantN {
				t.Fatalf("want %d hotels, got %d", tc.wantN, len(hs))
			}
		})
	}
}

func TestListHotels_DeniedBeforeHotelQuery(t *testing.T) {
	hotels := someHotels()
	s := app.NewHotelService(enrolled(), ticketed(domain.TicketReserved, false, true), hotels)
	if _, err := s.ListHotels(context.Background(), userID); !errors.Is(err, domain.ErrPaymentRequired) {
		t.Fatalf("want payment required, got %v", err)
	}
	if hotels.calls != 0 {
		t.Fatalf("hotel store queried %d times before access was granted", hotels.calls)
	}
}

func TestListHotels_ErrorNames(t *testing.T) {
	s := app.NewHotelService(enrolled(), ticketed(domain.TicketReserved, false, true), someHotels())
	_, err := s.ListHotels(context.Background(), userID)
	var ae *domain.AppError
	if !errors.As(err, &ae) || ae.Name != "PaymentRequiredError" {
		t.Fatalf("unexpected error: %#v", err)
	}

	s = app.NewHotelService(&fakeEnrollments{}, &fakeTickets{}, someHotels())
	_, err = s.ListHotels(context.Background(), userID)
	if !errors.As(err, &ae) || ae.Name != "NotFoundError" {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestListHotels_StoreErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	s := app.NewHotelService(&fakeEnrollments{err: boom}, &fakeTickets{}, someHotels())
	_, err := s.ListHotels(context.Background(), userID)
	if !errors.Is(err, boom) {
		t.Fatalf("want store error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrPaymentRequired) {
		t.Fatalf("store error must not look like a domain error: %v", err)
	}
}

func TestListRooms(t *testing.T) {
	s := app.NewHotelService(enrolled(), ticketed(domain.TicketPaid, false, true), someHotels())

	h, err := s.ListRooms(context.Background(), 1, userID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.ID != 1 || len(h.Rooms) != 2 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	for _, r := range h.Rooms {
		if r.HotelID != 1 {
			t.Fatalf("room %d belongs to hotel %d", r.ID, r.HotelID)
		}
	}

	// hotel with no rooms still yields an empty, non-nil slice
	h, err = s.ListRooms(context.Background(), 2, userID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Rooms == nil || len(h.Rooms) != 0 {
		t.Fatalf("expected empty rooms, got %#v", h.Rooms)
	}

	if _, err := s.ListRooms(context.Background(), 999, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestListRooms_Gate(t *testing.T) {
	s := app.NewHotelService(enrolled(), ticketed(domain.TicketPaid, true, true), someHotels())
	if _, err := s.ListRooms(context.Background(), 1, userID); !errors.Is(err, domain.ErrPaymentRequired) {
		t.Fatalf("want payment required, got %v", err)
	}

	s = app.NewHotelService(enrolled(), &fakeTickets{}, someHotels())
	if _, err := s.ListRooms(context.Background(), 1, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
