package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hotel_access/internal/adapters/observability"
	"hotel_access/internal/domain"
)

// Repo serves every read the hotel gate needs from one *sql.DB.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func observe(query string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = "no_rows"
	case err != nil:
		outcome = "error"
	}
	observability.ObserveDB(query, outcome, time.Since(start))
}

func (r *Repo) FindAllHotels(ctx context.Context) (out []domain.Hotel, err error) {
	defer func(start time.Time) { observe("find_all_hotels", start, err) }(time.Now())

	rows, err := r.db.QueryContext(ctx, findAllHotelsSQL)
	if err != nil {
		return nil, fmt.Errorf("query hotels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hotels: %w", err)
	}
	return out, nil
}

func (r *Repo) FindHotelWithRooms(ctx context.Context, hotelID int64) (out domain.HotelWithRooms, err error) {
	defer func(start time.Time) { observe("find_hotel_with_rooms", start, err) }(time.Now())

	rows, err := r.db.QueryContext(ctx, findHotelWithRoomsSQL, hotelID)
	if err != nil {
		return domain.HotelWithRooms{}, fmt.Errorf("query hotel %d: %w", hotelID, err)
	}
	defer rows.Close()

	found := false
	out.Rooms = []domain.Room{}
	for rows.Next() {
		var (
			roomID, capacity, roomHotelID sql.NullInt64
			roomName                      sql.NullString
			roomCreated, roomUpdated      sql.NullTime
		)
		if err := rows.Scan(
			&out.ID, &out.Name, &out.Image, &out.CreatedAt, &out.UpdatedAt,
			&roomID, &roomName, &capacity, &roomHotelID, &roomCreated, &roomUpdated,
		); err != nil {
			return domain.HotelWithRooms{}, fmt.Errorf("scan hotel %d: %w", hotelID, err)
		}
		found = true
		if !roomID.Valid {
			continue
		}
		out.Rooms = append(out.Rooms, domain.Room{
			ID:        roomID.Int64,
			Name:      roomName.String,
			Capacity:  int(capacity.Int64),
			HotelID:   roomHotelID.Int64,
			CreatedAt: roomCreated.Time,
			UpdatedAt: roomUpdated.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return domain.HotelWithRooms{}, fmt.Errorf("iterate hotel %d: %w", hotelID, err)
	}
	if !found {
		return domain.HotelWithRooms{}, domain.ErrNotFound
	}
	return out, nil
}

func (r *Repo) FindEnrollmentByUserID(ctx context.Context, userID int64) (e domain.Enrollment, err error) {
	defer func(start time.Time) { observe("find_enrollment", start, err) }(time.Now())

	var phone sql.NullString
	err = r.db.QueryRowContext(ctx, findEnrollmentByUserSQL, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.CPF, &e.Birthday, &phone, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Enrollment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Enrollment{}, fmt.Errorf("find enrollment for user %d: %w", userID, err)
	}
	e.Phone = phone.String
	return e, nil
}

func (r *Repo) FindTicketByEnrollmentID(ctx context.Context, enrollmentID int64) (t domain.Ticket, err error) {
	defer func(start time.Time) { observe("find_ticket", start, err) }(time.Now())

	var status string
	tt := &t.TicketType
	err = r.db.QueryRowContext(ctx, findTicketByEnrollmentSQL, enrollmentID).Scan(
		&t.ID, &t.TicketTypeID, &t.EnrollmentID, &status, &t.CreatedAt, &t.UpdatedAt,
		&tt.ID, &tt.Name, &tt.Price, &tt.IsRemote, &tt.IncludesHotel, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ticket{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("find ticket for enrollment %d: %w", enrollmentID, err)
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (r *Repo) FindSessionByToken(ctx context.Context, token string) (s domain.Session, err error) {
	defer func(start time.Time) { observe("find_session", start, err) }(time.Now())

	err = r.db.QueryRowContext(ctx, findSessionByTokenSQL, token).Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}
