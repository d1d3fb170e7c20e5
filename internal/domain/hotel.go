package domain

import "time"

type Hotel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	HotelID   int64     `json:"hotelId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HotelWithRooms is a hotel row with its rooms embedded under "Rooms".
// Rooms is never nil so it always encodes as an array.
type HotelWithRooms struct {
	Hotel
	Rooms []Room `json:"Rooms"`
}
