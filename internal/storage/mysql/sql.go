package mysql

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const findAllHotelsSQL = `
SELECT id, name, image, created_at, updated_at
FROM hotels
ORDER BY id
`

// One row per room; a hotel without rooms yields a single row with NULL
// room columns.
const findHotelWithRoomsSQL = `
SELECT
  h.id,
  h.name,
  h.image,
  h.created_at,
  h.updated_at,
  r.id,
  r.name,
  r.capacity,
  r.hotel_id,
  r.created_at,
  r.updated_at
FROM hotels h
LEFT JOIN rooms r ON r.hotel_id = h.id
WHERE h.id = ?
ORDER BY r.id
`

const findEnrollmentByUserSQL = `
SELECT id, user_id, name, cpf, birthday, phone, created_at, updated_at
FROM enrollments
WHERE user_id = ?
LIMIT 1
`

const findTicketByEnrollmentSQL = `
SELECT
  t.id,
  t.ticket_type_id,
  t.enrollment_id,
  t.status,
  t.created_at,
  t.updated_at,
  tt.id,
  tt.name,
  tt.price,
  tt.is_remote,
  tt.includes_hotel,
  tt.created_at,
  tt.updated_at
FROM tickets t
JOIN ticket_types tt ON tt.id = t.ticket_type_id
WHERE t.enrollment_id = ?
ORDER BY t.id
LIMIT 1
`

const findSessionByTokenSQL = `
SELECT id, user_id, token, created_at
FROM sessions
WHERE token = ?
LIMIT 1
`
