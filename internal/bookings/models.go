package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Booking is the durable record of a confirmed seat purchase. The seat list
// is denormalized onto the row; the showing's booked_seats column remains
// the authority for which seats are taken.
type Booking struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowingID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"showing_id"`
	SeatList      pq.StringArray `gorm:"type:text[];not null" json:"seat_list"`
	SeatCount     int            `gorm:"not null" json:"seat_count"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	CustomerName  string         `gorm:"type:varchar(120);not null" json:"customer_name"`
	CustomerEmail string         `gorm:"type:varchar(255);index;not null" json:"customer_email"`
	Status        string         `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED', 'COMPLETED');default:'CONFIRMED'" json:"status"`
	BookingRef    string         `gorm:"type:varchar(24);unique;not null" json:"booking_ref"`
	TicketCode    string         `gorm:"type:varchar(64);unique;not null" json:"ticket_code"`
	CancelReason  string         `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CancelledBy   string         `gorm:"type:varchar(120)" json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == string(StatusConfirmed)
}

func (b *Booking) IsCancelled() bool {
	return b.Status == string(StatusCancelled)
}

// HasSeat reports whether the booking covers the given seat.
func (b *Booking) HasSeat(seatID string) bool {
	for _, s := range b.SeatList {
		if s == seatID {
			return true
		}
	}
	return false
}
