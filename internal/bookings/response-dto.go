package bookings

import "time"

// BookingResponse is the API shape of a booking
type BookingResponse struct {
	ID            string     `json:"id"`
	BookingRef    string     `json:"booking_ref"`
	ShowingID     string     `json:"showing_id"`
	Seats         []string   `json:"seats"`
	SeatCount     int        `json:"seat_count"`
	TotalAmount   float64    `json:"total_amount"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Status        string     `json:"status"`
	TicketCode    string     `json:"ticket_code"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CancelledBy   string     `json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts a Booking to its API shape
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		ShowingID:     b.ShowingID.String(),
		Seats:         []string(b.SeatList),
		SeatCount:     b.SeatCount,
		TotalAmount:   b.TotalAmount,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		Status:        b.Status,
		TicketCode:    b.TicketCode,
		CancelReason:  b.CancelReason,
		CancelledBy:   b.CancelledBy,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
	}
}
