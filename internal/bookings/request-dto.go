package bookings

// ConfirmBookingRequest is the payload for POST /bookings/confirm
type ConfirmBookingRequest struct {
	ShowingID     string   `json:"showing_id" binding:"required,uuid"`
	Seats         []string `json:"seats" binding:"required,min=1,max=10,dive,seatid"`
	HolderID      string   `json:"holder_id" binding:"omitempty,max=64"`
	CustomerName  string   `json:"customer_name" binding:"required,min=1,max=120"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
}

// CancelBookingRequest is the payload for POST /bookings/:id/cancel
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// BookingListQuery holds filters for admin booking listings
type BookingListQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Status    string `form:"status" binding:"omitempty,oneof=CONFIRMED CANCELLED COMPLETED"`
	ShowingID string `form:"showing_id" binding:"omitempty,uuid"`
	Email     string `form:"email" binding:"omitempty,email"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}
