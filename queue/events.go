// Package queue carries the transactional email events over RabbitMQ. The
// lifecycle engine publishes, the mail worker consumes; both sides treat the
// broker as best-effort and keep running without it.
package queue

// EmailQueueName is the durable queue the mail worker consumes.
const EmailQueueName = "booking.emails"

// Email event kinds.
const (
	EmailReservation = "reservation_confirmation"
	EmailRejection   = "booking_rejection"
	EmailOTP         = "otp_verification"
)

// BookingEmailEvent is the serialized booking snapshot enough for the mail
// worker to compose a message without touching the database.
type BookingEmailEvent struct {
	Kind          string   `json:"kind"`
	Recipient     string   `json:"recipient"`
	BookingID     uint     `json:"booking_id"`
	ReferenceCode string   `json:"reference_code"`
	PropertyName  string   `json:"property_name"`
	IsVenue       bool     `json:"is_venue"`
	CheckInDate   string   `json:"check_in_date"`
	CheckOutDate  string   `json:"check_out_date"`
	Status        string   `json:"status"`
	TotalPrice    float64  `json:"total_price"`
	DownPayment   *float64 `json:"down_payment,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	PublishedAt   string   `json:"published_at"`

	// OTP fields, set only for EmailOTP events.
	OTPCode    string `json:"otp_code,omitempty"`
	OTPPurpose string `json:"otp_purpose,omitempty"`
}
