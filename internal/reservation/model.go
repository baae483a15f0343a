package reservation

import "time"

// DateLayout is the format of the form's date field.
const DateLayout = "2006-01-02"

// Request is the reservation form exactly as typed. SubmissionID identifies
// one filled-in form; resubmitting it after a failure records the same
// reservation instead of a new one.
type Request struct {
	SubmissionID string `json:"submissionId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Guests  string `json:"guests"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// Reservation is an accepted request.
type Reservation struct {
	ID          string    `json:"reservationId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Guests      int       `json:"guests"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
