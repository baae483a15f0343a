package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/reservation"
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldGuests
	fieldDate
	fieldTime
	fieldMessage
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldName:    "Name*",
	fieldEmail:   "Email*",
	fieldPhone:   "Phone",
	fieldGuests:  "Guests*",
	fieldDate:    "Date*",
	fieldTime:    "Time*",
	fieldMessage: "Message",
}

// reservationForm is the reservation panel's input state. submissionID stays
// the same across retries until the form is reset.
type reservationForm struct {
	inputs       [fieldCount]textinput.Model
	focus        int
	minDate      string
	submissionID string
}

func newReservationForm(minDate string) *reservationForm {
	f := &reservationForm{minDate: minDate, submissionID: uuid.NewString()}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 120
		switch i {
		case fieldGuests:
			in.Placeholder = "1-20"
			in.CharLimit = 3
		case fieldDate:
			in.Placeholder = minDate + " or later"
			in.CharLimit = 10
		case fieldTime:
			in.Placeholder = "19:30"
			in.CharLimit = 5
		case fieldEmail:
			in.Placeholder = "you@example.com"
		}
		f.inputs[i] = in
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *reservationForm) request() reservation.Request {
	return reservation.Request{
		SubmissionID: f.submissionID,
		Name:         f.inputs[fieldName].Value(),
		Email:        f.inputs[fieldEmail].Value(),
		Phone:        f.inputs[fieldPhone].Value(),
		Guests:       f.inputs[fieldGuests].Value(),
		Date:         f.inputs[fieldDate].Value(),
		Time:         f.inputs[fieldTime].Value(),
		Message:      f.inputs[fieldMessage].Value(),
	}
}

func (f *reservationForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *reservationForm) next() { f.setFocus(f.focus + 1) }
func (f *reservationForm) prev() { f.setFocus(f.focus - 1) }

func (f *reservationForm) onLastField() bool {
	return f.focus == fieldCount-1
}

func (f *reservationForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.submissionID = uuid.NewString()
	f.setFocus(fieldName)
}

func (f *reservationForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *reservationForm) view() string {
	var b strings.Builder
	for i := range f.inputs {
		cursor := "  "
		if i == f.focus {
			cursor = "> "
		}
		b.WriteString(cursor)
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}
