package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// BookingForm is the booking and reschedule submission.
type BookingForm struct {
	CustomerName    string `label:"Customer name" validate:"notblank,max=100"`
	PhoneNumber     string `label:"Phone number" validate:"notblank,max=20"`
	Address         string `label:"Address" validate:"notblank,max=200"`
	Device          string `label:"Device" validate:"notblank,max=100"`
	Problem         string `label:"Problem" validate:"notblank,max=200"`
	AppointmentDate string `label:"Appointment date" validate:"required"`
	RescheduleID    string `label:"Reschedule id" validate:"omitempty,number"`
}

// bookingFormFrom reads the form body. reschedule_id may also arrive in the query string.
func bookingFormFrom(r *http.Request) BookingForm {
	f := BookingForm{
		CustomerName:    r.PostFormValue("customer_name"),
		PhoneNumber:     r.PostFormValue("phone_number"),
		Address:         r.PostFormValue("address"),
		Device:          r.PostFormValue("device"),
		Problem:         r.PostFormValue("problem"),
		AppointmentDate: r.PostFormValue("appointment_date"),
		RescheduleID:    strings.TrimSpace(r.PostFormValue("reschedule_id")),
	}
	if f.RescheduleID == "" {
		f.RescheduleID = strings.TrimSpace(r.URL.Query().Get("reschedule_id"))
	}
	return f
}

// bookingFormFromQuery pre-fills the booking page.
func bookingFormFromQuery(r *http.Request) BookingForm {
	q := r.URL.Query()
	return BookingForm{
		CustomerName:    q.Get("customer_name"),
		PhoneNumber:     q.Get("phone_number"),
		Address:         q.Get("address"),
		Device:          q.Get("device"),
		Problem:         q.Get("problem"),
		AppointmentDate: q.Get("appointment_date"),
		RescheduleID:    q.Get("reschedule_id"),
	}
}

// rescheduleID returns 0 when the field is empty.
func (f BookingForm) rescheduleID() uint {
	id, err := strconv.ParseUint(f.RescheduleID, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// LoginForm is the admin credential submission.
type LoginForm struct {
	Username string `label:"Username" validate:"required,max=50"`
	Password string `label:"Password" validate:"required"`
}

// StatusForm is the admin status override.
type StatusForm struct {
	Status string `label:"Status" validate:"notblank,max=20"`
}

// SettingsForm is the daily limit update. Zero and negative limits are accepted.
type SettingsForm struct {
	DailyAppointmentLimit string `label:"Daily appointment limit" validate:"required,numeric"`
}

// limit parses the validated field, allowing a leading minus sign.
func (f SettingsForm) limit() (int, error) {
	return strconv.Atoi(strings.TrimSpace(f.DailyAppointmentLimit))
}

// validateForm returns a user-facing message for the first failing field, or "".
func validateForm(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s must be a whole number.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
