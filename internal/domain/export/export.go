package export

import "repairshop/internal/domain/appointment"

// File metadata for the appointment spreadsheet download.
const (
	Filename    = "appointments.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName   = "Appointments"
)

// Header is the column order of the exported sheet.
var Header = []string{
	"Customer Name",
	"Phone Number",
	"Address",
	"Device",
	"Problem",
	"Appointment Date",
	"Status",
	"Token Number",
}

// Row is one appointment flattened for the spreadsheet.
type Row struct {
	CustomerName    string
	PhoneNumber     string
	Address         string
	Device          string
	Problem         string
	AppointmentDate string
	Status          string
	Token           string
}

// Cells returns the row values in Header order.
func (r Row) Cells() []string {
	return []string{r.CustomerName, r.PhoneNumber, r.Address, r.Device, r.Problem, r.AppointmentDate, r.Status, r.Token}
}

// RowFor flattens an appointment. The date uses the dd-mm-yyyy hh:mm AM/PM display format.
func RowFor(a appointment.Appointment) Row {
	return Row{
		CustomerName:    a.CustomerName,
		PhoneNumber:     a.PhoneNumber,
		Address:         a.Address,
		Device:          a.Device,
		Problem:         a.Problem,
		AppointmentDate: a.FormattedDateTime(),
		Status:          a.Status,
		Token:           a.Token,
	}
}

// Rows flattens a slice of appointments preserving order.
func Rows(list []appointment.Appointment) []Row {
	rows := make([]Row, 0, len(list))
	for _, a := range list {
		rows = append(rows, RowFor(a))
	}
	return rows
}
