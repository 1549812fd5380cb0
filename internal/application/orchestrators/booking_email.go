package orchestrators

import (
	"html/template"
	"strings"

	"repairshop/internal/domain/appointment"
)

var bookingEmailTmpl = template.Must(template.New("booking").Parse(`<h2>{{.Heading}}</h2>
<table>
<tr><th align="left">Customer</th><td>{{.A.CustomerName}}</td></tr>
<tr><th align="left">Phone</th><td>{{.A.PhoneNumber}}</td></tr>
<tr><th align="left">Address</th><td>{{.A.Address}}</td></tr>
<tr><th align="left">Device</th><td>{{.A.Device}}</td></tr>
<tr><th align="left">Problem</th><td>{{.A.Problem}}</td></tr>
<tr><th align="left">When</th><td>{{.A.FormattedDateTime}}</td></tr>
<tr><th align="left">Status</th><td>{{.A.Status}}</td></tr>
<tr><th align="left">Token</th><td>{{.A.Token}}</td></tr>
</table>`))

// renderBookingEmail builds the HTML body of the shop notification.
// Customer-supplied fields are escaped by html/template.
func renderBookingEmail(heading string, a appointment.Appointment) string {
	var b strings.Builder
	if err := bookingEmailTmpl.Execute(&b, struct {
		Heading string
		A       appointment.Appointment
	}{heading, a}); err != nil {
		return heading
	}
	return b.String()
}
