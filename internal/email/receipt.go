package email

import "fmt"

// PaymentReceipt renders the subject and plain-text body for a payment
// confirmation receipt.
func PaymentReceipt(orderID int64, amountCents int64, method string) (subject, body string) {
	subject = fmt.Sprintf("Payment received for order #%d", orderID)
	body = fmt.Sprintf(
		"Thank you!\n\nWe received your %s payment of $%.2f for order #%d.\n"+
			"Your court bookings are now confirmed.\n",
		method, float64(amountCents)/100, orderID,
	)
	return subject, body
}
