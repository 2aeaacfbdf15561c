package utils

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// InvoiceReceiptData feeds the receipt email template.
type InvoiceReceiptData struct {
	InvoiceNumber string
	BranchName    string
	CustomerName  string
	Items         []InvoiceReceiptItem
	Subtotal      string
	Discount      string
	TotalPrice    string
	TotalPayment  string
	OnHold        bool
}

type InvoiceReceiptItem struct {
	Name     string
	Quantity int
	Subtotal string
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`
<h2>Invoice {{.InvoiceNumber}} - {{.BranchName}}</h2>
<p>Dear {{.CustomerName}},</p>
<p>Thank you for your purchase.</p>
<table border="1" cellpadding="4">
<tr><th>Item</th><th>Qty</th><th>Subtotal</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
{{end}}
</table>
<p>Subtotal: {{.Subtotal}}<br>
Discount: {{.Discount}}<br>
Total: {{.TotalPrice}}<br>
Paid: {{.TotalPayment}}</p>
{{if .OnHold}}<p>Your order is on hold pending lens fabrication. We will contact you when it is ready.</p>{{end}}
`))

// SendInvoiceReceiptEmail sends the receipt async so the request is not delayed.
func SendInvoiceReceiptEmail(to string, data InvoiceReceiptData) {
	go func() {
		var body bytes.Buffer
		if err := receiptTmpl.Execute(&body, data); err != nil {
			log.Printf("render receipt email: %v", err)
			return
		}

		host := os.Getenv("SMTP_HOST")
		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		username := os.Getenv("SMTP_USERNAME")
		password := os.Getenv("SMTP_PASSWORD")
		from := os.Getenv("SMTP_FROM")

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Invoice "+data.InvoiceNumber)
		m.SetBody("text/html", body.String())

		d := gomail.NewDialer(host, port, username, password)
		if err := d.DialAndSend(m); err != nil {
			log.Printf("send receipt email to %s: %v", to, err)
		}
	}()
}
