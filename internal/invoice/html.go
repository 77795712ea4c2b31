package invoice

import (
	"bytes"
	"html/template"
)

// documentData is the flattened, pre-formatted view handed to the invoice
// template. All money values arrive as display strings.
type documentData struct {
	InvoiceNo   string
	InvoiceDate string

	OrderID       uint
	OrderDate     string
	PaymentID     string
	PaymentMethod string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	BillingAddress  string
	ShippingAddress string

	Items []documentItem

	Subtotal    string
	ShippingFee string
	Total       string
}

type documentItem struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	LineTotal string
}

var documentTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1f2933; margin: 40px; font-size: 13px; }
  h1 { font-size: 22px; letter-spacing: 1px; margin: 0; }
  .brand { color: #8a5a2b; }
  .head { display: flex; justify-content: space-between; border-bottom: 2px solid #8a5a2b; padding-bottom: 14px; }
  .meta { text-align: right; }
  .meta div { margin-bottom: 2px; }
  .parties { display: flex; justify-content: space-between; margin-top: 22px; }
  .parties h3 { font-size: 12px; text-transform: uppercase; color: #6b7280; margin-bottom: 6px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th { background: #f4efe9; text-align: left; padding: 8px; font-size: 12px; text-transform: uppercase; }
  td { padding: 8px; border-bottom: 1px solid #e5e7eb; vertical-align: top; }
  td.num, th.num { text-align: right; }
  .variant { color: #6b7280; font-size: 11px; }
  .totals { margin-top: 16px; margin-left: auto; width: 260px; }
  .totals td { border: none; padding: 4px 8px; }
  .totals .grand td { border-top: 2px solid #8a5a2b; font-weight: bold; font-size: 15px; }
  .footer { margin-top: 40px; color: #6b7280; font-size: 11px; text-align: center; }
</style>
</head>
<body>
  <div class="head">
    <div>
      <h1 class="brand">IndiaDoors</h1>
      <div>Tax Invoice</div>
    </div>
    <div class="meta">
      <div><strong>Invoice No:</strong> {{.InvoiceNo}}</div>
      <div><strong>Invoice Date:</strong> {{.InvoiceDate}}</div>
      <div><strong>Order:</strong> #{{.OrderID}} ({{.OrderDate}})</div>
      {{if .PaymentID}}<div><strong>Payment Ref:</strong> {{.PaymentID}}</div>{{end}}
      <div><strong>Payment Method:</strong> {{.PaymentMethod}}</div>
    </div>
  </div>

  <div class="parties">
    <div>
      <h3>Billed To</h3>
      <div>{{.CustomerName}}</div>
      {{if .CustomerPhone}}<div>{{.CustomerPhone}}</div>{{end}}
      {{if .CustomerEmail}}<div>{{.CustomerEmail}}</div>{{end}}
      <div>{{.BillingAddress}}</div>
    </div>
    <div>
      <h3>Shipped To</h3>
      <div>{{.ShippingAddress}}</div>
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>Item</th>
        <th class="num">Qty</th>
        <th class="num">Unit Price</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Name}}{{if .Variant}}<div class="variant">{{.Variant}}</div>{{end}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">&#8377;{{.UnitPrice}}</td>
        <td class="num">&#8377;{{.LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td class="num">&#8377;{{.Subtotal}}</td></tr>
    <tr><td>Shipping</td><td class="num">&#8377;{{.ShippingFee}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">&#8377;{{.Total}}</td></tr>
  </table>

  <div class="footer">
    This is a computer generated invoice and does not require a signature.
  </div>
</body>
</html>
`))

func renderDocument(data documentData) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
