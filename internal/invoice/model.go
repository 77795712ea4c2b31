package invoice

import "time"

type Invoice struct {
	ID          uint      `json:"id"`
	OrderID     uint      `json:"order_id"`
	InvoiceNo   string    `json:"invoice_no"`
	InvoiceDate time.Time `json:"invoice_date"`
	PDFPath     string    `json:"pdf_path"`
	Status      string    `json:"status"`
}
