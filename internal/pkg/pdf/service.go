// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// Service generates PDF invoices for orders
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// GenerateInvoice renders an order as a PDF invoice
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	data := InvoiceData{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         o,
		Total:         formatCents(o.TotalAmount),
		Company: CompanyInfo{
			Name:    s.config.Company.Name,
			Address: s.config.Company.Address,
			Email:   s.config.Company.Email,
			Website: s.config.Company.Website,
		},
	}
	for _, item := range o.Items {
		data.Lines = append(data.Lines, InvoiceLine{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    formatCents(item.Price),
			Total:    formatCents(item.TotalPrice),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *order.Order
	Lines         []InvoiceLine
	Total         string
	Company       CompanyInfo
}

// InvoiceLine is one formatted order line
type InvoiceLine struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

// CompanyInfo represents the marketplace operator on the invoice
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
	Website string
}

func formatCents(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 40px; }
        .company h2 { margin: 0 0 4px 0; }
        .meta { text-align: right; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th { text-align: left; border-bottom: 2px solid #333; padding: 8px; }
        td { padding: 8px; border-bottom: 1px solid #ddd; }
        .amount { text-align: right; }
        .total-row td { border-top: 2px solid #333; border-bottom: none; font-weight: bold; }
        .address { margin-top: 30px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company">
            <h2>{{.Company.Name}}</h2>
            <div>{{.Company.Address}}</div>
            <div>{{.Company.Email}}</div>
            <div>{{.Company.Website}}</div>
        </div>
        <div class="meta">
            <h1>INVOICE</h1>
            <div>{{.InvoiceNumber}}</div>
            <div>{{.InvoiceDate}}</div>
            <div>Order {{.Order.OrderNumber}}</div>
        </div>
    </div>
    <div class="address">
        <strong>Ship to</strong><br>
        {{.Order.ShippingAddress.FullName}}<br>
        {{.Order.ShippingAddress.AddressLine1}}<br>
        {{if .Order.ShippingAddress.AddressLine2}}{{.Order.ShippingAddress.AddressLine2}}<br>{{end}}
        {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}<br>
        {{.Order.ShippingAddress.Country}}
    </div>
    <table>
        <tr><th>Item</th><th>Qty</th><th class="amount">Unit</th><th class="amount">Total</th></tr>
        {{range .Lines}}
        <tr>
            <td>{{.Name}}</td>
            <td>{{.Quantity}}</td>
            <td class="amount">{{.Price}}</td>
            <td class="amount">{{.Total}}</td>
        </tr>
        {{end}}
        <tr class="total-row">
            <td colspan="3">Total</td>
            <td class="amount">{{.Total}}</td>
        </tr>
    </table>
</body>
</html>`
