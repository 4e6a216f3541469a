// internal/pkg/email/types.go
package email

// Type represents the kind of email being sent
type Type string

const (
	TypeOrderConfirmation Type = "order_confirmation"
	TypeVendorApplication Type = "vendor_application"
)

// Message represents an email ready for delivery
type Message struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
	Type        Type     `json:"type"`
}

// templateData carries the fields shared by all templates
type templateData struct {
	SiteName string
	UserName string
	Year     int
}
