// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/vendor"
)

// Service renders and delivers transactional email. The "console" provider
// writes messages to the log, which is the development default; "smtp"
// delivers for real.
type Service struct {
	config    *config.Config
	log       *logrus.Logger
	templates map[Type]*template.Template
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	s := &Service{
		config:    cfg,
		log:       log,
		templates: make(map[Type]*template.Template),
	}
	s.templates[TypeOrderConfirmation] = template.Must(
		template.New(string(TypeOrderConfirmation)).Parse(orderConfirmationTemplate))
	s.templates[TypeVendorApplication] = template.Must(
		template.New(string(TypeVendorApplication)).Parse(vendorApplicationTemplate))
	return s
}

// Send delivers a message using the configured provider
func (s *Service) Send(msg *Message) error {
	switch s.config.Email.Provider {
	case "console":
		s.log.WithFields(logrus.Fields{
			"to":      msg.To,
			"subject": msg.Subject,
			"type":    msg.Type,
		}).Info("Email (console provider)")
		return nil
	case "smtp":
		return s.sendSMTP(msg)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Email.Provider)
	}
}

// orderConfirmationData is the template payload for order confirmations
type orderConfirmationData struct {
	templateData
	OrderNumber string
	OrderDate   string
	OrderTotal  string
	Items       []orderConfirmationLine
}

type orderConfirmationLine struct {
	Name     string
	Quantity int
	Total    string
}

// SendOrderConfirmation sends the post-checkout receipt
func (s *Service) SendOrderConfirmation(toEmail, toName string, o *order.Order) error {
	data := orderConfirmationData{
		templateData: s.baseData(toName),
		OrderNumber:  o.OrderNumber,
		OrderDate:    o.CreatedAt.Format("January 2, 2006"),
		OrderTotal:   formatCents(o.TotalAmount),
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, orderConfirmationLine{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Total:    formatCents(item.TotalPrice),
		})
	}

	htmlContent, err := s.render(TypeOrderConfirmation, data)
	if err != nil {
		return err
	}

	return s.Send(&Message{
		To:          []string{toEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
		HTMLContent: htmlContent,
		Type:        TypeOrderConfirmation,
	})
}

// vendorApplicationData is the template payload for application updates
type vendorApplicationData struct {
	templateData
	StoreName string
	Status    string
	Notes     string
}

// SendVendorApplicationUpdate notifies an applicant of an admin decision
func (s *Service) SendVendorApplicationUpdate(toEmail, storeName string, status vendor.ApplicationStatus, notes string) error {
	data := vendorApplicationData{
		templateData: s.baseData(storeName),
		StoreName:    storeName,
		Status:       string(status),
		Notes:        notes,
	}

	htmlContent, err := s.render(TypeVendorApplication, data)
	if err != nil {
		return err
	}

	return s.Send(&Message{
		To:          []string{toEmail},
		Subject:     fmt.Sprintf("Your vendor application is %s", status),
		HTMLContent: htmlContent,
		Type:        TypeVendorApplication,
	})
}

func (s *Service) baseData(userName string) templateData {
	return templateData{
		SiteName: s.config.Email.FromName,
		UserName: userName,
		Year:     time.Now().Year(),
	}
}

func (s *Service) render(t Type, data interface{}) (string, error) {
	tmpl, exists := s.templates[t]
	if !exists {
		return "", fmt.Errorf("template %s not found", t)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", t, err)
	}
	return buf.String(), nil
}

// formatCents renders an amount in cents as a dollar string
func formatCents(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">Thanks for your order!</h1>
        <p>Hello {{.UserName}},</p>
        <p>Your order <strong>{{.OrderNumber}}</strong> was placed on {{.OrderDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            {{range .Items}}
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #eee;">{{.Name}}</td>
                <td style="padding: 8px; border-bottom: 1px solid #eee;">x{{.Quantity}}</td>
                <td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">{{.Total}}</td>
            </tr>
            {{end}}
            <tr>
                <td colspan="2" style="padding: 8px;"><strong>Total</strong></td>
                <td style="padding: 8px; text-align: right;"><strong>{{.OrderTotal}}</strong></td>
            </tr>
        </table>
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`

const vendorApplicationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.SiteName}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">Vendor Application Update</h1>
        <p>Hello,</p>
        <p>Your application for <strong>{{.StoreName}}</strong> is now <strong>{{.Status}}</strong>.</p>
        {{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>{{end}}
        <p>Best regards,<br>{{.SiteName}} Team</p>
        <hr>
        <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
    </div>
</body>
</html>`
