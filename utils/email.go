package utils

import (
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Notifier e-mails the merchant about new customization draft orders
type Notifier struct {
	From   *mail.Email
	To     *mail.Email
	client mailSender
}

// NewNotifier creates a SendGrid backed notifier
func NewNotifier(apiKey, toEmail string) *Notifier {
	return &Notifier{
		From:   mail.NewEmail("Print Labs", "no-reply@printlabs.app"),
		To:     mail.NewEmail("", toEmail),
		client: sendgrid.NewSendClient(apiKey),
	}
}

// DraftOrderCreated sends the invoice and design links for a new draft order
func (n *Notifier) DraftOrderCreated(shop, invoiceURL, designURL string) error {
	subject := fmt.Sprintf("New customization request on %s", shop)
	if designURL == "" {
		designURL = "none"
	}
	text := fmt.Sprintf("Invoice: %s\nDesign: %s\n", invoiceURL, designURL)
	htmlBody := fmt.Sprintf(`<p>Invoice: <a href="%s">%s</a></p><p>Design: %s</p>`,
		html.EscapeString(invoiceURL), html.EscapeString(invoiceURL), html.EscapeString(designURL))

	message := mail.NewSingleEmail(n.From, subject, n.To, text, htmlBody)
	response, err := n.client.Send(message)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}
