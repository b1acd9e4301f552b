package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/banquethub/banquethub-backend/internal/config"
)

const companyName = "BanquetHub Limited"

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #8e44ad; margin: 0;">BanquetHub</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 BanquetHub Limited. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

// Mailer sends notification emails. All sends are best-effort; callers
// log failures and never fail the request over them.
type Mailer struct {
	cfg config.EmailConfig
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) sendEmail(to []string, subject, body string) error {
	if m.cfg.From == "" || m.cfg.Password == "" || m.cfg.SMTPHost == "" || m.cfg.SMTPPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, m.cfg.From)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "BanquetHub-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.SMTPHost)

	err := smtp.SendMail(m.cfg.SMTPHost+":"+m.cfg.SMTPPort, auth, m.cfg.From, to, []byte(message))
	if err != nil {
		logrus.WithError(err).Warn("failed to send email")
		return err
	}

	logrus.WithField("recipients", to).Info("email sent")
	return nil
}

// SendBookingCreatedEmail notifies the vendor about a new booking.
func (m *Mailer) SendBookingCreatedEmail(vendorEmail, venueName string, guestCount int, total float64) error {
	subject := "New Booking Request - BanquetHub"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Booking Request</h1>
					<p>Hello,</p>
					<p>You have received a new booking request for <strong>%s</strong> (%d guests, total %.2f).</p>
					<p>Please log in to your BanquetHub account to confirm or cancel this booking.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/login" style="background-color: #8e44ad; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Login to BanquetHub</a>
					</div>
					<p>Best regards,<br>The BanquetHub Team</p>
				</div>`+emailFooter,
		venueName, guestCount, total, m.cfg.BaseURL)

	return m.sendEmail([]string{vendorEmail}, subject, body)
}

// SendBookingStatusEmail notifies the customer about a status change.
func (m *Mailer) SendBookingStatusEmail(userEmail, venueName, status string) error {
	subject := fmt.Sprintf("Booking %s - BanquetHub", status)
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Booking Update</h1>
					<p>Hello,</p>
					<p>Your booking for <strong>%s</strong> is now <strong>%s</strong>.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/bookings" style="background-color: #8e44ad; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Your Bookings</a>
					</div>
					<p>Best regards,<br>The BanquetHub Team</p>
				</div>`+emailFooter,
		venueName, status, m.cfg.BaseURL)

	return m.sendEmail([]string{userEmail}, subject, body)
}

// SendQuoteSentEmail notifies a user about a new quote.
func (m *Mailer) SendQuoteSentEmail(userEmail, quoteNumber string, total float64) error {
	subject := "New Quote Received - BanquetHub"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">New Quote</h1>
					<p>Hello,</p>
					<p>You have received quote <strong>%s</strong> for a total of <strong>%.2f</strong>.</p>
					<p>Review it in your account to accept or reject it before it expires.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/quotes" style="background-color: #8e44ad; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Quote</a>
					</div>
					<p>Best regards,<br>The BanquetHub Team</p>
				</div>`+emailFooter,
		quoteNumber, total, m.cfg.BaseURL)

	return m.sendEmail([]string{userEmail}, subject, body)
}

// SendInvoiceIssuedEmail notifies a user about a new invoice.
func (m *Mailer) SendInvoiceIssuedEmail(userEmail, invoiceNumber string, total float64, dueDate string) error {
	subject := "Invoice Issued - BanquetHub"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Invoice Issued</h1>
					<p>Hello,</p>
					<p>Invoice <strong>%s</strong> for <strong>%.2f</strong> has been issued. Payment is due by <strong>%s</strong>.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/invoices" style="background-color: #8e44ad; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Invoice</a>
					</div>
					<p>Best regards,<br>The BanquetHub Team</p>
				</div>`+emailFooter,
		invoiceNumber, total, dueDate, m.cfg.BaseURL)

	return m.sendEmail([]string{userEmail}, subject, body)
}

// SendGenericNotificationEmail delivers an admin-triggered message.
func (m *Mailer) SendGenericNotificationEmail(userEmail, subject, message string) error {
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">%s</h1>
					<p>%s</p>
					<p>Best regards,<br>The BanquetHub Team</p>
				</div>`+emailFooter,
		subject, message)

	return m.sendEmail([]string{userEmail}, "BanquetHub - "+subject, body)
}
