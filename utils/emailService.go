package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"zbank/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers email. The concrete transport (SendGrid or plain SMTP) is
// chosen from configuration; tests swap in a stub.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// ActiveMailer is the process-wide mail transport
var ActiveMailer Mailer

// InitMailer selects the mail transport from configuration
func InitMailer() {
	if config.AppConfig.SendGridAPIKey != "" {
		ActiveMailer = &sendGridMailer{apiKey: config.AppConfig.SendGridAPIKey}
		return
	}
	ActiveMailer = &smtpMailer{}
}

type sendGridMailer struct {
	apiKey string
}

func (m *sendGridMailer) Send(to []string, subject, htmlBody string) error {
	from := sgmail.NewEmail("ZBank", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(m.apiKey)

	for _, rcpt := range to {
		message := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", rcpt), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			fmt.Println("Error sending email:", err)
			return err
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("sendgrid rejected message, code: %d", resp.StatusCode)
		}
	}
	return nil
}

type smtpMailer struct{}

func (m *smtpMailer) Send(to []string, subject, htmlBody string) error {
	smtpHost := config.AppConfig.SMTPHost
	smtpPort := config.AppConfig.SMTPPort

	from := config.AppConfig.EmailSender
	password := config.AppConfig.EmailPassword

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: ZBank <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendEmail delivers through the active transport
func SendEmail(to []string, subject, htmlBody string) error {
	if ActiveMailer == nil {
		InitMailer()
	}
	return ActiveMailer.Send(to, subject, htmlBody)
}

// getEmailTemplate wraps body content in the ZBank house layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #2563eb; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1f2937; line-height: 1.6; }
			.content h2 { color: #1f2937; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2563eb; margin: 20px 0; }
			.otp-code { text-align: center; color: #2563eb; font-size: 40px; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ZBANK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 ZBank. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendOTPEmail delivers a one-time code. Unlike the notification triggers this
// is synchronous: generation must fail if the code cannot be dispatched.
func SendOTPEmail(email, otp string, purpose string) error {
	subject := "Your ZBank verification code"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) for %s is:</p>
		<h1 class="otp-code">%s</h1>
		<p>This code expires in 5 minutes. Do not share it with anyone.</p>
	`, purpose, otp)

	return SendEmail([]string{email}, subject, getEmailTemplate("OTP Verification", body))
}

// SendWelcomeEmail greets a freshly registered user
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to ZBank!"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for joining <strong>ZBank</strong>. Your account has been successfully created.</p>
		<p>You can now:</p>
		<ul>
			<li>Create virtual and physical cards</li>
			<li>Make secure payments</li>
			<li>Transfer money to other users</li>
			<li>Monitor your transactions</li>
		</ul>
		<p>If you have any questions, please don't hesitate to contact our support team.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendTransactionEmail notifies a user about a processed transaction
func SendTransactionEmail(email, name, transactionType string, amount float64, cardNumber string) {
	subject := "Transaction Notification - " + transactionType
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A transaction has been processed on your ZBank account:</p>
		<div class="info-box">
			<p><strong>Transaction Type:</strong> %s</p>
			<p><strong>Amount:</strong> $%.2f</p>
			<p><strong>Card:</strong> %s</p>
			<p><strong>Date:</strong> %s</p>
		</div>
		<p>If you did not authorize this transaction, please contact our support team immediately.</p>
	`, name, transactionType, amount, MaskCardNumber(cardNumber), time.Now().Format("Jan 2, 2006 15:04:05"))

	go SendEmail([]string{email}, subject, getEmailTemplate("Transaction Notification", body))
}

// SendCardStatusEmail notifies a user that a card changed status
func SendCardStatusEmail(email, name, cardNumber, oldStatus, newStatus string) {
	subject := "Card Status Changed - " + cardNumber[len(cardNumber)-4:]
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your card status has been updated:</p>
		<div class="info-box">
			<p><strong>Card:</strong> %s</p>
			<p><strong>Previous Status:</strong> %s</p>
			<p><strong>New Status:</strong> %s</p>
		</div>
		<p>If you have any questions about this change, please contact our support team.</p>
	`, name, MaskCardNumber(cardNumber), oldStatus, newStatus)

	go SendEmail([]string{email}, subject, getEmailTemplate("Card Status Update", body))
}
