package queue

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// Notifier delivers a composed message to a recipient. Swapping the
// implementation changes the channel (SMTP, console, something else) without
// touching the worker.
type Notifier interface {
	Notify(recipient, subject, body string) error
}

// ConsoleNotifier logs instead of sending; the fallback when SMTP is not
// configured.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Notify(recipient, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q\n%s", recipient, subject, body)
	return nil
}

// SMTPNotifier sends plain-text mail over a configured SMTP relay.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// NotifierFromEnv returns an SMTP notifier when SMTP_HOST is set, otherwise
// the console fallback.
func NotifierFromEnv() Notifier {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		log.Println("mail: SMTP_HOST not set, using console notifier")
		return ConsoleNotifier{}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &SMTPNotifier{
		Host: host,
		Port: port,
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: from,
	}
}

func (n *SMTPNotifier) Notify(recipient, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if n.User != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}
	addr := n.Host + ":" + n.Port
	if err := smtp.SendMail(addr, auth, n.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// composeEmail builds the subject and body for one event kind.
func composeEmail(ev BookingEmailEvent) (string, string) {
	switch ev.Kind {
	case EmailReservation:
		subject := "Your booking is reserved"
		lines := []string{
			fmt.Sprintf("Good news! Your booking for %s has been reserved.", ev.PropertyName),
			"",
			fmt.Sprintf("Reference: %s", ev.ReferenceCode),
			fmt.Sprintf("Check-in:  %s", ev.CheckInDate),
			fmt.Sprintf("Check-out: %s", ev.CheckOutDate),
			fmt.Sprintf("Total:     %.2f", ev.TotalPrice),
		}
		if ev.DownPayment != nil {
			lines = append(lines, fmt.Sprintf("Down payment received: %.2f", *ev.DownPayment))
		}
		lines = append(lines, "", "We look forward to welcoming you.")
		return subject, strings.Join(lines, "\n")
	case EmailRejection:
		subject := "Your booking was not approved"
		reason := ev.Reason
		if reason == "" {
			reason = "No reason provided"
		}
		body := strings.Join([]string{
			fmt.Sprintf("We're sorry, your booking for %s was rejected.", ev.PropertyName),
			"",
			fmt.Sprintf("Reference: %s", ev.ReferenceCode),
			fmt.Sprintf("Reason:    %s", reason),
			"",
			"You are welcome to submit a new booking for different dates.",
		}, "\n")
		return subject, body
	case EmailOTP:
		subject := "Your verification code"
		if ev.OTPPurpose == "password_reset" {
			subject = "Your password reset code"
		}
		body := strings.Join([]string{
			fmt.Sprintf("Your one-time code is: %s", ev.OTPCode),
			"",
			"The code expires in 2 minutes. If you did not request it, ignore this email.",
		}, "\n")
		return subject, body
	default:
		return "Booking update", fmt.Sprintf("Your booking %s is now %s.", ev.ReferenceCode, ev.Status)
	}
}
