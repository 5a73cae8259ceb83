// internal/sender/console.go
package sender

import (
	"context"
	"log"
)

// Console adapters log instead of delivering. They stand in for the real
// transports in local runs; production wiring swaps in real implementations.

type ConsoleEmailSender struct{}

func (ConsoleEmailSender) SendEmail(ctx context.Context, to, subject, html string) error {
	log.Printf("📧 email to=%s subject=%q (%d bytes)", to, subject, len(html))
	return nil
}

type ConsoleSmsSender struct{}

func (ConsoleSmsSender) SendSMS(ctx context.Context, to, text string) error {
	log.Printf("📱 sms to=%s (%d chars)", to, len(text))
	return nil
}

type ConsolePushSender struct{}

func (ConsolePushSender) SendPush(ctx context.Context, recipientID int, title, body string) error {
	log.Printf("🔔 push to recipient=%d title=%q", recipientID, title)
	return nil
}

// ConsoleRegistry returns a registry wired with the console adapters.
func ConsoleRegistry() Registry {
	return Registry{
		Email: ConsoleEmailSender{},
		SMS:   ConsoleSmsSender{},
		Push:  ConsolePushSender{},
	}
}
