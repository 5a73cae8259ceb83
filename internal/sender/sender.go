// internal/sender/sender.go
package sender

import "context"

// The outbound transports are injected capabilities so the dispatch engine
// and its tests never construct a real transport themselves.

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

type SmsSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

type PushSender interface {
	SendPush(ctx context.Context, recipientID int, title, body string) error
}

// Registry bundles one adapter per channel.
type Registry struct {
	Email EmailSender
	SMS   SmsSender
	Push  PushSender
}
