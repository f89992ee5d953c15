// Package messenger delivers proactive WhatsApp messages. Delivery is
// best-effort: the connect flow never fails because a notification did not
// go out.
package messenger

import "context"

type Sender interface {
	Send(ctx context.Context, to, body string) error
	SendMedia(ctx context.Context, to, body, mediaURL string) error
}
