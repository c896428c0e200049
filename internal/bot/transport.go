package bot

import "context"

// Button is one inline keyboard choice; Data comes back as a callback event.
type Button struct {
	Text string
	Data string
}

// Transport delivers outbound artifacts to the chat platform. Tests inject a
// recording implementation.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]Button) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error
	SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error
	AnswerCallback(ctx context.Context, callbackID string) error
}
