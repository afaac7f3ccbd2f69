package handlers

import (
	"context"

	"goaround-bot/internal/models"
)

// EventKind tells what a user sent
type EventKind int

const (
	// EventText is a text message, slash commands included
	EventText EventKind = iota
	// EventLocation is a shared location pin
	EventLocation
	// EventCallback is an inline button press
	EventCallback
)

// Event is a normalized inbound update
type Event struct {
	UserID   int64
	ChatID   int64
	Kind     EventKind
	Text     string
	Location *models.LatLng
	// CallbackData is the data of the pressed button
	CallbackData string
	// MessageID is the message carrying the pressed button
	MessageID int
}

// Button is an inline keyboard button opening a callback or a link
type Button struct {
	Text string
	Data string
	URL  string
}

// ReplyButton is a reply keyboard button
type ReplyButton struct {
	Text            string
	RequestLocation bool
}

// Photo is an image attached to a view, either downloaded bytes or a public URL
type Photo struct {
	Data []byte
	URL  string
}

// View is one message the bot renders
type View struct {
	Text        string
	Inline      [][]Button
	Reply       [][]ReplyButton
	RemoveReply bool
	Photo       *Photo
}

// Renderer delivers views to a chat
type Renderer interface {
	// Send posts a new message and returns its ID
	Send(ctx context.Context, chatID int64, view View) (int, error)
	// Edit replaces a message, falling back to delete and resend; it returns the resulting message ID
	Edit(ctx context.Context, chatID int64, messageID int, view View) (int, error)
	// Delete removes a message
	Delete(ctx context.Context, chatID int64, messageID int) error
}

// PhotoFetcher downloads place photos
type PhotoFetcher interface {
	FetchPhoto(ctx context.Context, name string) ([]byte, error)
}
