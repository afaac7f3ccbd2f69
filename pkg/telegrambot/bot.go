package telegrambot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"goaround-bot/internal/commands"
	"goaround-bot/internal/handlers"
	"goaround-bot/internal/i18n"
	"goaround-bot/internal/models"
)

// EventHandler consumes normalized updates
type EventHandler interface {
	Handle(ctx context.Context, ev handlers.Event) error
}

// LanguageSource returns the interface language of a user
type LanguageSource interface {
	GetLanguage(ctx context.Context, userID int64) (models.Language, error)
}

// Bot represents a Telegram bot. It turns updates into events and renders views.
type Bot struct {
	bot       *telebot.Bot
	ctx       context.Context
	bundle    *i18n.Bundle
	languages LanguageSource
	logger    *logrus.Logger
}

// NewBot creates a new Telegram bot
func NewBot(token string, bundle *i18n.Bundle, languages LanguageSource, logger *logrus.Logger) (*Bot, error) {
	bot := &Bot{ctx: context.Background(), bundle: bundle, languages: languages, logger: logger}

	// Create bot settings
	settings := telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			logger.Errorf("Telegram bot error: %v", err)
			if c == nil || c.Sender() == nil {
				return
			}
			if sendErr := c.Send(bot.errorText(c.Sender().ID)); sendErr != nil {
				logger.Warnf("Failed to report error to user %d: %v", c.Sender().ID, sendErr)
			}
		},
	}

	// Create bot instance
	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	bot.bot = b

	return bot, nil
}

// errorText returns the generic failure reply in the user's language
func (b *Bot) errorText(userID int64) string {
	lang, err := b.languages.GetLanguage(b.ctx, userID)
	if err != nil {
		b.logger.Warnf("Failed to read language of user %d: %v", userID, err)
		lang = models.DefaultLanguage
	}
	return b.bundle.Get(lang, "ErrorOccurred")
}

// RegisterCommands publishes the slash command menu in every interface language
func (b *Bot) RegisterCommands() error {
	bundle := b.bundle
	describe := func(lang models.Language) []telebot.Command {
		cmds := make([]telebot.Command, 0, len(commands.SlashCommands))
		for _, cmd := range commands.SlashCommands {
			cmds = append(cmds, telebot.Command{
				Text:        strings.TrimPrefix(cmd.Command, "/"),
				Description: bundle.Get(lang, cmd.Description),
			})
		}
		return cmds
	}

	if err := b.bot.SetCommands(describe(models.English)); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	for _, lang := range models.Languages {
		if err := b.bot.SetCommands(describe(lang), lang.Code()); err != nil {
			return fmt.Errorf("failed to register %s commands: %w", lang, err)
		}
	}
	return nil
}

// Start routes updates to handler until ctx is cancelled
func (b *Bot) Start(ctx context.Context, handler EventHandler) error {
	b.logger.Info("Starting Telegram bot")
	b.ctx = ctx

	b.setupMiddleware(handler)

	// Setup context for graceful shutdown
	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram bot")
		b.bot.Stop()
	}()

	// Start the bot
	b.bot.Start()
	return nil
}

// setupMiddleware sets up the bot middleware and update handlers
func (b *Bot) setupMiddleware(handler EventHandler) {
	// Add middleware for all updates
	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender() == nil || c.Chat() == nil {
				return nil
			}
			b.logger.Debugf("Received update from %d: %s", c.Sender().ID, c.Text())
			return next(c)
		}
	})

	b.bot.Handle(telebot.OnText, func(c telebot.Context) error {
		return b.dispatch(c, handler, handlers.Event{Kind: handlers.EventText, Text: c.Text()})
	})

	b.bot.Handle(telebot.OnLocation, func(c telebot.Context) error {
		location := c.Message().Location
		return b.dispatch(c, handler, handlers.Event{
			Kind: handlers.EventLocation,
			Location: &models.LatLng{
				Latitude:  float64(location.Lat),
				Longitude: float64(location.Lng),
			},
		})
	})

	b.bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		callback := c.Callback()
		ev := handlers.Event{
			Kind:         handlers.EventCallback,
			CallbackData: strings.TrimSpace(strings.TrimPrefix(callback.Data, "\f")),
		}
		if callback.Message != nil {
			ev.MessageID = callback.Message.ID
		}

		err := b.dispatch(c, handler, ev)
		if respondErr := c.Respond(); respondErr != nil {
			b.logger.Warnf("Failed to answer callback: %v", respondErr)
		}
		return err
	})
}

// dispatch fills in the sender of an event and hands it over
func (b *Bot) dispatch(c telebot.Context, handler EventHandler, ev handlers.Event) error {
	ev.UserID = c.Sender().ID
	ev.ChatID = c.Chat().ID
	return handler.Handle(b.ctx, ev)
}

// Send posts a new message and returns its ID
func (b *Bot) Send(_ context.Context, chatID int64, view handlers.View) (int, error) {
	msg, err := b.bot.Send(telebot.ChatID(chatID), content(view), sendOptions(view))
	if err != nil {
		b.logger.Errorf("Failed to send message: %v", err)
		return 0, err
	}
	return msg.ID, nil
}

// Edit replaces a message in place. A message that cannot take the new content is
// deleted and the view is sent again.
func (b *Bot) Edit(ctx context.Context, chatID int64, messageID int, view handlers.View) (int, error) {
	stored := &telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}

	msg, err := b.bot.Edit(stored, content(view), sendOptions(view))
	if err == nil {
		return msg.ID, nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return messageID, nil
	}

	b.logger.Warnf("Failed to edit message %d, sending a new one: %v", messageID, err)
	if err := b.Delete(ctx, chatID, messageID); err != nil {
		b.logger.Warnf("Failed to delete message %d: %v", messageID, err)
	}
	return b.Send(ctx, chatID, view)
}

// Delete removes a message
func (b *Bot) Delete(_ context.Context, chatID int64, messageID int) error {
	return b.bot.Delete(&telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID})
}

// content returns the text or the captioned photo of a view
func content(view handlers.View) interface{} {
	if view.Photo == nil {
		return view.Text
	}

	photo := &telebot.Photo{Caption: view.Text}
	if len(view.Photo.Data) > 0 {
		photo.File = telebot.FromReader(bytes.NewReader(view.Photo.Data))
	} else {
		photo.File = telebot.FromURL(view.Photo.URL)
	}
	return photo
}

func sendOptions(view handlers.View) *telebot.SendOptions {
	opts := &telebot.SendOptions{
		ParseMode:             telebot.ModeHTML,
		DisableWebPagePreview: true,
	}
	if markup := createMarkup(view); markup != nil {
		opts.ReplyMarkup = markup
	}
	return opts
}

// createMarkup builds the keyboard of a view
func createMarkup(view handlers.View) *telebot.ReplyMarkup {
	switch {
	case len(view.Reply) > 0:
		markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
		rows := make([]telebot.Row, 0, len(view.Reply))
		for _, buttons := range view.Reply {
			row := make(telebot.Row, 0, len(buttons))
			for _, button := range buttons {
				row = append(row, telebot.Btn{Text: button.Text, Location: button.RequestLocation})
			}
			rows = append(rows, row)
		}
		markup.Reply(rows...)
		return markup

	case view.RemoveReply:
		return &telebot.ReplyMarkup{RemoveKeyboard: true}

	case len(view.Inline) > 0:
		markup := &telebot.ReplyMarkup{}
		rows := make([]telebot.Row, 0, len(view.Inline))
		for _, buttons := range view.Inline {
			row := make(telebot.Row, 0, len(buttons))
			for _, button := range buttons {
				row = append(row, telebot.Btn{Text: button.Text, Data: button.Data, URL: button.URL})
			}
			rows = append(rows, row)
		}
		markup.Inline(rows...)
		return markup
	}
	return nil
}
