// Package bot wires the translation pipeline to the Telegram Bot API. It is
// thin glue: chat identities, commands and file delivery live here, while
// all subtitle and translation logic stays in internal/subtitle and
// internal/translate.
package bot

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"srt-translator/internal/httpclient"
	"srt-translator/internal/logger"
	"srt-translator/internal/translate"
	"srt-translator/models"
)

// Bot runs the Telegram front end of the subtitle translator.
type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *models.Config
	translator translate.Translator
	sessions   *SessionStore
	downloader *http.Client
}

// New creates a bot from the given configuration.
func New(cfg *models.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	translator, err := translate.NewTranslator(translate.Provider(cfg.TranslationProvider), cfg.OpenAIKey)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized as @%s (provider: %s)", api.Self.UserName, cfg.TranslationProvider)

	return &Bot{
		api:        api,
		cfg:        cfg,
		translator: translator,
		sessions:   NewSessionStore(),
		downloader: httpclient.NewDefault(),
	}, nil
}

// Run receives updates until the context is canceled, via webhook when a
// webhook URL is configured and long polling otherwise.
func (b *Bot) Run(ctx context.Context) error {
	if b.cfg.WebhookURL != "" {
		return b.runWebhook(ctx)
	}
	return b.runPolling(ctx)
}

func (b *Bot) runPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	logger.Info("starting long polling")
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) runWebhook(ctx context.Context) error {
	// The bot token doubles as the webhook path so only Telegram can guess it.
	path := "/" + b.api.Token
	wh, err := tgbotapi.NewWebhook(b.cfg.WebhookURL + path)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	updates := b.api.ListenForWebhook(path)
	server := &http.Server{Addr: fmt.Sprintf(":%d", b.cfg.ListenPort)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook listening on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return server.Shutdown(context.Background())
		case err := <-errCh:
			return fmt.Errorf("webhook server failed: %w", err)
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate routes one update. Each update runs in its own goroutine so
// a long translation job never blocks other chats.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case msg.Document != nil:
		b.handleDocument(msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "langs":
		b.reply(msg.Chat.ID, formatLanguageList())
	case "translate":
		b.handleTranslate(ctx, msg)
	}
}

// reply sends a plain text message, logging rather than propagating send
// failures: there is nobody above the handler to report them to.
func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(m); err != nil {
		logger.Error("failed to send message to chat %d: %v", chatID, err)
	}
}
