package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"srt-translator/internal/logger"
	"srt-translator/internal/subtitle"
	"srt-translator/internal/translate"
	"srt-translator/models"
)

// maxFileSize caps subtitle uploads. SRT files are text; anything this
// large is not a subtitle file.
const maxFileSize = 10 << 20

const helpText = `Subtitle Translation Bot

Send me a .srt file and pick a target language.

Commands:
/start - show this message
/help - help and instructions
/langs - list supported language codes
/translate <code> - translate the uploaded file

Example: send a .srt file, then reply with /translate es`

// formatLanguageList renders the /langs reply.
func formatLanguageList() string {
	var builder strings.Builder
	builder.WriteString("Supported languages:\n\n")
	for _, code := range translate.SupportedCodes() {
		fmt.Fprintf(&builder, "%s - %s\n", code, translate.LanguageName(code))
	}
	return builder.String()
}

// isSubtitleFile reports whether an uploaded document looks like an SRT file.
func isSubtitleFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".srt")
}

// handleDocument downloads an uploaded .srt file and stores it as the
// chat's pending file. Other document types are ignored.
func (b *Bot) handleDocument(msg *tgbotapi.Message) {
	doc := msg.Document
	if !isSubtitleFile(doc.FileName) {
		return
	}
	if doc.FileSize > maxFileSize {
		b.reply(msg.Chat.ID, "That file is too large for a subtitle file.")
		return
	}

	data, err := b.downloadFile(doc.FileID)
	if err != nil {
		logger.Error("failed to download %s from chat %d: %v", doc.FileName, msg.Chat.ID, err)
		b.reply(msg.Chat.ID, "Could not download the file. Please try sending it again.")
		return
	}

	b.sessions.Put(msg.Chat.ID, doc.FileName, data)
	logger.Info("stored %s (%d bytes) for chat %d", doc.FileName, len(data), msg.Chat.ID)

	b.reply(msg.Chat.ID,
		"File received. Reply with /translate followed by a language code.\n"+
			"Example: /translate es\n\n"+
			"Use /langs to see available languages.")
}

// downloadFile fetches a document's bytes through the Bot API file link.
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}

	resp, err := b.downloader.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
}

// handleTranslate validates the request and runs one translation job.
func (b *Bot) handleTranslate(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(chatID, "Please specify a target language. Example: /translate es")
		return
	}

	lang := strings.ToLower(args[0])
	if !translate.IsSupported(lang) {
		b.reply(chatID, fmt.Sprintf("Unknown language code %q. Use /langs to see the options.", lang))
		return
	}

	fileName, data, ok := b.sessions.Get(chatID)
	if !ok {
		b.reply(chatID, "Send me a .srt file first.")
		return
	}

	b.reply(chatID, fmt.Sprintf("Translating to %s...", translate.LanguageName(lang)))
	b.runJob(ctx, chatID, fileName, data, lang)
}

// runJob decodes, translates and re-encodes one pending file, then replies
// with the translated document.
func (b *Bot) runJob(ctx context.Context, chatID int64, fileName string, data []byte, lang string) {
	job := models.NewTranslationJob(chatID, fileName, lang)
	job.SourceLang = b.cfg.DefaultSourceLang
	logger.Info("job %s: %s -> %s for chat %d", job.ID, fileName, lang, chatID)

	records, err := subtitle.Decode(data)
	if err != nil {
		job.Fail(err)
		if errors.Is(err, subtitle.ErrNoRecords) {
			b.reply(chatID, "I couldn't find any subtitle entries in that file, so there is nothing to translate.")
		} else {
			b.reply(chatID, "That file doesn't look like a valid .srt subtitle file.")
		}
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, b.cfg.JobTimeout())
	defer cancel()

	job.SetStatus(models.StatusTranslating)
	pipeline := translate.NewPipeline(b.translator, b.cfg.PipelineOptions())
	translated, err := pipeline.Run(jobCtx, records, lang, job.SourceLang)
	if err != nil {
		job.Fail(err)
		logger.Error("job %s failed: %v", job.ID, err)
		b.reply(chatID, "Translation failed. Please try again.")
		return
	}

	job.SetStatus(models.StatusEncoding)
	output := subtitle.Encode(translated)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  job.OutputFileName(),
		Bytes: output,
	})
	doc.Caption = fmt.Sprintf("Translated to %s", translate.LanguageName(lang))
	if _, err := b.api.Send(doc); err != nil {
		job.Fail(err)
		logger.Error("job %s: failed to send result: %v", job.ID, err)
		b.reply(chatID, "Translation finished but I couldn't send the file. Please try again.")
		return
	}

	job.Complete()
	logger.Info("job %s completed: %d records in %s", job.ID, len(translated), job.CompletedAt.Sub(job.CreatedAt))
}
