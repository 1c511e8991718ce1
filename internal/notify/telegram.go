package notify

import (
	"fmt"
	"strings"

	"go-jobscraper/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot posts run results to a Telegram chat. Construction is optional:
// commands only build one when a token is configured.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendJob announces one newly discovered listing.
func (b *Bot) SendJob(job models.Job) error {
	msgText := fmt.Sprintf("🏢 *%s*\n", b.escapeMarkdown(job.Company))
	msgText += fmt.Sprintf("💼 %s\n", b.escapeMarkdown(job.Title))

	if job.SalaryDescription != "" {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(job.SalaryDescription))
	}

	loc := job.Location
	if loc == "" {
		loc = "N/A"
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(loc))

	if job.DatePosted != "" {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(job.DatePosted))
	}

	if job.JobClass != "" {
		msgText += fmt.Sprintf("🗂 %s\n", b.escapeMarkdown(job.JobClass))
	}

	msgText += fmt.Sprintf("🔖 Source: %s\n", b.escapeMarkdown(job.Source))

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"

	_, err := b.api.Send(msg)
	return err
}

// SendRunSummary reports the aggregate outcome of a detail-scrape run.
func (b *Bot) SendRunSummary(success, failure int) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf(
		"ℹ️ Detail scrape finished. Processed: %d, Success: %d, Failure: %d",
		success+failure, success, failure))
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}
