package reporter

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-career-copilot/internal/scraper"
)

// TelegramReporter pushes run summaries and recommended matches to a chat.
// Entirely optional; the pipeline runs fine without it.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendJob(job scraper.JobPosting) error {
	salary := job.SalaryRaw
	if salary == "" {
		salary = "Not listed"
	}
	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📍 %s\n"+
			"💰 %s\n"+
			"🤖 Match Score: %d/100\n"+
			"🔗 <a href=\"%s\">View Job</a>",
		html.EscapeString(job.Title),
		html.EscapeString(job.Company),
		html.EscapeString(job.Location),
		html.EscapeString(salary),
		job.Match.Score,
		job.URL,
	)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendSummary(user string, scraped, eligible, recommended int) error {
	return t.SendMessage(fmt.Sprintf(
		"✅ <b>Run finished for %s</b>\nScraped: %d\nEligible: %d\nRecommended: %d",
		html.EscapeString(user), scraped, eligible, recommended))
}

func (t *TelegramReporter) SendError(errReq error) error {
	return t.SendMessage(fmt.Sprintf("⚠️ <b>CareerCopilot Error</b>:\n%v", errReq))
}
