package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/export"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

const helpText = `🍽 *Weekly Meal Planner*

/plan - generate a new weekly plan
/grocery - grocery checklist for the current plan
/save <name> - save the current plan
/saved - list saved plans
/export [png|html|markdown|json] - export the current plan
/clip <category> <url> - add a recipe page to the catalogue`

const adminHelpText = `

*Admin*
/sync - import recipes from Ghost
/publish - post the current saved plan to Ghost as a draft
/metrics - usage and health report`

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot wraps the Telegram API around the meal planner.
type Bot struct {
	api      Sender
	app      *app.App
	sessions *SessionRepository
	cfg      *config.Config
	log      *logger.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, sessions *SessionRepository, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log = log.With("component", "telegram")
	log.Info("authorized on telegram", "account", api.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", "url", cfg.TelegramWebhookURL, "response", resp.Description)

	return newBot(api, cfg, a, sessions, log), nil
}

func newBot(api Sender, cfg *config.Config, a *app.App, sessions *SessionRepository, log *logger.Logger) *Bot {
	if log == nil {
		log = logger.Nop()
	}
	return &Bot{api: api, app: a, sessions: sessions, cfg: cfg, log: log}
}

// ServeHTTP decodes a webhook update and handles it in the background.
func (b *Bot) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.log.Warn("error parsing update", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
	go b.HandleUpdate(context.Background(), update)
}

// HandleUpdate dispatches one update from an allowed user.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if !b.cfg.IsAllowedUser(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		if !b.cfg.IsAllowedUser(msg.From.ID) {
			b.log.Warn("unauthorized access attempt", "user_id", msg.From.ID, "username", msg.From.UserName)
			return
		}
		b.processMessage(ctx, msg)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !msg.IsCommand() {
		if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
			b.sendText(chatID, "✂️ To clip a recipe send `/clip <category> <url>`, e.g. `/clip dinner "+msg.Text+"`")
			return
		}
		b.sendText(chatID, helpText)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		text := helpText
		if b.isAdmin(msg.From.ID) {
			text += adminHelpText
		}
		b.sendText(chatID, text)
	case "plan":
		b.handlePlan(ctx, chatID)
	case "grocery":
		b.handleGrocery(ctx, chatID)
	case "save":
		b.handleSave(ctx, chatID, args)
	case "saved":
		b.handleSaved(ctx, chatID)
	case "export":
		b.handleExport(ctx, chatID, args)
	case "clip":
		b.handleClip(ctx, chatID, args)
	case "sync", "publish", "metrics":
		if !b.isAdmin(msg.From.ID) {
			b.sendText(chatID, "⛔ *Access Denied*: Admin only.")
			return
		}
		switch msg.Command() {
		case "sync":
			b.handleSync(ctx, chatID)
		case "publish":
			b.handlePublish(ctx, chatID)
		default:
			b.handleMetrics(ctx, chatID)
		}
	default:
		b.sendText(chatID, "Unknown command.\n\n"+helpText)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.AdminTelegramID != 0 && userID == b.cfg.AdminTelegramID
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64) {
	plan, err := b.app.GeneratePlan(ctx)
	if err != nil {
		b.sendError(chatID, "generating plan", err)
		return
	}
	if err := b.sessions.Put(ctx, chatID, plan, 0); err != nil {
		b.log.Warn("failed to store session", "chat_id", chatID, "error", err)
	}
	b.sendPlan(chatID, export.DefaultTitle, plan, planKeyboard())
}

// currentPlan returns the chat's session, telling the user when there is none.
func (b *Bot) currentPlan(ctx context.Context, chatID int64) *Session {
	s, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.sendError(chatID, "loading your plan", err)
		return nil
	}
	if s == nil {
		b.sendText(chatID, "No plan yet. Send /plan to generate one.")
	}
	return s
}

func (b *Bot) handleGrocery(ctx context.Context, chatID int64) {
	s := b.currentPlan(ctx, chatID)
	if s == nil {
		return
	}
	if !s.Saved() {
		_, grocery := export.MarkdownParts(export.NewDocument("", time.Time{}, s.Plan))
		b.sendText(chatID, grocery+"\n_Save the plan with /save to tick items off._")
		return
	}
	items, err := b.app.Checklist(ctx, s.PlanID)
	if err != nil {
		b.sendError(chatID, "loading the grocery list", err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, "🛒 *Grocery Checklist*\nTap an item to tick it off.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	if len(items) > 0 {
		keyboard := checklistKeyboard(s.PlanID, items)
		msg.ReplyMarkup = keyboard
	}
	b.send(msg)
}

func (b *Bot) handleSave(ctx context.Context, chatID int64, name string) {
	s := b.currentPlan(ctx, chatID)
	if s == nil {
		return
	}
	if name == "" {
		name = defaultPlanName(time.Now())
	}
	id, err := b.app.SavePlan(ctx, name, s.Plan)
	if err != nil {
		b.sendError(chatID, "saving plan", err)
		return
	}
	if err := b.sessions.Put(ctx, chatID, s.Plan, id); err != nil {
		b.log.Warn("failed to store session", "chat_id", chatID, "error", err)
	}
	b.sendText(chatID, fmt.Sprintf("💾 Saved as *%s* (#%d).", export.EscapeMarkdown(name), id))
}

func defaultPlanName(now time.Time) string {
	return "Week of " + now.Format("2006-01-02")
}

func (b *Bot) handleSaved(ctx context.Context, chatID int64) {
	plans, err := b.app.ListSavedPlans(ctx, 10)
	if err != nil {
		b.sendError(chatID, "listing saved plans", err)
		return
	}
	if len(plans) == 0 {
		b.sendText(chatID, "No saved plans yet.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, "🗂 *Saved Plans*\nTap one to load it.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = savedPlansKeyboard(plans)
	b.send(msg)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, args string) {
	format := export.FormatPNG
	if args != "" {
		f, err := export.ParseFormat(args)
		if err != nil {
			b.sendText(chatID, "Unknown format. Use png, html, markdown or json.")
			return
		}
		format = f
	}

	s := b.currentPlan(ctx, chatID)
	if s == nil {
		return
	}

	var (
		data []byte
		r    export.Renderer
		err  error
	)
	if s.Saved() {
		data, r, _, err = b.app.ExportSaved(ctx, s.PlanID, format)
	} else {
		data, r, _, err = b.app.ExportDraft(s.Plan, format)
	}
	if err != nil {
		b.sendError(chatID, "exporting plan", err)
		return
	}

	file := tgbotapi.FileBytes{Name: "meal-plan" + r.Extension(), Bytes: data}
	if format == export.FormatPNG {
		b.send(tgbotapi.NewPhoto(chatID, file))
		return
	}
	b.send(tgbotapi.NewDocument(chatID, file))
}

func (b *Bot) handleClip(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.sendText(chatID, "Usage: `/clip <category> <url>`")
		return
	}
	category := meal.ParseCategory(fields[0])
	if !category.IsRequired() {
		b.sendText(chatID, "Category must be breakfast, lunch, dinner or snack.")
		return
	}

	b.sendText(chatID, "✂️ *Clipping recipe...*")
	rec, id, err := b.app.ClipMeal(ctx, fields[1], category)
	if err != nil {
		b.sendError(chatID, "clipping recipe", err)
		return
	}
	ingredients := strings.Join(clipper.CleanIngredients(rec.Ingredients), ", ")
	b.sendText(chatID, fmt.Sprintf("✅ *Recipe Saved!* (#%d)\n\n*Title:* %s\n*Category:* %s\n*Ingredients:* %s",
		id, export.EscapeMarkdown(rec.Title), category.Label(), export.EscapeMarkdown(ingredients)))
}

func (b *Bot) handleSync(ctx context.Context, chatID int64) {
	res, err := b.app.SyncFromGhost(ctx)
	if err != nil {
		b.sendError(chatID, "syncing from Ghost", err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("🔄 *Ghost sync*\nImported: %d\nUnchanged: %d\nSkipped: %d", res.Imported, res.Unchanged, res.Skipped))
}

func (b *Bot) handlePublish(ctx context.Context, chatID int64) {
	s := b.currentPlan(ctx, chatID)
	if s == nil {
		return
	}
	if !s.Saved() {
		b.sendText(chatID, "Save the plan with /save before publishing it.")
		return
	}
	post, err := b.app.PublishPlan(ctx, s.PlanID, false)
	if err != nil {
		b.sendError(chatID, "publishing plan", err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("📝 Draft created: %s", post.URL))
}

func (b *Bot) handleMetrics(ctx context.Context, chatID int64) {
	report, err := b.app.Report(ctx, 7)
	if err != nil {
		b.sendText(chatID, "❌ Error fetching metrics.")
		return
	}
	b.sendText(chatID, formatReport(report))
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	b.request(tgbotapi.NewCallback(query.ID, ""))
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	parts := strings.Split(query.Data, "|")
	switch parts[0] {
	case "regen":
		b.handlePlan(ctx, chatID)
	case "save":
		b.handleSave(ctx, chatID, "")
	case "export":
		b.handleExport(ctx, chatID, "")
	case "load":
		if len(parts) != 2 {
			return
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return
		}
		saved, plan, err := b.app.LoadPlan(ctx, id)
		if err != nil {
			b.sendError(chatID, "loading plan", err)
			return
		}
		if err := b.sessions.Put(ctx, chatID, plan, id); err != nil {
			b.log.Warn("failed to store session", "chat_id", chatID, "error", err)
		}
		b.sendPlan(chatID, saved.Name, plan, nil)
	case "tick":
		if len(parts) != 3 {
			return
		}
		b.handleTick(ctx, query, parts[1], parts[2])
	}
}

func (b *Bot) handleTick(ctx context.Context, query *tgbotapi.CallbackQuery, rawID, rawIndex string) {
	chatID, messageID := query.Message.Chat.ID, query.Message.MessageID
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return
	}
	idx, err := strconv.Atoi(rawIndex)
	if err != nil {
		return
	}

	items, err := b.app.Checklist(ctx, id)
	if err != nil {
		b.sendError(chatID, "loading the grocery list", err)
		return
	}
	if idx < 0 || idx >= len(items) {
		return
	}
	item := items[idx]
	if err := b.app.SetChecked(ctx, id, item.Ingredient, !item.Checked); err != nil {
		b.sendError(chatID, "updating the grocery list", err)
		return
	}
	items[idx].Checked = !item.Checked
	b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, checklistKeyboard(id, items)))
}

// sendPlan sends the plan and the grocery list as two messages.
func (b *Bot) sendPlan(chatID int64, title string, plan *planner.WeeklyPlan, keyboard *tgbotapi.InlineKeyboardMarkup) {
	planText, groceryText := export.MarkdownParts(export.NewDocument(title, time.Time{}, plan))
	if missing := plan.Missing(); len(missing) > 0 {
		planText += fmt.Sprintf("⚠️ _%d slots could not be filled; add more meals to the catalogue._\n", len(missing))
	}

	chunks := splitMessage(planText, MaxMessageLength)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
		if i == len(chunks)-1 && keyboard != nil {
			msg.ReplyMarkup = *keyboard
		}
		b.send(msg)
	}
	b.sendText(chatID, groceryText)
}

func (b *Bot) sendText(chatID int64, text string) {
	for _, chunk := range splitMessage(text, MaxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
		b.send(msg)
	}
}

func (b *Bot) sendError(chatID int64, action string, err error) {
	b.log.Error("telegram request failed", "chat_id", chatID, "action", action, "error", err)
	text := "❌ *Error " + action + ":*\n"
	switch {
	case errors.Is(err, planner.ErrEmptyCategoryPool), errors.Is(err, planner.ErrInsufficientCategoryPool):
		text += "the catalogue does not have enough meals for every day."
	case errors.Is(err, app.ErrPlanNotFound):
		text += "that plan no longer exists."
	default:
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		text += "```\n" + safeErr + "\n```"
	}
	b.sendText(chatID, text)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Warn("failed to send telegram message", "error", err)
	}
}

func (b *Bot) request(c tgbotapi.Chattable) {
	if _, err := b.api.Request(c); err != nil {
		b.log.Warn("failed to send telegram request", "error", err)
	}
}

func planKeyboard() *tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Save", "save"),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Regenerate", "regen"),
			tgbotapi.NewInlineKeyboardButtonData("🖼 Export", "export"),
		),
	)
	return &keyboard
}

func savedPlansKeyboard(plans []planner.SavedPlan) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(plans))
	for _, p := range plans {
		label := fmt.Sprintf("%s (%s)", p.Name, p.CreatedAt.Format("Jan 2"))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("load|%d", p.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// checklistKeyboard has one button per grocery line, two per row. Callback data carries
// the line index because ingredient names may exceed the 64-byte callback limit.
func checklistKeyboard(planID int64, items []shopping.ChecklistItem) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(items); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for j := i; j < i+2 && j < len(items); j++ {
			box := "☐"
			if items[j].Checked {
				box = "✅"
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				box+" "+items[j].Ingredient,
				fmt.Sprintf("tick|%d|%d", planID, j),
			))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// splitMessage cuts text into chunks of at most limit bytes, preferring line breaks.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func formatReport(r *app.Report) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Plan Builds*\n")
	if len(r.Daily) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range r.Daily {
		sb.WriteString(fmt.Sprintf("• *%s* %s: %d builds, pool %.1f, %d short, %.0fms\n",
			d.Date, d.Category, d.Builds, d.AvgPoolSize, d.ShortBuilds, d.AvgLatencyMS))
	}

	sb.WriteString("\n📚 *Catalogue*\n")
	for _, c := range meal.RequiredCategories {
		sb.WriteString(fmt.Sprintf("• %s: %d meals\n", c.Label(), r.Meals[c]))
	}
	sb.WriteString(fmt.Sprintf("• Saved plans: %d\n", r.Planned))

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", r.Health.AllocMB, r.Health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", r.Health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", r.Health.Uptime))
	sb.WriteString(fmt.Sprintf("• Database: %s, Exports: %s\n", r.Health.DatabaseSize, r.Health.ExportsSize))
	return sb.String()
}
