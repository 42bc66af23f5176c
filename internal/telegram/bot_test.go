package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/catalogue"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/database"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
	"weekly-meal-planner/internal/storage"
)

// --- Mocks ---

type mockSender struct {
	sent []tgbotapi.Chattable
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	return tgbotapi.Message{MessageID: len(m.sent)}, nil
}

func (m *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.sent = append(m.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *mockSender) texts() []string {
	var out []string
	for _, c := range m.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (m *mockSender) reset() { m.sent = nil }

// --- Helpers ---

const (
	userID  = 11
	adminID = 99
	chatID  = 500
)

func newTestBot(t *testing.T) (*Bot, *mockSender, *SessionRepository) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.NewDB(filepath.Join(dir, "meals.db"), logger.Nop())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	exports, err := storage.NewExportStore(filepath.Join(dir, "exports"))
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		DatabasePath:           db.Path,
		SelectionPolicy:        planner.PolicyTolerant,
		TelegramAllowedUserIDs: []int64{userID},
		AdminTelegramID:        adminID,
	}
	cat := catalogue.NewRepository(db.SQL)
	for _, c := range meal.RequiredCategories {
		for i := 0; i < 7; i++ {
			row := meal.Row{ItemName: fmt.Sprintf("%s %d", c, i), Category: string(c), Ingredients: "salt, pepper"}
			if _, err := cat.Add(context.Background(), row); err != nil {
				t.Fatal(err)
			}
		}
	}

	a := app.New(app.Deps{
		Config:    cfg,
		Catalogue: cat,
		Builder:   planner.NewBuilder(planner.NewSelector(cfg.SelectionPolicy, planner.NewLockedRand(1)), nil),
		Plans:     planner.NewPlanRepository(db.SQL),
		Checks:    shopping.NewRepository(db.SQL),
		Metrics:   metrics.NewStore(db.SQL),
		Exports:   exports,
		Clipper:   clipper.NewClipper(nil, nil),
	})
	sessions := NewSessionRepository(db.SQL)
	sender := &mockSender{}
	return newBot(sender, cfg, a, sessions, nil), sender, sessions
}

func command(from int64, text string) tgbotapi.Update {
	length := len(strings.Fields(text)[0])
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func callback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

// --- Tests ---

func TestHandleUpdate_Unauthorized(t *testing.T) {
	bot, sender, _ := newTestBot(t)
	bot.HandleUpdate(context.Background(), command(33, "/plan"))
	if len(sender.sent) != 0 {
		t.Errorf("Expected no reply to a stranger, got %d messages", len(sender.sent))
	}
}

func TestPlanFlow(t *testing.T) {
	ctx := context.Background()
	bot, sender, sessions := newTestBot(t)

	t.Run("Plan", func(t *testing.T) {
		bot.HandleUpdate(ctx, command(userID, "/plan"))
		texts := sender.texts()
		if len(texts) != 2 {
			t.Fatalf("Expected plan and grocery messages, got %d", len(texts))
		}
		if !strings.Contains(texts[0], "*Monday*") || !strings.Contains(texts[1], "🛒 *Shopping List*") {
			t.Errorf("Unexpected messages: %q", texts)
		}
		s, err := sessions.Get(ctx, chatID)
		if err != nil || s == nil || s.Saved() || !s.Plan.Complete() {
			t.Fatalf("Expected an unsaved complete session plan, got %+v (%v)", s, err)
		}
	})

	t.Run("Save", func(t *testing.T) {
		sender.reset()
		bot.HandleUpdate(ctx, command(userID, "/save Week 12"))
		if texts := sender.texts(); len(texts) != 1 || !strings.Contains(texts[0], "*Week 12*") {
			t.Errorf("Unexpected reply: %q", texts)
		}
		s, _ := sessions.Get(ctx, chatID)
		if s == nil || !s.Saved() {
			t.Fatal("Expected the session to point at the saved plan")
		}
	})

	t.Run("GroceryTick", func(t *testing.T) {
		sender.reset()
		bot.HandleUpdate(ctx, command(userID, "/grocery"))
		msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
		if !ok {
			t.Fatalf("Expected a message, got %T", sender.sent[0])
		}
		keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		if !ok || len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 2 {
			t.Fatalf("Expected one row with pepper and salt, got %+v", msg.ReplyMarkup)
		}

		s, _ := sessions.Get(ctx, chatID)
		sender.reset()
		bot.HandleUpdate(ctx, callback(userID, fmt.Sprintf("tick|%d|1", s.PlanID)))

		var edit tgbotapi.EditMessageReplyMarkupConfig
		for _, c := range sender.sent {
			if e, ok := c.(tgbotapi.EditMessageReplyMarkupConfig); ok {
				edit = e
			}
		}
		if edit.ReplyMarkup == nil || !strings.HasPrefix(edit.ReplyMarkup.InlineKeyboard[0][1].Text, "✅ salt") {
			t.Fatalf("Expected salt to be ticked, got %+v", edit.ReplyMarkup)
		}
	})

	t.Run("SavedAndLoad", func(t *testing.T) {
		sender.reset()
		bot.HandleUpdate(ctx, command(userID, "/saved"))
		msg := sender.sent[0].(tgbotapi.MessageConfig)
		keyboard := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		data := *keyboard.InlineKeyboard[0][0].CallbackData
		if !strings.HasPrefix(data, "load|") {
			t.Fatalf("Unexpected callback data %q", data)
		}

		sender.reset()
		bot.HandleUpdate(ctx, callback(userID, data))
		if texts := sender.texts(); len(texts) != 2 || !strings.Contains(texts[0], "*Week 12*") {
			t.Errorf("Expected the saved plan to be sent, got %q", texts)
		}
	})

	t.Run("Export", func(t *testing.T) {
		sender.reset()
		bot.HandleUpdate(ctx, command(userID, "/export html"))
		doc, ok := sender.sent[0].(tgbotapi.DocumentConfig)
		if !ok {
			t.Fatalf("Expected a document, got %T", sender.sent[0])
		}
		file := doc.File.(tgbotapi.FileBytes)
		if file.Name != "meal-plan.html" || !strings.Contains(string(file.Bytes), "Week 12") {
			t.Errorf("Unexpected export %s", file.Name)
		}
	})

	t.Run("AdminOnly", func(t *testing.T) {
		sender.reset()
		bot.HandleUpdate(ctx, command(userID, "/metrics"))
		if texts := sender.texts(); len(texts) != 1 || !strings.Contains(texts[0], "Admin only") {
			t.Errorf("Expected access denied, got %q", texts)
		}

		sender.reset()
		bot.HandleUpdate(ctx, command(adminID, "/metrics"))
		if texts := sender.texts(); len(texts) != 1 || !strings.Contains(texts[0], "Usage & Health Report") {
			t.Errorf("Expected a report, got %q", texts)
		}
	})
}

func TestGroceryWithoutPlan(t *testing.T) {
	bot, sender, _ := newTestBot(t)
	bot.HandleUpdate(context.Background(), command(userID, "/grocery"))
	if texts := sender.texts(); len(texts) != 1 || !strings.Contains(texts[0], "/plan") {
		t.Errorf("Expected a hint to generate a plan, got %q", texts)
	}
}

func TestSplitMessage(t *testing.T) {
	t.Run("Short", func(t *testing.T) {
		if got := splitMessage("hello", 10); len(got) != 1 || got[0] != "hello" {
			t.Errorf("Unexpected split %q", got)
		}
	})

	t.Run("Lines", func(t *testing.T) {
		got := splitMessage("aaaa\nbbbb\ncccc", 10)
		if strings.Join(got, "|") != "aaaa\nbbbb|cccc" {
			t.Errorf("Unexpected split %q", got)
		}
	})

	t.Run("LongLineKeepsRunes", func(t *testing.T) {
		text := strings.Repeat("é", 10)
		for _, chunk := range splitMessage(text, 5) {
			if len(chunk) > 5 || !strings.HasPrefix(chunk, "é") {
				t.Errorf("Chunk %q splits a rune or exceeds the limit", chunk)
			}
		}
	})
}

func TestChecklistKeyboard(t *testing.T) {
	items := []shopping.ChecklistItem{
		{Item: shopping.Item{Ingredient: "egg"}, Checked: true},
		{Item: shopping.Item{Ingredient: "milk"}},
		{Item: shopping.Item{Ingredient: "salt"}},
	}
	kb := checklistKeyboard(4, items)
	if len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[1]) != 1 {
		t.Fatalf("Expected rows of two, got %+v", kb.InlineKeyboard)
	}
	first := kb.InlineKeyboard[0][0]
	if first.Text != "✅ egg" || *first.CallbackData != "tick|4|0" {
		t.Errorf("Unexpected button %q / %q", first.Text, *first.CallbackData)
	}
	if kb.InlineKeyboard[1][0].Text != "☐ salt" {
		t.Errorf("Unexpected button %q", kb.InlineKeyboard[1][0].Text)
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	_, _, sessions := newTestBot(t)

	plan := planner.NewWeeklyPlan()
	plan.Set(planner.Tuesday, meal.Lunch, meal.Record{ItemName: "Soup", Category: meal.Lunch, Ingredients: meal.NewIngredientSet("leek")})

	if err := sessions.Put(ctx, 1, plan, 0); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s, err := sessions.Get(ctx, 1)
	if err != nil || s == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if s.Saved() || !s.Plan.Equal(plan) {
		t.Errorf("Unexpected session %+v", s)
	}

	missing, err := sessions.Get(ctx, 2)
	if err != nil || missing != nil {
		t.Errorf("Expected nil for an unknown chat, got %+v (%v)", missing, err)
	}

	sessions.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err := sessions.CleanupExpired(ctx, 24*time.Hour)
	if err != nil || n != 1 {
		t.Errorf("Expected 1 expired session, got %d (%v)", n, err)
	}
}
