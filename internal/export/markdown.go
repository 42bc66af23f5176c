package export

import (
	"fmt"
	"io"
	"strings"
)

// Markdown renders Telegram-flavoured (legacy) Markdown.
type Markdown struct{}

func (Markdown) Format() Format      { return FormatMarkdown }
func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }
func (Markdown) Extension() string   { return ".md" }

func (Markdown) Render(w io.Writer, doc Document) error {
	plan, grocery := MarkdownParts(doc)
	_, err := io.WriteString(w, plan+"\n"+grocery)
	return err
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes the characters legacy Markdown treats as markup.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// MarkdownParts returns the plan and the grocery list as two separate messages.
func MarkdownParts(doc Document) (string, string) {
	var pb strings.Builder
	pb.WriteString(fmt.Sprintf("📅 *%s*\n\n", EscapeMarkdown(doc.Title)))

	for _, day := range doc.Days() {
		pb.WriteString(fmt.Sprintf("*%s*\n", day.Name))
		for _, cell := range day.Cells {
			if !cell.Assigned {
				pb.WriteString(fmt.Sprintf("• %s: _no meal assigned_\n", cell.Category.Label()))
				continue
			}
			name := EscapeMarkdown(cell.Meal.ItemName)
			if cell.Meal.HasRecipeLink() {
				name = fmt.Sprintf("[%s](%s)", name, cell.Meal.Notes)
			}
			pb.WriteString(fmt.Sprintf("• %s: %s\n", cell.Category.Label(), name))
		}
		pb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	if len(doc.Grocery) == 0 {
		sb.WriteString("_Nothing to buy_\n")
	}
	for _, item := range doc.Index.Items() {
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", EscapeMarkdown(item.Ingredient), EscapeMarkdown(strings.Join(item.Meals, "; "))))
	}

	return pb.String(), sb.String()
}
