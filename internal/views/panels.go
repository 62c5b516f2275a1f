package views

import (
	"fmt"
	"strings"
)

type TabData struct {
	Key    string
	Label  string
	Count  int
	Active bool
}

type ItemRow struct {
	ID        string
	Name      string
	Note      string
	Purchased bool
	Selected  bool
}

type GroupData struct {
	Heading string
	Items   []ItemRow
}

type ListPanelData struct {
	Title     string
	Groups    []GroupData
	Search    string
	Category  string
	Purchased int
	Total     int
	// ShowPurchased adds the purchased counter; only the to-buy list tracks it.
	ShowPurchased bool
}

type FormPanelData struct {
	Title    string
	NameView string
	NoteView string
	Category string
	List     string
	Field    int
	Error    string
}

type ImportPanelData struct {
	EditorView  string
	PreviewView string
	Error       string
}

type HelpPanelData struct {
	Tab      string
	Bindings []string
	HelpView string
}

type FragmentData struct {
	Length    int
	Threshold int
	Source    string
}

func RenderTabs(tabs []TabData) string {
	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("[%s] %s (%d)", tab.Key, tab.Label, tab.Count)
		if tab.Active {
			parts = append(parts, activeTabStyle.Render(label))
			continue
		}
		parts = append(parts, tabStyle.Render(label))
	}
	return strings.Join(parts, "  ")
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	if data.ShowPurchased {
		b.WriteString(fmt.Sprintf("purchased: %d/%d\n", data.Purchased, data.Total))
	}
	var filters []string
	if data.Search != "" {
		filters = append(filters, fmt.Sprintf("search %q", data.Search))
	}
	if data.Category != "" {
		filters = append(filters, "category "+data.Category)
	}
	if len(filters) > 0 {
		b.WriteString("filter: " + strings.Join(filters, ", ") + "\n")
	}
	if len(data.Groups) == 0 {
		b.WriteString("\n(no items)")
		return b.String()
	}
	for _, group := range data.Groups {
		b.WriteString(fmt.Sprintf("\n%s:\n", group.Heading))
		for _, item := range group.Items {
			b.WriteString(renderItemRow(item))
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func renderItemRow(item ItemRow) string {
	cursor := " "
	if item.Selected {
		cursor = cursorStyle.Render(">")
	}
	check := "[ ]"
	name := item.Name
	if item.Purchased {
		check = "[x]"
		name = purchasedStyle.Render(name)
	}
	row := fmt.Sprintf("%s %s %s", cursor, check, name)
	if item.Note != "" {
		row += footerStyle.Render(" - " + item.Note)
	}
	return row
}

var formFields = []string{"name", "note", "category", "list"}

func RenderFormPanel(data FormPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	b.WriteString("keys: [tab] field [←/→] cycle [enter] save [esc] cancel\n")
	values := []string{data.NameView, data.NoteView, data.Category, data.List}
	for i, field := range formFields {
		marker := " "
		if i == data.Field {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", marker, field, values[i]))
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render("error: " + data.Error))
	}
	return strings.TrimSpace(b.String())
}

func RenderImportPanel(data ImportPanelData) string {
	var b strings.Builder
	b.WriteString("import markdown:\n")
	b.WriteString("keys: [ctrl+s] import into favorites [esc] cancel\n")
	b.WriteString(data.EditorView + "\n")
	if data.Error != "" {
		b.WriteString(errorStyle.Render(data.Error) + "\n")
	}
	if data.PreviewView != "" {
		b.WriteString("\npreview:\n")
		b.WriteString(data.PreviewView)
	}
	return strings.TrimSpace(b.String())
}

// RenderFragment shows the fragment length against the soft threshold.
func RenderFragment(data FragmentData) string {
	line := fmt.Sprintf("fragment: %d/%d chars", data.Length, data.Threshold)
	if data.Source != "" {
		line += " | from " + data.Source
	}
	if data.Threshold > 0 && data.Length > data.Threshold {
		return warnStyle.Render(line + " (links may be truncated)")
	}
	return line
}

func RenderShareLink(link string) string {
	if link == "" {
		return ""
	}
	return "share link:\n" + link
}

func RenderCommandPalette(active bool, input string, suggestions string) string {
	if !active {
		return ""
	}
	out := fmt.Sprintf("command: /%s", input)
	if suggestions != "" {
		out += "\n" + suggestions
	}
	return out
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s list:\n%s\n%s",
		strings.ToLower(data.Tab),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
