package importer

import (
	"strings"

	"github.com/sandeepkv93/grocer/internal/model"
)

// RenderMarkdown writes items in the format Parse reads, one heading per
// category in canonical order.
func RenderMarkdown(items model.Collection) string {
	var b strings.Builder
	for i, group := range items.GroupByCategory() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("# ")
		b.WriteString(Heading(group.Category))
		b.WriteString("\n\n")
		for _, item := range group.Items {
			b.WriteString("- ")
			b.WriteString(item.Name)
			if item.Note != "" {
				b.WriteString(": ")
				b.WriteString(item.Note)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Heading is the markdown heading used for a category.
func Heading(c model.Category) string {
	s := string(c)
	if s == "" {
		return "Other"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
