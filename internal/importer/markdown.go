// Package importer reads and writes the line-based markdown list format:
// "# Category" headings followed by "- name: note" bullets.
package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/grocer/internal/model"
)

// ErrNoItems means no line parsed as an item; nothing is imported.
var ErrNoItems = errors.New("importer: no valid items")

const DefaultCategory = model.CategoryPantry

// noteDelimiters are tried in order; the first one present splits name from note.
var noteDelimiters = []string{":", " - ", " – "}

// Entry is one parsed bullet.
type Entry struct {
	Line     int
	Name     string
	Category model.Category
	Note     string
}

// Parse reads entries from r. Headings naming a known category switch the
// current category; other headings leave it unchanged.
func Parse(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := DefaultCategory
	out := make([]Entry, 0)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if cat, ok := headingCategory(line); ok {
				current = cat
			}
			continue
		}
		text, ok := bulletText(line)
		if !ok {
			continue
		}
		name, note := splitNote(text)
		if name == "" {
			continue
		}
		out = append(out, Entry{Line: lineNo, Name: name, Category: current, Note: note})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("importer: read markdown: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoItems
	}
	return out, nil
}

func headingCategory(line string) (model.Category, bool) {
	name := strings.TrimLeft(line, "#")
	name = strings.ToLower(strings.TrimSpace(name))
	return model.ParseCategory(name)
}

func bulletText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
		return "", false
	}
	return strings.TrimSpace(trimmed[2:]), true
}

func splitNote(text string) (string, string) {
	for _, delim := range noteDelimiters {
		if name, note, ok := strings.Cut(text, delim); ok {
			return strings.TrimSpace(name), strings.TrimSpace(note)
		}
	}
	return text, ""
}

// ParseMarkdown turns text into new favorites. Nothing is returned unless
// at least one item parsed.
func ParseMarkdown(text string) ([]model.Item, error) {
	entries, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(entries))
	for _, e := range entries {
		item, err := model.NewItem(e.Name, e.Category, model.ListFavorites, e.Note)
		if err != nil {
			return nil, fmt.Errorf("importer: line %d: %w", e.Line, err)
		}
		items = append(items, item)
	}
	return items, nil
}
