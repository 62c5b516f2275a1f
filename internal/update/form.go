package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/model"
)

// openForm opens the add form, or the edit form when item is set.
func (m *Model) openForm(item *model.Item) {
	m.Form = FormState{
		Active:   true,
		Field:    FieldName,
		Category: model.CategoryPantry,
		List:     m.ActiveTab,
	}
	m.nameInput.SetValue("")
	m.noteInput.SetValue("")
	if item != nil {
		m.Form.EditID = item.ID
		m.Form.Category = item.Category
		m.Form.List = item.ListType
		m.nameInput.SetValue(item.Name)
		m.noteInput.SetValue(item.Note)
	}
	m.focusFormField()
}

func (m *Model) closeForm() {
	m.Form = FormState{}
	m.nameInput.Blur()
	m.noteInput.Blur()
}

func (m *Model) focusFormField() {
	m.nameInput.Blur()
	m.noteInput.Blur()
	switch m.Form.Field {
	case FieldName:
		m.nameInput.Focus()
		m.nameInput.CursorEnd()
	case FieldNote:
		m.noteInput.Focus()
		m.noteInput.CursorEnd()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "form closed"}
		return m
	case "enter":
		m.submitForm()
		return m
	case "tab", "down":
		m.Form.Field = (m.Form.Field + 1) % 4
		m.focusFormField()
		return m
	case "shift+tab", "up":
		m.Form.Field = (m.Form.Field + 3) % 4
		m.focusFormField()
		return m
	}

	switch m.Form.Field {
	case FieldName:
		m.nameInput = editInput(m.nameInput, msg)
	case FieldNote:
		m.noteInput = editInput(m.noteInput, msg)
	case FieldCategory:
		if d := cycleDelta(msg); d != 0 {
			m.Form.Category = cycle(model.Categories(), m.Form.Category, d)
		}
	case FieldList:
		if d := cycleDelta(msg); d != 0 {
			m.Form.List = cycle(model.ListTypes(), m.Form.List, d)
		}
	}
	return m
}

func cycleDelta(msg tea.KeyMsg) int {
	switch msg.String() {
	case "left", "h":
		return -1
	case "right", "l", " ", "space":
		return 1
	}
	return 0
}

func cycle[T comparable](options []T, current T, delta int) T {
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	return options[(idx+delta+len(options))%len(options)]
}

func (m *Model) submitForm() {
	name := strings.TrimSpace(m.nameInput.Value())
	note := strings.TrimSpace(m.noteInput.Value())
	if name == "" {
		m.Form.Err = "name is required"
		return
	}
	form := m.Form
	var ok bool
	if form.EditID == "" {
		ok = m.apply(func(s *commands.Session) (commands.Result, error) {
			return s.Add(m.ctx, commands.AddArgs{Name: name, Category: form.Category, List: form.List, Note: note})
		})
	} else {
		ok = m.apply(func(s *commands.Session) (commands.Result, error) {
			item, found := s.Items.Find(form.EditID)
			if !found {
				return commands.Result{}, model.ErrItemNotFound
			}
			item.Name = name
			item.Note = note
			item.Category = form.Category
			res, err := s.Edit(m.ctx, item)
			if err != nil || item.ListType == form.List {
				return res, err
			}
			return s.Move(m.ctx, item.ID, form.List)
		})
	}
	if !ok {
		m.Form.Err = m.Status.Text
		return
	}
	m.closeForm()
}
