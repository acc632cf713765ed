package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arbordev/arbor/pkg/document"
	"github.com/arbordev/arbor/pkg/errors"
	"github.com/arbordev/arbor/pkg/tree"
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editorErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// editorMode distinguishes tree navigation from text entry.
type editorMode int

const (
	modeBrowse editorMode = iota
	modeInput
)

// inputAction identifies which operation a committed text entry feeds.
type inputAction int

const (
	actionAddChild inputAction = iota
	actionAddSibling
	actionAddParent
	actionEdit
)

// editorModel is the bubbletea model for the interactive tree editor.
// It drives the document edit API: every mutation goes through Document so
// structural rules and the dirty flag hold regardless of key order.
type editorModel struct {
	doc  *document.Document
	path string

	rows   []*tree.Node // pre-order flattening of the current tree
	cursor int
	offset int
	height int

	mode   editorMode
	action inputAction
	input  string

	status  string
	statErr bool

	quitArmed bool // first q with unsaved changes arms, second quits
}

// newEditorModel creates an editor over doc, which is saved to path.
func newEditorModel(doc *document.Document, path string) editorModel {
	m := editorModel{doc: doc, path: path, height: 20}
	m.reflow()
	return m
}

// reflow rebuilds the visible row list after any structural change and moves
// the cursor to the document selection.
func (m *editorModel) reflow() {
	m.rows = m.rows[:0]
	if root := m.doc.Root(); root != nil {
		root.Walk(func(n *tree.Node, depth int) bool {
			m.rows = append(m.rows, n)
			return true
		})
	}

	if m.doc.Selection() == nil && len(m.rows) > 0 {
		m.doc.Select(m.rows[0])
	}

	m.cursor = 0
	for i, n := range m.rows {
		if n == m.doc.Selection() {
			m.cursor = i
			break
		}
	}
	m.clampScroll()
}

// clampScroll keeps the cursor inside the visible window.
func (m *editorModel) clampScroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// setStatus records a transient message shown in the footer.
func (m *editorModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statErr = isErr
}

// fail formats an operation error for the footer.
func (m *editorModel) fail(err error) {
	m.setStatus(errors.UserMessage(err), true)
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		m.clampScroll()
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// updateBrowse handles keys in navigation mode.
func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		m.quitArmed = false
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.doc.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.setStatus("Unsaved changes. Press q again to discard, w to save.", true)
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.doc.Select(m.rows[m.cursor])
			m.clampScroll()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.doc.Select(m.rows[m.cursor])
			m.clampScroll()
		}

	case "a":
		return m.enterInput(actionAddChild, ""), nil
	case "s":
		return m.enterInput(actionAddSibling, ""), nil
	case "p":
		return m.enterInput(actionAddParent, ""), nil

	case "e":
		n := m.doc.Selection()
		if n == nil {
			m.setStatus("Nothing selected", true)
			return m, nil
		}
		return m.enterInput(actionEdit, nodeText(n)), nil

	case "d":
		if err := m.doc.Delete(); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Deleted", false)
			m.reflow()
		}

	case "c":
		if err := m.doc.Copy(); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Copied subtree", false)
		}

	case "v":
		if err := m.doc.Paste(document.Child); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Pasted", false)
			m.reflow()
		}

	case "K":
		if err := m.doc.MoveUp(); err != nil {
			m.fail(err)
		} else {
			m.reflow()
		}

	case "J":
		if err := m.doc.MoveDown(); err != nil {
			m.fail(err)
		} else {
			m.reflow()
		}

	case "w":
		if err := m.doc.Save(m.path); err != nil {
			m.fail(err)
		} else {
			m.setStatus(fmt.Sprintf("Saved %s", m.path), false)
		}
	}

	return m, nil
}

// enterInput switches to text entry mode, seeded with initial text.
func (m editorModel) enterInput(action inputAction, initial string) editorModel {
	m.mode = modeInput
	m.action = action
	m.input = initial
	m.status = ""
	return m
}

// updateInput handles keys while typing a label/value entry.
func (m editorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input = ""
		return m, nil

	case "enter":
		m.mode = modeBrowse
		m.commitInput()
		m.input = ""
		return m, nil

	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
		return m, nil
	}
}

// commitInput applies the typed text to the pending action.
func (m *editorModel) commitInput() {
	label, value := splitEntry(m.input)

	var err error
	switch m.action {
	case actionAddChild:
		err = m.doc.Add(document.Child, label, value)
	case actionAddSibling:
		err = m.doc.Add(document.Sibling, label, value)
	case actionAddParent:
		err = m.doc.Add(document.Parent, label, value)
	case actionEdit:
		err = m.doc.Edit(&label, &value)
	}

	if err != nil {
		m.fail(err)
		return
	}
	m.reflow()
}

func (m editorModel) View() string {
	var b strings.Builder

	title := m.path
	if m.doc.Dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("↑/↓ navigate  a child  s sibling  p parent  e edit  d delete  c copy  v paste  K/J move  w save  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(editorDimStyle.Render("  (empty document, press a to add a root node)"))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		n := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + strings.Repeat("  ", nodeDepth(n)) + n.String()
		if i == m.cursor {
			b.WriteString(editorSelectedStyle.Render(line))
		} else {
			b.WriteString(editorNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode == modeInput:
		prompt := inputPrompt(m.action)
		b.WriteString(StyleHighlight.Render(prompt+": ") + m.input + editorDimStyle.Render("▌"))
		b.WriteString("\n")
		b.WriteString(editorDimStyle.Render("  label: value  ·  enter commit  ·  esc cancel"))
	case m.status != "":
		if m.statErr {
			b.WriteString(editorErrorStyle.Render(m.status))
		} else {
			b.WriteString(StyleSuccess.Render(m.status))
		}
	default:
		b.WriteString(editorDimStyle.Render(fmt.Sprintf("  [%d nodes]", len(m.rows))))
	}

	return b.String()
}

// inputPrompt labels the text entry line per pending action.
func inputPrompt(action inputAction) string {
	switch action {
	case actionAddSibling:
		return "New sibling"
	case actionAddParent:
		return "New parent"
	case actionEdit:
		return "Edit node"
	default:
		return "New child"
	}
}

// splitEntry parses "label: value" input. Everything before the first colon
// is the label; a missing colon means no value.
func splitEntry(s string) (label, value string) {
	label, value, found := strings.Cut(s, ":")
	label = strings.TrimSpace(label)
	if !found {
		return label, ""
	}
	return label, strings.TrimSpace(value)
}

// nodeText renders a node back into editable "label: value" form.
func nodeText(n *tree.Node) string {
	label, _ := n.Label()
	if value, ok := n.Value(); ok {
		return label + ": " + value
	}
	return label
}

// nodeDepth counts ancestors up to the root.
func nodeDepth(n *tree.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}
