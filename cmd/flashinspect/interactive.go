package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/embkit/flashdata/image"
	"github.com/embkit/flashdata/object"
	"github.com/embkit/flashdata/stream"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const previewBytes = 256

type modelState int

const (
	stateBrowse modelState = iota
	statePreview
)

type inspectModel struct {
	store    *object.Store
	filename string
	mode     stream.Mode

	symbols  []image.Symbol
	filtered []image.Symbol
	filter   textinput.Model
	selected int
	state    modelState
	preview  string
	err      error
}

func newInspectModel(store *object.Store, filename string, mode stream.Mode) *inspectModel {
	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.Prompt = "/ "
	filter.Width = 32
	filter.Focus()

	symbols := store.Symbols()
	return &inspectModel{
		store:    store,
		filename: filename,
		mode:     mode,
		symbols:  symbols,
		filtered: symbols,
		filter:   filter,
		state:    stateBrowse,
	}
}

func runInteractive(store *object.Store, filename string, mode stream.Mode) error {
	p := tea.NewProgram(newInspectModel(store, filename, mode))
	_, err := p.Run()
	return err
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == statePreview {
				m.state = stateBrowse
				m.preview = ""
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.filtered)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if m.state == stateBrowse && m.selected < len(m.filtered) {
				m.loadPreview()
				m.state = statePreview
			}
			return m, nil

		case "esc":
			if m.state == statePreview {
				m.state = stateBrowse
				m.preview = ""
			} else {
				m.filter.SetValue("")
				m.applyFilter()
			}
			return m, nil
		}
	}

	if m.state == stateBrowse {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		m.filtered = m.symbols
	} else {
		m.filtered = nil
		for _, sym := range m.symbols {
			if strings.Contains(strings.ToLower(sym.Name), needle) {
				m.filtered = append(m.filtered, sym)
			}
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

func (m *inspectModel) loadPreview() {
	sym := m.filtered[m.selected]
	obj := m.store.At(sym.Offset)

	r := stream.New(obj, m.mode)
	buf := make([]byte, previewBytes)
	n, err := r.Read(buf)
	if err != nil && n == 0 && obj.Length() > 0 {
		m.err = err
		return
	}
	m.preview = hexDump(buf[:n], 0)
	if int(obj.Length()) > n {
		m.preview += fmt.Sprintf("\n… %d more bytes", int(obj.Length())-n)
	}
}

// hexDump renders data as a classic offset / hex / ASCII listing.
func hexDump(data []byte, base int) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		fmt.Fprintf(&b, "%08x  ", base+off)
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(&b, "%02x ", row[i])
			} else {
				b.WriteString("   ")
			}
			if i == 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for _, c := range row {
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	return b.String()
}

func (m *inspectModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Flash Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(m.filtered) == 0 {
			b.WriteString(helpStyle.Render("no matching objects"))
			b.WriteString("\n")
		}
		for i, sym := range m.filtered {
			obj := m.store.At(sym.Offset)
			line := fmt.Sprintf("%s  %s",
				nameStyle.Render(fmt.Sprintf("%-24s", sym.Name)),
				metaStyle.Render(fmt.Sprintf("off=%-8d len=%-8d size=%d", sym.Offset, obj.Length(), obj.Size())))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter preview • esc clear filter • q quit"))

	case statePreview:
		sym := m.filtered[m.selected]
		obj := m.store.At(sym.Offset)
		b.WriteString(fmt.Sprintf("%s  length=%d size=%d\n\n",
			nameStyle.Render(sym.Name), obj.Length(), obj.Size()))
		b.WriteString(m.preview)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}
