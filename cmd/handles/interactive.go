package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/halcyon-os/userland/handle"
	"github.com/halcyon-os/userland/sys"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const feedSize = 8

type modelState int

const (
	stateList modelState = iota
	stateInputPath
)

// owner holds the type-erased lifecycle actions for a handle the TUI owns.
type owner struct {
	close func()
	share func() error
}

type interactiveModel struct {
	err      error
	kern     *sys.Local
	devID    uuid.UUID
	owners   map[sys.Handle]owner
	events   chan handle.Event
	feed     []string
	input    textinput.Model
	selected int
	state    modelState
}

type eventMsg handle.Event

// chanObserver forwards lifecycle events into the TUI event loop. Sends
// never block: when the feed falls behind, events are dropped.
type chanObserver chan handle.Event

func (c chanObserver) OnHandleEvent(e handle.Event) {
	select {
	case c <- e:
	default:
	}
}

func newInteractiveModel() *interactiveModel {
	kern := sys.NewLocal()
	devID := uuid.New()
	kern.AddDevice(devID, "null0")

	events := make(chan handle.Event, 64)
	handle.SetObserver(chanObserver(events))

	ti := textinput.New()
	ti.Placeholder = "/etc/motd"
	ti.Prompt = "path: "
	ti.Width = 40

	return &interactiveModel{
		kern:   kern,
		devID:  devID,
		owners: make(map[sys.Handle]owner),
		events: events,
		input:  ti,
		state:  stateList,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.waitEvent
}

func (m *interactiveModel) waitEvent() tea.Msg {
	return eventMsg(<-m.events)
}

func track[T handle.Object](m *interactiveModel, o *handle.Owned[T]) {
	m.owners[o.Ptr().Raw()] = owner{
		close: o.Close,
		share: func() error { return shareCycle(o) },
	}
}

// shareCycle shares a handle, resolves it from a fresh OS thread and
// retires the token, driving the full cross-thread lifecycle.
func shareCycle[T handle.Object](o *handle.Owned[T]) error {
	s, err := handle.Share(o)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_, err := s.Get()
		errc <- err
	}()
	if err := <-errc; err != nil {
		s.Close()
		return err
	}

	s.Close()
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateInputPath {
			switch msg.String() {
			case "enter":
				path := m.input.Value()
				if path == "" {
					path = m.input.Placeholder
				}
				if f, err := handle.OpenFile(m.kern, path); err != nil {
					m.err = err
				} else {
					track(m, f)
					m.err = nil
				}
				m.input.Reset()
				m.input.Blur()
				m.state = stateList
			case "esc":
				m.input.Reset()
				m.input.Blur()
				m.state = stateList
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			for _, o := range m.owners {
				o.close()
			}
			handle.SetObserver(nil)
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.kern.Snapshot())-1 {
				m.selected++
			}

		case "o":
			m.state = stateInputPath
			m.input.Focus()

		case "d":
			if dev, err := handle.OpenDevice(m.kern, m.devID); err != nil {
				m.err = err
			} else {
				track(m, dev)
				m.err = nil
			}

		case "t":
			if th, err := handle.SpawnThread(m.kern); err != nil {
				m.err = err
			} else {
				track(m, th)
				m.err = nil
			}

		case "x":
			if o, raw, ok := m.ownerAt(m.selected); ok {
				o.close()
				delete(m.owners, raw)
				m.clampSelection()
			}

		case "s":
			if o, raw, ok := m.ownerAt(m.selected); ok {
				m.err = o.share()
				if m.err == nil {
					// Sharing consumed the ownership.
					delete(m.owners, raw)
				}
				m.clampSelection()
			}
		}

	case eventMsg:
		e := handle.Event(msg)
		line := fmt.Sprintf("%-9s %s %v", e.Type, e.Kind, e.Handle)
		if e.Token != 0 {
			line += fmt.Sprintf(" (token %d)", e.Token)
		}
		m.feed = append(m.feed, line)
		if len(m.feed) > feedSize {
			m.feed = m.feed[len(m.feed)-feedSize:]
		}
		return m, m.waitEvent
	}

	return m, nil
}

func (m *interactiveModel) ownerAt(i int) (owner, sys.Handle, bool) {
	snap := m.kern.Snapshot()
	if i < 0 || i >= len(snap) {
		return owner{}, sys.Null, false
	}
	raw := snap[i].Handle
	o, ok := m.owners[raw]
	return o, raw, ok
}

func (m *interactiveModel) clampSelection() {
	if n := len(m.kern.Snapshot()); m.selected >= n && n > 0 {
		m.selected = n - 1
	} else if n == 0 {
		m.selected = 0
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Handle Inspector"))
	b.WriteString("\n\n")

	snap := m.kern.Snapshot()
	if len(snap) == 0 {
		b.WriteString(helpStyle.Render("no live handles"))
		b.WriteString("\n")
	}
	for i, info := range snap {
		line := fmt.Sprintf("%v %s", info.Handle, kindStyle.Render(info.Kind.String()))
		if info.Name != "" {
			line += " " + nameStyle.Render(info.Name)
		}
		if i == m.selected && m.state == stateList {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateInputPath {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter open • esc back"))
		return b.String()
	}

	if len(m.feed) > 0 {
		b.WriteString("Events:\n")
		for _, line := range m.feed {
			b.WriteString("  " + eventStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select • o open file • d open device • t spawn thread • s share • x close • q quit"))
	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
