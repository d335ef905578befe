// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tui shows the snapshot pane of a window in the terminal.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/relabs-tech/hmdview/internal/window"
)

const (
	headerHeight = 2
	footerHeight = 1
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// FrameMsg carries a new window frame.
type FrameMsg window.Frame

// ContextDoneMsg is sent when the viewer context ends.
type ContextDoneMsg struct{}

// Model is the bubbletea model of the terminal window.
type Model struct {
	ctx    context.Context
	win    *window.Window
	frames <-chan window.Frame
	keymap KeyMap

	frame  window.Frame
	width  int
	height int
}

// NewModel follows frames from win. The channel usually comes from
// win.Subscribe.
func NewModel(ctx context.Context, win *window.Window, frames <-chan window.Frame) Model {
	return Model{
		ctx:    ctx,
		win:    win,
		frames: frames,
		keymap: DefaultKeyMap(),
		frame:  win.Frame(),
	}
}

// Init starts listening for frames.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitFrameCmd(m.frames), watchContextCmd(m.ctx))
}

// Update handles keys, resizes and frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			m.win.RequestClose()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case FrameMsg:
		m.frame = window.Frame(msg)
		return m, waitFrameCmd(m.frames)

	case ContextDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

// View renders the pose header, the snapshot and the key help.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	q := m.frame.Pose.Orientation
	p := m.frame.Pose.Position
	c := m.frame.Camera
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.win.Title)+"  "+labelStyle.Render("frame ")+valueStyle.Render(fmt.Sprint(m.frame.Seq)),
		labelStyle.Render("quat ")+valueStyle.Render(fmt.Sprintf("%6.3f %6.3f %6.3f %6.3f", q.W, q.V[0], q.V[1], q.V[2]))+
			labelStyle.Render("  pos ")+valueStyle.Render(fmt.Sprintf("%6.3f %6.3f %6.3f", p[0], p[1], p[2]))+
			labelStyle.Render("  rot ")+valueStyle.Render(fmt.Sprintf("%5.1f°", c.Rotate)),
	)

	rows := max(1, m.height-headerHeight-footerHeight)
	body := ""
	if m.frame.Snapshot != nil {
		body = HalfBlocks(m.frame.Snapshot, m.width, rows)
	}

	help := m.keymap.Quit.Help()
	footer := keyStyle.Render(help.Key) + " " + labelStyle.Render(help.Desc)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func waitFrameCmd(frames <-chan window.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return ContextDoneMsg{}
		}
		return FrameMsg(f)
	}
}

func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextDoneMsg{}
	}
}

// Run shows win until the user quits or ctx is done. Quitting requests
// the window to close.
func Run(ctx context.Context, win *window.Window, opts ...tea.ProgramOption) error {
	frames, cancel := win.Subscribe()
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, win, frames), opts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal window: %w", err)
	}
	return nil
}
