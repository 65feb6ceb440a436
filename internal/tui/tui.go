// Package tui is a live fan-out dashboard over a fleet of network
// devices: one row per host, auto-detected and connected concurrently,
// with a detail pane for the last command run against the selected host.
// It is the CLI-facing analogue of a detecttest-style asyncio.gather
// fan-out, rendered with bubbletea/lipgloss instead of bare prints.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexpitcher/netline/internal/logging"
	"github.com/alexpitcher/netline/internal/netdevice"
)

// Status is a fleet host's current lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusProbing
	StatusConnected
	StatusError
)

// FleetHost tracks one device's dashboard row plus the live Device handle
// once connected.
type FleetHost struct {
	Host       string
	Family     string
	Status     Status
	Detail     string
	Err        error
	LastUpdate time.Time

	device *netdevice.Device
}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx    context.Context
	opts   netdevice.Options
	hosts  []*FleetHost
	cursor int

	probeCmd string // command run against a host on Enter, default "show version" analogue

	width, height int
	statusMsg     string
	err           error
	quitting      bool
}

type hostResultMsg struct {
	index  int
	family string
	device *netdevice.Device
	err    error
}

type commandResultMsg struct {
	index  int
	output string
	err    error
}

type tickMsg time.Time

// NewModel builds a dashboard over hosts, sharing the connection template
// in opts (Username, Password, Secret, Timeout, ...) across every host.
// opts.Host and opts.DeviceType are overridden per host. An empty
// opts.DeviceType means autodetect each host individually.
func NewModel(ctx context.Context, hosts []string, opts netdevice.Options) (*Model, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("tui: no hosts given")
	}
	fleet := make([]*FleetHost, len(hosts))
	for i, h := range hosts {
		fleet[i] = &FleetHost{Host: h, Status: StatusPending}
	}
	return &Model{
		ctx:      ctx,
		opts:     opts,
		hosts:    fleet,
		probeCmd: "show version",
	}, nil
}

func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.hosts)+2)
	cmds = append(cmds, tea.EnterAltScreen, tick())
	for i := range m.hosts {
		cmds = append(cmds, m.connectCmd(i))
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// connectCmd autodetects (if needed) and connects host i, returning a
// hostResultMsg with either the live Device or the failure.
func (m *Model) connectCmd(i int) tea.Cmd {
	host := m.hosts[i]
	opts := m.opts
	opts.Host = host.Host
	return func() tea.Msg {
		family := opts.DeviceType
		if family == "" {
			detected, err := netdevice.Autodetect(m.ctx, opts)
			if err != nil {
				return hostResultMsg{index: i, err: err}
			}
			if detected == "" {
				return hostResultMsg{index: i, err: fmt.Errorf("autodetect: no match")}
			}
			family = detected
		}
		opts.DeviceType = family

		dev, err := netdevice.Create(opts)
		if err != nil {
			return hostResultMsg{index: i, family: family, err: err}
		}
		if err := dev.Connect(m.ctx); err != nil {
			return hostResultMsg{index: i, family: family, err: err}
		}
		return hostResultMsg{index: i, family: family, device: dev}
	}
}

// runCommandCmd runs m.probeCmd against an already-connected host.
func (m *Model) runCommandCmd(i int) tea.Cmd {
	host := m.hosts[i]
	dev := host.device
	cmd := m.probeCmd
	return func() tea.Msg {
		if dev == nil {
			return commandResultMsg{index: i, err: fmt.Errorf("not connected")}
		}
		out, err := dev.SendCommand(cmd, netdevice.DefaultSendCommandOptions())
		return commandResultMsg{index: i, output: out, err: err}
	}
}

func (m *Model) disconnectAll() {
	for _, h := range m.hosts {
		if h.device != nil {
			if err := h.device.Disconnect(); err != nil {
				logging.Warnf("tui: disconnect host=%s: %v", h.Host, err)
			}
			h.device = nil
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tickMsg:
		return m, tick()

	case hostResultMsg:
		h := m.hosts[msg.index]
		h.LastUpdate = time.Now()
		if msg.err != nil {
			h.Status = StatusError
			h.Err = msg.err
			logging.Warnf("tui: connect host=%s family=%s failed: %v", h.Host, msg.family, msg.err)
			return m, nil
		}
		h.Status = StatusConnected
		h.Family = msg.family
		h.device = msg.device
		h.Err = nil
		logging.Infof("tui: connected host=%s family=%s", h.Host, h.Family)
		return m, nil

	case commandResultMsg:
		h := m.hosts[msg.index]
		h.LastUpdate = time.Now()
		if msg.err != nil {
			h.Err = msg.err
			m.statusMsg = fmt.Sprintf("%s: %v", h.Host, msg.err)
			return m, nil
		}
		h.Detail = msg.output
		h.Err = nil
		m.statusMsg = fmt.Sprintf("%s: ran %q", h.Host, m.probeCmd)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.disconnectAll()
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.hosts)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		h := m.hosts[m.cursor]
		if h.Status != StatusConnected {
			m.statusMsg = fmt.Sprintf("%s: not connected", h.Host)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("%s: running %q...", h.Host, m.probeCmd)
		return m, m.runCommandCmd(m.cursor)

	case "r":
		h := m.hosts[m.cursor]
		if h.device != nil {
			_ = h.device.Disconnect()
			h.device = nil
		}
		h.Status = StatusPending
		h.Err = nil
		return m, m.connectCmd(m.cursor)
	}
	return m, nil
}

var (
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stylePending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleCursor  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTitle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

func statusLabel(s Status) (string, lipgloss.Style) {
	switch s {
	case StatusConnected:
		return "up", styleOK
	case StatusError:
		return "down", styleErr
	case StatusProbing:
		return "probing", stylePending
	default:
		return "pending", stylePending
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render("netline fleet") + "\n\n")

	for i, h := range m.hosts {
		marker := "  "
		if i == m.cursor {
			marker = styleCursor.Render("> ")
		}
		label, style := statusLabel(h.Status)
		family := h.Family
		if family == "" {
			family = "-"
		}
		line := fmt.Sprintf("%-20s %-18s %s", h.Host, family, style.Render(label))
		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n")
	h := m.hosts[m.cursor]
	b.WriteString(styleTitle.Render(fmt.Sprintf("detail: %s", h.Host)) + "\n")
	switch {
	case h.Err != nil:
		b.WriteString(styleErr.Render(h.Err.Error()) + "\n")
	case h.Detail != "":
		b.WriteString(h.Detail)
	default:
		b.WriteString(styleDim.Render("(press enter to run " + m.probeCmd + ")\n"))
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + styleDim.Render(m.statusMsg) + "\n")
	}
	b.WriteString(styleDim.Render("\nup/down: select  enter: run command  r: reconnect  q: quit\n"))

	return b.String()
}

// Run starts the dashboard program against hosts, blocking until the user
// quits. Every connected Device is disconnected on exit.
func Run(ctx context.Context, hosts []string, opts netdevice.Options) error {
	model, err := NewModel(ctx, hosts, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	defer func() {
		if r := recover(); r != nil {
			p.ReleaseTerminal()
			fmt.Fprintf(os.Stderr, "netline dashboard crashed: %v\n", r)
			logging.Errorf("tui: PANIC: %v", r)
			model.disconnectAll()
			os.Exit(1)
		}
	}()

	_, err = p.Run()
	return err
}
