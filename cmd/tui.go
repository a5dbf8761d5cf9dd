// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/mppsolar/pkg/mppsolar"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive checksum calculator",
	Long: `Type a command string and watch its checksum update as you type.

Keys:
  enter   add the current input to the history
  tab     switch between text and hex input
  esc     quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// History entry
type historyEntry struct {
	timestamp time.Time
	data      []byte
	sum       mppsolar.Checksum
	fixup     bool
}

// TUI model
type model struct {
	input      textinput.Model
	hexMode    bool
	history    []historyEntry
	maxHistory int
	stats      *mppsolar.Statistics
	width      int
	height     int
	quitting   bool
}

func initialModel() model {
	ti := textinput.New()
	ti.Placeholder = "QPIGS"
	ti.CharLimit = mppsolar.MaxLength * 3 // hex input uses up to 3 chars per byte
	ti.Width = 48
	ti.Focus()

	return model{
		input:      ti,
		history:    make([]historyEntry, 0),
		maxHistory: 50,
		stats:      mppsolar.NewStatistics(),
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// current parses the input box, returning nil data for empty or invalid input
func (m model) current() ([]byte, error) {
	value := m.input.Value()
	if value == "" {
		return nil, nil
	}
	return parseInput(value, m.hexMode)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyTab:
			m.hexMode = !m.hexMode
			if m.hexMode {
				m.input.Placeholder = "51 50 49 47 53"
			} else {
				m.input.Placeholder = "QPIGS"
			}
			return m, nil

		case tea.KeyEnter:
			data, err := m.current()
			if err == nil && data != nil {
				m.addHistory(data)
				m.input.SetValue("")
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) addHistory(data []byte) {
	sum := mppsolar.Calculate(data)
	entry := historyEntry{
		timestamp: time.Now(),
		data:      data,
		sum:       sum,
		fixup:     uint16(sum) != mppsolar.CalculateRaw(data),
	}
	m.history = append(m.history, entry)
	m.stats.Update(nil)
	m.stats.RecordFixup(data)

	// Keep only last N entries
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("MPP-SOLAR CHECKSUM"))
	s.WriteString("\n")
	mode := "text"
	if m.hexMode {
		mode = "hex"
	}
	s.WriteString(mutedStyle.Render(fmt.Sprintf("Input: %s | tab: switch input | enter: save | esc: quit", mode)))
	s.WriteString("\n\n")

	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	// Live result
	result := strings.Builder{}
	data, err := m.current()
	switch {
	case err != nil:
		result.WriteString(errorStyle.Render(err.Error()))
	case data == nil:
		result.WriteString(mutedStyle.Render("(type a command)"))
	default:
		raw := mppsolar.CalculateRaw(data)
		sum := mppsolar.ApplyFixup(raw)
		result.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Checksum:"), valueStyle.Render(sum.String()),
			labelStyle.Render("Raw:"), valueStyle.Render(fmt.Sprintf("0x%04X", raw)),
		))
		frame := sum.AppendTo(append([]byte(nil), data...))
		result.WriteString(fmt.Sprintf("%s %s",
			labelStyle.Render("Wire:"), valueStyle.Render(mppsolar.FormatHex(frame)),
		))
		if uint16(sum) != raw {
			result.WriteString("\n")
			result.WriteString(warningStyle.Render("Delimiter fixup applied"))
		}
	}
	s.WriteString(boxStyle.Render(result.String()))
	s.WriteString("\n\n")

	// History
	s.WriteString(labelStyle.Render("History:"))
	s.WriteString(mutedStyle.Render(fmt.Sprintf("  %d saved, %d with fixup", m.stats.Total, m.stats.Fixups)))
	s.WriteString("\n")

	historyHeight := m.height - 14
	if historyHeight < 3 {
		historyHeight = 3
	}
	startIdx := len(m.history) - historyHeight
	if startIdx < 0 {
		startIdx = 0
	}

	historyContent := strings.Builder{}
	if len(m.history) == 0 {
		historyContent.WriteString(mutedStyle.Render("  (no entries yet)"))
	} else {
		for i := startIdx; i < len(m.history); i++ {
			entry := m.history[i]
			line := fmt.Sprintf("%s %s",
				mutedStyle.Render(entry.timestamp.Format("15:04:05")),
				mppsolar.FormatResult(entry.data, entry.sum),
			)
			if entry.fixup {
				line = warningStyle.Render(line)
			}
			historyContent.WriteString(line)
			if i < len(m.history)-1 {
				historyContent.WriteString("\n")
			}
		}
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	s.WriteString(boxStyle.Width(width).Render(historyContent.String()))

	return s.String()
}
