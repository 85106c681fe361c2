package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/poap/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// commandBar is the persistent text input at the bottom of the TUI.
// It handles command entry, autocomplete suggestions, and history navigation.
type commandBar struct {
	input   textinput.Model
	state   *SharedState
	focused bool

	history    []string
	historyIdx int
}

// commandNames lists what the bar understands, for suggestions and help.
var commandNames = []string{"export", "phase", "summary", "months", "help", "quit"}

func newCommandBar(state *SharedState) commandBar {
	ti := textinput.New()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 500
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	return commandBar{
		input: ti,
		state: state,
	}
}

// Focus gives focus to the command bar.
func (c *commandBar) Focus() {
	c.focused = true
	c.input.Focus()
}

// Blur removes focus from the command bar.
func (c *commandBar) Blur() {
	c.focused = false
	c.input.Blur()
}

// Focused returns whether the command bar has focus.
func (c *commandBar) Focused() bool {
	return c.focused
}

// SetWidth updates the input width for terminal resizing.
func (c *commandBar) SetWidth(w int) {
	c.input.Width = w - len(promptPlain) - 1
}

// Update handles key messages when the command bar is focused.
func (c *commandBar) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(c.input.Value())
		c.input.Reset()
		c.input.SetSuggestions(nil)
		if input == "" {
			return nil
		}
		c.addHistory(input)
		return c.executeCommand(input)

	case tea.KeyUp:
		c.historyUp()
		return nil

	case tea.KeyDown:
		c.historyDown()
		return nil

	case tea.KeyEsc:
		c.Blur()
		return nil

	default:
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		c.updateSuggestions()
		return cmd
	}
}

// UpdateNonKey handles non-key messages (e.g., cursor blink).
func (c *commandBar) UpdateNonKey(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

const promptPlain = "poap > "

// View renders the command bar.
func (c *commandBar) View() string {
	prefix := formatter.StylePurple.Render("poap") + " " + formatter.Dim("❯") + " "
	if !c.focused {
		return prefix + formatter.Dim("press : to type a command")
	}
	return prefix + c.input.View()
}

// ── history ──────────────────────────────────────────────────────────────────

func (c *commandBar) addHistory(line string) {
	c.history = append(c.history, line)
	c.historyIdx = len(c.history)
}

func (c *commandBar) historyUp() {
	if c.historyIdx > 0 {
		c.historyIdx--
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	}
}

func (c *commandBar) historyDown() {
	if c.historyIdx < len(c.history)-1 {
		c.historyIdx++
		c.input.SetValue(c.history[c.historyIdx])
		c.input.CursorEnd()
	} else {
		c.historyIdx = len(c.history)
		c.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

func (c *commandBar) updateSuggestions() {
	text := c.input.Value()
	parts := strings.Fields(text)
	if len(parts) == 0 {
		c.input.SetSuggestions(nil)
		return
	}
	if len(parts) == 1 && !strings.HasSuffix(text, " ") {
		c.input.SetSuggestions(filterSuggestions(commandNames, parts[0]))
		return
	}
	switch strings.ToLower(parts[0]) {
	case "phase":
		var phases []string
		for i, n := 0, c.state.PhaseCount(); i < n; i++ {
			phases = append(phases, "phase "+strconv.Itoa(i+1))
		}
		c.input.SetSuggestions(filterSuggestions(phases, text))
		return
	case "export":
		c.input.SetSuggestions(filterSuggestions([]string{"export " + c.state.App.Config.ExportFile}, text))
		return
	}
	c.input.SetSuggestions(nil)
}

func filterSuggestions(options []string, prefix string) []string {
	var out []string
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o), strings.ToLower(prefix)) {
			out = append(out, o)
		}
	}
	return out
}

// ── dispatch ─────────────────────────────────────────────────────────────────

// executeCommand dispatches a text command and returns a tea.Cmd.
func (c *commandBar) executeCommand(input string) tea.Cmd {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	app := c.state.App

	switch cmd {
	case "export":
		if len(args) == 0 {
			c.Blur()
			return startExportWizard(c.state)
		}
		path := strings.Join(args, " ")
		if err := validateExportPath(path); err != nil {
			return outputCmd(formatter.Error(err))
		}
		return exportFromTUI(app, path)

	case "phase":
		if len(args) != 1 {
			return outputCmd(formatter.Error(fmt.Errorf("usage: phase 1|2")))
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > c.state.PhaseCount() {
			return outputCmd(formatter.Error(fmt.Errorf("phase %q does not exist (use 1 or 2)", args[0])))
		}
		c.Blur()
		return switchPhase(n)

	case "summary":
		return func() tea.Msg {
			s, err := app.Summary.PlanSummary(context.Background())
			if err != nil {
				return cmdOutputMsg{output: formatter.Error(err)}
			}
			return cmdOutputMsg{output: formatter.FormatPlanSummary(app.Config.Title, app.Config.Caption, s)}
		}

	case "months":
		return outputCmd(formatter.FormatMonths(app.Plan.Horizon()))

	case "help":
		return outputCmd(commandHelp())

	case "quit", "exit", "q":
		return func() tea.Msg { return quitMsg{} }

	default:
		return outputCmd(fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd))
	}
}

func commandHelp() string {
	rows := [][]string{
		{"export [file]", "write the allocation table (dialog when no file is given)"},
		{"phase 1|2", "switch phase tab"},
		{"summary", "phase totals, peaks, burn rates and grand total"},
		{"months", "list the horizon"},
		{"quit", "leave the editor"},
	}
	return formatter.RenderTable([]string{"COMMAND", "DESCRIPTION"}, rows)
}
