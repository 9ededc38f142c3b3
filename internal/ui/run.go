package ui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the bubbletea program and blocks until the user quits or
// an unrecoverable error occurs. Terminal restoration on every exit
// path, including a panic inside Update/View, is bubbletea's own
// responsibility (it disables raw mode, leaves the alternate screen,
// and shows the cursor before propagating); the outer recover here only
// guards the thin setup/teardown code that runs outside the bubbletea
// loop itself, per spec §4.7's "scoped guard that runs even on panic".
func Run(m *Model) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "mqttui: recovered panic: %v\n", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
