package help

import (
	"fmt"

	"github.com/sjzar/procwatch/internal/ui/style"

	"github.com/rivo/tview"
)

const (
	Title     = "help"
	ShowTitle = "Help"
	Content   = `[yellow]procwatch[white]

A live process monitor. The process table is sampled every poll interval
(default 1s) and CPU usage is derived from the change in CPU ticks between
the last two samples, as a percentage of one core.

[green]Process list:[white]
• [yellow]j[white] / [yellow]↓[white] and [yellow]k[white] / [yellow]↑[white] move the selection
• [yellow]←[white] sorts by PID descending, [yellow]→[white] ascending
• [yellow]/[white] starts filtering by name, case-insensitive, applied as you type
• [yellow]Esc[white] leaves filter mode and keeps the filter
• [yellow]r[white] reloads the process table now
• [yellow]Enter[white] opens the action menu for the selected process
• [yellow]q[white] or [yellow]Ctrl+C[white] quits

[green]Action menu:[white]
• [yellow]k[white] sends SIGKILL to the selected process
• [yellow]b[white] or [yellow]Esc[white] returns to the list
A failed kill (permission denied, process already gone) is shown in the status line.

[green]HTTP API:[white]
• [yellow]GET http://localhost:4242/processes[white] returns the list currently shown, as JSON

[green]MCP:[white]
Run [yellow]procwatch mcp[white] to expose list_processes and kill_process to an MCP client over stdio.

[green]Configuration:[white]
~/.procwatch/procwatch.json, or environment variables prefixed with PROCWATCH_.
Changes to poll_interval and kill_grace are applied while running.

Press [yellow]F1[white] to return.
`
)

type Help struct {
	*tview.TextView
	title string
}

func New() *Help {
	help := &Help{
		TextView: tview.NewTextView(),
		title:    Title,
	}

	help.SetDynamicColors(true)
	help.SetRegions(true)
	help.SetWrap(true)
	help.SetTextAlign(tview.AlignLeft)
	help.SetBorder(true)
	help.SetBorderColor(style.BorderColor)
	help.SetTitle(ShowTitle)

	fmt.Fprint(help, Content)

	return help
}
