package footer

import (
	"fmt"
	"strings"

	"github.com/sjzar/procwatch/internal/ui/style"
	"github.com/sjzar/procwatch/pkg/version"

	"github.com/rivo/tview"
)

const (
	Title = "footer"
)

// key bindings shown per mode
var (
	NormalKeys = [][2]string{
		{"j/k ↑/↓", "move"},
		{"←/→", "sort desc/asc"},
		{"Enter", "actions"},
		{"/", "filter"},
		{"r", "reload"},
		{"F1", "help"},
		{"q", "quit"},
	}
	FilterKeys = [][2]string{
		{"type", "filter"},
		{"Backspace", "delete"},
		{"Esc", "done"},
	}
	MenuKeys = [][2]string{
		{"k", "kill"},
		{"b", "back"},
	}
)

type Footer struct {
	*tview.Flex
	title     string
	copyRight *tview.TextView
	help      *tview.TextView
}

func New() *Footer {
	footer := &Footer{
		Flex:      tview.NewFlex(),
		title:     Title,
		copyRight: tview.NewTextView(),
		help:      tview.NewTextView(),
	}

	footer.copyRight.
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignLeft)
	footer.copyRight.
		SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	footer.copyRight.SetText(fmt.Sprintf("[%s::b]%s[-:-:-]", style.GetColorHex(style.PageHeaderFgColor), fmt.Sprintf(" @ procwatch %s", version.Version)))

	footer.help.
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignRight)
	footer.help.
		SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	footer.SetKeys(NormalKeys)

	footer.
		AddItem(footer.copyRight, 0, 1, false).
		AddItem(footer.help, 0, 2, false)

	return footer
}

// FormatKeys renders key/description pairs in the footer colors.
func FormatKeys(keys [][2]string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("[%s::b]%s[%s::b]: %s",
			style.GetColorHex(style.MenuBgColor), k[0],
			style.GetColorHex(style.PageHeaderFgColor), k[1]))
	}
	return strings.Join(parts, "  ")
}

func (f *Footer) SetKeys(keys [][2]string) {
	f.help.SetText(FormatKeys(keys))
}
