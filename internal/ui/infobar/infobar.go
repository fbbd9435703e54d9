package infobar

import (
	"fmt"

	"github.com/sjzar/procwatch/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title = "infobar"
)

// InfoBarViewHeight info bar height.
const (
	InfoBarViewHeight = 5
	hostRow           = 0
	cpuRow            = 1
	memoryRow         = 2
	serverRow         = 3
	statusRow         = 4

	// 列索引
	labelCol1 = 0 // 第一列标签
	valueCol1 = 1 // 第一列值
	labelCol2 = 2 // 第二列标签
	valueCol2 = 3 // 第二列值
)

var labels = [InfoBarViewHeight][2]string{
	hostRow:   {"Host:", "Uptime:"},
	cpuRow:    {"CPUs:", "Load:"},
	memoryRow: {"Memory:", "Processes:"},
	serverRow: {"HTTP Server:", "Sort:"},
	statusRow: {"Filter:", "Status:"},
}

// InfoBar implements the info bar primitive.
type InfoBar struct {
	*tview.Box
	title string
	table *tview.Table
}

// New returns info bar view.
func New() *InfoBar {
	table := tview.NewTable()
	headerColor := style.InfoBarItemFgColor

	for row, pair := range labels {
		table.SetCell(row, labelCol1, tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, pair[0])))
		table.SetCell(row, valueCol1, tview.NewTableCell("").SetExpansion(1))
		table.SetCell(row, labelCol2, tview.NewTableCell(fmt.Sprintf(" [%s::]%s", headerColor, pair[1])))
		table.SetCell(row, valueCol2, tview.NewTableCell("").SetExpansion(1))
	}

	infoBar := &InfoBar{
		Box:   tview.NewBox(),
		title: Title,
		table: table,
	}

	return infoBar
}

func (info *InfoBar) UpdateHost(host string, uptime string) {
	info.table.GetCell(hostRow, valueCol1).SetText(host)
	info.table.GetCell(hostRow, valueCol2).SetText(uptime)
}

func (info *InfoBar) UpdateCPU(cpus int, load string) {
	info.table.GetCell(cpuRow, valueCol1).SetText(fmt.Sprintf("%d", cpus))
	info.table.GetCell(cpuRow, valueCol2).SetText(load)
}

func (info *InfoBar) UpdateMemory(memory string) {
	info.table.GetCell(memoryRow, valueCol1).SetText(memory)
}

func (info *InfoBar) UpdateProcesses(shown, total int) {
	info.table.GetCell(memoryRow, valueCol2).SetText(fmt.Sprintf("%d / %d", shown, total))
}

// UpdateHTTPServer updates HTTP Server value.
func (info *InfoBar) UpdateHTTPServer(server string) {
	info.table.GetCell(serverRow, valueCol1).SetText(server)
}

func (info *InfoBar) UpdateSort(order string) {
	info.table.GetCell(serverRow, valueCol2).SetText(order)
}

func (info *InfoBar) UpdateFilter(filter string) {
	info.table.GetCell(statusRow, valueCol1).SetText(filter)
}

func (info *InfoBar) UpdateStatus(status string) {
	info.table.GetCell(statusRow, valueCol2).SetText(status)
}

// Draw draws this primitive onto the screen.
func (info *InfoBar) Draw(screen tcell.Screen) {
	info.Box.DrawForSubclass(screen, info)
	info.Box.SetBorder(false)

	x, y, width, height := info.GetInnerRect()

	info.table.SetRect(x, y, width, height)
	info.table.SetBorder(false)
	info.table.Draw(screen)
}
