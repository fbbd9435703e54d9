package proctable

import (
	"fmt"
	"strconv"

	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/ui/style"
	"github.com/sjzar/procwatch/pkg/util"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	Title = "processes"
)

var columns = []struct {
	name      string
	expansion int
	align     int
}{
	{"PID", 1, tview.AlignRight},
	{"Name", 4, tview.AlignLeft},
	{"CPU%", 1, tview.AlignRight},
	{"CPU Time", 1, tview.AlignRight},
	{"Memory", 1, tview.AlignRight},
}

// ProcTable 进程列表，选中行由外部状态决定
type ProcTable struct {
	*tview.Box
	title string
	table *tview.Table
}

func New() *ProcTable {
	t := &ProcTable{
		Box:   tview.NewBox(),
		title: Title,
		table: tview.NewTable(),
	}

	t.table.SetBorders(false)
	t.table.SetSelectable(true, false)
	t.table.SetSelectedStyle(style.TableSelectedStyle)
	t.table.SetTitle(fmt.Sprintf("[::b]%s", t.title))
	t.table.SetBorderColor(style.BorderColor)
	t.table.SetBackgroundColor(style.BgColor)
	t.table.SetTitleColor(style.FgColor)
	t.table.SetFixed(1, 0)

	t.setTableHeader()

	return t
}

func (t *ProcTable) setTableHeader() {
	for col, c := range columns {
		t.table.SetCell(0, col, tview.NewTableCell(fmt.Sprintf("[black::b]%s", c.name)).
			SetExpansion(c.expansion).
			SetBackgroundColor(style.PageHeaderBgColor).
			SetTextColor(style.PageHeaderFgColor).
			SetAlign(c.align).
			SetSelectable(false))
	}
}

// SetRecords replaces the rows and moves the cursor to selected.
func (t *ProcTable) SetRecords(records []proc.Record, selected int) {
	t.table.Clear()
	t.setTableHeader()

	for i, r := range records {
		row := i + 1
		cells := []string{
			strconv.FormatUint(uint64(r.PID), 10),
			r.Name,
			fmt.Sprintf("%.1f", r.CPUPercent),
			strconv.FormatUint(r.CPUTicks, 10),
			util.ByteCountSI(int64(r.MemoryBytes)),
		}
		for col, text := range cells {
			color := style.FgColor
			if col == 2 {
				color = style.CPUColor(r.CPUPercent)
			}
			t.table.SetCell(row, col, tview.NewTableCell(tview.Escape(text)).
				SetTextColor(color).
				SetBackgroundColor(style.BgColor).
				SetAlign(columns[col].align))
		}
	}

	if len(records) > 0 {
		t.table.Select(selected+1, 0)
	}
}

// SetTitle shows extra context, such as the active filter, in the border.
func (t *ProcTable) SetTitle(title string) {
	t.table.SetTitle(fmt.Sprintf("[::b]%s", title))
}

func (t *ProcTable) Rows() int {
	return t.table.GetRowCount() - 1
}

func (t *ProcTable) Selected() int {
	row, _ := t.table.GetSelection()
	return row - 1
}

func (t *ProcTable) Draw(screen tcell.Screen) {
	t.Box.DrawForSubclass(screen, t)
	t.Box.SetBorder(false)

	x, y, w, h := t.GetInnerRect()

	t.table.SetRect(x, y, w, h)
	t.table.SetBorder(true).SetBorderColor(style.BorderColor)

	t.table.Draw(screen)
}
