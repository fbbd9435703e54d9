package menu

import (
	"fmt"

	"github.com/sjzar/procwatch/internal/ui/style"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	// DialogPadding dialog inner padding.
	DialogPadding = 3

	// DialogHelpHeight target line height.
	DialogHelpHeight = 1

	// DialogMinWidth dialog min width.
	DialogMinWidth = 40

	// TableHeightOffset table height offset for border.
	TableHeightOffset = 3

	cmdWidthOffset = 6
)

// Item is one action of the popup, triggered by Key.
type Item struct {
	Key         string
	Name        string
	Description string
}

// Popup 进程操作菜单，只负责展示，按键由调用方处理
type Popup struct {
	*tview.Box
	title  string
	layout *tview.Flex
	table  *tview.Table
	target *tview.TextView
	width  int
	height int
	items  []*Item
}

func NewPopup(title string) *Popup {
	p := &Popup{
		Box:    tview.NewBox(),
		title:  title,
		items:  make([]*Item, 0),
		layout: tview.NewFlex(),
		table:  tview.NewTable(),
		target: tview.NewTextView(),
	}

	p.table.SetBorders(false)
	p.table.SetSelectable(false, false)
	p.table.SetBorderColor(style.DialogBorderColor)
	p.table.SetBackgroundColor(style.DialogBgColor)
	p.table.SetTitleColor(style.DialogFgColor)
	p.table.SetFixed(1, 1)

	p.setTableHeader()

	p.target.SetDynamicColors(true)
	p.target.SetTextAlign(tview.AlignCenter)
	p.target.SetTextColor(style.DialogFgColor)
	p.target.SetBackgroundColor(style.DialogBgColor)

	// 布局
	tableLayout := tview.NewFlex().SetDirection(tview.FlexColumn)
	tableLayout.AddItem(EmptyBoxSpace(style.DialogBgColor), 1, 0, false)
	tableLayout.AddItem(p.table, 0, 1, false)
	tableLayout.AddItem(EmptyBoxSpace(style.DialogBgColor), 1, 0, false)

	p.layout.SetDirection(tview.FlexRow)
	p.layout.SetTitle(fmt.Sprintf("[::b]%s", p.title))
	p.layout.SetTitleColor(style.DialogFgColor)
	p.layout.SetTitleAlign(tview.AlignCenter)
	p.layout.AddItem(p.target, DialogHelpHeight, 0, false)
	p.layout.AddItem(tableLayout, 0, 1, false)
	p.layout.SetBorder(true)
	p.layout.SetBorderColor(style.DialogBorderColor)
	p.layout.SetBackgroundColor(style.DialogBgColor)

	return p
}

func (p *Popup) setTableHeader() {
	p.table.SetCell(0, 0, tview.NewTableCell(fmt.Sprintf("[%s::b]%s", style.GetColorHex(style.TableHeaderFgColor), "Key")).
		SetBackgroundColor(style.TableHeaderBgColor).
		SetTextColor(style.TableHeaderFgColor).
		SetAlign(tview.AlignLeft).
		SetSelectable(false))

	p.table.SetCell(0, 1, tview.NewTableCell(fmt.Sprintf("[%s::b]%s", style.GetColorHex(style.TableHeaderFgColor), "Action")).
		SetExpansion(1).
		SetBackgroundColor(style.TableHeaderBgColor).
		SetTextColor(style.TableHeaderFgColor).
		SetAlign(tview.AlignLeft).
		SetSelectable(false))
}

func (p *Popup) SetItems(items []*Item) {
	p.items = items
	p.refresh()
}

// SetTarget shows the process the actions apply to.
func (p *Popup) SetTarget(pid uint32, name string) {
	p.target.SetText(fmt.Sprintf("[%s::b]%d[-:-:-] %s", style.GetColorHex(style.MenuBgColor), pid, tview.Escape(name)))
}

func (p *Popup) refresh() {
	p.table.Clear()
	p.setTableHeader()

	col1Width := 0
	col2Width := len(p.title)

	for i, item := range p.items {
		row := i + 1
		action := fmt.Sprintf("%s  %s", item.Name, item.Description)
		p.table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("[%s::b]%s", style.GetColorHex(style.MenuBgColor), item.Key)).
			SetBackgroundColor(style.DialogBgColor).
			SetAlign(tview.AlignLeft))
		p.table.SetCell(row, 1, tview.NewTableCell(action).
			SetTextColor(style.DialogFgColor).
			SetBackgroundColor(style.DialogBgColor).
			SetAlign(tview.AlignLeft))
		if len(item.Key) > col1Width {
			col1Width = len(item.Key)
		}
		if len(action) > col2Width {
			col2Width = len(action)
		}
	}

	p.width = col1Width + col2Width + 2 + cmdWidthOffset
	if p.width < DialogMinWidth {
		p.width = DialogMinWidth
	}
	p.height = len(p.items) + TableHeightOffset + DialogHelpHeight + 1
}

func (p *Popup) Draw(screen tcell.Screen) {
	p.Box.DrawForSubclass(screen, p)
	p.layout.Draw(screen)
}

func (p *Popup) SetRect(x, y, width, height int) {
	ws := (width - p.width) / 2
	hs := ((height - p.height) / 2)
	dy := y + hs
	bWidth := p.width

	if p.width > width {
		ws = 0
		bWidth = width - 1
	}

	bHeight := p.height

	if p.height >= height {
		dy = y + 1
		bHeight = height - 1
	}

	p.Box.SetRect(x+ws, dy, bWidth, bHeight)

	x, y, width, height = p.Box.GetInnerRect()

	p.layout.SetRect(x, y, width, height)
}

func EmptyBoxSpace(bgColor tcell.Color) *tview.Box {
	box := tview.NewBox()
	box.SetBackgroundColor(bgColor)
	box.SetBorder(false)

	return box
}
