package procwatch

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/sjzar/procwatch/internal/proc"
	"github.com/sjzar/procwatch/internal/state"
	"github.com/sjzar/procwatch/internal/ui/footer"
	"github.com/sjzar/procwatch/internal/ui/help"
	"github.com/sjzar/procwatch/internal/ui/infobar"
	"github.com/sjzar/procwatch/internal/ui/menu"
	"github.com/sjzar/procwatch/internal/ui/proctable"
	"github.com/sjzar/procwatch/internal/ui/style"
	"github.com/sjzar/procwatch/pkg/util"
)

const (
	pageMain  = "main"
	pagePopup = "popup"
	tabTable  = "table"
	tabHelp   = "help"
)

// sysInfo 主机信息，在刷新协程中采集，在界面协程中展示
type sysInfo struct {
	host   string
	uptime string
	cpus   int
	load   string
	memory string
}

type App struct {
	*tview.Application

	m           *Manager
	store       *state.Store
	controller  *Controller
	stopRefresh chan struct{}
	redraw      chan struct{}

	// page
	mainPages *tview.Pages
	infoBar   *infobar.InfoBar
	tabPages  *tview.Pages
	footer    *footer.Footer

	// tab
	table    *proctable.ProcTable
	help     *help.Help
	popup    *menu.Popup
	showHelp bool

	sys sysInfo
}

func NewApp(m *Manager) *App {
	app := &App{
		m:           m,
		store:       m.store,
		controller:  m.controller,
		Application: tview.NewApplication(),
		stopRefresh: make(chan struct{}),
		redraw:      make(chan struct{}, 1),
		mainPages:   tview.NewPages(),
		infoBar:     infobar.New(),
		tabPages:    tview.NewPages(),
		footer:      footer.New(),
		table:       proctable.New(),
		help:        help.New(),
		popup:       menu.NewPopup("Process"),
	}

	app.popup.SetItems([]*menu.Item{
		{Key: "k", Name: "Kill", Description: "send SIGKILL to the process"},
		{Key: "b", Name: "Back", Description: "return to the list"},
	})

	return app
}

func (a *App) Run() error {

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.infoBar, infobar.InfoBarViewHeight, 0, false).
		AddItem(a.tabPages, 0, 1, true).
		AddItem(a.footer, 1, 1, false)

	a.mainPages.
		AddPage(pageMain, flex, true, true).
		AddPage(pagePopup, a.popup, true, false)

	a.tabPages.
		AddPage(tabTable, a.table, true, true).
		AddPage(tabHelp, a.help, true, false)

	a.SetInputCapture(a.inputCapture)

	a.sys = collectSysInfo()
	a.render()

	go a.refresh()

	if err := a.SetRoot(a.mainPages, true).EnableMouse(false).Run(); err != nil {
		return err
	}

	return nil
}

func (a *App) Stop() {
	select {
	case <-a.stopRefresh:
	default:
		close(a.stopRefresh)
	}
	a.Application.Stop()
}

// Redraw schedules a render on the UI goroutine without waiting for it.
func (a *App) Redraw() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

func (a *App) refresh() {
	tick := time.NewTicker(a.m.conf.GetConfig().RefreshInterval)
	defer tick.Stop()

	for {
		select {
		case <-a.stopRefresh:
			return
		case <-a.redraw:
			a.queueDraw(a.render)
		case <-tick.C:
			info := collectSysInfo()
			a.queueDraw(func() {
				a.sys = info
				a.render()
			})
		}
	}
}

// queueDraw 在界面协程中执行 f，界面停止后立即返回
func (a *App) queueDraw(f func()) {
	select {
	case <-a.stopRefresh:
		return
	default:
	}

	done := make(chan struct{})
	go func() {
		a.QueueUpdateDraw(f)
		close(done)
	}()

	select {
	case <-done:
	case <-a.stopRefresh:
	}
}

func collectSysInfo() sysInfo {
	var info sysInfo
	if h, err := host.Info(); err == nil {
		info.host = h.Hostname
		info.uptime = util.FormatUptime(time.Duration(h.Uptime) * time.Second)
	} else {
		log.Debug().Err(err).Msg("read host info failed")
	}
	info.cpus = proc.LogicalCPUs()
	if avg, err := load.Avg(); err == nil {
		info.load = fmt.Sprintf("%.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.memory = fmt.Sprintf("%s / %s (%.1f%%)",
			util.ByteCountSI(int64(vm.Used)), util.ByteCountSI(int64(vm.Total)), vm.UsedPercent)
	}
	return info
}

// render 从共享状态重绘界面，只能在界面协程中调用
func (a *App) render() {
	var (
		records  []proc.Record
		total    int
		selected int
		filter   string
		order    state.Order
		mode     state.Mode
		status   state.Status
		target   proc.Record
		hasSel   bool
	)
	err := a.store.View(func(s *state.State) {
		records = s.Processes()
		total = len(s.All())
		selected = s.Selected()
		filter = s.Filter()
		order = s.Order()
		mode = s.Mode()
		status = s.Status()
		target, hasSel = s.SelectedRecord()
	})

	a.infoBar.UpdateHost(a.sys.host, a.sys.uptime)
	a.infoBar.UpdateCPU(a.sys.cpus, a.sys.load)
	a.infoBar.UpdateMemory(a.sys.memory)

	conf := a.m.conf.GetConfig()
	if a.m.httpRunning() {
		a.infoBar.UpdateHTTPServer(fmt.Sprintf("[green][running][white] [%s]", conf.GetHTTPAddr()))
	} else {
		a.infoBar.UpdateHTTPServer("[stopped]")
	}

	if err != nil {
		a.infoBar.UpdateStatus(fmt.Sprintf("[%s]state unavailable: %v[white]", style.GetColorHex(style.ErrorStatusFgColor), err))
		return
	}

	a.table.SetRecords(records, selected)
	a.table.SetTitle(fmt.Sprintf("%s (%d)", proctable.Title, len(records)))
	a.infoBar.UpdateProcesses(len(records), total)
	a.infoBar.UpdateSort(fmt.Sprintf("PID %s", order))

	switch {
	case mode == state.Filtering:
		a.infoBar.UpdateFilter(fmt.Sprintf("%s[::b]_[::-]", tview.Escape(filter)))
	case filter == "":
		a.infoBar.UpdateFilter("-")
	default:
		a.infoBar.UpdateFilter(tview.Escape(filter))
	}

	switch {
	case status.Text == "":
		a.infoBar.UpdateStatus("")
	case status.Error:
		a.infoBar.UpdateStatus(fmt.Sprintf("[%s]%s[white]", style.GetColorHex(style.ErrorStatusFgColor), tview.Escape(status.Text)))
	default:
		a.infoBar.UpdateStatus(tview.Escape(status.Text))
	}

	switch mode {
	case state.Filtering:
		a.footer.SetKeys(footer.FilterKeys)
	case state.ProcessMenu:
		a.footer.SetKeys(footer.MenuKeys)
	default:
		a.footer.SetKeys(footer.NormalKeys)
	}

	if mode == state.ProcessMenu && hasSel {
		a.popup.SetTarget(target.PID, target.Name)
		a.mainPages.ShowPage(pagePopup)
	} else {
		a.mainPages.HidePage(pagePopup)
	}
}

func (a *App) toggleHelp() {
	a.showHelp = !a.showHelp
	if a.showHelp {
		a.tabPages.SwitchToPage(tabHelp)
	} else {
		a.tabPages.SwitchToPage(tabTable)
	}
}

func (a *App) inputCapture(event *tcell.EventKey) *tcell.EventKey {

	switch event.Key() {
	case tcell.KeyCtrlC:
		a.m.Stop()
		return nil
	case tcell.KeyF1:
		a.toggleHelp()
		return nil
	}

	// 帮助页面只响应滚动
	if a.showHelp {
		if event.Key() == tcell.KeyEscape {
			a.toggleHelp()
			return nil
		}
		return event
	}

	if _, err := a.controller.HandleKey(event); err != nil {
		log.Debug().Err(err).Msg("handle key failed")
	}
	a.render()
	return nil
}
