//go:build !windows
// +build !windows

package style

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var (
	// infobar.
	InfoBarItemFgColor = tcell.ColorSilver
	// main views.
	FgColor              = tcell.ColorFloralWhite
	BgColor              = tview.Styles.PrimitiveBackgroundColor
	BorderColor          = tcell.NewRGBColor(135, 175, 146) //nolint:mnd
	HelpHeaderFgColor    = tcell.NewRGBColor(135, 175, 146) //nolint:mnd
	MenuBgColor          = tcell.ColorMediumSeaGreen
	PageHeaderBgColor    = tcell.ColorMediumSeaGreen
	PageHeaderFgColor    = tcell.ColorFloralWhite
	RunningStatusFgColor = tcell.NewRGBColor(95, 215, 0)  //nolint:mnd
	PausedStatusFgColor  = tcell.NewRGBColor(255, 175, 0) //nolint:mnd
	ErrorStatusFgColor   = tcell.NewRGBColor(215, 0, 0)   //nolint:mnd
	// dialogs.
	DialogBgColor     = tcell.NewRGBColor(38, 38, 38) //nolint:mnd
	DialogBorderColor = tcell.ColorMediumSeaGreen
	DialogFgColor     = tcell.ColorFloralWhite
	// table.
	TableHeaderBgColor = tcell.ColorMediumSeaGreen
	TableHeaderFgColor = tcell.ColorFloralWhite
	TableSelectedStyle = tcell.StyleDefault.Background(tcell.ColorLightSlateGray).Foreground(tcell.ColorWhite)
	// cpu usage.
	CPUIdleColor = tcell.ColorFloralWhite
	CPUOKColor   = tcell.ColorGreen
	CPUWarnColor = tcell.ColorOrange
	CPUCritColor = tcell.ColorRed
)

// CPU usage thresholds in percent of one core.
const (
	CPUWarnPercent = 50
	CPUCritPercent = 90
)

// CPUColor returns the color used to render a cpu percentage.
func CPUColor(percent float64) tcell.Color {
	switch {
	case percent >= CPUCritPercent:
		return CPUCritColor
	case percent >= CPUWarnPercent:
		return CPUWarnColor
	case percent > 0:
		return CPUOKColor
	default:
		return CPUIdleColor
	}
}

// GetColorHex returns convert tcell color to its hex useful for textview primitives.
func GetColorHex(color tcell.Color) string {
	return fmt.Sprintf("#%x", color.Hex())
}
