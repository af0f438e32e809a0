package server

import "github.com/charmbracelet/lipgloss"

var (
	grayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pathStyle  = lipgloss.NewStyle().Bold(true)
	statusOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var methodColors = map[string]lipgloss.Style{
	"GET":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"POST":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	"PUT":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"DELETE": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"PATCH":  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
}

func methodStyle(method string) lipgloss.Style {
	if style, ok := methodColors[method]; ok {
		return style
	}
	return grayStyle
}

func statusStyle(status int) lipgloss.Style {
	switch {
	case status >= 500:
		return redStyle
	case status >= 400:
		return statusWarn
	default:
		return statusOK
	}
}
