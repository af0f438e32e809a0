package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jrsteele09/go-game-portal/authflow"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/internal/i18n"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(16)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func (a *app) notice(n authflow.Notice) {
	style := infoStyle
	switch n.Kind {
	case authflow.NoticeSuccess:
		style = successStyle
	case authflow.NoticeError:
		style = errorStyle
	}
	fmt.Fprintln(a.out, style.Render(n.Text))
}

// outcome prints the notice of a flow transition and turns a failed transition into a
// non-zero exit without printing the error twice.
func (a *app) outcome(n authflow.Notice, err error) error {
	a.notice(n)
	if err != nil {
		return silentError{err}
	}
	return nil
}

// pageError renders a page call failure. Unauthenticated errors point the user at login.
func (a *app) pageError(err error) error {
	switch {
	case errors.Is(err, errors.ErrUnauthenticated):
		fmt.Fprintln(a.out, errorStyle.Render(a.loc.T(i18n.PleaseLogIn)), infoStyle.Render("portal login"))
	case errors.IsValidation(err):
		fmt.Fprintln(a.out, errorStyle.Render(err.Error()))
	case errors.IsTransport(err):
		fmt.Fprintln(a.out, errorStyle.Render(a.loc.T(i18n.NetworkFailure)))
	default:
		if be, ok := errors.AsBackend(err); ok && be.Message != "" {
			fmt.Fprintln(a.out, errorStyle.Render(be.Message))
		} else {
			fmt.Fprintln(a.out, errorStyle.Render(a.loc.T(i18n.RequestFailed)))
		}
	}
	return silentError{err}
}

func (a *app) row(label string, value any) {
	fmt.Fprintln(a.out, labelStyle.Render(label)+fmt.Sprint(value))
}

func (a *app) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(a.out, t.Render())
}

// silentError has already been shown to the user; Execute only sets the exit code.
type silentError struct {
	err error
}

func (e silentError) Error() string { return e.err.Error() }

func (e silentError) Unwrap() error { return e.err }
