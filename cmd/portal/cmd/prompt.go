package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// isInteractive reports whether in is a terminal (not piped).
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

type field struct {
	title  string
	value  *string
	secret bool
}

// fill prompts for every field that is still empty. Without a terminal the empty fields
// are left as they are so validation reports them.
func (a *app) fill(fields ...field) error {
	var inputs []huh.Field
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		input := huh.NewInput().Title(f.title).Value(f.value)
		if f.secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 || !a.interactive {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
