package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func PromptConfirm(command *cobra.Command, prompt string, description string, defaultYes bool) (bool, error) {
	if !IsInteractiveTerminal(command) {
		return false, ValidationError("interactive terminal is required", nil)
	}

	value := defaultYes
	field := huh.NewConfirm().
		Title(normalizePrompt(prompt)).
		Affirmative("Yes").
		Negative("No").
		Value(&value)
	if strings.TrimSpace(description) != "" {
		field.Description(description)
	}

	if err := runInteractiveField(command, field); err != nil {
		return false, err
	}
	return value, nil
}

func runInteractiveField(command *cobra.Command, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ValidationError("interactive prompt interrupted", nil)
	}
	return err
}

func normalizePrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	title = strings.TrimSuffix(title, ":")
	if title == "" {
		return "Confirm"
	}
	return title
}
