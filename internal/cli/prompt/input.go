// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// ErrEmpty is returned by validators when a required value is blank.
var ErrEmpty = errors.New("value is required")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError converts promptui interrupt/abort errors to ErrAborted for consistent handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// required rejects blank input.
func required(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmpty
	}
	return nil
}

// Username prompts for a non-blank username, pre-filled with defaultValue.
func Username(defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:    "Username",
		Default:  defaultValue,
		Validate: required,
	}

	result, err := prompt.Run()
	return strings.TrimSpace(result), wrapError(err)
}
