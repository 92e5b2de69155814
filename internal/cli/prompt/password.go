package prompt

import (
	"github.com/manifoldco/promptui"
)

// Password prompts for a password input with masking.
// The result is returned verbatim; an empty password is allowed and is
// rejected by the backend.
func Password(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	result, err := prompt.Run()
	return result, wrapError(err)
}
