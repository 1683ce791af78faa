package ui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// writeClipboard is swapped out in tests
var writeClipboard = func(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard available (install xclip, xsel, or wl-clipboard)")
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard copies the given text to the system clipboard
func CopyToClipboard(text string) error {
	if text == "" {
		return fmt.Errorf("cannot copy empty text to clipboard")
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
