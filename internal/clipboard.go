package internal

import "github.com/atotto/clipboard"

// Clipboard receives copied chapter summaries
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

// WriteText implements Clipboard
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// SystemClipboardAvailable reports whether the OS clipboard can be used
func SystemClipboardAvailable() bool {
	return !clipboard.Unsupported
}
