package deliver

import "github.com/atotto/clipboard"

// Clipboard abstracts the platform clipboard so delivery stays
// platform-agnostic.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

type noopClipboard struct{}

func (noopClipboard) WriteAll(string) error { return nil }

// SystemClipboard returns the platform clipboard, or a silent no-op where no
// clipboard utility is available (e.g. headless Linux without xclip).
func SystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return noopClipboard{}
	}
	return systemClipboard{}
}
