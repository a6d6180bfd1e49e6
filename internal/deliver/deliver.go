// Package deliver fans a generated prompt out to its sinks. Stdout and the
// file sink are part of the contract; clipboard and browser are best-effort
// and never change the outcome.
package deliver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
)

// StudioURL is the companion page opened by --open; the prompt is meant to
// be pasted there.
const StudioURL = "https://aistudio.google.com/prompts/new_image"

// Record is the structured form of a result, written when JSON output is
// requested.
type Record struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
	Image  string `json:"image"`
	Model  string `json:"model"`
}

type Options struct {
	Style     string
	Image     string
	Model     string
	File      string
	JSON      bool
	Clipboard bool
	Browser   bool
}

type Deliverer struct {
	Out       io.Writer
	Err       io.Writer
	Clipboard Clipboard
	OpenURL   func(url string) error
}

func New() *Deliverer {
	return &Deliverer{
		Out:       os.Stdout,
		Err:       os.Stderr,
		Clipboard: SystemClipboard(),
		OpenURL:   browser.OpenURL,
	}
}

// Deliver writes text to every requested sink. Stdout always happens, file
// errors are fatal, clipboard and browser failures are only noted on Err.
func (d *Deliverer) Deliver(text string, opts Options) error {
	payload := text
	if opts.JSON {
		encoded, err := json.MarshalIndent(Record{
			Prompt: text,
			Style:  opts.Style,
			Image:  opts.Image,
			Model:  opts.Model,
		}, "", "  ")
		if err != nil {
			return err
		}
		payload = string(encoded)
	}

	fmt.Fprintln(d.Out, payload)

	if opts.File != "" {
		if err := os.WriteFile(opts.File, []byte(payload+"\n"), 0644); err != nil {
			return fmt.Errorf("could not write output file: %w", err)
		}
	}

	if opts.Clipboard {
		if err := d.Clipboard.WriteAll(text); err != nil {
			fmt.Fprintln(d.Err, "could not copy to clipboard:", err)
		}
	}

	if opts.Browser {
		if err := d.OpenURL(StudioURL); err != nil {
			fmt.Fprintln(d.Err, "could not open browser:", err)
		}
	}

	return nil
}
