package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// getSpinner returns spinner glyphs and frame delay in milliseconds;
// just for fun, these vary with the provider and model
func getSpinner(providerName, modelName string) (glyphs []string, speed int) {
	searchText := strings.ToLower(providerName + " " + modelName)

	switch {
	case strings.Contains(searchText, "mock"):
		glyphs = []string{"·", "•", "●", "•"}
		speed = 250
	case strings.Contains(searchText, "gpt-oss"):
		glyphs = []string{
			"⠋", "⠙", "⠚", "⠒", "⠂", "⠂", "⠒", "⠲",
			"⠴", "⠦", "⠖", "⠒", "⠐", "⠐", "⠒", "⠓", "⠋",
		}
		speed = 125
	case strings.Contains(searchText, "ollama"):
		glyphs = []string{"◜", "◠", "◝", "◞", "◡", "◟"}
		speed = 333
	default:
		glyphs = []string{
			"⠄", "⠆", "⠇", "⠋", "⠙", "⠸", "⠰",
			"⠠", "⠰", "⠸", "⠙", "⠋", "⠇", "⠆",
		}
		speed = 200
	}
	return
}

// startSpinner animates "<glyph> <model> is generating..." on w until the
// returned stop function is called or ctx ends. stop clears the line and
// waits for the goroutine to exit.
func startSpinner(ctx context.Context, w io.Writer, providerName, modelName string) (stop func()) {
	if w == nil {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", 80))

		glyphs, speed := getSpinner(providerName, modelName)
		spin := color.New(color.FgCyan).SprintFunc()
		ticker := time.NewTicker(time.Duration(speed) * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				message := fmt.Sprintf("%s %s is generating...", glyphs[i], modelName)
				fmt.Fprintf(w, "\r%s", spin(message))
				i = (i + 1) % len(glyphs)
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(done)
		<-exited
	}
}
