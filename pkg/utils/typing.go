package utils

import (
	"context"
	"strings"
	"time"
)

// Cursor is shown after the partial text while a reply is being typed out.
const Cursor = "▌"

// Words splits text into the chunks revealed one at a time, each followed by a space.
func Words(text string) []string {
	fields := strings.Fields(text)
	chunks := make([]string, len(fields))
	for i, f := range fields {
		chunks[i] = f + " "
	}
	return chunks
}

// TypeOut reveals text word by word, calling emit with each new chunk and the
// text revealed so far, pausing delay between words. It returns the final
// trimmed text, or ctx.Err() if the caller went away.
func TypeOut(ctx context.Context, text string, delay time.Duration, emit func(chunk, partial string) error) (string, error) {
	var full strings.Builder
	for _, chunk := range Words(text) {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		full.WriteString(chunk)
		if err := emit(chunk, full.String()); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(full.String()), nil
}
