package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Reveal writes lines to w one at a time, pausing delay between them. With a
// zero delay everything is written at once. If ctx ends early the remaining
// lines are flushed immediately and ctx's error is returned, so the output is
// always complete.
func Reveal(ctx context.Context, w io.Writer, lines []string, delay time.Duration) error {
	if delay <= 0 {
		return writeLines(w, lines)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for i, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if i == len(lines)-1 {
			break
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			if err := writeLines(w, lines[i+1:]); err != nil {
				return err
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
