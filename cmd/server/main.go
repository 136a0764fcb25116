// Command server runs the lexical resolution and flashcard sync backend.
//
// It resolves selected Japanese/English text into reading, gloss and
// per-kanji breakdown, and saves the result as notes in an AnkiConnect
// flashcard store. Configuration comes from CONFIG_PATH (default
// ./config.yaml) with environment overrides.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/drag2anki/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
