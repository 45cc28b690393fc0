// pointlight renders point-light biological motion stimuli.
//
// Usage:
//
//	pointlight actions
//	pointlight play --action walking --mood sad
//	pointlight serve --addr :8080
//	pointlight export --action bowing --duration 4 --format video --out bow.avi
//	pointlight record ws://localhost:8080/ws/frames --frames 300 --out walk.jsonl
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
