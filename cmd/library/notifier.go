package main

import (
	"fmt"
	"io"
	"sync"
)

// terminalNotifier imprime los avisos en stderr. Sirve a api.Notifier y a
// router.Notifier.
type terminalNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminalNotifier(out io.Writer) *terminalNotifier {
	return &terminalNotifier{out: out}
}

func (n *terminalNotifier) Error(msg string)   { n.print("error", msg) }
func (n *terminalNotifier) Warning(msg string) { n.print("warning", msg) }
func (n *terminalNotifier) Success(msg string) { n.print("ok", msg) }

func (n *terminalNotifier) print(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[%s] %s\n", level, msg)
}
