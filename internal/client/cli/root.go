package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.user != nil && a.isLoggedIn() {
		s = a.user.Email + " "
	}
	s += string(a.Mode)
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive session until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to gophauth CLI (type 'help' for commands)")

	a.checkOnline(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.HealthCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
