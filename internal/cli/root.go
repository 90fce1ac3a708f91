package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userID != "" {
		s = a.userID
	}
	status := a.engine.Status()
	if status.Syncing {
		s = strings.TrimSpace(s + " syncing")
	} else if status.LastError != "" {
		s = strings.TrimSpace(s + " sync-error")
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to jobkeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("jk %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: list, add, show, edit, star, delete, stage, unstage, sync, status, logout, exit")
			} else {
				fmt.Println("Available commands: list, add, show, edit, star, delete, stage, unstage, login, exit")
			}

		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "list":
			a.list(ctx)
		case "add":
			a.add(ctx)
		case "show":
			a.show(ctx)
		case "edit":
			a.edit(ctx)
		case "star":
			a.star(ctx)
		case "delete":
			a.delete(ctx)
		case "stage":
			a.addStage(ctx)
		case "unstage":
			a.removeStage(ctx)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
