package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) list(ctx context.Context) {
	items, err := a.tracker.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, item := range items {
		app := item.Application
		star := " "
		if app.Starred {
			star = "*"
		}
		fmt.Printf("%s %s  %s @ %s  [%s]  %s\n",
			star, app.ID, app.Role, app.Company, app.Status, app.Date.Format("2006-01-02"))
		for _, s := range item.Stages {
			fmt.Printf("      %s  %s [%s] %s\n", s.ID, s.Name, s.Status, s.Date.Format("2006-01-02"))
		}
	}
}

func (a *App) show(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter application id to show", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	item, err := a.tracker.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	app := item.Application
	fmt.Printf("%s @ %s\n", app.Role, app.Company)
	fmt.Printf("Status: %s\n", app.Status)
	fmt.Printf("Date: %s\n", app.Date.Format("2006-01-02"))
	fmt.Printf("Starred: %v\n", app.Starred)
	if app.Note != "" {
		fmt.Printf("Note: %s\n", app.Note)
	}
	for _, s := range item.Stages {
		fmt.Printf("  %d. %s [%s] %s\n", s.SortOrder, s.Name, s.Status, s.Date.Format("2006-01-02"))
	}
}

func (a *App) status() {
	st := a.engine.Status()
	fmt.Printf("State: %s\n", st.State)
	if !st.LastSyncedAt.IsZero() {
		fmt.Printf("Last synced: %s\n", st.LastSyncedAt.Format("15:04:05"))
	}
	if st.LastError != "" {
		fmt.Printf("Last error: %s\n", st.LastError)
	}
}
