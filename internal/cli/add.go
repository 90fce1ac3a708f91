package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/service"
)

func (a *App) out() io.Writer { return os.Stdout }

func (a *App) readApplicationInput() (service.ApplicationInput, error) {
	var in service.ApplicationInput

	role, err := GetSimpleText(a.reader, "Role", a.out())
	if err != nil {
		return in, err
	}
	company, err := GetSimpleText(a.reader, "Company", a.out())
	if err != nil {
		return in, err
	}
	status, err := GetSimpleText(a.reader, "Status (applied/interviewing/offer/accepted/rejected/withdrawn)", a.out())
	if err != nil {
		return in, err
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", a.out())
	if err != nil {
		return in, err
	}
	note, err := GetSimpleText(a.reader, "Note", a.out())
	if err != nil {
		return in, err
	}

	in.Role = role
	in.Company = company
	in.Status = models.ApplicationStatus(status)
	in.Note = note
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return in, fmt.Errorf("invalid date: %w", err)
		}
		in.Date = d
	}
	return in, nil
}

func (a *App) add(ctx context.Context) {
	in, err := a.readApplicationInput()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	app, err := a.tracker.Create(ctx, in)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Added %s\n", app.ID)
}

func (a *App) edit(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter application id to edit", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	in, err := a.readApplicationInput()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.tracker.Update(ctx, id, in); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}

func (a *App) star(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter application id to star/unstar", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.tracker.ToggleStar(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}
