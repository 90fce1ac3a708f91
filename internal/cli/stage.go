package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/models"
	"github.com/dmitrijs2005/jobkeeper/internal/service"
)

func (a *App) addStage(ctx context.Context) {
	appID, err := GetSimpleText(a.reader, "Enter application id", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	name, err := GetSimpleText(a.reader, "Stage name (e.g. phone screen)", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	status, err := GetSimpleText(a.reader, "Status (pending/scheduled/passed/failed)", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty for none)", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	in := service.StageInput{Name: name, Status: models.StageStatus(status)}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			log.Printf("invalid date: %v", err)
			return
		}
		in.Date = d
	}

	s, err := a.tracker.AddStage(ctx, appID, in)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Added stage %s\n", s.ID)
}

func (a *App) removeStage(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Enter stage id to remove", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.tracker.RemoveStage(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}
