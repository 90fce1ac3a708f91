package cli

import (
	"context"
	"log"
)

func (a *App) delete(ctx context.Context) {

	id, err := GetSimpleText(a.reader, "Enter application id to delete", a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.tracker.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
	}
}
