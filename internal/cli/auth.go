package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/jobkeeper/internal/identity"
)

// login binds the session to the user from an externally issued identity
// token and runs an initial full sync so remote data appears locally.
func (a *App) login(ctx context.Context) {
	if a.isLoggedIn() {
		fmt.Println("Already logged in")
		return
	}

	token, err := GetToken(a.out())
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	userID, err := identity.UserID(token)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	if err := a.engine.Enable(userID); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	a.userID = userID

	if err := a.engine.FullSyncNow(ctx); err != nil {
		log.Printf("initial sync failed: %s", err.Error())
	}
}

// logout pushes any remaining local changes, then unbinds the user and wipes
// the local store.
func (a *App) logout(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	if err := a.engine.SyncNow(ctx); err != nil {
		log.Printf("final sync failed: %s", err.Error())
	}

	if err := a.engine.Disable(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	a.userID = ""
	fmt.Println("Logged out")
}

// sync forces an immediate full sync; the scheduling loop keeps running
// regardless of the outcome.
func (a *App) sync(ctx context.Context) {
	if err := a.engine.FullSyncNow(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Println("Synced")
}
