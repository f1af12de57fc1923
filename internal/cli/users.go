package cli

import (
	"context"
	"fmt"
	"log"
)

// Users dumps every stored user record. Diagnostics only; passwords are
// stored in clear text, so the output is limited to id, name, and email.
func (a *App) Users(ctx context.Context) error {
	all, err := a.repos.Users.GetAll(ctx)
	if err != nil {
		log.Printf("error listing users: %s", err.Error())
		return err
	}

	if len(all) == 0 {
		printlnFn("No users found in database.")
		return nil
	}

	printlnFn(fmt.Sprintf("Total users: %d", len(all)))
	for _, u := range all {
		printlnFn(fmt.Sprintf("  #%d %s <%s>", u.ID, u.Name, u.Email))
	}
	return nil
}
