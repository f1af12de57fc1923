package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/validate"
)

func patchName(name string) models.ProfilePatch {
	return models.ProfilePatch{Name: &name}
}

// getSimpleText, getPassword, and confirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Register prompts for name, email, and password, validates them, and
// creates the account. A successful registration leaves the user logged in
// and shows the home screen.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Name(name); err != nil {
		printlnFn(err.Error())
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Email(email); err != nil {
		printlnFn(err.Error())
		return nil
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Password(password); err != nil {
		printlnFn(err.Error())
		return nil
	}

	if err := a.store.Register(ctx, name, email, password); err != nil {
		printlnFn(err.Error())
		return nil
	}

	printlnFn("Success!")
	return a.Home(ctx)
}

// Login prompts for credentials and tries to authenticate. A failure shows
// the session store's error message; a success renders the home screen.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Required(email, "Email"); err != nil {
		printlnFn(err.Error())
		return nil
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Required(password, "Password"); err != nil {
		printlnFn(err.Error())
		return nil
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return nil
	}

	log.Printf("Login successful")
	return a.Home(ctx)
}

// Logout asks for confirmation and then logs out. The session is always
// cleared locally; a cleanup failure is reported but never leaves the user
// appearing logged in.
func (a *App) Logout(ctx context.Context) error {
	ok, err := confirm(a.reader, "Are you sure you want to logout?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.store.Logout(ctx); err != nil {
		printlnFn(fmt.Sprintf("Logout finished with an error: %s", err.Error()))
	} else {
		printlnFn("Logged out.")
	}
	return nil
}

// Rename updates the profile name of the current user.
func (a *App) Rename(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter new name", os.Stdout)
	if err != nil {
		return err
	}
	if err := validate.Name(name); err != nil {
		printlnFn(err.Error())
		return nil
	}

	if err := a.store.UpdateUser(ctx, patchName(name)); err != nil {
		printlnFn(err.Error())
		return nil
	}

	printlnFn("Profile updated.")
	return nil
}
