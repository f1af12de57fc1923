package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// The home screen is purely presentational: a welcome card, a static
// five-day weather strip, quick stats, and the account details.

type weatherDay struct {
	Day       string
	Temp      string
	Condition string
}

var weatherForecast = []weatherDay{
	{"Mon", "28°C", "Sunny"},
	{"Tue", "26°C", "Cloudy"},
	{"Wed", "24°C", "Rainy"},
	{"Thu", "27°C", "Partly Cloudy"},
	{"Fri", "29°C", "Sunny"},
}

type quickStat struct {
	Title    string
	Subtitle string
}

var quickStats = []quickStat{
	{"Profile", "Active"},
	{"Verified", "User"},
}

// Home renders the home screen for the current user.
func (a *App) Home(ctx context.Context) error {
	user := a.store.CurrentUser()
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}
	renderHome(os.Stdout, user.Name, user.Email, user.ID)
	return nil
}

// WhoAmI prints the current user in one line.
func (a *App) WhoAmI(ctx context.Context) error {
	user := a.store.CurrentUser()
	if user == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("#%d %s <%s>", user.ID, user.Name, user.Email))
	return nil
}

func renderHome(w io.Writer, name, email string, id int64) {
	fmt.Fprintf(w, "\nWelcome back, %s!\n\n", name)

	fmt.Fprintln(w, "Weather Forecast")
	for _, day := range weatherForecast {
		fmt.Fprintf(w, "  %-3s  %-5s %s\n", day.Day, day.Temp, day.Condition)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Quick Stats")
	for _, stat := range quickStats {
		fmt.Fprintf(w, "  %-9s %s\n", stat.Title, stat.Subtitle)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Account Details")
	fmt.Fprintf(w, "  ID:    %d\n", id)
	fmt.Fprintf(w, "  Name:  %s\n", name)
	fmt.Fprintf(w, "  Email: %s\n\n", email)
}
