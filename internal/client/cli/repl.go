package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	Station(ctx context.Context) error
	Storage(ctx context.Context) error
	Hangar(ctx context.Context) error
	Locations(ctx context.Context) error
	Cost(ctx context.Context, what string) error
	Upgrade(ctx context.Context, what string) error
	AddShip(ctx context.Context) error

	StartMission(ctx context.Context, locationID models.ID) error
	SubmitMission(ctx context.Context, locationID, shipID models.ID, seconds int64) error
	CancelMission(ctx context.Context, locationID models.ID) error
	CheckMission(ctx context.Context, locationID models.ID) error
	ShowMission(ctx context.Context, id models.ID) error
	WatchMission(ctx context.Context, id models.ID) error
	AbortMission(ctx context.Context, id models.ID) error
	ActiveMissions(ctx context.Context) error

	Message(ctx context.Context) error
	afterCommand(ctx context.Context)
}

const (
	helpAnonymous = "Available commands: register, login, whoami, message, exit"
	helpLoggedIn  = "Available commands: station, storage, hangar, locations, cost <storage|hangar|miner|scout>, " +
		"upgrade <storage|hangar>, addship, start <loc>, submit <loc> <ship> <seconds>, cancel <loc>, check <loc>, " +
		"missions, mission <id>, watch <id>, abort <id>, message, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the station client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands and missing
// arguments are reported back to the user. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// Errors returned by handlers are printed; failures that already went to
// the message log are not returned by the handlers. After every command
// the REPL lets 'a' print what changed.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("mcli %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)

		case "station":
			err = a.Station(ctx)
		case "storage":
			err = a.Storage(ctx)
		case "hangar":
			err = a.Hangar(ctx)
		case "locations", "l":
			err = a.Locations(ctx)
		case "cost":
			if len(args) == 0 {
				printlnFn("Usage: cost <storage|hangar|miner|scout>")
				continue
			}
			what := args[0]
			if what == "ship" && len(args) > 1 {
				what = args[1]
			}
			err = a.Cost(ctx, what)
		case "upgrade":
			if len(args) == 0 {
				printlnFn("Usage: upgrade <storage|hangar>")
				continue
			}
			err = a.Upgrade(ctx, args[0])
		case "addship":
			err = a.AddShip(ctx)

		case "start", "cancel", "check":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <location>", cmd))
				continue
			}
			loc := models.ID(args[0])
			switch cmd {
			case "start":
				err = a.StartMission(ctx, loc)
			case "cancel":
				err = a.CancelMission(ctx, loc)
			default:
				err = a.CheckMission(ctx, loc)
			}
		case "submit":
			seconds, perr := parseSubmit(args)
			if perr != nil {
				printlnFn("Usage: submit <location> <ship> <seconds>")
				continue
			}
			err = a.SubmitMission(ctx, models.ID(args[0]), models.ID(args[1]), seconds)
		case "missions":
			err = a.ActiveMissions(ctx)
		case "mission", "watch", "abort":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <mission id>", cmd))
				continue
			}
			id := models.ID(args[0])
			switch cmd {
			case "mission":
				err = a.ShowMission(ctx, id)
			case "watch":
				err = a.WatchMission(ctx, id)
			default:
				err = a.AbortMission(ctx, id)
			}

		case "message", "m":
			err = a.Message(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn("Error:", err)
		}
		a.afterCommand(ctx)
	}
}

func parseSubmit(args []string) (int64, error) {
	if len(args) != 3 {
		return 0, fmt.Errorf("want 3 arguments, got %d", len(args))
	}
	return strconv.ParseInt(args[2], 10, 64)
}
