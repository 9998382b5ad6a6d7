// roster-ui is the terminal client for the Student Roster API.
//
// With no subcommand it shows an interactive menu:
//
//	go run ./cmd/roster-ui --url=http://127.0.0.1:8000
//
// Each menu action is also available as a one-shot subcommand:
//
//	go run ./cmd/roster-ui add Alice
//	go run ./cmd/roster-ui update 1 Alicia
//	go run ./cmd/roster-ui search Alicia
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/aanand-mishra/student-roster/internal/client"
	"github.com/aanand-mishra/student-roster/internal/ui"
	"github.com/urfave/cli"
)

// newUI builds a UI from the global --url and --timeout flags.
func newUI(c *cli.Context) (*ui.UI, error) {
	api, err := client.New(c.GlobalString("url"), &http.Client{
		Timeout: c.GlobalDuration("timeout"),
	})
	if err != nil {
		return nil, err
	}
	return ui.New(api, os.Stdin, os.Stdout), nil
}

// action adapts a one-shot UI call into a cli action, checking that
// exactly nargs positional arguments were given.
func action(nargs int, run func(ctx context.Context, u *ui.UI, args cli.Args) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if c.NArg() != nargs {
			return cli.NewExitError(
				fmt.Sprintf("%s: expected %d argument(s), got %d", c.Command.Name, nargs, c.NArg()), 2)
		}
		u, err := newUI(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if err := run(context.Background(), u, c.Args()); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "roster-ui"
	app.Usage = "manage the student roster through its REST API"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Value:  client.DefaultURL,
			Usage:  "base URL of the roster API",
			EnvVar: "ROSTER_API_URL",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Value: client.DefaultTimeout,
			Usage: "per-request timeout",
		},
	}

	app.Action = func(c *cli.Context) error {
		u, err := newUI(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return u.Run(context.Background())
	}

	app.Commands = []cli.Command{
		{
			Name:  "list",
			Usage: "show every student",
			Action: action(0, func(ctx context.Context, u *ui.UI, _ cli.Args) error {
				return u.ViewAll(ctx)
			}),
		},
		{
			Name:      "add",
			Usage:     "add a student",
			ArgsUsage: "NAME",
			Action: action(1, func(ctx context.Context, u *ui.UI, args cli.Args) error {
				return u.Add(ctx, args.Get(0))
			}),
		},
		{
			Name:      "update",
			Usage:     "rename a student",
			ArgsUsage: "ID NAME",
			Action: action(2, func(ctx context.Context, u *ui.UI, args cli.Args) error {
				return u.Update(ctx, args.Get(0), args.Get(1))
			}),
		},
		{
			Name:      "delete",
			Usage:     "delete a student",
			ArgsUsage: "ID",
			Action: action(1, func(ctx context.Context, u *ui.UI, args cli.Args) error {
				return u.Delete(ctx, args.Get(0))
			}),
		},
		{
			Name:      "search",
			Usage:     "find students by exact name",
			ArgsUsage: "NAME",
			Action: action(1, func(ctx context.Context, u *ui.UI, args cli.Args) error {
				return u.Search(ctx, args.Get(0))
			}),
		},
		{
			Name:      "check",
			Usage:     "check whether a student id exists",
			ArgsUsage: "ID",
			Action: action(1, func(ctx context.Context, u *ui.UI, args cli.Args) error {
				return u.Check(ctx, args.Get(0))
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
