// Package ui is the terminal front end of the roster: a numbered menu of
// five actions (view all, add, update, delete, search). Each action makes
// one synchronous API call and prints either the JSON result or a
// success, warning or error line.
package ui

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aanand-mishra/student-roster/internal/client"
)

// Line prefixes for the three kinds of feedback.
const (
	successPrefix = "OK: "
	warningPrefix = "WARNING: "
	errorPrefix   = "ERROR: "
)

// Roster is the subset of the API client the UI needs.
type Roster interface {
	List(ctx context.Context) (*client.Result, error)
	Add(ctx context.Context, name string) (*client.Result, error)
	Update(ctx context.Context, id, name string) (*client.Result, error)
	Delete(ctx context.Context, id string) (*client.Result, error)
	Search(ctx context.Context, name string) (*client.Result, error)
	Check(ctx context.Context, id string) (*client.Result, error)
}

// UI renders roster actions to out and, in Run, reads menu input from in.
type UI struct {
	api Roster
	in  *bufio.Scanner
	out io.Writer
}

// New returns a UI backed by api.
func New(api Roster, in io.Reader, out io.Writer) *UI {
	return &UI{api: api, in: bufio.NewScanner(in), out: out}
}

func (u *UI) success(format string, args ...any) {
	fmt.Fprintf(u.out, successPrefix+format+"\n", args...)
}

func (u *UI) warning(msg string) {
	fmt.Fprintln(u.out, warningPrefix+msg)
}

func (u *UI) fail(msg string) {
	fmt.Fprintln(u.out, errorPrefix+msg)
}

func (u *UI) printJSON(v any) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		u.fail(err.Error())
		return
	}
	fmt.Fprintln(u.out, string(buf))
}

// ViewAll prints every student.
func (u *UI) ViewAll(ctx context.Context) error {
	res, err := u.api.List(ctx)
	if err != nil {
		return err
	}
	if !res.OK() {
		u.fail("Error fetching students")
		return nil
	}
	if len(res.Payload) == 0 {
		u.warning("No students found.")
		return nil
	}
	u.printJSON(res.Payload)
	return nil
}

// Add creates a student and prints its new id.
func (u *UI) Add(ctx context.Context, name string) error {
	if name == "" {
		u.warning("Please enter a name")
		return nil
	}
	res, err := u.api.Add(ctx, name)
	if err != nil {
		return err
	}
	var created client.Created
	if !res.OK() || res.Decode(&created) != nil {
		u.fail("Failed to add student")
		return nil
	}
	u.success("Student added. ID: %s", created.ID)
	return nil
}

// Update renames a student.
func (u *UI) Update(ctx context.Context, id, name string) error {
	if id == "" || name == "" {
		u.warning("Please provide both ID and new name")
		return nil
	}
	res, err := u.api.Update(ctx, id, name)
	if err != nil {
		return err
	}
	var updated client.Updated
	if !res.OK() || res.Payload.HasError() || res.Decode(&updated) != nil {
		u.fail("Student not found")
		return nil
	}
	u.success("Updated: student %s is now %q", updated.ID, updated.UpdatedName)
	return nil
}

// Delete removes a student.
func (u *UI) Delete(ctx context.Context, id string) error {
	if id == "" {
		u.warning("Please provide a student ID")
		return nil
	}
	res, err := u.api.Delete(ctx, id)
	if err != nil {
		return err
	}
	var deleted client.Deleted
	if !res.OK() || res.Payload.HasError() || res.Decode(&deleted) != nil {
		u.fail("Student not found")
		return nil
	}
	u.success("Deleted: student %s (%s)", deleted.DeletedID, deleted.DeletedName)
	return nil
}

// Search prints the students whose name matches exactly.
func (u *UI) Search(ctx context.Context, name string) error {
	if name == "" {
		u.warning("Please enter a name")
		return nil
	}
	res, err := u.api.Search(ctx, name)
	if err != nil {
		return err
	}
	if !res.OK() {
		u.fail("Error searching student")
		return nil
	}
	if res.Payload.HasMessage() {
		u.warning("No match found")
		return nil
	}
	u.printJSON(res.Payload)
	return nil
}

// Check reports whether a student exists. It is not on the menu; the
// command line exposes it as "check ID".
func (u *UI) Check(ctx context.Context, id string) error {
	if id == "" {
		u.warning("Please provide a student ID")
		return nil
	}
	res, err := u.api.Check(ctx, id)
	if err != nil {
		return err
	}
	var found client.Created
	if !res.OK() || res.Decode(&found) != nil {
		u.fail("Student not found")
		return nil
	}
	u.success("Student %s exists: %s", found.ID, found.Name)
	return nil
}

var menu = []string{
	"View All Students",
	"Add Student",
	"Update Student",
	"Delete Student",
	"Search Student",
}

// errQuit ends Run without an error.
var errQuit = errors.New("quit")

// prompt prints label and reads one trimmed line. It returns errQuit at
// end of input.
func (u *UI) prompt(label string) (string, error) {
	fmt.Fprint(u.out, label+": ")
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(u.in.Text()), nil
}

// Run shows the menu until the user enters "q" or input ends. A failed
// API call is reported and the menu shown again.
func (u *UI) Run(ctx context.Context) error {
	fmt.Fprintln(u.out, "Student Management API")
	for {
		fmt.Fprintln(u.out)
		for i, item := range menu {
			fmt.Fprintf(u.out, "%d) %s\n", i+1, item)
		}
		fmt.Fprintln(u.out, "q) Quit")

		choice, err := u.prompt("Choose")
		if errors.Is(err, errQuit) || choice == "q" {
			return nil
		}
		if err != nil {
			return err
		}

		err = u.dispatch(ctx, choice)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			u.fail(err.Error())
		}
	}
}

func (u *UI) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return u.ViewAll(ctx)
	case "2":
		name, err := u.prompt("Enter Student Name")
		if err != nil {
			return err
		}
		return u.Add(ctx, name)
	case "3":
		id, err := u.prompt("Enter Student ID to Update")
		if err != nil {
			return err
		}
		name, err := u.prompt("Enter New Name")
		if err != nil {
			return err
		}
		return u.Update(ctx, id, name)
	case "4":
		id, err := u.prompt("Enter Student ID to Delete")
		if err != nil {
			return err
		}
		return u.Delete(ctx, id)
	case "5":
		name, err := u.prompt("Enter Name to Search")
		if err != nil {
			return err
		}
		return u.Search(ctx, name)
	default:
		u.warning(fmt.Sprintf("Unknown choice %q", choice))
		return nil
	}
}
