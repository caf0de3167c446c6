package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/ideapool/internal/client/api"
)

// getSimpleText, getInt and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getInt        = GetInt
	getPassword   = GetPassword
)

var errUsage = errors.New("usage")

// Register prompts for name, email and password and creates an account.
// The new account is logged in on success.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.api.Register(ctx, name, email, string(password)); err != nil {
		return err
	}

	a.userEmail = email
	fmt.Fprintln(a.out, "Registered and logged in")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			return fmt.Errorf("server unavailable at %s", a.config.ServerURL)
		}
		return err
	}

	a.userEmail = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session on the server and locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.userEmail = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	p, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\n%s\n", p.Name, p.Email, p.AvatarURL)
	return nil
}

// ListIdeas prints one page of ideas; the page defaults to 1.
func (a *App) ListIdeas(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: list [page]", errUsage)
		}
		page = n
	}

	ideas, err := a.api.ListIdeas(ctx, page)
	if err != nil {
		return err
	}
	if len(ideas) == 0 {
		fmt.Fprintln(a.out, "No ideas")
		return nil
	}
	for _, i := range ideas {
		fmt.Fprintf(a.out, "%s  %.1f  (I%d E%d C%d)  %s\n", i.ID, i.AverageScore, i.Impact, i.Ease, i.Confidence, i.Content)
	}
	return nil
}

func (a *App) readIdea() (api.IdeaInput, error) {
	var in api.IdeaInput
	var err error
	if in.Content, err = getSimpleText(a.reader, "Content", a.out); err != nil {
		return in, err
	}
	if in.Impact, err = getInt(a.reader, "Impact (1-10)", a.out); err != nil {
		return in, err
	}
	if in.Ease, err = getInt(a.reader, "Ease (1-10)", a.out); err != nil {
		return in, err
	}
	if in.Confidence, err = getInt(a.reader, "Confidence (1-10)", a.out); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) AddIdea(ctx context.Context) error {
	in, err := a.readIdea()
	if err != nil {
		return err
	}
	idea, err := a.api.CreateIdea(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (score %.1f)\n", idea.ID, idea.AverageScore)
	return nil
}

func (a *App) EditIdea(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: edit <id>", errUsage)
	}
	in, err := a.readIdea()
	if err != nil {
		return err
	}
	idea, err := a.api.UpdateIdea(ctx, args[0], in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s (score %.1f)\n", idea.ID, idea.AverageScore)
	return nil
}

func (a *App) DeleteIdea(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <id>", errUsage)
	}
	if err := a.api.DeleteIdea(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
