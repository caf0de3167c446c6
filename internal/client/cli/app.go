package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/ideapool/internal/client/api"
	"github.com/dmitrijs2005/ideapool/internal/client/config"
)

// apiClient is the subset of api.Client the commands use.
type apiClient interface {
	LoggedIn() bool
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.Profile, error)
	ListIdeas(ctx context.Context, page int) ([]api.Idea, error)
	CreateIdea(ctx context.Context, in api.IdeaInput) (*api.Idea, error)
	UpdateIdea(ctx context.Context, id string, in api.IdeaInput) (*api.Idea, error)
	DeleteIdea(ctx context.Context, id string) error
}

type App struct {
	config    *config.Config
	api       apiClient
	userEmail string
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.New(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userEmail == "" {
		return ""
	}
	return "(" + a.userEmail + ")"
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to ideapool CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
