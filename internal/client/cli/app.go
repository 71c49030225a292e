// Package cli implements the interactive walk client: account commands,
// the five-slot capture loop and walk upload.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Ayash13/Antivity/internal/client/api"
	"github.com/Ayash13/Antivity/internal/client/config"
	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/vision"
	"github.com/Ayash13/Antivity/internal/walk"
)

type App struct {
	config    *config.Config
	api       *api.Client
	validator vision.Validator
	reader    *bufio.Reader

	userName string

	mu        sync.Mutex
	walk      *walk.Manager
	startedAt time.Time
	fix       *geo.Coord
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)

	return &App{
		config:    c,
		api:       apiClient,
		validator: vision.NewClient(c.ServerEndpointAddr),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Println("Antivity walk CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "not logged in"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.walk == nil {
		return a.userName
	}
	return fmt.Sprintf("%s, walk %d/%d", a.userName, a.walk.FilledCount(), walk.SlotCount)
}

// Current implements walk.Locator with the manually entered fix. It returns
// nil when no fix was set, capture proceeds without a geotag.
func (a *App) Current(ctx context.Context) *geo.Coord {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fix == nil {
		return nil
	}
	c := *a.fix
	return &c
}
