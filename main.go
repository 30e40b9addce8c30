// campusquery is a conversational CLI for asking questions about colleges,
// answered from each college's official website.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/campusquery/campusquery-cli/internal/adapters/driven/backend/httpapi"
	configfile "github.com/campusquery/campusquery-cli/internal/adapters/driven/config/file"
	"github.com/campusquery/campusquery-cli/internal/adapters/driven/storage/memory"
	"github.com/campusquery/campusquery-cli/internal/adapters/driven/storage/sqlite"
	"github.com/campusquery/campusquery-cli/internal/adapters/driving/cli"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
	"github.com/campusquery/campusquery-cli/internal/core/services"
	"github.com/campusquery/campusquery-cli/internal/logger"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}
	if err := configStore.Watch(func() {
		logger.Info("Configuration reloaded from %s", configStore.Path())
	}); err != nil {
		logger.Warn("Config watch unavailable: %v", err)
	}
	defer configStore.StopWatch()

	backendCfg := httpapi.Config{
		BaseURL: configStore.GetString(driven.ConfigKeyBackendURL),
	}
	if secs := configStore.GetInt(driven.ConfigKeyBackendTimeout); secs > 0 {
		backendCfg.Timeout = time.Duration(secs) * time.Second
	}
	backend := httpapi.NewClient(backendCfg)

	// Sessions survive restarts via SQLite; if the store cannot be opened
	// the conversation still works, it just forgets on exit.
	var sessions driven.SessionStore
	if store, err := sqlite.NewStore(""); err != nil {
		logger.Warn("Session persistence unavailable, keeping sessions in memory: %v", err)
		sessions = memory.NewSessionStore()
	} else {
		defer store.Close()
		sessions = store
	}

	conversation := services.NewConversationService(backend, sessions)
	conversation.SetSessionName(configStore.GetString(driven.ConfigKeySessionName))
	colleges := services.NewCollegeService(backend)

	cli.SetVersion(version)
	cli.SetConfigStore(configStore)
	cli.SetConversationService(conversation)
	cli.SetCollegeService(colleges)

	return cli.Execute()
}
