// Package cli implements the command-line interface for CampusQuery.
// Commands are thin adapters: they parse input, dispatch to the driving
// ports and render conversation snapshots.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/campusquery/campusquery-cli/internal/core/ports/driven"
	"github.com/campusquery/campusquery-cli/internal/core/ports/driving"
	"github.com/campusquery/campusquery-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	conversationService driving.Conversation
	collegeService      driving.CollegeService
	configStore         driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "campusquery",
	Short: "Ask questions about any college, grounded in its official website",
	Long: `CampusQuery is a conversational assistant for college information.

Tell it the name of a college, confirm the official website it finds,
and then ask questions answered from that website's indexed pages.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetConversationService injects the conversation controller.
func SetConversationService(svc driving.Conversation) {
	conversationService = svc
}

// SetCollegeService injects the college lookup service.
func SetCollegeService(svc driving.CollegeService) {
	collegeService = svc
}

// SetConfigStore injects the configuration store.
func SetConfigStore(store driven.ConfigStore) {
	configStore = store
}
