package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusquery/campusquery-cli/internal/core/domain"
)

var collegeJSON bool

var collegeCmd = &cobra.Command{
	Use:   "college",
	Short: "Inspect colleges known to the backend",
}

var collegeInfoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Show the backend's descriptor for a college",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollegeInfo,
}

func init() {
	collegeInfoCmd.Flags().BoolVar(&collegeJSON, "json", false, "output as JSON")
	collegeCmd.AddCommand(collegeInfoCmd)
	rootCmd.AddCommand(collegeCmd)
}

func runCollegeInfo(cmd *cobra.Command, args []string) error {
	if collegeService == nil {
		return errors.New("college service not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := collegeService.Fetch(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no college with id %s", args[0])
		}
		return fmt.Errorf("fetching college: %w", err)
	}

	if collegeJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal college: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("College:  %s\n", info.Name)
	cmd.Printf("ID:       %s\n", info.ID)
	cmd.Printf("Domain:   %s\n", info.OfficialDomain)
	cmd.Printf("Indexed:  %v\n", info.Scraped)
	cmd.Printf("Pages:    %d\n", info.PagesCount)
	if !info.CreatedAt.IsZero() {
		cmd.Printf("Added:    %s\n", info.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
