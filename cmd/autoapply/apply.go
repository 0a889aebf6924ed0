package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/observability"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/spf13/cobra"
)

var (
	applyUserID   string
	applyJobID    string
	applyUserType string
	applyJSON     bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run auto-apply for one user and job",
	Long: `Runs the full auto-apply pipeline from the command line: profile check, job fetch,
resume assembly, project re-ranking, optimization, storage and submission.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyUserID, "user", "", "User ID (required)")
	applyCmd.Flags().StringVar(&applyJobID, "job", "", "Job listing ID (required)")
	applyCmd.Flags().StringVar(&applyUserType, "user-type", string(types.UserTypeFresher), "fresher, student or experienced")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Print the outcome as JSON")
	_ = applyCmd.MarkFlagRequired("user")
	_ = applyCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(applyCmd)
}

// parseApplyRequest validates the flags into a request.
func parseApplyRequest(userID, jobID, userType string) (autoapply.Request, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return autoapply.Request{}, fmt.Errorf("invalid --user: %w", err)
	}
	jid, err := uuid.Parse(jobID)
	if err != nil {
		return autoapply.Request{}, fmt.Errorf("invalid --job: %w", err)
	}
	body := types.AutoApplyRequest{JobID: jid, UserType: types.UserType(userType)}
	if err := body.Validate(); err != nil {
		return autoapply.Request{}, fmt.Errorf("invalid --user-type %q: %w", userType, err)
	}
	return autoapply.Request{UserID: uid, JobID: jid, UserType: body.UserType}, nil
}

func runApply(cmd *cobra.Command, _ []string) error {
	req, err := parseApplyRequest(applyUserID, applyJobID, applyUserType)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose && !applyJSON {
		req.OnProgress = printer.PrintProgress
	}

	out := a.autoApply.Run(ctx, req)

	if applyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
	} else {
		printer.PrintOutcome(out)
	}

	if !out.Success {
		return fmt.Errorf("auto-apply failed at %s", out.FailedStage)
	}
	return nil
}
