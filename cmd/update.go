package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/quizgen/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update quizgen to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if rollback, _ := cmd.Flags().GetBool("rollback"); rollback {
			if err := checker.Rollback(); err != nil {
				if errors.Is(err, selfupdate.ErrNoBackup) {
					fmt.Println("No previous version to roll back to.")
					return nil
				}
				return err
			}
			fmt.Println("Restored the previous quizgen binary.")
			return nil
		}

		if only, _ := cmd.Flags().GetBool("check"); only {
			res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
			if err != nil {
				return err
			}
			if !res.UpdateAvailable {
				fmt.Printf("quizgen %s is up to date.\n", res.CurrentVersion)
				return nil
			}
			fmt.Printf("quizgen %s is available (you have %s): %s\n",
				res.LatestVersion, res.CurrentVersion, res.ReleaseURL)
			return nil
		}

		target, _ := cmd.Flags().GetString("version")
		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo quizgen update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("version", "", "Install this release instead of the latest (e.g. v1.2.0)")
	updateCmd.Flags().Bool("rollback", false, "Restore the binary replaced by the last update")
}
