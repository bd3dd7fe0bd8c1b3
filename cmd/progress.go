package cmd

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/coursa-cli/coursa/color"
	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/progress"
	"github.com/coursa-cli/coursa/style"
	"github.com/coursa-cli/coursa/util"
	"github.com/coursa-cli/coursa/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(progressCmd)
}

// progressCmd is the parent command for watch progress management.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and manage saved watch progress",
}

func init() {
	progressCmd.AddCommand(progressShowCmd)
}

// progressShowCmd prints per-course progress and overall totals.
var progressShowCmd = &cobra.Command{
	Use:   "show [course]",
	Short: "Show saved watch progress",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, _ := openProgress()
		data := store.Snapshot()

		if len(args) == 1 {
			courseID := args[0]
			cp, ok := data.Courses[courseID]
			if !ok {
				handleErr(fmt.Errorf("no saved progress for course %s", courseID))
			}

			printCourseProgress(courseID, cp)
			return
		}

		if len(data.Courses) == 0 {
			fmt.Printf("%s no saved progress yet\n", icon.Get(icon.Warning))
			return
		}

		ids := lo.Keys(data.Courses)
		slices.Sort(ids)
		for _, id := range ids {
			printCourseProgress(id, data.Courses[id])
			fmt.Println()
		}

		fmt.Printf("%s %s watched across %s, %d completed, %d in progress\n",
			icon.Get(icon.Progress),
			style.Bold(util.FormatDuration(store.TotalWatchTime())),
			util.Quantify(len(data.Courses), "course", "courses"),
			store.CompletedCourseCount(),
			store.InProgressCourseCount(),
		)

		if id, ok := store.LastWatchedCourse(); ok {
			fmt.Printf("%s last watched %s\n",
				icon.Get(icon.Course),
				style.Fg(color.Yellow)(id),
			)
		}
	},
}

func printCourseProgress(courseID string, cp *progress.CourseProgress) {
	fmt.Printf("%s %s\n", icon.Get(icon.Course), style.Bold(courseID))

	completion := float64(0)
	if cp.TotalLessons > 0 {
		completion = float64(cp.CompletedLessons) / float64(cp.TotalLessons) * 100
	}

	fmt.Printf("  %s complete (%d/%d lessons)\n",
		style.Fg(color.Green)(fmt.Sprintf("%.0f%%", completion)),
		cp.CompletedLessons,
		cp.TotalLessons,
	)

	if !cp.LastWatched.IsZero() {
		fmt.Printf("  last watched %s\n", style.Faint(cp.LastWatched.Format(time.DateTime)))
	}

	if cp.CurrentLesson != "" {
		fmt.Printf("  current lesson %s at %s\n",
			style.Fg(color.Yellow)(cp.CurrentLesson),
			util.FormatDuration(cp.CurrentTime),
		)
	}
}

func init() {
	progressCmd.AddCommand(progressClearCmd)
	progressClearCmd.Flags().BoolP("all", "a", false, "Clear progress for every course")
	progressClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// progressClearCmd wipes saved progress for one course or everything.
var progressClearCmd = &cobra.Command{
	Use:   "clear [course]",
	Short: "Clear saved watch progress",
	Args:  cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && !lo.Must(cmd.Flags().GetBool("all")) {
			handleErr(fmt.Errorf("either a course id or --all must be given"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		store, gateway := openProgress()
		all := lo.Must(cmd.Flags().GetBool("all"))

		what := "all saved progress"
		if !all {
			what = fmt.Sprintf("progress for %s", args[0])
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			err := survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Clear %s?", what),
				Default: false,
			}, &confirmed)
			handleSurveyErr(err)

			if !confirmed {
				return
			}
		}

		if all {
			store.Replace(progress.NewData())
		} else {
			store.ClearCourseProgress(args[0])
		}

		handleErr(gateway.Save(store.Snapshot()))
		fmt.Printf("%s cleared %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), what)
	},
}

func init() {
	progressCmd.AddCommand(progressExportCmd)
	progressExportCmd.Flags().StringP("output", "o", "", "Destination file (required)")
	lo.Must0(progressExportCmd.MarkFlagRequired("output"))
}

// progressExportCmd writes the progress file to an arbitrary location.
var progressExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved watch progress to a file",
	Run: func(cmd *cobra.Command, args []string) {
		store, gateway := openProgress()
		output := lo.Must(cmd.Flags().GetString("output"))

		handleErr(gateway.Export(store.Snapshot(), output))
		fmt.Printf("%s exported progress to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(output),
		)
	},
}

func init() {
	progressCmd.AddCommand(progressImportCmd)
}

// progressImportCmd merges a progress file into the saved state.
var progressImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge a progress file into the saved state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gateway := progress.NewGateway(where.Progress())

		merged, err := gateway.Import(args[0])
		handleErr(err)

		fmt.Printf("%s imported %s into the saved progress\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(merged.Courses), "course", "courses"),
		)
	},
}
