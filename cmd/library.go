package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/coursa-cli/coursa/color"
	"github.com/coursa-cli/coursa/course"
	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/key"
	"github.com/coursa-cli/coursa/library"
	"github.com/coursa-cli/coursa/progress"
	"github.com/coursa-cli/coursa/query"
	"github.com/coursa-cli/coursa/style"
	"github.com/coursa-cli/coursa/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(libraryCmd)
}

// libraryCmd is the parent command for course collection management.
var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage the collection of watched course folders",
}

func init() {
	libraryCmd.AddCommand(libraryAddCmd)
}

// libraryAddCmd registers course folders in the library.
var libraryAddCmd = &cobra.Command{
	Use:   "add [folder...]",
	Short: "Register course folders in the library",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := library.New()

		for _, folder := range args {
			abs, err := filepath.Abs(folder)
			handleErr(err)

			// Validate the manifest before registering the folder.
			c, err := course.Load(abs)
			handleErr(err)

			handleErr(lib.AddFolder(abs))
			fmt.Printf(
				"%s added %s %s\n",
				style.Fg(color.Green)(icon.Get(icon.Success)),
				style.Bold(c.Title),
				style.Faint(fmt.Sprintf("(%s)", util.Quantify(c.TotalLessons, "lesson", "lessons"))),
			)
		}
	},
}

func init() {
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryRemoveCmd.Flags().BoolP("yes", "y", false, "Skip the removal confirmation prompt")
}

// libraryRemoveCmd unregisters a course folder.
var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [folder]",
	Short: "Unregister a course folder, keeping its saved progress",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := library.New()
		folders, err := lib.Folders()
		handleErr(err)

		if len(folders) == 0 {
			handleErr(fmt.Errorf("library is empty"))
		}

		var folder string
		if len(args) == 1 {
			abs, err := filepath.Abs(args[0])
			handleErr(err)
			folder = abs

			if !slices.Contains(folders, folder) {
				handleErr(fmt.Errorf("folder %s is not in the library", folder))
			}
		} else {
			err := survey.AskOne(&survey.Select{
				Message: "Which folder to remove?",
				Options: folders,
			}, &folder)
			handleSurveyErr(err)
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			err := survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Remove %s from the library?", folder),
				Default: false,
			}, &confirmed)
			handleSurveyErr(err)

			if !confirmed {
				return
			}
		}

		handleErr(lib.RemoveFolder(folder))
		fmt.Printf(
			"%s removed %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(folder),
		)
	},
}

func init() {
	libraryCmd.AddCommand(libraryListCmd)
}

// libraryListCmd prints every course in the library with its progress.
var libraryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the courses in the library",
	Run: func(cmd *cobra.Command, args []string) {
		lib := library.New()
		folders, err := lib.Folders()
		handleErr(err)

		if len(folders) == 0 {
			fmt.Printf("%s library is empty, run %s to add a course\n",
				icon.Get(icon.Warning),
				style.Fg(color.Yellow)("coursa library add <folder>"),
			)
			return
		}

		courses := lib.LoadMany(folders)
		store, _ := openProgress()
		sortCourses(courses, store)

		printCourses(courses, store)
	},
}

func init() {
	libraryCmd.AddCommand(librarySearchCmd)
	librarySearchCmd.Flags().StringP("instructor", "i", "", "Require an exact instructor match")
	librarySearchCmd.Flags().BoolP("completed", "c", false, "Only fully completed courses")
	librarySearchCmd.Flags().BoolP("in-progress", "p", false, "Only courses with partial progress")
	librarySearchCmd.Flags().BoolP("not-started", "n", false, "Only courses without any progress")
	librarySearchCmd.MarkFlagsMutuallyExclusive("completed", "in-progress", "not-started")
}

// librarySearchCmd filters the library by query, instructor and completion.
var librarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := openLibrary()
		store, _ := openProgress()

		filter := library.Filter{
			Instructor: lo.Must(cmd.Flags().GetString("instructor")),
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("completed")):
			filter.Completion = library.CompletionCompleted
		case lo.Must(cmd.Flags().GetBool("in-progress")):
			filter.Completion = library.CompletionInProgress
		case lo.Must(cmd.Flags().GetBool("not-started")):
			filter.Completion = library.CompletionNotStarted
		}

		if len(args) == 1 {
			filter.Query = args[0]
			_ = query.Remember(args[0], 1)
		}

		found := filter.Apply(lib.Courses(), store)
		if len(found) == 0 {
			fmt.Printf("%s nothing found\n", icon.Get(icon.Search))

			if suggestion := query.Suggest(filter.Query); suggestion.IsPresent() && suggestion.MustGet() != filter.Query {
				fmt.Printf("%s did you mean %s?\n",
					icon.Get(icon.Warning),
					style.Fg(color.Yellow)(suggestion.MustGet()),
				)
			}
			return
		}

		printCourses(found, store)
	},
}

// sortCourses orders the collection per the configured library.sort_by key.
func sortCourses(courses []*course.Course, store *progress.Store) {
	switch viper.GetString(key.LibrarySortBy) {
	case "recent":
		slices.SortStableFunc(courses, func(a, b *course.Course) int {
			pa, _ := store.CourseProgress(a.ID)
			pb, _ := store.CourseProgress(b.ID)
			return pb.LastWatched.Compare(pa.LastWatched)
		})
	case "progress":
		slices.SortStableFunc(courses, func(a, b *course.Course) int {
			switch pa, pb := store.CompletionPercentage(a.ID), store.CompletionPercentage(b.ID); {
			case pa > pb:
				return -1
			case pa < pb:
				return 1
			default:
				return 0
			}
		})
	default:
		slices.SortStableFunc(courses, func(a, b *course.Course) int {
			switch {
			case a.Title < b.Title:
				return -1
			case a.Title > b.Title:
				return 1
			default:
				return 0
			}
		})
	}
}

func printCourses(courses []*course.Course, store *progress.Store) {
	width, _, err := util.TerminalSize()
	if err != nil || width <= 0 || width > 100 {
		width = 100
	}

	for i, c := range courses {
		percentage := store.CompletionPercentage(c.ID)

		fmt.Printf("%s %s %s\n",
			icon.Get(icon.Course),
			style.Bold(c.Title),
			style.Faint(fmt.Sprintf("(%s)", c.ID)),
		)

		if c.Instructor != "" {
			fmt.Printf("  %s %s\n", style.Faint("by"), c.Instructor)
		}

		fmt.Printf("  %s of %s watched, %s total\n",
			style.Fg(color.Green)(fmt.Sprintf("%.0f%%", percentage)),
			util.Quantify(c.TotalLessons, "lesson", "lessons"),
			util.FormatDuration(c.Duration),
		)

		if c.Description != "" {
			fmt.Println(style.Faint(wordwrap.String("  "+c.Description, width)))
		}

		if i < len(courses)-1 {
			fmt.Println()
		}
	}
}

// canceled reports whether a prompt error is a user cancellation.
func canceled(err error) bool {
	return errors.Is(err, terminal.InterruptErr)
}

// handleSurveyErr treats an interrupt as a silent cancellation: the user
// backing out of a prompt is a normal outcome, not a failure.
func handleSurveyErr(err error) {
	if canceled(err) {
		os.Exit(0)
	}
	handleErr(err)
}
