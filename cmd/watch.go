package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/coursa-cli/coursa/color"
	"github.com/coursa-cli/coursa/course"
	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/key"
	"github.com/coursa-cli/coursa/library"
	"github.com/coursa-cli/coursa/log"
	"github.com/coursa-cli/coursa/player"
	"github.com/coursa-cli/coursa/progress"
	"github.com/coursa-cli/coursa/style"
	"github.com/coursa-cli/coursa/util"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("lesson", "l", "", "Lesson id to play instead of the most recent one")
	watchCmd.Flags().BoolP("from-start", "s", false, "Ignore the saved position and play from the beginning")
}

// watchCmd plays a lesson in the configured player, tracking progress.
var watchCmd = &cobra.Command{
	Use:   "watch [course]",
	Short: "Play a course lesson and track watch progress",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		lib := openLibrary()
		store, gateway := openProgress()

		c := resolveCourse(lib, store, args)
		store.InitializeFromCourse(c)
		lib.Select(c.ID)

		lesson := resolveLesson(cmd, store, c)
		startAt := float64(0)
		if !lo.Must(cmd.Flags().GetBool("from-start")) {
			if lp, ok := store.LessonProgress(c.ID, lesson.ID); ok {
				startAt = lp.LastPosition
			}
		}

		saver := progress.NewSaver(store, gateway, debounceWindow())

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		go saver.AutoSave(ctx, autosaveInterval())

		mpv := player.NewMPV()
		title := fmt.Sprintf("%s - %s", c.Title, lesson.Title)
		handleErr(mpv.Play(c.VideoPath(lesson), title, startAt))

		fmt.Printf("%s playing %s\n",
			icon.Get(icon.Lesson),
			style.Bold(title),
		)
		if startAt > 0 {
			fmt.Printf("%s resuming at %s\n",
				icon.Get(icon.Progress),
				style.Fg(color.Yellow)(util.FormatDuration(startAt)),
			)
		}

		threshold := float64(viper.GetInt(key.PlayerCompletionPercentage))

		mpv.StartIPCTicker(func(timePos int, duration int) {
			paused, err := mpv.GetPausedStatus()
			if err != nil {
				paused = false
			}

			if recordTick(store, c.ID, lesson.ID, paused, timePos, duration, threshold) {
				saver.Schedule()
			}
		})

		select {
		case <-mpv.Wait():
		case <-ctx.Done():
			_ = mpv.Close()
		}

		mpv.StopIPCTicker()
		cancel()

		if err := saver.Flush(); err != nil {
			log.Errorf("flush progress: %s", err)
			fmt.Printf("%s failed to save progress: %s\n", icon.Get(icon.Fail), err)
		}

		printSessionSummary(store, c, lesson)
	},
}

// recordTick applies one second of playback to the store. A paused player
// keeps answering IPC with a static position, so paused ticks must not
// accumulate watched time. Reports whether anything changed.
func recordTick(store *progress.Store, courseID, lessonID string, paused bool, timePos, duration int, threshold float64) bool {
	if paused {
		return false
	}

	store.SetCurrentTime(courseID, lessonID, float64(timePos))
	store.AddWatchedTime(courseID, lessonID, 1)

	if duration > 0 {
		watched := float64(timePos) / float64(duration) * 100
		if watched >= threshold {
			store.MarkLessonComplete(courseID, lessonID)
		}
	}

	return true
}

// resolveCourse picks the course to play from the argument, the most
// recently watched course, or an interactive prompt.
func resolveCourse(lib *library.Library, store *progress.Store, args []string) *course.Course {
	courses := lib.Courses()
	if len(courses) == 0 {
		handleErr(errors.New("library is empty, add a course folder first"))
	}

	if len(args) == 1 {
		c, ok := lib.CourseByID(args[0])
		if !ok {
			handleErr(errUnknownCourse(courses, args[0]))
		}
		return c
	}

	if id, ok := store.LastWatchedCourse(); ok {
		if c, ok := lib.CourseByID(id); ok {
			return c
		}
	}

	var title string
	err := survey.AskOne(&survey.Select{
		Message: "Which course to watch?",
		Options: lo.Map(courses, func(c *course.Course, _ int) string {
			return c.Title
		}),
	}, &title)
	handleSurveyErr(err)

	c, ok := lo.Find(courses, func(c *course.Course) bool {
		return c.Title == title
	})
	if !ok {
		handleErr(fmt.Errorf("course %s not found", title))
	}
	return c
}

// resolveLesson picks the lesson from the flag, the saved current lesson,
// or the first lesson of the course.
func resolveLesson(cmd *cobra.Command, store *progress.Store, c *course.Course) course.Lesson {
	if id := lo.Must(cmd.Flags().GetString("lesson")); id != "" {
		lesson, ok := c.LessonByID(id)
		if !ok {
			handleErr(fmt.Errorf("course %s has no lesson %s", c.ID, id))
		}
		return lesson
	}

	if cp, ok := store.CourseProgress(c.ID); ok && cp.CurrentLesson != "" {
		if lesson, ok := c.LessonByID(cp.CurrentLesson); ok {
			return lesson
		}
	}

	lesson, ok := c.FirstLesson()
	if !ok {
		handleErr(fmt.Errorf("course %s has no lessons", c.ID))
	}
	return lesson
}

func errUnknownCourse(courses []*course.Course, id string) error {
	closest := lo.MinBy(courses, func(a, b *course.Course) bool {
		return levenshtein.Distance(id, a.ID) < levenshtein.Distance(id, b.ID)
	})

	return fmt.Errorf(
		"unknown course %s, did you mean %s?",
		style.Fg(color.Red)(id),
		style.Fg(color.Yellow)(closest.ID),
	)
}

func printSessionSummary(store *progress.Store, c *course.Course, lesson course.Lesson) {
	lp, ok := store.LessonProgress(c.ID, lesson.ID)
	if !ok {
		return
	}

	status := style.Fg(color.Yellow)("in progress")
	if lp.Completed {
		status = style.Fg(color.Green)("completed")
	}

	fmt.Printf("%s %s %s, %.0f%% of the course done\n",
		icon.Get(icon.Success),
		style.Bold(lesson.Title),
		status,
		store.CompletionPercentage(c.ID),
	)
}
