package cmd

import (
	"fmt"

	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/open"
	"github.com/coursa-cli/coursa/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringP("lesson", "l", "", "Open the markdown notes of a lesson instead of the folder")
}

// openCmd opens a course folder or a lesson's notes with the system handler.
var openCmd = &cobra.Command{
	Use:   "open [course]",
	Short: "Open a course folder or lesson notes with the default application",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lib := openLibrary()
		store, _ := openProgress()

		c := resolveCourse(lib, store, args)

		if id := lo.Must(cmd.Flags().GetString("lesson")); id != "" {
			lesson, ok := c.LessonByID(id)
			if !ok {
				handleErr(fmt.Errorf("course %s has no lesson %s", c.ID, id))
			}

			notes, ok := c.NotesPath(lesson)
			if !ok {
				handleErr(fmt.Errorf("lesson %s has no notes", lesson.ID))
			}

			handleErr(open.Start(notes))
			fmt.Printf("%s opened notes for %s\n", icon.Get(icon.Lesson), style.Bold(lesson.Title))
			return
		}

		handleErr(open.Start(c.FolderPath))
		fmt.Printf("%s opened %s\n", icon.Get(icon.Folder), style.Bold(c.FolderPath))
	},
}
