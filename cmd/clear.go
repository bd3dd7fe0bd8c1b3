package cmd

import (
	"fmt"

	"github.com/coursa-cli/coursa/filesystem"
	"github.com/coursa-cli/coursa/icon"
	"github.com/coursa-cli/coursa/internal/cache"
	"github.com/coursa-cli/coursa/util"
	"github.com/coursa-cli/coursa/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

// clearTargets registry of all application artifacts that can be selectively cleared.
var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"progress file", "progress", mo.Some("p"), where.Progress},
	{"library registry", "library", mo.Some("l"), where.Library},
	{"queries history", "queries", mo.Some("q"), where.Queries},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached and persisted application artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and persisted application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		doClear := func(what string) bool {
			return lo.Must(cmd.Flags().GetBool(what))
		}

		for _, target := range clearTargets {
			if doClear(target.argLong) {
				anyCleared = true

				var freed int64
				if target.argLong == "cache" {
					freed, _ = cache.Size()
				}

				e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), util.Capitalize(target.name)))
				_ = util.Delete(target.location())
				e()

				if freed > 0 {
					fmt.Printf("%s %s cleared, freed %d KiB\n", icon.Get(icon.Success), util.Capitalize(target.name), freed/1024)
				} else {
					fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
				}
				handleErr(filesystem.API().RemoveAll(target.location()))
			}
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
