// Package main is the entry point for the coursa application.
package main

import (
	"github.com/coursa-cli/coursa/cmd"
	"github.com/coursa-cli/coursa/config"
	"github.com/coursa-cli/coursa/internal/cache"
	"github.com/coursa-cli/coursa/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cache.CollectGarbage()

	cmd.Execute()
}
