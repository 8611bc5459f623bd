package main

import (
	"github.com/alecthomas/kong"

	"tablescout.dev/TableScout/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("TableScout"), kong.Description("TableScout is a restaurant and menu directory service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
