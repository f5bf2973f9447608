package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}

	parser, err := kong.New(cli,
		kong.Name("sitegen"),
		kong.Description("Derive content collections from markdown and build the site data."),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
		kong.UsageOnError(),
	)
	if err != nil {
		return ferrors.NewCLIErrorAdapter(false, nil).Report(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	if err := kctx.Run(global, cli); err != nil {
		return ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).Report(err)
	}
	return 0
}
