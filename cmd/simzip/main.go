// Command simzip reads a graph configuration document, runs the
// discrete-event simulation to completion, and writes the post-run graph
// document (statistics merged into each node's and edge's data) back out.
//
// Grounded on original_source/simzip.cpp's main(), with the CLI scaffolding
// (app/flags/Action/checkError) adapted from xtaci-kcptun/client/main.go.
package main

import (
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/brettviren/simzip/graph"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "simzip"
	myApp.Usage = "discrete-event simulator for zipper/merge graphs"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "snmplog",
			Value: "",
			Usage: "CSV path for node/edge stats; it is only logged at startup, no CSV is written",
		},
		cli.IntFlag{
			Name:  "snmpperiod",
			Value: 0,
			Usage: "snmplog period in seconds of simulated time; only logged together with snmplog",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "accepted but not read; diagnostics are silenced per zipit node with data.quiet",
		},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		checkError(err)
	}
}

func run(c *cli.Context) error {
	in, out, err := openArgs(c.Args())
	if err != nil {
		return err
	}
	defer in.Close()
	defer out.Close()

	cfg, err := graph.Load(in)
	if err != nil {
		return errors.Wrap(err, "simzip: loading config")
	}

	g, err := graph.Build(cfg)
	if err != nil {
		return errors.Wrap(err, "simzip: building graph")
	}

	if path := c.String("snmplog"); path != "" {
		log.Println("snmplog:", path, "period:", c.Int("snmpperiod"))
	}

	g.Run()

	if err := g.State().Encode(out); err != nil {
		return errors.Wrap(err, "simzip: writing result")
	}
	return nil
}

// openArgs resolves the positional input/output arguments per the
// "simzip [-|in.json] [-|out.json]" contract: "-" or an absent argument
// means stdin/stdout.
func openArgs(args cli.Args) (io.ReadCloser, io.WriteCloser, error) {
	in := io.ReadCloser(os.Stdin)
	if name := args.Get(0); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, errors.Wrap(err, "simzip: opening input")
		}
		in = f
	}

	out := io.WriteCloser(os.Stdout)
	if name := args.Get(1); name != "" && name != "-" {
		f, err := os.Create(name)
		if err != nil {
			return nil, nil, errors.Wrap(err, "simzip: creating output")
		}
		out = f
	}
	return in, out, nil
}

func checkError(err error) {
	color.Red("%+v", err)
	os.Exit(1)
}
