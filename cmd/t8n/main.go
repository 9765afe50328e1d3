// Command t8n runs the state transition tool of spec §4.8/§6: load
// alloc/env/txs JSON, execute every transaction, and emit a receipt
// list plus the resulting post-state.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/r3e-network/neo-go-core/pkg/t8n"
)

func main() {
	app := cli.NewApp()
	app.Name = "neo-t8n"
	app.Usage = "Neo N3 state transition tool"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "input-alloc", Value: "alloc.json", Usage: "input allocation file"},
		cli.StringFlag{Name: "input-env", Value: "env.json", Usage: "input environment file"},
		cli.StringFlag{Name: "input-txs", Value: "txs.json", Usage: "input transactions file"},
		cli.StringFlag{Name: "output-result", Value: "result.json", Usage: "output result file"},
		cli.StringFlag{Name: "output-alloc", Value: "alloc-out.json", Usage: "output allocation file"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	alloc, err := t8n.LoadAlloc(c.String("input-alloc"))
	if err != nil {
		return err
	}
	env, err := t8n.LoadEnvironment(c.String("input-env"))
	if err != nil {
		return err
	}
	txs, err := t8n.LoadTransactions(c.String("input-txs"))
	if err != nil {
		return err
	}

	run := t8n.New(alloc, env, txs, nil)
	result, post, err := run.Run()
	if err != nil {
		return err
	}

	if err := t8n.WriteResult(c.String("output-result"), result); err != nil {
		return err
	}
	return t8n.WriteAlloc(c.String("output-alloc"), post)
}
