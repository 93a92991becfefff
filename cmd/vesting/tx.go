package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var txCmd = cli.Command{
	Name:  "tx",
	Usage: "inspect the log of processed messages",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list the processed messages, oldest first",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "address", Usage: "only messages sent or received by this address"},
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.IntFlag{Name: "size", Value: 20},
			},
			Action: func(c *cli.Context) error {
				path := "/v1/transactions"
				if addr := c.String("address"); addr != "" {
					addr, err := parseAddress("address", addr)
					if err != nil {
						return err
					}
					path += "/" + addr
				}
				return getAndPrint(
					fmt.Sprintf("%s?page=%d&size=%d", path, c.Int("page"), c.Int("size")),
				)
			},
		},
	},
}
