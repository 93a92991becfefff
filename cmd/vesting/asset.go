package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var assetCmd = cli.Command{
	Name:  "asset",
	Usage: "mint and inspect asset balances",
	Subcommands: []*cli.Command{
		{
			Name:  "mint",
			Usage: "credit a holder with newly issued funds",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "issuer", Required: true},
				&cli.StringFlag{Name: "holder", Required: true},
				&cli.StringFlag{Name: "amount", Usage: "amount in nano units", Required: true},
			},
			Action: func(c *cli.Context) error {
				issuer, err := parseAddress("issuer", c.String("issuer"))
				if err != nil {
					return err
				}
				holder, err := parseAddress("holder", c.String("holder"))
				if err != nil {
					return err
				}
				return postAndPrint("/v1/assets/mint?wait=true", map[string]string{
					"issuer": issuer,
					"holder": holder,
					"amount": c.String("amount"),
				})
			},
		},
		{
			Name:  "balance",
			Usage: "get the balance of a holder",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "issuer", Required: true},
				&cli.StringFlag{Name: "holder", Required: true},
			},
			Action: func(c *cli.Context) error {
				issuer, err := parseAddress("issuer", c.String("issuer"))
				if err != nil {
					return err
				}
				holder, err := parseAddress("holder", c.String("holder"))
				if err != nil {
					return err
				}
				return getAndPrint(fmt.Sprintf("/v1/assets/%s/%s", issuer, holder))
			},
		},
	},
}
