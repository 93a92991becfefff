package main

import (
	"fmt"
	"net/url"

	"github.com/urfave/cli/v2"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

var registryCmd = cli.Command{
	Name:  "registry",
	Usage: "deploy, inspect and operate a wallet registry",
	Subcommands: []*cli.Command{
		{
			Name:  "deploy",
			Usage: "deploy a new registry",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "owner", Usage: "the owner of the registry", Required: true},
			},
			Action: func(c *cli.Context) error {
				owner, err := parseAddress("owner", c.String("owner"))
				if err != nil {
					return err
				}
				return postAndPrint("/v1/registry/deploy?wait=true", map[string]string{
					"owner": owner,
				})
			},
		},
		{
			Name:      "info",
			Usage:     "get the totals of a registry",
			ArgsUsage: "<address>",
			Action: func(c *cli.Context) error {
				addr, err := parseAddress("address", c.Args().First())
				if err != nil {
					return err
				}
				return getAndPrint("/v1/registry/" + addr)
			},
		},
		{
			Name:      "wallets",
			Usage:     "list the accounts indexed under a key",
			ArgsUsage: "<address>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "by",
					Usage:    "the index to look into: issuer, owner, recipient or auto-claim",
					Required: true,
				},
				&cli.StringFlag{Name: "key", Usage: "the address to look for", Required: true},
			},
			Action: func(c *cli.Context) error {
				addr, err := parseAddress("address", c.Args().First())
				if err != nil {
					return err
				}
				q := url.Values{}
				q.Set("by", c.String("by"))
				q.Set("key", c.String("key"))
				return getAndPrint(fmt.Sprintf("/v1/registry/%s/wallets?%s", addr, q.Encode()))
			},
		},
		{
			Name:  "set-max",
			Usage: "change the capacity of a registry",
			Flags: messageFlags(
				&cli.StringFlag{Name: "registry", Required: true},
				&cli.UintFlag{Name: "max", Usage: "the new max number of wallets", Required: true},
			),
			Action: func(c *cli.Context) error {
				registry, err := parseAddress("registry", c.String("registry"))
				if err != nil {
					return err
				}
				return sendInternal(c, registry, &vestingmsg.SetMaxWallets{
					MaxWallets: uint32(c.Uint("max")),
				})
			},
		},
	},
}
