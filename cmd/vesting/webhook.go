package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var webhookCmd = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified of processed messages",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "event",
					Usage: "TRANSACTION, TRANSACTION_FAILED or ANY",
					Value: "ANY",
				},
				&cli.StringFlag{Name: "endpoint", Required: true},
				&cli.StringFlag{Name: "secret", Usage: "secret used to sign the notifications"},
			},
			Action: func(c *cli.Context) error {
				return postAndPrint("/v1/webhooks", map[string]string{
					"event":    c.String("event"),
					"endpoint": c.String("endpoint"),
					"secret":   c.String("secret"),
				})
			},
		},
		{
			Name:      "remove",
			Usage:     "remove a webhook",
			ArgsUsage: "<id>",
			Action: func(c *cli.Context) error {
				id := c.Args().First()
				if id == "" {
					return &invalidUsageError{c, "remove"}
				}
				client, err := getClient()
				if err != nil {
					return err
				}
				if _, err := client.do(http.MethodDelete, "/v1/webhooks/"+id, nil); err != nil {
					return err
				}
				fmt.Printf("webhook %s removed\n", id)
				return nil
			},
		},
		{
			Name:  "list",
			Usage: "list the webhooks",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "only list webhooks for this event"},
			},
			Action: func(c *cli.Context) error {
				path := "/v1/webhooks"
				if event := c.String("event"); event != "" {
					path += "?event=" + event
				}
				return getAndPrint(path)
			},
		},
	},
}
