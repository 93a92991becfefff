package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

const (
	daemonKey  = "daemon"
	addressKey = "address"
)

var (
	daemonFlag = cli.StringFlag{
		Name:  daemonKey,
		Usage: "vestingd daemon url",
		Value: "http://localhost:9090",
	}

	addressFlag = cli.StringFlag{
		Name:  addressKey,
		Usage: "the address messages are sent from by default",
	}
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the vesting CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&daemonFlag,
				&addressFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	data := map[string]string{
		daemonKey: c.String(daemonKey),
	}
	if addr := c.String(addressKey); addr != "" {
		if _, err := domain.ParseAddress(addr); err != nil {
			return err
		}
		data[addressKey] = addr
	}
	return setState(data)
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)
	if key == addressKey {
		if _, err := domain.ParseAddress(value); err != nil {
			return err
		}
	}

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}

func getDaemonURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	url, ok := state[daemonKey]
	if !ok || url == "" {
		return "", errors.New("set daemon with `config set daemon`")
	}
	return url, nil
}
