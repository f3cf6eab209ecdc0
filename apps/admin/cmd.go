package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/session"
	"github.com/trezcool/masomo-dashboard/storage/kv"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp         = errors.New("help provided")
	errInvalidValue = errors.New("value must be valid JSON")
)

// commandLine inspects and edits the volatile session values of a client.
// Cookies live in the browser: only the volatile store is reachable from here.
type commandLine struct {
	store  kv.Store
	logger core.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  get -client CLIENT_ID -key KEY - print the value stored under KEY")
	fmt.Println("  set -client CLIENT_ID -key KEY -value JSON - store a value under KEY")
	fmt.Println("  remove -client CLIENT_ID -key KEY - remove the value stored under KEY")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	getCmd := flag.NewFlagSet("get", flag.ContinueOnError)
	getClient := getCmd.String("client", "", "The client id (value of the client id cookie).")
	getKey := getCmd.String("key", "", "The session key.")

	setCmd := flag.NewFlagSet("set", flag.ContinueOnError)
	setClient := setCmd.String("client", "", "The client id (value of the client id cookie).")
	setKey := setCmd.String("key", "", "The session key.")
	setValue := setCmd.String("value", "", "The JSON value to store.")

	removeCmd := flag.NewFlagSet("remove", flag.ContinueOnError)
	removeClient := removeCmd.String("client", "", "The client id (value of the client id cookie).")
	removeKey := removeCmd.String("key", "", "The session key.")

	switch args[1] {
	case "get":
		if err := getCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *getClient == "" || *getKey == "" {
			getCmd.Usage()
			return errHelp
		}
		return cli.get(*getClient, *getKey)
	case "set":
		if err := setCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setClient == "" || *setKey == "" || *setValue == "" {
			setCmd.Usage()
			return errHelp
		}
		return cli.set(*setClient, *setKey, *setValue)
	case "remove":
		if err := removeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *removeClient == "" || *removeKey == "" {
			removeCmd.Usage()
			return errHelp
		}
		return cli.remove(*removeClient, *removeKey)
	default:
		cli.printUsage()
		return errHelp
	}
}

// session returns the client's session.Store, backed by the volatile store only.
func (cli *commandLine) session(clientID string) *session.Store {
	return session.New(
		session.NewKVBackend(cli.store, core.CleanString(clientID)),
		nil, /* no cookies */
		session.WithLogger(cli.logger),
	)
}

func (cli *commandLine) get(clientID, key string) error {
	p := cli.session(clientID).Get(context.Background(), core.CleanString(key))

	out := []byte(p.String())
	if p != nil && cli.isTerminal() {
		var buf []byte
		var v interface{}
		if err := p.Decode(&v); err == nil {
			if buf, err = json.MarshalIndent(v, "", "  "); err == nil {
				out = buf
			}
		}
	}
	_, err := fmt.Fprintln(cli.out, string(out))
	return err
}

func (cli *commandLine) set(clientID, key, value string) error {
	if !json.Valid([]byte(value)) {
		return errInvalidValue
	}
	cli.session(clientID).Set(context.Background(), core.CleanString(key), json.RawMessage(value))
	return nil
}

func (cli *commandLine) remove(clientID, key string) error {
	cli.session(clientID).Remove(context.Background(), core.CleanString(key))
	return nil
}

func (cli *commandLine) isTerminal() bool {
	return isTerminalFunc(int(os.Stdout.Fd()))
}
