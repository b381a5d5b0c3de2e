package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/spf13/pflag"

	"lull/internal/config"
	"lull/internal/ipc"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: lull-ctl say <text...> | file <audio path> | stop")
	cli.PrintDefaults()
}

func main() {
	socket := cli.StringP("socket", "s", "", "Control socket path (default $LULL_CONTROL_SOCKET or "+config.DefaultControlSocket+")")
	cli.Usage = usage
	cli.Parse()

	if *socket == "" {
		*socket = os.Getenv("LULL_CONTROL_SOCKET")
	}
	if *socket == "" {
		*socket = config.DefaultControlSocket
	}

	msg, err := parse(cli.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Fprintln(os.Stderr, "lull not reachable:", err)
		os.Exit(1)
	}
}

func parse(args []string) (ipc.ControlMessage, error) {
	if len(args) == 0 {
		return ipc.ControlMessage{}, errors.New("missing command")
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	switch msg.Cmd {
	case ipc.CmdSay:
		msg.Text = strings.Join(args[1:], " ")
	case ipc.CmdFile:
		if len(args) != 2 {
			return ipc.ControlMessage{}, errors.New("file takes exactly one path")
		}
		// The assistant may run in another working directory.
		abs, err := filepath.Abs(args[1])
		if err != nil {
			return ipc.ControlMessage{}, err
		}
		msg.Path = abs
	case ipc.CmdStop:
	}
	return msg, msg.Validate()
}
