package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/benrowan/crusty-crawler/internal/cli"
	"github.com/benrowan/crusty-crawler/internal/server"
	"github.com/benrowan/crusty-crawler/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	switch mode(os.Args[1:]) {
	case "daemon":
		if err := app.RunDaemon(ctx); err != nil {
			log.Printf("%v", err)
		}
	case "stop", "status":
		// No cross-process control channel: report the state of this
		// process, which has just started, and exit.
		running, _ := app.Runtime().Status()
		if running {
			fmt.Println("Server is running.")
		} else {
			fmt.Println("Server is not running.")
		}
	default:
		front := cli.NewApp(app.Store(), app.Runtime(), cfg.Port, os.Stdin, os.Stdout)
		if err := front.Run(ctx); err != nil {
			log.Printf("%v", err)
		}
	}

}

// mode picks the run mode from the leading command words. Unrecognised
// words fall through to the interactive menu.
func mode(args []string) string {
	for _, arg := range args {
		switch arg {
		case "daemon", "start", "--daemon":
			return "daemon"
		case "stop":
			return "stop"
		case "status":
			return "status"
		case "--cli", "--no-gui":
			return "cli"
		}
	}
	return "cli"
}
