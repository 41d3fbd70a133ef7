// This program audits the chain held by a running node.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/tooling/admin/commands"
	"github.com/ardanlabs/powchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args conf.Args
		Node struct {
			PublicURL  string `conf:"default:http://localhost:8080"`
			PrivateURL string `conf:"default:http://localhost:9080"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "audit the chain of a powchain node",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	node := commands.Node{
		PublicURL:  cfg.Node.PublicURL,
		PrivateURL: cfg.Node.PrivateURL,
	}

	log.Infow("startup", "status", "auditing node", "public", node.PublicURL, "private", node.PrivateURL)

	return processCommands(cfg.Args, node)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, node commands.Node) error {
	switch args.Num(0) {
	case "audit":
		if err := commands.Audit(os.Stdout, node); err != nil {
			return fmt.Errorf("auditing chain: %w", err)
		}

	case "bals":
		if err := commands.Balances(os.Stdout, node, args.Num(1)); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}

	default:
		fmt.Println("audit: validate the node's chain and report its work")
		fmt.Println("bals [address]: rebuild the balances from the node's chain")
	}

	return nil
}
