// Command streamql runs the interactive StreamQL REPL.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/streamql-lang/streamql/repl"
)

func main() {
	configPath := flag.String("config", "streamql.cfg", "path to the TOML config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := repl.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	repl.New(cfg, os.Stdin, os.Stdout, log).Loop()
}
