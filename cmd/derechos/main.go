// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	defaultDBPath   = "./derechos.db"
	defaultDataPath = "./data/PE"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "derechos",
		Usage: "Tus derechos ante intervenciones policiales, sin conexión",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   defaultDBPath,
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Path to the country catalog directory",
				Value: defaultDataPath,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Load, validate and install the catalog into the database",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "sqlite",
						Usage: "Also export the catalog to a SQLite file at this path",
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Check the catalog for missing fields and dangling references",
				Action: validateCommand,
			},
			{
				Name:      "search",
				Usage:     "Describe your situation and get your rights and what to do",
				ArgsUsage: "[query...]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Show the component scores of every match",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of situations to return",
						Value: 3,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show everything attached to a situation",
				ArgsUsage: "<situation-id>",
				Action:    showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "context",
						Usage: "Resolve rights and steps for this legal context only",
					},
				},
			},
			{
				Name:   "contexts",
				Usage:  "List legal contexts and any emergency in force",
				Action: contextsCommand,
			},
			{
				Name:   "rights",
				Usage:  "List every right with the legal sources it cites",
				Action: rightsCommand,
			},
			{
				Name:   "contacts",
				Usage:  "List emergency contacts",
				Action: contactsCommand,
			},
			{
				Name:   "sources",
				Usage:  "List the legal sources behind the catalog",
				Action: sourcesCommand,
			},
			{
				Name:   "myths",
				Usage:  "List common misconceptions and the legal reality",
				Action: mythsCommand,
			},
			{
				Name:   "evaluate",
				Usage:  "Run a YAML file of queries against the installed catalog",
				Action: evaluateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cases",
						Usage: "Path to the evaluation cases (defaults to evaluation.yaml in the data directory)",
					},
					&cli.Float64Flag{
						Name:  "min-hit-rate",
						Usage: "Fail when the hit rate falls below this value",
						Value: 1.0,
					},
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
