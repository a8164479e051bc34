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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/poiesic/derechos"
	"github.com/poiesic/derechos/catalog"
	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/evaluation"
	"github.com/poiesic/derechos/search"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

var exitWords = []string{"salir", "exit", "quit", "q"}

// openReadOnly opens the installed database, telling the user how to
// create it when it is missing.
func openReadOnly(c *cli.Context) (*derechos.Database, error) {
	db, err := derechos.OpenDatabase(c.String("db"), derechos.WithLogger(slog.Default()))
	if errors.Is(err, derechos.ErrDataSourceUnavailable) {
		return nil, fmt.Errorf("%w: run `derechos build` first", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Manifest(c.Context); err != nil {
		db.Close()
		if errors.Is(err, derechos.ErrDataSourceUnavailable) {
			return nil, fmt.Errorf("%w: run `derechos build` first", err)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return db, nil
}

func buildCommand(c *cli.Context) error {
	ctx := c.Context
	w := c.App.Writer

	dataDir := c.String("data")
	cat, err := catalog.LoadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if problems := cat.Problems(); len(problems) > 0 {
		printProblems(w, problems)
		return fmt.Errorf("%w: %d problems", catalog.ErrInvalidCatalog, len(problems))
	}

	db, err := derechos.NewDatabase(c.String("db"), derechos.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	installer, err := db.NewInstaller(catalog.WithProgress(c.App.ErrWriter))
	if err != nil {
		return fmt.Errorf("failed to create installer: %w", err)
	}
	manifest, err := installer.Install(ctx, cat)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	printManifest(w, manifest)

	if path := c.String("sqlite"); path != "" {
		if _, err := derechos.ExportSQLite(ctx, cat, path, derechos.WithLogger(slog.Default())); err != nil {
			return fmt.Errorf("sqlite export failed: %w", err)
		}
		fmt.Fprintf(w, "\n  %s %s\n", pterm.Green("SQLite:"), path)
	}
	return nil
}

func validateCommand(c *cli.Context) error {
	w := c.App.Writer

	cat, err := catalog.LoadDir(c.String("data"))
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if problems := cat.Problems(); len(problems) > 0 {
		printProblems(w, problems)
		return fmt.Errorf("%w: %d problems", catalog.ErrInvalidCatalog, len(problems))
	}

	fmt.Fprintf(w, "  %s %s: %d situaciones, %d derechos, %d acciones\n",
		pterm.Green("✓"), cat.Metadata.CountryCode, len(cat.Situations), len(cat.Rights), len(cat.Actions))
	return nil
}

type searchSession struct {
	w         io.Writer
	searcher  *search.Searcher
	assembler *search.Assembler
	limit     int
	explain   bool
}

func (s *searchSession) run(c *cli.Context, query string) error {
	ctx := c.Context
	printHeader(s.w)
	fmt.Fprintf(s.w, "\n  Consulta: %q\n", query)

	emergency, err := s.assembler.ActiveEmergencyContext(ctx)
	if err != nil {
		return err
	}
	if emergency != nil {
		printEmergencyBanner(s.w, emergency)
	}

	results, err := s.searcher.Search(ctx, query, s.limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		printNoMatch(s.w)
		printFooter(s.w)
		return nil
	}

	best := results[0]
	printMatch(s.w, best, s.explain)
	details, err := s.assembler.Details(ctx, best.SituationID)
	if err != nil {
		return err
	}
	sources, err := collectSources(ctx, s.assembler, details.Rights)
	if err != nil {
		return err
	}
	printDetails(s.w, details, sources)
	printOtherMatches(s.w, results, s.explain)
	printFooter(s.w)
	return nil
}

func (s *searchSession) interactive(c *cli.Context) error {
	printHeader(s.w)
	fmt.Fprintf(s.w, "\n  %s, escribe tu situación\n", pterm.Bold.Sprint("Modo interactivo"))
	fmt.Fprintf(s.w, "  Escribe 'salir' para terminar.\n\n")

	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprintf(s.w, "  %s ", pterm.Cyan(">"))
		if !scanner.Scan() {
			fmt.Fprintln(s.w)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if isExitWord(query) {
			return nil
		}
		if err := s.run(c, query); err != nil {
			return err
		}
		fmt.Fprintf(s.w, "\n  %s\n\n", pterm.Gray(`Escribe otra consulta o "salir" para terminar.`))
	}
}

// collectSources looks up the legal sources of each distinct right.
func collectSources(ctx context.Context, assembler *search.Assembler, rights []core.RightDetail) (sourcesByRight, error) {
	sources := sourcesByRight{}
	for _, r := range rights {
		if _, ok := sources[r.Right.ID]; ok {
			continue
		}
		found, err := assembler.RightSources(ctx, r.Right.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read sources of %s: %w", r.Right.ID, err)
		}
		sources[r.Right.ID] = found
	}
	return sources, nil
}

func isExitWord(s string) bool {
	return slices.Contains(exitWords, strings.ToLower(s))
}

func searchCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithDefaultLimit(limit))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	assembler, err := db.NewAssembler()
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}

	session := &searchSession{
		w:         c.App.Writer,
		searcher:  searcher,
		assembler: assembler,
		limit:     limit,
		explain:   c.Bool("explain"),
	}
	if c.Args().Len() == 0 {
		return session.interactive(c)
	}
	return session.run(c, strings.Join(c.Args().Slice(), " "))
}

func showCommand(c *cli.Context) error {
	ctx := c.Context
	w := c.App.Writer

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("situation id is required")
	}

	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	assembler, err := db.NewAssembler()
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}

	situation, err := assembler.Lookup(ctx, id)
	if err != nil {
		return err
	}
	var details *core.Details
	if contextID := c.String("context"); contextID != "" {
		details, err = assembler.DetailsForContext(ctx, situation.ID, contextID)
	} else {
		details, err = assembler.Details(ctx, situation.ID)
	}
	if err != nil {
		return err
	}

	sources, err := collectSources(ctx, assembler, details.Rights)
	if err != nil {
		return err
	}

	var parent *core.Situation
	if situation.ParentID != "" {
		if parent, err = assembler.Lookup(ctx, situation.ParentID); err != nil {
			return err
		}
	}
	children, err := db.Situations().ChildSituations(ctx, situation.ID)
	if err != nil {
		return fmt.Errorf("failed to list related situations: %w", err)
	}

	printSituation(w, situation.Title, situation.Description, situation.Severity)
	printDetails(w, details, sources)
	printRelated(w, parent, children)
	printFooter(w)
	return nil
}

func contextsCommand(c *cli.Context) error {
	ctx := c.Context
	w := c.App.Writer

	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	assembler, err := db.NewAssembler()
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}
	emergency, err := assembler.ActiveEmergencyContext(ctx)
	if err != nil {
		return err
	}
	if emergency != nil {
		printEmergencyBanner(w, emergency)
	}

	contexts, err := db.References().ListContexts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list contexts: %w", err)
	}
	printContexts(w, contexts)
	return nil
}

func rightsCommand(c *cli.Context) error {
	ctx := c.Context

	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	assembler, err := db.NewAssembler()
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}
	rights, err := db.References().ListRights(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rights: %w", err)
	}
	sources := sourcesByRight{}
	for _, r := range rights {
		if sources[r.ID], err = assembler.RightSources(ctx, r.ID); err != nil {
			return fmt.Errorf("failed to read sources of %s: %w", r.ID, err)
		}
	}
	printRightsCatalog(c.App.Writer, rights, sources)
	return nil
}

func contactsCommand(c *cli.Context) error {
	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	contacts, err := db.References().ListContacts(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	printContactsCatalog(c.App.Writer, contacts)
	return nil
}

func sourcesCommand(c *cli.Context) error {
	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	sources, err := db.References().ListSources(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	printSources(c.App.Writer, sources)
	return nil
}

func mythsCommand(c *cli.Context) error {
	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	myths, err := db.References().ListMyths(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list myths: %w", err)
	}
	printMyths(c.App.Writer, myths)
	return nil
}

func evaluateCommand(c *cli.Context) error {
	path := c.String("cases")
	if path == "" {
		path = filepath.Join(c.String("data"), "evaluation.yaml")
	}
	cases, err := evaluation.LoadCases(path)
	if err != nil {
		return err
	}

	db, err := openReadOnly(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	runner, err := evaluation.NewRunner(searcher, evaluation.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	report, err := runner.Run(c.Context, cases)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	printReport(c.App.Writer, report)

	if minRate := c.Float64("min-hit-rate"); report.HitRate() < minRate {
		return fmt.Errorf("hit rate %.3f below %.3f", report.HitRate(), minRate)
	}
	return nil
}
