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

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
)

// Installer writes validated catalogs into a store.
type Installer struct {
	store    storage.Store
	logger   *slog.Logger
	now      func() time.Time
	progress io.Writer
}

// Option configures an Installer.
type Option func(*Installer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Installer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for the manifest's build time.
func WithClock(now func() time.Time) Option {
	return func(i *Installer) error {
		if now != nil {
			i.now = now
		}
		return nil
	}
}

// WithProgress prints a progress line to w as each kind of record is written.
func WithProgress(w io.Writer) Option {
	return func(i *Installer) error {
		i.progress = w
		return nil
	}
}

// NewInstaller creates a new installer.
func NewInstaller(store storage.Store, opts ...Option) (*Installer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	i := &Installer{
		store:  store,
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Install validates the catalog and replaces the store's contents with it.
// The manifest is written last, so a store interrupted mid-install reports
// no catalog rather than a partial one.
func (i *Installer) Install(ctx context.Context, c *Catalog) (*core.Manifest, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	version, err := c.Digest()
	if err != nil {
		return nil, err
	}

	start := i.now()
	if err := i.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("resetting store: %w", err)
	}

	refs := i.store.References()
	sits := i.store.Situations()
	steps := []struct {
		name  string
		count int
		write func() error
	}{
		{"contexts", len(c.Contexts), func() error { return refs.AddContexts(ctx, c.Contexts...) }},
		{"sources", len(c.Sources), func() error { return refs.AddSources(ctx, c.Sources...) }},
		{"rights", len(c.Rights), func() error { return refs.AddRights(ctx, c.Rights...) }},
		{"right sources", len(c.RightSources), func() error { return refs.AddRightSources(ctx, c.RightSources...) }},
		{"actions", len(c.Actions), func() error { return refs.AddActions(ctx, c.Actions...) }},
		{"contacts", len(c.Contacts), func() error { return refs.AddContacts(ctx, c.Contacts...) }},
		{"myths", len(c.Myths), func() error { return refs.AddMyths(ctx, c.Myths...) }},
		{"situations", len(c.Situations), func() error { return sits.AddSituations(ctx, c.Situations...) }},
		{"situation rights", len(c.SituationRights), func() error { return sits.AddSituationRights(ctx, c.SituationRights...) }},
		{"situation actions", len(c.SituationActions), func() error { return sits.AddSituationActions(ctx, c.SituationActions...) }},
		{"situation contacts", len(c.SituationContacts), func() error { return sits.AddSituationContacts(ctx, c.SituationContacts...) }},
		{"time limits", len(c.TimeLimits), func() error { return sits.AddTimeLimits(ctx, c.TimeLimits...) }},
	}

	var progress *Progress
	if i.progress != nil {
		progress = NewProgress(i.progress, len(steps))
	}
	progress.start()
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.write(); err != nil {
			i.logger.Error("error installing catalog", "step", step.name, "err", err)
			return nil, fmt.Errorf("writing %s: %w", step.name, err)
		}
		progress.step(step.name, step.count)
		i.logger.Debug("installed", "step", step.name, "records", step.count)
	}
	progress.finish()

	manifest := &core.Manifest{
		Version:     version,
		Country:     c.Metadata.CountryCode,
		DataVersion: c.Metadata.DataVersion,
		BuiltAt:     i.now(),
		Counts:      c.Counts(),
	}
	if err := i.store.Manifests().SaveManifest(ctx, manifest); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	i.logger.Info("catalog installed",
		"country", manifest.Country,
		"version", manifest.Version,
		"situations", len(c.Situations),
		"elapsed", i.now().Sub(start))
	return manifest, nil
}
