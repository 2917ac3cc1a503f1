// Package feed discovers candidate items from configured RSS/Atom feeds.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
	"newstriage/internal/textutil"
)

const (
	defaultFetchHours   = 24
	defaultMaxPerSource = 50
	defaultFetchTimeout = 30 * time.Second
)

// sourcesFile mirrors the YAML feed declaration.
type sourcesFile struct {
	Sources  map[string]sourceConfig `yaml:"sources"`
	Settings settings                `yaml:"settings"`
}

type sourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Enabled  *bool  `yaml:"enabled"`
	Priority int    `yaml:"priority"`
}

func (s sourceConfig) enabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type settings struct {
	FetchHours           int `yaml:"fetch_hours"`
	MaxArticlesPerSource int `yaml:"max_articles_per_source"`
	TimeoutSeconds       int `yaml:"timeout_seconds"`
}

// Source implements ItemSource on top of gofeed.
type Source struct {
	sources  map[string]sourceConfig
	settings settings
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.ItemSource = (*Source)(nil)

// NewSource loads the sources file and wires an HTTP client for feed
// retrieval.
func NewSource(path string, client *http.Client, logger *slog.Logger) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if file.Settings.FetchHours <= 0 {
		file.Settings.FetchHours = defaultFetchHours
	}
	if file.Settings.MaxArticlesPerSource <= 0 {
		file.Settings.MaxArticlesPerSource = defaultMaxPerSource
	}

	if client == nil {
		timeout := defaultFetchTimeout
		if file.Settings.TimeoutSeconds > 0 {
			timeout = time.Duration(file.Settings.TimeoutSeconds) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Source{
		sources:  file.Sources,
		settings: file.Settings,
		client:   client,
		logger:   logger,
	}, nil
}

// FetchRecent pulls every enabled feed and keeps entries published within
// the configured window. A single feed failing is logged and skipped; it
// never aborts discovery.
func (s *Source) FetchRecent(ctx context.Context, now time.Time) ([]domain.Item, error) {
	cutoff := now.Add(-time.Duration(s.settings.FetchHours) * time.Hour)

	ids := make([]string, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var all []domain.Item
	for _, id := range ids {
		src := s.sources[id]
		if !src.enabled() {
			s.debug("skipping disabled source", "source", id)
			continue
		}

		items, err := s.fetchOne(ctx, id, src, cutoff)
		if err != nil {
			s.warn("feed fetch failed", "source", id, "error", err)
			continue
		}

		s.debug("source produced items", "source", id, "count", len(items))
		all = append(all, items...)
	}

	s.info("discovery done", "sources", len(ids), "items", len(all))
	return all, nil
}

// SourcePriorities exposes the per-source ranking used by the duplicate
// detector's primary tie-break.
func (s *Source) SourcePriorities() map[string]int {
	priorities := make(map[string]int, len(s.sources))
	for id, src := range s.sources {
		if src.Priority > 0 {
			priorities[id] = src.Priority
		}
	}
	return priorities
}

func (s *Source) fetchOne(ctx context.Context, id string, src sourceConfig, cutoff time.Time) ([]domain.Item, error) {
	parser := gofeed.NewParser()
	parser.Client = s.client

	parsed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	items := make([]domain.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if len(items) >= s.settings.MaxArticlesPerSource {
			break
		}

		published := entryTime(entry)
		if published == nil || published.Before(cutoff) {
			continue
		}

		items = append(items, domain.Item{
			Title:       strings.TrimSpace(entry.Title),
			Synopsis:    textutil.Clean(entrySynopsis(entry)),
			URL:         entry.Link,
			Source:      id,
			SourceName:  src.Name,
			Author:      entryAuthor(entry),
			PublishedAt: published.UTC(),
		})
	}

	return items, nil
}

func entryTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

func entrySynopsis(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}

func entryAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 {
		return entry.Authors[0].Name
	}
	return ""
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
