// Package settings holds the editable product configuration: the
// questionnaire categories and the lead pipeline columns. Values are read
// and written through an injected Store so any key-value backend can hold
// them.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godilite/diagnostico/pkg/cache"
	"go.uber.org/zap"
)

var ErrInvalid = errors.New("invalid settings")

// Store is the persistence port. Get must return cache.ErrMiss for
// missing keys.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type PipelineColumn struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

type Settings struct {
	Categories      []string         `json:"categories"`
	PipelineColumns []PipelineColumn `json:"pipelineColumns"`
}

func defaultCategories() []string {
	return []string{"Marketing", "Vendas", "Estratégia", "Gestão"}
}

func defaultPipelineColumns() []PipelineColumn {
	return []PipelineColumn{
		{ID: "novo", Title: "Novo", Color: "#64748b"},
		{ID: "contato", Title: "Contato", Color: "#3b82f6"},
		{ID: "proposta", Title: "Proposta", Color: "#f59e0b"},
		{ID: "negociacao", Title: "Negociação", Color: "#8b5cf6"},
		{ID: "fechado", Title: "Fechado", Color: "#22c55e"},
	}
}

// Defaults returns the configuration used before anything is saved.
func Defaults() Settings {
	return Settings{
		Categories:      defaultCategories(),
		PipelineColumns: defaultPipelineColumns(),
	}
}

// Normalize trims every name and ID.
func (s Settings) Normalize() Settings {
	out := Settings{
		Categories:      make([]string, len(s.Categories)),
		PipelineColumns: make([]PipelineColumn, len(s.PipelineColumns)),
	}
	for i, c := range s.Categories {
		out.Categories[i] = strings.TrimSpace(c)
	}
	for i, col := range s.PipelineColumns {
		out.PipelineColumns[i] = PipelineColumn{
			ID:    strings.TrimSpace(col.ID),
			Title: strings.TrimSpace(col.Title),
			Color: strings.TrimSpace(col.Color),
		}
	}
	return out
}

// Validate requires at least one category and one column, with non-empty
// unique names.
func (s Settings) Validate() error {
	if len(s.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if c == "" {
			return fmt.Errorf("%w: empty category name", ErrInvalid)
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalid, c)
		}
		seen[key] = struct{}{}
	}

	if len(s.PipelineColumns) == 0 {
		return fmt.Errorf("%w: at least one pipeline column is required", ErrInvalid)
	}
	ids := make(map[string]struct{}, len(s.PipelineColumns))
	titles := make(map[string]struct{}, len(s.PipelineColumns))
	for _, col := range s.PipelineColumns {
		if col.ID == "" || col.Title == "" {
			return fmt.Errorf("%w: pipeline column needs id and title", ErrInvalid)
		}
		if _, dup := ids[col.ID]; dup {
			return fmt.Errorf("%w: duplicate pipeline column id %q", ErrInvalid, col.ID)
		}
		if _, dup := titles[strings.ToLower(col.Title)]; dup {
			return fmt.Errorf("%w: duplicate pipeline column title %q", ErrInvalid, col.Title)
		}
		ids[col.ID] = struct{}{}
		titles[strings.ToLower(col.Title)] = struct{}{}
	}
	return nil
}

const (
	defaultPrefix = "settings:"
	categoriesKey = "categories"
	pipelineKey   = "pipeline_columns"
)

type Option func(*Manager)

func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		m.prefix = prefix
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager loads and saves Settings through a Store.
type Manager struct {
	store  Store
	prefix string
	logger *zap.Logger
}

func NewManager(store Store, opts ...Option) *Manager {
	if store == nil {
		panic("settings store must not be nil")
	}
	m := &Manager{
		store:  store,
		prefix: defaultPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the saved settings, falling back to defaults per key.
func (m *Manager) Load(ctx context.Context) (Settings, error) {
	out := Defaults()

	var categories []string
	if found, err := m.get(ctx, categoriesKey, &categories); err != nil {
		return Settings{}, err
	} else if found && len(categories) > 0 {
		out.Categories = categories
	}

	var columns []PipelineColumn
	if found, err := m.get(ctx, pipelineKey, &columns); err != nil {
		return Settings{}, err
	} else if found && len(columns) > 0 {
		out.PipelineColumns = columns
	}

	return out, nil
}

// Save validates and stores s. It returns the normalized settings.
func (m *Manager) Save(ctx context.Context, s Settings) (Settings, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	if err := m.store.Set(ctx, m.prefix+categoriesKey, s.Categories, 0); err != nil {
		return Settings{}, fmt.Errorf("save categories: %w", err)
	}
	if err := m.store.Set(ctx, m.prefix+pipelineKey, s.PipelineColumns, 0); err != nil {
		return Settings{}, fmt.Errorf("save pipeline columns: %w", err)
	}
	m.logger.Info("settings saved",
		zap.Int("categories", len(s.Categories)),
		zap.Int("pipeline_columns", len(s.PipelineColumns)))
	return s, nil
}

// Reset overwrites the stored settings with the defaults.
func (m *Manager) Reset(ctx context.Context) (Settings, error) {
	return m.Save(ctx, Defaults())
}

func (m *Manager) get(ctx context.Context, key string, dest any) (bool, error) {
	err := m.store.Get(ctx, m.prefix+key, dest)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, cache.ErrMiss):
		return false, nil
	default:
		return false, fmt.Errorf("load %s: %w", key, err)
	}
}
