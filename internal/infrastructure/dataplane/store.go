package dataplane

import (
	"context"
	"embed"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/infrastructure/config"
)

//go:embed data/catalog.yaml data/diets.yaml
var embeddedData embed.FS

const (
	embeddedCatalogPath = "data/catalog.yaml"
	embeddedDietsPath   = "data/diets.yaml"
)

// Store holds the loaded reference data. It implements both the
// CatalogRepository and DietProfileRegistry outbound ports; everything
// inside is immutable after Load, so the store is safe for
// unsynchronized concurrent reads.
type Store struct {
	snapshot *catalog.Snapshot
	profiles []diet.Profile
	byID     map[string]diet.Profile
}

// Load reads, parses, and validates the catalog and diet documents
// selected by the configuration. The two documents load concurrently;
// either failure aborts the load.
func Load(ctx context.Context, cfg config.CatalogConfig) (*Store, error) {
	var (
		snapshot *catalog.Snapshot
		profiles []diet.Profile
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readSource(cfg, cfg.RecipesPath, embeddedCatalogPath)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		snapshot, err = parseCatalog(data)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		return ctx.Err()
	})
	g.Go(func() error {
		data, err := readSource(cfg, cfg.DietsPath, embeddedDietsPath)
		if err != nil {
			return fmt.Errorf("diets: %w", err)
		}
		profiles, err = parseDiets(data)
		if err != nil {
			return fmt.Errorf("diets: %w", err)
		}
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]diet.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	return &Store{
		snapshot: snapshot,
		profiles: profiles,
		byID:     byID,
	}, nil
}

// readSource returns the raw bytes for one document, external file or
// embedded default depending on the configured source.
func readSource(cfg config.CatalogConfig, filePath, embeddedPath string) ([]byte, error) {
	if cfg.Source == "file" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		return data, nil
	}
	return embeddedData.ReadFile(embeddedPath)
}

func parseCatalog(data []byte) (*catalog.Snapshot, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	ingredients := make([]catalog.Ingredient, len(doc.Ingredients))
	for i, d := range doc.Ingredients {
		ingredients[i] = d.toIngredient()
	}

	recipes := make([]catalog.Recipe, len(doc.Recipes))
	for i, d := range doc.Recipes {
		r, err := d.toRecipe()
		if err != nil {
			return nil, err
		}
		recipes[i] = r
	}

	return catalog.NewSnapshot(recipes, ingredients)
}

func parseDiets(data []byte) ([]diet.Profile, error) {
	var doc dietsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("no diet profiles defined")
	}

	seen := make(map[string]bool, len(doc.Profiles))
	for _, p := range doc.Profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.ID, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %q", diet.ErrDuplicateProfile, p.ID)
		}
		seen[p.ID] = true
	}

	// Stable presentation order regardless of document order
	profiles := make([]diet.Profile, len(doc.Profiles))
	copy(profiles, doc.Profiles)
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	return profiles, nil
}

// LoadSnapshot implements outbound.CatalogRepository.
func (s *Store) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	return s.snapshot, nil
}

// Resolve implements outbound.DietProfileRegistry.
func (s *Store) Resolve(ctx context.Context, id string) (diet.Profile, error) {
	p, ok := s.byID[id]
	if !ok {
		return diet.Profile{}, fmt.Errorf("%w: %q", diet.ErrProfileNotFound, id)
	}
	return p, nil
}

// List implements outbound.DietProfileRegistry. Profiles come back in
// stable id order; callers must not mutate the returned slice.
func (s *Store) List(ctx context.Context) ([]diet.Profile, error) {
	return s.profiles, nil
}

// RecipeCount returns the number of recipes in the loaded catalog.
func (s *Store) RecipeCount() int {
	return s.snapshot.Len()
}

// IngredientCount returns the number of ingredients in the loaded catalog.
func (s *Store) IngredientCount() int {
	return len(s.snapshot.Ingredients())
}
