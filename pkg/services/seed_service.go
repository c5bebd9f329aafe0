package services

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/audit"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
	sqlguard "github.com/ekaya-inc/element-catalog/pkg/sql"
)

// MaxSeedElements bounds Fixture.ElementCount.
const MaxSeedElements = 10000

//go:embed fixtures/catalog.yaml
var defaultFixture []byte

// Fixture is a sample catalog in YAML form. Elements reference categories,
// owner groups and databases by name. When ElementCount exceeds the number
// of element templates, the templates are repeated with a numeric suffix
// ("Revenue 2", "Revenue 3", ...), up to MaxSeedElements.
type Fixture struct {
	Categories   []string          `yaml:"categories"`
	OwnerGroups  []string          `yaml:"ownerGroups"`
	Databases    []FixtureDatabase `yaml:"databases"`
	ElementCount int               `yaml:"elementCount"`
	Elements     []FixtureElement  `yaml:"elements"`
}

type FixtureDatabase struct {
	Name    string   `yaml:"name"`
	Schemas []string `yaml:"schemas"`
}

type FixtureElement struct {
	Name        string        `yaml:"name"`
	Category    string        `yaml:"category"`
	OwnerGroup  string        `yaml:"ownerGroup"`
	Description string        `yaml:"description"`
	Rules       []FixtureRule `yaml:"rules"`
}

type FixtureRule struct {
	Name       string         `yaml:"name"`
	RuleType   string         `yaml:"ruleType"`
	Severity   string         `yaml:"severity"`
	Enabled    *bool          `yaml:"enabled"`
	RuleConfig map[string]any `yaml:"ruleConfig"`
}

// SeedResult counts the records created by a seed run.
type SeedResult struct {
	Message         string `json:"message"`
	Categories      int    `json:"categories"`
	OwnerGroups     int    `json:"ownerGroups"`
	DatabaseConfigs int    `json:"databaseConfigs"`
	Elements        int    `json:"elements"`
	Rules           int    `json:"rules"`
	Mappings        int    `json:"mappings"`
}

// SeedService loads sample data into the catalog.
type SeedService interface {
	// Seed loads the configured fixture file, or the built-in sample catalog.
	Seed(ctx context.Context) (*SeedResult, error)
	// SeedFrom loads a fixture from r.
	SeedFrom(ctx context.Context, r io.Reader) (*SeedResult, error)
}

type seedService struct {
	catalog repositories.Catalog
	path    string
	auditor *audit.SecurityAuditor
	logger  *zap.Logger
}

// NewSeedService creates a SeedService. path may be empty to use the
// built-in fixture.
func NewSeedService(catalog repositories.Catalog, path string, logger *zap.Logger) SeedService {
	return &seedService{
		catalog: catalog,
		path:    path,
		auditor: audit.NewSecurityAuditor(logger),
		logger:  logger.Named("seed-service"),
	}
}

var _ SeedService = (*seedService)(nil)

func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	if s.path == "" {
		return s.SeedFrom(ctx, bytes.NewReader(defaultFixture))
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return s.SeedFrom(ctx, f)
}

func (s *seedService) SeedFrom(ctx context.Context, r io.Reader) (*SeedResult, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, apperrors.Invalid("fixture", "cannot parse YAML: %v", err)
	}
	// Nothing is written unless the whole fixture is valid.
	if err := fx.validate(); err != nil {
		return nil, err
	}
	if finding := fx.screenIdentifiers(); finding != nil {
		s.auditor.LogInjectionAttempt(ctx, audit.InjectionDetails{
			Field:       finding.Field,
			Value:       finding.Value,
			Fingerprint: finding.Fingerprint,
			Reason:      finding.Reason,
		})
		return nil, apperrors.Invalid(finding.Field, "%s", finding.Reason)
	}

	res := &SeedResult{}

	categoryIDs := make(map[string]int64, len(fx.Categories))
	for _, name := range fx.Categories {
		c := fixtureCategory(name)
		if err := s.catalog.Categories.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", name, err)
		}
		categoryIDs[name] = c.ID
		res.Categories++
	}

	ownerIDs := make(map[string]int64, len(fx.OwnerGroups))
	for _, name := range fx.OwnerGroups {
		g := fixtureOwnerGroup(name)
		if err := s.catalog.OwnerGroups.Create(ctx, g); err != nil {
			return nil, fmt.Errorf("seed owner group %q: %w", name, err)
		}
		ownerIDs[name] = g.ID
		res.OwnerGroups++
	}

	dbIDs := make([]int64, len(fx.Databases))
	for i, db := range fx.Databases {
		d := fixtureDatabaseConfig(db)
		if err := s.catalog.DatabaseConfigs.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("seed database config %q: %w", db.Name, err)
		}
		dbIDs[i] = d.ID
		res.DatabaseConfigs++
	}

	count := fx.ElementCount
	if count <= 0 {
		count = len(fx.Elements)
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("seed interrupted after %d elements: %w", res.Elements, err)
		}

		tmpl := fx.Elements[i%len(fx.Elements)]
		round := i / len(fx.Elements)

		name := tmpl.Name
		if round > 0 {
			name = fmt.Sprintf("%s %d", tmpl.Name, round+1)
		}

		e := &models.Element{
			Name:         name,
			Description:  ptr(tmpl.Description),
			CategoryID:   categoryIDs[tmpl.Category],
			OwnerGroupID: ownerIDs[tmpl.OwnerGroup],
		}
		if err := s.catalog.Elements.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("seed element %q: %w", name, err)
		}
		res.Elements++

		for _, fr := range tmpl.Rules {
			rule := fr.toRule(e.ID)
			if err := s.catalog.Rules.Create(ctx, rule); err != nil {
				return nil, fmt.Errorf("seed rule %q: %w", fr.Name, err)
			}
			res.Rules++
		}

		for _, m := range fixtureMappings(i, e.ID, fx.Databases, dbIDs) {
			if err := s.catalog.Mappings.Create(ctx, m); err != nil {
				return nil, fmt.Errorf("seed mapping for %q: %w", name, err)
			}
			res.Mappings++
		}
	}

	res.Message = "Database seeded successfully"
	s.logger.Info("Seeded catalog",
		zap.Int("categories", res.Categories),
		zap.Int("owner_groups", res.OwnerGroups),
		zap.Int("database_configs", res.DatabaseConfigs),
		zap.Int("elements", res.Elements),
		zap.Int("rules", res.Rules),
		zap.Int("mappings", res.Mappings))
	return res, nil
}

var fixtureMappingTypes = []string{models.MappingTypeDirect, models.MappingTypeDerived, models.MappingTypeCalculated}

// fixtureMappings gives element number n between one and three mappings,
// spread deterministically over the fixture databases and schemas.
func fixtureMappings(n int, elementID int64, dbs []FixtureDatabase, dbIDs []int64) []*models.DatabaseMapping {
	if len(dbs) == 0 {
		return nil
	}

	var out []*models.DatabaseMapping
	for j := 0; j < n%3+1; j++ {
		k := n + j
		db := dbs[k%len(dbs)]
		schema := db.Schemas[k%len(db.Schemas)]

		m := &models.DatabaseMapping{
			ElementID:        elementID,
			DatabaseConfigID: dbIDs[k%len(dbs)],
			SchemaName:       schema,
			TableName:        fixtureTable(schema),
			ColumnName:       fmt.Sprintf("col_%d_%d", n+1, j+1),
			MappingType:      fixtureMappingTypes[k%len(fixtureMappingTypes)],
		}
		if j == 2 {
			m.TransformationLogic = map[string]any{"formula": "CONCAT(col1, ' ', col2)"}
		}
		out = append(out, m)
	}
	return out
}

func fixtureCategory(name string) *models.Category {
	return &models.Category{Name: name, Description: ptr(name + " related elements")}
}

func fixtureOwnerGroup(name string) *models.OwnerGroup {
	return &models.OwnerGroup{Name: name, Description: ptr(name + " ownership group")}
}

func fixtureDatabaseConfig(db FixtureDatabase) *models.DatabaseConfig {
	return &models.DatabaseConfig{
		Name:          db.Name,
		ConnectionURL: fmt.Sprintf("postgresql://user:pass@%s.example.com:5432/db", strings.ToLower(db.Name)),
		Description:   ptr(db.Name + " database configuration"),
	}
}

func fixtureTable(schema string) string {
	return "tbl_" + schema + "_data"
}

func (fr FixtureRule) toRule(elementID int64) *models.Rule {
	return models.RuleInput{
		Name:       fr.Name,
		RuleType:   fr.RuleType,
		Severity:   fr.Severity,
		Enabled:    fr.Enabled,
		RuleConfig: fr.RuleConfig,
	}.ToRule(elementID)
}

// validate applies the model validation to every record the fixture would
// create and checks that every name an element uses is declared.
func (fx *Fixture) validate() error {
	if len(fx.Elements) == 0 {
		return apperrors.Invalid("elements", "fixture declares no elements")
	}
	if fx.ElementCount < 0 || fx.ElementCount > MaxSeedElements {
		return apperrors.Invalid("elementCount", "must be between 0 and %d", MaxSeedElements)
	}

	for i, name := range fx.Categories {
		if err := fixtureCategory(name).Validate(); err != nil {
			return fixtureError(fmt.Sprintf("categories[%d]", i), err)
		}
	}
	for i, name := range fx.OwnerGroups {
		if err := fixtureOwnerGroup(name).Validate(); err != nil {
			return fixtureError(fmt.Sprintf("ownerGroups[%d]", i), err)
		}
	}
	for i, db := range fx.Databases {
		if err := fixtureDatabaseConfig(db).Validate(); err != nil {
			return fixtureError(fmt.Sprintf("databases[%d]", i), err)
		}
		if len(db.Schemas) == 0 {
			return apperrors.Invalid("databases", "database %q declares no schemas", db.Name)
		}
	}

	declared := func(list []string, name string) bool {
		for _, v := range list {
			if v == name {
				return true
			}
		}
		return false
	}
	for i, e := range fx.Elements {
		at := fmt.Sprintf("elements[%d]", i)
		// References are resolved by name below; any positive id passes here.
		el := &models.Element{Name: e.Name, CategoryID: 1, OwnerGroupID: 1}
		if err := el.Validate(); err != nil {
			return fixtureError(at, err)
		}
		if !declared(fx.Categories, e.Category) {
			return apperrors.Invalid("elements", "element %q uses undeclared category %q", e.Name, e.Category)
		}
		if !declared(fx.OwnerGroups, e.OwnerGroup) {
			return apperrors.Invalid("elements", "element %q uses undeclared owner group %q", e.Name, e.OwnerGroup)
		}
		for j, fr := range e.Rules {
			if err := fr.toRule(1).Validate(); err != nil {
				return fixtureError(fmt.Sprintf("%s.rules[%d]", at, j), err)
			}
		}
	}
	return nil
}

// screenIdentifiers runs the mapping identifier screen over every schema
// and table name the fixture generates.
func (fx *Fixture) screenIdentifiers() *sqlguard.InjectionFinding {
	for i, db := range fx.Databases {
		for j, schema := range db.Schemas {
			at := fmt.Sprintf("databases[%d].schemas[%d]", i, j)
			finding := sqlguard.CheckIdentifiers(
				sqlguard.Identifier{Field: at, Value: schema},
				sqlguard.Identifier{Field: at, Value: fixtureTable(schema)},
			)
			if finding != nil {
				return finding
			}
		}
	}
	return nil
}

// fixtureError prefixes a model ValidationError with the fixture path of
// the offending record.
func fixtureError(at string, err error) error {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return &apperrors.ValidationError{Field: at + "." + vErr.Field, Message: vErr.Message}
	}
	return err
}

func ptr(s string) *string {
	return &s
}
