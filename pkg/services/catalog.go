package services

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// Options tune the catalog services.
type Options struct {
	// UniqueNames rejects case-insensitive duplicate names.
	UniqueNames bool
	// SeedFile overrides the built-in seed fixture.
	SeedFile string
	// Opener is used by connection tests. Nil means datasource.Open.
	Opener ConnectionOpener
}

// Catalog groups the services exposed over HTTP.
type Catalog struct {
	Categories      CategoryService
	OwnerGroups     OwnerGroupService
	DatabaseConfigs DatabaseConfigService
	Elements        ElementService
	ElementDetails  ElementDetailService
	Rules           RuleService
	Definitions     DefinitionService
	Mappings        MappingService
	Seed            SeedService
}

// NewCatalog builds every service on top of one storage backend.
func NewCatalog(repos repositories.Catalog, opts Options, logger *zap.Logger) Catalog {
	return Catalog{
		Categories:      NewCategoryService(repos.Categories, opts.UniqueNames, logger),
		OwnerGroups:     NewOwnerGroupService(repos.OwnerGroups, opts.UniqueNames, logger),
		DatabaseConfigs: NewDatabaseConfigService(repos.DatabaseConfigs, opts.Opener, logger),
		Elements:        NewElementService(repos.Elements, opts.UniqueNames, logger),
		ElementDetails:  NewElementDetailService(repos, logger),
		Rules:           NewRuleService(repos.Rules, repos.Elements, logger),
		Definitions:     NewDefinitionService(repos.Definitions, repos.Elements, logger),
		Mappings:        NewMappingService(repos.Mappings, repos.Elements, logger),
		Seed:            NewSeedService(repos, opts.SeedFile, logger),
	}
}
