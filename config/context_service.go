package config

import "context"

type ContextCatalogWriter interface {
	SetCurrent(ctx context.Context, name string) error
}

type ContextCatalogReader interface {
	List(ctx context.Context) ([]Context, error)
	GetCurrent(ctx context.Context) (Context, error)
}

// ContextResolver picks the named context, or the current one when the name
// is empty, and applies overrides on top of it.
type ContextResolver interface {
	ResolveContext(ctx context.Context, selection ContextSelection) (Context, error)
}

type ContextValidator interface {
	Validate(ctx context.Context, cfg Context) error
}

type ContextService interface {
	ContextCatalogWriter
	ContextCatalogReader
	ContextResolver
	ContextValidator
}
