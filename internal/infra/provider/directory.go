package provider

import (
	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/usecase"
)

// Directory is the in-memory registry mapping category names to content
// providers. Registration happens once at startup; lookups are plain map
// reads, so no lock is needed afterwards.
type Directory struct {
	providers map[string]usecase.ContentProvider
}

func NewDirectory() *Directory {
	return &Directory{providers: make(map[string]usecase.ContentProvider)}
}

func (d *Directory) Register(category string, p usecase.ContentProvider) {
	d.providers[category] = p
}

func (d *Directory) Resolve(category string) (usecase.ContentProvider, error) {
	p, ok := d.providers[category]
	if !ok {
		return nil, domain.ProviderNotFoundError{Category: category}
	}
	return p, nil
}

var _ usecase.ProviderDirectory = (*Directory)(nil)
