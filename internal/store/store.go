package store

import "github.com/yourorg/adfmt/pkg/types"

type Store interface {
	SaveUnit(name, group string) (*types.Unit, error)
	GetUnit(name string) (*types.Unit, error)
	ListUnits() ([]types.Unit, error)
	DeleteUnit(name string) error

	SaveMethodDoc(doc *types.MethodDoc) error
	GetMethodDocs(unitName string) ([]types.MethodDoc, error)

	Close() error
}
