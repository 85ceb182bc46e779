package snippet

import (
	"context"

	"github.com/dshills/snipstorm/internal/snippet/expansion"
	"github.com/dshills/snipstorm/internal/snippet/template"
)

// Catalog finds templates. A miss is reported with ok == false.
type Catalog interface {
	Lookup(shortcut string) (t *template.Template, ok bool)
	LookupNamed(title, path string) (t *template.Template, ok bool)
}

// PickRequest describes what a Picker should offer.
type PickRequest struct {
	Prompt     string
	Categories template.Categories
	Language   string
}

// Choice identifies the template picked by the user.
type Choice struct {
	Title string
	Path  string
}

// Picker lets the user choose a template. ok is false when the user
// dismissed the picker.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (c Choice, ok bool, err error)
}

// Inserter performs the raw templated insertion.
type Inserter interface {
	Insert(ctx context.Context, req expansion.Request) (*expansion.Session, error)
}
