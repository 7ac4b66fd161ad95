package formedit

import (
	internalLoader "github.com/goliatone/go-formedit/internal/rawdoc/loader"
	"github.com/goliatone/go-formedit/pkg/model"
	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...rawdoc.LoaderOption) rawdoc.Loader {
	cfg := rawdoc.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewBuilder constructs the schema normalizer.
func NewBuilder(options ...model.BuilderOption) model.Builder {
	return model.NewBuilder(options...)
}
