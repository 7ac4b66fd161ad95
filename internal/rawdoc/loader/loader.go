package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formedit/pkg/rawdoc"
)

// Loader implements rawdoc.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ rawdoc.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options rawdoc.LoaderOptions) rawdoc.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src rawdoc.Source) (rawdoc.Document, error) {
	if src == nil {
		return rawdoc.Document{}, errors.New("rawdoc loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case rawdoc.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case rawdoc.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case rawdoc.SourceKindURL:
		if !l.allowHTTP {
			return rawdoc.Document{}, errors.New("rawdoc loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("rawdoc loader: unsupported source kind")
	}
	if err != nil {
		return rawdoc.Document{}, err
	}

	return rawdoc.NewDocument(src, data)
}
