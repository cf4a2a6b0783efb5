package medicamentsparser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/giygas/medicaments-graph/logging"
	"golang.org/x/text/encoding/charmap"
)

// LineSource supplies the lines of one dataset, already decoded to UTF-8.
// The sequence is lazy and finite; a non-nil error ends it.
//
// FileSource, HTTPSource and ReaderSource hold the whole payload in memory
// before the first line is yielded: the UTF-8 or ISO-8859-1 choice is made
// on the complete content, so a latin1 byte on the last line still decodes
// the first one. Memory per dataset is the size of its file.
type LineSource interface {
	Lines(ctx context.Context) iter.Seq2[string, error]
}

// Compile-time checks to ensure the sources implement LineSource
var (
	_ LineSource = (*FileSource)(nil)
	_ LineSource = (*HTTPSource)(nil)
	_ LineSource = (*ReaderSource)(nil)
)

// DefaultBaseURL is where the BDPM files are published.
const DefaultBaseURL = "https://base-donnees-publique.medicaments.gouv.fr/download/file/"

const maxLineSize = 1 * 1024 * 1024

// decodePayload returns a UTF-8 reader over the payload.
// As there are some files in iso-8859-1 and some in utf8, the whole payload is checked first.
func decodePayload(payload []byte) io.Reader {
	if utf8.Valid(payload) {
		return bytes.NewReader(payload)
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(payload))
}

// scanLines yields the lines of r in order, stopping early when ctx is done.
func scanLines(ctx context.Context, r io.Reader, name string, yield func(string, error) bool) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		if !yield(scanner.Text(), nil) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		yield("", fmt.Errorf("scanner error in %s: %w", name, err))
	}
}

// FileSource reads the lines of a local file.
type FileSource struct {
	Path string
}

// Lines implements LineSource
func (s *FileSource) Lines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cleanPath := filepath.Clean(s.Path)
		payload, err := os.ReadFile(cleanPath)
		if err != nil {
			yield("", fmt.Errorf("failed to open %s: %w", cleanPath, err))
			return
		}
		scanLines(ctx, decodePayload(payload), cleanPath, yield)
	}
}

// HTTPSource downloads a file and yields its lines.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource creates a source with the default download timeout
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL: url,
		Client: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Lines implements LineSource
func (s *HTTPSource) Lines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		payload, err := s.download(ctx)
		if err != nil {
			yield("", err)
			return
		}
		scanLines(ctx, decodePayload(payload), s.URL, yield)
	}
}

func (s *HTTPSource) download(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.URL, err)
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", s.URL, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: unexpected status %d", s.URL, response.StatusCode)
	}

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logging.Debug(fmt.Sprintf("%s downloaded without errors", s.URL), "bytes", len(payload))
	return payload, nil
}

// ReaderSource yields the lines of an in-memory reader. It can be consumed once.
type ReaderSource struct {
	Name   string
	Reader io.Reader
}

// NewStringSource wraps a literal payload, mostly useful in tests
func NewStringSource(name, payload string) *ReaderSource {
	return &ReaderSource{Name: name, Reader: strings.NewReader(payload)}
}

// Lines implements LineSource
func (s *ReaderSource) Lines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		payload, err := io.ReadAll(s.Reader)
		if err != nil {
			yield("", fmt.Errorf("failed to read %s: %w", s.Name, err))
			return
		}
		scanLines(ctx, decodePayload(payload), s.Name, yield)
	}
}

// SourceMode selects where DefaultSources reads the datasets from.
type SourceMode string

const (
	SourceHTTP SourceMode = "http"
	SourceFile SourceMode = "file"
)

// DefaultSources builds one source per dataset. In file mode the files are
// expected as <dataDir>/<FileName>.txt, in http mode they are downloaded from baseURL.
func DefaultSources(mode SourceMode, baseURL, dataDir string) (map[Dataset]LineSource, error) {
	sources := make(map[Dataset]LineSource, len(schemas))

	for _, dataset := range Datasets() {
		fileName := schemas[dataset].FileName + ".txt"

		switch mode {
		case SourceHTTP:
			if baseURL == "" {
				baseURL = DefaultBaseURL
			}
			sources[dataset] = NewHTTPSource(strings.TrimSuffix(baseURL, "/") + "/" + fileName)
		case SourceFile:
			sources[dataset] = &FileSource{Path: filepath.Join(dataDir, fileName)}
		default:
			return nil, fmt.Errorf("unknown source mode %q", mode)
		}
	}

	return sources, nil
}
