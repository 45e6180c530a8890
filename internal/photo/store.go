// Package photo stores uploaded product photos. Files go to S3 when it is
// configured, otherwise to a local uploads directory served under
// /static/uploads/.
package photo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store defines the interface for photo persistence. Save returns the public
// path or URL under which the stored photo is reachable.
type Store interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// localStore implements Store on the local file system.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a file-system photo store rooted at dir. The
// directory is created if missing.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "photo-store").Logger(),
	}, nil
}

// Save writes the photo under the upload directory and returns its public path.
func (s *localStore) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	name := uniqueName(filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("failed to create photo file")
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("failed to write photo file")
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	s.logger.Debug().Str("file", name).Msg("photo stored")
	return "/static/uploads/" + name, nil
}

// uniqueName sanitises the client-supplied filename and prefixes it with a
// random token so repeated uploads never collide.
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || base == "." {
		base = "photo"
	}
	return uuid.NewString()[:8] + "-" + base
}
