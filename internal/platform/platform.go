package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/pulseboard/internal/transfer"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// DataSource abstracts one social platform's analytics read surface. All
// methods take a decrypted access token; credential handling stays with the
// caller.
type DataSource interface {
	GetAccountBasics(ctx context.Context, profileID, accessToken string) (*transfer.AccountBasics, error)
	GetRecentPosts(ctx context.Context, profileID, accessToken string, limit int, since time.Time) ([]*transfer.PlatformPost, error)
	GetPostInsights(ctx context.Context, postID, accessToken string) (*transfer.PostInsights, error)
}

// Registry resolves a DataSource by platform name.
type Registry struct {
	sources map[string]DataSource
}

func NewRegistry(sources map[string]DataSource) *Registry {
	return &Registry{sources: sources}
}

func (r *Registry) Source(platform string) (DataSource, error) {
	src, ok := r.sources[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return src, nil
}
