package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstagramGetAccountBasics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/17841400000000000", r.URL.Path)
		assert.Equal(t, "secret-token", r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"followers_count": 1234, "media_count": 56}`)
	}))
	defer server.Close()

	source := NewInstagramSourceWithBaseURL(server.URL, server.Client())

	basics, err := source.GetAccountBasics(context.Background(), "17841400000000000", "secret-token")

	assert.NoError(t, err)
	assert.Equal(t, int64(1234), basics.FollowersCount)
	assert.Equal(t, int64(56), basics.MediaCount)
}

func TestInstagramGetRecentPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/17841400000000000/media", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [
			{"id": "m1", "caption": "first", "media_type": "IMAGE", "timestamp": "2026-08-20T10:00:00+0000", "like_count": 10, "comments_count": 2},
			{"id": "m2", "caption": "second", "media_type": "VIDEO", "timestamp": "2026-08-21T18:30:00Z", "like_count": 25, "comments_count": 7},
			{"id": "m3", "caption": "broken", "media_type": "IMAGE", "timestamp": "not-a-date", "like_count": 1, "comments_count": 0}
		]}`)
	}))
	defer server.Close()

	source := NewInstagramSourceWithBaseURL(server.URL, server.Client())

	posts, err := source.GetRecentPosts(context.Background(), "17841400000000000", "secret-token", 25, time.Now().AddDate(0, 0, -30))

	assert.NoError(t, err)
	// The unparseable row is skipped, not fatal.
	assert.Len(t, posts, 2)
	assert.Equal(t, "m1", posts[0].ID)
	assert.Equal(t, int64(10), posts[0].LikeCount)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), posts[0].Timestamp.UTC())
	assert.Equal(t, "VIDEO", posts[1].MediaType)
	assert.Equal(t, int64(7), posts[1].CommentCount)
}

func TestInstagramGetPostInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/m1/insights", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("metric"), "clicks")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [
			{"name": "likes", "values": [{"value": 100}]},
			{"name": "comments", "values": [{"value": 20}]},
			{"name": "shares", "values": [{"value": 5}]},
			{"name": "saved", "values": [{"value": 8}]},
			{"name": "reach", "values": [{"value": 4000}]},
			{"name": "impressions", "values": [{"value": 5500}]},
			{"name": "unknown_metric", "values": [{"value": 999}]},
			{"name": "clicks", "values": [{"value": 77}]}
		]}`)
	}))
	defer server.Close()

	source := NewInstagramSourceWithBaseURL(server.URL, server.Client())

	insights, err := source.GetPostInsights(context.Background(), "m1", "secret-token")

	assert.NoError(t, err)
	assert.Equal(t, int64(100), insights.Likes)
	assert.Equal(t, int64(20), insights.Comments)
	assert.Equal(t, int64(5), insights.Shares)
	assert.Equal(t, int64(8), insights.Saved)
	assert.Equal(t, int64(4000), insights.Reach)
	assert.Equal(t, int64(5500), insights.Impressions)
	assert.Equal(t, int64(77), insights.Clicks)
}

func TestInstagramErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "Invalid OAuth access token", "type": "OAuthException", "code": 190}}`)
	}))
	defer server.Close()

	source := NewInstagramSourceWithBaseURL(server.URL, server.Client())

	basics, err := source.GetAccountBasics(context.Background(), "17841400000000000", "bad-token")

	assert.Error(t, err)
	assert.Nil(t, basics)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
	assert.Contains(t, err.Error(), "400")
}

func TestRegistryUnsupportedPlatform(t *testing.T) {
	registry := NewRegistry(map[string]DataSource{
		"instagram": NewInstagramSource(nil),
	})

	src, err := registry.Source("instagram")
	assert.NoError(t, err)
	assert.NotNil(t, src)

	src, err = registry.Source("myspace")
	assert.Error(t, err)
	assert.Nil(t, src)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}
