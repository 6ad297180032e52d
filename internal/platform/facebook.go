package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/maheshrc27/pulseboard/internal/transfer"
)

const facebookGraphURL = "https://graph.facebook.com/v21.0"

type FacebookSource struct {
	baseURL string
	client  *http.Client
}

func NewFacebookSource(client *http.Client) *FacebookSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &FacebookSource{baseURL: facebookGraphURL, client: client}
}

func NewFacebookSourceWithBaseURL(baseURL string, client *http.Client) *FacebookSource {
	src := NewFacebookSource(client)
	src.baseURL = baseURL
	return src
}

func (s *FacebookSource) GetAccountBasics(ctx context.Context, profileID, accessToken string) (*transfer.AccountBasics, error) {
	reqURL := fmt.Sprintf("%s/%s?fields=fan_count,published_posts.limit(1).summary(true)&access_token=%s",
		s.baseURL, profileID, url.QueryEscape(accessToken))

	var result struct {
		FanCount       int64 `json:"fan_count"`
		PublishedPosts struct {
			Summary struct {
				TotalCount int64 `json:"total_count"`
			} `json:"summary"`
		} `json:"published_posts"`
	}
	if err := s.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	return &transfer.AccountBasics{
		FollowersCount: result.FanCount,
		MediaCount:     result.PublishedPosts.Summary.TotalCount,
	}, nil
}

func (s *FacebookSource) GetRecentPosts(ctx context.Context, profileID, accessToken string, limit int, since time.Time) ([]*transfer.PlatformPost, error) {
	reqURL := fmt.Sprintf("%s/%s/published_posts?fields=id,message,created_time,likes.summary(true),comments.summary(true)&limit=%d&since=%d&access_token=%s",
		s.baseURL, profileID, limit, since.Unix(), url.QueryEscape(accessToken))

	var result struct {
		Data []struct {
			ID          string `json:"id"`
			Message     string `json:"message"`
			CreatedTime string `json:"created_time"`
			Likes       struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"likes"`
			Comments struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"comments"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	posts := make([]*transfer.PlatformPost, 0, len(result.Data))
	for _, p := range result.Data {
		ts, err := time.Parse("2006-01-02T15:04:05-0700", p.CreatedTime)
		if err != nil {
			ts, err = time.Parse(time.RFC3339, p.CreatedTime)
			if err != nil {
				slog.Info("skipping post with unparseable created_time", "post_id", p.ID)
				continue
			}
		}
		posts = append(posts, &transfer.PlatformPost{
			ID:           p.ID,
			Caption:      p.Message,
			MediaType:    "POST",
			Timestamp:    ts,
			LikeCount:    p.Likes.Summary.TotalCount,
			CommentCount: p.Comments.Summary.TotalCount,
		})
	}
	return posts, nil
}

func (s *FacebookSource) GetPostInsights(ctx context.Context, postID, accessToken string) (*transfer.PostInsights, error) {
	reqURL := fmt.Sprintf("%s/%s/insights?metric=post_impressions,post_impressions_unique,post_clicks,post_reactions_like_total&access_token=%s",
		s.baseURL, postID, url.QueryEscape(accessToken))

	var result struct {
		Data []struct {
			Name   string `json:"name"`
			Values []struct {
				Value int64 `json:"value"`
			} `json:"values"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	insights := &transfer.PostInsights{}
	for _, metric := range result.Data {
		if len(metric.Values) == 0 {
			continue
		}
		value := metric.Values[0].Value
		switch metric.Name {
		case "post_impressions":
			insights.Impressions = value
		case "post_impressions_unique":
			insights.Reach = value
		case "post_clicks":
			insights.Clicks = value
		case "post_reactions_like_total":
			insights.Likes = value
		}
	}
	return insights, nil
}

func (s *FacebookSource) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error response from Facebook: %s (status code: %d)", body, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
