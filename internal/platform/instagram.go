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

const instagramGraphURL = "https://graph.instagram.com/v21.0"

type InstagramSource struct {
	baseURL string
	client  *http.Client
}

func NewInstagramSource(client *http.Client) *InstagramSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &InstagramSource{baseURL: instagramGraphURL, client: client}
}

// NewInstagramSourceWithBaseURL exists for tests against a stub server.
func NewInstagramSourceWithBaseURL(baseURL string, client *http.Client) *InstagramSource {
	src := NewInstagramSource(client)
	src.baseURL = baseURL
	return src
}

func (s *InstagramSource) GetAccountBasics(ctx context.Context, profileID, accessToken string) (*transfer.AccountBasics, error) {
	reqURL := fmt.Sprintf("%s/%s?fields=followers_count,media_count&access_token=%s",
		s.baseURL, profileID, url.QueryEscape(accessToken))

	var result struct {
		FollowersCount int64 `json:"followers_count"`
		MediaCount     int64 `json:"media_count"`
	}
	if err := s.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	return &transfer.AccountBasics{
		FollowersCount: result.FollowersCount,
		MediaCount:     result.MediaCount,
	}, nil
}

func (s *InstagramSource) GetRecentPosts(ctx context.Context, profileID, accessToken string, limit int, since time.Time) ([]*transfer.PlatformPost, error) {
	reqURL := fmt.Sprintf("%s/%s/media?fields=id,caption,media_type,timestamp,like_count,comments_count&limit=%d&since=%d&access_token=%s",
		s.baseURL, profileID, limit, since.Unix(), url.QueryEscape(accessToken))

	var result struct {
		Data []struct {
			ID            string `json:"id"`
			Caption       string `json:"caption"`
			MediaType     string `json:"media_type"`
			Timestamp     string `json:"timestamp"`
			LikeCount     int64  `json:"like_count"`
			CommentsCount int64  `json:"comments_count"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	posts := make([]*transfer.PlatformPost, 0, len(result.Data))
	for _, m := range result.Data {
		ts, err := time.Parse(time.RFC3339, m.Timestamp)
		if err != nil {
			// Instagram also emits its legacy +0000 format.
			ts, err = time.Parse("2006-01-02T15:04:05-0700", m.Timestamp)
			if err != nil {
				slog.Info("skipping media with unparseable timestamp", "media_id", m.ID)
				continue
			}
		}
		posts = append(posts, &transfer.PlatformPost{
			ID:           m.ID,
			Caption:      m.Caption,
			MediaType:    m.MediaType,
			Timestamp:    ts,
			LikeCount:    m.LikeCount,
			CommentCount: m.CommentsCount,
		})
	}
	return posts, nil
}

func (s *InstagramSource) GetPostInsights(ctx context.Context, postID, accessToken string) (*transfer.PostInsights, error) {
	reqURL := fmt.Sprintf("%s/%s/insights?metric=likes,comments,shares,saved,reach,impressions,clicks&access_token=%s",
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
		case "likes":
			insights.Likes = value
		case "comments":
			insights.Comments = value
		case "shares":
			insights.Shares = value
		case "saved":
			insights.Saved = value
		case "reach":
			insights.Reach = value
		case "impressions":
			insights.Impressions = value
		case "clicks":
			insights.Clicks = value
		}
	}
	return insights, nil
}

func (s *InstagramSource) getJSON(ctx context.Context, reqURL string, out interface{}) error {
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
		var igErr transfer.InstagramErrorResponse
		if jsonErr := json.Unmarshal(body, &igErr); jsonErr == nil && igErr.Error.Message != "" {
			return fmt.Errorf("error response from Instagram: %s (status code: %d)", igErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("error response from Instagram: %s (status code: %d)", body, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
