package transfer

import "time"

// AccountBasics is the normalized account snapshot every platform source
// returns from its profile endpoint.
type AccountBasics struct {
	FollowersCount int64 `json:"followers_count"`
	MediaCount     int64 `json:"media_count"`
}

// PlatformPost is one published post as listed by a platform source.
type PlatformPost struct {
	ID           string    `json:"id"`
	Caption      string    `json:"caption"`
	MediaType    string    `json:"media_type"`
	Timestamp    time.Time `json:"timestamp"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

// PostInsights is the normalized per-post metric set from a platform's
// insights endpoint.
type PostInsights struct {
	Likes       int64 `json:"likes"`
	Comments    int64 `json:"comments"`
	Shares      int64 `json:"shares"`
	Saved       int64 `json:"saved"`
	Reach       int64 `json:"reach"`
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
}
