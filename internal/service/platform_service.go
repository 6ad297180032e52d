package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	config "github.com/maheshrc27/pulseboard/configs"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/transfer"
	"github.com/maheshrc27/pulseboard/pkg/utils"
)

const (
	INSTAGRAM_AUTH_URL  = "https://www.instagram.com/oauth/authorize"
	INSTAGRAM_TOKEN_URL = "https://api.instagram.com/oauth/access_token"
	INSTAGRAM_GRAPH_URL = "https://graph.instagram.com"
	FACEBOOK_GRAPH_URL  = "https://graph.facebook.com/v21.0"
)

// PlatformService handles the OAuth connect flow that turns a platform
// login into a stored SocialAccount with encrypted credentials.
type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, state string) string
	HandleCallback(ctx context.Context, platform, code string, teamID int64) error
	List(ctx context.Context, teamID int64) ([]*models.SocialAccount, error)
	Delete(ctx context.Context, teamID, accountID int64) error
}

type platformService struct {
	cfg      config.Config
	sa       repository.SocialAccountRepository
	hotspots HotspotService
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository, hotspots HotspotService) PlatformService {
	return &platformService{
		cfg:      cfg,
		sa:       sa,
		hotspots: hotspots,
	}
}

func (s *platformService) facebookOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.FacebookClientID,
		ClientSecret: s.cfg.FacebookClientSecret,
		RedirectURL:  s.cfg.FacebookRedirectURI,
		Scopes:       []string{"pages_read_engagement", "read_insights", "pages_show_list"},
		Endpoint:     facebook.Endpoint,
	}
}

func (s *platformService) GetAuthURL(ctx context.Context, platform, state string) string {
	switch platform {
	case models.PlatformInstagram:
		params := url.Values{}
		params.Add("client_id", s.cfg.InstagramClientID)
		params.Add("scope", "instagram_business_basic,instagram_business_manage_insights")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.InstagramRedirectURI)
		params.Add("state", state)

		return fmt.Sprintf("%s?%s", INSTAGRAM_AUTH_URL, params.Encode())

	case models.PlatformFacebook:
		return s.facebookOAuthConfig().AuthCodeURL(state)
	}

	return ""
}

func (s *platformService) HandleCallback(ctx context.Context, platform, code string, teamID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}
	if teamID == 0 {
		err := errors.New("team not found")
		slog.Info(err.Error())
		return err
	}

	switch platform {
	case models.PlatformInstagram:
		return s.instagramCallback(ctx, code, teamID)
	case models.PlatformFacebook:
		return s.facebookCallback(ctx, code, teamID)
	}

	return fmt.Errorf("unsupported platform: %s", platform)
}

func (s *platformService) List(ctx context.Context, teamID int64) ([]*models.SocialAccount, error) {
	return s.sa.ListByTeamID(ctx, teamID)
}

func (s *platformService) Delete(ctx context.Context, teamID, accountID int64) error {
	acc, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc == nil || acc.TeamID != teamID {
		err = errors.New("social account not found")
		slog.Info(err.Error())
		return err
	}
	return s.sa.Remove(ctx, accountID)
}

func (s *platformService) instagramCallback(ctx context.Context, code string, teamID int64) error {
	token, err := s.exchangeInstagramCode(ctx, code)
	if err != nil {
		return err
	}

	userInfo, err := s.getInstagramUserInfo(token.LongLivedToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	accountInfo := &models.SocialAccount{
		TeamID:          teamID,
		Platform:        models.PlatformInstagram,
		AccountID:       userInfo.UserID,
		AccountName:     userInfo.Name,
		AccountUsername: userInfo.Username,
		ProfilePicture:  userInfo.ProfilePicture,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedAccessToken,
		TokenExpiresAt:  token.ExpiresAt,
	}

	id, err := s.sa.Create(ctx, nil, accountInfo)
	if err != nil {
		return err
	}
	accountInfo.ID = id

	s.seedFreshHotspots(ctx, accountInfo)
	return nil
}

// seedFreshHotspots gives a just-connected account a first posting-time
// grid from its recent post history. Best effort; the nightly run rebuilds
// the grid from stored analytics anyway.
func (s *platformService) seedFreshHotspots(ctx context.Context, acc *models.SocialAccount) {
	report, err := s.hotspots.AnalyzeFreshAccount(ctx, acc)
	if err != nil {
		slog.Info("fresh hotspot analysis failed", "social_account_id", acc.ID, "error", err.Error())
		return
	}
	slog.Info("fresh hotspot analysis complete", "social_account_id", acc.ID, "total_posts", report.TotalPosts)
}

func (s *platformService) getInstagramShortLivedToken(code string) (*transfer.InstagramToken, error) {
	data := url.Values{}
	data.Set("client_id", s.cfg.InstagramClientID)
	data.Set("client_secret", s.cfg.InstagramClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.cfg.InstagramRedirectURI)
	data.Set("code", code)

	resp, err := http.Post(
		INSTAGRAM_TOKEN_URL,
		"application/x-www-form-urlencoded",
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to get short-lived token: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		AccessToken string `json:"access_token"`
		UserID      int    `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %v", err)
	}

	token := &transfer.InstagramToken{
		UserID:      result.UserID,
		AccessToken: result.AccessToken,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	return token, nil
}

func (s *platformService) getInstagramLongLivedToken(shortLivedToken string) (string, time.Time, error) {
	reqURL := fmt.Sprintf(
		"%s/access_token?grant_type=ig_exchange_token&client_secret=%s&access_token=%s",
		INSTAGRAM_GRAPH_URL,
		s.cfg.InstagramClientSecret,
		shortLivedToken,
	)

	resp, err := http.Get(reqURL)
	if err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, fmt.Errorf("failed to get long-lived token: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("error response from Instagram: %s (status code: %d)", body, resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, fmt.Errorf("failed to decode long-lived token response: %v", err)
	}

	return result.AccessToken, time.Now().Add(time.Second * time.Duration(result.ExpiresIn)), nil
}

func (s *platformService) exchangeInstagramCode(ctx context.Context, code string) (*transfer.InstagramToken, error) {
	shortLivedToken, err := s.getInstagramShortLivedToken(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get short-lived token: %v", err)
	}

	longLivedToken, expiresAt, err := s.getInstagramLongLivedToken(shortLivedToken.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get long-lived token: %v", err)
	}

	token := &transfer.InstagramToken{
		AccessToken:    longLivedToken,
		LongLivedToken: longLivedToken,
		ExpiresAt:      expiresAt,
	}
	return token, nil
}

func (s *platformService) getInstagramUserInfo(accessToken string) (*transfer.InstagramUserInfo, error) {
	var userInfo transfer.InstagramUserInfo

	reqURL := fmt.Sprintf(
		"%s/me?fields=id,username,name,account_type,profile_picture_url&access_token=%s",
		INSTAGRAM_GRAPH_URL,
		accessToken,
	)

	resp, err := http.Get(reqURL)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &userInfo, nil
}

func (s *platformService) facebookCallback(ctx context.Context, code string, teamID int64) error {
	oauthConfig := s.facebookOAuthConfig()
	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" || oauthConfig.RedirectURL == "" {
		err := errors.New("facebook oauth is not configured")
		slog.Info(err.Error())
		return err
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to exchange code: %v", err)
	}

	page, pageToken, err := s.getFacebookPage(ctx, oauthConfig.Client(ctx, token))
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(pageToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(60 * 24 * time.Hour)
	}

	accountInfo := &models.SocialAccount{
		TeamID:          teamID,
		Platform:        models.PlatformFacebook,
		AccountID:       page.PageID,
		AccountName:     page.Name,
		AccountUsername: page.Username,
		ProfilePicture:  page.ProfilePicture.Data.URL,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedAccessToken,
		TokenExpiresAt:  expiresAt,
	}

	id, err := s.sa.Create(ctx, nil, accountInfo)
	if err != nil {
		return err
	}
	accountInfo.ID = id

	s.seedFreshHotspots(ctx, accountInfo)
	return nil
}

func (s *platformService) getFacebookPage(ctx context.Context, client *http.Client) (*transfer.FacebookPageInfo, string, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?fields=id,name,username,fan_count,access_token,picture", FACEBOOK_GRAPH_URL)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("error response from Facebook: %s (status code: %d)", body, resp.StatusCode)
	}

	var result struct {
		Data []struct {
			transfer.FacebookPageInfo
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, "", err
	}
	if len(result.Data) == 0 {
		return nil, "", errors.New("no facebook pages available for this user")
	}

	page := result.Data[0]
	return &page.FacebookPageInfo, page.AccessToken, nil
}
