package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/prasadk19/postdeck/configs"
	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/internal/transfer"
	"github.com/prasadk19/postdeck/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const linkedinAPIBase = "https://api.linkedin.com/v2"

type LinkedInService interface {
	AuthURL(state string) string
	Callback(ctx context.Context, userID int64, code string) error
	Disconnect(ctx context.Context, userID int64) error
	PublishPost(ctx context.Context, post *models.Post) error
	FetchMetrics(ctx context.Context, conn *models.LinkedInConnection, post *models.Post) (*models.AnalyticsSample, error)
}

type linkedInService struct {
	cfg config.Config
	cr  repository.ConnectionRepository
}

func NewLinkedInService(cfg config.Config, cr repository.ConnectionRepository) LinkedInService {
	return &linkedInService{
		cfg: cfg,
		cr:  cr,
	}
}

func (s *linkedInService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedInClientID,
		ClientSecret: s.cfg.LinkedInClientSecret,
		RedirectURL:  s.cfg.LinkedInRedirectURI,
		Scopes:       []string{"openid", "profile", "w_member_social"},
		Endpoint:     linkedin.Endpoint,
	}
}

func (s *linkedInService) AuthURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *linkedInService) Callback(ctx context.Context, userID int64, code string) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	oauthCfg := s.oauthConfig()
	if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" || oauthCfg.RedirectURL == "" {
		err := errors.New("LinkedIn OAuth configuration is incomplete")
		slog.Info(err.Error())
		return err
	}

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	memberID, err := s.memberID(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	encryptedToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.EncryptionKey))
	if err != nil {
		return err
	}

	conn := &models.LinkedInConnection{
		UserID:           userID,
		LinkedInMemberID: memberID,
		AccessToken:      encryptedToken,
		ExpiresAt:        token.Expiry,
	}
	return s.cr.Upsert(ctx, conn)
}

func (s *linkedInService) Disconnect(ctx context.Context, userID int64) error {
	return s.cr.Deactivate(ctx, userID)
}

func (s *linkedInService) memberID(ctx context.Context, accessToken string) (string, error) {
	body, err := s.get(ctx, accessToken, linkedinAPIBase+"/userinfo")
	if err != nil {
		return "", err
	}

	var info struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if info.Sub == "" {
		return "", errors.New("LinkedIn userinfo response has no member id")
	}
	return info.Sub, nil
}

// PublishPost pushes the content to LinkedIn on behalf of the post's owner.
func (s *linkedInService) PublishPost(ctx context.Context, post *models.Post) error {
	conn, exists, err := s.cr.GetByUserID(ctx, post.UserID)
	if err != nil {
		return err
	}
	if !exists || !conn.IsActive {
		err = errors.New("no active LinkedIn connection for user")
		slog.Info(err.Error())
		return err
	}

	accessToken, err := utils.Decrypt(conn.AccessToken, []byte(s.cfg.EncryptionKey))
	if err != nil {
		return err
	}

	payload := transfer.LinkedInSharePayload{
		Author:         "urn:li:person:" + conn.LinkedInMemberID,
		LifecycleState: "PUBLISHED",
	}
	payload.SpecificContent.ShareContent.ShareCommentary.Text = post.Content
	payload.SpecificContent.ShareContent.ShareMediaCategory = "NONE"
	payload.Visibility.MemberNetworkVisibility = "PUBLIC"

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinAPIBase+"/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		err = fmt.Errorf("LinkedIn share failed: %s: %s", resp.Status, string(respBody))
		slog.Info(err.Error())
		return err
	}

	return nil
}

// FetchMetrics pulls current engagement numbers for a published post and
// shapes them as one immutable sample.
func (s *linkedInService) FetchMetrics(ctx context.Context, conn *models.LinkedInConnection, post *models.Post) (*models.AnalyticsSample, error) {
	accessToken, err := utils.Decrypt(conn.AccessToken, []byte(s.cfg.EncryptionKey))
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/socialActions/urn:li:share:%d", linkedinAPIBase, post.ID)
	body, err := s.get(ctx, accessToken, url)
	if err != nil {
		return nil, err
	}

	var stats transfer.LinkedInShareStats
	if err := json.Unmarshal(body, &stats); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	sample := &models.AnalyticsSample{
		PostID:      post.ID,
		Impressions: stats.ImpressionCount,
		Clicks:      stats.ClickCount,
		Likes:       stats.LikesSummary.TotalLikes,
		Comments:    stats.CommentsSummary.TotalComments,
		Shares:      stats.ShareCount,
		Reach:       stats.UniqueImpressionsCount,
		CollectedAt: time.Now(),
	}
	if sample.Impressions > 0 {
		engagement := sample.Likes + sample.Comments + sample.Shares
		sample.EngagementRate = float64(engagement) / float64(sample.Impressions) * 100
	}
	return sample, nil
}

func (s *linkedInService) get(ctx context.Context, accessToken, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if resp.StatusCode >= 300 {
		err = fmt.Errorf("LinkedIn API request failed: %s: %s", resp.Status, string(body))
		slog.Info(err.Error())
		return nil, err
	}
	return body, nil
}
