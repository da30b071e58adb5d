package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwise1/travel_planner_api/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// UserInfoClient resolves a Google access token into the signed-in profile.
type UserInfoClient struct {
	Config   *oauth2.Config
	Endpoint string
	Timeout  time.Duration
}

func NewUserInfoClient(clientID string) *UserInfoClient {
	return &UserInfoClient{
		Config: &oauth2.Config{
			ClientID: clientID,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: googleoauth.Endpoint,
		},
		Endpoint: defaultUserInfoURL,
		Timeout:  10 * time.Second,
	}
}

func (c *UserInfoClient) UserInfo(ctx context.Context, accessToken string) (model.GoogleUserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	client := c.Config.Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return model.GoogleUserInfo{}, errors.Wrap(err, "create userinfo request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.GoogleUserInfo{}, errors.Wrap(err, "get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return model.GoogleUserInfo{}, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info model.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.GoogleUserInfo{}, errors.Wrap(err, "decode user info")
	}
	if info.Email == "" {
		return model.GoogleUserInfo{}, errors.New("google account has no email")
	}
	return info, nil
}
