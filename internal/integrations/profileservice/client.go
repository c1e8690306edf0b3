package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FallbackDisplayName используется, когда профиль недоступен
const FallbackDisplayName = "A user"

// Client клиент для работы с сервисом профилей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса профилей
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль пользователя
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: base url is not configured", ErrInternal)
	}

	endpoint := fmt.Sprintf("%s/internal/users/%s/profile", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetDisplayName возвращает отображаемое имя пользователя с graceful degradation:
// при любой ошибке возвращается FallbackDisplayName
func (c *Client) GetDisplayName(ctx context.Context, userID string) string {
	profile, err := c.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Warn("Profile not found for user=%s", userID)
		} else {
			c.log.Error("ProfileService unavailable, applying graceful degradation for user=%s: %v", userID, err)
		}
		return FallbackDisplayName
	}

	name := strings.TrimSpace(profile.FullName)
	if name == "" {
		return FallbackDisplayName
	}
	return name
}
