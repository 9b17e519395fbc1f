package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/velokitchen/VK-BookingService/pkg/retry"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy: retry.DefaultPolicy,
		log:    log,
	}
}

// GetProfile получает профиль пользователя с ролевыми предикатами.
// Сетевые сбои повторяются ограниченное число раз; бизнес-ошибки
// (например, профиль не найден) возвращаются сразу.
func (c *Client) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var profile *Profile

	err := retry.Do(ctx, c.policy, isNetworkError, func() error {
		p, err := c.getProfile(ctx, userID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (c *Client) getProfile(ctx context.Context, userID int64) (*Profile, error) {
	url := fmt.Sprintf("%s/internal/profiles/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
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

// isNetworkError отделяет сетевые сбои от бизнес-ошибок
func isNetworkError(err error) bool {
	if errors.Is(err, ErrProfileNotFound) || errors.Is(err, ErrInvalidResponse) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// http.Client заворачивает сетевые ошибки в *url.Error,
	// который реализует net.Error; остальное считаем неповторяемым,
	// кроме обёрнутых ErrInternal с сетевой причиной
	return errors.Is(err, ErrInternal)
}
