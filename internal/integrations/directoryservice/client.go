package directoryservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с DirectoryService
// DirectoryService - внешний shop-management сервис: каталоги услуг,
// составы команд и настройки организаций живут там
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента DirectoryService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetOrganization получает организацию по ID
func (c *Client) GetOrganization(ctx context.Context, organizationID int64) (*Organization, error) {
	url := fmt.Sprintf("%s/internal/organizations/%d", c.baseURL, organizationID)

	var org Organization
	if err := c.getJSON(ctx, url, ErrOrganizationNotFound, &org); err != nil {
		return nil, err
	}

	return &org, nil
}

// GetSpecialist получает мастера организации по ID
func (c *Client) GetSpecialist(ctx context.Context, organizationID, specialistID int64) (*Specialist, error) {
	url := fmt.Sprintf("%s/internal/organizations/%d/specialists/%d", c.baseURL, organizationID, specialistID)

	var spec Specialist
	if err := c.getJSON(ctx, url, ErrSpecialistNotFound, &spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// GetService получает услугу организации по ID
// DurationMinutes в ответе - каноническая длительность на текущий момент
func (c *Client) GetService(ctx context.Context, organizationID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/organizations/%d/services/%d", c.baseURL, organizationID, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}

	return &service, nil
}

// getJSON выполняет GET запрос и декодирует ответ
func (c *Client) getJSON(ctx context.Context, url string, notFoundErr error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid id format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
