package advisory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/agriadvisor/internal/config"
	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

const recommendPath = "/recommend-crops/"

// ErrNoRecommendations is returned when the service has nothing for a location.
var ErrNoRecommendations = errors.New("no crop recommendations found")

// Client exposes the crop recommendation service operations used by the application.
type Client interface {
	RecommendCrops(ctx context.Context, location models.LocationData) ([]models.CropRecommendation, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a recommendation client from configuration. Generating
// recommendations runs a local model on the server, hence the long timeout.
func NewClient(cfg config.AdvisoryConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

// apiError is the FastAPI error body.
type apiError struct {
	Detail any `json:"detail"`
}

// RecommendCrops posts the location and returns the suggested crops in the
// order the service ranked them.
func (c *APIClient) RecommendCrops(ctx context.Context, location models.LocationData) ([]models.CropRecommendation, error) {
	var result []models.CropRecommendation
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(location).
		SetResult(&result).
		SetError(apiErr).
		Post(recommendPath)
	if err != nil {
		return nil, fmt.Errorf("request crop recommendations: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNoRecommendations
	}

	if resp.IsError() {
		detail := ""
		if apiErr.Detail != nil {
			detail = fmt.Sprint(apiErr.Detail)
		}
		return nil, fmt.Errorf("advisory api error: status=%d, detail=%s", resp.StatusCode(), detail)
	}

	if len(result) == 0 {
		return nil, ErrNoRecommendations
	}

	return result, nil
}
