package linkedin

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func zapURL(req *http.Request) zap.Field {
	return zap.String("url", req.URL.String())
}

const (
	apiURL    = "https://api.linkedin.com/v2"
	userAgent = "sourcingkit/sourcer"

	// Max page size accepted by the search endpoint.
	perPage = 50

	// The platform throttles aggressively; stay well under its budget.
	requestsPerSecond = 2
	requestBurst      = 4
)

// Client is a rate-limited wrapper around the professional networking
// platform API.
type Client struct {
	token      string
	logger     *zap.Logger
	limiter    *rate.Limiter
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:   token,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}
}
