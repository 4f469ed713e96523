package amcrest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/icholy/digest"
	"go.uber.org/zap"

	"github.com/anicoll/amcrest2mqtt/internal/pkg/config"
)

const commandTimeout = 10 * time.Second

var (
	ErrMissingHost     = errors.New("camera host is required")
	ErrMissingPassword = errors.New("camera password is required")
	// ErrCommunication wraps every failure talking to the camera.
	ErrCommunication = errors.New("amcrest error")
)

type client struct {
	cfg     *config.AmcrestConfig
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(cfg *config.AmcrestConfig) (*client, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	if cfg.Password == "" {
		return nil, ErrMissingPassword
	}
	return &client{
		cfg:     cfg,
		baseURL: "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		http: &http.Client{
			// no client timeout, the event stream stays open indefinitely
			Transport: &digest.Transport{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
		logger: zap.L(),
	}, nil
}

func (c *client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cgi-bin/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrCommunication, path, resp.Status)
	}
	return resp, nil
}

// command runs a CGI request and returns the plain text response.
func (c *client) command(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	resp, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrCommunication, path, err)
	}
	return string(body), nil
}

// value strips the "key=" prefix of a single line response.
func value(body, key string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(body), key+"="))
}
