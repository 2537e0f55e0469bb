package crm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/kolo/xmlrpc"
)

var (
	ErrAuthFailed     = errors.New("odoo authentication failed")
	ErrMissingSetting = errors.New("missing odoo setting")
)

// OdooConfig holds the credentials of the target Odoo instance. Password may
// be an API key.
type OdooConfig struct {
	URL      string
	DB       string
	User     string
	Password string
}

// OdooConfigFromEnv reads ODOO_URL, ODOO_DB, ODOO_USER and ODOO_PASSWORD.
func OdooConfigFromEnv() (OdooConfig, error) {
	cfg := OdooConfig{
		URL:      os.Getenv("ODOO_URL"),
		DB:       os.Getenv("ODOO_DB"),
		User:     os.Getenv("ODOO_USER"),
		Password: os.Getenv("ODOO_PASSWORD"),
	}
	for name, v := range map[string]string{
		"ODOO_URL": cfg.URL, "ODOO_DB": cfg.DB, "ODOO_USER": cfg.User, "ODOO_PASSWORD": cfg.Password,
	} {
		if v == "" {
			return cfg, fmt.Errorf("%w: %s", ErrMissingSetting, name)
		}
	}
	return cfg, nil
}

// DefaultOdooTimeout bounds a call when no positive timeout is configured.
const DefaultOdooTimeout = 15 * time.Second

// OdooClient talks to the Odoo external API over XML-RPC.
type OdooClient struct {
	cfg       OdooConfig
	timeout   time.Duration
	transport http.RoundTripper
}

// NewOdooClient creates a client. Each call, from dialing to the last byte
// of the reply, is bounded by timeout.
func NewOdooClient(cfg OdooConfig, timeout time.Duration) *OdooClient {
	if timeout <= 0 {
		timeout = DefaultOdooTimeout
	}
	return &OdooClient{
		cfg:     cfg,
		timeout: timeout,
		transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			ResponseHeaderTimeout: timeout,
			TLSHandshakeTimeout:   timeout,
		},
	}
}

// Authenticate returns the uid for the configured user.
func (c *OdooClient) Authenticate(ctx context.Context) (int, error) {
	var reply any
	err := c.call(ctx, "/xmlrpc/2/common", "authenticate", []any{
		c.cfg.DB, c.cfg.User, c.cfg.Password, map[string]any{},
	}, &reply)
	if err != nil {
		return 0, err
	}

	uid, ok := asInt(reply)
	if !ok || uid == 0 {
		return 0, ErrAuthFailed
	}
	return uid, nil
}

// Create runs model.create with a single record and returns the new id.
func (c *OdooClient) Create(ctx context.Context, uid int, model string, values map[string]any) (int, error) {
	var reply any
	err := c.call(ctx, "/xmlrpc/2/object", "execute_kw", []any{
		c.cfg.DB, uid, c.cfg.Password, model, "create", []any{values},
	}, &reply)
	if err != nil {
		return 0, err
	}

	id, ok := asInt(reply)
	if !ok {
		return 0, fmt.Errorf("%s create: unexpected reply %v", model, reply)
	}
	return id, nil
}

func (c *OdooClient) call(ctx context.Context, path, method string, args []any, reply any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := xmlrpc.NewClient(c.cfg.URL+path, boundTransport{ctx: ctx, base: c.transport})
	if err != nil {
		return fmt.Errorf("odoo client: %w", err)
	}
	defer client.Close()

	if err := client.Call(method, args, reply); err != nil {
		return fmt.Errorf("odoo %s: %w", method, err)
	}
	return nil
}

// boundTransport ties every request of one call to ctx. The transport aborts
// a body read once ctx is done.
type boundTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t boundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
