package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/opconnect/onepassword"
)

// Config carries the two mandatory connection parameters plus optional
// collaborators. HTTPClient and Logger are defaulted when nil.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client talks to a 1Password Connect server. Every method issues at
// most one request; retry and timeout policy belong to the injected
// http.Client. Clients are safe for concurrent use — there is no shared
// mutable state between calls.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	logger     logrus.FieldLogger
}

// NewClient validates the configuration and returns a ready client. It
// performs no network activity: a missing token or unusable base URL
// fails here, not on first use.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "missing Connect server URL"}
	}
	if cfg.Token == "" {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "missing Connect token"}
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("invalid Connect server URL: %v", err)}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "Connect server URL must include scheme and host"}
	}
	cleanPath := strings.TrimSuffix(parsed.Path, "/")
	if cleanPath == "" {
		cleanPath = "/v1"
	} else if !strings.HasSuffix(cleanPath, "/v1") {
		cleanPath = cleanPath + "/v1"
	}
	parsed.Path = cleanPath
	parsed.RawQuery = ""
	parsed.Fragment = ""

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		token:      cfg.Token,
		logger:     logger,
	}, nil
}

// ListVaults returns every vault the token can read.
func (c *Client) ListVaults(ctx context.Context) ([]onepassword.Vault, error) {
	var vaults []onepassword.Vault
	if err := c.do(ctx, http.MethodGet, "vaults", nil, nil, &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// ListVaultsByTitle filters vaults by exact name server-side.
func (c *Client) ListVaultsByTitle(ctx context.Context, name string) ([]onepassword.Vault, error) {
	var vaults []onepassword.Vault
	query := url.Values{"filter": {buildEqualsFilter("name", name)}}
	if err := c.do(ctx, http.MethodGet, "vaults", query, nil, &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// GetVault fetches a single vault by ID.
func (c *Client) GetVault(ctx context.Context, vaultUUID string) (*onepassword.Vault, error) {
	var vault onepassword.Vault
	path := "vaults/" + escapePathSegment(vaultUUID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &vault); err != nil {
		return nil, err
	}
	return &vault, nil
}

// GetVaultByTitle resolves a vault by exact name. Zero matches fail
// with a not-found error, multiple matches with a bad-request error
// asking for a more specific name.
func (c *Client) GetVaultByTitle(ctx context.Context, name string) (*onepassword.Vault, error) {
	vaults, err := c.ListVaultsByTitle(ctx, name)
	if err != nil {
		return nil, err
	}
	switch len(vaults) {
	case 1:
		return &vaults[0], nil
	case 0:
		return nil, &onepassword.Error{StatusCode: http.StatusNotFound, Message: "No Vaults found with name"}
	default:
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "Found multiple Vaults with given name. Provide a more specific Vault name"}
	}
}

// ListItems returns item summaries for a vault. Summaries omit field
// values; use GetItem to load a complete item.
func (c *Client) ListItems(ctx context.Context, vaultUUID string) ([]onepassword.Item, error) {
	var items []onepassword.Item
	path := fmt.Sprintf("vaults/%s/items", escapePathSegment(vaultUUID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindItemsByTitle runs a server-side exact-title filter and returns
// the matching summaries. A 2xx body that is not a JSON array decodes
// to an empty result rather than an error; callers treat it the same
// as "nothing matched".
func (c *Client) FindItemsByTitle(ctx context.Context, vaultUUID, title string) ([]onepassword.Item, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("vaults/%s/items", escapePathSegment(vaultUUID))
	query := url.Values{"filter": {buildEqualsFilter("title", title)}}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	var items []onepassword.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// GetItem fetches a complete item by ID.
func (c *Client) GetItem(ctx context.Context, vaultUUID, itemUUID string) (*onepassword.Item, error) {
	var item onepassword.Item
	path := fmt.Sprintf("vaults/%s/items/%s", escapePathSegment(vaultUUID), escapePathSegment(itemUUID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByTitle resolves an item by exact title, then fetches it in
// full. The filter endpoint returns abbreviated summaries, so the
// second request is always needed. The two calls are not transactional:
// an item deleted in between surfaces the fetch's not-found error.
func (c *Client) GetItemByTitle(ctx context.Context, vaultUUID, title string) (*onepassword.Item, error) {
	items, err := c.FindItemsByTitle(ctx, vaultUUID, title)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 1:
		return c.GetItem(ctx, vaultUUID, items[0].ID)
	case 0:
		return nil, &onepassword.Error{StatusCode: http.StatusNotFound, Message: "No Items found with title"}
	default:
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "Found multiple Items with given title. Provide a more specific Item title"}
	}
}

// CreateItem persists a freshly built item into the vault. The vault
// parameter is authoritative and overwrites whatever vault reference
// the item carries. Items that already have a server-assigned ID are
// rejected before any request is made.
func (c *Client) CreateItem(ctx context.Context, vaultUUID string, item *onepassword.Item) (*onepassword.Item, error) {
	if item.ID != "" {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "cannot create an item that already has an ID"}
	}
	payload := *item
	payload.Vault = onepassword.ItemVault{ID: vaultUUID}

	var created onepassword.Item
	path := fmt.Sprintf("vaults/%s/items", escapePathSegment(vaultUUID))
	if err := c.do(ctx, http.MethodPost, path, nil, &payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem replaces the stored item wholesale. Fields or tags left
// out of the given item are removed server-side, so callers must send
// the complete desired state.
func (c *Client) UpdateItem(ctx context.Context, vaultUUID string, item *onepassword.Item) (*onepassword.Item, error) {
	if item.ID == "" {
		return nil, &onepassword.Error{StatusCode: http.StatusBadRequest, Message: "cannot update an item without an ID"}
	}
	payload := *item
	payload.Vault = onepassword.ItemVault{ID: vaultUUID}

	var updated onepassword.Item
	path := fmt.Sprintf("vaults/%s/items/%s", escapePathSegment(vaultUUID), escapePathSegment(item.ID))
	if err := c.do(ctx, http.MethodPut, path, nil, &payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes the item from its vault. Deletion is not
// idempotent: deleting an already-deleted item surfaces the server's
// not-found error unchanged.
func (c *Client) DeleteItem(ctx context.Context, vaultUUID, itemUUID string) error {
	path := fmt.Sprintf("vaults/%s/items/%s", escapePathSegment(vaultUUID), escapePathSegment(itemUUID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	basePath := strings.TrimSuffix(c.baseURL.Path, "/")
	relative := strings.TrimPrefix(path, "/")
	if relative != "" {
		u.Path = basePath + "/" + relative
	} else {
		u.Path = basePath
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &onepassword.Error{Message: fmt.Sprintf("encoding request body: %v", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return &onepassword.Error{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   u.Path,
	}).Debug("connect request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &onepassword.Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalizeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &onepassword.Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding response body: %v", err)}
	}
	return nil
}
