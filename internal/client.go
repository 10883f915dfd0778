package internal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Client is the session controller: it sequences authentication, chat and
// cluster operations over one transport channel. It keeps no conversation
// state of its own; callers thread the conversation id between chat turns.
//
// Usage:
//
//	client := internal.NewClient(cfg, internal.NewKeyringStore())
//	defer client.Close()
//	resp, err := client.Chat(ctx, "check cluster health", "")
type Client struct {
	cfg       *Config
	creds     CredentialStore
	transport *Transport
}

// NewClient opens a client scope against the configured server
func NewClient(cfg *Config, creds CredentialStore) *Client {
	return &Client{
		cfg:       cfg,
		creds:     creds,
		transport: OpenTransport(cfg, creds),
	}
}

// Close releases the underlying channel
func (c *Client) Close() {
	c.transport.Close()
}

// Login authenticates with username and password. Returned credentials are
// persisted to the credential store and identity fields to the config.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var resp LoginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.transport.Request(ctx, http.MethodPost, "/auth/login", body, nil, &resp); err != nil {
		return nil, err
	}

	if resp.APIKey != "" {
		if err := c.creds.SetAPIKey(resp.APIKey); err != nil {
			return nil, &LocalStateError{Err: err}
		}
		c.transport.SetAuthToken(resp.APIKey)
	}
	if resp.RefreshToken != "" {
		if err := c.creds.SetRefreshToken(resp.RefreshToken); err != nil {
			return nil, &LocalStateError{Err: err}
		}
	}
	if resp.User != nil {
		c.cfg.Username = resp.User.Username
		c.cfg.Organization = resp.User.Organization
		if err := c.cfg.Save(); err != nil {
			return nil, err
		}
	}
	return resp.User, nil
}

// LoginWithAPIKey stores the key, then validates it against /auth/me on the
// same channel. A failed validation leaves the key in the store; the caller
// decides whether to clear it (logout does).
func (c *Client) LoginWithAPIKey(ctx context.Context, apiKey string) (*User, error) {
	if err := c.creds.SetAPIKey(apiKey); err != nil {
		return nil, &LocalStateError{Err: err}
	}
	c.transport.SetAuthToken(apiKey)

	user, err := c.Whoami(ctx)
	if err != nil {
		return nil, err
	}

	c.cfg.Username = user.Username
	c.cfg.Organization = user.Organization
	if err := c.cfg.Save(); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout tells the server to invalidate the session, then clears local
// credentials. The server call is best effort: its failure is logged and
// discarded, and local clearing proceeds unconditionally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.transport.Request(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		LogDebug("server logout failed (ignored): %v", err)
	}
	return ClearCredentials(c.creds, c.cfg)
}

// Whoami returns the identity bound to the current API key
func (c *Client) Whoami(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Chat sends one buffered chat message. Pass the conversation id from the
// previous response to continue a dialogue, or "" to start a new one.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	payload := map[string]interface{}{"message": message}
	if conversationID != "" {
		payload["conversation_id"] = conversationID
	}
	var resp ChatResponse
	if err := c.transport.Request(ctx, http.MethodPost, "/chat", payload, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatStream sends a chat message and returns the incremental response
// fragments. The concatenated fragments equal the buffered response text
// for the same input. The caller must Close the stream.
func (c *Client) ChatStream(ctx context.Context, message, conversationID string) (*Stream, error) {
	payload := map[string]interface{}{"message": message, "stream": true}
	if conversationID != "" {
		payload["conversation_id"] = conversationID
	}
	return c.transport.RequestStream(ctx, http.MethodPost, "/chat", payload)
}

// ListClusters returns all accessible clusters
func (c *Client) ListClusters(ctx context.Context) ([]Cluster, error) {
	var resp struct {
		Clusters []Cluster `json:"clusters"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

// GetCluster returns the raw detail document for one cluster
func (c *Client) GetCluster(ctx context.Context, clusterID string) (map[string]interface{}, error) {
	detail := map[string]interface{}{}
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters/"+url.PathEscape(clusterID), nil, nil, &detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// GetClusterStatus returns the current status of a cluster
func (c *Client) GetClusterStatus(ctx context.Context, clusterID string) (*ClusterStatus, error) {
	var status ClusterStatus
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters/"+url.PathEscape(clusterID)+"/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetClusterHealth returns health check results for a cluster
func (c *Client) GetClusterHealth(ctx context.Context, clusterID string) (*ClusterHealth, error) {
	var health ClusterHealth
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters/"+url.PathEscape(clusterID)+"/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetClusterNodes returns the nodes in a cluster
func (c *Client) GetClusterNodes(ctx context.Context, clusterID string) ([]Node, error) {
	var resp struct {
		Nodes []Node `json:"nodes"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters/"+url.PathEscape(clusterID)+"/nodes", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// GetResourceGroups returns the resource groups in a cluster
func (c *Client) GetResourceGroups(ctx context.Context, clusterID string) ([]ResourceGroup, error) {
	var resp struct {
		ResourceGroups []ResourceGroup `json:"resource_groups"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/clusters/"+url.PathEscape(clusterID)+"/resource-groups", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ResourceGroups, nil
}

// PerformFailover initiates a failover. The server validates the target
// node and decides whether a non-forced failover is safe.
func (c *Client) PerformFailover(ctx context.Context, clusterID, targetNode string, force bool) (map[string]interface{}, error) {
	payload := map[string]interface{}{"force": force}
	if targetNode != "" {
		payload["target_node"] = targetNode
	}
	result := map[string]interface{}{}
	path := "/clusters/" + url.PathEscape(clusterID) + "/failover"
	if err := c.transport.Request(ctx, http.MethodPost, path, payload, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ManageResourceGroup dispatches an action (start, stop, move) on a
// resource group. The action string is passed through verbatim; the server
// is authoritative about which actions are legal.
func (c *Client) ManageResourceGroup(ctx context.Context, clusterID, resourceGroup, action string) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	path := "/clusters/" + url.PathEscape(clusterID) +
		"/resource-groups/" + url.PathEscape(resourceGroup) +
		"/" + url.PathEscape(action)
	if err := c.transport.Request(ctx, http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetConversationHistory returns past conversations, newest first
func (c *Client) GetConversationHistory(ctx context.Context, limit, offset int) ([]Conversation, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	var resp struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/conversations", nil, query, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// GetOperationHistory returns past operations, optionally filtered by cluster
func (c *Client) GetOperationHistory(ctx context.Context, clusterID string, limit int) ([]Operation, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if clusterID != "" {
		query.Set("cluster_id", clusterID)
	}
	var resp struct {
		Operations []Operation `json:"operations"`
	}
	if err := c.transport.Request(ctx, http.MethodGet, "/operations", nil, query, &resp); err != nil {
		return nil, err
	}
	return resp.Operations, nil
}

// HealthCheck probes server liveness
func (c *Client) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	if err := c.transport.Request(ctx, http.MethodGet, "/health", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetVersion returns the server version document
func (c *Client) GetVersion(ctx context.Context) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	if err := c.transport.Request(ctx, http.MethodGet, "/version", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
