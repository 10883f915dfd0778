package internal

// User is the identity returned by /auth/login and /auth/me
type User struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
}

// LoginResponse is the payload returned by POST /auth/login
type LoginResponse struct {
	APIKey       string `json:"api_key"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// ChatResponse is the buffered payload returned by POST /chat. Servers have
// used both "response" and "message" for the assistant text.
type ChatResponse struct {
	Response       string   `json:"response"`
	Message        string   `json:"message"`
	ConversationID string   `json:"conversation_id"`
	Actions        []string `json:"actions"`
}

// Text returns the assistant text regardless of which field carried it
func (r *ChatResponse) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Message
}

// Cluster is a summary entry from GET /clusters
type Cluster struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	NodeCount      int    `json:"node_count"`
	ResourceGroups int    `json:"resource_groups"`
}

// Node is a cluster member from GET /clusters/{id}/nodes and cluster status
type Node struct {
	Name        string  `json:"name"`
	Hostname    string  `json:"hostname"`
	Status      string  `json:"status"`
	IsPrimary   bool    `json:"is_primary"`
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
}

// ClusterStatus is the payload of GET /clusters/{id}/status
type ClusterStatus struct {
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Nodes          []Node   `json:"nodes"`
	ResourceGroups []string `json:"resource_groups"`
}

// ClusterHealth is the payload of GET /clusters/{id}/health
type ClusterHealth struct {
	HealthScore     int      `json:"health_score"`
	HealthStatus    string   `json:"health_status"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ResourceGroup is an entry from GET /clusters/{id}/resource-groups
type ResourceGroup struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Node  string `json:"node"`
}

// Conversation is an entry from GET /conversations
type Conversation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	MessageCount int    `json:"message_count"`
}

// Operation is an entry from GET /operations
type Operation struct {
	ID        string `json:"id"`
	ClusterID string `json:"cluster_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}
