// Package health holds the wire shape of the server health endpoint
// for CLI consumers.
package health

// Data carries the service identity portion of a health response.
type Data struct {
	Service   string `json:"service"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_sec"`
}

// Response mirrors the JSON returned by the health endpoints.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      Data   `json:"data"`
	Error     string `json:"error,omitempty"`
}
