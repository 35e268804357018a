package models

import (
	"time"

	"linkshield/internal/detection/typosquat"
)

// ScanRequest asks for a single URL verdict.
type ScanRequest struct {
	URL      string `json:"url"`
	DeviceID string `json:"device_id,omitempty"`
	Source   string `json:"source,omitempty"` // "browser", "extension", "api"
}

// PageScanRequest carries every URL found on a page.
type PageScanRequest struct {
	PageURL  string   `json:"page_url,omitempty"`
	URLs     []string `json:"urls"`
	DeviceID string   `json:"device_id,omitempty"`
}

// Verdict is the merged engine + reputation decision for one URL.
type Verdict struct {
	typosquat.Result

	// Highlight tells the extension whether to paint this link.
	Highlight bool `json:"highlight"`

	// Sources lists where the signals came from ("engine", "reputation").
	Sources []string `json:"sources,omitempty"`

	CacheHit  bool      `json:"cache_hit"`
	CheckedAt time.Time `json:"checked_at"`
}

// PageScanResponse is the batch counterpart of Verdict.
type PageScanResponse struct {
	PageURL         string    `json:"page_url,omitempty"`
	Results         []Verdict `json:"results"`
	TotalCount      int       `json:"total_count"`
	SuspiciousCount int       `json:"suspicious_count"`
	CheckedAt       time.Time `json:"checked_at"`
}

// ReputationVerdict is what the remote reputation service returns for a URL.
type ReputationVerdict struct {
	URL       string   `json:"url"`
	Malicious bool     `json:"malicious"`
	RiskScore int      `json:"risk_score"`
	Reasons   []string `json:"reasons,omitempty"`
	Category  string   `json:"category,omitempty"` // "phishing", "malware", ...
}

// ScanStats are the counters the extension popup shows.
type ScanStats struct {
	TotalScans      int64 `json:"total_scans"`
	SuspiciousHits  int64 `json:"suspicious_hits"`
	HighlightedHits int64 `json:"highlighted_hits"`
}
