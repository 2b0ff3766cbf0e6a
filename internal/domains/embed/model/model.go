package model

import (
	"net/url"
	"strings"

	"scheduleright/shared/model"
)

const (
	DocType    = "embed_config"
	EntityName = "embed config"

	StatusActive   = "active"
	StatusArchived = "archived"
)

type EmbedConfig struct {
	ID           string   `json:"_id"`
	Rev          string   `json:"-"`
	Type         string   `json:"type"`
	OrgID        string   `json:"org_id"`
	SiteID       string   `json:"site_id"`
	Token        string   `json:"token"`
	AllowDomains []string `json:"allow_domains,omitempty"`
	Status       string   `json:"status"`
	model.Metadata
}

func (e EmbedConfig) Archived() bool {
	return e.Status == StatusArchived
}

// OriginAllowed checks the request origin against the allow list. An empty
// list admits any origin. A listed domain also admits its subdomains.
func (e EmbedConfig) OriginAllowed(origin string) bool {
	if len(e.AllowDomains) == 0 {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	for _, domain := range e.AllowDomains {
		domain = strings.ToLower(strings.TrimSpace(domain))

		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	return false
}
