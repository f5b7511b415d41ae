package model

import "strings"

// LeadData is the inbound submission that triggers a scan. Target is
// derived from the email domain when not supplied explicitly.
type LeadData struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Target    string `json:"target,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	ClientOS  string `json:"client_os,omitempty"`
	ClientBR  string `json:"client_browser,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
}

// EmailDomain returns the domain portion of the lead's email address,
// or "" when the address has no domain part.
func (l LeadData) EmailDomain() string {
	at := strings.LastIndex(l.Email, "@")
	if at < 0 || at == len(l.Email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(l.Email[at+1:]))
}

// ResolveTarget returns the explicit target when set, otherwise the
// email domain.
func (l LeadData) ResolveTarget() string {
	if t := strings.TrimSpace(l.Target); t != "" {
		return t
	}
	return l.EmailDomain()
}
