// Package problem writes RFC 7807 problem+json error responses.
package problem

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const ContentType = "application/problem+json"

// Detail implements RFC 7807 (Problem Details for HTTP APIs).
type Detail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Rules lists the violated validation rules, if any.
	Rules []string `json:"rules,omitempty"`
}

// Write writes a problem response for r with the standard title for status.
func Write(w http.ResponseWriter, r *http.Request, status int, detail string) {
	WriteDetail(w, &Detail{
		Type:     fmt.Sprintf("https://stridelog.dev/errors/%d", status),
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	})
}

func WriteDetail(w http.ResponseWriter, p *Detail) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	Write(w, r, http.StatusBadRequest, detail)
}

func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusUnauthorized, "Authentication required")
}
