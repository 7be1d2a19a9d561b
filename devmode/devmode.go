package devmode

import (
	"sort"
	"time"
)

// RequestStatus is the lifecycle state of a developer-mode request.
// Transitions out of pending only ever happen on the remote API.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is a tenant's request to enable the developer-mode feature flag.
type Request struct {
	ID               string        `json:"id"`
	EmpresaID        string        `json:"empresaId"`
	EmpresaNombre    string        `json:"empresaNombre"`
	RequestedByEmail string        `json:"requestedByEmail"`
	Status           RequestStatus `json:"status"`
	RequestNote      string        `json:"requestNote,omitempty"`
	RequestedAt      time.Time     `json:"requestedAt"`
}

func (r Request) IsPending() bool {
	return r.Status == StatusPending
}

// Switch is the per-company developer-mode flag.
type Switch struct {
	EmpresaID string    `json:"empresaId"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ValidDecision reports whether status is a terminal decision an admin can make.
func ValidDecision(status RequestStatus) bool {
	return status == StatusApproved || status == StatusRejected
}

// SortRecent orders requests most-recent-first, ties broken by ID for stable output.
func SortRecent(reqs []Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].RequestedAt.Equal(reqs[j].RequestedAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].RequestedAt.After(reqs[j].RequestedAt)
	})
}

// PendingOnly filters requests with status pending, preserving order.
func PendingOnly(reqs []Request) []Request {
	out := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	return out
}
