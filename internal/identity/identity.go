// Package identity abstracts how the learner behind a request is
// determined. The portal has no authentication layer of its own yet; a real
// provider can be substituted here without touching the scoring core.
package identity

import "net/http"

// Provider resolves the learner id for an incoming request.
type Provider interface {
	StudentID(r *http.Request) string
}

// Static returns the same learner id for every request. It stands in for
// the missing authentication collaborator.
type Static struct {
	ID string
}

func (s Static) StudentID(*http.Request) string {
	return s.ID
}

// DefaultStudentID is the placeholder identity assigned until a real
// provider exists.
const DefaultStudentID = "12345"
