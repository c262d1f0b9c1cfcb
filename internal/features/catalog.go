package features

import (
	"context"

	"society-platform/internal/remote"
)

// Feature names, used as registry keys and metric labels.
const (
	NameVisitors          = "visitors"
	NameNotices           = "notices"
	NameEmergencyContacts = "emergency-contacts"
	NameComplaints        = "complaints"
)

// Backend is the subset of remote.Client the catalog needs.
type Backend interface {
	Get(ctx context.Context, path string, params any, out any) error
	Post(ctx context.Context, path string, body any, out any) error
}

var _ Backend = (*remote.Client)(nil)

type scopeQuery struct {
	SocietyID  string `url:"societyId,omitempty"`
	BuildingID string `url:"buildingId,omitempty"`
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

type complaintRequest struct {
	ComplaintInput
	UserID     string `json:"userId,omitempty"`
	SocietyID  string `json:"societyId,omitempty"`
	BuildingID string `json:"buildingId,omitempty"`
}

// Catalog is the set of features the application exposes.
type Catalog struct {
	Visitors          *Feature[None, []Visitor]
	Notices           *Feature[None, []Notice]
	EmergencyContacts *Feature[None, []EmergencyContact]
	Complaints        *Feature[ComplaintInput, Complaint]
}

// NewCatalog wires every feature to backend. A nil backend makes every
// trigger fail with remote.ErrNotConfigured.
func NewCatalog(backend Backend, env Env) *Catalog {
	return &Catalog{
		Visitors: New(NameVisitors, env, func(ctx context.Context, s Scope, _ None) ([]Visitor, error) {
			return fetchList[Visitor](ctx, backend, "/visitors", scopeQuery{SocietyID: s.SocietyID, BuildingID: s.BuildingID})
		}),
		Notices: New(NameNotices, env, func(ctx context.Context, s Scope, _ None) ([]Notice, error) {
			return fetchList[Notice](ctx, backend, "/notices", scopeQuery{SocietyID: s.SocietyID})
		}),
		EmergencyContacts: New(NameEmergencyContacts, env, func(ctx context.Context, s Scope, _ None) ([]EmergencyContact, error) {
			return fetchList[EmergencyContact](ctx, backend, "/emergency-contacts", scopeQuery{SocietyID: s.SocietyID})
		}),
		Complaints: New(NameComplaints, env, func(ctx context.Context, s Scope, in ComplaintInput) (Complaint, error) {
			if backend == nil {
				return Complaint{}, remote.ErrNotConfigured
			}
			var out Complaint
			err := backend.Post(ctx, "/complaints", complaintRequest{
				ComplaintInput: in,
				UserID:         s.UserID,
				SocietyID:      s.SocietyID,
				BuildingID:     s.BuildingID,
			}, &out)
			return out, err
		}),
	}
}

// Registry returns a registry holding every catalog feature.
func (c *Catalog) Registry() *Registry {
	return NewRegistry(c.Visitors, c.Notices, c.EmergencyContacts, c.Complaints)
}

func fetchList[T any](ctx context.Context, backend Backend, path string, q scopeQuery) ([]T, error) {
	if backend == nil {
		return nil, remote.ErrNotConfigured
	}
	var env listEnvelope[T]
	if err := backend.Get(ctx, path, q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, nil
}
