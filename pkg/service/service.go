// Package service implements the simulator's operations against the
// balancer store: create/get/list/delete for balancers and CRUD over their
// nodes. Every operation takes the current synthetic time from the caller,
// reconciles the balancer's status first, then applies its own logic, and
// returns the response payload together with the HTTP status code the
// surrounding request layer should use.
package service

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getlbsim/lbsim/internal/id"
	"github.com/getlbsim/lbsim/internal/storage"
	"github.com/getlbsim/lbsim/pkg/balancer"
	"github.com/getlbsim/lbsim/pkg/lifecycle"
	"github.com/getlbsim/lbsim/pkg/logging"
)

// BalancerEnvelope wraps a single balancer representation.
type BalancerEnvelope struct {
	LoadBalancer balancer.DetailView `json:"loadBalancer"`
}

// BalancerListEnvelope wraps the tenant-scoped list representation.
type BalancerListEnvelope struct {
	LoadBalancers []balancer.ListItemView `json:"loadBalancers"`
}

// NodesEnvelope wraps a list of nodes.
type NodesEnvelope struct {
	Nodes []balancer.Node `json:"nodes"`
}

// NodeEnvelope wraps a single node.
type NodeEnvelope struct {
	Node balancer.Node `json:"node"`
}

// Service owns the store and implements the collaborator contract consumed
// by the HTTP adapter. It applies no transport concerns; payloads and status
// codes are returned to the caller for serialization.
type Service struct {
	store   storage.BalancerStore
	ids     id.Generator
	factory *balancer.Factory
	engine  *lifecycle.Engine
	log     *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator sets the id generator. Tests use a deterministic sequence
// generator here.
func WithIDGenerator(gen id.Generator) Option {
	return func(s *Service) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Service over the given store.
func New(store storage.BalancerStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		ids:   id.NewRandom(),
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.factory = balancer.NewFactory(s.ids)
	s.engine = lifecycle.New(s.log)
	return s
}

// reconcile advances rec's status for the synthetic time now and removes the
// record from the store once its deletion grace period has elapsed. Returns
// true if the record was purged.
func (s *Service) reconcile(rec *balancer.Record, now time.Time, mayTransition bool) bool {
	flags := s.store.Flags(rec.ID)
	if flags == nil {
		flags = make(balancer.BehaviorFlags)
		s.store.SetFlags(rec.ID, flags)
	}
	outcome := s.engine.Reconcile(rec, flags, now, mayTransition)
	if outcome.Purge {
		s.store.Delete(rec.ID)
		return true
	}
	return false
}

// CreateBalancer builds a balancer from the caller's definition and stores
// it. The id may be supplied by the caller; an empty id is assigned from the
// generator. Behavior flags are derived from the request metadata. Returns
// the single-item representation with 202.
func (s *Service) CreateBalancer(tenant string, def balancer.CreateRequest, lbID string, now time.Time) (any, int) {
	if lbID == "" {
		lbID = s.ids.BalancerID()
	}
	rec := s.factory.NewRecord(tenant, def, lbID, now)
	flags := balancer.FlagsFromMetadata(rec.Metadata)

	_ = s.store.Set(rec)
	s.store.SetFlags(lbID, flags)
	s.log.Info("balancer created", "id", lbID, "tenant", tenant, "status", rec.Status)

	return &BalancerEnvelope{LoadBalancer: balancer.Detail(rec)}, http.StatusAccepted
}

// GetBalancer returns the single-item representation of a balancer with
// 200, or a not-found payload with 404.
func (s *Service) GetBalancer(lbID string, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, false) {
		return notFoundBalancer(), http.StatusNotFound
	}
	return &BalancerEnvelope{LoadBalancer: balancer.Detail(rec)}, http.StatusOK
}

// ListBalancers returns the tenant's balancers in the list representation
// with 200. Unknown tenants get an empty list, not 404.
func (s *Service) ListBalancers(tenant string, now time.Time) (any, int) {
	items := make([]balancer.ListItemView, 0)
	for _, rec := range s.store.ListByTenant(tenant) {
		if s.reconcile(rec, now, false) {
			continue
		}
		items = append(items, balancer.ListItem(rec))
	}
	return &BalancerListEnvelope{LoadBalancers: items}, http.StatusOK
}

// DeleteBalancer deletes a balancer. A balancer whose flags hold
// lb_pending_delete moves to PENDING-DELETE instead of disappearing, and
// repeated deletes while pending stay 202; once it reaches DELETED, further
// deletes are rejected with a 400 could-not-be-found payload until the grace
// period purges the record and the id becomes 404.
func (s *Service) DeleteBalancer(lbID string, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, true) {
		return notFoundBalancer(), http.StatusNotFound
	}

	switch rec.Status {
	case balancer.StatusActive, balancer.StatusError, balancer.StatusPendingUpdate:
		s.store.Delete(lbID)
		s.log.Info("balancer deleted", "id", lbID)
		return nil, http.StatusAccepted
	case balancer.StatusPendingDelete:
		return nil, http.StatusAccepted
	case balancer.StatusDeleted:
		return deleteAfterDeleted(lbID), http.StatusBadRequest
	default:
		// BUILD balancers are not deletable; the id is reported as unknown.
		return notFoundBalancer(), http.StatusNotFound
	}
}

// AddNodes appends nodes to an ACTIVE balancer. Incoming (address, port)
// pairs colliding with existing nodes are rejected wholesale. The very first
// append to a node-less balancer triggers a status reconciliation that may
// transition the balancer. Returns only the newly added nodes.
func (s *Service) AddNodes(lbID string, reqs []balancer.NodeRequest, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, false) {
		return notFoundBalancer(), http.StatusNotFound
	}

	if rec.Status != balancer.StatusActive {
		return immutableBalancer(lbID, rec.Status), http.StatusUnprocessableEntity
	}

	for _, req := range reqs {
		if rec.HasNode(req.Address, req.Port) {
			return duplicateNodes(), http.StatusRequestEntityTooLarge
		}
	}

	nodes := s.factory.NormalizeNodes(reqs)
	hadNodes := len(rec.Nodes) > 0
	rec.Nodes = append(rec.Nodes, nodes...)
	rec.NodeCount = len(rec.Nodes)

	if !hadNodes && len(nodes) > 0 {
		s.reconcile(rec, now, true)
	}

	return &NodesEnvelope{Nodes: nodes}, http.StatusOK
}

// GetNode returns a single node with 200. Reads against a DELETED balancer
// are 410; a missing node is 404.
func (s *Service) GetNode(lbID string, nodeID int, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, false) {
		return notFoundBalancer(), http.StatusNotFound
	}

	if rec.Status == balancer.StatusDeleted {
		return markedDeleted(), http.StatusGone
	}
	node := rec.FindNode(nodeID)
	if node == nil {
		return notFoundNode(), http.StatusNotFound
	}
	return &NodeEnvelope{Node: *node}, http.StatusOK
}

// DeleteNode removes a node from an ACTIVE balancer with 202 and an empty
// body. The nodes field is dropped entirely when the last node goes away.
func (s *Service) DeleteNode(lbID string, nodeID int, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, false) {
		return notFoundBalancer(), http.StatusNotFound
	}

	if rec.Status != balancer.StatusActive {
		return immutableBalancer(lbID, rec.Status), http.StatusUnprocessableEntity
	}
	if !rec.RemoveNode(nodeID) {
		return notFoundNode(), http.StatusNotFound
	}
	s.log.Info("node deleted", "balancer", lbID, "node", nodeID)
	return nil, http.StatusAccepted
}

// ListNodes returns the balancer's node sequence with 200. Unlike the
// single-item balancer view, this read path reports an empty list rather
// than an absent field when there are no nodes. Reads against a DELETED
// balancer are 410.
func (s *Service) ListNodes(lbID string, now time.Time) (any, int) {
	rec := s.store.Get(lbID)
	if rec == nil {
		return notFoundBalancer(), http.StatusNotFound
	}
	if s.reconcile(rec, now, false) {
		return notFoundBalancer(), http.StatusNotFound
	}

	if rec.Status == balancer.StatusDeleted {
		return markedDeleted(), http.StatusGone
	}
	nodes := rec.Nodes
	if nodes == nil {
		nodes = []balancer.Node{}
	}
	return &NodesEnvelope{Nodes: nodes}, http.StatusOK
}

// Store exposes the underlying store, mainly for the serve wiring and
// health/statistics reporting.
func (s *Service) Store() storage.BalancerStore {
	return s.store
}
