// Package balancer defines the simulated load balancer domain model: the
// canonical record, its child nodes, behavior flags, and the externally
// visible views projected from a record.
package balancer

import "time"

// Status is the lifecycle status of a simulated load balancer.
type Status string

// Lifecycle statuses. ERROR is reachable only through the lb_error_state
// behavior flag; every other value follows the time-driven transition table
// in the lifecycle package.
const (
	StatusBuild         Status = "BUILD"
	StatusActive        Status = "ACTIVE"
	StatusPendingUpdate Status = "PENDING-UPDATE"
	StatusPendingDelete Status = "PENDING-DELETE"
	StatusError         Status = "ERROR"
	StatusDeleted       Status = "DELETED"
)

// TimeFormat is the wire format for the created/updated timestamps.
const TimeFormat = "2006-01-02T15:04:05.000000Z"

// Timestamp is the envelope the API uses for points in time.
type Timestamp struct {
	Time string `json:"time"`
}

// NewTimestamp formats t in the wire format.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Format(TimeFormat)}
}

// Cluster identifies the (simulated) cluster hosting a balancer.
type Cluster struct {
	Name string `json:"name"`
}

// VirtualIP is one of the canned virtual IP entries attached to every
// balancer.
type VirtualIP struct {
	Address   string `json:"address"`
	ID        int    `json:"id"`
	Type      string `json:"type"`
	IPVersion string `json:"ipVersion"`
}

// SourceAddresses is the canned source address block attached to every
// balancer.
type SourceAddresses struct {
	IPv6Public     string `json:"ipv6Public"`
	IPv4Servicenet string `json:"ipv4Servicenet"`
	IPv4Public     string `json:"ipv4Public"`
}

// Toggle is an enabled/disabled feature block.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// Node is a backend target attached to a balancer. A node is identified by
// its generated id; the (Address, Port) pair must be unique within a
// balancer.
type Node struct {
	ID        int    `json:"id"`
	Address   string `json:"address"`
	Port      int    `json:"port"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
	Weight    int    `json:"weight,omitempty"`
	Type      string `json:"type,omitempty"`
}

// NodeStatusOnline is the only node status this simulator ever assigns.
const NodeStatusOnline = "ONLINE"

// MetaItem is one key/value metadata annotation. Items created through the
// API are assigned a numeric id.
type MetaItem struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	ID    int    `json:"id,omitempty"`
}

// Record is the canonical in-store representation of a balancer. It is
// mutated in place: status and UpdatedAt by the lifecycle engine, Nodes and
// NodeCount by the node operations. A nil Nodes slice means the nodes field
// is absent, which is distinct from an empty list on the list-nodes read
// path.
type Record struct {
	ID                string
	TenantID          string
	Name              string
	Protocol          string
	Port              int
	Algorithm         string
	Status            Status
	Timeout           int
	Cluster           Cluster
	VirtualIPs        []VirtualIP
	SourceAddresses   SourceAddresses
	HTTPSRedirect     bool
	HalfClosed        bool
	ConnectionLogging Toggle
	ContentCaching    Toggle
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Nodes             []Node
	NodeCount         int
	Metadata          []MetaItem
}

// HasNode reports whether the record already carries a node with the given
// address/port identity pair.
func (r *Record) HasNode(address string, port int) bool {
	for _, n := range r.Nodes {
		if n.Address == address && n.Port == port {
			return true
		}
	}
	return false
}

// FindNode returns the node with the given id, or nil.
func (r *Record) FindNode(nodeID int) *Node {
	for i := range r.Nodes {
		if r.Nodes[i].ID == nodeID {
			return &r.Nodes[i]
		}
	}
	return nil
}

// RemoveNode deletes the node with the given id, keeping insertion order of
// the remaining nodes. The nodes field is dropped entirely (nil, not empty)
// when the last node is removed, and NodeCount is recomputed. Returns false
// if no such node exists.
func (r *Record) RemoveNode(nodeID int) bool {
	for i := range r.Nodes {
		if r.Nodes[i].ID == nodeID {
			r.Nodes = append(r.Nodes[:i], r.Nodes[i+1:]...)
			if len(r.Nodes) == 0 {
				r.Nodes = nil
			}
			r.NodeCount = len(r.Nodes)
			return true
		}
	}
	return false
}
