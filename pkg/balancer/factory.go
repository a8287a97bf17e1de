package balancer

import (
	"time"

	"github.com/getlbsim/lbsim/internal/id"
)

// Creation defaults applied when the caller omits a field.
const (
	DefaultPort      = 80
	DefaultAlgorithm = "RANDOM"
	DefaultTimeout   = 30
)

// NodeRequest is the caller-supplied definition of a node. Weight and Type
// are optional and only carried into the node when supplied.
type NodeRequest struct {
	Address   string `json:"address"`
	Port      int    `json:"port"`
	Condition string `json:"condition"`
	Weight    int    `json:"weight,omitempty"`
	Type      string `json:"type,omitempty"`
}

// CreateRequest is the caller-supplied definition of a balancer.
type CreateRequest struct {
	Name              string        `json:"name"`
	Protocol          string        `json:"protocol"`
	Port              int           `json:"port,omitempty"`
	Algorithm         string        `json:"algorithm,omitempty"`
	Timeout           int           `json:"timeout,omitempty"`
	HTTPSRedirect     bool          `json:"httpsRedirect,omitempty"`
	HalfClosed        bool          `json:"halfClosed,omitempty"`
	ConnectionLogging *Toggle       `json:"connectionLogging,omitempty"`
	Nodes             []NodeRequest `json:"nodes,omitempty"`
	Metadata          []MetaItem    `json:"metadata,omitempty"`
}

// Factory builds canonical records from creation requests. Id assignment is
// delegated to the injected generator.
type Factory struct {
	ids id.Generator
}

// NewFactory creates a Factory using the given id generator.
func NewFactory(ids id.Generator) *Factory {
	return &Factory{ids: ids}
}

// cannedVirtualIPs returns the fixed virtual IP pair every balancer carries.
func cannedVirtualIPs() []VirtualIP {
	return []VirtualIP{
		{Address: "127.0.0.1", ID: 1111, Type: "PUBLIC", IPVersion: "IPV4"},
		{Address: "0000:0000:0000:0000:1111:111b:0000:0000", ID: 1111, Type: "PUBLIC", IPVersion: "IPV6"},
	}
}

// cannedSourceAddresses returns the fixed source address block.
func cannedSourceAddresses() SourceAddresses {
	return SourceAddresses{
		IPv6Public:     "0000:0001:0002::00/00",
		IPv4Servicenet: "127.0.0.1",
		IPv4Public:     "127.0.0.1",
	}
}

// NewRecord builds the canonical record for a creation request. The initial
// status is BUILD when the lb_building flag is present in the request
// metadata, otherwise ACTIVE. Nodes supplied at create are normalized and
// counted; metadata entries are assigned generated ids.
func (f *Factory) NewRecord(tenant string, def CreateRequest, lbID string, now time.Time) *Record {
	port := def.Port
	if port == 0 {
		port = DefaultPort
	}
	algorithm := def.Algorithm
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	timeout := def.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	connLogging := Toggle{}
	if def.ConnectionLogging != nil {
		connLogging = *def.ConnectionLogging
	}

	status := StatusActive
	if FlagsFromMetadata(def.Metadata).Has(FlagBuilding) {
		status = StatusBuild
	}

	rec := &Record{
		ID:                lbID,
		TenantID:          tenant,
		Name:              def.Name,
		Protocol:          def.Protocol,
		Port:              port,
		Algorithm:         algorithm,
		Status:            status,
		Timeout:           timeout,
		Cluster:           Cluster{Name: "test-cluster"},
		VirtualIPs:        cannedVirtualIPs(),
		SourceAddresses:   cannedSourceAddresses(),
		HTTPSRedirect:     def.HTTPSRedirect,
		HalfClosed:        def.HalfClosed,
		ConnectionLogging: connLogging,
		ContentCaching:    Toggle{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if len(def.Nodes) > 0 {
		rec.Nodes = f.NormalizeNodes(def.Nodes)
	}
	rec.NodeCount = len(rec.Nodes)

	if len(def.Metadata) > 0 {
		rec.Metadata = make([]MetaItem, len(def.Metadata))
		for i, item := range def.Metadata {
			item.ID = f.ids.MetaID()
			rec.Metadata[i] = item
		}
	}

	return rec
}

// NormalizeNodes turns node requests into stored nodes, assigning generated
// ids and the ONLINE status.
func (f *Factory) NormalizeNodes(reqs []NodeRequest) []Node {
	nodes := make([]Node, len(reqs))
	for i, req := range reqs {
		nodes[i] = Node{
			ID:        f.ids.NodeID(),
			Address:   req.Address,
			Port:      req.Port,
			Condition: req.Condition,
			Status:    NodeStatusOnline,
			Weight:    req.Weight,
			Type:      req.Type,
		}
	}
	return nodes
}
