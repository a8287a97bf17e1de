package balancer

// DetailView is the single-item representation of a balancer: the full
// record minus the tenant tag and the nodeCount bookkeeping field. Node
// presence is conveyed by the nodes field itself, which is omitted entirely
// when the balancer has no nodes.
type DetailView struct {
	Name              string          `json:"name"`
	ID                string          `json:"id"`
	Protocol          string          `json:"protocol"`
	Port              int             `json:"port"`
	Algorithm         string          `json:"algorithm"`
	Status            Status          `json:"status"`
	Cluster           Cluster         `json:"cluster"`
	Timeout           int             `json:"timeout"`
	Created           Timestamp       `json:"created"`
	VirtualIPs        []VirtualIP     `json:"virtualIps"`
	SourceAddresses   SourceAddresses `json:"sourceAddresses"`
	HTTPSRedirect     bool            `json:"httpsRedirect"`
	Updated           Timestamp       `json:"updated"`
	HalfClosed        bool            `json:"halfClosed"`
	ConnectionLogging Toggle          `json:"connectionLogging"`
	ContentCaching    Toggle          `json:"contentCaching"`
	Nodes             []Node          `json:"nodes,omitempty"`
	Metadata          []MetaItem      `json:"metadata,omitempty"`
}

// ListItemView is the list representation of a balancer: a fixed allowlist
// of fields. Nodes are never listed, only counted.
type ListItemView struct {
	Name       string      `json:"name"`
	Protocol   string      `json:"protocol"`
	ID         string      `json:"id"`
	Port       int         `json:"port"`
	Algorithm  string      `json:"algorithm"`
	Status     Status      `json:"status"`
	Timeout    int         `json:"timeout"`
	Created    Timestamp   `json:"created"`
	VirtualIPs []VirtualIP `json:"virtualIps"`
	Updated    Timestamp   `json:"updated"`
	NodeCount  int         `json:"nodeCount"`
}

// Detail projects the single-item view of a record.
func Detail(r *Record) DetailView {
	return DetailView{
		Name:              r.Name,
		ID:                r.ID,
		Protocol:          r.Protocol,
		Port:              r.Port,
		Algorithm:         r.Algorithm,
		Status:            r.Status,
		Cluster:           r.Cluster,
		Timeout:           r.Timeout,
		Created:           NewTimestamp(r.CreatedAt),
		VirtualIPs:        r.VirtualIPs,
		SourceAddresses:   r.SourceAddresses,
		HTTPSRedirect:     r.HTTPSRedirect,
		Updated:           NewTimestamp(r.UpdatedAt),
		HalfClosed:        r.HalfClosed,
		ConnectionLogging: r.ConnectionLogging,
		ContentCaching:    r.ContentCaching,
		Nodes:             r.Nodes,
		Metadata:          r.Metadata,
	}
}

// ListItem projects the list view of a record.
func ListItem(r *Record) ListItemView {
	return ListItemView{
		Name:       r.Name,
		Protocol:   r.Protocol,
		ID:         r.ID,
		Port:       r.Port,
		Algorithm:  r.Algorithm,
		Status:     r.Status,
		Timeout:    r.Timeout,
		Created:    NewTimestamp(r.CreatedAt),
		VirtualIPs: r.VirtualIPs,
		Updated:    NewTimestamp(r.UpdatedAt),
		NodeCount:  r.NodeCount,
	}
}
