package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/getlbsim/lbsim/pkg/balancer"
	"github.com/getlbsim/lbsim/pkg/httputil"
)

// Request body envelopes, matching the service wire format.

type createBody struct {
	LoadBalancer *balancer.CreateRequest `json:"loadBalancer"`
}

type addNodesBody struct {
	Nodes []balancer.NodeRequest `json:"nodes"`
}

// parseSimulatedTime accepts unix seconds or RFC3339.
func parseSimulatedTime(v string) (time.Time, error) {
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("unsupported time format")
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status    string `json:"status"`
	Balancers int    `json:"balancers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Balancers: s.svc.Store().Count(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body createBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LoadBalancer == nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	payload, status := s.svc.CreateBalancer(r.PathValue("tenant"), *body.LoadBalancer, "", s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	payload, status := s.svc.ListBalancers(r.PathValue("tenant"), s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	payload, status := s.svc.GetBalancer(r.PathValue("lbID"), s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	payload, status := s.svc.DeleteBalancer(r.PathValue("lbID"), s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleAddNodes(w http.ResponseWriter, r *http.Request) {
	var body addNodesBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	payload, status := s.svc.AddNodes(r.PathValue("lbID"), body.Nodes, s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	payload, status := s.svc.ListNodes(r.PathValue("lbID"), s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := strconv.Atoi(r.PathValue("nodeID"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Node not found")
		return
	}
	payload, status := s.svc.GetNode(r.PathValue("lbID"), nodeID, s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := strconv.Atoi(r.PathValue("nodeID"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "Node not found")
		return
	}
	payload, status := s.svc.DeleteNode(r.PathValue("lbID"), nodeID, s.resolveNow(r))
	httputil.WriteJSON(w, status, payload)
}
