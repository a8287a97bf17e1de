package service

import (
	"fmt"
	"net/http"

	"github.com/getlbsim/lbsim/pkg/balancer"
)

// ErrorResponse is the structured error payload returned alongside non-2xx
// statuses. Every precondition failure is reported this way; unknown ids are
// always a not-found payload, never a fault.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// notFoundBalancer is the payload for a missing load balancer id.
func notFoundBalancer() *ErrorResponse {
	return &ErrorResponse{Message: "Load balancer not found", Code: http.StatusNotFound}
}

// notFoundNode is the payload for a missing node id.
func notFoundNode() *ErrorResponse {
	return &ErrorResponse{Message: "Node not found", Code: http.StatusNotFound}
}

// invalidResource builds the payload for a request rejected by a
// precondition, with the status code echoed into the body.
func invalidResource(message string, code int) *ErrorResponse {
	return &ErrorResponse{Message: message, Code: code}
}

// immutableBalancer is the payload for a mutation attempted while the
// balancer's status forbids it.
func immutableBalancer(lbID string, status balancer.Status) *ErrorResponse {
	msg := fmt.Sprintf("Load Balancer '%s' has a status of %s and is considered immutable.", lbID, status)
	return invalidResource(msg, http.StatusUnprocessableEntity)
}

// duplicateNodes is the payload for a node colliding with an existing
// (address, port) pair.
func duplicateNodes() *ErrorResponse {
	msg := "Duplicate nodes detected. One or more nodes already configured on load balancer."
	return invalidResource(msg, http.StatusRequestEntityTooLarge)
}

// markedDeleted is the payload for a read against a DELETED balancer.
func markedDeleted() *ErrorResponse {
	return invalidResource("The loadbalancer is marked as deleted.", http.StatusGone)
}

// deleteAfterDeleted is the payload for a delete against a balancer that has
// already reached DELETED.
func deleteAfterDeleted(lbID string) *ErrorResponse {
	msg := fmt.Sprintf("Must provide valid load balancers: %s could not be found.", lbID)
	return invalidResource(msg, http.StatusBadRequest)
}
