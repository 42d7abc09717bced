// Package models defines port-based workflow models for node connections.
package models

import "strings"

// Common port names.
const (
	PortMain    = "main"
	PortTrue    = "true"
	PortFalse   = "false"
	PortDefault = "default"
)

// ParsePortID parses a port ID in format "{node_id}:{port_name}" into components.
func ParsePortID(portID string) (string, string, bool) {
	nodeID, portName, found := strings.Cut(portID, ":")
	if !found {
		return "", "", false
	}

	return nodeID, portName, true
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}
