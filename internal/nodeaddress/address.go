package nodeaddress

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-ui/internal/nodes"
)

const separator = "__"

var (
	ErrMalformedAddress  = errors.New("nodeaddress: malformed serialized address")
	ErrWorkspaceNotFound = errors.New("nodeaddress: no workspace for content stream")
)

// NodeAddress identifies a node independently of content streams so it can
// travel through URIs and the UI state as a context path.
type NodeAddress struct {
	WorkspaceName       nodes.WorkspaceName
	DimensionSpacePoint nodes.DimensionSpacePoint
	NodeAggregateID     nodes.NodeAggregateID
}

// SerializeForURI encodes the address as
// workspace__base64url(json(dimensions))__aggregateId.
func (a NodeAddress) SerializeForURI() string {
	dsp := a.DimensionSpacePoint
	if dsp == nil {
		dsp = nodes.DimensionSpacePoint{}
	}
	// map keys are marshalled in sorted order, keeping the encoding stable
	encoded, _ := json.Marshal(dsp)
	return string(a.WorkspaceName) + separator +
		base64.RawURLEncoding.EncodeToString(encoded) + separator +
		string(a.NodeAggregateID)
}

func (a NodeAddress) String() string {
	return a.SerializeForURI()
}

// IsInLiveWorkspace reports whether the address points at published content.
func (a NodeAddress) IsInLiveWorkspace() bool {
	return a.WorkspaceName == nodes.LiveWorkspace
}

// Equals compares all three coordinates.
func (a NodeAddress) Equals(other NodeAddress) bool {
	return a.WorkspaceName == other.WorkspaceName &&
		a.NodeAggregateID == other.NodeAggregateID &&
		a.DimensionSpacePoint.Equals(other.DimensionSpacePoint)
}

// Parse decodes a value produced by SerializeForURI.
func Parse(serialized string) (NodeAddress, error) {
	parts := strings.Split(strings.TrimSpace(serialized), separator)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return NodeAddress{}, fmt.Errorf("%w: %q", ErrMalformedAddress, serialized)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return NodeAddress{}, fmt.Errorf("%w: dimensions: %v", ErrMalformedAddress, err)
	}
	dsp := nodes.DimensionSpacePoint{}
	if err := json.Unmarshal(raw, &dsp); err != nil {
		return NodeAddress{}, fmt.Errorf("%w: dimensions: %v", ErrMalformedAddress, err)
	}
	return NodeAddress{
		WorkspaceName:       nodes.WorkspaceName(parts[0]),
		DimensionSpacePoint: dsp,
		NodeAggregateID:     nodes.NodeAggregateID(parts[2]),
	}, nil
}
