package effectchain

import (
	"encoding/json"
	"fmt"
)

// graphNode is a JSON-serializable node of a chain document.
type graphNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Bypassed bool           `json:"bypassed"`
	Params   map[string]any `json:"params"`
}

// graphState is the root JSON structure of a chain document.
type graphState struct {
	Nodes []graphNode `json:"nodes"`
}

// parseGraph parses a chain document into node parameters in processing
// order. An empty string yields an empty chain.
func parseGraph(raw string) ([]Params, error) {
	if raw == "" {
		return nil, nil
	}

	var state graphState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("invalid chain json: %w", err)
	}

	seen := make(map[string]struct{}, len(state.Nodes))
	nodes := make([]Params, 0, len(state.Nodes))
	for i, n := range state.Nodes {
		if n.ID == "" || n.Type == "" {
			return nil, fmt.Errorf("chain node %d: id and type are required", i)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("chain node %d: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = struct{}{}

		num, str := parseNodeParams(n.Params)
		nodes = append(nodes, Params{
			ID:       n.ID,
			Type:     n.Type,
			Bypassed: n.Bypassed,
			Num:      num,
			Str:      str,
		})
	}

	return nodes, nil
}
