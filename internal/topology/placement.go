package topology

import "fmt"

// Placement is the memory placement directive of one worker.
type Placement struct {
	Node        int  `json:"node"`
	Constrained bool `json:"constrained"`
}

// Unconstrained leaves memory placement to the kernel.
var Unconstrained = Placement{}

// OnNode binds a worker's memory to node.
func OnNode(node int) Placement {
	return Placement{Node: node, Constrained: true}
}

func (p Placement) String() string {
	if !p.Constrained {
		return "unconstrained"
	}
	return fmt.Sprintf("node %d", p.Node)
}

// Plan places count workers. Every worker goes on the first online node,
// or worker i goes on node i mod len(nodes) when distribute is set. Without
// a known topology every worker is unconstrained.
func Plan(count int, distribute bool, topo *Topology) []Placement {
	placements := make([]Placement, count)
	if !topo.Known() {
		return placements
	}
	for i := range placements {
		node := topo.Nodes[0]
		if distribute {
			node = topo.Nodes[i%len(topo.Nodes)]
		}
		placements[i] = OnNode(node)
	}
	return placements
}
