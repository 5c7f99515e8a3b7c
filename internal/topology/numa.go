// Package topology discovers NUMA nodes and fans a trial out over worker
// processes placed on them.
package topology

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
)

// NodeListPath lists the online NUMA nodes on Linux.
const NodeListPath = "/sys/devices/system/node/online"

// Topology is the set of online NUMA nodes.
type Topology struct {
	Nodes []int `json:"nodes"`
}

// Known reports whether at least one node was discovered.
func (t *Topology) Known() bool {
	return t != nil && len(t.Nodes) > 0
}

// Discover reads the online node list of the running system.
func Discover() (*Topology, error) {
	return DiscoverAt(NodeListPath)
}

// DiscoverAt reads a node list file. A missing file means the system does
// not expose NUMA information and yields an empty topology.
func DiscoverAt(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Topology{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read NUMA node list: %w", err)
	}

	nodes, err := ParseNodeList(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NUMA node list %s: %w", path, err)
	}
	return &Topology{Nodes: nodes}, nil
}

// ParseNodeList parses the kernel list format, e.g. "0-3,5,7-8".
func ParseNodeList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")

		first, err := strconv.Atoi(lo)
		if err != nil || first < 0 {
			return nil, fmt.Errorf("invalid node %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(hi)
			if err != nil || last < first {
				return nil, fmt.Errorf("invalid node range %q", part)
			}
		}
		for n := first; n <= last; n++ {
			seen[n] = struct{}{}
		}
	}

	nodes := make([]int, 0, len(seen))
	for n := range seen {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes, nil
}
