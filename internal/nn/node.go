package nn

import "lightneat/internal/activation"

// Role is the position class of a node in the layered topology
type Role int

const (
	RoleInput Role = iota
	RoleHidden
	RoleOutput
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleHidden:
		return "hidden"
	case RoleOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Node is a single unit of a genome
type Node struct {
	ID         int
	Role       Role
	Bias       float64
	Activation activation.Kind
	Value      float64 // accumulated during one Update, reset afterwards
}

// NewNode creates a node with a zero accumulated value
func NewNode(id int, role Role, bias float64, act activation.Kind) Node {
	return Node{ID: id, Role: role, Bias: bias, Activation: act}
}

// Output is the node's activation applied to value + bias
func (n *Node) Output() float64 {
	return activation.Evaluate(n.Activation, n.Value+n.Bias)
}

// Connection is a directed edge between two nodes. From and To are handles
// into Genome.Nodes, not node IDs.
type Connection struct {
	From   int
	To     int
	Weight float64
	Gater  int // reserved, always NoGater
}

// NoGater marks a connection without a gating node
const NoGater = -1
