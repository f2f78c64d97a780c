package compiler

// scopeKind tags a ScopeTree node (spec.md §3's ScopeTree: "kind ∈
// {Module, Block, Func}").
type scopeKind int

const (
	moduleScope scopeKind = iota
	blockScope
	funcScope
)

type jumpPatch struct {
	label string
	addr  int
}

// scopeNode is one node of the compile-time scope tree used to
// resolve `jump`/`Label` pairs once every label in the current
// compile unit (module, or one function body) has been recorded.
// Grounded on spec.md §3/§4.3's ScopeTree description and the
// backward/forward label-patching idiom in
// _examples/rmay-nuxvm/pkg/lux/compiler.go (that compiler's own
// word/quotation scope bookkeeping, generalized from Forth words to
// ember's block/func nesting).
type scopeNode struct {
	kind     scopeKind
	depth    int
	labels   map[string]int
	jumps    []jumpPatch
	parent   *scopeNode
	children []*scopeNode
}

func newScopeNode(kind scopeKind, depth int, parent *scopeNode) *scopeNode {
	n := &scopeNode{kind: kind, depth: depth, labels: make(map[string]int), parent: parent}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return n
}

// declareLabel records name→addr in this node, rejecting a duplicate
// within the same scope.
func (n *scopeNode) declareLabel(name string, addr int) bool {
	if _, exists := n.labels[name]; exists {
		return false
	}
	n.labels[name] = addr
	return true
}

// resolve searches outward from n for label, stopping (with
// crossedFunc=true) if it would have to leave a Func scope without
// finding it. depth is the number of scope boundaries between n and
// the node the label was found in — the scope-exit count the patched
// Jump must carry.
func (n *scopeNode) resolve(label string) (addr int, depth int, found bool, crossedFunc bool) {
	cur := n
	d := 0
	for cur != nil {
		if a, ok := cur.labels[label]; ok {
			return a, d, true, false
		}
		if cur.kind == funcScope {
			return 0, 0, false, true
		}
		d++
		cur = cur.parent
	}
	return 0, 0, false, false
}
