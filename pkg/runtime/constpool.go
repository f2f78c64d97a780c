package runtime

// ConstPool is the append-only constants table spec.md §3 describes:
// shared across every compiler invocation over one module (a module's
// root compiler and every nested function compiler it spawns add to
// the same pool), then read-only once the VM starts executing.
// Indices 0, 1, 2 are reserved for nil, true, false respectively.
type ConstPool struct {
	items []Object
}

// NewConstPool preloads the three reserved entries.
func NewConstPool() *ConstPool {
	p := &ConstPool{}
	p.items = append(p.items, NewNil(), NewBool(true), NewBool(false))
	return p
}

// Add appends v and returns its index.
func (p *ConstPool) Add(v Object) int {
	p.items = append(p.items, v)
	return len(p.items) - 1
}

func (p *ConstPool) Get(i int) Object { return p.items[i] }

func (p *ConstPool) Len() int { return len(p.items) }
