package runtime

// RuntimeContext is the VM's namespace and constant-pool state,
// threaded through execution the way original_source/src/vm/vm.rs's
// RuntimeContext is: a constants pool (populated once by the compiler)
// plus a namespace stack the VM pushes to on function entry and pops
// on exit_scopes.
type RuntimeContext struct {
	Pool       *ConstPool
	namespaces []*Namespace
}

// NewRuntimeContext builds the root context: the given constant pool
// (shared with every compiler invocation that built the chunk(s) this
// context will execute), one root namespace seeded with the built-in
// catalog (SPEC_FULL.md §4), and `$args` left undeclared (it is only
// ever declared inside a variadic function's own namespace).
func NewRuntimeContext(pool *ConstPool) *RuntimeContext {
	root := NewNamespace()
	ctx := &RuntimeContext{Pool: pool, namespaces: []*Namespace{root}}
	registerBuiltins(root)
	return ctx
}

// Depth reports the current namespace-stack depth, used by the VM to
// stamp LoadVar's resolved ValueStackKind.Var entries.
func (c *RuntimeContext) Depth() int { return len(c.namespaces) }

// PushNamespace enters a new lexical scope (ScopeStart, or a function
// call's frame).
func (c *RuntimeContext) PushNamespace() {
	c.namespaces = append(c.namespaces, NewNamespace())
}

// PopNamespace leaves the innermost scope. Panics on an empty stack —
// a compiler bug, never a user-reachable condition; the VM checks its
// own scope stack before calling this.
func (c *RuntimeContext) PopNamespace() {
	c.namespaces = c.namespaces[:len(c.namespaces)-1]
}

func (c *RuntimeContext) Declare(name string, value Object) {
	c.namespaces[len(c.namespaces)-1].Declare(name, value)
}

// DeclareIfAbsent binds name in the innermost namespace only if it is
// not already present there, matching DeclareVar's spec.md §4.4
// semantics: re-declaring a name already bound in the SAME scope is a
// no-op rather than a reset to defaultValue (`x = x + 1` declares x
// before evaluating its right-hand side, which must still read the
// existing value).
func (c *RuntimeContext) DeclareIfAbsent(name string, defaultValue Object) {
	top := c.namespaces[len(c.namespaces)-1]
	if _, ok := top.get(name); ok {
		return
	}
	top.Declare(name, defaultValue)
}

// Assign walks the namespace stack from innermost to outermost looking
// for an existing binding to mutate, returning NameErr if none exists.
func (c *RuntimeContext) Assign(name string, value Object) error {
	for i := len(c.namespaces) - 1; i >= 0; i-- {
		if c.namespaces[i].assign(name, value) {
			return nil
		}
	}
	return newErr(NameErr, "name %q is not defined", name)
}

// Load resolves a name from innermost to outermost scope.
func (c *RuntimeContext) Load(name string) (Object, error) {
	for i := len(c.namespaces) - 1; i >= 0; i-- {
		if v, ok := c.namespaces[i].get(name); ok {
			return v, nil
		}
	}
	return nil, newErr(NameErr, "name %q is not defined", name)
}

func (c *RuntimeContext) Constant(index int) Object {
	return c.Pool.Get(index)
}
