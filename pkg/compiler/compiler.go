// Package compiler lowers an ast.Program to a bytecode.Chunk via a
// single pre-order tree walk, maintaining a scope tree for label/jump
// resolution. Grounded on spec.md §4.3's lowering rules, with the
// scope/jump-patching bookkeeping shape carried over from
// _examples/rmay-nuxvm/pkg/lux/compiler.go (that compiler tracks
// word/quotation boundaries the same way this one tracks block/func
// boundaries) and original_source/src/compiler/compiler.rs for the
// constant-pool-reservation and nested-function-compiler structure.
package compiler

import (
	"math/big"

	"github.com/sirupsen/logrus"

	"ember/pkg/ast"
	"ember/pkg/bytecode"
	"ember/pkg/runtime"
	"ember/pkg/token"
)

type loopFrame struct {
	loopAddr int
	depth    int
}

// Compiler lowers one compile unit — the module body, or a single
// nested function body — into its own Chunk. Nested function bodies
// get their own Compiler instance (own scope-tree root, own chunk)
// sharing the enclosing pool, matching spec.md §4.3's "a jump cannot
// cross a Func boundary" rule: since each unit's scope tree never
// contains another unit's nodes, fix_jumps can never resolve a label
// belonging to a different function in the first place.
type Compiler struct {
	chunk bytecode.Chunk
	pool  *runtime.ConstPool

	root *scopeNode
	cur  *scopeNode

	scopeDepth int
	hasMain    bool
	loops      []loopFrame

	log *logrus.Entry
}

func newCompiler(kind scopeKind, pool *runtime.ConstPool, log *logrus.Entry) *Compiler {
	root := newScopeNode(kind, 0, nil)
	return &Compiler{pool: pool, root: root, cur: root, log: log}
}

// CompileModule lowers a whole program to its top-level Chunk,
// performing module finalization (spec.md §4.3: the `$main`
// entry-point convention, or a plain `Halt 0`).
func CompileModule(prog *ast.Program, pool *runtime.ConstPool, logger *logrus.Logger) (bytecode.Chunk, error) {
	if logger == nil {
		logger = logrus.New()
	}
	c := newCompiler(moduleScope, pool, logger.WithField("component", "compiler"))
	for _, stmt := range prog.Statements {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}
	if err := c.fixJumps(); err != nil {
		return nil, err
	}
	if c.hasMain {
		c.log.Debug("module declares $main, emitting entry-point call")
		c.emit(bytecode.LoadVar{Name: "$main"})
		zero := c.pool.Add(runtime.NewInt(big.NewInt(0)))
		c.emit(bytecode.LoadConst{Index: zero})
		c.emit(bytecode.LoadConst{Index: zero})
		c.emit(bytecode.Call{N: 2})
		c.emit(bytecode.Return{})
		c.emit(bytecode.HaltTop{})
	} else {
		c.emit(bytecode.Halt{Code: 0})
	}
	return c.chunk, nil
}

func (c *Compiler) emit(inst bytecode.Inst) int {
	c.chunk = append(c.chunk, inst)
	return len(c.chunk) - 1
}

func (c *Compiler) patch(idx int, inst bytecode.Inst) {
	c.chunk[idx] = inst
}

func (c *Compiler) here() int { return len(c.chunk) }

func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch stmt.Kind {
	case ast.JumpStmt:
		addr := c.emit(bytecode.Placeholder{
			Wrapped: bytecode.Jump{}, Addr: c.here(),
			Message: "unpatched jump to label " + stmt.Label,
		})
		c.cur.jumps = append(c.cur.jumps, jumpPatch{label: stmt.Label, addr: addr})
		return nil

	case ast.LabelStmt:
		if !c.cur.declareLabel(stmt.Label, c.here()) {
			return newErr(DuplicateLabelInScope, stmt.Start, "label %q already declared in this scope", stmt.Label)
		}
		if stmt.Expr != nil {
			return c.compileExpr(stmt.Expr, "")
		}
		return nil

	case ast.BreakStmt:
		if stmt.Expr != nil {
			if err := c.compileExpr(stmt.Expr, ""); err != nil {
				return err
			}
		} else {
			c.emit(bytecode.LoadConst{Index: 0})
		}
		c.emit(bytecode.BreakPlaceholder{Addr: c.here(), Depth: c.scopeDepth})
		return nil

	case ast.ContinueStmt:
		c.emit(bytecode.ContinuePlaceholder{Addr: c.here(), Depth: c.scopeDepth})
		return nil

	case ast.ExprStmt:
		return c.compileExpr(stmt.Expr, "")

	default:
		return newErr(InvalidAssignTarget, stmt.Start, "unhandled statement kind %d", int(stmt.Kind))
	}
}

// compileExpr lowers expr, pushing exactly one value. nameHint names
// the variable an enclosing assignment is binding this expression
// to — meaningful only for an anonymous FuncExpr, which adopts it as
// its displayed name (spec.md §4.3's "name hint" rule).
func (c *Compiler) compileExpr(expr *ast.Expr, nameHint string) error {
	switch expr.Kind {
	case ast.LiteralExpr:
		return c.compileLiteral(expr)
	case ast.IdentExpr:
		c.emit(bytecode.LoadVar{Name: expr.Ident.Name})
		return nil
	case ast.UnaryOpExpr:
		if err := c.compileExpr(expr.Operand, ""); err != nil {
			return err
		}
		op, ok := unaryOpFromString(expr.UnaryOp)
		if !ok {
			return newErr(InvalidAssignTarget, expr.Start, "unknown unary operator %q", expr.UnaryOp)
		}
		c.emit(bytecode.UnaryOp{Op: op})
		return nil
	case ast.BinaryOpExpr:
		return c.compileBinaryOp(expr)
	case ast.BlockExpr:
		return c.compileBlockBody(expr.Block)
	case ast.ConditionalExpr:
		return c.compileConditional(expr)
	case ast.LoopExpr:
		return c.compileLoop(expr)
	case ast.FuncExpr:
		return c.compileFuncLiteral(expr, nameHint)
	case ast.CallExpr:
		return c.compileCall(expr)
	case ast.PrintExpr:
		return c.compilePrint(expr)
	case ast.TupleExpr:
		for i := range expr.Args {
			if err := c.compileExpr(&expr.Args[i], ""); err != nil {
				return err
			}
		}
		c.emit(bytecode.MakeTuple{N: len(expr.Args)})
		return nil
	case ast.FormatStringExpr:
		for i := range expr.Args {
			if err := c.compileExpr(&expr.Args[i], ""); err != nil {
				return err
			}
		}
		c.emit(bytecode.MakeString{N: len(expr.Args)})
		return nil
	default:
		return newErr(InvalidAssignTarget, expr.Start, "unhandled expression kind %d", int(expr.Kind))
	}
}

func (c *Compiler) compileLiteral(expr *ast.Expr) error {
	lit := expr.Literal
	switch lit.Kind {
	case ast.NilLit:
		c.emit(bytecode.LoadConst{Index: 0})
	case ast.BoolLit:
		if lit.Bool {
			c.emit(bytecode.LoadConst{Index: 1})
		} else {
			c.emit(bytecode.LoadConst{Index: 2})
		}
	case ast.IntLit:
		c.emit(bytecode.LoadConst{Index: c.pool.Add(runtime.NewInt(lit.Int))})
	case ast.FloatLit:
		c.emit(bytecode.LoadConst{Index: c.pool.Add(runtime.NewFloat(lit.Float))})
	case ast.StringLit:
		c.emit(bytecode.LoadConst{Index: c.pool.Add(runtime.NewString(lit.String))})
	case ast.EllipsisLit:
		return newErr(InvalidAssignTarget, expr.Start, "the `...` literal is reserved and not yet implemented")
	default:
		return newErr(InvalidAssignTarget, expr.Start, "unhandled literal kind %d", int(lit.Kind))
	}
	return nil
}

func (c *Compiler) compileBinaryOp(expr *ast.Expr) error {
	switch expr.BinaryOp {
	case "=", "+=", "-=":
		return c.compileAssignment(expr)
	case ".":
		return c.compileDot(expr)
	default:
		if err := c.compileExpr(expr.Left, ""); err != nil {
			return err
		}
		if err := c.compileExpr(expr.Right, ""); err != nil {
			return err
		}
		op, ok := binaryOpFromString(expr.BinaryOp)
		if !ok {
			return newErr(InvalidAssignTarget, expr.Start, "unknown binary operator %q", expr.BinaryOp)
		}
		c.emit(bytecode.BinaryOp{Op: op})
		return nil
	}
}

func (c *Compiler) compileAssignment(expr *ast.Expr) error {
	lhs := expr.Left
	if lhs.Kind != ast.IdentExpr {
		return newErr(InvalidAssignTarget, expr.Start, "left-hand side of %q must be a name", expr.BinaryOp)
	}
	name := lhs.Ident.Name
	if name == "$main" && c.cur == c.root && c.root.kind == moduleScope {
		c.hasMain = true
	}
	switch expr.BinaryOp {
	case "=":
		c.emit(bytecode.DeclareVar{Name: name})
		if err := c.compileExpr(expr.Right, name); err != nil {
			return err
		}
		c.emit(bytecode.AssignVar{Name: name})
	case "+=", "-=":
		c.emit(bytecode.LoadVar{Name: name})
		if err := c.compileExpr(expr.Right, ""); err != nil {
			return err
		}
		op := bytecode.BOpAddEqual
		if expr.BinaryOp == "-=" {
			op = bytecode.BOpSubEqual
		}
		c.emit(bytecode.BinaryOp{Op: op})
		c.emit(bytecode.AssignVar{Name: name})
	}
	return nil
}

func (c *Compiler) compileDot(expr *ast.Expr) error {
	if err := c.compileExpr(expr.Left, ""); err != nil {
		return err
	}
	if expr.Right.Kind == ast.IdentExpr {
		idx := c.pool.Add(runtime.NewString(expr.Right.Ident.Name))
		c.emit(bytecode.LoadConst{Index: idx})
	} else if err := c.compileExpr(expr.Right, ""); err != nil {
		return err
	}
	c.emit(bytecode.BinaryOp{Op: bytecode.BOpDot})
	return nil
}

func (c *Compiler) compileBlockBody(block *ast.Block) error {
	c.emit(bytecode.ScopeStart{})
	prevCur := c.cur
	c.cur = newScopeNode(blockScope, c.scopeDepth+1, prevCur)
	c.scopeDepth++

	if len(block.Statements) == 0 {
		c.emit(bytecode.LoadConst{Index: 0})
	} else {
		for _, stmt := range block.Statements {
			if err := c.compileStatement(stmt); err != nil {
				return err
			}
		}
	}

	c.scopeDepth--
	c.cur = prevCur
	c.emit(bytecode.ScopeEnd{})
	return nil
}

func (c *Compiler) compileConditional(expr *ast.Expr) error {
	var afterPatches []int
	for _, branch := range expr.Branches {
		cond := branch.Cond
		if err := c.compileExpr(&cond, ""); err != nil {
			return err
		}
		ifElsePatch := c.emit(bytecode.Placeholder{Wrapped: bytecode.JumpIfElse{}, Message: "unpatched if/else"})
		thenAddr := c.here()
		block := branch.Block
		if err := c.compileBlockBody(&block); err != nil {
			return err
		}
		afterPatch := c.emit(bytecode.Placeholder{Wrapped: bytecode.Jump{}, Message: "unpatched conditional exit"})
		afterPatches = append(afterPatches, afterPatch)
		nextAddr := c.here()
		c.patch(ifElsePatch, bytecode.JumpIfElse{IfAddr: thenAddr, ElseAddr: nextAddr, ScopeExitCount: 0})
	}

	if expr.Default != nil {
		if err := c.compileBlockBody(expr.Default); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.LoadConst{Index: 0})
	}

	after := c.here()
	for _, p := range afterPatches {
		c.patch(p, bytecode.Jump{Addr: after, ScopeExitCount: 0})
	}
	return nil
}

func (c *Compiler) compileLoop(expr *ast.Expr) error {
	loopAddr := c.here()
	c.loops = append(c.loops, loopFrame{loopAddr: loopAddr, depth: c.scopeDepth})

	exitPatch := -1
	if !isLiteralTrue(expr.LoopCond) {
		if err := c.compileExpr(expr.LoopCond, ""); err != nil {
			return err
		}
		exitPatch = c.emit(bytecode.Placeholder{Wrapped: bytecode.JumpIfNot{}, Message: "unpatched loop exit"})
	} else {
		c.emit(bytecode.NoOp{})
	}

	if err := c.compileBlockBody(expr.Block); err != nil {
		return err
	}
	c.emit(bytecode.Jump{Addr: loopAddr, ScopeExitCount: 0})
	after := c.here()

	if exitPatch >= 0 {
		c.patch(exitPatch, bytecode.JumpIfNot{Addr: after, ScopeExitCount: 0})
	}

	loop := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	for i := loopAddr; i < after; i++ {
		switch inst := c.chunk[i].(type) {
		case bytecode.BreakPlaceholder:
			c.chunk[i] = bytecode.Jump{Addr: after, ScopeExitCount: inst.Depth - loop.depth}
		case bytecode.ContinuePlaceholder:
			c.chunk[i] = bytecode.Jump{Addr: loopAddr, ScopeExitCount: inst.Depth - loop.depth}
		}
	}
	return nil
}

func isLiteralTrue(expr *ast.Expr) bool {
	return expr.Kind == ast.LiteralExpr && expr.Literal.Kind == ast.BoolLit && expr.Literal.Bool
}

func (c *Compiler) compileFuncLiteral(expr *ast.Expr, nameHint string) error {
	name := expr.FuncName
	if name == "" {
		name = nameHint
	}
	fn, err := c.compileNestedFunc(name, expr.FuncParams, expr.Block)
	if err != nil {
		return err
	}
	c.emit(bytecode.LoadConst{Index: c.pool.Add(fn)})
	return nil
}

func (c *Compiler) compileNestedFunc(name string, params ast.Params, body *ast.Block) (*runtime.FuncObject, error) {
	nc := newCompiler(funcScope, c.pool, c.log)
	nc.emit(bytecode.ScopeStart{})
	nc.scopeDepth = 1

	lastWasExpr := false
	for _, stmt := range body.Statements {
		if err := nc.compileStatement(stmt); err != nil {
			return nil, err
		}
		lastWasExpr = stmt.Kind == ast.ExprStmt
	}
	if err := nc.fixJumps(); err != nil {
		return nil, err
	}
	if !lastWasExpr {
		nc.emit(bytecode.LoadConst{Index: 0})
	}
	nc.emit(bytecode.Return{})
	nc.emit(bytecode.ScopeEnd{})
	return runtime.NewFunc(name, params, nc.chunk), nil
}

func (c *Compiler) compileCall(expr *ast.Expr) error {
	if err := c.compileExpr(expr.Callee, ""); err != nil {
		return err
	}
	for i := range expr.Args {
		if err := c.compileExpr(&expr.Args[i], ""); err != nil {
			return err
		}
	}
	c.emit(bytecode.Call{N: len(expr.Args)})
	return nil
}

func (c *Compiler) compilePrint(expr *ast.Expr) error {
	c.emit(bytecode.LoadVar{Name: "print"})
	for i := range expr.Args {
		if err := c.compileExpr(&expr.Args[i], ""); err != nil {
			return err
		}
	}
	c.emit(bytecode.Call{N: len(expr.Args)})
	return nil
}

// fixJumps walks the scope tree bottom-up, patching every recorded
// jump once every label within this compile unit is known (spec.md
// §4.3's post-pass).
func (c *Compiler) fixJumps() error {
	return c.fixJumpsNode(c.root)
}

func (c *Compiler) fixJumpsNode(n *scopeNode) error {
	for _, child := range n.children {
		if err := c.fixJumpsNode(child); err != nil {
			return err
		}
	}
	for _, j := range n.jumps {
		addr, depth, found, crossedFunc := n.resolve(j.label)
		if crossedFunc {
			return newErr(CannotJumpOutOfFunc, token.Unknown, "cannot jump to label %q across a function boundary", j.label)
		}
		if !found {
			return newErr(LabelNotFoundInScope, token.Unknown, "label %q not found in scope", j.label)
		}
		c.chunk[j.addr] = bytecode.Jump{Addr: addr, ScopeExitCount: depth}
	}
	return nil
}

func unaryOpFromString(op string) (bytecode.UnaryOperator, bool) {
	switch op {
	case "+":
		return bytecode.UOpPlus, true
	case "-":
		return bytecode.UOpNegate, true
	case "!!":
		return bytecode.UOpAsBool, true
	case "!":
		return bytecode.UOpNot, true
	default:
		return 0, false
	}
}

func binaryOpFromString(op string) (bytecode.BinaryOperator, bool) {
	switch op {
	case "^":
		return bytecode.BOpPow, true
	case "*":
		return bytecode.BOpMul, true
	case "/":
		return bytecode.BOpDiv, true
	case "//":
		return bytecode.BOpFloorDiv, true
	case "%":
		return bytecode.BOpMod, true
	case "+":
		return bytecode.BOpAdd, true
	case "-":
		return bytecode.BOpSub, true
	case "===":
		return bytecode.BOpIs, true
	case "==":
		return bytecode.BOpIsEqual, true
	case "!=":
		return bytecode.BOpNotEqual, true
	case "&&":
		return bytecode.BOpAnd, true
	case "||":
		return bytecode.BOpOr, true
	case "<":
		return bytecode.BOpLessThan, true
	case "<=":
		return bytecode.BOpLessThanOrEqual, true
	case ">":
		return bytecode.BOpGreaterThan, true
	case ">=":
		return bytecode.BOpGreaterThanOrEqual, true
	default:
		return 0, false
	}
}
