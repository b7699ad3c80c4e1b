package mjs

import (
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

// evalStatementList runs a statement sequence, stopping at the first
// abrupt completion or runtime error (spec.md §4.3). Empty input yields
// a Normal completion carrying undefined.
func (interp *Interpreter) evalStatementList(stmts []ast.Statement) (Completion, error) {
	completion := emptyCompletion
	for _, s := range stmts {
		var err error
		completion, err = interp.evalStmt(s)
		if err != nil {
			return Completion{}, err
		}
		if completion.Abrupt() {
			return completion, nil
		}
	}
	return completion, nil
}

// evalStmt implements spec.md §4.3, returning the statement's
// Completion. Runtime errors propagate through the error return and
// must never be represented as a completion kind (spec.md §9). Every
// call is reported to onStatementExecuted, if set, mirroring the
// single-entry-point hook the teacher's REPL relies on to echo the last
// completion value.
func (interp *Interpreter) evalStmt(stmt ast.Statement) (Completion, error) {
	c, err := interp.evalStmtKind(stmt)
	if err == nil && interp.onStatementExecuted != nil {
		interp.onStatementExecuted(c)
	}
	return c, err
}

func (interp *Interpreter) evalStmtKind(stmt ast.Statement) (Completion, error) {
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		return emptyCompletion, nil

	case *ast.BlockStatement:
		c, err := interp.evalStatementList(s.List)
		if err != nil || c.Abrupt() {
			return c, err
		}
		return emptyCompletion, nil

	case *ast.ExpressionStatement:
		v, err := interp.evalValue(s.Expression)
		if err != nil {
			return Completion{}, err
		}
		return normalCompletion(v), nil

	case *ast.VariableStatement:
		for _, item := range s.List {
			if _, err := interp.evalValue(item); err != nil {
				return Completion{}, err
			}
		}
		return emptyCompletion, nil

	case *ast.FunctionStatement:
		interp.defineFunction(s.Function)
		return emptyCompletion, nil

	case *ast.IfStatement:
		test, err := interp.evalValue(s.Test)
		if err != nil {
			return Completion{}, err
		}
		if toBoolean(test) {
			return interp.evalStmt(s.Consequent)
		}
		if s.Alternate != nil {
			return interp.evalStmt(s.Alternate)
		}
		return emptyCompletion, nil

	case *ast.WhileStatement:
		return interp.evalWhile(s)
	case *ast.DoWhileStatement:
		return interp.evalDoWhile(s)
	case *ast.ForStatement:
		return interp.evalFor(s)

	case *ast.BranchStatement:
		if s.Token == token.CONTINUE {
			return Completion{Kind: Continue}, nil
		}
		return Completion{Kind: Break}, nil

	case *ast.ReturnStatement:
		var v Value = undefined
		if s.Argument != nil {
			var err error
			v, err = interp.evalValue(s.Argument)
			if err != nil {
				return Completion{}, err
			}
		}
		return Completion{Kind: Return, Value: v}, nil

	case *ast.WithStatement:
		return interp.evalWith(s)

	case *ast.ForInStatement:
		return Completion{}, interp.notImplemented("for-in statement")
	case *ast.SwitchStatement:
		return Completion{}, interp.notImplemented("switch statement")
	case *ast.LabelledStatement:
		return Completion{}, interp.notImplemented("labelled statement")
	case *ast.TryStatement:
		return Completion{}, interp.notImplemented("try statement")
	case *ast.ThrowStatement:
		return Completion{}, interp.notImplemented("throw statement")
	case *ast.DebuggerStatement:
		return emptyCompletion, nil

	default:
		return Completion{}, interp.notImplemented("statement node")
	}
}

// evalWhile implements spec.md §4.3's while loop, per the original
// completion-propagation rules: break stops the loop with a Normal
// completion, return propagates outward unchanged, continue is
// swallowed by the loop itself.
func (interp *Interpreter) evalWhile(s *ast.WhileStatement) (Completion, error) {
	for {
		test, err := interp.evalValue(s.Test)
		if err != nil {
			return Completion{}, err
		}
		if !toBoolean(test) {
			return emptyCompletion, nil
		}
		c, err := interp.evalStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch c.Kind {
		case Break:
			return emptyCompletion, nil
		case Return:
			return c, nil
		}
	}
}

func (interp *Interpreter) evalDoWhile(s *ast.DoWhileStatement) (Completion, error) {
	for {
		c, err := interp.evalStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch c.Kind {
		case Break:
			return emptyCompletion, nil
		case Return:
			return c, nil
		}
		test, err := interp.evalValue(s.Test)
		if err != nil {
			return Completion{}, err
		}
		if !toBoolean(test) {
			return emptyCompletion, nil
		}
	}
}

// evalFor implements spec.md §4.3's classic for loop. The initializer,
// when a var declaration, is evaluated through evalExpr directly since
// it is an expression node, not a statement, in the parsed AST.
func (interp *Interpreter) evalFor(s *ast.ForStatement) (Completion, error) {
	if s.Initializer != nil {
		if _, err := interp.evalValue(s.Initializer); err != nil {
			return Completion{}, err
		}
	}
	for {
		if s.Test != nil {
			test, err := interp.evalValue(s.Test)
			if err != nil {
				return Completion{}, err
			}
			if !toBoolean(test) {
				return emptyCompletion, nil
			}
		}
		c, err := interp.evalStmt(s.Body)
		if err != nil {
			return Completion{}, err
		}
		switch c.Kind {
		case Break:
			return emptyCompletion, nil
		case Return:
			return c, nil
		}
		if s.Update != nil {
			if _, err := interp.evalValue(s.Update); err != nil {
				return Completion{}, err
			}
		}
	}
}

// evalWith implements the with statement supplemented from
// original_source (spec.md's own text leaves it only partially
// sketched): the given expression is coerced to an object and pushed as
// a scope link ahead of the enclosing activation, so unqualified
// identifier lookups inside the body see its properties first.
func (interp *Interpreter) evalWith(s *ast.WithStatement) (Completion, error) {
	v, err := interp.evalValue(s.Object)
	if err != nil {
		return Completion{}, err
	}
	obj, err := interp.coerceToObject(v)
	if err != nil {
		return Completion{}, err
	}
	interp.pushScope(obj)
	defer interp.popScope()
	return interp.evalStmt(s.Body)
}
