package mjs

import "github.com/robertkrimen/otto/ast"

// hoist implements spec.md §4.7's pre-execution scan: every var binding
// and function-statement name reachable without crossing into a nested
// function body is declared as undefined on the activation before the
// first statement runs. A function statement's own FunctionStatement
// node still overwrites the binding with the actual callable when it
// executes in sequence (spec.md §4.4 step 5e); hoisting only guarantees
// the name already resolves (as undefined) before that point.
func (interp *Interpreter) hoist(stmts []ast.Statement, activation *Object) {
	for _, s := range stmts {
		hoistStatement(s, activation)
	}
}

func hoistStatement(s ast.Statement, activation *Object) {
	switch s := s.(type) {
	case *ast.VariableStatement:
		for _, item := range s.List {
			if ve, ok := item.(*ast.VariableExpression); ok {
				declareHoisted(activation, ve.Name)
			}
		}
	case *ast.BlockStatement:
		for _, st := range s.List {
			hoistStatement(st, activation)
		}
	case *ast.IfStatement:
		hoistStatement(s.Consequent, activation)
		if s.Alternate != nil {
			hoistStatement(s.Alternate, activation)
		}
	case *ast.WhileStatement:
		hoistStatement(s.Body, activation)
	case *ast.DoWhileStatement:
		hoistStatement(s.Body, activation)
	case *ast.ForStatement:
		hoistForInit(s.Initializer, activation)
		hoistStatement(s.Body, activation)
	case *ast.WithStatement:
		hoistStatement(s.Body, activation)
	case *ast.LabelledStatement:
		hoistStatement(s.Statement, activation)
	case *ast.FunctionStatement:
		if s.Function != nil && s.Function.Name != nil {
			declareHoisted(activation, s.Function.Name.Name)
		}
	default:
		// Expression/empty/return/break/continue statements carry no var
		// bindings of their own; function bodies are a separate
		// activation and must not be descended into here.
	}
}

// hoistForInit handles the one place a var binding can appear inside an
// expression rather than a VariableStatement: a classic for-loop's
// initializer clause, e.g. for (var i = 0, j = n; ...).
func hoistForInit(init ast.Expression, activation *Object) {
	switch e := init.(type) {
	case nil:
	case *ast.VariableExpression:
		declareHoisted(activation, e.Name)
	case *ast.SequenceExpression:
		for _, item := range e.Sequence {
			hoistForInit(item, activation)
		}
	}
}

func declareHoisted(activation *Object, name string) {
	if !activation.HasOwnProperty(name) {
		activation.PutAttr(name, undefined, 0)
	}
}
