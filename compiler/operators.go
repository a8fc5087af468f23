package compiler

import (
	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
)

// opKey is used as the key for the binary operator table.
type opKey struct {
	Operator  token.TokenType
	LeftType  types.Kind
	RightType types.Kind
}

// binaryOps maps an operator and its operand kinds to the result kind.
// Pointer depth is not part of the key.
var binaryOps = map[opKey]types.Kind{
	// --- Arithmetic Operators ---
	{Operator: token.ADD, LeftType: types.Int, RightType: types.Int}: types.Int,
	{Operator: token.SUB, LeftType: types.Int, RightType: types.Int}: types.Int,
	{Operator: token.MUL, LeftType: types.Int, RightType: types.Int}: types.Int,
	{Operator: token.QUO, LeftType: types.Int, RightType: types.Int}: types.Int,
	{Operator: token.REM, LeftType: types.Int, RightType: types.Int}: types.Int,

	// --- Logical Operators ---
	{Operator: token.LAND, LeftType: types.Bool, RightType: types.Bool}: types.Bool,
	{Operator: token.LOR, LeftType: types.Bool, RightType: types.Bool}:  types.Bool,

	// --- Comparison Operators ---
	// equality is defined on int only
	{Operator: token.EQL, LeftType: types.Int, RightType: types.Int}: types.Bool,
	{Operator: token.NEQ, LeftType: types.Int, RightType: types.Int}: types.Bool,
	{Operator: token.LSS, LeftType: types.Int, RightType: types.Int}: types.Bool,
	{Operator: token.GTR, LeftType: types.Int, RightType: types.Int}: types.Bool,
	{Operator: token.LEQ, LeftType: types.Int, RightType: types.Int}: types.Bool,
	{Operator: token.GEQ, LeftType: types.Int, RightType: types.Int}: types.Bool,
}

// binaryResult is the kind an operator yields even when its operands are
// wrong, so one bad operand does not poison the enclosing expression.
var binaryResult = map[token.TokenType]types.Kind{
	token.ADD:  types.Int,
	token.SUB:  types.Int,
	token.MUL:  types.Int,
	token.QUO:  types.Int,
	token.REM:  types.Int,
	token.LAND: types.Bool,
	token.LOR:  types.Bool,
	token.EQL:  types.Bool,
	token.NEQ:  types.Bool,
	token.LSS:  types.Bool,
	token.GTR:  types.Bool,
	token.LEQ:  types.Bool,
	token.GEQ:  types.Bool,
}

const (
	msgIntOperands  = "Illegal expression (All operands must be of int type)"
	msgBoolOperands = "Illegal expression (All operands must be of bool type)"
)

func binaryOpMessage(op token.TokenType) string {
	if op == token.LAND || op == token.LOR {
		return msgBoolOperands
	}
	return msgIntOperands
}

// arithOps maps arithmetic operators to the instruction computing them.
var arithOps = map[token.TokenType]Op{
	token.ADD: OpAdd,
	token.SUB: OpSub,
	token.MUL: OpMult,
	token.QUO: OpDiv,
	token.REM: OpMod,
}

// relOp is the conditional jump for a comparison. swap means the operands
// are exchanged: a > b is emitted as b < a.
type relOp struct {
	op   Op
	swap bool
}

var relOps = map[token.TokenType]relOp{
	token.EQL: {op: OpJeq},
	token.NEQ: {op: OpJneq},
	token.LSS: {op: OpJlt},
	token.GTR: {op: OpJlt, swap: true},
	token.LEQ: {op: OpJlte},
	token.GEQ: {op: OpJlte, swap: true},
}

// isConditionOp reports whether op translates into jumps rather than a value.
func isConditionOp(op token.TokenType) bool {
	if op == token.LAND || op == token.LOR {
		return true
	}
	_, ok := relOps[op]
	return ok
}
