package parser

import (
	"fmt"
	"strconv"

	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/lexer"
	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
)

const (
	_ int = iota
	LOWEST
	LOR         // ||
	LAND        // &&
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // myFunction(X) or a[X]
)

var precedences = map[token.TokenType]int{
	token.LOR:    LOR,
	token.LAND:   LAND,
	token.EQL:    EQUALS,
	token.NEQ:    EQUALS,
	token.LSS:    LESSGREATER,
	token.GTR:    LESSGREATER,
	token.LEQ:    LESSGREATER,
	token.GEQ:    LESSGREATER,
	token.ADD:    SUM,
	token.SUB:    SUM,
	token.MUL:    PRODUCT,
	token.QUO:    PRODUCT,
	token.REM:    PRODUCT,
	token.LPAREN: CALL,
	token.LBRACK: CALL,
}

// compoundOps maps op= tokens to the binary operator they desugar into.
var compoundOps = map[token.TokenType]token.TokenType{
	token.ADD_ASSIGN: token.ADD,
	token.SUB_ASSIGN: token.SUB,
	token.MUL_ASSIGN: token.MUL,
	token.QUO_ASSIGN: token.QUO,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []*token.CompileError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []*token.CompileError{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.SUB, p.parsePrefixExpression)
	p.registerPrefix(token.ADDR, p.parsePrefixExpression)
	p.registerPrefix(token.MUL, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tok := range precedences {
		p.registerInfix(tok, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACK, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// Errors returns the syntax errors. Parsing stops at the first one.
func (p *Parser) Errors() []*token.CompileError {
	return p.errors
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &token.CompileError{
		Token: tok,
		Msg:   fmt.Sprintf(format, args...),
	})
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorAt(p.peekToken, "expected next token to be %s, got %s instead", t, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errorAt(tok, "unexpected %s in expression", describe(tok))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.IDENT, token.INT, token.STRING:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Decls: []ast.Decl{}}

	for !p.curTokenIs(token.EOF) {
		decl := p.parseDeclaration()
		if decl == nil {
			break
		}
		program.Decls = append(program.Decls, decl)
		p.nextToken()
	}

	return program
}

// parseType reads a type keyword and any trailing '*'s.
func (p *Parser) parseType() (types.Type, bool) {
	if !p.curToken.IsTypeName() {
		p.errorAt(p.curToken, "expected a type, got %s instead", describe(p.curToken))
		return types.ErrorT, false
	}
	kind, _ := types.Lookup(p.curToken.Literal)
	pointers := 0
	for p.peekTokenIs(token.MUL) {
		p.nextToken()
		pointers++
	}
	return types.New(kind, pointers), true
}

func (p *Parser) parseDeclaration() ast.Decl {
	tok := p.curToken
	typ, ok := p.parseType()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.peekTokenIs(token.LPAREN) {
		if vd := p.finishVarDecl(tok, typ, name); vd != nil {
			return vd
		}
		return nil
	}
	p.nextToken()

	params, ok := p.parseFormals()
	if !ok {
		return nil
	}

	switch {
	case p.peekTokenIs(token.SEMICOLON):
		p.nextToken()
		return &ast.FnPreDecl{Token: tok, ReturnType: typ, Name: name, Parameters: params}
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		body := p.parseBody()
		if body == nil {
			return nil
		}
		return &ast.FnDecl{Token: tok, ReturnType: typ, Name: name, Parameters: params, Body: body}
	}
	p.peekError(token.LBRACE)
	return nil
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	tok := p.curToken
	typ, ok := p.parseType()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return p.finishVarDecl(tok, typ, name)
}

// finishVarDecl parses the optional array length and the closing ';'.
func (p *Parser) finishVarDecl(tok token.Token, typ types.Type, name *ast.Identifier) *ast.VarDecl {
	if p.peekTokenIs(token.LBRACK) {
		p.nextToken()
		if !p.expectPeek(token.INT) {
			return nil
		}
		size, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			p.errorAt(p.curToken, "could not parse %q as array length", p.curToken.Literal)
			return nil
		}
		typ = types.ArrayOf(typ, size)
		if !p.expectPeek(token.RBRACK) {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.VarDecl{Token: tok, Type: typ, Name: name}
}

func (p *Parser) parseFormals() ([]*ast.FormalDecl, bool) {
	params := []*ast.FormalDecl{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		p.nextToken()
		tok := p.curToken
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		params = append(params, &ast.FormalDecl{
			Token: tok,
			Type:  typ,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseBody parses from '{' to the matching '}' and leaves curToken on it.
func (p *Parser) parseBody() *ast.Body {
	body := &ast.Body{Token: p.curToken, Decls: []*ast.VarDecl{}, Statements: []ast.Statement{}}
	p.nextToken()

	for p.curToken.IsTypeName() {
		vd := p.parseVarDecl()
		if vd == nil {
			return nil
		}
		body.Decls = append(body.Decls, vd)
		p.nextToken()
	}

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorAt(p.curToken, "expected %s, got EOF instead", token.RBRACE)
			return nil
		}
		if p.curToken.IsTypeName() {
			p.errorAt(p.curToken, "declarations must precede statements")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		body.Statements = append(body.Statements, stmt)
		p.nextToken()
	}

	return body
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	}

	stmt := p.parseSimpleStatement()
	if stmt == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseSimpleStatement parses an assignment or a call without the trailing ';'.
func (p *Parser) parseSimpleStatement() ast.Statement {
	left := p.parseExpression(LOWEST)
	if left == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		if !p.isAssignable(left) {
			return nil
		}
		p.nextToken()
		stmt := &ast.AssignStatement{Token: p.curToken, Left: left}
		p.nextToken()
		if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
			return nil
		}
		return stmt
	}

	if op, ok := compoundOps[p.peekToken.Type]; ok {
		if !p.isAssignable(left) {
			return nil
		}
		p.nextToken()
		opTok := p.curToken
		p.nextToken()
		right := p.parseExpression(LOWEST)
		if right == nil {
			return nil
		}
		infixTok := opTok
		infixTok.Type, infixTok.Literal = op, op.String()
		return &ast.AssignStatement{
			Token: opTok,
			Left:  left,
			Value: &ast.InfixExpression{Token: infixTok, Left: left, Operator: op, Right: right},
		}
	}

	if call, ok := left.(*ast.CallExpression); ok {
		return &ast.CallStatement{Call: call}
	}

	p.errorAt(ast.Start(left), "expression %s is not a statement", left.String())
	return nil
}

func (p *Parser) isAssignable(e ast.Expression) bool {
	switch e := e.(type) {
	case *ast.Identifier, *ast.IndexExpression:
		return true
	case *ast.PrefixExpression:
		if e.Operator == token.MUL {
			return true
		}
	}
	p.errorAt(ast.Start(e), "cannot assign to %s", e.String())
	return false
}

func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseBlock() *ast.Body {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return p.parseBody()
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.curToken
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}

	if !p.peekTokenIs(token.ELSE) {
		return &ast.IfStatement{Token: tok, Condition: cond, Consequence: consequence}
	}
	p.nextToken()
	alternative := p.parseBlock()
	if alternative == nil {
		return nil
	}
	return &ast.IfElseStatement{Token: tok, Condition: cond, Consequence: consequence, Alternative: alternative}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.curToken
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	if stmt.Init = p.parseSimpleStatement(); stmt.Init == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	p.nextToken()
	if stmt.Post = p.parseSimpleStatement(); stmt.Post == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}

	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	if stmt.Value = p.parseExpression(LOWEST); stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}

	return LOWEST
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.curToken, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type,
	}

	p.nextToken()
	if expression.Right = p.parseExpression(PREFIX); expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	if expression.Right = p.parseExpression(precedence); expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.errorAt(ast.Start(function), "cannot call %s", function.String())
		return nil
	}
	exp := &ast.CallExpression{Token: ident.Token, Function: ident}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

func (p *Parser) parseIndexExpression(array ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Array: array}

	p.nextToken()
	if exp.Index = p.parseExpression(LOWEST); exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACK) {
		return nil
	}

	return exp
}

func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil, false
	}
	list = append(list, exp)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if exp = p.parseExpression(LOWEST); exp == nil {
			return nil, false
		}
		list = append(list, exp)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}
