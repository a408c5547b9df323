// Package parser implements the recursive-descent grammar described
// in SPEC_FULL.md §4.2: tokens in, a ROOT-rooted ast.Node tree out,
// fatal on the first syntax error.
package parser

import (
	"fmt"

	"github.com/skx/math-compiler/ast"
	"github.com/skx/math-compiler/token"
)

// Parser holds our object-state: the token stream and our current
// position within it.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a Parser over a token sequence produced by the lexer.
// The sequence is expected to begin with token.ROOT, as documented
// in spec.md §4.2.
func New(tokens []token.Token) (*Parser, error) {
	if len(tokens) == 0 || tokens[0].Type != token.ROOT {
		return nil, fmt.Errorf("parser: token stream must begin with ROOT")
	}
	return &Parser{tokens: tokens, pos: 1}, nil
}

// Parse consumes every token through EOF and returns the ROOT tree
// whose children are FUNC nodes in source order.
func (p *Parser) Parse() (*ast.Node, error) {
	var funcs []*ast.Node

	for !p.check(token.EOF) {
		fn, err := p.parseFunc()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)

		// Semicolons between function definitions are optional.
		p.accept(token.SEMICOLON)
	}

	root := &ast.Node{Kind: ast.ROOT, Children: funcs}
	return root, nil
}

// parseFunc parses "FUN ident args stmt".
func (p *Parser) parseFunc() (*ast.Node, error) {
	if _, err := p.expect(token.FUN); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return ast.New(ast.FUNC, name, args, body), nil
}

// parseArgs parses "'(' (ident (',' ident)*)? ')'" into an ARGS node
// whose children are all VAR nodes.
func (p *Parser) parseArgs() (*ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var children []*ast.Node
	if !p.check(token.RPAREN) {
		for {
			tok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			children = append(children, ast.New(ast.VAR, tok))

			if !p.accept(token.COMMA) {
				break
			}
		}
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	return ast.New(ast.ARGS, token.Token{}, children...), nil
}

// parseStmt implements the `stmt` production.
func (p *Parser) parseStmt() (*ast.Node, error) {
	switch {
	case p.check(token.LOOP):
		tok := p.next()
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.LOOP, tok, body), nil

	case p.check(token.IF):
		tok := p.next()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		then, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		// A missing else is filled with a synthetic NUM 0, per
		// spec.md §4.2, so every IF node has three children.
		elseNode := ast.New(ast.NUM, syntheticZero(tok))
		if p.accept(token.ELSE) {
			elseNode, err = p.parseStmt()
			if err != nil {
				return nil, err
			}
		}
		return ast.New(ast.IF, tok, cond, then, elseNode), nil

	case p.check(token.LBRACE):
		tok := p.next()
		var stmts []*ast.Node
		for !p.check(token.RBRACE) {
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, s)

			// Statements are separated by ';'. It may be left out
			// before the closing '}' and after a statement that itself
			// ended with '}'.
			if !p.accept(token.SEMICOLON) && !p.check(token.RBRACE) && p.tokens[p.pos-1].Type != token.RBRACE {
				return nil, p.errorf("unexpected token %s, expected %s", p.peek().Type, token.SEMICOLON)
			}
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return ast.New(ast.BLOCK, tok, stmts...), nil

	case p.check(token.LET):
		return p.parseLet()

	case p.check(token.RETURN):
		tok := p.next()
		// The operand is parsed as a full stmt, not just assign: the
		// grammar's "'return' assign" is a strict subset of what
		// spec.md §8 scenario 5 requires ("return if (...) ... else
		// ...") — an IF used directly as a return's value. parseStmt
		// is a superset of assign here, so plain expressions still
		// parse exactly as before.
		expr, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.RETURN, tok, expr), nil

	default:
		return p.parseAssign()
	}
}

// parseLet implements "'let' ident ('=' stmt)?".
func (p *Parser) parseLet() (*ast.Node, error) {
	if _, err := p.expect(token.LET); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	lvar := ast.New(ast.VAR, name)

	if !p.accept(token.ASSIGN) {
		return ast.New(ast.LET, name, lvar, nil), nil
	}

	init, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.LET, name, lvar, init), nil
}

// parseAssign implements "equality ('=' assign)?", right-associative.
func (p *Parser) parseAssign() (*ast.Node, error) {
	lhs, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	if !p.check(token.ASSIGN) {
		return lhs, nil
	}
	tok := p.next()

	rhs, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.ASSIGN, tok, lhs, rhs), nil
}

// parseEquality implements "relational (('==' | '!=') relational)*".
func (p *Parser) parseEquality() (*ast.Node, error) {
	lhs, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(token.EQ):
			tok := p.next()
			rhs, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			lhs = ast.New(ast.EQ, tok, lhs, rhs)
		case p.check(token.NE):
			tok := p.next()
			rhs, err := p.parseRelational()
			if err != nil {
				return nil, err
			}
			lhs = ast.New(ast.NE, tok, lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

// parseRelational implements "add (('<' | '<=' | '>' | '>=') add)*".
func (p *Parser) parseRelational() (*ast.Node, error) {
	lhs, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.check(token.LT):
			kind = ast.LT
		case p.check(token.LE):
			kind = ast.LE
		case p.check(token.GT):
			kind = ast.GT
		case p.check(token.GE):
			kind = ast.GE
		default:
			return lhs, nil
		}
		tok := p.next()
		rhs, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		lhs = ast.New(kind, tok, lhs, rhs)
	}
}

// parseAdd implements "mul (('+' | '-') mul)*".
func (p *Parser) parseAdd() (*ast.Node, error) {
	lhs, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.check(token.PLUS):
			kind = ast.ADD
		case p.check(token.MINUS):
			kind = ast.SUB
		default:
			return lhs, nil
		}
		tok := p.next()
		rhs, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		lhs = ast.New(kind, tok, lhs, rhs)
	}
}

// parseMul implements "unary (('*' | '/') unary)*".
func (p *Parser) parseMul() (*ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		var kind ast.Kind
		switch {
		case p.check(token.ASTERISK):
			kind = ast.MUL
		case p.check(token.SLASH):
			kind = ast.DIV
		default:
			return lhs, nil
		}
		tok := p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = ast.New(kind, tok, lhs, rhs)
	}
}

// parseUnary implements "'+' unary | '-' unary | factor". Unary minus
// desugars into SUB(NUM 0, operand), per spec.md §4.2.
func (p *Parser) parseUnary() (*ast.Node, error) {
	if p.accept(token.PLUS) {
		return p.parseUnary()
	}

	if p.check(token.MINUS) {
		tok := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		zero := ast.New(ast.NUM, syntheticZero(tok))
		return ast.New(ast.SUB, tok, zero, operand), nil
	}

	return p.parseFactor()
}

// parseFactor implements:
//
//	'(' assign ')' | NUM | ident ('(' (stmt (',' stmt)*)? ')')?
func (p *Parser) parseFactor() (*ast.Node, error) {
	switch {
	case p.accept(token.LPAREN):
		node, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return node, nil

	case p.check(token.NUM):
		tok := p.next()
		return ast.New(ast.NUM, tok), nil

	case p.check(token.IDENT):
		tok := p.next()
		if !p.check(token.LPAREN) {
			return ast.New(ast.VAR, tok), nil
		}

		p.next() // consume '('
		var args []*ast.Node
		if !p.check(token.RPAREN) {
			for {
				arg, err := p.parseStmt()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if !p.accept(token.COMMA) {
					break
				}
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return ast.New(ast.CALL, tok, args...), nil
	}

	return nil, p.errorf("expected an expression, found %s", p.peek().Type)
}

// syntheticZero builds the dummy "0" NUM token used to desugar unary
// minus and to fill a missing IF else-branch, per spec.md §4.2.
func syntheticZero(token.Token) token.Token {
	return token.New(token.NUM, "0", 0, 1)
}

// --- token-stream helpers -------------------------------------------------

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) check(t token.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) next() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

// accept consumes the current token if it matches t, reporting
// whether it did.
func (p *Parser) accept(t token.Type) bool {
	if p.check(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes the current token, which must be of type t. A
// mismatch — including running off the end of the stream at EOF — is
// the parser's single class of fatal error (spec.md §4.2).
func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.check(t) {
		return p.next(), nil
	}
	if p.check(token.EOF) {
		return token.Token{}, p.errorf("unexpected end of input, expected %s", t)
	}
	return token.Token{}, p.errorf("unexpected token %s, expected %s", p.peek().Type, t)
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse error at token %d: %s", p.pos, fmt.Sprintf(format, args...))
}
