// Package pascalet implements a small Pascal-flavoured imperative language:
// a lexer and recursive-descent parser producing an AST, a semantic analyzer
// over that AST, and a tree-walking interpreter. The syntax covers:
//   - A program header followed by a braced block of declarations and
//     statements: `program demo { ... }`.
//   - Typed variable declarations with optional initializers:
//     `var x, y : integer = 0;`.
//   - Function declarations with typed parameter groups, nestable inside
//     other functions.
//   - if/elif/else, counted for-loops, break, and return.
//   - Arithmetic, boolean, and string expressions. The same assignment slot
//     may hold any of the three; the parser resolves the kind by scanning
//     ahead to the end of the statement.
//
// Keywords are case-insensitive. Comments run from `//` to end of line or
// between `{{` and `}}` markers. The lexer supports exact backtracking via a
// stack of state snapshots, which the parser uses for all lookahead.
package pascalet
