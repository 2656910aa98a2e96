// Package bibtidy parses bibtex files the way bibtex itself reads its
// databases and writes them back in one canonical form.
//
// Parsing expands @string macros, accepts both {} and () delimited
// commands and reports problems that bibtex would only warn about (repeated
// fields, repeated keys, undefined or redefined macros) as Warnings.
// Anything malformed is a *SyntaxError and no document is returned.
package bibtidy

// BNF
// Database     ::= (Junk '@' Item)*
// Item         ::= Comment
//               |  Preamble
//               |  String
//               |  Entry
// Comment      ::= "comment"                                  -- body is junk
// Preamble     ::= "preamble" Open Value Close
// String       ::= "string" Open Name '=' Value Close
// Entry        ::= Type Open Key (',' Field)* [','] Close
// Open, Close  ::= '{' '}' | '(' ')'
// Type         ::= Name
// Key          ::= [^,\s}]*                                   -- ')' allowed with ()
// Field        ::= Name '=' Value
// Name         ::= [^\s\"#%'(),={}0-9][^\s\"#%'(),={}]*    -- printable ascii
// Value        ::= Piece ('#' Piece)*
// Piece        ::= [0-9]+
//               |  '"' Balanced '"'
//               |  '{' Balanced '}'
//               |  Name                                       -- macro
