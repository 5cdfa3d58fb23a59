package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	foo := Prototype{Name: "glFooEXT", Decl: "void APIENTRY glFooEXT (GLint x)"}
	bar := Prototype{Name: "glBarEXT", Decl: "void APIENTRY glBarEXT ()"}
	lonely := Prototype{Name: "glLonelyEXT", Decl: "void APIENTRY glLonelyEXT ()"}

	fooProc := TypeDefinition{Name: "PFNGLFOOEXTPROC", ReturnType: "void", Params: []string{"x"}}
	fooProc2 := TypeDefinition{Name: "PFNGLFOOEXTPROC2", ReturnType: "void"}
	barProc := TypeDefinition{Name: "PFNGLBAREXTPROC", ReturnType: "void"}
	unused := TypeDefinition{Name: "PFNGLUNUSEDPROC", ReturnType: "void"}

	entries := Match(
		[]Prototype{foo, lonely, bar},
		[]TypeDefinition{unused, fooProc, barProc, fooProc2},
	)

	assert.Equal(t, []Entry{
		{Prototype: bar, TypeDefinition: barProc},
		{Prototype: foo, TypeDefinition: fooProc},
	}, entries)
}

func TestMatchFirstPrototypeWins(t *testing.T) {
	first := Prototype{Name: "glFoo", Decl: "void APIENTRY glFoo (GLint x)"}
	second := Prototype{Name: "glFoo", Decl: "void APIENTRY glFoo (GLfloat x)"}
	proc := TypeDefinition{Name: "PFNGLFOOPROC", ReturnType: "void", Params: []string{"x"}}

	entries := Match([]Prototype{first, second}, []TypeDefinition{proc})
	if assert.Len(t, entries, 1) {
		assert.Equal(t, first, entries[0].Prototype)
	}
}

func TestMatchSubstringCollision(t *testing.T) {
	// glFoo is a prefix of glFoov, so PFNGLFOOVPROC also qualifies for glFoo.
	foo := Prototype{Name: "glFoo"}
	foov := Prototype{Name: "glFoov"}
	foovProc := TypeDefinition{Name: "PFNGLFOOVPROC"}
	fooProc := TypeDefinition{Name: "PFNGLFOOPROC"}

	entries := Match([]Prototype{foo, foov}, []TypeDefinition{foovProc, fooProc})
	assert.Equal(t, []Entry{
		{Prototype: foo, TypeDefinition: foovProc},
		{Prototype: foov, TypeDefinition: foovProc},
	}, entries)
}

func TestMatchEmpty(t *testing.T) {
	assert.Empty(t, Match(nil, nil))
	assert.Empty(t, Match([]Prototype{{Name: "glFoo"}}, nil))
	assert.Empty(t, Match(nil, []TypeDefinition{{Name: "PFNGLFOOPROC"}}))
}
