package parser

// Prototype is a GLAPI function declaration read from the header.
type Prototype struct {
	// Name is the bare C identifier, e.g. glFooEXT.
	Name string

	// Decl is the declaration without GLAPI and the trailing semicolon,
	// with a (void) parameter list written as ().
	Decl string
}

// TypeDefinition is a function-pointer typedef read from the header.
type TypeDefinition struct {
	Name       string
	ReturnType string

	// Params holds the parameter identifiers only, in declared order.
	Params []string
}

// ReturnsValue reports whether the pointer type returns something other than void.
func (t TypeDefinition) ReturnsValue() bool {
	return t.ReturnType != "void"
}

// Entry pairs a prototype with the typedef it was matched to.
type Entry struct {
	Prototype      Prototype
	TypeDefinition TypeDefinition
}

// Feature is a guard-delimited region of the header, e.g. GL_EXT_foo.
type Feature struct {
	Name string

	// Entries is sorted by Prototype.Name and holds each name once.
	Entries []Entry
}
