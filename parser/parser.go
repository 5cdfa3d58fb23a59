package parser

import (
	"regexp"
	"strings"
)

const (
	prototypePrefix    = "GLAPI "
	apiEntry           = "APIENTRY "
	typedefPrefix      = "typedef "
	apiEntryPointer    = "(APIENTRYP "
	featureStartPrefix = "#ifndef GL_"
	featureEndPrefix   = "#endif /* GL_"
)

var typedefHeadRe = regexp.MustCompile(`^typedef\s+(.*?)\s*\(APIENTRYP\s+([^)\s]*)\s*\)`)

// IsFeatureStart reports whether line opens a feature guard.
func IsFeatureStart(line string) bool {
	return strings.HasPrefix(line, featureStartPrefix)
}

// FeatureName returns the guard macro named by a feature start line,
// which is everything after the first space.
func FeatureName(line string) string {
	_, name, _ := strings.Cut(line, " ")
	return strings.TrimSpace(name)
}

// IsFeatureEnd reports whether line closes a feature guard.
func IsFeatureEnd(line string) bool {
	return strings.HasPrefix(line, featureEndPrefix)
}

// IsPrototype reports whether line is a GLAPI function declaration.
func IsPrototype(line string) bool {
	return strings.HasPrefix(line, prototypePrefix) && strings.Contains(line, apiEntry)
}

// ReadPrototype parses a line accepted by IsPrototype.
func ReadPrototype(line string) Prototype {
	var p Prototype

	if idx := strings.Index(line, apiEntry); idx != -1 {
		name := line[idx+len(apiEntry):]
		if end := strings.IndexAny(name, " \t("); end != -1 {
			name = name[:end]
		}
		p.Name = name
	}

	decl := strings.TrimSpace(strings.TrimPrefix(line, prototypePrefix))
	decl = strings.TrimSpace(strings.TrimSuffix(decl, ";"))
	p.Decl = strings.ReplaceAll(decl, "(void)", "()")

	return p
}

// IsTypeDefinition reports whether line is an APIENTRYP function-pointer typedef.
func IsTypeDefinition(line string) bool {
	return strings.HasPrefix(line, typedefPrefix) && strings.Contains(line, apiEntryPointer)
}

// ReadTypeDefinition parses a line accepted by IsTypeDefinition.
func ReadTypeDefinition(line string) TypeDefinition {
	var t TypeDefinition

	if m := typedefHeadRe.FindStringSubmatch(line); m != nil {
		t.ReturnType = strings.TrimSpace(m[1])
		t.Name = m[2]
	}

	open := strings.LastIndex(line, "(")
	end := strings.LastIndex(line, ")")
	if open != -1 && end > open {
		t.Params = ParseParameters(line[open+1 : end])
	}

	return t
}

// ParseParameters reduces a C parameter list to its identifiers, dropping
// types, pointer stars, array bounds and a lone void.
func ParseParameters(list string) []string {
	var params []string

	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if idx := strings.IndexByte(part, '['); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}

		name := part[strings.LastIndexAny(part, "* \t")+1:]
		if name == "" || name == "void" {
			continue
		}

		params = append(params, name)
	}

	return params
}
