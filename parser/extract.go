package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// glext.h keeps every declaration on one line, but some of them are long.
const maxLineSize = 1 << 20

// StepKind discriminates the result of Extractor.Step.
type StepKind int

const (
	// StepContinue means a line was consumed and no feature was completed.
	StepContinue StepKind = iota

	// StepFeatureComplete means the line was a feature end marker and
	// Step.Feature holds the finished feature.
	StepFeatureComplete

	// StepEndOfInput means the input is exhausted or failed; see Extractor.Err.
	StepEndOfInput
)

func (k StepKind) String() string {
	switch k {
	case StepContinue:
		return "continue"
	case StepFeatureComplete:
		return "feature-complete"
	case StepEndOfInput:
		return "end-of-input"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

type Step struct {
	Kind    StepKind
	Feature Feature
}

// Extractor scans a header once, from top to bottom, and groups the
// declarations it sees into features.
type Extractor struct {
	lines *bufio.Scanner
	line  int

	name       string
	started    bool
	startLine  int
	prototypes []Prototype
	typedefs   []TypeDefinition
}

// NewExtractor returns an Extractor reading from r. A leading byte order
// mark is honoured, so UTF-16 headers are decoded as well.
func NewExtractor(r io.Reader) *Extractor {
	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	lines := bufio.NewScanner(transform.NewReader(r, tr))
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Extractor{lines: lines}
}

// Step consumes a single line.
func (e *Extractor) Step() Step {
	if !e.lines.Scan() {
		if e.started {
			slog.Warn("discarding feature without end marker", "feature", e.name, "line", e.startLine)
		}
		e.reset()
		return Step{Kind: StepEndOfInput}
	}

	e.line++
	line := strings.TrimRight(e.lines.Text(), "\r")

	switch {
	case IsFeatureStart(line):
		e.name = FeatureName(line)
		e.started = true
		e.startLine = e.line
	case IsTypeDefinition(line):
		e.typedefs = append(e.typedefs, ReadTypeDefinition(line))
	case IsPrototype(line):
		e.prototypes = append(e.prototypes, ReadPrototype(line))
	case IsFeatureEnd(line):
		if !e.started {
			slog.Warn("feature end marker without start", "line", e.line, "text", line)
		}

		feature := Feature{Name: e.name, Entries: Match(e.prototypes, e.typedefs)}
		if n := len(e.prototypes) - len(feature.Entries); n > 0 {
			slog.Debug("prototypes without typedef", "feature", feature.Name, "count", n)
		}
		if n := len(e.typedefs) - len(feature.Entries); n > 0 {
			slog.Debug("typedefs without prototype", "feature", feature.Name, "count", n)
		}

		e.reset()
		return Step{Kind: StepFeatureComplete, Feature: feature}
	}

	return Step{Kind: StepContinue}
}

// Err returns the first read error, if any.
func (e *Extractor) Err() error {
	return e.lines.Err()
}

func (e *Extractor) reset() {
	e.name = ""
	e.started = false
	e.startLine = 0
	e.prototypes = nil
	e.typedefs = nil
}

// Extract reads every feature from r in the order they appear.
func Extract(r io.Reader) ([]Feature, error) {
	e := NewExtractor(r)

	var features []Feature
	for {
		step := e.Step()
		switch step.Kind {
		case StepFeatureComplete:
			features = append(features, step.Feature)
		case StepEndOfInput:
			if err := e.Err(); err != nil {
				return nil, fmt.Errorf("reading header: %w", err)
			}
			return features, nil
		}
	}
}
