// Package vccmd encodes compile requests into the single positional argument
// understood by the external compiler tool.
//
// The tool parses its argument by position, not by name, so every field is
// always emitted, absent values as empty strings. The layout is:
//
//	0-5    ISA disassembly outputs, one per stage
//	6      program binary output
//	7-12   statistics outputs, one per stage
//	13     device family id
//	14     device revision id
//	15-20  input shaders, one per stage
//	21     version query slot
//	22-27  IL disassembly outputs, one per stage
//
// Each field is followed by the delimiter, so an encoded argument always holds
// NumFields delimiters and splits into NumFields+1 parts, the last one empty.
// Per-stage groups follow the canonical stage order of package pipeline.
package vccmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/glcompile/internal/pipeline"
)

// Delimiter separates fields in the encoded argument.
const Delimiter = ";"

// VersionMarker is the value placed in the version slot to query the tool's
// OpenGL version instead of compiling.
const VersionMarker = "version"

// Field indices of the fixed layout.
const (
	ISAStart      = 0
	BinaryIndex   = ISAStart + pipeline.NumStages
	StatsStart    = BinaryIndex + 1
	FamilyIndex   = StatsStart + pipeline.NumStages
	RevisionIndex = FamilyIndex + 1
	InputStart    = RevisionIndex + 1
	VersionIndex  = InputStart + pipeline.NumStages
	ILStart       = VersionIndex + 1

	// NumFields is the total number of positional fields.
	NumFields = ILStart + pipeline.NumStages
)

// Field is one named position of the argument.
type Field struct {
	Name  string
	Value string
}

// Fields is the ordered field list. Its length is always NumFields.
type Fields [NumFields]Field

// names is built once from the layout so encoders and decoders agree on it.
var names = func() [NumFields]string {
	var n [NumFields]string
	for i, stage := range pipeline.Stages {
		n[ISAStart+i] = "isa." + stage.String()
		n[StatsStart+i] = "stats." + stage.String()
		n[InputStart+i] = "input." + stage.String()
		n[ILStart+i] = "il." + stage.String()
	}
	n[BinaryIndex] = "binary"
	n[FamilyIndex] = "device.family"
	n[RevisionIndex] = "device.revision"
	n[VersionIndex] = "version"
	return n
}()

// FieldName returns the name of the field at index i.
func FieldName(i int) string {
	if i < 0 || i >= NumFields {
		return ""
	}
	return names[i]
}

// empty returns a field list with names set and all values empty.
func empty() Fields {
	var f Fields
	for i := range f {
		f[i].Name = names[i]
	}
	return f
}

func (f *Fields) setGroup(start int, set pipeline.ShaderSet) {
	for i, p := range set.Paths() {
		f[start+i].Value = p
	}
}

// RequestFields lays a compile request out in the tool's positional order.
// The version slot is left empty.
func RequestFields(req pipeline.CompileRequest) Fields {
	f := empty()
	f.setGroup(ISAStart, req.ISADisassembly)
	f[BinaryIndex].Value = req.Binary
	f.setGroup(StatsStart, req.Statistics)
	f[FamilyIndex].Value = strconv.Itoa(req.ChipFamily)
	f[RevisionIndex].Value = strconv.Itoa(req.ChipRevision)
	f.setGroup(InputStart, req.Shaders)
	f.setGroup(ILStart, req.ILDisassembly)
	return f
}

// VersionFields is the degenerate layout that asks the tool for its OpenGL
// version: every field is empty except the version slot.
func VersionFields() Fields {
	f := empty()
	f[VersionIndex].Value = VersionMarker
	return f
}

// Encode joins the field values, terminating every field with the delimiter.
func Encode(f Fields) string {
	var b strings.Builder
	for _, field := range f {
		b.WriteString(field.Value)
		b.WriteString(Delimiter)
	}
	return b.String()
}

// Check reports every field whose value contains the delimiter. Such a value
// would shift all later positions of the encoded argument.
func Check(f Fields) error {
	var errs []error
	for _, field := range f {
		if strings.Contains(field.Value, Delimiter) {
			errs = append(errs, fmt.Errorf("field %s: value %q must not contain %q", field.Name, field.Value, Delimiter))
		}
	}
	return errors.Join(errs...)
}

// CheckRequest is Check over the layout of req.
func CheckRequest(req pipeline.CompileRequest) error {
	return Check(RequestFields(req))
}

// Decode parses an encoded argument back into named fields.
func Decode(arg string) (Fields, error) {
	parts := strings.Split(arg, Delimiter)
	if len(parts) != NumFields+1 || parts[NumFields] != "" {
		return Fields{}, fmt.Errorf("malformed argument: expected %d delimited fields, got %d parts", NumFields, len(parts))
	}
	f := empty()
	for i := range f {
		f[i].Value = parts[i]
	}
	return f, nil
}

// Value returns the value of the named field, or "" when no field has that name.
func (f Fields) Value(name string) string {
	for _, field := range f {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Command is a ready-to-launch invocation: the tool and its single argument.
type Command struct {
	Path string
	Arg  string
}

// Build encodes a compile request into a command for the tool at toolPath.
func Build(toolPath string, req pipeline.CompileRequest) Command {
	return Command{Path: toolPath, Arg: Encode(RequestFields(req))}
}

// Version builds the version query command for the tool at toolPath.
func Version(toolPath string) Command {
	return Command{Path: toolPath, Arg: Encode(VersionFields())}
}

// String renders the flat command line: the tool path followed by the
// quoted argument.
func (c Command) String() string {
	return c.Path + ` "` + c.Arg + `"`
}
