package fuelabi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// Document is the raw interface description emitted by the compiler.
// It is immutable input: the resolver never modifies it.
type Document struct {
	Encoding      string                    `json:"encoding,omitempty"`
	Types         []TypeDeclaration         `json:"types"`
	Functions     []FunctionDeclaration     `json:"functions"`
	LoggedTypes   []LoggedTypeDeclaration   `json:"loggedTypes"`
	MessagesTypes []MessageTypeDeclaration  `json:"messagesTypes"`
	Configurables []ConfigurableDeclaration `json:"configurables"`
}

// TypeDeclaration is one entry of the "types" array.
type TypeDeclaration struct {
	TypeID         int               `json:"typeId"`
	Type           string            `json:"type"`
	Components     []TypeApplication `json:"components"`
	TypeParameters []int             `json:"typeParameters"`
}

// TypeApplication references a declared type by id, optionally with
// type arguments for its generic parameters.
type TypeApplication struct {
	Name          string            `json:"name"`
	Type          int               `json:"type"`
	TypeArguments []TypeApplication `json:"typeArguments"`
}

// FunctionDeclaration is one entry of the "functions" array.
type FunctionDeclaration struct {
	Name       string            `json:"name"`
	Inputs     []TypeApplication `json:"inputs"`
	Output     TypeApplication   `json:"output"`
	Attributes []Attribute       `json:"attributes"`
}

// Attribute is a function annotation such as storage(read, write) or payable.
type Attribute struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments"`
}

// LoggedTypeDeclaration binds a runtime log id to the type it carries.
type LoggedTypeDeclaration struct {
	LogID      LogID           `json:"logId"`
	LoggedType TypeApplication `json:"loggedType"`
}

// MessageTypeDeclaration binds a message id to its data type.
type MessageTypeDeclaration struct {
	MessageID       LogID           `json:"messageId"`
	MessageDataType TypeApplication `json:"messageDataType"`
}

// ConfigurableDeclaration names a constant embedded in the program's data
// section at Offset.
type ConfigurableDeclaration struct {
	Name             string          `json:"name"`
	ConfigurableType TypeApplication `json:"configurableType"`
	Offset           uint64          `json:"offset"`
}

// LogID is the numeric id a program attaches to every emitted log.
// Older compilers write it as a JSON number, newer ones as a decimal string.
type LogID uint64

// UnmarshalJSON accepts both 42 and "42".
func (id *LogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("fuelabi: invalid log id %s: %w", data, err)
	}
	*id = LogID(v)
	return nil
}

// MarshalJSON writes the id as a decimal string.
func (id LogID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(id), 10))
}

// ParseDocument decodes a JSON interface description.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescription, err)
	}
	return &doc, nil
}

// Validate reports every structural problem in the document at once:
// duplicate type ids and references to undeclared types. A single problem
// is returned as-is; several are aggregated.
func (d *Document) Validate() error {
	var result *multierror.Error

	declared := make(map[int]bool, len(d.Types))
	for _, decl := range d.Types {
		if declared[decl.TypeID] {
			result = multierror.Append(result, &DuplicateTypeError{TypeID: decl.TypeID})
		}
		declared[decl.TypeID] = true
	}

	var check func(app TypeApplication, referrer string)
	check = func(app TypeApplication, referrer string) {
		if !declared[app.Type] {
			result = multierror.Append(result, &UnknownTypeReferenceError{TypeID: app.Type, Referrer: referrer})
		}
		for _, arg := range app.TypeArguments {
			check(arg, referrer)
		}
	}

	for _, decl := range d.Types {
		referrer := fmt.Sprintf("type %d (%s)", decl.TypeID, decl.Type)
		for _, comp := range decl.Components {
			check(comp, referrer)
		}
		for _, param := range decl.TypeParameters {
			check(TypeApplication{Type: param}, referrer)
		}
	}
	for _, fn := range d.Functions {
		referrer := fmt.Sprintf("function %q", fn.Name)
		for _, in := range fn.Inputs {
			check(in, referrer)
		}
		check(fn.Output, referrer)
	}
	for _, lt := range d.LoggedTypes {
		check(lt.LoggedType, fmt.Sprintf("log id %d", lt.LogID))
	}
	for _, mt := range d.MessagesTypes {
		check(mt.MessageDataType, fmt.Sprintf("message id %d", mt.MessageID))
	}
	for _, c := range d.Configurables {
		check(c.ConfigurableType, fmt.Sprintf("configurable %q", c.Name))
	}

	if result == nil {
		return nil
	}
	if len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result
}
