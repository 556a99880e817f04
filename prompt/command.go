package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Edit command errors.
var (
	ErrUnknownCommand = errors.New("unknown command op")
	ErrUnknownField   = errors.New("unknown field key")
	ErrUnknownGroup   = errors.New("unknown tag group")
	ErrMissingID      = errors.New("missing entity id")
)

// Command is one element of the tagged union of edit operations. Commands are
// applied by the pure transition function Apply; they never mutate the input
// snapshot.
type Command interface {
	isCommand()
}

// SetField replaces the value of a free-text field.
type SetField struct {
	Field FieldKey `json:"field"`
	Value string   `json:"value"`
}

// AddTag appends a tag to a tag set. Duplicate and blank tags are ignored.
type AddTag struct {
	Group TagGroup `json:"group"`
	Tag   string   `json:"tag"`
}

// RemoveTag deletes a tag from a tag set. Absent tags are a no-op.
type RemoveTag struct {
	Group TagGroup `json:"group"`
	Tag   string   `json:"tag"`
}

// AddVariable appends a variable. The name is normalized on insertion. The
// variable must carry an id not already present in the sequence; adds with a
// blank or duplicate id are ignored so ids stay unique.
type AddVariable struct {
	Variable Variable `json:"variable"`
}

// UpdateVariable replaces the non-nil fields of the variable with the given
// id. Name edits are normalized to UPPER_SNAKE form. Unknown ids are a no-op.
type UpdateVariable struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Example     *string `json:"example,omitempty"`
}

// RemoveVariable deletes the variable with the given id.
type RemoveVariable struct {
	ID string `json:"id"`
}

// AddStage appends a workflow stage. The stage must carry an id not already
// present in the sequence; adds with a blank or duplicate id are ignored.
type AddStage struct {
	Stage Stage `json:"stage"`
}

// UpdateStage replaces the non-nil fields of the stage with the given id.
type UpdateStage struct {
	ID             string  `json:"id"`
	Title          *string `json:"title,omitempty"`
	Instruction    *string `json:"instruction,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
}

// RemoveStage deletes the stage with the given id.
type RemoveStage struct {
	ID string `json:"id"`
}

// MoveStage relocates the stage with the given id to position To (0-based,
// clamped to the sequence bounds). Stage order is execution order, so moves
// are semantically significant.
type MoveStage struct {
	ID string `json:"id"`
	To int    `json:"to"`
}

func (SetField) isCommand()       {}
func (AddTag) isCommand()         {}
func (RemoveTag) isCommand()      {}
func (AddVariable) isCommand()    {}
func (UpdateVariable) isCommand() {}
func (RemoveVariable) isCommand() {}
func (AddStage) isCommand()       {}
func (UpdateStage) isCommand()    {}
func (RemoveStage) isCommand()    {}
func (MoveStage) isCommand()      {}

// Apply runs commands against a snapshot and returns the resulting snapshot.
// The input is cloned first, so callers holding the previous snapshot see no
// change. Apply is total: commands referencing unknown fields, groups, or ids
// leave the state untouched.
func Apply(s State, cmds ...Command) State {
	next := s.Clone()
	for _, cmd := range cmds {
		applyCommand(&next, cmd)
	}
	return next
}

func applyCommand(s *State, cmd Command) {
	switch c := cmd.(type) {
	case SetField:
		for _, f := range fields {
			if f.key == c.Field {
				f.set(s, c.Value)
				return
			}
		}

	case AddTag:
		for _, g := range tagGroups {
			if g.group == c.Group {
				tag := strings.TrimSpace(c.Tag)
				if tag == "" || slices.Contains(g.get(s), tag) {
					return
				}
				g.set(s, append(g.get(s), tag))
				return
			}
		}

	case RemoveTag:
		for _, g := range tagGroups {
			if g.group == c.Group {
				g.set(s, slices.DeleteFunc(g.get(s), func(t string) bool {
					return t == c.Tag
				}))
				return
			}
		}

	case AddVariable:
		v := c.Variable
		if strings.TrimSpace(v.ID) == "" || slices.ContainsFunc(s.Variables, func(e Variable) bool {
			return e.ID == v.ID
		}) {
			return
		}
		v.Name = NormalizeVariableName(v.Name)
		s.Variables = append(s.Variables, v)

	case UpdateVariable:
		for i := range s.Variables {
			if s.Variables[i].ID != c.ID {
				continue
			}
			if c.Name != nil {
				s.Variables[i].Name = NormalizeVariableName(*c.Name)
			}
			if c.Description != nil {
				s.Variables[i].Description = *c.Description
			}
			if c.Example != nil {
				s.Variables[i].Example = *c.Example
			}
			return
		}

	case RemoveVariable:
		s.Variables = slices.DeleteFunc(s.Variables, func(v Variable) bool {
			return v.ID == c.ID
		})

	case AddStage:
		if strings.TrimSpace(c.Stage.ID) == "" || slices.ContainsFunc(s.Workflow, func(e Stage) bool {
			return e.ID == c.Stage.ID
		}) {
			return
		}
		s.Workflow = append(s.Workflow, c.Stage)

	case UpdateStage:
		for i := range s.Workflow {
			if s.Workflow[i].ID != c.ID {
				continue
			}
			if c.Title != nil {
				s.Workflow[i].Title = *c.Title
			}
			if c.Instruction != nil {
				s.Workflow[i].Instruction = *c.Instruction
			}
			if c.ExpectedOutput != nil {
				s.Workflow[i].ExpectedOutput = *c.ExpectedOutput
			}
			return
		}

	case RemoveStage:
		s.Workflow = slices.DeleteFunc(s.Workflow, func(st Stage) bool {
			return st.ID == c.ID
		})

	case MoveStage:
		from := slices.IndexFunc(s.Workflow, func(st Stage) bool {
			return st.ID == c.ID
		})
		if from < 0 {
			return
		}
		to := min(max(c.To, 0), len(s.Workflow)-1)
		if to == from {
			return
		}
		stage := s.Workflow[from]
		s.Workflow = slices.Delete(s.Workflow, from, from+1)
		s.Workflow = slices.Insert(s.Workflow, to, stage)
	}
}

type commandEnvelope struct {
	Op string `json:"op"`
}

// UnmarshalCommand decodes a single JSON command envelope of the form
// {"op": "set_field", ...}. Field keys and tag groups are validated here so
// HTTP callers get a 400 instead of a silent no-op.
func UnmarshalCommand(data []byte) (Command, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	decode := func(cmd Command) (Command, error) {
		if err := json.Unmarshal(data, cmd); err != nil {
			return nil, err
		}
		return deref(cmd), nil
	}

	switch env.Op {
	case "set_field":
		var c SetField
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		if !validField(c.Field) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
		}
		return c, nil
	case "add_tag":
		var c AddTag
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		if !validGroup(c.Group) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, c.Group)
		}
		return c, nil
	case "remove_tag":
		var c RemoveTag
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		if !validGroup(c.Group) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, c.Group)
		}
		return c, nil
	case "add_variable":
		var c AddVariable
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		if strings.TrimSpace(c.Variable.ID) == "" {
			return nil, fmt.Errorf("%w: add_variable requires variable.id", ErrMissingID)
		}
		return c, nil
	case "update_variable":
		return decode(&UpdateVariable{})
	case "remove_variable":
		return decode(&RemoveVariable{})
	case "add_stage":
		var c AddStage
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		if strings.TrimSpace(c.Stage.ID) == "" {
			return nil, fmt.Errorf("%w: add_stage requires stage.id", ErrMissingID)
		}
		return c, nil
	case "update_stage":
		return decode(&UpdateStage{})
	case "remove_stage":
		return decode(&RemoveStage{})
	case "move_stage":
		return decode(&MoveStage{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Op)
	}
}

func deref(cmd Command) Command {
	switch c := cmd.(type) {
	case *AddVariable:
		return *c
	case *UpdateVariable:
		return *c
	case *RemoveVariable:
		return *c
	case *AddStage:
		return *c
	case *UpdateStage:
		return *c
	case *RemoveStage:
		return *c
	case *MoveStage:
		return *c
	}
	return cmd
}

func validField(key FieldKey) bool {
	for _, f := range fields {
		if f.key == key {
			return true
		}
	}
	return false
}

func validGroup(group TagGroup) bool {
	for _, g := range tagGroups {
		if g.group == group {
			return true
		}
	}
	return false
}
