package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the playing position a slot is tagged with.
type Role string

const (
	RoleGoalkeeper Role = "goalkeeper"
	RoleDefender   Role = "defender"
	RoleMidfielder Role = "midfielder"
	RoleForward    Role = "forward"
)

var roleCodes = map[Role]string{
	RoleGoalkeeper: "gk",
	RoleDefender:   "def",
	RoleMidfielder: "mid",
	RoleForward:    "fwd",
}

// ParseRole accepts the role name ("defender") or its short code ("def").
func ParseRole(s string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for r, code := range roleCodes {
		if string(r) == v || code == v {
			return r, nil
		}
	}
	return "", NewValidationError("unknown role %q", s)
}

// Code returns the short code used in slot ids.
func (r Role) Code() string {
	return roleCodes[r]
}

// Side is one of the two teams in an event.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return SideA, nil
	case "B":
		return SideB, nil
	}
	return "", NewValidationError("unknown side %q", s)
}

// SlotDescriptor describes one seat of a roster template. Index is 1-based per
// (side, role).
type SlotDescriptor struct {
	Role  Role `json:"role"`
	Side  Side `json:"side"`
	Index int  `json:"index"`
}

// SlotID returns the identity a slot built from d has inside an event, e.g. "a-def-2".
func (d SlotDescriptor) SlotID() string {
	return fmt.Sprintf("%s-%s-%d", strings.ToLower(string(d.Side)), d.Role.Code(), d.Index)
}

// FieldTemplate is the fixed roster for one field type.
// swagger:model FieldTemplate
type FieldTemplate struct {
	FieldType FieldType        `json:"field_type"`
	Capacity  int              `json:"capacity"`
	Slots     []SlotDescriptor `json:"slots"`
}

// MarshalJSON adds the slot ids so clients can address slots without
// recomputing them.
func (t FieldTemplate) MarshalJSON() ([]byte, error) {
	type slot struct {
		ID string `json:"id"`
		SlotDescriptor
	}
	slots := make([]slot, len(t.Slots))
	for i, d := range t.Slots {
		slots[i] = slot{ID: d.SlotID(), SlotDescriptor: d}
	}
	return json.Marshal(struct {
		FieldType FieldType `json:"field_type"`
		Capacity  int       `json:"capacity"`
		Slots     []slot    `json:"slots"`
	}{t.FieldType, t.Capacity, slots})
}

// lineup is the per-side count of each role.
type lineup struct {
	goalkeepers, defenders, midfielders, forwards int
}

var lineups = map[FieldType]lineup{
	FieldTypeFutbol5:  {1, 2, 1, 1},
	FieldTypeFutbol7:  {1, 2, 3, 1},
	FieldTypeFutbol11: {1, 4, 4, 2},
}

var templates = buildTemplates()

func buildTemplates() map[FieldType]FieldTemplate {
	out := make(map[FieldType]FieldTemplate, len(lineups))
	for ft, l := range lineups {
		var slots []SlotDescriptor
		for _, side := range []Side{SideA, SideB} {
			for _, rc := range []struct {
				role  Role
				count int
			}{
				{RoleGoalkeeper, l.goalkeepers},
				{RoleDefender, l.defenders},
				{RoleMidfielder, l.midfielders},
				{RoleForward, l.forwards},
			} {
				for i := 1; i <= rc.count; i++ {
					slots = append(slots, SlotDescriptor{Role: rc.role, Side: side, Index: i})
				}
			}
		}
		out[ft] = FieldTemplate{FieldType: ft, Capacity: len(slots), Slots: slots}
	}
	return out
}

// Template returns the roster template for ft. The result is a copy and may be
// modified by the caller.
func Template(ft FieldType) (FieldTemplate, error) {
	t, ok := templates[ft]
	if !ok {
		return FieldTemplate{}, NewValidationError("unsupported field type %s", ft)
	}
	slots := make([]SlotDescriptor, len(t.Slots))
	copy(slots, t.Slots)
	t.Slots = slots
	return t, nil
}

// RosterCatalog exposes Template behind an interface so services can be handed
// a catalog instead of calling the package function.
type RosterCatalog interface {
	Template(ft FieldType) (FieldTemplate, error)
}

type staticCatalog struct{}

// StaticRosterCatalog returns the catalog of built-in templates.
func StaticRosterCatalog() RosterCatalog { return staticCatalog{} }

func (staticCatalog) Template(ft FieldType) (FieldTemplate, error) { return Template(ft) }
