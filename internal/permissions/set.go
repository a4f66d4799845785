package permissions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Set is the full module -> action -> bool grant table for one account.
// A missing module or action reads as false (deny-by-default), never as
// an error. Stored as a PostgreSQL JSONB column; encoding/json sorts map
// keys, so serialization is deterministic.
type Set map[Module]map[Action]bool

// Value implements driver.Valuer for JSONB storage.
func (s Set) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *Set) Scan(value interface{}) error {
	if value == nil {
		*s = make(Set)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("permissions: cannot scan %T into Set", value)
	}
	return json.Unmarshal(bytes, s)
}

// Read reports whether the set grants (module, action). It is total:
// an absent module, absent action, or a pair outside the taxonomy all
// read as false.
func (s Set) Read(m Module, a Action) bool {
	if s == nil || !IsValid(m, a) {
		return false
	}
	actions, ok := s[m]
	if !ok {
		return false
	}
	return actions[a]
}

// Grant sets (module, action) to the given value, creating the module
// entry if needed. Pairs outside the taxonomy are rejected.
func (s Set) Grant(m Module, a Action, granted bool) error {
	if err := Validate(m, a); err != nil {
		return err
	}
	if s[m] == nil {
		s[m] = make(map[Action]bool)
	}
	s[m][a] = granted
	return nil
}

// IsEmpty reports whether no (module, action) pair is granted.
func (s Set) IsEmpty() bool {
	for _, actions := range s {
		for _, granted := range actions {
			if granted {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for m, actions := range s {
		copied := make(map[Action]bool, len(actions))
		for a, granted := range actions {
			copied[a] = granted
		}
		out[m] = copied
	}
	return out
}

// Normalize returns a copy with every taxonomy module carrying entries for
// exactly its valid action set. Grants for pairs outside the taxonomy are
// dropped; missing pairs become explicit false entries.
func (s Set) Normalize() Set {
	out := EmptySet()
	for _, m := range Modules() {
		for _, a := range ActionsFor(m) {
			out[m][a] = s.Read(m, a)
		}
	}
	return out
}

// EmptySet returns a set with every module and every valid action set to false.
func EmptySet() Set {
	out := make(Set, len(moduleOrder))
	for _, m := range moduleOrder {
		actions := make(map[Action]bool)
		for _, a := range ActionsFor(m) {
			actions[a] = false
		}
		out[m] = actions
	}
	return out
}

// FullSet returns a set with every module and every valid action set to true.
func FullSet() Set {
	out := EmptySet()
	for _, actions := range out {
		for a := range actions {
			actions[a] = true
		}
	}
	return out
}
