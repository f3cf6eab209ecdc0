package identity

import (
	"encoding/json"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/session"
)

var validate, _ = core.NewValidator()

// School is the school a dashboard user belongs to, as cached in the Session Record.
type School struct {
	ID   string `json:"_id" validate:"required"`
	Name string `json:"name,omitempty"`
}

func (s School) Validate() error { return validate.Struct(s) }

// Record is the Session Record written at login under the "user" key.
// Only the fields read here are typed; the rest of the record is ignored.
type Record struct {
	SchoolID json.RawMessage `json:"schoolId"`
}

// School decodes the nested school of the record.
// It reports false if it is absent or does not have the expected shape.
func (r Record) School() (School, bool) {
	var s School
	if len(r.SchoolID) == 0 {
		return s, false
	}
	if err := json.Unmarshal(r.SchoolID, &s); err != nil {
		return s, false
	}
	if err := s.Validate(); err != nil {
		return s, false
	}
	return s, true
}

// SchoolIDOf extracts schoolId._id from a Session Record payload.
func SchoolIDOf(p session.Payload) (string, bool) {
	var rec Record
	if err := p.Decode(&rec); err != nil {
		return "", false
	}
	school, ok := rec.School()
	if !ok {
		return "", false
	}
	return school.ID, true
}
