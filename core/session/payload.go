package session

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Payload is a serialized (JSON) session value. A nil Payload means "no value".
// The store does not know its shape: callers decode it into their own types.
type Payload []byte

var errNilPayload = errors.New("session: nil payload")

// Decode unmarshals the payload into v.
func (p Payload) Decode(v interface{}) error {
	if p == nil {
		return errNilPayload
	}
	return json.Unmarshal(p, v)
}

func (p Payload) String() string {
	if p == nil {
		return "null"
	}
	return string(p)
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("session: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[0:0], data...)
	return nil
}
