package order

import "encoding/json"

// Optional is a JSON field that distinguishes three states: absent from
// the payload, explicitly null, and set to a value. Plain pointers
// cannot represent the first two separately, which the update contract
// requires: an omitted field must not touch the stored value, while an
// explicit null clears it.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is invoked only for fields present in the payload, so
// Set records presence. A JSON null leaves Valid false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
