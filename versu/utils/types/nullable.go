package types

import (
	"bytes"
	"encoding/json"
)

// NullableString tells an absent JSON field (Set false) apart from an explicit null
// (Set true, Value nil).
type NullableString struct {
	Set   bool
	Value *string
}

func NewNullableString(s string) NullableString {
	return NullableString{Set: true, Value: &s}
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
