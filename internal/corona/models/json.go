package models

import (
	"encoding/json"
)

// MarshalJSON encodes the snapshot form.
func (c *Corona) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}

// UnmarshalJSON decodes data and assigns every field through its rule. On any
// failure the receiver keeps its previous state.
func (c *Corona) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	built, err := New(s)
	if err != nil {
		return err
	}
	*c = *built
	return nil
}
