package otp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Code is a one-time code as submitted by a client. Clients that treat the
// code as a number may send it unquoted, so a JSON number decodes to its
// literal digits.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("otp: code must be a string or a number: %w", err)
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string { return string(c) }
