package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Envelope is the uniform wrapper the service puts around every response.
type Envelope struct {
	Success   bool            `json:"success"`
	Code      Code            `json:"code"`
	Message   string          `json:"msg"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the data payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	if err := sonic.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

// Code is the service result code. The wire value may be a JSON number or a
// string; both are kept in their textual form.
type Code string

// UnmarshalJSON implements json.Unmarshaler for Code.
func (c *Code) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*c = Code(unquoted)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid code %s", s)
	}
	*c = Code(s)
	return nil
}

// MarshalJSON implements json.Marshaler for Code.
// Numeric codes are written back as numbers.
func (c Code) MarshalJSON() ([]byte, error) {
	if c == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(c), 10, 64); err == nil {
		return []byte(c), nil
	}
	return []byte(strconv.Quote(string(c))), nil
}

// String returns the textual code.
func (c Code) String() string {
	return string(c)
}

// Int returns the code as an integer when it is numeric.
func (c Code) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(c), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
