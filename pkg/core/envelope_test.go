package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Unmarshal(t *testing.T) {
	body := []byte(`{"success":true,"code":0,"msg":"ok","timestamp":1700000000000,"data":{"symbols":["btc_usdt"]}}`)

	var env Envelope
	require.NoError(t, sonic.Unmarshal(body, &env))

	assert.True(t, env.Success)
	assert.Equal(t, Code("0"), env.Code)
	assert.Equal(t, "ok", env.Message)
	assert.Equal(t, int64(1700000000000), env.Timestamp)

	var data struct {
		Symbols []string `json:"symbols"`
	}
	require.NoError(t, env.Decode(&data))
	assert.Equal(t, []string{"btc_usdt"}, data.Symbols)
}

func TestEnvelope_Decode_NoData(t *testing.T) {
	env := Envelope{Success: true}

	var v map[string]any
	assert.Error(t, env.Decode(&v))
}

func TestCode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Code
		wantErr bool
	}{
		{"number", `1003`, "1003", false},
		{"string", `"E_AUTH"`, "E_AUTH", false},
		{"null", `null`, "", false},
		{"garbage", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Code
			err := c.UnmarshalJSON([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCode_Int(t *testing.T) {
	n, ok := Code("1003").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1003), n)

	_, ok = Code("E_AUTH").Int()
	assert.False(t, ok)
}

func TestCode_MarshalJSON(t *testing.T) {
	out, err := Code("12").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "12", string(out))

	out, err = Code("E_AUTH").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"E_AUTH"`, string(out))
}
