package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    money.Amount
		wantErr bool
	}{
		{name: "negative", input: "-85.42", want: -8542},
		{name: "integer", input: "2000", want: 200000},
		{name: "rounds half away from zero", input: "0.125", want: 13},
		{name: "whitespace", input: " 414.58 ", want: 41458},
		{name: "garbage", input: "12,50", wantErr: true},
		{name: "at the limit", input: "10000000000000", want: money.Max},
		{name: "negative limit", input: "-10000000000000", want: -money.Max},
		{name: "beyond the limit", input: "10000000000000.01", wantErr: true},
		{name: "beyond int64", input: "100000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEuropean(t *testing.T) {
	tests := []struct {
		input string
		want  money.Amount
	}{
		{input: "1.234,56", want: 123456},
		{input: "-588,74", want: -58874},
		{input: "10,00", want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := money.ParseEuropean(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEuropean_OutOfRange(t *testing.T) {
	_, err := money.ParseEuropean("-100.000.000.000.000.000,00")
	assert.ErrorIs(t, err, money.ErrOutOfRange)
}

func TestFromDecimal(t *testing.T) {
	got, err := money.FromDecimal(decimal.RequireFromString("-0.005"))
	require.NoError(t, err)
	assert.Equal(t, money.Amount(-1), got)

	_, err = money.FromDecimal(decimal.New(1, 20))
	assert.ErrorIs(t, err, money.ErrOutOfRange)
}

func TestAmount_InRange(t *testing.T) {
	assert.True(t, money.Max.InRange())
	assert.True(t, (-money.Max).InRange())
	assert.False(t, (money.Max + 1).InRange())
	assert.False(t, (-money.Max - 1).InRange())
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "414.58", money.Amount(41458).String())
	assert.Equal(t, "-0.05", money.Amount(-5).String())
	assert.Equal(t, "0.00", money.Amount(0).String())
}

func TestAmount_Percent(t *testing.T) {
	assert.Equal(t, 25.0, money.Amount(25).Percent(100))
	assert.Equal(t, 30.0, money.Amount(3000).Percent(10000))
	assert.Zero(t, money.Amount(25).Percent(0))
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Amount money.Amount `json:"amount"`
	}

	b, err := json.Marshal(payload{Amount: -8542})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":-85.42}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"455.00"}`), &p))
	assert.Equal(t, money.Amount(45500), p.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":12}`), &p))
	assert.Equal(t, money.Amount(1200), p.Amount)
}

func TestAmount_UnmarshalJSON_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "number beyond range", input: `1e20`},
		{name: "string beyond range", input: `"100000000000000000"`},
		{name: "leading quote only", input: `"12.50`},
		{name: "trailing quote only", input: `12.50"`},
		{name: "lone quote", input: `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a money.Amount
			assert.Error(t, a.UnmarshalJSON([]byte(tt.input)))
			assert.Zero(t, a)
		})
	}
}
