package db

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{
		"date":   "date",
		"amount": "amount",
		"name":   "c.name",
	}

	tests := []struct {
		name  string
		param string
		want  string
	}{
		{name: "empty falls back to default", param: "", want: "date DESC"},
		{name: "ascending", param: "amount", want: "amount ASC"},
		{name: "descending", param: "-amount", want: "amount DESC"},
		{name: "qualified column", param: "name", want: "c.name ASC"},
		{name: "unknown column falls back", param: "secret", want: "date DESC"},
		{name: "injection attempt falls back", param: "date; DROP TABLE users", want: "date DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderClause(tt.param, allowed, "date DESC"))
		})
	}
}

func TestGoalPercentFunded(t *testing.T) {
	assert.InDelta(t, 40.0, goalPercentFunded(dec("400"), dec("1000")), 0.0001)
	assert.InDelta(t, 0.0, goalPercentFunded(dec("400"), dec("0")), 0.0001)
	assert.InDelta(t, 150.0, goalPercentFunded(dec("150"), dec("100")), 0.0001)
}
