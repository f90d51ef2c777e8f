package db

import (
	"testing"

	"fintrack-server/src/models"

	"github.com/stretchr/testify/assert"
)

func linkedRow(id int64, txType string) models.Transaction {
	return models.Transaction{ID: id, Type: txType}
}

func TestPlanTransferSync(t *testing.T) {
	tests := []struct {
		name        string
		linked      []models.Transaction
		wantExpense *int64
		wantIncome  *int64
		wantPrune   []int64
	}{
		{
			name: "healthy pair maps one row to each side",
			linked: []models.Transaction{
				linkedRow(10, models.TransactionExpense),
				linkedRow(11, models.TransactionIncome),
			},
			wantExpense: id(10),
			wantIncome:  id(11),
		},
		{
			name: "missing income side flags a recreate",
			linked: []models.Transaction{
				linkedRow(10, models.TransactionExpense),
			},
			wantExpense: id(10),
			wantIncome:  nil,
		},
		{
			name: "missing expense side flags a recreate",
			linked: []models.Transaction{
				linkedRow(11, models.TransactionIncome),
			},
			wantExpense: nil,
			wantIncome:  id(11),
		},
		{
			name:        "no linked rows at all",
			linked:      nil,
			wantExpense: nil,
			wantIncome:  nil,
		},
		{
			name: "duplicate rows keep the oldest and prune the rest",
			linked: []models.Transaction{
				linkedRow(10, models.TransactionExpense),
				linkedRow(11, models.TransactionIncome),
				linkedRow(12, models.TransactionExpense),
				linkedRow(13, models.TransactionIncome),
			},
			wantExpense: id(10),
			wantIncome:  id(11),
			wantPrune:   []int64{12, 13},
		},
		{
			name: "all rows one type keeps one and prunes the rest",
			linked: []models.Transaction{
				linkedRow(20, models.TransactionExpense),
				linkedRow(21, models.TransactionExpense),
				linkedRow(22, models.TransactionExpense),
			},
			wantExpense: id(20),
			wantIncome:  nil,
			wantPrune:   []int64{21, 22},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planTransferSync(tt.linked)
			assert.Equal(t, tt.wantExpense, plan.expenseID)
			assert.Equal(t, tt.wantIncome, plan.incomeID)
			assert.Equal(t, tt.wantPrune, plan.prune)
		})
	}
}

func id(v int64) *int64 { return &v }
