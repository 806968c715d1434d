package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (UserDevice{}).TableName(); got != "user_devices" {
		t.Fatalf("unexpected UserDevice table name: %s", got)
	}
	if got := (InvestmentPlan{}).TableName(); got != "investment_plans" {
		t.Fatalf("unexpected InvestmentPlan table name: %s", got)
	}
}
