package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-retention-engine/internal/models"
)

var testHeader = strings.Join(RequiredColumns, ",")

func testRow(overrides map[string]string) string {
	values := map[string]string{
		"gender":                            "Female",
		"age":                               "42",
		"married":                           "Yes",
		"number_of_dependents":              "1",
		"number_of_referrals":               "2",
		"tenure_in_months":                  "24",
		"contract":                          "Month-to-Month",
		"offer":                             "None",
		"paperless_billing":                 "Yes",
		"payment_method":                    "Credit Card",
		"phone_service":                     "Yes",
		"multiple_lines":                    "No",
		"avg_monthly_long_distance_charges": "12.5",
		"internet_service":                  "Yes",
		"internet_type":                     "Fiber Optic",
		"avg_monthly_gb_download":           "25",
		"online_security":                   "No",
		"online_backup":                     "No",
		"device_protection_plan":            "No",
		"premium_tech_support":              "No",
		"streaming_tv":                      "Yes",
		"streaming_movies":                  "Yes",
		"streaming_music":                   "No",
		"unlimited_data":                    "Yes",
		"monthly_charge":                    "70.00",
		"total_refunds":                     "0",
		"total_extra_data_charges":          "0",
		"total_long_distance_charges":       "300",
		"total_revenue":                     "1680",
	}
	for k, v := range overrides {
		values[k] = v
	}

	fields := make([]string, len(RequiredColumns))
	for i, col := range RequiredColumns {
		fields[i] = values[col]
	}
	return strings.Join(fields, ",")
}

func TestParseCustomers_ParsesValidRows(t *testing.T) {
	parser := NewCSVParser()
	content := testHeader + "\n" + testRow(nil) + "\n" + testRow(map[string]string{
		"tenure_in_months": "3",
		"total_revenue":    "210",
	})

	records, errs := parser.ParseCustomers(content)

	assert.Empty(t, errs)
	require.Len(t, records, 2)
	assert.Equal(t, 24, records[0].TenureInMonths)
	assert.Equal(t, 70.0, records[0].MonthlyCharge)
	assert.Equal(t, "Female", records[0].Gender)
	assert.Equal(t, 3, records[1].TenureInMonths)
	assert.Equal(t, 210.0, records[1].TotalRevenue)
}

func TestParseCustomers_EmptyContent(t *testing.T) {
	parser := NewCSVParser()

	_, errs := parser.ParseCustomers("   \n  ")

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrEmptyCSV)
}

func TestParseCustomers_HeaderOnly(t *testing.T) {
	parser := NewCSVParser()

	_, errs := parser.ParseCustomers(testHeader + "\n")

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNoDataRows)
}

func TestParseCustomers_MissingColumnsAreNamed(t *testing.T) {
	parser := NewCSVParser()
	content := "gender,age\nFemale,42\n"

	_, errs := parser.ParseCustomers(content)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingColumns)
	assert.Contains(t, errs[0].Error(), "tenure_in_months")
}

func TestParseCustomers_ResolvesHeaderAliases(t *testing.T) {
	parser := NewCSVParser()

	header := testHeader
	header = strings.Replace(header, "tenure_in_months", "Tenure", 1)
	header = strings.Replace(header, "monthly_charge", "Monthly Charges", 1)
	header = strings.Replace(header, "payment_method", "Payment-Method", 1)

	records, errs := parser.ParseCustomers(header + "\n" + testRow(nil))

	assert.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, 24, records[0].TenureInMonths)
	assert.Equal(t, 70.0, records[0].MonthlyCharge)
	assert.Equal(t, "Credit Card", records[0].PaymentMethod)
}

func TestParseCustomers_StripsDollarSigns(t *testing.T) {
	parser := NewCSVParser()
	content := testHeader + "\n" + testRow(map[string]string{
		"monthly_charge": "$70.00",
		"total_revenue":  "$1680",
	})

	records, errs := parser.ParseCustomers(content)

	assert.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, 70.0, records[0].MonthlyCharge)
	assert.Equal(t, 1680.0, records[0].TotalRevenue)
}

func TestParseCustomers_BadRowsAreReportedAndSkipped(t *testing.T) {
	parser := NewCSVParser()
	content := testHeader + "\n" +
		testRow(nil) + "\n" +
		testRow(map[string]string{"age": "forty"}) + "\n" +
		testRow(map[string]string{"tenure_in_months": "3", "total_revenue": "210"})

	records, errs := parser.ParseCustomers(content)

	require.Len(t, records, 2)
	require.Len(t, errs, 1)

	var rowErr *RowError
	require.True(t, errors.As(errs[0], &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Contains(t, rowErr.Error(), "forty")
}

func TestParseCustomers_RowValidationFailuresSurface(t *testing.T) {
	parser := NewCSVParser()
	content := testHeader + "\n" + testRow(map[string]string{"contract": "lifetime"})

	records, errs := parser.ParseCustomers(content)

	assert.Empty(t, records)
	require.Len(t, errs, 1)

	var verr *models.ValidationError
	require.True(t, errors.As(errs[0], &verr))
	assert.Equal(t, "contract", verr.Fields[0].Field)
}
