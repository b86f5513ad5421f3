// Package utils provides utility functions for the churn retention engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"churn-retention-engine/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns are the customer fields every batch file must carry.
var RequiredColumns = []string{
	"gender", "age", "married", "number_of_dependents", "number_of_referrals",
	"tenure_in_months", "contract", "offer", "paperless_billing", "payment_method",
	"phone_service", "multiple_lines", "avg_monthly_long_distance_charges",
	"internet_service", "internet_type", "avg_monthly_gb_download",
	"online_security", "online_backup", "device_protection_plan",
	"premium_tech_support", "streaming_tv", "streaming_movies",
	"streaming_music", "unlimited_data", "monthly_charge", "total_refunds",
	"total_extra_data_charges", "total_long_distance_charges", "total_revenue",
}

// ColumnAliases maps common export header variants to canonical names.
var ColumnAliases = map[string]string{
	"tenure":                    "tenure_in_months",
	"tenure_months":             "tenure_in_months",
	"monthly_charges":           "monthly_charge",
	"monthlycharge":             "monthly_charge",
	"total_revenues":            "total_revenue",
	"totalrevenue":              "total_revenue",
	"dependents":                "number_of_dependents",
	"num_dependents":            "number_of_dependents",
	"referrals":                 "number_of_referrals",
	"num_referrals":             "number_of_referrals",
	"contract_type":             "contract",
	"payment":                   "payment_method",
	"paymentmethod":             "payment_method",
	"internet":                  "internet_service",
	"avg_monthly_gb":            "avg_monthly_gb_download",
	"long_distance_charges":     "total_long_distance_charges",
	"avg_long_distance_charges": "avg_monthly_long_distance_charges",
	"tech_support":              "premium_tech_support",
	"device_protection":         "device_protection_plan",
	"extra_data_charges":        "total_extra_data_charges",
	"refunds":                   "total_refunds",
}

// RowError ties a parse failure to its 1-based data row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// CSVParser parses customer batch files.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{columnMapping: make(map[string]int)}
}

// ParseCustomers parses CSV content into customer records. Rows that fail
// coercion or validation are reported individually; good rows still parse.
func (p *CSVParser) ParseCustomers(content string) ([]*models.CustomerRecord, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.mapColumns(header); err != nil {
		return nil, []error{err}
	}

	var records []*models.CustomerRecord
	var rowErrors []error
	row := 0

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			rowErrors = append(rowErrors, &RowError{Row: row, Err: err})
			continue
		}

		rec, err := p.parseRow(fields)
		if err != nil {
			rowErrors = append(rowErrors, &RowError{Row: row, Err: err})
			continue
		}
		records = append(records, rec)
	}

	if row == 0 {
		return nil, []error{ErrNoDataRows}
	}

	return records, rowErrors
}

// mapColumns resolves the header into column positions, applying aliases.
func (p *CSVParser) mapColumns(header []string) error {
	p.columnMapping = make(map[string]int, len(header))

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, "-", "_")
		if canonical, ok := ColumnAliases[name]; ok {
			name = canonical
		}
		p.columnMapping[name] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := p.columnMapping[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow coerces one data row into a customer record. Coercion failures
// come back as field-level ValidationErrors, never silent defaults.
func (p *CSVParser) parseRow(fields []string) (*models.CustomerRecord, error) {
	verr := &models.ValidationError{}

	text := func(col string) string {
		idx := p.columnMapping[col]
		if idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}
	intField := func(col string) int {
		raw := text(col)
		v, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(col, fmt.Sprintf("%q is not a whole number", raw))
			return 0
		}
		return v
	}
	floatField := func(col string) float64 {
		raw := strings.ReplaceAll(text(col), "$", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			verr.Add(col, fmt.Sprintf("%q is not a number", raw))
			return 0
		}
		return v
	}

	rec := &models.CustomerRecord{
		Gender:                        text("gender"),
		Age:                           intField("age"),
		Married:                       text("married"),
		NumberOfDependents:            intField("number_of_dependents"),
		NumberOfReferrals:             intField("number_of_referrals"),
		TenureInMonths:                intField("tenure_in_months"),
		Contract:                      text("contract"),
		Offer:                         text("offer"),
		PaperlessBilling:              text("paperless_billing"),
		PaymentMethod:                 text("payment_method"),
		PhoneService:                  text("phone_service"),
		MultipleLines:                 text("multiple_lines"),
		AvgMonthlyLongDistanceCharges: floatField("avg_monthly_long_distance_charges"),
		InternetService:               text("internet_service"),
		InternetType:                  text("internet_type"),
		AvgMonthlyGBDownload:          floatField("avg_monthly_gb_download"),
		OnlineSecurity:                text("online_security"),
		OnlineBackup:                  text("online_backup"),
		DeviceProtectionPlan:          text("device_protection_plan"),
		PremiumTechSupport:            text("premium_tech_support"),
		StreamingTV:                   text("streaming_tv"),
		StreamingMovies:               text("streaming_movies"),
		StreamingMusic:                text("streaming_music"),
		UnlimitedData:                 text("unlimited_data"),
		MonthlyCharge:                 floatField("monthly_charge"),
		TotalRefunds:                  floatField("total_refunds"),
		TotalExtraDataCharges:         floatField("total_extra_data_charges"),
		TotalLongDistanceCharges:      floatField("total_long_distance_charges"),
		TotalRevenue:                  floatField("total_revenue"),
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if err := models.ValidateCustomerRecord(rec); err != nil {
		return nil, err
	}

	return rec, nil
}
