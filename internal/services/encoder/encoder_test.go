package encoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-retention-engine/internal/models"
)

func testSpec() *EncodingSpec {
	return &EncodingSpec{
		FeatureNames: []string{
			"tenure_in_months", "monthly_charge", "contract", "offer",
			"internet_type_cable", "internet_type_dsl",
			"internet_type_fiber optic", "internet_type_none",
			"gender_female", "gender_male",
		},
		Ordinal: map[string]map[string]float64{
			"contract": {"month-to-month": 0, "one year": 1, "two year": 2},
			"offer":    {"none": 0, "offer a": 1, "offer b": 2, "offer c": 3, "offer d": 4, "offer e": 5},
		},
		OneHot: map[string][]string{
			"internet_type": {"cable", "dsl", "fiber optic", "none"},
			"gender":        {"female", "male"},
		},
	}
}

func testRecord() *models.CustomerRecord {
	return &models.CustomerRecord{
		Gender:                        "Female",
		Age:                           42,
		Married:                       "Yes",
		NumberOfDependents:            1,
		NumberOfReferrals:             2,
		TenureInMonths:                24,
		Contract:                      "One Year",
		Offer:                         "Offer B",
		PaperlessBilling:              "Yes",
		PaymentMethod:                 "Credit Card",
		PhoneService:                  "Yes",
		MultipleLines:                 "No",
		AvgMonthlyLongDistanceCharges: 12.5,
		InternetService:               "Yes",
		InternetType:                  "Fiber Optic",
		AvgMonthlyGBDownload:          25,
		OnlineSecurity:                "No",
		OnlineBackup:                  "No",
		DeviceProtectionPlan:          "No",
		PremiumTechSupport:            "No",
		StreamingTV:                   "Yes",
		StreamingMovies:               "Yes",
		StreamingMusic:                "No",
		UnlimitedData:                 "Yes",
		MonthlyCharge:                 70,
		TotalLongDistanceCharges:      300,
		TotalRevenue:                  1680,
	}
}

func TestEncode_ProducesFrozenColumnOrder(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	vec, warnings, err := enc.Encode(testRecord())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Equal(t, len(testSpec().FeatureNames), vec.Len())
	assert.Equal(t, testSpec().FeatureNames, vec.Names)

	expected := []float64{
		24, // tenure_in_months
		70, // monthly_charge
		1,  // contract: one year
		2,  // offer: offer b
		0, 0, 1, 0, // internet_type one-hot, fiber optic set
		1, 0, // gender one-hot, female set
	}
	assert.Equal(t, expected, vec.Values)
}

func TestEncode_NormalizesCasingAndWhitespace(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	rec := testRecord()
	rec.Contract = "  TWO YEAR "
	rec.InternetType = "FIBER OPTIC"

	vec, warnings, err := enc.Encode(rec)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	rank, _ := vec.Value("contract")
	assert.Equal(t, 2.0, rank)
	fiber, _ := vec.Value("internet_type_fiber optic")
	assert.Equal(t, 1.0, fiber)
}

func TestEncode_UnknownNominalLevelWarnsAndZeroFills(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	rec := testRecord()
	rec.InternetType = "Satellite"

	vec, warnings, err := enc.Encode(rec)
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "internet_type", warnings[0].Field)
	assert.Equal(t, "satellite", warnings[0].Value)

	for _, col := range []string{
		"internet_type_cable", "internet_type_dsl",
		"internet_type_fiber optic", "internet_type_none",
	} {
		v, err := vec.Value(col)
		require.NoError(t, err, col)
		assert.Equal(t, 0.0, v, col)
	}
}

func TestEncode_UnknownOrdinalFailsByDefault(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	rec := testRecord()
	rec.Contract = "lifetime"

	_, _, err = enc.Encode(rec)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "contract", verr.Fields[0].Field)
}

func TestEncode_LenientOrdinalsMapUnknownToZero(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)
	enc.LenientOrdinals = true

	rec := testRecord()
	rec.Contract = "lifetime"

	vec, _, err := enc.Encode(rec)
	require.NoError(t, err)

	rank, _ := vec.Value("contract")
	assert.Equal(t, 0.0, rank)
}

func TestEncode_RejectsNonFiniteNumerics(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	rec := testRecord()
	rec.MonthlyCharge = math.NaN()

	_, _, err = enc.Encode(rec)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "monthly_charge", verr.Fields[0].Field)
}

func TestEncode_AppliesStandardScaler(t *testing.T) {
	spec := testSpec()
	spec.Scaler = &ScalerParams{
		Columns: []string{"tenure_in_months", "monthly_charge"},
		Mean:    []float64{32, 65},
		Scale:   []float64{24, 30},
	}

	enc, err := NewEncoder(spec)
	require.NoError(t, err)

	vec, _, err := enc.Encode(testRecord())
	require.NoError(t, err)

	tenure, _ := vec.Value("tenure_in_months")
	assert.InDelta(t, (24.0-32)/24, tenure, 1e-9)
	charge, _ := vec.Value("monthly_charge")
	assert.InDelta(t, (70.0-65)/30, charge, 1e-9)

	// Unscaled columns pass through untouched.
	rank, _ := vec.Value("contract")
	assert.Equal(t, 1.0, rank)
}

func TestEncode_NilRecordFailsValidation(t *testing.T) {
	enc, err := NewEncoder(testSpec())
	require.NoError(t, err)

	_, _, err = enc.Encode(nil)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewEncoder_RejectsBrokenSpecs(t *testing.T) {
	t.Run("nil spec", func(t *testing.T) {
		_, err := NewEncoder(nil)
		assert.ErrorIs(t, err, models.ErrMissingArtifact)
	})

	t.Run("duplicate feature names", func(t *testing.T) {
		spec := testSpec()
		spec.FeatureNames = append(spec.FeatureNames, spec.FeatureNames[0])
		_, err := NewEncoder(spec)
		assert.Error(t, err)
	})

	t.Run("scaler length mismatch", func(t *testing.T) {
		spec := testSpec()
		spec.Scaler = &ScalerParams{Columns: []string{"tenure_in_months"}, Mean: []float64{1, 2}, Scale: []float64{1}}
		_, err := NewEncoder(spec)
		assert.Error(t, err)
	})

	t.Run("zero scale", func(t *testing.T) {
		spec := testSpec()
		spec.Scaler = &ScalerParams{Columns: []string{"tenure_in_months"}, Mean: []float64{0}, Scale: []float64{0}}
		_, err := NewEncoder(spec)
		assert.Error(t, err)
	})

	t.Run("scaler column not in features", func(t *testing.T) {
		spec := testSpec()
		spec.Scaler = &ScalerParams{Columns: []string{"missing"}, Mean: []float64{0}, Scale: []float64{1}}
		_, err := NewEncoder(spec)
		assert.Error(t, err)
	})
}

// productionSpec mirrors the shape of the shipped churn encoding: 11
// numeric columns, 2 ordinals and 43 one-hot columns.
func productionSpec() *EncodingSpec {
	yesNo := []string{"no", "yes"}
	phoneDependent := []string{"no", "no phone service", "yes"}
	internetDependent := []string{"no", "no internet service", "yes"}

	spec := &EncodingSpec{
		Ordinal: map[string]map[string]float64{
			"contract": {"month-to-month": 0, "one year": 1, "two year": 2},
			"offer":    {"none": 0, "offer a": 1, "offer b": 2, "offer c": 3, "offer d": 4, "offer e": 5},
		},
		OneHot: map[string][]string{
			"gender":                 {"female", "male"},
			"married":                yesNo,
			"phone_service":          yesNo,
			"internet_service":       yesNo,
			"unlimited_data":         yesNo,
			"paperless_billing":      yesNo,
			"multiple_lines":         phoneDependent,
			"online_security":        internetDependent,
			"online_backup":          internetDependent,
			"device_protection_plan": internetDependent,
			"premium_tech_support":   internetDependent,
			"streaming_tv":           internetDependent,
			"streaming_movies":       internetDependent,
			"streaming_music":        internetDependent,
			"internet_type":          {"cable", "dsl", "fiber optic", "none"},
			"payment_method":         {"bank withdrawal", "credit card", "mailed check"},
		},
	}

	spec.FeatureNames = append(spec.FeatureNames, models.NumericFieldNames...)
	spec.FeatureNames = append(spec.FeatureNames, "contract", "offer")
	for field, vocab := range spec.OneHot {
		for _, level := range vocab {
			spec.FeatureNames = append(spec.FeatureNames, OneHotColumn(field, level))
		}
	}
	return spec
}

func TestEncode_FullSchemaHasFiftySixColumns(t *testing.T) {
	spec := productionSpec()
	require.Len(t, spec.FeatureNames, 56)

	enc, err := NewEncoder(spec)
	require.NoError(t, err)

	rec := testRecord()
	rec.PaymentMethod = "Bank Withdrawal"

	vec, warnings, err := enc.Encode(rec)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 56, vec.Len())

	// Exactly one column set per nominal field.
	for field, vocab := range spec.OneHot {
		sum := 0.0
		for _, level := range vocab {
			v, err := vec.Value(OneHotColumn(field, level))
			require.NoError(t, err)
			sum += v
		}
		assert.Equal(t, 1.0, sum, "one-hot group %s", field)
	}
}
