package Controllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MatirBank/Services"
)

func TestValidateInput(t *testing.T) {
	qty := 0
	price := decimal.NewFromInt(-1)
	name := "Seeds"
	id := uint(1)

	err := validateInput(&requestInput{SupplierID: &id}, "SupplierID, UserID, ReqQty, EstCost are required")
	require.Error(t, err)
	assert.Equal(t, Services.KindValidation, Services.KindOf(err))
	assert.Equal(t, "SupplierID, UserID, ReqQty, EstCost are required", err.Error())

	zero := decimal.Zero
	err = validateInput(&requestInput{SupplierID: &id, UserID: &id, ReqQty: &qty, EstCost: &zero}, "required")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReqQty")

	err = validateInput(&masterOrderInput{SupplierID: &id, WholesalePrice: &price}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WholesalePrice")

	assert.NoError(t, validateInput(&supplierInput{Name: &name, MinOrderQty: &qty, Category: &name}, ""))
}

func TestParseDate(t *testing.T) {
	_, err := parseDate("Deadline", "2025-12-31")
	assert.NoError(t, err)

	_, err = parseDate("Deadline", "31/12/2025")
	assert.EqualError(t, err, "Invalid Deadline format. Use YYYY-MM-DD")
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]bool{"7": true, "": false, "0": false, "-3": false, "x": false} {
		_, ok := parseID(raw)
		assert.Equal(t, want, ok, raw)
	}
}
