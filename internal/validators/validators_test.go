package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDocument(t *testing.T) {
	assert.True(t, IsValidDocument("529.982.247-25"))
	assert.True(t, IsValidDocument("52998224725"))
	assert.False(t, IsValidDocument("529.982.247-24"))
	assert.False(t, IsValidDocument("111.111.111-11"))

	assert.True(t, IsValidDocument("11.222.333/0001-81"))
	assert.False(t, IsValidDocument("11.222.333/0001-80"))

	assert.False(t, IsValidDocument("123"))
}

func TestPlate(t *testing.T) {
	assert.Equal(t, "ABC1234", NormalizePlate(" abc-1234 "))
	assert.True(t, IsValidPlate("abc-1234"))
	assert.True(t, IsValidPlate("BRA2E19"))
	assert.False(t, IsValidPlate("AB12345"))
	assert.False(t, IsValidPlate("ABCD123"))
}

type vehicleInput struct {
	Plate    string `json:"plate" validate:"required,plate"`
	Document string `json:"document" validate:"omitempty,document"`
	Price    string `json:"price" validate:"omitempty,money"`
	Date     string `json:"date" validate:"omitempty,date"`
	Time     string `json:"time" validate:"omitempty,hhmm"`
}

func TestInstall_CustomTagsAndJSONNames(t *testing.T) {
	v := validator.New()
	Install(v)

	require.NoError(t, v.Struct(vehicleInput{Plate: "BRA2E19", Price: "10.50", Date: "2024-01-31", Time: "09:00"}))

	err := v.Struct(vehicleInput{Plate: "XX", Document: "1", Price: "1,5", Date: "2024-02-30", Time: "9h"})
	require.Error(t, err)

	fields := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"plate":    "plate",
		"document": "document",
		"price":    "money",
		"date":     "date",
		"time":     "hhmm",
	}, fields)
}
