package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAWBLabelPDF(t *testing.T) {
	pdf, err := GenerateAWBLabelPDF(LabelData{
		AWBNumber:     "2SDAY123456",
		OrderName:     "#1001",
		RecipientName: "Ana Pop",
		Street:        "Bulevardul Unirii 45",
		City:          "Bucuresti, Sector 3",
		County:        "Bucuresti",
		Zip:           "030823",
		Phone:         "0712345678",
		SenderName:    "Prime Supplements SRL",
		SenderCity:    "Bucuresti",
		WeightKg:      2.4,
		CODAmount:     150.00,
		Currency:      "RON",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateAWBLabelPDFWithoutCOD(t *testing.T) {
	pdf, err := GenerateAWBLabelPDF(LabelData{
		AWBNumber:     "2SDAY654321",
		OrderName:     "#1002",
		RecipientName: "Ion Ionescu",
		Street:        "Strada Memorandumului 28",
		City:          "Cluj-Napoca",
		County:        "Cluj",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestGenerateAWBLabelPDFRequiresAWB(t *testing.T) {
	_, err := GenerateAWBLabelPDF(LabelData{OrderName: "#1003"})
	assert.Error(t, err)
}
