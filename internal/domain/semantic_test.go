package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticType_Classification(t *testing.T) {
	tests := []struct {
		name     string
		st       SemanticType
		standard bool
		custom   bool
	}{
		{"logo", TypeLogo, true, false},
		{"message", TypeMessage, true, false},
		{"qr code", TypeQRCode, true, false},
		{"background", TypeBackgroundImage, true, false},
		{"custom rectangle", SemanticType("custom-rectangle-3"), false, true},
		{"decorative image", SemanticType("decorative-image-1"), false, true},
		{"empty", TypeNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.standard, tt.st.IsStandard())
			assert.Equal(t, tt.custom, tt.st.IsCustom())
		})
	}
}

func TestSemanticType_DefaultDisplayName(t *testing.T) {
	assert.Equal(t, "QR Code", TypeQRCode.DefaultDisplayName())
	assert.Equal(t, "Recipient Name", TypeRecipientName.DefaultDisplayName())
	assert.Equal(t, "Custom Rectangle 3", SemanticType("custom-rectangle-3").DefaultDisplayName())
	assert.Equal(t, "", TypeNone.DefaultDisplayName())
}
