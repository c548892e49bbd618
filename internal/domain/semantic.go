package domain

import "strings"

// SemanticType identifies what a design element means to the personalization
// pass. The standard values form a closed set; anything else is treated as a
// custom token (e.g. "custom-rectangle-2", "decorative-image-1") and is never
// substituted by the resolver.
type SemanticType string

// Standard semantic types.
const (
	TypeNone             SemanticType = ""
	TypeLogo             SemanticType = "logo"
	TypeMessage          SemanticType = "message"
	TypeQRCode           SemanticType = "qrCode"
	TypeRecipientName    SemanticType = "recipientName"
	TypeRecipientAddress SemanticType = "recipientAddress"
	TypePhoneNumber      SemanticType = "phoneNumber"
	TypeBackgroundImage  SemanticType = "backgroundImage"
)

// standardTypes is the closed set the resolver dispatches on.
var standardTypes = map[SemanticType]bool{
	TypeLogo:             true,
	TypeMessage:          true,
	TypeQRCode:           true,
	TypeRecipientName:    true,
	TypeRecipientAddress: true,
	TypePhoneNumber:      true,
	TypeBackgroundImage:  true,
}

// IsStandard reports whether t is one of the fixed semantic types.
func (t SemanticType) IsStandard() bool {
	return standardTypes[t]
}

// IsCustom reports whether t is a non-empty token outside the standard set.
// Custom tokens are forward-compatible: unknown values are carried through
// serialization untouched and skipped during personalization.
func (t SemanticType) IsCustom() bool {
	return t != TypeNone && !standardTypes[t]
}

// DefaultDisplayName returns the layer-list label for a semantic type.
// Custom tokens are prettified ("custom-rectangle-2" -> "Custom Rectangle 2");
// the label for standard types is fixed and not user-editable.
func (t SemanticType) DefaultDisplayName() string {
	switch t {
	case TypeLogo:
		return "Logo"
	case TypeMessage:
		return "Message"
	case TypeQRCode:
		return "QR Code"
	case TypeRecipientName:
		return "Recipient Name"
	case TypeRecipientAddress:
		return "Recipient Address"
	case TypePhoneNumber:
		return "Phone Number"
	case TypeBackgroundImage:
		return "Background"
	case TypeNone:
		return ""
	default:
		words := strings.Split(string(t), "-")
		for i, w := range words {
			if w == "" {
				continue
			}
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(words, " ")
	}
}
