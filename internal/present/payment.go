package present

import "fmt"

// Payment method codes as stored in fCashAccountTypeCode.
const (
	PaymentCash       = "ΜΕΤ"
	PaymentCreditCard = "ΠΚΑ"
)

type paymentMethod struct {
	display string
	icon    string
}

var paymentMethods = map[string]paymentMethod{
	PaymentCash:       {display: "Cash Payment", icon: "fa-money-bill-1-wave"},
	PaymentCreditCard: {display: "Credit Card", icon: "fa-credit-card"},
}

const unknownPaymentIcon = "fa-circle-question"

// payment maps the payment code to its label and icon. The authorization id
// only applies to card payments.
func (b *builder) payment() *Payment {
	code := b.text("fCashAccountTypeCode")
	if code == "" {
		return nil
	}
	b.use("fCashAccountTypeCode")

	p := &Payment{
		Code:    code,
		Display: fmt.Sprintf(unknownPaymentFmt, code),
		Icon:    unknownPaymentIcon,
	}
	if m, ok := paymentMethods[code]; ok {
		p.Display = m.display
		p.Icon = m.icon
	}
	if code == PaymentCreditCard {
		p.AuthID = b.text("AuthorizationID")
		if p.AuthID != "" {
			b.use("AuthorizationID")
		}
	}
	return p
}
