package funding

import (
	"time"

	"elon_broker/internal/models"
)

// withdrawalMethods - каталог способов вывода средств
var withdrawalMethods = []models.WithdrawalMethod{
	{
		ID:             "bank_transfer",
		Name:           "Bank Transfer",
		Type:           "bank",
		ProcessingTime: "3-5 business days",
		MinAmount:      100,
		MaxAmount:      50000,
		Fees:           models.MethodFees{Percentage: 0, Fixed: 25},
		Requirements:   []string{"Bank account verification", "KYC completion"},
		Fields: []models.MethodField{
			{Name: "accountName", Label: "Account Holder Name", Type: "text", Required: true},
			{Name: "accountNumber", Label: "Account Number", Type: "text", Required: true},
			{Name: "bankName", Label: "Bank Name", Type: "text", Required: true},
			{Name: "routingNumber", Label: "Routing Number", Type: "text", Required: true},
			{Name: "accountType", Label: "Account Type", Type: "select", Required: true, Options: []string{"Checking", "Savings"}},
		},
		ProcessingDuration: 72 * time.Hour,
	},
	{
		ID:             "wire_transfer",
		Name:           "Wire Transfer",
		Type:           "wire",
		ProcessingTime: "1-3 business days",
		MinAmount:      1000,
		MaxAmount:      1000000,
		Fees:           models.MethodFees{Percentage: 0, Fixed: 35},
		Requirements:   []string{"Bank account verification", "KYC completion", "Enhanced verification"},
		Fields: []models.MethodField{
			{Name: "accountName", Label: "Account Holder Name", Type: "text", Required: true},
			{Name: "accountNumber", Label: "Account Number", Type: "text", Required: true},
			{Name: "bankName", Label: "Bank Name", Type: "text", Required: true},
			{Name: "swiftCode", Label: "SWIFT Code", Type: "text", Required: true},
			{Name: "bankAddress", Label: "Bank Address", Type: "text", Required: true},
		},
		ProcessingDuration: 24 * time.Hour,
	},
	{
		ID:             "crypto",
		Name:           "Cryptocurrency",
		Type:           "crypto",
		ProcessingTime: "30 minutes - 2 hours",
		MinAmount:      25,
		MaxAmount:      100000,
		Fees:           models.MethodFees{Percentage: 1, Fixed: 0},
		Requirements:   []string{"Wallet address verification"},
		Fields: []models.MethodField{
			{Name: "address", Label: "Wallet Address", Type: "text", Required: true},
			{Name: "coin", Label: "Cryptocurrency", Type: "select", Required: true, Options: []string{"BTC", "ETH", "USDT", "USDC"}},
			{Name: "network", Label: "Network", Type: "select", Required: true, Options: []string{"Bitcoin", "Ethereum", "Tron", "BSC"}},
		},
		ProcessingDuration: 2 * time.Hour,
	},
	{
		ID:             "paypal",
		Name:           "PayPal",
		Type:           "digital",
		ProcessingTime: "1-2 business days",
		MinAmount:      50,
		MaxAmount:      10000,
		Fees:           models.MethodFees{Percentage: 2.5, Fixed: 0},
		Requirements:   []string{"PayPal account verification"},
		Fields: []models.MethodField{
			{Name: "email", Label: "PayPal Email", Type: "email", Required: true},
			{Name: "fullName", Label: "Full Name (as on PayPal)", Type: "text", Required: true},
		},
		ProcessingDuration: 24 * time.Hour,
	},
}

// paymentMethods - каталог способов пополнения
var paymentMethods = []models.PaymentMethod{
	{
		ID:             "bank_transfer",
		Name:           "Bank Transfer",
		Type:           "bank",
		ProcessingTime: "1-3 business days",
		MinAmount:      100,
		MaxAmount:      50000,
		Fees:           models.MethodFees{Percentage: 0, Fixed: 0},
		Details: map[string]any{
			"bankName":      "Elon Investment Bank",
			"accountName":   "Elon Investment Broker Ltd",
			"accountNumber": "1234567890",
			"routingNumber": "123456789",
			"swiftCode":     "EIBKUS33",
			"instructions":  "Please include your username in the transfer reference",
		},
	},
	{
		ID:             "credit_card",
		Name:           "Credit/Debit Card",
		Type:           "card",
		ProcessingTime: "1-10 minutes",
		MinAmount:      50,
		MaxAmount:      10000,
		Fees:           models.MethodFees{Percentage: 3.5, Fixed: 0},
		Details: map[string]any{
			"supportedCards": []string{"Visa", "Mastercard", "American Express"},
			"instructions":   "Card deposits are processed instantly",
		},
	},
	{
		ID:             "crypto",
		Name:           "Cryptocurrency",
		Type:           "crypto",
		ProcessingTime: "15-60 minutes",
		MinAmount:      25,
		MaxAmount:      100000,
		Fees:           models.MethodFees{Percentage: 1, Fixed: 0},
		Details: map[string]any{
			"supportedCoins": []string{"BTC", "ETH", "USDT", "USDC"},
			"btcAddress":     "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			"ethAddress":     "0x742d35Cc6634C0532925a3b8D0FeC7dc2d1BB2A3",
			"usdtAddress":    "0x742d35Cc6634C0532925a3b8D0FeC7dc2d1BB2A3",
			"instructions":   "Send exact amount to the address above and upload transaction proof",
		},
	},
	{
		ID:             "wire_transfer",
		Name:           "Wire Transfer",
		Type:           "wire",
		ProcessingTime: "1-5 business days",
		MinAmount:      1000,
		MaxAmount:      1000000,
		Fees:           models.MethodFees{Percentage: 0, Fixed: 25},
		Details: map[string]any{
			"bankName":      "Elon Investment Bank",
			"accountName":   "Elon Investment Broker Ltd",
			"accountNumber": "1234567890",
			"routingNumber": "123456789",
			"swiftCode":     "EIBKUS33",
			"instructions":  "Please include your account ID in the wire reference",
		},
	},
}

// WithdrawalMethods возвращает каталог способов вывода
func WithdrawalMethods() []models.WithdrawalMethod {
	return withdrawalMethods
}

// PaymentMethods возвращает каталог способов пополнения
func PaymentMethods() []models.PaymentMethod {
	return paymentMethods
}

func findWithdrawalMethod(id string) (models.WithdrawalMethod, bool) {
	for _, m := range withdrawalMethods {
		if m.ID == id {
			return m, true
		}
	}
	return models.WithdrawalMethod{}, false
}

func findPaymentMethod(id string) (models.PaymentMethod, bool) {
	for _, m := range paymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return models.PaymentMethod{}, false
}

// calcFees вычисляет комиссию: процент от суммы плюс фиксированная часть
func calcFees(amount float64, mf models.MethodFees) models.Fees {
	return models.Fees{
		Percentage: mf.Percentage,
		Fixed:      mf.Fixed,
		Total:      amount*mf.Percentage/100 + mf.Fixed,
	}
}
