package utils

import (
	"errors"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
	rputils "github.com/razorpay/razorpay-go/utils"
)

var razorpayClient *razorpay.Client

// InitRazorpay builds the gateway client from the environment. Called once at
// startup; payment endpoints fail with an explicit error if keys are missing.
func InitRazorpay() error {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}
	razorpayClient = razorpay.NewClient(keyID, keySecret)
	return nil
}

func RazorpayKeyID() string {
	return os.Getenv("RAZORPAY_KEY_ID")
}

// CreateRazorpayOrder creates a gateway order and returns its id. Amount is in
// rupees; the gateway wants paise.
func CreateRazorpayOrder(amount float64, receipt string, notes map[string]interface{}) (string, error) {
	if razorpayClient == nil {
		return "", errors.New("razorpay client not initialized")
	}
	data := map[string]interface{}{
		"amount":          int64(amount * 100),
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if notes != nil {
		data["notes"] = notes
	}
	order, err := razorpayClient.Order.Create(data, nil)
	if err != nil {
		return "", err
	}
	orderID, ok := order["id"].(string)
	if !ok {
		return "", errors.New("gateway returned no order id")
	}
	return orderID, nil
}

// VerifyRazorpaySignature checks the (order, payment, signature) triple against
// the key secret. The gateway SDK is the trusted verifier; a tampered triple
// comes back false.
func VerifyRazorpaySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return rputils.VerifyPaymentSignature(params, signature, os.Getenv("RAZORPAY_KEY_SECRET"))
}
