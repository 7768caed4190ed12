package service

import (
	"testing"

	"passimpay-gateway/internal/core/ports"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "test-api-key"
	payload := "platform_id=7&order_id=100&amount=1.00"

	signature := svc.Sign(secretKey, payload)

	// Should be lowercase hex
	assert.Regexp(t, `^[0-9a-f]{64}$`, signature, "signature should be 64-char lowercase hex (SHA-256)")

	// Verify with correct key
	assert.True(t, svc.Verify(secretKey, payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongKey(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := "platform_id=7&order_id=100&amount=1.00"

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_VerifyFails_TamperedPayload(t *testing.T) {
	svc := NewHMACSignatureService()
	secretKey := "test-api-key"

	signature := svc.Sign(secretKey, "platform_id=7&order_id=100&amount=1.00")
	assert.False(t, svc.Verify(secretKey, "platform_id=7&order_id=100&amount=2.00", signature))
}

func TestHMACSignatureService_VerifyFails_EmptySignature(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.False(t, svc.Verify("key", "payload", ""))
}

func TestHMACSignatureService_DeterministicSign(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("key", "data")
	sig2 := svc.Sign("key", "data")

	assert.Equal(t, sig1, sig2, "same key+payload should produce same signature")
}

func TestHMACSignatureService_EncodeForm_PreservesInsertionOrder(t *testing.T) {
	svc := NewHMACSignatureService()

	payload := svc.EncodeForm([]ports.Field{
		{Key: "platform_id", Value: "7"},
		{Key: "order_id", Value: "100"},
		{Key: "amount", Value: "1.00"},
	})

	// url.Values.Encode would yield amount first; the canonical payload must not.
	assert.Equal(t, "platform_id=7&order_id=100&amount=1.00", payload)
}

func TestHMACSignatureService_EncodeForm_EscapesValues(t *testing.T) {
	svc := NewHMACSignatureService()

	payload := svc.EncodeForm([]ports.Field{
		{Key: "address_to", Value: "0xAb+Cd/Ef"},
		{Key: "fee", Value: "0.000 1"},
	})

	assert.Equal(t, "address_to=0xAb%2BCd%2FEf&fee=0.000+1", payload)
}

func TestHMACSignatureService_EncodeForm_Empty(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.Equal(t, "", svc.EncodeForm(nil))
}
