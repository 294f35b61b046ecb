package secrets

// PlainCrypter stores secrets as they are.
type PlainCrypter struct{}

func NewPlainCrypter() *PlainCrypter {
	return &PlainCrypter{}
}

func (*PlainCrypter) Encrypt(message []byte) ([]byte, error) {
	return message, nil
}

func (*PlainCrypter) Decrypt(encrypted []byte) ([]byte, error) {
	return encrypted, nil
}
