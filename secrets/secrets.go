// Package secrets encrypts gateway credentials before they are stored.
package secrets

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	keyWaitTimeout = 5 * time.Minute

	// AES-256
	localKeySize = 32
)

type Crypter interface {
	Encrypt(message []byte) (encrypted []byte, err error)
	Decrypt(encrypted []byte) (message []byte, err error)
}

type KeyType string

const (
	KeyTypeNone      KeyType = "none"
	KeyTypeLocal     KeyType = "local"
	KeyTypeAWSKMS    KeyType = "aws_kms"
	KeyTypeGoogleKMS KeyType = "google_kms"
)

// NewCrypter returns the Crypter for keyType. key is the AES key for local,
// the key ARN for aws_kms and the key resource name for google_kms.
func NewCrypter(ctx context.Context, keyType, key string) (Crypter, error) {
	switch KeyType(keyType) {
	case KeyTypeNone, "":
		return NewPlainCrypter(), nil
	case KeyTypeLocal:
		if len(key) != localKeySize {
			return nil, fmt.Errorf("encryption key type %s requires a %d byte key, got %d bytes", keyType, localKeySize, len(key))
		}
		return NewAESCrypter([]byte(key))
	case KeyTypeAWSKMS:
		if key == "" {
			return nil, fmt.Errorf("encryption key type %s requires a key ARN", keyType)
		}
		return NewAWSKMSCrypter(ctx, key)
	case KeyTypeGoogleKMS:
		if key == "" {
			return nil, fmt.Errorf("encryption key type %s requires a key resource name", keyType)
		}
		c := NewGoogleKMSCrypter(key)
		if err := c.WaitForKey(ctx, keyWaitTimeout); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("encryption key type '%s' not supported", keyType)
	}
}

// Seal encrypts a secret into the text form kept in the database.
func Seal(c Crypter, secret string) (string, error) {
	if _, ok := c.(*PlainCrypter); ok {
		return secret, nil
	}

	encrypted, err := c.Encrypt([]byte(secret))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// Open reverses Seal.
func Open(c Crypter, sealed string) (string, error) {
	if _, ok := c.(*PlainCrypter); ok {
		return sealed, nil
	}

	encrypted, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("sealed secret is not valid base64: %w", err)
	}

	message, err := c.Decrypt(encrypted)
	if err != nil {
		return "", err
	}

	return string(message), nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	const visible = 4
	if len(secret) <= visible {
		return "****"
	}
	return "****" + secret[len(secret)-visible:]
}
