package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"time"

	kms "cloud.google.com/go/kms/apiv1"
	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
	kmspb "google.golang.org/genproto/googleapis/cloud/kms/v1"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GoogleKMSCrypter opens a Cloud KMS client per call so no gRPC connection
// outlives the request that needed it.
type GoogleKMSCrypter struct {
	keyResourceName string
}

func NewGoogleKMSCrypter(keyResourceName string) *GoogleKMSCrypter {
	return &GoogleKMSCrypter{keyResourceName: keyResourceName}
}

// WaitForKey blocks until the primary version of the key is enabled. Newly
// created keys take a while before they can be used.
func (c *GoogleKMSCrypter) WaitForKey(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create kms client: %w", err)
	}
	defer client.Close()

	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	for {
		key, err := client.GetCryptoKey(ctx, &kmspb.GetCryptoKeyRequest{Name: c.keyResourceName})
		if err != nil {
			return fmt.Errorf("failed to get kms key: %w", err)
		}

		primary := key.GetPrimary()
		if primary != nil && primary.State == kmspb.CryptoKeyVersion_ENABLED {
			return nil
		}

		log.WithFields(log.Fields{"key": c.keyResourceName, "state": primary.GetState()}).Debug("Waiting for kms key")

		select {
		case <-ctx.Done():
			return fmt.Errorf("kms key not enabled: %w", ctx.Err())
		case <-time.After(b.Duration()):
		}
	}
}

func (c *GoogleKMSCrypter) Encrypt(message []byte) ([]byte, error) {
	ctx := context.Background()

	client, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create kms client: %w", err)
	}
	defer client.Close()

	result, err := client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:            c.keyResourceName,
		Plaintext:       message,
		PlaintextCrc32C: wrapperspb.Int64(int64(crc32c(message))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}

	// https://cloud.google.com/kms/docs/data-integrity-guidelines
	if !result.VerifiedPlaintextCrc32C {
		return nil, fmt.Errorf("encrypt: request corrupted in-transit")
	}
	if int64(crc32c(result.Ciphertext)) != result.CiphertextCrc32C.Value {
		return nil, fmt.Errorf("encrypt: response corrupted in-transit")
	}

	return result.Ciphertext, nil
}

func (c *GoogleKMSCrypter) Decrypt(encrypted []byte) ([]byte, error) {
	ctx := context.Background()

	client, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create kms client: %w", err)
	}
	defer client.Close()

	result, err := client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:             c.keyResourceName,
		Ciphertext:       encrypted,
		CiphertextCrc32C: wrapperspb.Int64(int64(crc32c(encrypted))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt ciphertext: %w", err)
	}

	if int64(crc32c(result.Plaintext)) != result.PlaintextCrc32C.Value {
		return nil, fmt.Errorf("decrypt: response corrupted in-transit")
	}

	return result.Plaintext, nil
}

func crc32c(data []byte) uint32 {
	t := crc32.MakeTable(crc32.Castagnoli)
	return crc32.Checksum(data, t)
}
