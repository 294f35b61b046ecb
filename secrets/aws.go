package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
)

type AWSKMSCrypter struct {
	keyARN string
	client *kms.Client
}

// NewAWSKMSCrypter loads AWS credentials the default way (environment,
// shared config, instance role).
func NewAWSKMSCrypter(ctx context.Context, keyARN string) (*AWSKMSCrypter, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &AWSKMSCrypter{keyARN: keyARN, client: kms.NewFromConfig(awsCfg)}, nil
}

func (c *AWSKMSCrypter) Encrypt(message []byte) (encrypted []byte, err error) {
	out, err := c.client.Encrypt(context.Background(), &kms.EncryptInput{
		KeyId:               aws.String(c.keyARN),
		Plaintext:           message,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	})
	if err != nil {
		return encrypted, err
	}

	return out.CiphertextBlob, nil
}

func (c *AWSKMSCrypter) Decrypt(encrypted []byte) (message []byte, err error) {
	out, err := c.client.Decrypt(context.Background(), &kms.DecryptInput{
		KeyId:               aws.String(c.keyARN),
		CiphertextBlob:      encrypted,
		EncryptionAlgorithm: types.EncryptionAlgorithmSpecSymmetricDefault,
	})
	if err != nil {
		return message, err
	}

	return out.Plaintext, nil
}
