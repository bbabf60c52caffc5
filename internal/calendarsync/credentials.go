// rentalops-crm/internal/calendarsync/credentials.go
package calendarsync

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/oauth2"
)

const nonceSize = 24

// SealCredential шифрует refresh-токен для хранения в БД (nacl/secretbox,
// nonce в префиксе).
func SealCredential(key *[32]byte, refreshToken string) ([]byte, error) {
	if key == nil {
		return nil, errors.New("credential key is not configured")
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(refreshToken), &nonce, key), nil
}

// OpenCredential расшифровывает сохраненный refresh-токен.
func OpenCredential(key *[32]byte, sealed []byte) (string, error) {
	if key == nil {
		return "", errors.New("credential key is not configured")
	}
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("%w: sealed credential too short", ErrCredentialInvalid)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	opened, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		// Расшифровать нечем или данные повреждены - учетные данные
		// безвозвратно непригодны.
		return "", fmt.Errorf("%w: cannot open sealed credential", ErrCredentialInvalid)
	}
	return string(opened), nil
}

// GoogleCredentialSource обменивает зашифрованный refresh-токен на
// access-токен через OAuth-endpoint Google.
type GoogleCredentialSource struct {
	Config *oauth2.Config
	Key    *[32]byte
}

func NewGoogleCredentialSource(cfg *oauth2.Config, key *[32]byte) *GoogleCredentialSource {
	return &GoogleCredentialSource{Config: cfg, Key: key}
}

// ResolveAccessToken реализует CredentialSource. Ответ invalid_grant от
// Google означает отозванный refresh-токен - ErrCredentialInvalid; любые
// другие сбои (сеть, 5xx) считаются временными.
func (s *GoogleCredentialSource) ResolveAccessToken(ctx context.Context, credential []byte) (string, error) {
	refreshToken, err := OpenCredential(s.Key, credential)
	if err != nil {
		return "", err
	}

	source := s.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return "", fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
		}
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	return token.AccessToken, nil
}
