package gigachat

import (
	"encoding/base64"
	"strings"

	"github.com/dskvich/gigachat-telegram-bot/pkg/domain"
)

// Placeholder values shipped in env.example. They count as unset.
const (
	AuthorizationKeyPlaceholder = "ваш_ключ_авторизации_здесь"
	ClientIDPlaceholder         = "ваш_client_id_здесь"
	ClientSecretPlaceholder     = "ваш_client_secret_здесь"
)

type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceAuthorizationKey
	SourceClientPair
)

func (s CredentialSource) String() string {
	switch s {
	case SourceAuthorizationKey:
		return "authorization_key"
	case SourceClientPair:
		return "client_pair"
	default:
		return "none"
	}
}

// Credentials holds the Basic-auth value for the OAuth endpoint.
type Credentials struct {
	Source  CredentialSource
	authKey string
}

func (c Credentials) IsZero() bool {
	return c.authKey == ""
}

// ResolveCredentials prefers a ready Base64 authorization key and falls back to
// encoding "id:secret".
func ResolveCredentials(authorizationKey, clientID, clientSecret string) (Credentials, error) {
	authorizationKey = strings.TrimSpace(authorizationKey)
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)

	if isSet(authorizationKey, AuthorizationKeyPlaceholder) {
		return Credentials{Source: SourceAuthorizationKey, authKey: authorizationKey}, nil
	}

	if isSet(clientID, ClientIDPlaceholder) && isSet(clientSecret, ClientSecretPlaceholder) {
		encoded := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
		return Credentials{Source: SourceClientPair, authKey: encoded}, nil
	}

	return Credentials{}, domain.ErrMissingCredentials
}

func isSet(value, placeholder string) bool {
	return value != "" && value != placeholder
}
