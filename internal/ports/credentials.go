package ports

import "github.com/rvodden/rvodden.github.io/internal/domain"

// CredentialsLoader resolves secrets that must not live in blogctl.yaml.
type CredentialsLoader interface {
	LoadCredentials() (domain.Credentials, error)
}
