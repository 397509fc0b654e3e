// Package domain contains the core model for blogctl: Hugo posts, dev.to
// articles, sync plans and reports, and workspace configuration.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, git, or the filesystem. Infra/adapters map into/from these types.
package domain
