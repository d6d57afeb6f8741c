// Package models holds the GORM rows for saved cards and transactions. Each
// model converts to and from its payments aggregate so that gorm tags never
// leak into the domain.
package models
