package ports

import "github.com/rvodden/rvodden.github.io/internal/domain"

// ReportStore persists sync reports.
type ReportStore interface {
	SaveReport(report domain.SyncReport) (id string, err error)
}
