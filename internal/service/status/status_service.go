package status

import (
	"context"
	"log"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/Domenick1991/aviabooking/internal/repository"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

type Report struct {
	Status   string
	Database string
	Stats    domain.Stats
}

type StatusUseCase interface {
	Report(ctx context.Context) (Report, error)
}

type StatusService struct {
	store repository.StatusRepository
}

func NewStatusService(store repository.StatusRepository) *StatusService {
	return &StatusService{store: store}
}

// Report returns the store counts. When the store cannot be reached the error report is
// returned together with ErrStoreUnavailable.
func (s *StatusService) Report(ctx context.Context) (Report, error) {
	failed := Report{Status: StatusError, Database: DatabaseDisconnected}

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("status: database ping failed: %v", err)
		return failed, domain.ErrStoreUnavailable
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		log.Printf("status: reading stats failed: %v", err)
		return failed, domain.ErrStoreUnavailable
	}
	return Report{Status: StatusOK, Database: DatabaseConnected, Stats: stats}, nil
}

var _ StatusUseCase = (*StatusService)(nil)
