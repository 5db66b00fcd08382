//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"msg-kernel/domain"

	"github.com/google/uuid"
)

// ThreadStore persists a thread as an opaque unit and restores it by
// id. Implementations must be observably equivalent: any thread
// round-tripped through one backend yields the same participants and
// ordered message payload as through another. An unknown id is reported
// with errors.ErrThreadNotFound, never a panic.
type ThreadStore interface {
	SaveThread(thread *domain.Thread) error
	LoadThread(id uuid.UUID) (*domain.Thread, error)
}
