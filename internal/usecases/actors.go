package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/domain/repositories"
)

// ImageUploader stores a batch image and returns its public URL
type ImageUploader interface {
	Upload(ctx context.Context, upload *entities.ImageUpload) (string, error)
}

// DecisionRecorder counts lifecycle decisions
type DecisionRecorder interface {
	ObserveDecision(role, action, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveDecision(string, string, string) {}

func recorderOrNoop(r DecisionRecorder) DecisionRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

// decisionOutcome buckets an operation result into a low-cardinality label
func decisionOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domainerrors.ErrAlreadyActed),
		errors.Is(err, domainerrors.ErrAlreadyAccepted),
		errors.Is(err, domainerrors.ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, domainerrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainerrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return "invalid"
	}
	return "error"
}

// actorResolver loads the user behind a request and checks it against the session
type actorResolver struct {
	userRepo repositories.UserRepository
}

func (r actorResolver) byEmail(ctx context.Context, callerID uuid.UUID, email string, role entities.UserRole, notFound string) (*entities.User, error) {
	user, err := r.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(notFound)
		}
		return nil, err
	}
	return user, checkActor(user, callerID, role)
}

func (r actorResolver) byID(ctx context.Context, callerID uuid.UUID, id uuid.UUID, role entities.UserRole, notFound string) (*entities.User, error) {
	user, err := r.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(notFound)
		}
		return nil, err
	}
	return user, checkActor(user, callerID, role)
}

func (r actorResolver) byWallet(ctx context.Context, callerID uuid.UUID, wallet string, role entities.UserRole, notFound string) (*entities.User, error) {
	user, err := r.userRepo.GetByWalletAddress(ctx, normalizeWallet(wallet))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(notFound)
		}
		return nil, err
	}
	return user, checkActor(user, callerID, role)
}

func checkActor(user *entities.User, callerID uuid.UUID, role entities.UserRole) error {
	if user.Role != role {
		return domainerrors.Forbidden("User is not a " + string(role))
	}
	if user.ID != callerID {
		return domainerrors.Forbidden("Session does not match " + string(role))
	}
	return nil
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("Invalid " + field)
	}
	return id, nil
}

func getBatch(ctx context.Context, repo repositories.BatchRepository, id uuid.UUID) (*entities.Batch, error) {
	batch, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Batch not found")
		}
		return nil, err
	}
	return batch, nil
}
