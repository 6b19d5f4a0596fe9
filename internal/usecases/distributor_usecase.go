package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tracebloom.backend/internal/domain/entities"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/internal/domain/repositories"
	"tracebloom.backend/pkg/logger"
	"tracebloom.backend/pkg/utils"
)

const (
	msgDistributorNotFound = "Distributor not found"
	msgAlreadyAccepted     = "Batch already accepted by another distributor"
)

// DistributorUsecase drives distributor decisions on harvested batches
type DistributorUsecase struct {
	uow         repositories.UnitOfWork
	batchRepo   repositories.BatchRepository
	actionRepo  repositories.DistributorActionRepository
	shipRepo    repositories.ConsumerActionRepository
	paymentRepo repositories.PaymentRepository
	actors      actorResolver
	recorder    DecisionRecorder
}

// NewDistributorUsecase creates a new distributor usecase
func NewDistributorUsecase(
	uow repositories.UnitOfWork,
	batchRepo repositories.BatchRepository,
	userRepo repositories.UserRepository,
	actionRepo repositories.DistributorActionRepository,
	shipRepo repositories.ConsumerActionRepository,
	paymentRepo repositories.PaymentRepository,
	recorder DecisionRecorder,
) *DistributorUsecase {
	return &DistributorUsecase{
		uow:         uow,
		batchRepo:   batchRepo,
		actionRepo:  actionRepo,
		shipRepo:    shipRepo,
		paymentRepo: paymentRepo,
		actors:      actorResolver{userRepo: userRepo},
		recorder:    recorderOrNoop(recorder),
	}
}

// ListBatches returns batches the distributor has not decided on yet
func (u *DistributorUsecase) ListBatches(ctx context.Context, callerID uuid.UUID, email string) ([]*entities.Batch, error) {
	distributor, err := u.actors.byEmail(ctx, callerID, email, entities.UserRoleDistributor, msgDistributorNotFound)
	if err != nil {
		return nil, err
	}
	return u.batchRepo.ListVisibleToDistributor(ctx, distributor.ID)
}

// Accept takes custody of a harvested batch. Exactly one distributor can win;
// the winner owes the farmer a pending payment.
func (u *DistributorUsecase) Accept(ctx context.Context, callerID uuid.UUID, input *entities.DistributorDecisionInput) (err error) {
	defer func() { u.recorder.ObserveDecision("distributor", "accept", decisionOutcome(err)) }()

	batchID, distributor, err := u.resolveDecision(ctx, callerID, input)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		batch, err := getBatch(u.uow.WithLock(txCtx), u.batchRepo, batchID)
		if err != nil {
			return err
		}

		if _, err := u.actionRepo.GetAccepted(txCtx, batch.ID); err == nil {
			return domainerrors.ConflictWith(domainerrors.ErrAlreadyAccepted, msgAlreadyAccepted)
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if batch.Status != entities.BatchStatusHarvested {
			return domainerrors.ConflictWith(domainerrors.ErrInvalidTransition, "Batch is not harvested")
		}

		if err := u.actionRepo.Create(txCtx, &entities.DistributorAction{
			ID:               utils.GenerateUUIDv7(),
			BatchID:          batch.ID,
			DistributorID:    distributor.ID,
			DistributorName:  strings.TrimSpace(input.DistributorName),
			DistributorEmail: distributor.Email.String,
			Action:           entities.ActionAccepted,
		}); err != nil {
			return acceptConflict(err)
		}

		if err := u.batchRepo.TransitionStatus(txCtx, batch.ID, entities.BatchStatusHarvested, entities.BatchStatusInTransit); err != nil {
			return acceptConflict(err)
		}

		// Amount is settled off-platform; the row records who owes whom
		return u.paymentRepo.Create(txCtx, &entities.Payment{
			ID:            utils.GenerateUUIDv7(),
			BatchID:       batch.ID,
			DistributorID: distributor.ID,
			FarmerWallet:  batch.FarmerWallet,
			Amount:        0,
			Status:        entities.PaymentStatusPending,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Batch accepted by distributor",
		zap.String("batch_id", batchID.String()),
		zap.String("distributor_id", distributor.ID.String()),
	)
	return nil
}

// Reject records that the distributor passed on a harvested batch. The batch
// stays available to other distributors.
func (u *DistributorUsecase) Reject(ctx context.Context, callerID uuid.UUID, input *entities.DistributorDecisionInput) (err error) {
	defer func() { u.recorder.ObserveDecision("distributor", "reject", decisionOutcome(err)) }()

	batchID, distributor, err := u.resolveDecision(ctx, callerID, input)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		batch, err := getBatch(u.uow.WithLock(txCtx), u.batchRepo, batchID)
		if err != nil {
			return err
		}
		if batch.Status != entities.BatchStatusHarvested {
			return domainerrors.ConflictWith(domainerrors.ErrInvalidTransition, "Batch is not harvested")
		}

		return u.actionRepo.Create(txCtx, &entities.DistributorAction{
			ID:               utils.GenerateUUIDv7(),
			BatchID:          batch.ID,
			DistributorID:    distributor.ID,
			DistributorName:  strings.TrimSpace(input.DistributorName),
			DistributorEmail: distributor.Email.String,
			Action:           entities.ActionRejected,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Batch rejected by distributor",
		zap.String("batch_id", batchID.String()),
		zap.String("distributor_id", distributor.ID.String()),
	)
	return nil
}

// ListTransactions returns the farmer payments this distributor owes
func (u *DistributorUsecase) ListTransactions(ctx context.Context, callerID uuid.UUID, email string) ([]*entities.Payment, error) {
	distributor, err := u.actors.byEmail(ctx, callerID, email, entities.UserRoleDistributor, msgDistributorNotFound)
	if err != nil {
		return nil, err
	}
	return u.paymentRepo.ListByDistributor(ctx, distributor.ID)
}

// ListShipments returns consumer acceptances of batches this distributor carried
func (u *DistributorUsecase) ListShipments(ctx context.Context, callerID uuid.UUID, email string) ([]*entities.Shipment, error) {
	distributor, err := u.actors.byEmail(ctx, callerID, email, entities.UserRoleDistributor, msgDistributorNotFound)
	if err != nil {
		return nil, err
	}
	return u.shipRepo.ListShipmentsByDistributor(ctx, distributor.ID)
}

func (u *DistributorUsecase) resolveDecision(ctx context.Context, callerID uuid.UUID, input *entities.DistributorDecisionInput) (uuid.UUID, *entities.User, error) {
	if strings.TrimSpace(input.BatchID) == "" || strings.TrimSpace(input.DistributorEmail) == "" || strings.TrimSpace(input.DistributorName) == "" {
		return uuid.Nil, nil, domainerrors.BadRequest("Missing required fields")
	}
	batchID, err := parseID(input.BatchID, "batchId")
	if err != nil {
		return uuid.Nil, nil, err
	}
	distributor, err := u.actors.byEmail(ctx, callerID, input.DistributorEmail, entities.UserRoleDistributor, msgDistributorNotFound)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return batchID, distributor, nil
}

// acceptConflict turns a lost accept race into the user-facing conflict
func acceptConflict(err error) error {
	if errors.Is(err, domainerrors.ErrAlreadyAccepted) || errors.Is(err, domainerrors.ErrInvalidTransition) {
		return domainerrors.ConflictWith(domainerrors.ErrAlreadyAccepted, msgAlreadyAccepted)
	}
	return err
}
