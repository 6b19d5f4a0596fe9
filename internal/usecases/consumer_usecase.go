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
	msgConsumerNotFound = "Consumer not found"
	msgAlreadyActed     = "Already acted"
	msgNotInTransit     = "Batch is not in-transit"

	// DefaultConsumerRate is the price per unit of quantity a consumer owes
	DefaultConsumerRate = 10.0
)

// ConsumerUsecase drives consumer decisions on in-transit batches and reviews
type ConsumerUsecase struct {
	uow                 repositories.UnitOfWork
	batchRepo           repositories.BatchRepository
	distributorActions  repositories.DistributorActionRepository
	consumerActions     repositories.ConsumerActionRepository
	consumerPaymentRepo repositories.ConsumerPaymentRepository
	reviewRepo          repositories.ReviewRepository
	actors              actorResolver
	recorder            DecisionRecorder
	rate                float64
}

// NewConsumerUsecase creates a new consumer usecase. A non-positive rate falls
// back to DefaultConsumerRate.
func NewConsumerUsecase(
	uow repositories.UnitOfWork,
	batchRepo repositories.BatchRepository,
	userRepo repositories.UserRepository,
	distributorActions repositories.DistributorActionRepository,
	consumerActions repositories.ConsumerActionRepository,
	consumerPaymentRepo repositories.ConsumerPaymentRepository,
	reviewRepo repositories.ReviewRepository,
	recorder DecisionRecorder,
	rate float64,
) *ConsumerUsecase {
	if rate <= 0 {
		rate = DefaultConsumerRate
	}
	return &ConsumerUsecase{
		uow:                 uow,
		batchRepo:           batchRepo,
		distributorActions:  distributorActions,
		consumerActions:     consumerActions,
		consumerPaymentRepo: consumerPaymentRepo,
		reviewRepo:          reviewRepo,
		actors:              actorResolver{userRepo: userRepo},
		recorder:            recorderOrNoop(recorder),
		rate:                rate,
	}
}

// ListAvailable returns in-transit batches the consumer may still accept
func (u *ConsumerUsecase) ListAvailable(ctx context.Context, callerID, consumerID uuid.UUID) ([]*entities.Batch, error) {
	consumer, err := u.actors.byID(ctx, callerID, consumerID, entities.UserRoleConsumer, msgConsumerNotFound)
	if err != nil {
		return nil, err
	}
	return u.batchRepo.ListVisibleToConsumer(ctx, consumer.ID)
}

// Accept takes delivery of an in-transit batch and bills the consumer
func (u *ConsumerUsecase) Accept(ctx context.Context, callerID uuid.UUID, input *entities.ConsumerDecisionInput) (batch *entities.Batch, err error) {
	defer func() { u.recorder.ObserveDecision("consumer", "accept", decisionOutcome(err)) }()

	batchID, consumer, err := u.resolveDecision(ctx, callerID, input)
	if err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.lockForDecision(txCtx, batchID, consumer.ID)
		if err != nil {
			return err
		}

		if err := u.consumerActions.Create(txCtx, &entities.ConsumerAction{
			ID:            utils.GenerateUUIDv7(),
			BatchID:       current.ID,
			ConsumerID:    consumer.ID,
			ConsumerEmail: consumerEmail(consumer, input),
			Action:        entities.ActionAccepted,
		}); err != nil {
			return actedConflict(err)
		}

		if err := u.batchRepo.TransitionStatus(txCtx, current.ID, entities.BatchStatusInTransit, entities.BatchStatusDelivered); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidTransition) {
				return domainerrors.ConflictWith(err, msgNotInTransit)
			}
			return err
		}

		carrier, err := u.distributorActions.GetAccepted(txCtx, current.ID)
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			logger.Warn(txCtx, "No accepting distributor, consumer payment skipped",
				zap.String("batch_id", current.ID.String()))
		case err != nil:
			return err
		default:
			if err := u.consumerPaymentRepo.Create(txCtx, &entities.ConsumerPayment{
				ID:            utils.GenerateUUIDv7(),
				BatchID:       current.ID,
				ConsumerID:    consumer.ID,
				DistributorID: carrier.DistributorID,
				Amount:        current.Quantity * u.rate,
				Status:        entities.PaymentStatusPending,
			}); err != nil {
				return err
			}
		}

		batch, err = getBatch(txCtx, u.batchRepo, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Batch delivered to consumer",
		zap.String("batch_id", batchID.String()),
		zap.String("consumer_id", consumer.ID.String()),
	)
	return batch, nil
}

// Reject hides an in-transit batch from the consumer; others can still accept it
func (u *ConsumerUsecase) Reject(ctx context.Context, callerID uuid.UUID, input *entities.ConsumerDecisionInput) (err error) {
	defer func() { u.recorder.ObserveDecision("consumer", "reject", decisionOutcome(err)) }()

	batchID, consumer, err := u.resolveDecision(ctx, callerID, input)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.lockForDecision(txCtx, batchID, consumer.ID)
		if err != nil {
			return err
		}
		if err := u.consumerActions.Create(txCtx, &entities.ConsumerAction{
			ID:            utils.GenerateUUIDv7(),
			BatchID:       current.ID,
			ConsumerID:    consumer.ID,
			ConsumerEmail: consumerEmail(consumer, input),
			Action:        entities.ActionRejected,
		}); err != nil {
			return actedConflict(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Batch rejected by consumer",
		zap.String("batch_id", batchID.String()),
		zap.String("consumer_id", consumer.ID.String()),
	)
	return nil
}

// ListAcceptedBatches returns the batches the consumer took delivery of
func (u *ConsumerUsecase) ListAcceptedBatches(ctx context.Context, callerID, consumerID uuid.UUID) ([]*entities.Batch, error) {
	consumer, err := u.actors.byID(ctx, callerID, consumerID, entities.UserRoleConsumer, msgConsumerNotFound)
	if err != nil {
		return nil, err
	}
	actions, err := u.consumerActions.ListAcceptedByConsumer(ctx, consumer.ID)
	if err != nil {
		return nil, err
	}

	batches := make([]*entities.Batch, 0, len(actions))
	for _, a := range actions {
		if a.Batch != nil {
			batches = append(batches, a.Batch)
		}
	}
	return batches, nil
}

// ListPayments returns what the consumer owes, with batch and distributor
func (u *ConsumerUsecase) ListPayments(ctx context.Context, callerID, consumerID uuid.UUID) ([]*entities.ConsumerPayment, error) {
	consumer, err := u.actors.byID(ctx, callerID, consumerID, entities.UserRoleConsumer, msgConsumerNotFound)
	if err != nil {
		return nil, err
	}
	return u.consumerPaymentRepo.ListByConsumer(ctx, consumer.ID)
}

// CreateReview records a consumer rating of a batch
func (u *ConsumerUsecase) CreateReview(ctx context.Context, callerID uuid.UUID, input *entities.CreateReviewInput) (*entities.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.BadRequest("rating must be between 1 and 5")
	}
	batchID, err := parseID(input.BatchID, "batchId")
	if err != nil {
		return nil, err
	}
	consumerID, err := parseID(input.ConsumerID, "consumerId")
	if err != nil {
		return nil, err
	}

	consumer, err := u.actors.byID(ctx, callerID, consumerID, entities.UserRoleConsumer, msgConsumerNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := getBatch(ctx, u.batchRepo, batchID); err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:         utils.GenerateUUIDv7(),
		BatchID:    batchID,
		ConsumerID: consumer.ID,
		Rating:     input.Rating,
		Title:      strings.TrimSpace(input.Title),
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := u.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Consumer = consumer
	return review, nil
}

// ListReviews returns reviews of a batch, newest first
func (u *ConsumerUsecase) ListReviews(ctx context.Context, batchID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Review, int64, error) {
	return u.reviewRepo.ListByBatch(ctx, batchID, pagination)
}

func (u *ConsumerUsecase) resolveDecision(ctx context.Context, callerID uuid.UUID, input *entities.ConsumerDecisionInput) (uuid.UUID, *entities.User, error) {
	if strings.TrimSpace(input.BatchID) == "" || strings.TrimSpace(input.ConsumerID) == "" {
		return uuid.Nil, nil, domainerrors.BadRequest("Missing required fields")
	}
	batchID, err := parseID(input.BatchID, "batchId")
	if err != nil {
		return uuid.Nil, nil, err
	}
	consumerID, err := parseID(input.ConsumerID, "consumerId")
	if err != nil {
		return uuid.Nil, nil, err
	}
	consumer, err := u.actors.byID(ctx, callerID, consumerID, entities.UserRoleConsumer, msgConsumerNotFound)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return batchID, consumer, nil
}

// lockForDecision loads the batch under a row lock and checks the consumer guards
func (u *ConsumerUsecase) lockForDecision(txCtx context.Context, batchID, consumerID uuid.UUID) (*entities.Batch, error) {
	batch, err := getBatch(u.uow.WithLock(txCtx), u.batchRepo, batchID)
	if err != nil {
		return nil, err
	}

	if _, err := u.consumerActions.Get(txCtx, batch.ID, consumerID); err == nil {
		return nil, domainerrors.ConflictWith(domainerrors.ErrAlreadyActed, msgAlreadyActed)
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	if batch.Status != entities.BatchStatusInTransit {
		return nil, domainerrors.ConflictWith(domainerrors.ErrInvalidTransition, msgNotInTransit)
	}
	return batch, nil
}

func actedConflict(err error) error {
	if errors.Is(err, domainerrors.ErrAlreadyActed) {
		return domainerrors.ConflictWith(err, msgAlreadyActed)
	}
	return err
}

func consumerEmail(consumer *entities.User, input *entities.ConsumerDecisionInput) string {
	if consumer.Email.Valid {
		return consumer.Email.String
	}
	return strings.ToLower(strings.TrimSpace(input.ConsumerEmail))
}
