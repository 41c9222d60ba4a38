package services

import (
	"context"
	"fmt"
	"strings"

	"code.cloudfoundry.org/clock"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/server/repositories/repomanager"
)

const maxTypeLength = 64

type ExceptionService struct {
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
	logger      logging.Logger
}

func NewExceptionService(m repomanager.RepositoryManager, clk clock.Clock, logger logging.Logger) *ExceptionService {
	return &ExceptionService{
		repomanager: m,
		clock:       clk,
		logger:      logger.With("service", "exceptions"),
	}
}

func (s *ExceptionService) List(ctx context.Context, userID string, filter models.StatusFilter) ([]models.Exception, error) {
	items, err := s.repomanager.Repositories().Exceptions.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing exceptions: %w", err)
	}
	// Clients read a null list as a broken payload.
	if items == nil {
		items = []models.Exception{}
	}
	return items, nil
}

func (s *ExceptionService) Create(ctx context.Context, userID, typ, remarks string) (*models.Exception, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" || len(typ) > maxTypeLength {
		return nil, fmt.Errorf("%w: type must be 1-%d characters", common.ErrorValidation, maxTypeLength)
	}

	e := models.NewException(0, typ, strings.TrimSpace(remarks), s.clock.Now())
	e.UserID = userID

	created, err := s.repomanager.Repositories().Exceptions.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("error creating exception: %w", err)
	}
	s.logger.Info(ctx, "exception created", "id", created.ID, "user_id", userID)
	return created, nil
}

// Clear transitions the record to cleared using the server clock. Clearing a
// record that is already cleared returns it unchanged.
func (s *ExceptionService) Clear(ctx context.Context, userID string, id int64) (*models.Exception, error) {
	var result *models.Exception

	err := s.repomanager.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		e, err := r.Exceptions.GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if e.IsCleared() {
			result = e
			return nil
		}
		if err := e.Clear(s.clock.Now()); err != nil {
			return err
		}
		if err := r.Exceptions.Update(ctx, e); err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error clearing exception %d: %w", id, err)
	}

	s.logger.Info(ctx, "exception cleared", "id", id, "user_id", userID, "duration", *result.Duration)
	return result, nil
}
