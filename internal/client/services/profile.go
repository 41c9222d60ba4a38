package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/trainpi/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/common"
)

// ProfileService reads and writes the signed-in user's local profile
// document.
type ProfileService struct {
	repo profiles.Repository
}

func NewProfileService(repo profiles.Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Show returns the stored document, or an empty object when none exists.
func (p *ProfileService) Show(ctx context.Context, s *session.Session) (json.RawMessage, error) {
	data, err := p.repo.Get(ctx, s.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		return json.RawMessage(`{}`), nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *ProfileService) Set(ctx context.Context, s *session.Session, data json.RawMessage) error {
	if err := p.repo.Put(ctx, s.UserID, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
