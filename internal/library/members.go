package library

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"librarium/internal/models"
	"librarium/internal/storage"
)

// ListMembers returns resolved views of all members, optionally filtered
// by exact name.
func (s *Service) ListMembers(ctx context.Context, name string) ([]models.MemberView, error) {
	members, err := s.stores.Members.List(ctx, storage.MemberFilter{Name: name})
	if err != nil {
		return nil, err
	}

	views := make([]models.MemberView, 0, len(members))
	for _, m := range members {
		view, err := s.resolveMember(ctx, m)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetMember returns the resolved view of one member.
func (s *Service) GetMember(ctx context.Context, id models.ID) (models.MemberView, error) {
	member, err := s.stores.Members.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MemberView{}, ErrMemberNotFound
		}
		return models.MemberView{}, err
	}
	return s.resolveMember(ctx, member)
}

// CreateMember registers a new member. The phone and email must pass the
// validation oracle and must not be in use by any existing member.
func (s *Service) CreateMember(ctx context.Context, name, phone, email, address string) (models.MemberView, error) {
	if name == "" || phone == "" || email == "" || address == "" {
		return models.MemberView{}, ErrMissingFields
	}

	if err := s.checkPhone(ctx, phone); err != nil {
		return models.MemberView{}, err
	}
	if err := s.checkEmail(ctx, email); err != nil {
		return models.MemberView{}, err
	}

	id, err := s.stores.Members.Insert(ctx, models.Member{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: address,
	})
	if err != nil {
		return models.MemberView{}, err
	}

	created, err := s.stores.Members.Get(ctx, id)
	if err != nil {
		return models.MemberView{}, err
	}

	s.logger.Info("Member created", zap.String("member_id", id.String()))
	s.recordAudit(ctx, "member", id, "create", name)

	return s.resolveMember(ctx, created)
}

// UpdateMember replaces a member's fields. Phone and email are only
// re-validated and re-checked for duplicates when they actually change, so
// a member's own unchanged contact never counts as a duplicate.
func (s *Service) UpdateMember(ctx context.Context, id models.ID, name, phone, email, address string) (models.MemberView, error) {
	if id == "" || name == "" || phone == "" || email == "" || address == "" {
		return models.MemberView{}, ErrMissingFields
	}

	current, err := s.stores.Members.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MemberView{}, ErrMemberNotFound
		}
		return models.MemberView{}, err
	}

	if phone != current.Phone {
		if err := s.checkPhone(ctx, phone); err != nil {
			return models.MemberView{}, err
		}
	}
	if email != current.Email {
		if err := s.checkEmail(ctx, email); err != nil {
			return models.MemberView{}, err
		}
	}

	updated := models.Member{
		ID:      id,
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: address,
	}
	if err := s.stores.Members.Update(ctx, updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.MemberView{}, ErrMemberNotFound
		}
		return models.MemberView{}, err
	}

	s.logger.Info("Member updated", zap.String("member_id", id.String()))
	s.recordAudit(ctx, "member", id, "update", name)

	return s.resolveMember(ctx, updated)
}

// DeleteMember removes a member and cascades to every borrow referencing it.
func (s *Service) DeleteMember(ctx context.Context, id models.ID) error {
	if id == "" {
		return ErrMissingFields
	}

	if _, err := s.stores.Members.Get(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if _, err := s.stores.Members.Delete(ctx, id); err != nil {
		return err
	}

	removed, err := s.stores.Borrows.DeleteByMember(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cascade borrow deletion: %w", err)
	}

	s.logger.Info("Member deleted",
		zap.String("member_id", id.String()),
		zap.Int64("borrows_removed", removed),
	)
	s.recordAudit(ctx, "member", id, "delete", fmt.Sprintf("cascaded %d borrows", removed))

	return nil
}

// checkPhone validates the phone with the oracle and rejects duplicates.
func (s *Service) checkPhone(ctx context.Context, phone string) error {
	valid, err := s.oracle.ValidPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("failed to validate phone: %w", err)
	}
	if !valid {
		return ErrInvalidPhone
	}

	dups, err := s.stores.Members.List(ctx, storage.MemberFilter{Phone: phone})
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return ErrDuplicateContact
	}
	return nil
}

// checkEmail validates the email with the oracle and rejects duplicates.
func (s *Service) checkEmail(ctx context.Context, email string) error {
	valid, err := s.oracle.ValidEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to validate email: %w", err)
	}
	if !valid {
		return ErrInvalidEmail
	}

	dups, err := s.stores.Members.List(ctx, storage.MemberFilter{Email: email})
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		return ErrDuplicateContact
	}
	return nil
}
