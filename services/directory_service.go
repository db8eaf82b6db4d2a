package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/landrytower/liprobakin/models"
	"github.com/landrytower/liprobakin/repositories"
	"github.com/landrytower/liprobakin/storage"
)

// DirectoryService — справочные разделы сайта: партнёры, оргкомитет, судьи.
type DirectoryService interface {
	CreatePartner(ctx context.Context, input PartnerInput) (*models.Partner, error)
	UpdatePartner(ctx context.Context, id int, input PartnerInput) (*models.Partner, error)
	DeletePartner(ctx context.Context, id int) error
	ListPartners(ctx context.Context) ([]models.Partner, error)
	UploadPartnerLogo(ctx context.Context, id int, contentType, ext string, file io.Reader) (*models.Partner, error)

	CreateCommitteeMember(ctx context.Context, input CommitteeMemberInput) (*models.CommitteeMember, error)
	UpdateCommitteeMember(ctx context.Context, id int, input CommitteeMemberInput) (*models.CommitteeMember, error)
	DeleteCommitteeMember(ctx context.Context, id int) error
	ListCommitteeMembers(ctx context.Context) ([]models.CommitteeMember, error)

	CreateReferee(ctx context.Context, input RefereeInput) (*models.Referee, error)
	UpdateReferee(ctx context.Context, id int, input RefereeInput) (*models.Referee, error)
	DeleteReferee(ctx context.Context, id int) error
	ListReferees(ctx context.Context) ([]models.Referee, error)
}

type PartnerInput struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Tier    string `json:"tier"`
}

type CommitteeMemberInput struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Ordering int    `json:"ordering"`
}

type RefereeInput struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

type directoryService struct {
	directoryRepo repositories.DirectoryRepository
	uploader      storage.FileUploader
}

func NewDirectoryService(directoryRepo repositories.DirectoryRepository, uploader storage.FileUploader) DirectoryService {
	return &directoryService{directoryRepo: directoryRepo, uploader: uploader}
}

func (s *directoryService) CreatePartner(ctx context.Context, input PartnerInput) (*models.Partner, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrValidationFailed)
	}
	partner := &models.Partner{
		Name:    strings.TrimSpace(input.Name),
		Website: input.Website,
		Tier:    input.Tier,
	}
	if err := s.directoryRepo.CreatePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return partner, nil
}

func (s *directoryService) UpdatePartner(ctx context.Context, id int, input PartnerInput) (*models.Partner, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: partner name is required", ErrValidationFailed)
	}
	partner, err := s.directoryRepo.GetPartnerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load partner %d: %w", id, err)
	}

	partner.Name = strings.TrimSpace(input.Name)
	partner.Website = input.Website
	partner.Tier = input.Tier
	if err := s.directoryRepo.UpdatePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to update partner %d: %w", id, err)
	}
	return partner, nil
}

func (s *directoryService) DeletePartner(ctx context.Context, id int) error {
	if err := s.directoryRepo.DeletePartner(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete partner %d: %w", id, err)
	}
	return nil
}

func (s *directoryService) ListPartners(ctx context.Context) ([]models.Partner, error) {
	partners, err := s.directoryRepo.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	for i := range partners {
		if partners[i].LogoKey != nil && *partners[i].LogoKey != "" && s.uploader != nil {
			url := s.uploader.GetPublicURL(*partners[i].LogoKey)
			partners[i].LogoURL = &url
		}
	}
	return partners, nil
}

func (s *directoryService) UploadPartnerLogo(ctx context.Context, id int, contentType, ext string, file io.Reader) (*models.Partner, error) {
	partner, err := s.directoryRepo.GetPartnerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPartnerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load partner %d: %w", id, err)
	}

	oldKey := partner.LogoKey
	key := objectKey("partner-logos", ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload partner logo: %w", err)
	}
	partner.LogoKey = &key
	if err := s.directoryRepo.UpdatePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to store partner logo key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	url := s.uploader.GetPublicURL(key)
	partner.LogoURL = &url
	return partner, nil
}

func (s *directoryService) CreateCommitteeMember(ctx context.Context, input CommitteeMemberInput) (*models.CommitteeMember, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: member name is required", ErrValidationFailed)
	}
	member := &models.CommitteeMember{
		Name:     strings.TrimSpace(input.Name),
		Title:    input.Title,
		Ordering: input.Ordering,
	}
	if err := s.directoryRepo.CreateCommitteeMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create committee member: %w", err)
	}
	return member, nil
}

func (s *directoryService) UpdateCommitteeMember(ctx context.Context, id int, input CommitteeMemberInput) (*models.CommitteeMember, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: member name is required", ErrValidationFailed)
	}
	member := &models.CommitteeMember{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Title:    input.Title,
		Ordering: input.Ordering,
	}
	if err := s.directoryRepo.UpdateCommitteeMember(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrCommitteeMemberNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update committee member %d: %w", id, err)
	}
	return member, nil
}

func (s *directoryService) DeleteCommitteeMember(ctx context.Context, id int) error {
	if err := s.directoryRepo.DeleteCommitteeMember(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCommitteeMemberNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete committee member %d: %w", id, err)
	}
	return nil
}

func (s *directoryService) ListCommitteeMembers(ctx context.Context) ([]models.CommitteeMember, error) {
	members, err := s.directoryRepo.ListCommitteeMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list committee members: %w", err)
	}
	for i := range members {
		if members[i].PhotoKey != nil && *members[i].PhotoKey != "" && s.uploader != nil {
			url := s.uploader.GetPublicURL(*members[i].PhotoKey)
			members[i].PhotoURL = &url
		}
	}
	return members, nil
}

func (s *directoryService) CreateReferee(ctx context.Context, input RefereeInput) (*models.Referee, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: referee name is required", ErrValidationFailed)
	}
	referee := &models.Referee{
		Name:  strings.TrimSpace(input.Name),
		Grade: input.Grade,
	}
	if err := s.directoryRepo.CreateReferee(ctx, referee); err != nil {
		return nil, fmt.Errorf("failed to create referee: %w", err)
	}
	return referee, nil
}

func (s *directoryService) UpdateReferee(ctx context.Context, id int, input RefereeInput) (*models.Referee, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: referee name is required", ErrValidationFailed)
	}
	referee := &models.Referee{
		ID:    id,
		Name:  strings.TrimSpace(input.Name),
		Grade: input.Grade,
	}
	if err := s.directoryRepo.UpdateReferee(ctx, referee); err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update referee %d: %w", id, err)
	}
	return referee, nil
}

func (s *directoryService) DeleteReferee(ctx context.Context, id int) error {
	if err := s.directoryRepo.DeleteReferee(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete referee %d: %w", id, err)
	}
	return nil
}

func (s *directoryService) ListReferees(ctx context.Context) ([]models.Referee, error) {
	referees, err := s.directoryRepo.ListReferees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees: %w", err)
	}
	for i := range referees {
		if referees[i].PhotoKey != nil && *referees[i].PhotoKey != "" && s.uploader != nil {
			url := s.uploader.GetPublicURL(*referees[i].PhotoKey)
			referees[i].PhotoURL = &url
		}
	}
	return referees, nil
}
