package services

import (
	"shop_backend/internal/models"
	"shop_backend/internal/repository"
)

type BranchInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`
	SupportPhone string   `json:"support_phone"`
	Archive      bool     `json:"archive"`
}

type BranchService interface {
	ActiveBranches() ([]models.Branch, error)
	CreateBranch(in BranchInput) (*models.Branch, error)
	UpdateBranch(id uint, in BranchInput) (*models.Branch, error)
	DeleteBranch(id uint) error
}

type branchService struct {
	branchRepo repository.BranchRepository
}

func NewBranchService(branchRepo repository.BranchRepository) BranchService {
	return &branchService{branchRepo: branchRepo}
}

func (s *branchService) ActiveBranches() ([]models.Branch, error) {
	return s.branchRepo.GetActive()
}

func (s *branchService) CreateBranch(in BranchInput) (*models.Branch, error) {
	if in.SupportPhone != "" && !phoneRegex.MatchString(in.SupportPhone) {
		return nil, ErrInvalidPhone
	}

	branch := &models.Branch{
		Name:         in.Name,
		Description:  in.Description,
		Longitude:    in.Longitude,
		Latitude:     in.Latitude,
		SupportPhone: in.SupportPhone,
		Archive:      in.Archive,
	}
	if err := s.branchRepo.Create(branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (s *branchService) UpdateBranch(id uint, in BranchInput) (*models.Branch, error) {
	branch, err := s.branchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	if in.SupportPhone != "" && !phoneRegex.MatchString(in.SupportPhone) {
		return nil, ErrInvalidPhone
	}

	branch.Name = in.Name
	branch.Description = in.Description
	branch.Longitude = in.Longitude
	branch.Latitude = in.Latitude
	branch.SupportPhone = in.SupportPhone
	branch.Archive = in.Archive

	if err := s.branchRepo.Update(branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (s *branchService) DeleteBranch(id uint) error {
	branch, err := s.branchRepo.GetByID(id)
	if err != nil {
		return err
	}
	if branch == nil {
		return ErrBranchNotFound
	}
	return s.branchRepo.Delete(id)
}
