package service

import (
	"strings"

	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/repository"
)

// BusinessService 商家与集换卡管理服务
type BusinessService struct {
	businessRepo repository.BusinessRepository
	loyaltyRepo  repository.LoyaltyCardRepository
}

// NewBusinessService 创建商家管理服务
func NewBusinessService(businessRepo repository.BusinessRepository, loyaltyRepo repository.LoyaltyCardRepository) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		loyaltyRepo:  loyaltyRepo,
	}
}

// CreateBusinessInput 创建商家输入
type CreateBusinessInput struct {
	OwnerID     uint
	Name        string
	Description string
	LogoURL     string
	Address     string
	Phone       string
	City        string
	Website     string
	Instagram   string
	Categories  []string
}

// UpdateBusinessInput 更新商家输入
type UpdateBusinessInput struct {
	Name        *string
	Description *string
	LogoURL     *string
	Address     *string
	Phone       *string
	City        *string
	Website     *string
	Instagram   *string
	Categories  []string
	IsActive    *bool
}

// CreateBusiness 创建商家
func (s *BusinessService) CreateBusiness(input CreateBusinessInput) (*models.Business, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.OwnerID == 0 {
		return nil, ErrBusinessInvalid
	}
	if len(input.Categories) > constants.BusinessMaxCategories {
		return nil, ErrBusinessInvalid
	}

	business := &models.Business{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     input.OwnerID,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		City:        strings.TrimSpace(input.City),
		Website:     strings.TrimSpace(input.Website),
		Instagram:   strings.TrimSpace(input.Instagram),
		Categories:  strings.Join(input.Categories, ","),
		IsActive:    true,
	}
	if err := s.businessRepo.Create(business); err != nil {
		return nil, err
	}
	return business, nil
}

// UpdateBusiness 更新商家，校验调用方为所有者
func (s *BusinessService) UpdateBusiness(businessID, ownerID uint, input UpdateBusinessInput) (*models.Business, error) {
	business, err := s.ownedBusiness(businessID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrBusinessInvalid
		}
		business.Name = name
	}
	if input.Description != nil {
		business.Description = strings.TrimSpace(*input.Description)
	}
	if input.LogoURL != nil {
		business.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if input.Address != nil {
		business.Address = strings.TrimSpace(*input.Address)
	}
	if input.Phone != nil {
		business.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.City != nil {
		business.City = strings.TrimSpace(*input.City)
	}
	if input.Website != nil {
		business.Website = strings.TrimSpace(*input.Website)
	}
	if input.Instagram != nil {
		business.Instagram = strings.TrimSpace(*input.Instagram)
	}
	if input.Categories != nil {
		if len(input.Categories) > constants.BusinessMaxCategories {
			return nil, ErrBusinessInvalid
		}
		business.Categories = strings.Join(input.Categories, ",")
	}
	if input.IsActive != nil {
		business.IsActive = *input.IsActive
	}

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}
	return business, nil
}

// ListForOwner 获取所有者的全部商家
func (s *BusinessService) ListForOwner(ownerID uint) ([]models.Business, error) {
	return s.businessRepo.ListByOwner(ownerID)
}

// GetBusiness 获取商家
func (s *BusinessService) GetBusiness(businessID uint) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}

// CreateProgramInput 创建集换卡输入
type CreateProgramInput struct {
	BusinessID        uint
	TotalSlots        int
	RewardDescription string
	Color             string
	StampShape        string
	BackgroundImage   string
}

// UpdateProgramInput 更新集换卡输入
// TotalSlots 不在其中：格数创建后不可改，已有会员卡进度不重算。
type UpdateProgramInput struct {
	RewardDescription *string
	Color             *string
	StampShape        *string
	BackgroundImage   *string
	IsActive          *bool
}

// CreateProgram 为商家创建集换卡
func (s *BusinessService) CreateProgram(ownerID uint, input CreateProgramInput) (*models.LoyaltyCard, error) {
	if input.TotalSlots < constants.LoyaltyCardMinSlots || input.TotalSlots > constants.LoyaltyCardMaxSlots {
		return nil, ErrProgramInvalid
	}
	if strings.TrimSpace(input.RewardDescription) == "" {
		return nil, ErrProgramInvalid
	}
	business, err := s.ownedBusiness(input.BusinessID, ownerID)
	if err != nil {
		return nil, err
	}

	program := &models.LoyaltyCard{
		BusinessID:        business.ID,
		TotalSlots:        input.TotalSlots,
		RewardDescription: strings.TrimSpace(input.RewardDescription),
		Color:             strings.TrimSpace(input.Color),
		StampShape:        strings.TrimSpace(input.StampShape),
		BackgroundImage:   strings.TrimSpace(input.BackgroundImage),
		IsActive:          true,
	}
	if err := s.loyaltyRepo.Create(program); err != nil {
		return nil, err
	}
	return program, nil
}

// UpdateProgram 更新集换卡（不含格数）
func (s *BusinessService) UpdateProgram(programID, ownerID uint, input UpdateProgramInput) (*models.LoyaltyCard, error) {
	program, err := s.ownedProgram(programID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.RewardDescription != nil {
		description := strings.TrimSpace(*input.RewardDescription)
		if description == "" {
			return nil, ErrProgramInvalid
		}
		program.RewardDescription = description
	}
	if input.Color != nil {
		program.Color = strings.TrimSpace(*input.Color)
	}
	if input.StampShape != nil {
		program.StampShape = strings.TrimSpace(*input.StampShape)
	}
	if input.BackgroundImage != nil {
		program.BackgroundImage = strings.TrimSpace(*input.BackgroundImage)
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.loyaltyRepo.Update(program); err != nil {
		return nil, err
	}
	return program, nil
}

// ListPrograms 获取商家的集换卡列表
func (s *BusinessService) ListPrograms(businessID, ownerID uint) ([]models.LoyaltyCard, error) {
	if _, err := s.ownedBusiness(businessID, ownerID); err != nil {
		return nil, err
	}
	return s.loyaltyRepo.ListByBusiness(businessID)
}

// OwnedProgram 校验并返回所有者名下的集换卡
func (s *BusinessService) OwnedProgram(programID, ownerID uint) (*models.LoyaltyCard, error) {
	return s.ownedProgram(programID, ownerID)
}

// OwnedBusiness 校验并返回所有者名下的商家
func (s *BusinessService) OwnedBusiness(businessID, ownerID uint) (*models.Business, error) {
	return s.ownedBusiness(businessID, ownerID)
}

func (s *BusinessService) ownedBusiness(businessID, ownerID uint) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	if business.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}
	return business, nil
}

func (s *BusinessService) ownedProgram(programID, ownerID uint) (*models.LoyaltyCard, error) {
	program, err := s.loyaltyRepo.GetByID(programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	if _, err := s.ownedBusiness(program.BusinessID, ownerID); err != nil {
		return nil, err
	}
	return program, nil
}
