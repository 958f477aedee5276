package mapper

import (
	"consultation-be/internal/entity"
	"consultation-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      entity.UserRole(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: updatedAtPtr(u.UpdatedAt),
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: updatedAtValue(u.UpdatedAt),
	}
}

func (m *UserMapper) SpecialistProfileToModel(p *entity.SpecialistProfile) *model.SpecialistProfile {
	return &model.SpecialistProfile{UserId: p.UserId, Expertise: p.Expertise, Bio: p.Bio}
}

func (m *UserMapper) RequesterProfileToModel(p *entity.RequesterProfile) *model.RequesterProfile {
	return &model.RequesterProfile{UserId: p.UserId, FarmName: p.FarmName, Region: p.Region}
}
