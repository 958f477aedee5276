package implementation

import (
	"context"
	"errors"

	"consultation-be/internal/entity"
	"consultation-be/internal/mapper"
	"consultation-be/internal/model"
	"consultation-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) CreateSpecialistProfile(ctx context.Context, profile *entity.SpecialistProfile) error {
	return translateError(r.db.WithContext(ctx).Create(r.mapper.SpecialistProfileToModel(profile)).Error)
}

func (r *UserRepositoryImpl) CreateRequesterProfile(ctx context.Context, profile *entity.RequesterProfile) error {
	return translateError(r.db.WithContext(ctx).Create(r.mapper.RequesterProfileToModel(profile)).Error)
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *UserRepositoryImpl) findOne(query *gorm.DB) (*entity.User, error) {
	var m model.User
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
