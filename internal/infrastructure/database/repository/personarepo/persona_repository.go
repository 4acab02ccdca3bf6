package personarepo

import (
	"context"

	"gorm.io/gorm"

	"persona-server/internal/domain/persona"
	"persona-server/internal/infrastructure/database/dbschema"
	"persona-server/internal/utils/platformerrors"
)

type PersonaGormRepository struct {
	db *gorm.DB
}

var _ persona.Repository = (*PersonaGormRepository)(nil)

func NewPersonaGormRepository(db *gorm.DB) persona.Repository {
	return &PersonaGormRepository{db: db}
}

func (repo *PersonaGormRepository) FindByPublicID(ctx context.Context, publicID string) (*persona.Record, error) {
	var entity dbschema.Persona
	err := repo.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find persona by public ID",
			err,
			"8c2f1a44-0f3e-4d9b-9c61-a5e7f2d1b803",
		)
	}
	return entity.EtoD(), nil
}
