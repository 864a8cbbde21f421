package domain

import (
	"errors"
	"fmt"
)

type EntityType string

const (
	EntityIndividual EntityType = "individual"
	EntityTeam       EntityType = "team"
	EntityRegion     EntityType = "region"
)

var ErrUnknownEntityType = errors.New("unknown entity type")

func (e EntityType) Valid() bool {
	switch e {
	case EntityIndividual, EntityTeam, EntityRegion:
		return true
	}
	return false
}

// Entity é a variante fechada de quem pode receber uma meta ou um registro de performance.
// As implementações são IndividualEntity, TeamEntity e RegionEntity.
type Entity interface {
	Type() EntityType
	ID() int64
	isEntity()
}

type IndividualEntity struct{ UserID int64 }

type TeamEntity struct{ TeamID int64 }

type RegionEntity struct{ RegionID int64 }

func (IndividualEntity) Type() EntityType { return EntityIndividual }
func (i IndividualEntity) ID() int64      { return i.UserID }
func (IndividualEntity) isEntity()        {}

func (TeamEntity) Type() EntityType { return EntityTeam }
func (t TeamEntity) ID() int64      { return t.TeamID }
func (TeamEntity) isEntity()        {}

func (RegionEntity) Type() EntityType { return EntityRegion }
func (r RegionEntity) ID() int64      { return r.RegionID }
func (RegionEntity) isEntity()        {}

// NewEntity converte o discriminador persistido na variante correspondente
func NewEntity(entityType EntityType, id int64) (Entity, error) {
	switch entityType {
	case EntityIndividual:
		return IndividualEntity{UserID: id}, nil
	case EntityTeam:
		return TeamEntity{TeamID: id}, nil
	case EntityRegion:
		return RegionEntity{RegionID: id}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
}
