package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.False(t, e.CreatedAt().IsZero())
	assert.Equal(t, e.CreatedAt(), e.UpdatedAt())
}

func TestBaseEntity_Touch(t *testing.T) {
	e := NewBaseEntity()
	created := e.CreatedAt()

	time.Sleep(time.Millisecond)
	e.Touch()

	assert.Equal(t, created, e.CreatedAt())
	assert.True(t, e.UpdatedAt().After(created))
}

func TestBaseEntity_Equals(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	a := RehydrateBaseEntity(id, now, now)
	b := RehydrateBaseEntity(id, now.Add(time.Hour), now.Add(time.Hour))
	c := NewBaseEntity()

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.Empty(t, agg.DomainEvents())

	agg.AddDomainEvent(NewBaseEvent(agg.ID(), "test", "test.happened"))
	assert.Len(t, agg.DomainEvents(), 1)

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_Version(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.Equal(t, 0, agg.Version())

	agg.IncrementVersion()
	assert.Equal(t, 1, agg.Version())

	rehydrated := RehydrateBaseAggregateRoot(agg.BaseEntity, 7)
	assert.Equal(t, 7, rehydrated.Version())
	assert.Empty(t, rehydrated.DomainEvents())
}
