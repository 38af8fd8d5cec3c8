package postgres

import (
	goerrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	errors "github.com/raccordement/raccordement-service/internal"
	"github.com/raccordement/raccordement-service/internal/core/datamodel/agent"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) GetByEmail(email string) (*agent.Agent, error) {
	var ag agent.Agent
	err := r.db.Where("email = ?", email).First(&ag).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load agent: %w", err)
	}
	return &ag, nil
}

func (r *AgentRepository) GetByID(id int64) (*agent.Agent, error) {
	var ag agent.Agent
	err := r.db.First(&ag, id).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load agent: %w", err)
	}
	return &ag, nil
}

// Create is used by the seeder.
func (r *AgentRepository) Create(ag *agent.Agent) error {
	now := time.Now()
	ag.CreatedAt = now
	ag.UpdatedAt = now
	if err := r.db.Create(ag).Error; err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}
