package memory

import (
	"github.com/safesight-lab/safesight/pkg/domain/interfaces"
)

// Memory is an in-memory record store for development and tests
type Memory struct {
	incident *incidentRepository
	action   *actionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		incident: newIncidentRepository(),
		action:   newActionRepository(),
	}
}

func (m *Memory) Incident() interfaces.IncidentRepository {
	return m.incident
}

func (m *Memory) Action() interfaces.ActionRepository {
	return m.action
}

func (m *Memory) Close() error {
	return nil
}
