package memory

import (
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
)

// Memory is an in-memory repository. It is authoritative for a process's
// lifetime and safe for concurrent use. There is no eviction: memory grows
// monotonically with ingested content.
type Memory struct {
	notebook *notebookRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		notebook: newNotebookRepository(),
	}
}

func (m *Memory) Notebook() interfaces.NotebookRepository {
	return m.notebook
}

func (m *Memory) Close() error {
	return nil
}
