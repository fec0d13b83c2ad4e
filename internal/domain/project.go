package domain

import (
	"time"

	"zenflow/internal/clock"
)

// Project groups tasks. Tasks reference it by ID and survive its deletion.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	DueDate   clock.Day `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectProgress summarises completion inside a project
type ProjectProgress struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

// Progress counts the tasks belonging to the project
func (p *Project) Progress(tasks []*Task) ProjectProgress {
	var progress ProjectProgress
	for _, t := range tasks {
		if t.ProjectID != p.ID {
			continue
		}
		progress.Total++
		if t.Completed {
			progress.Done++
		}
	}
	if progress.Total > 0 {
		progress.Percent = progress.Done * 100 / progress.Total
	}
	return progress
}

// Tag is a named label. Tasks store the name, not the ID.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}
