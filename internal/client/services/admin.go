package services

import (
	"context"

	"github.com/dmitrijs2005/attendance/internal/client/models"
)

type AdminSource interface {
	Admin(ctx context.Context) (*models.AdminDashboard, error)
}

// AdminStats is the backend's aggregate plus the number of departments it
// flagged below the shortage threshold.
type AdminStats struct {
	*models.AdminDashboard
	DepartmentsBelow int
}

type AdminView interface {
	Stats(ctx context.Context) (*AdminStats, error)
}

type adminView struct {
	src AdminSource
}

func NewAdminView(src AdminSource) AdminView {
	return &adminView{src: src}
}

func (v *adminView) Stats(ctx context.Context) (*AdminStats, error) {
	d, err := v.src.Admin(ctx)
	if err != nil {
		return nil, err
	}
	s := &AdminStats{AdminDashboard: d}
	for _, dep := range d.Departments {
		if dep.BelowThreshold {
			s.DepartmentsBelow++
		}
	}
	return s, nil
}
