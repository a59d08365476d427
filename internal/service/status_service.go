package service

import (
	"context"

	"smartschool/backend/internal/dto"
	"smartschool/backend/internal/repository"
)

// StatusService 签到状态字典只读服务
type StatusService interface {
	List(ctx context.Context) ([]dto.StatusResponse, error)
}

type statusService struct {
	statuses repository.StatusRepository
}

// NewStatusService 创建状态字典服务
func NewStatusService(statuses repository.StatusRepository) StatusService {
	return &statusService{statuses: statuses}
}

func (s *statusService) List(ctx context.Context) ([]dto.StatusResponse, error) {
	statuses, err := s.statuses.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, dto.StatusResponse{
			ID:    st.StatusID,
			Code:  st.Code,
			Name:  st.Name,
			Color: st.Color,
		})
	}
	return out, nil
}
