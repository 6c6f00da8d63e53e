package ports

import "github.com/crmbridge/matchgate/internal/domain"

type customerDTO struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
}

type employeeDTO struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Role       string   `json:"role,omitempty"`
	Department string   `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Bio        string   `json:"bio,omitempty"`
}

type matchDTO struct {
	Employee   employeeDTO `json:"employee"`
	Score      float64     `json:"score"`
	Confidence string      `json:"confidence,omitempty"`
	Source     string      `json:"source"`
}

func customerFromDTO(dto customerDTO) domain.Customer {
	return domain.Customer{
		ID:          dto.ID,
		Name:        dto.Name,
		Industry:    dto.Industry,
		Description: dto.Description,
	}
}

func employeeFromDTO(dto employeeDTO) domain.Employee {
	return domain.Employee{
		ID:         dto.ID,
		Name:       dto.Name,
		Role:       dto.Role,
		Department: dto.Department,
		Skills:     dto.Skills,
		Bio:        dto.Bio,
	}
}

func matchToDTO(result domain.MatchResult) matchDTO {
	return matchDTO{
		Employee: employeeDTO{
			ID:         result.Employee.ID,
			Name:       result.Employee.Name,
			Role:       result.Employee.Role,
			Department: result.Employee.Department,
			Skills:     result.Employee.Skills,
			Bio:        result.Employee.Bio,
		},
		Score:      result.Score,
		Confidence: string(result.Confidence),
		Source:     string(result.Source),
	}
}
